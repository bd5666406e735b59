package commands

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/snowflake/v2"
)

// PrefixOptions controls which messages are treated as prefix commands.
type PrefixOptions struct {
	Prefix        string
	ExtraPrefixes []string
	// MentionAsPrefix accepts "@bot command" in addition to the prefixes.
	MentionAsPrefix bool
	// ExecuteSelfMessages runs commands from the bot's own messages. It has no effect
	// while IgnoreBots is set.
	ExecuteSelfMessages bool
	IgnoreBots          bool
	CaseInsensitive     bool
}

// Parse splits content into a command name and its arguments. ok is false when the
// message does not start with a prefix or names no command.
func (o PrefixOptions) Parse(content string, selfID snowflake.ID) (name, args string, ok bool) {
	rest, ok := o.stripPrefix(strings.TrimSpace(content), selfID)
	if !ok {
		return "", "", false
	}
	rest = strings.TrimSpace(rest)
	name, args, _ = strings.Cut(rest, " ")
	if name == "" {
		return "", "", false
	}
	if o.CaseInsensitive {
		name = strings.ToLower(name)
	}
	return name, strings.TrimSpace(args), true
}

func (o PrefixOptions) stripPrefix(content string, selfID snowflake.ID) (string, bool) {
	prefixes := make([]string, 0, len(o.ExtraPrefixes)+1)
	if o.Prefix != "" {
		prefixes = append(prefixes, o.Prefix)
	}
	prefixes = append(prefixes, o.ExtraPrefixes...)
	for _, p := range prefixes {
		if p != "" && strings.HasPrefix(content, p) {
			return content[len(p):], true
		}
	}

	if o.MentionAsPrefix && selfID != 0 {
		for _, mention := range []string{"<@" + selfID.String() + ">", "<@!" + selfID.String() + ">"} {
			if strings.HasPrefix(content, mention) {
				return content[len(mention):], true
			}
		}
	}
	return "", false
}

// Accepts reports whether a message from the given author may run commands.
func (o PrefixOptions) Accepts(authorID, selfID snowflake.ID, authorIsBot bool) bool {
	if authorID == selfID {
		return o.ExecuteSelfMessages && !o.IgnoreBots
	}
	if authorIsBot {
		return !o.IgnoreBots
	}
	return true
}

type prefixCommand struct {
	names         []string
	developerOnly bool
	run           func(h *Handlers, event *events.MessageCreate, args string) error
}

var prefixCommands = []prefixCommand{
	{names: []string{"ping"}, run: func(h *Handlers, e *events.MessageCreate, _ string) error {
		return reply(e.Client(), e.ChannelID, e.MessageID, "pong!")
	}},
	{names: []string{"coinflip", "cf"}, run: func(h *Handlers, e *events.MessageCreate, _ string) error {
		return reply(e.Client(), e.ChannelID, e.MessageID, h.coinflip())
	}},
	{names: []string{"dice", "d6"}, run: func(h *Handlers, e *events.MessageCreate, _ string) error {
		return reply(e.Client(), e.ChannelID, e.MessageID, h.dice())
	}},
	{names: []string{"8ball", "8b"}, run: func(h *Handlers, e *events.MessageCreate, _ string) error {
		return reply(e.Client(), e.ChannelID, e.MessageID, h.eightBall())
	}},
	{names: []string{"uptime"}, run: func(h *Handlers, e *events.MessageCreate, _ string) error {
		return reply(e.Client(), e.ChannelID, e.MessageID, h.uptimeMessage())
	}},
	{names: []string{"get_id"}, run: (*Handlers).prefixGetID},
	{names: []string{"say"}, developerOnly: true, run: (*Handlers).prefixSay},
	{names: []string{"devregister"}, developerOnly: true, run: (*Handlers).prefixDevRegister},
}

// findPrefixCommand resolves a command name or alias. Names are compared exactly; case
// folding happens in PrefixOptions.Parse.
func findPrefixCommand(name string) (prefixCommand, bool) {
	for _, cmd := range prefixCommands {
		for _, n := range cmd.names {
			if n == name {
				return cmd, true
			}
		}
	}
	return prefixCommand{}, false
}

// OnMessageCreate runs prefix commands.
func (h *Handlers) OnMessageCreate(event *events.MessageCreate) {
	author := event.Message.Author
	selfID := event.Client().ID()
	if !h.prefix.Accepts(author.ID, selfID, author.Bot) {
		return
	}

	name, args, ok := h.prefix.Parse(event.Message.Content, selfID)
	if !ok {
		return
	}
	cmd, ok := findPrefixCommand(name)
	if !ok {
		return
	}
	if cmd.developerOnly && !h.isDeveloper(author.ID) {
		slog.Info("ignored developer command", slog.String("command", name), slog.String("user_id", author.ID.String()))
		return
	}

	logger := slog.With(slog.String("command", name), slog.String("user_id", author.ID.String()))
	logger.Debug("running prefix command")
	if err := cmd.run(h, event, args); err != nil {
		logger.Error("prefix command failed", slog.Any("err", err))
		if err := sendPrettyError(event.Client(), fmt.Sprintf("%s failed", name), event.ChannelID, event.MessageID); err != nil {
			logger.Error("failed to report prefix command error", slog.Any("err", err))
		}
	}
}

func (h *Handlers) prefixGetID(event *events.MessageCreate, args string) error {
	if args == "" {
		return reply(event.Client(), event.ChannelID, event.MessageID, "Usage: get_id <search term>")
	}
	_, err := event.Client().Rest().CreateMessage(event.ChannelID, h.getIDMessage(args))
	return err
}
