package commands

import (
	"log/slog"

	"github.com/disgoorg/disgo/events"
)

// prefixSay deletes the invoking message and repeats its text.
func (h *Handlers) prefixSay(event *events.MessageCreate, args string) error {
	if args == "" {
		return nil
	}

	rest := event.Client().Rest()
	if err := rest.DeleteMessage(event.ChannelID, event.MessageID); err != nil {
		slog.Warn("failed to delete a message that invoked say", slog.Any("err", err))
	} else {
		slog.Info("deleted a message that invoked say", slog.String("channel_id", event.ChannelID.String()))
	}

	_, err := rest.CreateMessage(event.ChannelID, textResponse(args))
	return err
}

// prefixDevRegister re-registers the slash commands for the current guild, which
// Discord applies immediately unlike global registration.
func (h *Handlers) prefixDevRegister(event *events.MessageCreate, _ string) error {
	client := event.Client()
	if !h.isDeveloperGuild(event.GuildID) {
		return reply(client, event.ChannelID, event.MessageID, "Rerun the command in a testing guild.")
	}

	cmds, err := client.Rest().SetGuildCommands(client.ApplicationID(), *event.GuildID, AllCommands)
	if err != nil {
		return err
	}
	slog.Info("registered guild commands", slog.String("guild_id", event.GuildID.String()), slog.Int("commands", len(cmds)))
	return reply(client, event.ChannelID, event.MessageID, "Registered commands in this guild.")
}
