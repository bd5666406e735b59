package commands

import (
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/disgo/rest"
)

func userInfoEmbed(u discord.User) discord.Embed {
	return discord.NewEmbedBuilder().
		SetTitlef("%s's info", u.EffectiveName()).
		SetThumbnail(avatarURL(u)).
		SetColor(embedColor).
		AddField("Username", u.Username, true).
		AddField("ID", u.ID.String(), true).
		AddField("Display name", u.EffectiveName(), true).
		AddField("Bot", strconv.FormatBool(u.Bot), true).
		AddField("Created at", u.ID.Time().UTC().Format(time.RFC1123Z), true).
		AddField("System user", strconv.FormatBool(u.System), true).
		Build()
}

func targetUser(event *handler.CommandEvent) discord.User {
	if u, ok := event.SlashCommandInteractionData().OptUser("user"); ok {
		return u
	}
	return event.User()
}

func (h *Handlers) HandleUserInfo(event *handler.CommandEvent) error {
	return event.CreateMessage(
		discord.NewMessageCreateBuilder().
			AddEmbeds(userInfoEmbed(targetUser(event))).
			Build(),
	)
}

func (h *Handlers) HandleAvatar(event *handler.CommandEvent) error {
	u := targetUser(event)
	return event.CreateMessage(
		discord.NewMessageCreateBuilder().
			AddEmbeds(
				discord.NewEmbedBuilder().
					SetTitlef("%s's avatar", u.EffectiveName()).
					SetColor(embedColor).
					SetImage(avatarURL(u)).
					Build(),
			).
			Build(),
	)
}

func (h *Handlers) uptimeMessage() string {
	return "I've been running for: " + formatUptime(time.Since(h.started))
}

func (h *Handlers) HandleUptime(event *handler.CommandEvent) error {
	return event.CreateMessage(textResponse(h.uptimeMessage()))
}

// HandleKick is restricted to developers and only works inside a guild.
func (h *Handlers) HandleKick(event *handler.CommandEvent) error {
	if !h.isDeveloper(event.User().ID) {
		return sendInteractionError(event, "only developers can use this command", true)
	}
	guildID := event.GuildID()
	if guildID == nil {
		return sendInteractionError(event, "this command can only be used in a server", true)
	}

	data := event.SlashCommandInteractionData()
	member := data.User("member")
	reason, ok := data.OptString("reason")
	if !ok || reason == "" {
		reason = "no reason provided"
	}

	if err := event.Client().Rest().RemoveMember(*guildID, member.ID, rest.WithReason(reason)); err != nil {
		slog.Info("failed to kick a user",
			slog.Any("err", err),
			slog.String("user_id", member.ID.String()),
			slog.String("guild_id", guildID.String()),
		)
		return sendInteractionError(event, fmt.Sprintf("couldn't kick the user: %v", err), false)
	}

	slog.Info("kicked user",
		slog.String("user_id", member.ID.String()),
		slog.String("guild_id", guildID.String()),
		slog.String("reason", reason),
	)
	return event.CreateMessage(
		discord.NewMessageCreateBuilder().
			AddEmbeds(
				discord.NewEmbedBuilder().
					SetTitlef("%s was kicked", member.Username).
					SetThumbnail(avatarURL(member)).
					SetDescriptionf("The user was kicked for: %s", reason).
					SetTimestamp(time.Now()).
					SetColor(embedColor).
					Build(),
			).
			Build(),
	)
}
