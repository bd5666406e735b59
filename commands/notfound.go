package commands

import (
	"log/slog"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
)

// HandleNotFound answers interactions no handler is registered for, usually commands
// left over from an older registration.
func HandleNotFound(event *handler.InteractionEvent) error {
	slog.Warn("unhandled interaction", slog.String("user_id", event.Interaction.User().ID.String()))
	return event.CreateMessage(discord.MessageCreate{
		Content: "This command no longer exists.",
		Flags:   discord.MessageFlagEphemeral,
	})
}
