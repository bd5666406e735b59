package commands

import (
	"fmt"
	"time"
	"unicode"

	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/snowflake/v2"
)

const (
	embedColor      = 0xff0000
	errorColor      = 0xf54242
	defaultAvatar   = "https://cdn.discordapp.com/embed/avatars/0.png"
	maxEmbedFields  = 25
	maxAutocomplete = 25
)

func errorEmbed(msg string) discord.Embed {
	return discord.NewEmbedBuilder().
		SetColor(errorColor).
		SetTitle("❌ Error").
		SetTimestamp(time.Now()).
		SetDescription(toTitle(msg)).
		Build()
}

// sendInteractionError sends a formatted error message as a response to a command event.
func sendInteractionError(event *handler.CommandEvent, msg string, ephemeral bool) error {
	return event.CreateMessage(
		discord.NewMessageCreateBuilder().
			SetAllowedMentions(&discord.AllowedMentions{
				RepliedUser: false,
			}).
			SetEphemeral(ephemeral).
			AddEmbeds(errorEmbed(msg)).
			Build(),
	)
}

// updateInteractionError replaces a deferred interaction response with a formatted error message.
func updateInteractionError(event *handler.CommandEvent, msg string) error {
	_, err := event.UpdateInteractionResponse(
		discord.NewMessageUpdateBuilder().
			AddEmbeds(errorEmbed(msg)).
			Build(),
	)
	return err
}

// sendPrettyError sends a formatted error message as a reply to a regular message.
func sendPrettyError(client bot.Client, msg string, channelID, messageID snowflake.ID) error {
	_, err := client.Rest().CreateMessage(
		channelID,
		discord.NewMessageCreateBuilder().
			SetMessageReferenceByID(messageID).
			SetAllowedMentions(&discord.AllowedMentions{
				RepliedUser: false,
			}).
			AddEmbeds(errorEmbed(msg)).
			Build(),
	)
	return err
}

// reply answers a regular message with plain text.
func reply(client bot.Client, channelID, messageID snowflake.ID, content string) error {
	_, err := client.Rest().CreateMessage(
		channelID,
		discord.NewMessageCreateBuilder().
			SetContent(content).
			SetMessageReferenceByID(messageID).
			SetAllowedMentions(&discord.AllowedMentions{RepliedUser: false}).
			Build(),
	)
	return err
}

// toTitle capitalizes the first letter of a string.
func toTitle(str string) string {
	if len(str) == 0 {
		return str
	}
	runes := []rune(str)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

// ellipsisTrim trims a string to a maximum length, adding an ellipsis if trimmed.
func ellipsisTrim(s string, length int) string {
	r := []rune(s)
	if len(r) > length {
		return string(r[:length-1]) + "…"
	}
	return s
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

// formatUptime renders d as HH:MM:SS, letting hours grow past 24.
func formatUptime(d time.Duration) string {
	d = d.Truncate(time.Second)
	h := int64(d / time.Hour)
	m := int64(d/time.Minute) % 60
	s := int64(d/time.Second) % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// chunkFields splits fields into groups that fit in a single embed.
func chunkFields(fields []discord.EmbedField) [][]discord.EmbedField {
	var chunks [][]discord.EmbedField
	for start := 0; start < len(fields); start += maxEmbedFields {
		chunks = append(chunks, fields[start:min(start+maxEmbedFields, len(fields))])
	}
	return chunks
}

func avatarURL(u discord.User) string {
	if url := u.EffectiveAvatarURL(); url != "" {
		return url
	}
	return defaultAvatar
}

func ptr[T any](v T) *T {
	return &v
}
