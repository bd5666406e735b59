package commands

import (
	"fmt"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
)

// eightBallAnswers is indexed by a roll of 1..25 minus one; the first ten rolls map
// pairwise onto five negative answers.
var eightBallAnswers = [25]string{
	"Don't count on it", "Don't count on it",
	"My reply is no", "My reply is no",
	"My sources say no", "My sources say no",
	"Outlook not so good", "Outlook not so good",
	"Very doubtful", "Very doubtful",
	"Reply hazy, try again",
	"Ask again later",
	"Better not tell you now",
	"Cannot predict now",
	"Concentrate and ask again",
	"It is certain",
	"It is decidedly so",
	"Without a doubt",
	"Yes definitely",
	"You may rely on it",
	"As I see it, yes",
	"Most likely",
	"Outlook good",
	"Yes",
	"Signs point to yes",
}

// eightBall maps a roll in 1..25 to its answer.
func eightBall(roll int) string {
	if roll < 1 || roll > len(eightBallAnswers) {
		return ""
	}
	return eightBallAnswers[roll-1]
}

func (h *Handlers) coinflip() string {
	if h.intn(2) == 0 {
		return "The coin landed on **heads**."
	}
	return "The coin landed on **tails**."
}

func (h *Handlers) dice() string {
	return fmt.Sprintf("You rolled a %d.", h.intn(6)+1)
}

func (h *Handlers) eightBall() string {
	return eightBall(h.intn(len(eightBallAnswers)) + 1)
}

func textResponse(content string) discord.MessageCreate {
	return discord.NewMessageCreateBuilder().
		SetContent(content).
		SetAllowedMentions(&discord.AllowedMentions{RepliedUser: false}).
		Build()
}

func (h *Handlers) HandlePing(event *handler.CommandEvent) error {
	return event.CreateMessage(textResponse("pong!"))
}

func (h *Handlers) HandleCoinflip(event *handler.CommandEvent) error {
	return event.CreateMessage(textResponse(h.coinflip()))
}

func (h *Handlers) HandleDice(event *handler.CommandEvent) error {
	return event.CreateMessage(textResponse(h.dice()))
}

// Handle8Ball ignores the question.
func (h *Handlers) Handle8Ball(event *handler.CommandEvent) error {
	return event.CreateMessage(textResponse(h.eightBall()))
}
