package commands

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/d697/bdobot/db"
	"github.com/d697/bdobot/items"
	"github.com/d697/bdobot/lookup"
	"github.com/d697/bdobot/market"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/disgo/handler/middleware"
	"github.com/disgoorg/snowflake/v2"
)

// DefaultTimeout bounds a single command's backend work.
const DefaultTimeout = 15 * time.Second

// ItemLookup resolves market items through the cache.
type ItemLookup interface {
	GetOrRefresh(ctx context.Context, itemID int64, region market.Region) (lookup.Result, error)
}

// Profiles stores registered players.
type Profiles interface {
	Get(ctx context.Context, id snowflake.ID) (db.Profile, bool, error)
	Upsert(ctx context.Context, p db.Profile) error
}

// WaitLister lists the market registration queue.
type WaitLister interface {
	WaitList(ctx context.Context, region market.Region) ([]market.WaitListItem, error)
}

// Deps are the services the command handlers need.
type Deps struct {
	Lookup   ItemLookup
	Profiles Profiles
	Market   WaitLister
	Items    *items.Index

	Prefix          PrefixOptions
	Developers      []snowflake.ID
	DeveloperGuilds []snowflake.ID
	Timeout         time.Duration
}

// Handlers serves slash and prefix commands.
type Handlers struct {
	lookup   ItemLookup
	profiles Profiles
	market   WaitLister
	items    *items.Index

	prefix          PrefixOptions
	developers      []snowflake.ID
	developerGuilds []snowflake.ID
	timeout         time.Duration

	started time.Time
	// intn returns a random number in [0, n)
	intn func(n int) int
}

func New(deps Deps) *Handlers {
	h := &Handlers{
		lookup:          deps.Lookup,
		profiles:        deps.Profiles,
		market:          deps.Market,
		items:           deps.Items,
		prefix:          deps.Prefix,
		developers:      deps.Developers,
		developerGuilds: deps.DeveloperGuilds,
		timeout:         deps.Timeout,
		started:         time.Now(),
		intn:            rand.IntN,
	}
	if h.timeout <= 0 {
		h.timeout = DefaultTimeout
	}
	if h.items == nil {
		h.items = items.New(nil)
	}
	return h
}

func (h *Handlers) isDeveloper(id snowflake.ID) bool {
	return slices.Contains(h.developers, id)
}

func (h *Handlers) isDeveloperGuild(id *snowflake.ID) bool {
	return id != nil && slices.Contains(h.developerGuilds, *id)
}

func (h *Handlers) context() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), h.timeout)
}

var (
	ephemeralOption = discord.ApplicationCommandOptionBool{
		Name:        "ephemeral",
		Description: "If the response should only be visible to you",
		Required:    false,
	}

	userOption = discord.ApplicationCommandOptionUser{
		Name:        "user",
		Description: "The user to show, defaults to you",
		Required:    false,
	}

	everywhere = []discord.InteractionContextType{
		discord.InteractionContextTypeGuild,
		discord.InteractionContextTypeBotDM,
		discord.InteractionContextTypePrivateChannel,
	}

	AllCommands = []discord.ApplicationCommandCreate{
		discord.SlashCommandCreate{
			Name:        "ping",
			Description: "Pong!",
			Contexts:    everywhere,
		},
		discord.SlashCommandCreate{
			Name:        "coinflip",
			Description: "Flip a coin",
			Contexts:    everywhere,
		},
		discord.SlashCommandCreate{
			Name:        "dice",
			Description: "Roll a 6-sided die",
			Contexts:    everywhere,
		},
		discord.SlashCommandCreate{
			Name:        "8ball",
			Description: "Helps you make a decision",
			Contexts:    everywhere,
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionString{
					Name:        "question",
					Description: "What to ask the ball",
					Required:    false,
				},
			},
		},
		RegisterCommand,
		discord.SlashCommandCreate{
			Name:        "profile",
			Description: "Displays your profile",
			Contexts:    everywhere,
		},
		discord.SlashCommandCreate{
			Name:        "registration_queue",
			Description: "Lists the registration queue for your region",
			Contexts:    everywhere,
		},
		discord.SlashCommandCreate{
			Name:        "get_id",
			Description: "Find the ID of an item",
			Contexts:    everywhere,
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionString{
					Name:        "search_term",
					Description: "The search term",
					Required:    true,
				},
			},
		},
		PriceCommand,
		discord.SlashCommandCreate{
			Name:        "userinfo",
			Description: "Displays info about a user",
			Contexts:    everywhere,
			Options:     []discord.ApplicationCommandOption{userOption},
		},
		discord.SlashCommandCreate{
			Name:        "avatar",
			Description: "Shows the avatar of a user",
			Contexts:    everywhere,
			Options:     []discord.ApplicationCommandOption{userOption},
		},
		discord.SlashCommandCreate{
			Name:        "uptime",
			Description: "Shows how long the bot has been running",
			Contexts:    everywhere,
		},
		discord.SlashCommandCreate{
			Name:        "kick",
			Description: "Kicks a user from the guild",
			Contexts:    []discord.InteractionContextType{discord.InteractionContextTypeGuild},
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionUser{
					Name:        "member",
					Description: "The user to kick",
					Required:    true,
				},
				discord.ApplicationCommandOptionString{
					Name:        "reason",
					Description: "The reason for kicking them",
					Required:    false,
				},
			},
		},
	}
)

func regionChoices() []discord.ApplicationCommandOptionChoiceString {
	choices := make([]discord.ApplicationCommandOptionChoiceString, 0, len(market.AllRegions))
	for _, r := range market.AllRegions {
		choices = append(choices, discord.ApplicationCommandOptionChoiceString{Name: r.DisplayName(), Value: r.String()})
	}
	return choices
}

// Register registers all command and autocomplete handlers with the router.
func (h *Handlers) Register(r handler.Router) error {
	mux, ok := r.(*handler.Mux)
	if !ok {
		return fmt.Errorf("Register requires a *handler.Mux, but received %T", r)
	}

	mux.Use(middleware.Logger)
	mux.Use(RequestLogger)

	mux.Command("/ping", h.HandlePing)
	mux.Command("/coinflip", h.HandleCoinflip)
	mux.Command("/dice", h.HandleDice)
	mux.Command("/8ball", h.Handle8Ball)

	mux.Command("/register", h.HandleRegister)
	mux.Command("/profile", h.HandleProfile)
	mux.Command("/registration_queue", h.HandleRegistrationQueue)
	mux.Command("/get_id", h.HandleGetID)
	mux.Command("/price", h.HandlePrice)
	mux.Autocomplete("/price", h.HandleItemAutocomplete)

	mux.Command("/userinfo", h.HandleUserInfo)
	mux.Command("/avatar", h.HandleAvatar)
	mux.Command("/uptime", h.HandleUptime)
	mux.Command("/kick", h.HandleKick)

	mux.NotFound(HandleNotFound)

	slog.Info("command handlers registered", slog.Int("commands", len(AllCommands)))
	return nil
}
