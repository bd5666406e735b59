package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/d697/bdobot/commands"
	"github.com/d697/bdobot/config"
	"github.com/d697/bdobot/db"
	"github.com/d697/bdobot/items"
	"github.com/d697/bdobot/lookup"
	"github.com/d697/bdobot/market"
	"github.com/disgoorg/disgo"
	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/gateway"
	"github.com/disgoorg/disgo/handler"
	"github.com/lmittmann/tint"
)

func newLogger(cfg config.LogConfig) (*slog.Logger, error) {
	level, err := cfg.SlogLevel()
	if err != nil {
		return nil, err
	}
	return slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.DateTime,
	})), nil
}

// openItemStore returns the configured item cache and a function releasing it.
func openItemStore(ctx context.Context, cfg config.StoreConfig, sqlDB *sql.DB) (lookup.Store, func(), error) {
	switch cfg.Backend {
	case "redis":
		store, err := db.NewRedisItemStore(ctx, db.RedisConfig{
			Addr:      cfg.RedisAddr,
			Password:  cfg.RedisPassword,
			DB:        cfg.RedisDB,
			KeyPrefix: cfg.RedisKeyPrefix,
		})
		if err != nil {
			return nil, nil, err
		}
		return store, func() {
			if err := store.Close(); err != nil {
				slog.Warn("failed to close redis", slog.Any("err", err))
			}
		}, nil
	default:
		return db.NewItemStore(sqlDB), func() {}, nil
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	logger, err := newLogger(cfg.Log)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)
	slog.Info("bdobot booting up...", slog.String("version", version))
	slog.Info("disgo version", slog.String("version", disgo.Version))

	token, err := cfg.Bot.ResolveToken()
	if err != nil {
		return fmt.Errorf("%w; set DISCORD_TOKEN or pass --token, --token-var or --token-file", err)
	}
	developers, err := cfg.Bot.Developers()
	if err != nil {
		return err
	}
	developerGuilds, err := cfg.Bot.Guilds()
	if err != nil {
		return err
	}

	catalog, err := items.Load(cfg.Items.CatalogPath)
	if err != nil {
		return err
	}
	slog.Info("loaded item catalog", slog.Int("items", catalog.Len()))

	// profiles always live in sqlite, items follow the configured backend
	sqlDB, err := db.Open(cfg.Store.SQLitePath)
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	itemStore, closeStore, err := openItemStore(ctx, cfg.Store, sqlDB)
	if err != nil {
		return err
	}
	defer closeStore()

	marketClient := market.NewClient(market.Options{
		BaseURL: cfg.Market.BaseURL,
		Timeout: cfg.Market.Timeout,
		Rate:    cfg.Market.Rate,
		Burst:   cfg.Market.Burst,
	})

	lookupOpts := []lookup.Option{lookup.WithLogger(logger.With(slog.String("component", "lookup")))}
	if cfg.Lookup.Deduplicate {
		lookupOpts = append(lookupOpts,
			lookup.WithDeduplication(),
			lookup.WithRefreshTimeout(cfg.Lookup.RefreshTimeout),
		)
	}

	h := commands.New(commands.Deps{
		Lookup:   lookup.NewService(itemStore, marketClient, lookupOpts...),
		Profiles: db.NewUsers(sqlDB),
		Market:   marketClient,
		Items:    catalog,
		Prefix: commands.PrefixOptions{
			Prefix:              cfg.Bot.Prefix,
			ExtraPrefixes:       cfg.Bot.ExtraPrefixes,
			MentionAsPrefix:     cfg.Bot.MentionAsPrefix,
			ExecuteSelfMessages: cfg.Bot.AllowSelfMessages,
			IgnoreBots:          !cfg.Bot.AllowBotMessages,
			CaseInsensitive:     !cfg.Bot.CaseSensitive,
		},
		Developers:      developers,
		DeveloperGuilds: developerGuilds,
		Timeout:         cfg.Bot.CommandTimeout,
	})

	r := handler.New()
	if err := h.Register(r); err != nil {
		return err
	}

	client, err := disgo.New(token,
		bot.WithGatewayConfigOpts(gateway.WithIntents(
			gateway.IntentGuilds,
			gateway.IntentGuildMessages,
			gateway.IntentMessageContent,
			gateway.IntentDirectMessages,
		)),
		bot.WithEventListeners(r),
		bot.WithEventListenerFunc(h.OnMessageCreate),
	)
	if err != nil {
		return fmt.Errorf("error while building disgo instance: %w", err)
	}
	defer client.Close(context.TODO())

	if _, err = client.Rest().SetGlobalCommands(client.ApplicationID(), commands.AllCommands); err != nil {
		return fmt.Errorf("error while registering commands: %w", err)
	}

	if err = client.OpenGateway(ctx); err != nil {
		return fmt.Errorf("error while opening gateway: %w", err)
	}

	slog.Info("bdobot running. ctrl+c to stop")
	<-ctx.Done()
	slog.Info("shutting down...")
	return nil
}
