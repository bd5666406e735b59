// Package config loads bot configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// DefaultTokenVar is read when no other token source is configured.
const DefaultTokenVar = "DISCORD_TOKEN"

// ErrNoToken is returned when no token source yields a token.
var ErrNoToken = errors.New("no discord token found")

// Config holds all bot configuration.
type Config struct {
	Bot    BotConfig
	Store  StoreConfig
	Market MarketConfig
	Lookup LookupConfig
	Log    LogConfig
	Items  ItemsConfig
}

// BotConfig holds Discord settings. At most one of Token, TokenVar and TokenFile should be set.
type BotConfig struct {
	Token     string `envconfig:"BOT_TOKEN"`
	TokenVar  string `envconfig:"BOT_TOKEN_VAR"`
	TokenFile string `envconfig:"BOT_TOKEN_FILE"`

	Prefix            string   `envconfig:"BOT_PREFIX" default:"!"`
	ExtraPrefixes     []string `envconfig:"BOT_EXTRA_PREFIXES"`
	MentionAsPrefix   bool     `envconfig:"BOT_MENTION_AS_PREFIX" default:"false"`
	AllowSelfMessages bool     `envconfig:"BOT_ALLOW_SELF_MESSAGES" default:"false"`
	AllowBotMessages  bool     `envconfig:"BOT_ALLOW_BOT_MESSAGES" default:"false"`
	CaseSensitive     bool     `envconfig:"BOT_CASE_SENSITIVE" default:"false"`

	DeveloperIDs    []string `envconfig:"BOT_DEVELOPER_IDS"`
	DeveloperGuilds []string `envconfig:"BOT_DEVELOPER_GUILDS"`

	CommandTimeout time.Duration `envconfig:"BOT_COMMAND_TIMEOUT" default:"15s"`
}

// StoreConfig selects and configures the item cache backend.
type StoreConfig struct {
	Backend    string `envconfig:"STORE_BACKEND" default:"sqlite"` // sqlite or redis
	SQLitePath string `envconfig:"STORE_SQLITE_PATH" default:"bdo_items.sqlite"`

	RedisAddr      string `envconfig:"STORE_REDIS_ADDR" default:"localhost:6379"`
	RedisPassword  string `envconfig:"STORE_REDIS_PASSWORD" default:""`
	RedisDB        int    `envconfig:"STORE_REDIS_DB" default:"0"`
	RedisKeyPrefix string `envconfig:"STORE_REDIS_KEY_PREFIX" default:"bdobot:item"`
}

// MarketConfig configures the trade market client.
type MarketConfig struct {
	BaseURL string        `envconfig:"MARKET_BASE_URL" default:""`
	Timeout time.Duration `envconfig:"MARKET_TIMEOUT" default:"30s"`
	Rate    float64       `envconfig:"MARKET_RATE" default:"0"` // requests per second, 0 is unlimited
	Burst   int           `envconfig:"MARKET_BURST" default:"1"`
}

type LookupConfig struct {
	Deduplicate    bool          `envconfig:"LOOKUP_DEDUPLICATE" default:"false"`
	RefreshTimeout time.Duration `envconfig:"LOOKUP_REFRESH_TIMEOUT" default:"30s"`
}

type LogConfig struct {
	Level string `envconfig:"LOG_LEVEL" default:"info"`
}

type ItemsConfig struct {
	CatalogPath string `envconfig:"ITEMS_CATALOG_PATH" default:""`
}

// Load reads configuration from the environment, after loading .env if present. The
// result is not validated, see Validate.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// Validate checks values envconfig cannot.
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case "sqlite", "redis":
	default:
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}
	if c.Market.Rate < 0 {
		return fmt.Errorf("market rate must not be negative, got %v", c.Market.Rate)
	}
	if c.Market.Rate > 0 && c.Market.Burst < 1 {
		return fmt.Errorf("market burst must be at least 1, got %d", c.Market.Burst)
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		return err
	}
	sources := 0
	for _, s := range []string{c.Bot.Token, c.Bot.TokenVar, c.Bot.TokenFile} {
		if s != "" {
			sources++
		}
	}
	if sources > 1 {
		return errors.New("only one of token, token variable and token file may be set")
	}
	return nil
}

// SlogLevel parses Level ("debug", "info", "warn", "error").
func (l LogConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", l.Level, err)
	}
	return level, nil
}

// ResolveToken returns the bot token from the first configured source: the token
// itself, the named environment variable, the token file, then DISCORD_TOKEN.
func (b BotConfig) ResolveToken() (string, error) {
	var (
		token  string
		source string
	)
	switch {
	case b.Token != "":
		token, source = b.Token, "token"
	case b.TokenVar != "":
		token, source = os.Getenv(b.TokenVar), "environment variable "+b.TokenVar
	case b.TokenFile != "":
		data, err := os.ReadFile(b.TokenFile)
		if err != nil {
			return "", fmt.Errorf("failed to read token file: %w", err)
		}
		token, source = string(data), "file "+b.TokenFile
	default:
		token, source = os.Getenv(DefaultTokenVar), "environment variable "+DefaultTokenVar
	}

	token = strings.TrimSpace(token)
	if token == "" {
		return "", fmt.Errorf("%w: %s is empty", ErrNoToken, source)
	}
	return token, nil
}

// Developers parses DeveloperIDs.
func (b BotConfig) Developers() ([]snowflake.ID, error) {
	return parseIDs(b.DeveloperIDs)
}

// Guilds parses DeveloperGuilds.
func (b BotConfig) Guilds() ([]snowflake.ID, error) {
	return parseIDs(b.DeveloperGuilds)
}

func parseIDs(raw []string) ([]snowflake.ID, error) {
	ids := make([]snowflake.ID, 0, len(raw))
	for _, s := range raw {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		id, err := snowflake.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("invalid snowflake %q: %w", s, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
