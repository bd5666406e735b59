package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/d697/bdobot/config"
	"github.com/spf13/cobra"
)

var version = "dev"

type runFlags struct {
	token     string
	tokenVar  string
	tokenFile string

	prefix          string
	extraPrefixes   []string
	mentionAsPrefix bool
	allowSelf       bool
	allowBots       bool
	caseSensitive   bool

	developerIDs    []string
	developerGuilds []string
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "bdobot",
		Short:         "Black Desert market Discord bot",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newRunCmd())
	return root
}

func newRunCmd() *cobra.Command {
	var f runFlags
	cmd := &cobra.Command{
		Use:   "run [flags]",
		Short: "Run the bot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			applyFlags(cmd, &f, cfg)
			if err := cfg.Validate(); err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&f.token, "token", "t", "", "run the bot using the provided token")
	flags.StringVar(&f.tokenVar, "token-var", "", "read the token from a different environment variable (default DISCORD_TOKEN)")
	flags.StringVar(&f.tokenFile, "token-file", "", "read the token from a file")
	cmd.MarkFlagsMutuallyExclusive("token", "token-var", "token-file")

	flags.StringVarP(&f.prefix, "prefix", "p", "", "prefix for bot commands")
	flags.StringSliceVar(&f.extraPrefixes, "extra-prefix", nil, "additional prefixes")
	flags.BoolVar(&f.mentionAsPrefix, "mention-as-prefix", false, "count mentions of the bot as a valid prefix")
	flags.BoolVar(&f.allowSelf, "allow-self-messages", false, "allow the bot to trigger commands from its own messages, requires --allow-bot-messages")
	flags.BoolVar(&f.allowBots, "allow-bot-messages", false, "allow other bots to trigger commands")
	flags.BoolVar(&f.caseSensitive, "case-sensitive", false, "make prefix commands case sensitive")
	flags.StringSliceVar(&f.developerIDs, "developer-id", nil, "allow users with the given IDs to run developer commands")
	flags.StringSliceVar(&f.developerGuilds, "developer-guild", nil, "allow developer commands to run in the given guilds")
	return cmd
}

// applyFlags overrides environment configuration with the flags set on the command line.
func applyFlags(cmd *cobra.Command, f *runFlags, cfg *config.Config) {
	changed := cmd.Flags().Changed

	// a token flag replaces every token source from the environment
	switch {
	case changed("token"):
		cfg.Bot.Token, cfg.Bot.TokenVar, cfg.Bot.TokenFile = f.token, "", ""
	case changed("token-var"):
		cfg.Bot.Token, cfg.Bot.TokenVar, cfg.Bot.TokenFile = "", f.tokenVar, ""
	case changed("token-file"):
		cfg.Bot.Token, cfg.Bot.TokenVar, cfg.Bot.TokenFile = "", "", f.tokenFile
	}

	if changed("prefix") {
		cfg.Bot.Prefix = f.prefix
	}
	if changed("extra-prefix") {
		cfg.Bot.ExtraPrefixes = f.extraPrefixes
	}
	if changed("mention-as-prefix") {
		cfg.Bot.MentionAsPrefix = f.mentionAsPrefix
	}
	if changed("allow-self-messages") {
		cfg.Bot.AllowSelfMessages = f.allowSelf
	}
	if changed("allow-bot-messages") {
		cfg.Bot.AllowBotMessages = f.allowBots
	}
	if changed("case-sensitive") {
		cfg.Bot.CaseSensitive = f.caseSensitive
	}
	if changed("developer-id") {
		cfg.Bot.DeveloperIDs = f.developerIDs
	}
	if changed("developer-guild") {
		cfg.Bot.DeveloperGuilds = f.developerGuilds
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}
