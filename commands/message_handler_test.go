package commands

import (
	"testing"

	"github.com/disgoorg/snowflake/v2"
)

const selfID snowflake.ID = 1052237329390530671

func TestPrefixOptionsParse(t *testing.T) {
	t.Parallel()

	opts := PrefixOptions{
		Prefix:          "!",
		ExtraPrefixes:   []string{"bdo ", "?"},
		MentionAsPrefix: true,
		CaseInsensitive: true,
	}

	tests := []struct {
		name     string
		opts     PrefixOptions
		content  string
		wantName string
		wantArgs string
		wantOK   bool
	}{
		{"main prefix", opts, "!ping", "ping", "", true},
		{"extra prefix", opts, "bdo get_id black stone", "get_id", "black stone", true},
		{"second extra prefix", opts, "?cf", "cf", "", true},
		{"case folded", opts, "!PiNg", "ping", "", true},
		{"surrounding whitespace", opts, "  !say   hello there  ", "say", "hello there", true},
		{"mention", opts, "<@1052237329390530671> dice", "dice", "", true},
		{"nick mention", opts, "<@!1052237329390530671> 8b will it drop?", "8b", "will it drop?", true},
		{"other mention", opts, "<@42> dice", "", "", false},
		{"no prefix", opts, "ping", "", "", false},
		{"prefix only", opts, "!", "", "", false},
		{"prefix then space", opts, "! ping", "ping", "", true},
		{"case sensitive", PrefixOptions{Prefix: "!"}, "!PING", "PING", "", true},
		{"mention disabled", PrefixOptions{Prefix: "!"}, "<@1052237329390530671> ping", "", "", false},
		{"empty message", opts, "", "", "", false},
	}

	for _, tt := range tests {
		name, args, ok := tt.opts.Parse(tt.content, selfID)
		if ok != tt.wantOK || name != tt.wantName || args != tt.wantArgs {
			t.Errorf("%s: Parse(%q) got (%q, %q, %v), want (%q, %q, %v)",
				tt.name, tt.content, name, args, ok, tt.wantName, tt.wantArgs, tt.wantOK)
		}
	}
}

func TestPrefixOptionsAccepts(t *testing.T) {
	t.Parallel()

	const human, otherBot snowflake.ID = 10, 20

	tests := []struct {
		name   string
		opts   PrefixOptions
		author snowflake.ID
		isBot  bool
		want   bool
	}{
		{"human", PrefixOptions{IgnoreBots: true}, human, false, true},
		{"bot ignored", PrefixOptions{IgnoreBots: true}, otherBot, true, false},
		{"bot allowed", PrefixOptions{}, otherBot, true, true},
		{"self disabled", PrefixOptions{}, selfID, true, false},
		{"self enabled", PrefixOptions{ExecuteSelfMessages: true}, selfID, true, true},
		{"self needs bots allowed", PrefixOptions{ExecuteSelfMessages: true, IgnoreBots: true}, selfID, true, false},
	}

	for _, tt := range tests {
		if got := tt.opts.Accepts(tt.author, selfID, tt.isBot); got != tt.want {
			t.Errorf("%s: got %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestFindPrefixCommand(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		found     bool
		developer bool
	}{
		{"ping", true, false},
		{"coinflip", true, false},
		{"cf", true, false},
		{"dice", true, false},
		{"d6", true, false},
		{"8ball", true, false},
		{"8b", true, false},
		{"get_id", true, false},
		{"uptime", true, false},
		{"say", true, true},
		{"devregister", true, true},
		{"PING", false, false},
		{"kick", false, false},
	}

	for _, tt := range tests {
		cmd, ok := findPrefixCommand(tt.name)
		if ok != tt.found {
			t.Errorf("%s: found got %v, want %v", tt.name, ok, tt.found)
			continue
		}
		if ok && cmd.developerOnly != tt.developer {
			t.Errorf("%s: developerOnly got %v, want %v", tt.name, cmd.developerOnly, tt.developer)
		}
	}
}
