package market_test

import (
	"testing"

	"github.com/d697/bdobot/market"
)

func TestParseRegion(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    market.Region
		wantErr bool
	}{
		{"eu", market.RegionEU, false},
		{"EU", market.RegionEU, false},
		{"North America", market.RegionNA, false},
		{"console_na", market.RegionConsoleNA, false},
		{" jp ", market.RegionJP, false},
		{"mars", 0, true},
	}

	for _, tt := range tests {
		got, err := market.ParseRegion(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseRegion(%q) err %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseRegion(%q) got %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestRegionFromCode_roundTripsPersistedCodes(t *testing.T) {
	t.Parallel()

	for _, r := range market.AllRegions {
		got, err := market.RegionFromCode(int64(r))
		if err != nil || got != r {
			t.Errorf("RegionFromCode(%d) got %v, %v", r, got, err)
		}
	}
	if _, err := market.RegionFromCode(int64(len(market.AllRegions))); err == nil {
		t.Error("expected error for out of range code")
	}
}
