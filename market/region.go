package market

import (
	"fmt"
	"strings"
)

// Region is a Black Desert game region. The integer value is what gets persisted, so the
// order of the constants must never change.
type Region int

const (
	RegionEU Region = iota
	RegionNA
	RegionSEA
	RegionKR
	RegionRU
	RegionJP
	RegionConsoleEU
	RegionConsoleNA
)

// AllRegions lists every supported region in persistence order.
var AllRegions = []Region{
	RegionEU,
	RegionNA,
	RegionSEA,
	RegionKR,
	RegionRU,
	RegionJP,
	RegionConsoleEU,
	RegionConsoleNA,
}

var regionInfo = map[Region]struct {
	code    string
	display string
	baseURL string
}{
	RegionEU:        {"eu", "Europe", "https://eu-trade.naeu.playblackdesert.com"},
	RegionNA:        {"na", "North America", "https://na-trade.naeu.playblackdesert.com"},
	RegionSEA:       {"sea", "Southeast Asia", "https://trade.sea.playblackdesert.com"},
	RegionKR:        {"kr", "Korea", "https://trade.kr.playblackdesert.com"},
	RegionRU:        {"ru", "Russia", "https://trade.ru.playblackdesert.com"},
	RegionJP:        {"jp", "Japan", "https://trade.jp.playblackdesert.com"},
	RegionConsoleEU: {"console_eu", "EU Console", "https://eu-trade.console.playblackdesert.com"},
	RegionConsoleNA: {"console_na", "NA Console", "https://na-trade.console.playblackdesert.com"},
}

// Valid reports whether r is one of the known regions.
func (r Region) Valid() bool {
	_, ok := regionInfo[r]
	return ok
}

// String returns the short region code, e.g. "eu".
func (r Region) String() string {
	if info, ok := regionInfo[r]; ok {
		return info.code
	}
	return fmt.Sprintf("region(%d)", int(r))
}

// DisplayName returns the human readable region name shown in embeds.
func (r Region) DisplayName() string {
	if info, ok := regionInfo[r]; ok {
		return info.display
	}
	return "Unknown"
}

func (r Region) baseURL() string {
	return regionInfo[r].baseURL
}

// ParseRegion accepts either the short code ("console_eu") or the display name
// ("EU Console"), case-insensitively.
func ParseRegion(s string) (Region, error) {
	s = strings.TrimSpace(s)
	for _, r := range AllRegions {
		info := regionInfo[r]
		if strings.EqualFold(s, info.code) || strings.EqualFold(s, info.display) {
			return r, nil
		}
	}
	return 0, fmt.Errorf("unknown region %q", s)
}

// RegionFromCode converts a persisted integer back into a Region.
func RegionFromCode(code int64) (Region, error) {
	r := Region(code)
	if !r.Valid() {
		return 0, fmt.Errorf("invalid region code %d", code)
	}
	return r, nil
}
