// Package bdo holds game rules used when presenting market data.
package bdo

import (
	"fmt"
	"math"

	"github.com/dustin/go-humanize"
)

// TaxRate returns the proportion of a sale's value the seller receives.
func TaxRate(valuePack bool, familyFame int64, merchantRing bool) float64 {
	var bonus float64
	if valuePack {
		bonus += 0.3
	}
	if merchantRing {
		bonus += 0.05
	}
	switch {
	case familyFame >= 7000:
		bonus += 0.015
	case familyFame >= 4000:
		bonus += 0.01
	case familyFame >= 1000:
		bonus += 0.005
	}
	return 0.65 * (1 + bonus)
}

// AfterTax returns what a seller with the given rate receives for price, rounded to
// the nearest silver.
func AfterTax(price int64, rate float64) int64 {
	return int64(math.Round(float64(price) * rate))
}

// FormatNumber groups digits with commas.
func FormatNumber(n int64) string {
	return humanize.Comma(n)
}

// FormatSilver formats an amount of silver for display.
func FormatSilver(n int64) string {
	return FormatNumber(n) + " silver"
}

// CronCost is the source of a player's cron stones.
type CronCost string

const (
	CronVendor CronCost = "vendor"
	CronOutfit CronCost = "outfit"
	CronFree   CronCost = "free"
)

// AllCronCosts lists the cron sources in display order.
var AllCronCosts = []CronCost{CronVendor, CronOutfit, CronFree}

// Price returns the silver cost of one cron stone.
func (c CronCost) Price() int64 {
	switch c {
	case CronVendor:
		return 3_000_000
	case CronOutfit:
		return 2_185_033
	default:
		return 0
	}
}

func (c CronCost) DisplayName() string {
	switch c {
	case CronVendor:
		return "Vendor Pricing"
	case CronOutfit:
		return "Outfit Pricing"
	case CronFree:
		return "Free"
	}
	return string(c)
}

// ParseCronCost accepts a CronCost value.
func ParseCronCost(s string) (CronCost, error) {
	for _, c := range AllCronCosts {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown cron source %q", s)
}
