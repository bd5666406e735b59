package bdo

import (
	"slices"
	"strconv"
)

// GearType selects the enhancement naming scheme.
type GearType int

const (
	Gear GearType = iota
	Accessory
)

const accessoryCategory = 20

var (
	// gloves and boots that enhance like accessories
	accessoryLikeIDs = []int64{719899, 719955, 719898, 719897, 719900, 719956}

	damageReductionIDs = []int64{719899, 719900}
	evasionIDs         = []int64{719955, 719956}

	tierPrefixes = []string{"PRI (I): ", "DUO (II): ", "TRI (III): ", "TET (IV): ", "PEN (V): "}
)

// EnhancementPrefix returns the display prefix for an enhancement level, or "" for
// level 0 and levels the gear type cannot reach.
func EnhancementPrefix(level int64, gear GearType) string {
	switch gear {
	case Accessory:
		if level >= 1 && level <= 5 {
			return tierPrefixes[level-1]
		}
	case Gear:
		switch {
		case level >= 1 && level <= 15:
			return "+" + strconv.FormatInt(level, 10) + ": "
		case level >= 16 && level <= 20:
			return tierPrefixes[level-16]
		}
	}
	return ""
}

// GearTypeOf returns the enhancement scheme for an item.
func GearTypeOf(itemID, mainCategory int64) GearType {
	if mainCategory == accessoryCategory || slices.Contains(accessoryLikeIDs, itemID) {
		return Accessory
	}
	return Gear
}

// DisplayName prefixes name with its enhancement level and disambiguates the
// gloves and boots that share a name.
func DisplayName(itemID, mainCategory, level int64, name string) string {
	n := EnhancementPrefix(level, GearTypeOf(itemID, mainCategory)) + name
	switch {
	case slices.Contains(damageReductionIDs, itemID):
		n += " (Damage Reduction)"
	case slices.Contains(evasionIDs, itemID):
		n += " (Evasion)"
	}
	return n
}
