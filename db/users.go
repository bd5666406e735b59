package db

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/d697/bdobot/market"
	"github.com/disgoorg/snowflake/v2"
)

// Profile is a registered player's market settings.
type Profile struct {
	DiscordID    snowflake.ID
	Region       market.Region
	FamilyFame   int64
	ValuePack    bool
	MerchantRing bool
	// CronCost is the price of a single cron stone in silver.
	CronCost int64
}

// Users stores player profiles.
type Users struct {
	db *sql.DB
}

// NewUsers creates a profile store on an already migrated database.
func NewUsers(db *sql.DB) *Users {
	return &Users{db: db}
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

// Upsert registers a profile, replacing any previous registration of the same user.
func (u *Users) Upsert(ctx context.Context, p Profile) error {
	_, err := u.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO users (discord_id, family_fame, value_pack, merchant_ring, cron_cost, region) VALUES (?, ?, ?, ?, ?, ?)",
		p.DiscordID.String(), p.FamilyFame, boolToInt(p.ValuePack), boolToInt(p.MerchantRing), p.CronCost, int64(p.Region),
	)
	if err != nil {
		slog.Error("failed to write profile", slog.Any("err", err), slog.String("user_id", p.DiscordID.String()))
		return &StorageError{Op: "upsert profile", Err: err}
	}
	return nil
}

// Get returns the profile of a user; ok is false if they never registered.
func (u *Users) Get(ctx context.Context, id snowflake.ID) (Profile, bool, error) {
	var (
		p                                   Profile
		rawID                               string
		valuePack, merchantRing, regionCode int64
	)
	err := u.db.QueryRowContext(ctx,
		"SELECT discord_id, family_fame, value_pack, merchant_ring, cron_cost, region FROM users WHERE discord_id = ?",
		id.String(),
	).Scan(&rawID, &p.FamilyFame, &valuePack, &merchantRing, &p.CronCost, &regionCode)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Profile{}, false, nil
		}
		slog.Error("failed to get profile", slog.Any("err", err), slog.String("user_id", id.String()))
		return Profile{}, false, &StorageError{Op: "get profile", Err: err}
	}

	p.DiscordID, err = snowflake.Parse(rawID)
	if err != nil {
		return Profile{}, false, &StorageError{Op: "decode profile", Err: err}
	}
	p.Region, err = market.RegionFromCode(regionCode)
	if err != nil {
		return Profile{}, false, &StorageError{Op: "decode profile", Err: err}
	}
	p.ValuePack = valuePack != 0
	p.MerchantRing = merchantRing != 0
	return p, true, nil
}
