package db

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/d697/bdobot/market"
)

type storeOptions struct {
	now func() time.Time
}

// StoreOption configures an item store.
type StoreOption func(*storeOptions)

// WithClock overrides the clock used to stamp records on write.
func WithClock(now func() time.Time) StoreOption {
	return func(o *storeOptions) {
		o.now = now
	}
}

func applyStoreOptions(opts []StoreOption) storeOptions {
	o := storeOptions{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// ItemStore caches market item records in SQLite, one row per (item_id, region).
type ItemStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewItemStore creates an ItemStore on an already migrated database (see Open).
func NewItemStore(db *sql.DB, opts ...StoreOption) *ItemStore {
	o := applyStoreOptions(opts)
	return &ItemStore{db: db, now: o.now}
}

// Get returns the cached record for the key. ok is false when nothing is cached; err is
// only set for backend failures and is always a *StorageError.
func (s *ItemStore) Get(ctx context.Context, itemID int64, region market.Region) (market.ItemRecord, bool, error) {
	rec := market.ItemRecord{Region: region}
	err := s.db.QueryRowContext(ctx, `
		SELECT item_id, base_price, total_trade_count, key_type, sub_key, count, name,
			grade, main_category, sub_category, enhancement_level, last_update_time
		FROM item_search_info
		WHERE item_id = ? AND region = ?`,
		itemID, int64(region),
	).Scan(
		&rec.ItemID,
		&rec.BasePrice,
		&rec.TotalTradeCount,
		&rec.KeyType,
		&rec.SubKey,
		&rec.Count,
		&rec.Name,
		&rec.Grade,
		&rec.MainCategory,
		&rec.SubCategory,
		&rec.EnhancementLevel,
		&rec.LastUpdateTime,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return market.ItemRecord{}, false, nil
		}
		return market.ItemRecord{}, false, &StorageError{Op: "get item", Err: err}
	}
	return rec, true, nil
}

// Upsert replaces the cached record for (rec.ItemID, rec.Region), stamping it with the
// store clock. The row and its timestamp are written by a single statement.
func (s *ItemStore) Upsert(ctx context.Context, rec market.ItemRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO item_search_info (
			region, item_id, base_price, total_trade_count, key_type, sub_key, count,
			name, grade, main_category, sub_category, enhancement_level, last_update_time
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(region, item_id) DO UPDATE SET
			base_price = excluded.base_price,
			total_trade_count = excluded.total_trade_count,
			key_type = excluded.key_type,
			sub_key = excluded.sub_key,
			count = excluded.count,
			name = excluded.name,
			grade = excluded.grade,
			main_category = excluded.main_category,
			sub_category = excluded.sub_category,
			enhancement_level = excluded.enhancement_level,
			last_update_time = excluded.last_update_time`,
		int64(rec.Region),
		rec.ItemID,
		rec.BasePrice,
		rec.TotalTradeCount,
		rec.KeyType,
		rec.SubKey,
		rec.Count,
		rec.Name,
		rec.Grade,
		rec.MainCategory,
		rec.SubCategory,
		rec.EnhancementLevel,
		s.now().Unix(),
	)
	if err != nil {
		return &StorageError{Op: "upsert item", Err: err}
	}
	return nil
}
