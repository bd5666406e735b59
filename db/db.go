package db

import (
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS item_search_info (
		region INTEGER NOT NULL,
		item_id INTEGER NOT NULL,
		base_price INTEGER NOT NULL,
		total_trade_count INTEGER NOT NULL,
		key_type INTEGER NOT NULL,
		sub_key INTEGER NOT NULL,
		count INTEGER NOT NULL,
		name TEXT NOT NULL,
		grade INTEGER NOT NULL,
		main_category INTEGER NOT NULL,
		sub_category INTEGER NOT NULL,
		enhancement_level INTEGER NOT NULL,
		last_update_time INTEGER NOT NULL,
		PRIMARY KEY (region, item_id)
	)`,
	`CREATE TABLE IF NOT EXISTS users (
		discord_id TEXT PRIMARY KEY,
		family_fame INTEGER NOT NULL,
		value_pack INTEGER NOT NULL,
		merchant_ring INTEGER NOT NULL,
		cron_cost INTEGER NOT NULL,
		region INTEGER NOT NULL
	)`,
}

// Open opens the SQLite database at path and ensures the tables exist.
// The returned handle is meant to be shared by every store in the process.
func Open(path string) (*sql.DB, error) {
	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err = db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	slog.Info("database connection established", slog.String("path", path))

	for i, migration := range migrations {
		if _, err = db.Exec(migration); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to execute migration %d: %w", i+1, err)
		}
	}
	slog.Info("database tables ensured")

	return db, nil
}
