package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/d697/bdobot/market"
	"github.com/redis/go-redis/v9"
)

const defaultRedisKeyPrefix = "bdobot:item"

// RedisConfig holds connection settings for RedisItemStore.
type RedisConfig struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
}

// RedisItemStore caches market item records in Redis. Each record, timestamp included,
// is one JSON string value, so every write replaces it atomically.
type RedisItemStore struct {
	client    *redis.Client
	keyPrefix string
	now       func() time.Time
}

// NewRedisItemStore connects to Redis and verifies the connection.
func NewRedisItemStore(ctx context.Context, cfg RedisConfig, opts ...StoreOption) (*RedisItemStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	prefix := cfg.KeyPrefix
	if prefix == "" {
		prefix = defaultRedisKeyPrefix
	}

	o := applyStoreOptions(opts)
	slog.Info("redis item store connected", slog.String("addr", cfg.Addr), slog.Int("db", cfg.DB), slog.String("prefix", prefix))
	return &RedisItemStore{client: client, keyPrefix: prefix, now: o.now}, nil
}

func (s *RedisItemStore) key(itemID int64, region market.Region) string {
	return fmt.Sprintf("%s:%d:%d", s.keyPrefix, int(region), itemID)
}

// Get returns the cached record for the key, see ItemStore.Get.
func (s *RedisItemStore) Get(ctx context.Context, itemID int64, region market.Region) (market.ItemRecord, bool, error) {
	data, err := s.client.Get(ctx, s.key(itemID, region)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return market.ItemRecord{}, false, nil
		}
		return market.ItemRecord{}, false, &StorageError{Op: "get item", Err: err}
	}

	var rec market.ItemRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return market.ItemRecord{}, false, &StorageError{Op: "decode item", Err: err}
	}
	return rec, true, nil
}

// Upsert replaces the cached record for (rec.ItemID, rec.Region), stamping it with the
// store clock.
func (s *RedisItemStore) Upsert(ctx context.Context, rec market.ItemRecord) error {
	rec.LastUpdateTime = s.now().Unix()
	data, err := json.Marshal(rec)
	if err != nil {
		return &StorageError{Op: "encode item", Err: err}
	}
	if err := s.client.Set(ctx, s.key(rec.ItemID, rec.Region), data, 0).Err(); err != nil {
		return &StorageError{Op: "upsert item", Err: err}
	}
	return nil
}

// Close closes the Redis connection pool.
func (s *RedisItemStore) Close() error {
	return s.client.Close()
}
