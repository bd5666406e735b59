// Package lookup resolves market items through a local cache that is refreshed from the
// market API once a record is older than Threshold.
package lookup

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/d697/bdobot/market"
	"golang.org/x/sync/singleflight"
)

var (
	// ErrUpstreamUnavailable is returned when a refresh was required and the market
	// API call failed. The stale cached value, if any, is not served.
	ErrUpstreamUnavailable = errors.New("market unavailable")
	// ErrItemNotFound is returned when the market answered but the batch did not
	// contain the requested item.
	ErrItemNotFound = errors.New("item not found")
)

// Store is the persistent item cache.
type Store interface {
	// Get returns ok=false for an absent key; err is reserved for backend failures.
	Get(ctx context.Context, itemID int64, region market.Region) (market.ItemRecord, bool, error)
	// Upsert replaces the record for its key and stamps it with the current time.
	Upsert(ctx context.Context, rec market.ItemRecord) error
}

// Fetcher retrieves authoritative item data.
type Fetcher interface {
	FetchItemDetails(ctx context.Context, itemID int64, region market.Region) ([]market.ItemRecord, error)
}

// DefaultRefreshTimeout bounds a deduplicated refresh, which outlives the caller that
// started it.
const DefaultRefreshTimeout = 30 * time.Second

// Result is the outcome of a successful lookup.
type Result struct {
	Item market.ItemRecord
	// Cached is true when Item was served from the store without contacting the market.
	Cached bool
	// Warnings collects non-fatal failures: cache reads that fell back to a fetch and
	// records of the batch that could not be persisted.
	Warnings []error
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the clock used for staleness decisions.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithLogger sets the logger for warnings. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithDeduplication makes concurrent refreshes of the same key share one market call.
func WithDeduplication() Option {
	return func(s *Service) {
		s.group = &singleflight.Group{}
	}
}

// WithRefreshTimeout bounds a deduplicated refresh. Defaults to DefaultRefreshTimeout.
func WithRefreshTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.refreshTimeout = d
		}
	}
}

// Service serves item records from the store, refreshing stale ones from the market.
type Service struct {
	store   Store
	fetcher Fetcher
	now     func() time.Time
	logger  *slog.Logger
	group   *singleflight.Group

	refreshTimeout time.Duration
}

// NewService creates a lookup service.
func NewService(store Store, fetcher Fetcher, opts ...Option) *Service {
	s := &Service{
		store:   store,
		fetcher: fetcher,
		now:     time.Now,
		logger:  slog.Default(),

		refreshTimeout: DefaultRefreshTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetOrRefresh returns the record for (itemID, region): the cached one while it is fresh,
// otherwise a freshly fetched one after writing the whole fetched batch to the store.
func (s *Service) GetOrRefresh(ctx context.Context, itemID int64, region market.Region) (Result, error) {
	var warnings []error

	cached, ok, err := s.store.Get(ctx, itemID, region)
	if err != nil {
		s.logger.Warn("cache read failed, refreshing from market",
			slog.Any("err", err),
			slog.Int64("item_id", itemID),
			slog.String("region", region.String()),
		)
		warnings = append(warnings, err)
	} else if ok && !IsStale(cached.LastUpdateTime, s.now().Unix()) {
		return Result{Item: cached, Cached: true}, nil
	}

	var res Result
	if s.group != nil {
		key := fmt.Sprintf("%d:%d", int(region), itemID)
		ch := s.group.DoChan(key, func() (any, error) {
			// detach from the first caller's cancellation so the shared refresh
			// is not aborted for everyone else, but keep it bounded
			refreshCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.refreshTimeout)
			defer cancel()
			return s.refresh(refreshCtx, itemID, region)
		})

		var out singleflight.Result
		select {
		case out = <-ch:
		case <-ctx.Done():
			return Result{}, fmt.Errorf("%w: %w", ErrUpstreamUnavailable, ctx.Err())
		}
		if out.Err != nil {
			return Result{}, out.Err
		}
		res = out.Val.(Result)
		// the shared result is read by every waiter, copy before appending
		res.Warnings = append(append([]error(nil), warnings...), res.Warnings...)
		return res, nil
	}

	res, err = s.refresh(ctx, itemID, region)
	if err != nil {
		return Result{}, err
	}
	res.Warnings = append(warnings, res.Warnings...)
	return res, nil
}

func (s *Service) refresh(ctx context.Context, itemID int64, region market.Region) (Result, error) {
	batch, err := s.fetcher.FetchItemDetails(ctx, itemID, region)
	if err != nil {
		s.logger.Warn("market fetch failed",
			slog.Any("err", err),
			slog.Int64("item_id", itemID),
			slog.String("region", region.String()),
		)
		return Result{}, fmt.Errorf("%w: %w", ErrUpstreamUnavailable, err)
	}
	fetchedAt := s.now().Unix()

	var (
		res   Result
		found bool
		seen  = make(map[int64]bool, len(batch))
	)
	for _, rec := range batch {
		// first entry per ID wins, so the stored copy matches what gets returned
		if seen[rec.ItemID] {
			continue
		}
		seen[rec.ItemID] = true
		rec.Region = region

		if err := s.store.Upsert(ctx, rec); err != nil {
			s.logger.Warn("failed to cache market record",
				slog.Any("err", err),
				slog.Int64("item_id", rec.ItemID),
				slog.String("region", region.String()),
			)
			res.Warnings = append(res.Warnings, fmt.Errorf("cache item %d: %w", rec.ItemID, err))
		}

		if rec.ItemID == itemID {
			rec.LastUpdateTime = fetchedAt
			res.Item = rec
			found = true
		}
	}

	if !found {
		return Result{}, fmt.Errorf("%w: %d in %s (batch of %d)", ErrItemNotFound, itemID, region, len(batch))
	}
	return res, nil
}
