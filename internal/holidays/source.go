package holidays

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Planning-Inspectorate/appeals-back-office-sub005/pkg/calendar"
)

// Fetcher is the feed contract consumed by the source. *Client satisfies it.
type Fetcher interface {
	Fetch(ctx context.Context, division Division) (calendar.HolidaySet, error)
}

type cacheEntry struct {
	set       calendar.HolidaySet
	fetchedAt time.Time
}

// Source is a read-through cache over the holiday feed. Holidays change on a
// yearly cadence, so staleness is tolerated: an expired entry is served when a
// refresh fails.
type Source struct {
	fetcher Fetcher
	ttl     time.Duration
	logger  *zap.Logger

	mu    sync.RWMutex
	cache map[Division]cacheEntry
}

// NewSource creates the cache. A zero ttl defaults to 24h.
func NewSource(fetcher Fetcher, ttl time.Duration, logger *zap.Logger) *Source {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Source{
		fetcher: fetcher,
		ttl:     ttl,
		logger:  logger,
		cache:   make(map[Division]cacheEntry),
	}
}

// Holidays returns the holiday set for a division, fetching on miss or expiry.
func (s *Source) Holidays(ctx context.Context, division Division) (calendar.HolidaySet, error) {
	s.mu.RLock()
	entry, ok := s.cache[division]
	s.mu.RUnlock()

	if ok && time.Since(entry.fetchedAt) < s.ttl {
		return entry.set, nil
	}

	set, err := s.fetcher.Fetch(ctx, division)
	if err != nil {
		if ok {
			s.logger.Warn("holiday feed refresh failed, serving stale set",
				zap.String("division", string(division)),
				zap.Time("fetched_at", entry.fetchedAt),
				zap.Error(err))
			return entry.set, nil
		}
		return nil, fmt.Errorf("holidays for %s: %w", division, err)
	}

	s.mu.Lock()
	s.cache[division] = cacheEntry{set: set, fetchedAt: time.Now()}
	s.mu.Unlock()

	return set, nil
}

// Refresh re-fetches every cached division. Used by the scheduled job so
// request paths rarely pay the feed round trip.
func (s *Source) Refresh(ctx context.Context) {
	s.mu.RLock()
	divisions := make([]Division, 0, len(s.cache))
	for d := range s.cache {
		divisions = append(divisions, d)
	}
	s.mu.RUnlock()

	for _, division := range divisions {
		set, err := s.fetcher.Fetch(ctx, division)
		if err != nil {
			s.logger.Warn("scheduled holiday refresh failed",
				zap.String("division", string(division)),
				zap.Error(err))
			continue
		}
		s.mu.Lock()
		s.cache[division] = cacheEntry{set: set, fetchedAt: time.Now()}
		s.mu.Unlock()
	}
}
