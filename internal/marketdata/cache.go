package marketdata

import (
	"sync"
	"time"

	"github.com/ipveka/HedgeLab/internal/model"
)

// Class selects which time-to-live applies to a cached series.
type Class int

const (
	ClassStock Class = iota // single-stock series
	ClassIndex              // market indices
	ClassRate               // reference rates
)

func (c Class) String() string {
	switch c {
	case ClassIndex:
		return "index"
	case ClassRate:
		return "rate"
	default:
		return "stock"
	}
}

type cacheKey struct {
	symbol string
	period model.Period
	class  Class
}

type cacheEntry struct {
	bars       []model.PriceBar
	insertedAt time.Time
}

func (e cacheEntry) stale(now time.Time, ttl time.Duration) bool {
	return now.Sub(e.insertedAt) >= ttl
}

// seriesCache holds fetched bar series with their insertion time. Bars are
// treated as immutable once cached.
type seriesCache struct {
	mu      sync.Mutex
	entries map[cacheKey]cacheEntry
}

func newSeriesCache() *seriesCache {
	return &seriesCache{entries: make(map[cacheKey]cacheEntry)}
}

func (c *seriesCache) get(key cacheKey, now time.Time, ttl time.Duration) ([]model.PriceBar, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok || e.stale(now, ttl) {
		return nil, false
	}
	return e.bars, true
}

func (c *seriesCache) put(key cacheKey, bars []model.PriceBar, now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{bars: bars, insertedAt: now}
}
