package market

import (
	"sync"
	"time"

	"github.com/NikolayViktorovich/crypto-dashboard/internal/model"
)

// SnapshotCache holds the last fetched listing and global stats in memory
// with an explicit staleness policy. It is injected into the service layer
// rather than accessed as ambient state, and it is the only caching this
// process does: nothing is written to disk.
type SnapshotCache struct {
	mu  sync.RWMutex
	ttl time.Duration

	coins    []model.CoinSnapshot
	coinsAt  time.Time
	global   *model.GlobalStats
	globalAt time.Time
}

// NewSnapshotCache creates a cache whose entries count as fresh for ttl.
func NewSnapshotCache(ttl time.Duration) *SnapshotCache {
	return &SnapshotCache{ttl: ttl}
}

// SetListing replaces the cached listing.
func (c *SnapshotCache) SetListing(coins []model.CoinSnapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.coins = coins
	c.coinsAt = time.Now()
}

// Listing returns the cached listing and whether it is still fresh.
// A stale listing is still returned (with fresh=false) so callers can fall
// back to it when an upstream fetch fails.
func (c *SnapshotCache) Listing() (coins []model.CoinSnapshot, fresh bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.coins == nil {
		return nil, false
	}
	return c.coins, time.Since(c.coinsAt) < c.ttl
}

// SetGlobal replaces the cached global stats.
func (c *SnapshotCache) SetGlobal(stats *model.GlobalStats) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.global = stats
	c.globalAt = time.Now()
}

// Global returns the cached global stats and whether they are still fresh.
func (c *SnapshotCache) Global() (stats *model.GlobalStats, fresh bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.global == nil {
		return nil, false
	}
	return c.global, time.Since(c.globalAt) < c.ttl
}

// Coin looks up one cached coin by ID.
func (c *SnapshotCache) Coin(id string) (model.CoinSnapshot, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, coin := range c.coins {
		if coin.ID == id {
			return coin, true
		}
	}
	return model.CoinSnapshot{}, false
}
