package cache

import (
	"context"
	"sync"
	"time"

	"github.com/Cheertaboi/promo-pricing-service/internal/models"
)

type MemoryCache struct {
	mu      sync.RWMutex
	offers  []models.Offer
	expires time.Time
	loaded  bool
	ttl     time.Duration
	now     func() time.Time
}

func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		ttl: ttl,
		now: time.Now,
	}
}

func (c *MemoryCache) Get(_ context.Context) ([]models.Offer, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.loaded || (c.ttl > 0 && !c.now().Before(c.expires)) {
		return nil, ErrCacheMiss
	}
	return cloneOffers(c.offers), nil
}

func (c *MemoryCache) Set(_ context.Context, offers []models.Offer) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.offers = cloneOffers(offers)
	c.expires = c.now().Add(c.ttl)
	c.loaded = true
	return nil
}

func (c *MemoryCache) Invalidate(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.offers = nil
	c.loaded = false
	return nil
}

// cloneOffers keeps callers from sharing a backing array with the cache.
func cloneOffers(offers []models.Offer) []models.Offer {
	out := make([]models.Offer, len(offers))
	copy(out, offers)
	return out
}
