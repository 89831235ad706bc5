package cache

import (
	"context"
	"sync"
	"time"

	"github.com/nutrilog/backend/internal/domain"
)

// entry is a cached product with its expiration time.
type entry struct {
	product    domain.SharedProduct
	expiration time.Time
}

// ProductCache is a thread-safe in-memory TTL cache for resolved barcode
// products. It short-circuits repeat scans of the same barcode within one
// process; eviction is expiry-only.
type ProductCache struct {
	ttl   time.Duration
	data  map[string]entry
	mutex sync.RWMutex
}

// NewProductCache creates a product cache with the given TTL and starts the
// background expiry sweep.
func NewProductCache(ttl time.Duration) *ProductCache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	c := &ProductCache{
		ttl:  ttl,
		data: make(map[string]entry),
	}

	go c.cleanupExpired()

	return c
}

// Get returns the cached product for a barcode, or ErrCacheMiss.
func (c *ProductCache) Get(ctx context.Context, barcode string) (*domain.SharedProduct, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	e, exists := c.data[barcode]
	if !exists || time.Now().After(e.expiration) {
		return nil, domain.ErrCacheMiss
	}

	product := e.product
	return &product, nil
}

// Set stores a resolved product under its barcode. The value is copied so
// later mutation by the caller cannot leak into the cache.
func (c *ProductCache) Set(ctx context.Context, barcode string, product *domain.SharedProduct) error {
	if product == nil {
		return domain.ErrInvalidRequest
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.data[barcode] = entry{
		product:    *product,
		expiration: time.Now().Add(c.ttl),
	}
	return nil
}

// Delete removes a barcode from the cache.
func (c *ProductCache) Delete(ctx context.Context, barcode string) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	delete(c.data, barcode)
	return nil
}

// Exists reports whether a barcode is cached and unexpired.
func (c *ProductCache) Exists(ctx context.Context, barcode string) (bool, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	e, exists := c.data[barcode]
	if !exists || time.Now().After(e.expiration) {
		return false, nil
	}
	return true, nil
}

// Size returns the current number of cached barcodes.
func (c *ProductCache) Size() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.data)
}

// cleanupExpired removes expired entries every ten minutes.
func (c *ProductCache) cleanupExpired() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		c.mutex.Lock()
		now := time.Now()
		for barcode, e := range c.data {
			if now.After(e.expiration) {
				delete(c.data, barcode)
			}
		}
		c.mutex.Unlock()
	}
}
