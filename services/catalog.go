package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"bitemebuddy/models"
	"bitemebuddy/store"
)

const servicesCacheKey = "catalog:services"

func menuCacheKey(serviceID uint) string {
	return fmt.Sprintf("catalog:service:%d", serviceID)
}

// Catalog serves the customer-facing service list and menus, through redis
// when a cache is configured.
type Catalog struct {
	store *store.Store
	cache *RedisCache
	ttl   time.Duration
}

// NewCatalog accepts a nil cache
func NewCatalog(st *store.Store, cache *RedisCache, ttl time.Duration) *Catalog {
	return &Catalog{store: st, cache: cache, ttl: ttl}
}

func (c *Catalog) Services(ctx context.Context) ([]models.Service, error) {
	return cachedRead(ctx, c, servicesCacheKey, func() ([]models.Service, error) {
		return c.store.ListServices(ctx)
	})
}

// Menu returns the service with its menu items
func (c *Catalog) Menu(ctx context.Context, serviceID uint) (*models.Service, error) {
	return cachedRead(ctx, c, menuCacheKey(serviceID), func() (*models.Service, error) {
		return c.store.GetService(ctx, serviceID, true)
	})
}

// cachedRead serves key from redis, falling back to load and storing its
// result. Load errors are returned and never cached.
func cachedRead[T any](ctx context.Context, c *Catalog, key string, load func() (T, error)) (T, error) {
	if c.cache != nil {
		var hit T
		if c.cache.readJSON(ctx, key, &hit) {
			return hit, nil
		}
	}
	v, err := load()
	if err != nil || c.cache == nil {
		return v, err
	}
	c.cache.writeJSON(ctx, key, v, c.ttl)
	return v, nil
}

// Invalidate drops the cached list and the given service's menu
func (c *Catalog) Invalidate(ctx context.Context, serviceID uint) {
	if c.cache == nil {
		return
	}
	if err := c.cache.forget(ctx, servicesCacheKey, menuCacheKey(serviceID)); err != nil {
		log.Printf("catalog: invalidate service %d: %v", serviceID, err)
	}
}
