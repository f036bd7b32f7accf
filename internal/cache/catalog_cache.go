package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/popupcity/portal_api/internal/models"
)

// CatalogCache caches the active product catalog of each popup city.
type CatalogCache struct {
	redis *RedisClient
	ttl   time.Duration
}

// NewCatalogCache creates a new CatalogCache.
func NewCatalogCache(redis *RedisClient, ttl time.Duration) *CatalogCache {
	return &CatalogCache{redis: redis, ttl: ttl}
}

func (c *CatalogCache) key(popupID int) string {
	return fmt.Sprintf("catalog:popup:%d", popupID)
}

// Get returns the cached catalog or ErrMiss.
func (c *CatalogCache) Get(ctx context.Context, popupID int) ([]models.Product, error) {
	jsonData, err := c.redis.Get(ctx, c.key(popupID))
	if err != nil {
		return nil, err
	}

	var products []models.Product
	if err := json.Unmarshal([]byte(jsonData), &products); err != nil {
		return nil, fmt.Errorf("failed to unmarshal catalog: %w", err)
	}
	return products, nil
}

// Set caches products for popupID.
func (c *CatalogCache) Set(ctx context.Context, popupID int, products []models.Product) error {
	jsonData, err := json.Marshal(products)
	if err != nil {
		return fmt.Errorf("failed to marshal catalog: %w", err)
	}
	return c.redis.Set(ctx, c.key(popupID), string(jsonData), c.ttl)
}

// Invalidate drops the cached catalog for popupID.
func (c *CatalogCache) Invalidate(ctx context.Context, popupID int) error {
	return c.redis.Delete(ctx, c.key(popupID))
}
