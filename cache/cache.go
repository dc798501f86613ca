package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"storefront/models"
	repositories "storefront/repository"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	productCachePrefix     = "product:detail:"
	productListCachePrefix = "products:v:"
	cacheVersionKey        = "products:version"
)

// Manager handles Redis caching for the catalog read path. A nil Manager (or
// one built without a client) is valid and turns every operation into a
// no-op, so callers never have to branch on whether caching is enabled.
type Manager struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewManager(client *redis.Client, ttl time.Duration, logger *zap.Logger) *Manager {
	return &Manager{client: client, ttl: ttl, logger: logger}
}

func (m *Manager) enabled() bool {
	return m != nil && m.client != nil
}

// ListKey builds a cache key for a catalog page. The current cache version
// is folded in at read/write time, not here.
func ListKey(page, limit int, filters *repositories.ProductFilters) string {
	category, search := "", ""
	if filters != nil {
		category, search = filters.Category, filters.Search
	}
	return fmt.Sprintf("p=%d:l=%d:c=%s:q=%s", page, limit, category, search)
}

// GetProduct retrieves a cached product by id.
func (m *Manager) GetProduct(ctx context.Context, id string) (*models.Product, bool) {
	if !m.enabled() {
		return nil, false
	}

	data, err := m.client.Get(ctx, productCachePrefix+id).Result()
	if err != nil {
		return nil, false
	}

	var product models.Product
	if err := json.Unmarshal([]byte(data), &product); err != nil {
		m.logger.Warn("Failed to unmarshal cached product", zap.Error(err))
		return nil, false
	}
	return &product, true
}

// SetProductAsync caches a product without blocking the request.
func (m *Manager) SetProductAsync(product *models.Product) {
	if !m.enabled() {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		data, err := json.Marshal(product)
		if err != nil {
			return
		}
		if err := m.client.Set(ctx, productCachePrefix+product.ID.String(), data, m.ttl).Err(); err != nil {
			m.logger.Warn("Failed to cache product", zap.Error(err))
		}
	}()
}

// GetProductList retrieves a cached catalog page into dest.
func (m *Manager) GetProductList(ctx context.Context, key string, dest interface{}) bool {
	if !m.enabled() {
		return false
	}

	version, err := m.client.Get(ctx, cacheVersionKey).Int64()
	if err != nil || version == 0 {
		return false
	}

	data, err := m.client.Get(ctx, fmt.Sprintf("%s%d:%s", productListCachePrefix, version, key)).Result()
	if err != nil {
		return false
	}
	if err := json.Unmarshal([]byte(data), dest); err != nil {
		m.logger.Warn("Failed to unmarshal cached product list", zap.Error(err))
		return false
	}
	return true
}

// SetProductListAsync caches a catalog page without blocking the request.
func (m *Manager) SetProductListAsync(key string, value interface{}) {
	if !m.enabled() {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		version, err := m.client.Get(ctx, cacheVersionKey).Int64()
		if err != nil || version == 0 {
			version = 1
			if err := m.client.Set(ctx, cacheVersionKey, version, 0).Err(); err != nil {
				return
			}
		}

		data, err := json.Marshal(value)
		if err != nil {
			return
		}
		fullKey := fmt.Sprintf("%s%d:%s", productListCachePrefix, version, key)
		if err := m.client.Set(ctx, fullKey, data, m.ttl).Err(); err != nil {
			m.logger.Warn("Failed to cache product list", zap.Error(err))
		}
	}()
}

// InvalidateProduct drops the cached detail entry for one product.
func (m *Manager) InvalidateProduct(ctx context.Context, id string) {
	if !m.enabled() {
		return
	}

	if err := m.client.Del(ctx, productCachePrefix+id).Err(); err != nil {
		m.logger.Warn("Failed to drop cached product", zap.Error(err))
	}
}

// InvalidateProducts bumps the version so every cached list page goes stale
// at once, and drops detail entries lazily via TTL.
func (m *Manager) InvalidateProducts(ctx context.Context) {
	if !m.enabled() {
		return
	}

	if err := m.client.Incr(ctx, cacheVersionKey).Err(); err != nil {
		m.logger.Warn("Failed to bump product cache version", zap.Error(err))
	}
}
