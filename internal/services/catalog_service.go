/**
 * @description
 * Service layer for the market catalog.
 * Caches the base listing in Redis and applies the pure catalog filters on
 * top. Odds are always recomputed from the raw pools after a cache read so
 * cached JSON can never serve stale or drifted odds.
 *
 * @dependencies
 * - backend/internal/ledger
 * - backend/internal/catalog
 * - backend/internal/store
 * - github.com/redis/go-redis/v9
 */

package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/blockcast-project/backend/internal/catalog"
	"github.com/blockcast-project/backend/internal/ledger"
	"github.com/blockcast-project/backend/internal/logger"
	"github.com/blockcast-project/backend/internal/models"
	"github.com/blockcast-project/backend/internal/store"
	"github.com/redis/go-redis/v9"
)

const catalogCacheTTL = 2 * time.Minute

// CatalogService serves filtered market listings, preferring Cache -> Store.
type CatalogService struct {
	Store store.Store
	Redis *redis.Client
}

func NewCatalogService(st store.Store, rdb *redis.Client) *CatalogService {
	return &CatalogService{
		Store: st,
		Redis: rdb,
	}
}

// ListMarkets returns the catalog narrowed by the filter. The unfiltered
// base listing is cached; filtering stays in-process and pure.
func (s *CatalogService) ListMarkets(ctx context.Context, f catalog.Filter) ([]models.Market, error) {
	markets, err := s.baseListing(ctx)
	if err != nil {
		return nil, err
	}
	return catalog.Apply(markets, f), nil
}

func (s *CatalogService) baseListing(ctx context.Context) ([]models.Market, error) {
	// 1. Try Redis
	if s.Redis != nil {
		val, err := s.Redis.Get(ctx, ledger.CatalogCacheKey).Result()
		if err == nil {
			var markets []models.Market
			if err := json.Unmarshal([]byte(val), &markets); err == nil {
				ledger.AttachOddsAll(markets)
				return markets, nil
			}
			// If unmarshal fails, fall through to the store
		}
	}

	// 2. Fallback to the store
	markets, err := s.Store.ListMarkets(ctx)
	if err != nil {
		return nil, err
	}
	ledger.AttachOddsAll(markets)

	if s.Redis != nil {
		if data, err := json.Marshal(markets); err == nil {
			if err := s.Redis.Set(ctx, ledger.CatalogCacheKey, data, catalogCacheTTL).Err(); err != nil {
				logger.Error("CatalogService: failed to set catalog cache: %v", err)
			}
		}
	}

	return markets, nil
}

// Invalidate drops the cached listing; the next read repopulates it.
func (s *CatalogService) Invalidate(ctx context.Context) {
	if s.Redis == nil {
		return
	}
	if err := s.Redis.Del(ctx, ledger.CatalogCacheKey).Err(); err != nil {
		logger.Error("CatalogService: failed to invalidate catalog cache: %v", err)
	}
}
