package redis

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"StorefrontService/internal/models"
	"StorefrontService/pkg/database"
)

// CatalogCache - кэш каталога, который никогда не ломает запрос:
// ошибки Redis логируются и трактуются как промах. Нулевой *CatalogCache
// (кэш отключен) допустим и ничего не делает.
type CatalogCache struct {
	client *redis.Client
	repo   *CacheRepository
	logger *zap.Logger
}

// NewCatalogCache создает кэш каталога. Если client равен nil, возвращает nil.
func NewCatalogCache(client *redis.Client, repo *CacheRepository, logger *zap.Logger) *CatalogCache {
	if client == nil || repo == nil {
		return nil
	}
	return &CatalogCache{client: client, repo: repo, logger: logger}
}

func (c *CatalogCache) run(ctx context.Context, operation string, fn func(ctx context.Context) error) error {
	return database.SafeRedisOperation(ctx, c.client, c.logger, operation, func(ctx context.Context, _ *redis.Client) error {
		return fn(ctx)
	})
}

// GetCategory возвращает раздел из кэша; false при промахе или сбое
func (c *CatalogCache) GetCategory(ctx context.Context, id uint) (*models.Category, bool) {
	if c == nil {
		return nil, false
	}

	var category *models.Category
	err := c.run(ctx, "get_category_cache", func(ctx context.Context) error {
		var err error
		category, err = c.repo.GetCategory(ctx, id)
		return err
	})
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("Failed to read category from cache", zap.Uint("category_id", id), zap.Error(err))
		}
		return nil, false
	}
	return category, true
}

// SetCategory кэширует раздел
func (c *CatalogCache) SetCategory(ctx context.Context, category *models.Category) {
	if c == nil {
		return
	}

	err := c.run(ctx, "set_category_cache", func(ctx context.Context) error {
		return c.repo.SetCategory(ctx, category)
	})
	if err != nil {
		c.logger.Warn("Failed to cache category, continuing without caching",
			zap.Uint("category_id", category.ID), zap.Error(err))
	}
}

// EvictCategory удаляет раздел и перечисленные товары раздела из кэша
func (c *CatalogCache) EvictCategory(ctx context.Context, id uint, productIDs ...uint) {
	if c == nil {
		return
	}

	err := c.run(ctx, "evict_category_cache", func(ctx context.Context) error {
		if err := c.repo.DeleteCategory(ctx, id); err != nil {
			return err
		}
		return c.repo.DeleteProducts(ctx, productIDs...)
	})
	if err != nil {
		c.logger.Warn("Failed to evict category from cache",
			zap.Uint("category_id", id), zap.Int("products", len(productIDs)), zap.Error(err))
	}
}

// GetProduct возвращает товар из кэша; false при промахе или сбое
func (c *CatalogCache) GetProduct(ctx context.Context, id uint) (*models.Product, bool) {
	if c == nil {
		return nil, false
	}

	var product *models.Product
	err := c.run(ctx, "get_product_cache", func(ctx context.Context) error {
		var err error
		product, err = c.repo.GetProduct(ctx, id)
		return err
	})
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("Failed to read product from cache", zap.Uint("product_id", id), zap.Error(err))
		}
		return nil, false
	}
	return product, true
}

// SetProduct кэширует товар
func (c *CatalogCache) SetProduct(ctx context.Context, product *models.Product) {
	if c == nil {
		return
	}

	err := c.run(ctx, "set_product_cache", func(ctx context.Context) error {
		return c.repo.SetProduct(ctx, product)
	})
	if err != nil {
		c.logger.Warn("Failed to cache product, continuing without caching",
			zap.Uint("product_id", product.ID), zap.Error(err))
	}
}

// EvictProduct удаляет товар из кэша
func (c *CatalogCache) EvictProduct(ctx context.Context, id uint) {
	if c == nil {
		return
	}

	err := c.run(ctx, "evict_product_cache", func(ctx context.Context) error {
		return c.repo.DeleteProducts(ctx, id)
	})
	if err != nil {
		c.logger.Warn("Failed to evict product from cache", zap.Uint("product_id", id), zap.Error(err))
	}
}
