package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"StorefrontService/internal/models"
)

const (
	// TTL по умолчанию для записей каталога
	defaultCategoryTTL = 30 * time.Minute
	defaultProductTTL  = 10 * time.Minute
)

func categoryKey(id uint) string { return fmt.Sprintf("category:%d", id) }
func productKey(id uint) string  { return fmt.Sprintf("product:%d", id) }

// CacheRepository представляет репозиторий для работы с кэшем каталога в Redis.
// Ошибки Redis возвращаются вызывающему, промах кэша - redis.Nil.
type CacheRepository struct {
	client      *redis.Client
	categoryTTL time.Duration
	productTTL  time.Duration
}

// NewCacheRepository создает новый экземпляр CacheRepository.
// Нулевые TTL заменяются значениями по умолчанию.
func NewCacheRepository(client *redis.Client, categoryTTL, productTTL time.Duration) *CacheRepository {
	if categoryTTL <= 0 {
		categoryTTL = defaultCategoryTTL
	}
	if productTTL <= 0 {
		productTTL = defaultProductTTL
	}
	return &CacheRepository{
		client:      client,
		categoryTTL: categoryTTL,
		productTTL:  productTTL,
	}
}

func (r *CacheRepository) set(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, data, ttl).Err()
}

func (r *CacheRepository) get(ctx context.Context, key string, dest any) error {
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dest)
}

// SetCategory кэширует раздел каталога
func (r *CacheRepository) SetCategory(ctx context.Context, category *models.Category) error {
	return r.set(ctx, categoryKey(category.ID), category, r.categoryTTL)
}

// GetCategory получает раздел из кэша
func (r *CacheRepository) GetCategory(ctx context.Context, id uint) (*models.Category, error) {
	var category models.Category
	if err := r.get(ctx, categoryKey(id), &category); err != nil {
		return nil, err
	}
	return &category, nil
}

// DeleteCategory удаляет раздел из кэша
func (r *CacheRepository) DeleteCategory(ctx context.Context, id uint) error {
	return r.client.Del(ctx, categoryKey(id)).Err()
}

// SetProduct кэширует товар
func (r *CacheRepository) SetProduct(ctx context.Context, product *models.Product) error {
	return r.set(ctx, productKey(product.ID), product, r.productTTL)
}

// GetProduct получает товар из кэша
func (r *CacheRepository) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	if err := r.get(ctx, productKey(id), &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// DeleteProducts удаляет товары из кэша одной командой DEL
func (r *CacheRepository) DeleteProducts(ctx context.Context, ids ...uint) error {
	if len(ids) == 0 {
		return nil
	}
	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, productKey(id))
	}
	return r.client.Del(ctx, keys...).Err()
}
