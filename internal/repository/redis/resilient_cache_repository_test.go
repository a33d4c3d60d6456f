package redis

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"StorefrontService/internal/models"
)

// TestCatalogCache_WithRedisFailures тестирует работу кэша при сбоях Redis
func TestCatalogCache_WithRedisFailures(t *testing.T) {
	client, mr := setupTestRedis(t)
	cache := NewCatalogCache(client, NewCacheRepository(client, time.Minute, time.Minute), zap.NewNop())
	ctx := context.Background()

	product := testProduct()

	// Тест 1: Успешное сохранение в кэш при работающем Redis
	t.Run("SetProductWithWorkingRedis", func(t *testing.T) {
		cache.SetProduct(ctx, product)

		cached, ok := cache.GetProduct(ctx, product.ID)
		if !ok {
			t.Fatal("Expected cache hit")
		}
		if cached.Name != product.Name {
			t.Errorf("Expected Name %s, got %s", product.Name, cached.Name)
		}
	})

	// Тест 2: Промах кэша
	t.Run("Miss", func(t *testing.T) {
		if _, ok := cache.GetCategory(ctx, 404); ok {
			t.Error("Expected cache miss for unknown category")
		}
	})

	// Тест 3: Redis недоступен - операции не паникуют и трактуются как промах
	t.Run("RedisDown", func(t *testing.T) {
		mr.Close()

		cache.SetCategory(ctx, &models.Category{ID: 1, Name: "Shoes"})
		if _, ok := cache.GetCategory(ctx, 1); ok {
			t.Error("Expected miss when Redis is down")
		}
		if _, ok := cache.GetProduct(ctx, product.ID); ok {
			t.Error("Expected miss when Redis is down")
		}
		cache.EvictProduct(ctx, product.ID)
		cache.EvictCategory(ctx, 1, product.ID)
	})
}

func TestCatalogCache_EvictCategoryWithProducts(t *testing.T) {
	client, mr := setupTestRedis(t)
	cache := NewCatalogCache(client, NewCacheRepository(client, 0, 0), zap.NewNop())
	ctx := context.Background()

	cache.SetCategory(ctx, &models.Category{ID: 1, Name: "Shoes"})
	for _, id := range []uint{3, 4, 9} {
		p := testProduct()
		p.ID = id
		cache.SetProduct(ctx, p)
	}

	cache.EvictCategory(ctx, 1, 3, 4)

	for _, key := range []string{"category:1", "product:3", "product:4"} {
		if mr.Exists(key) {
			t.Errorf("Expected %s to be evicted", key)
		}
	}
	if !mr.Exists("product:9") {
		t.Error("Expected product:9 from another category to stay cached")
	}
}

func TestCatalogCache_Disabled(t *testing.T) {
	cache := NewCatalogCache(nil, nil, zap.NewNop())
	if cache != nil {
		t.Fatal("Expected nil cache without client")
	}

	ctx := context.Background()
	cache.SetProduct(ctx, testProduct())
	if _, ok := cache.GetProduct(ctx, 5); ok {
		t.Error("Expected miss from disabled cache")
	}
	cache.SetCategory(ctx, &models.Category{ID: 1})
	if _, ok := cache.GetCategory(ctx, 1); ok {
		t.Error("Expected miss from disabled cache")
	}
	cache.EvictProduct(ctx, 5)
	cache.EvictCategory(ctx, 1, 5)
}
