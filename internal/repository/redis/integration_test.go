//go:build integration

package redis

import (
	"context"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"StorefrontService/config"
	"StorefrontService/pkg/database"
	"StorefrontService/pkg/resilience"
)

// TestRedisFailure проверяет, что остановка Redis превращает кэш в промах,
// а не в ошибку
func TestRedisFailure(t *testing.T) {
	pool, err := dockertest.NewPool("")
	require.NoError(t, err, "Could not connect to Docker")

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "redis",
		Tag:        "7",
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	require.NoError(t, err, "Could not start Redis")
	purged := false
	t.Cleanup(func() {
		if !purged {
			_ = pool.Purge(resource)
		}
	})

	ctx := context.Background()
	client, err := database.NewRedisClient(ctx, config.RedisConfig{
		Addr: "localhost:" + resource.GetPort("6379/tcp"),
	}, resilience.RetryOptions{
		MaxRetries:     10,
		InitialBackoff: 500 * time.Millisecond,
		MaxBackoff:     2 * time.Second,
		BackoffFactor:  2,
	}, zap.NewNop())
	require.NoError(t, err, "Could not connect to Redis")
	t.Cleanup(func() { _ = client.Close() })

	cache := NewCatalogCache(client, NewCacheRepository(client, time.Minute, time.Minute), zap.NewNop())
	product := testProduct()

	cache.SetProduct(ctx, product)
	cached, ok := cache.GetProduct(ctx, product.ID)
	require.True(t, ok)
	assert.Equal(t, "49.99", cached.Price.String())

	// Останавливаем Redis, чтобы имитировать его недоступность
	require.NoError(t, pool.Purge(resource))
	purged = true

	probeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, ok = cache.GetProduct(probeCtx, product.ID)
	assert.False(t, ok, "unavailable cache must behave as a miss")
	cache.EvictProduct(probeCtx, product.ID)

	checker := database.NewDatabaseHealthChecker(nil, client, zap.NewNop())
	assert.False(t, checker.IsRedisHealthy(probeCtx))
}
