package database

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"StorefrontService/config"
	"StorefrontService/pkg/resilience"
)

// NewRedisClient создает новое подключение к Redis и проверяет его командой PING
func NewRedisClient(ctx context.Context, cfg config.RedisConfig, retry resilience.RetryOptions, log *zap.Logger) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10, // Максимальное количество соединений в пуле
		MinIdleConns: 5,  // Минимальное количество соединений в пуле
	})

	err := resilience.WithRetry(ctx, log, "connect_redis", retry, func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	})
	if err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis %s: %w", cfg.Addr, err)
	}

	return client, nil
}
