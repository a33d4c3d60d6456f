package database

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"StorefrontService/pkg/apperrors"
	"StorefrontService/pkg/resilience"
	"StorefrontService/pkg/server"
)

// HealthChecker предоставляет функции для проверки состояния баз данных.
// Circuit breaker оборачивает только сами проверки: при серии неудач
// проверки перестают нагружать недоступное хранилище.
type HealthChecker struct {
	db           *gorm.DB
	redisClient  *redis.Client
	logger       *zap.Logger
	probeTimeout time.Duration
	pgCircuit    *resilience.CircuitBreaker
	redisCircuit *resilience.CircuitBreaker
}

// NewDatabaseHealthChecker создает новый экземпляр проверки состояния баз данных.
// redisClient может быть nil, если кэш отключен.
func NewDatabaseHealthChecker(db *gorm.DB, redisClient *redis.Client, logger *zap.Logger) *HealthChecker {
	failureThreshold, resetTimeout := resilience.DefaultCircuitBreakerOptions()

	checker := &HealthChecker{
		db:           db,
		redisClient:  redisClient,
		logger:       logger,
		probeTimeout: 2 * time.Second,
		pgCircuit:    resilience.NewCircuitBreaker("postgres", failureThreshold, resetTimeout, logger, apperrors.IgnoredErrors...),
		redisCircuit: resilience.NewCircuitBreaker("redis", failureThreshold, resetTimeout, logger, apperrors.IgnoredErrors...),
	}

	recordState := func(name string, state resilience.CircuitState) {
		server.RecordCircuitBreakerStateChange(name, state.Gauge())
	}
	checker.pgCircuit.OnStateChange(recordState)
	checker.redisCircuit.OnStateChange(recordState)

	return checker
}

// WithProbeTimeout задает ограничение времени одной проверки
func (c *HealthChecker) WithProbeTimeout(timeout time.Duration) *HealthChecker {
	if timeout > 0 {
		c.probeTimeout = timeout
	}
	return c
}

// IsDatabaseHealthy проверяет здоровье PostgreSQL
func (c *HealthChecker) IsDatabaseHealthy(ctx context.Context) bool {
	var result int
	err := c.pgCircuit.Execute(ctx, "postgres_health_check", func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, c.probeTimeout)
		defer cancel()

		sqlDB, err := c.db.DB()
		if err != nil {
			return err
		}

		// Простой запрос для проверки
		return sqlDB.QueryRowContext(ctx, "SELECT 1").Scan(&result)
	})

	return err == nil && result == 1
}

// HasRedis сообщает, настроен ли Redis
func (c *HealthChecker) HasRedis() bool {
	return c.redisClient != nil
}

// IsRedisHealthy проверяет здоровье Redis
func (c *HealthChecker) IsRedisHealthy(ctx context.Context) bool {
	if c.redisClient == nil {
		return false
	}

	err := c.redisCircuit.Execute(ctx, "redis_health_check", func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, c.probeTimeout)
		defer cancel()

		// Используем PING для проверки подключения
		return c.redisClient.Ping(ctx).Err()
	})

	return err == nil
}

// SafeDBOperation выполняет операцию в базе данных в контексте запроса,
// записывает метрики и логирует сбои хранилища. Ожидаемые ошибки
// (не найдено, конфликт, валидация) не логируются как ошибки.
func SafeDBOperation(ctx context.Context, db *gorm.DB, logger *zap.Logger, operation string, fn func(tx *gorm.DB) error) error {
	startTime := time.Now()
	err := fn(db.WithContext(ctx))
	server.RecordDBOperation(operation, time.Since(startTime), err)

	if err == nil {
		return nil
	}

	if isExpected(err) {
		logger.Debug("Database operation rejected",
			zap.String("operation", operation),
			zap.Error(err))
		return err
	}

	logger.Error("Database operation failed",
		zap.String("operation", operation),
		zap.Error(err))

	// Проверяем тип ошибки для более подробного логирования
	if errors.Is(err, gorm.ErrInvalidTransaction) {
		logger.Error("Database transaction failed due to invalid transaction",
			zap.String("operation", operation))
	}

	return err
}

// SafeRedisOperation выполняет операцию в Redis, записывает метрики
// и логирует сбои; промах кэша ошибкой не считается
func SafeRedisOperation(ctx context.Context, client *redis.Client, logger *zap.Logger, operation string, fn func(ctx context.Context, client *redis.Client) error) error {
	startTime := time.Now()
	err := fn(ctx, client)

	if errors.Is(err, redis.Nil) {
		server.RecordCacheOperation(operation, time.Since(startTime), nil)
		return err
	}
	server.RecordCacheOperation(operation, time.Since(startTime), err)

	if err != nil {
		logger.Warn("Redis operation failed",
			zap.String("operation", operation),
			zap.Error(err))

		if errors.Is(err, redis.ErrClosed) {
			logger.Warn("Redis connection closed", zap.String("operation", operation))
		}
		return err
	}

	return nil
}

func isExpected(err error) bool {
	for _, ignored := range apperrors.IgnoredErrors {
		if errors.Is(err, ignored) {
			return true
		}
	}
	return false
}
