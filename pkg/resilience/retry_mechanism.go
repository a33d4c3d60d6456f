package resilience

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"time"

	"go.uber.org/zap"
)

// RetryOptions - расписание попыток подключения к хранилищам при старте.
// Запросы клиентов не повторяются.
type RetryOptions struct {
	MaxRetries     int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	BackoffFactor  float64
	Jitter         float64
	// Permanent отмечает ошибки, после которых ждать бесполезно
	Permanent func(error) bool
}

// WithRetry вызывает fn, пока она не вернет nil, не закончатся попытки
// или не будет отменен ctx
func WithRetry(ctx context.Context, logger *zap.Logger, operation string, options RetryOptions, fn func(context.Context) error) error {
	log := logger.With(zap.String("operation", operation))

	for attempt := 1; ; attempt++ {
		err := fn(ctx)
		switch {
		case err == nil:
			if attempt > 1 {
				log.Info("Connected after retries", zap.Int("attempts", attempt))
			}
			return nil
		case !options.retryable(err):
			log.Warn("Error is not retried", zap.Error(err))
			return err
		case attempt > options.MaxRetries:
			log.Warn("Retry attempts exhausted", zap.Int("attempts", attempt), zap.Error(err))
			return err
		}

		wait := options.delay(attempt - 1)
		log.Info("Retrying after error",
			zap.Int("attempt", attempt),
			zap.Duration("backoff", wait),
			zap.Error(err))

		if err := sleep(ctx, wait); err != nil {
			log.Warn("Retry interrupted", zap.Error(err))
			return err
		}
	}
}

// retryable: отмена и таймаут контекста не повторяются
func (o RetryOptions) retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	return o.Permanent == nil || !o.Permanent(err)
}

// delay - экспоненциальная пауза перед попыткой n (с нуля), не больше MaxBackoff
func (o RetryOptions) delay(n int) time.Duration {
	d := float64(o.InitialBackoff) * math.Pow(o.BackoffFactor, float64(n))
	if o.Jitter > 0 {
		d *= 1 + o.Jitter*(2*rand.Float64()-1)
	}
	return time.Duration(math.Min(d, float64(o.MaxBackoff)))
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
