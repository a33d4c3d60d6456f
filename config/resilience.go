package config

import (
	"time"

	"StorefrontService/pkg/resilience"
)

// ResilienceConfig содержит настройки для механизмов отказоустойчивости.
// Circuit breaker защищает только проверки здоровья, повторные попытки -
// только подключения при старте.
type ResilienceConfig struct {
	// CircuitBreaker содержит настройки для circuit breaker проверок здоровья
	CircuitBreaker struct {
		// FailureThreshold количество ошибок, после которого circuit breaker откроется
		FailureThreshold int
		// ResetTimeout время, через которое circuit breaker перейдет в полуоткрытое состояние
		ResetTimeout time.Duration
	}

	// Startup содержит настройки повторных попыток подключения при старте
	Startup struct {
		MaxRetries     int
		InitialBackoff time.Duration
		MaxBackoff     time.Duration
		BackoffFactor  float64
		Jitter         float64
	}

	// ProbeTimeout ограничивает одну проверку здоровья
	ProbeTimeout time.Duration

	// ShutdownTimeout ограничивает корректное завершение работы
	ShutdownTimeout time.Duration
}

// DefaultResilienceConfig возвращает конфигурацию отказоустойчивости по умолчанию
func DefaultResilienceConfig() ResilienceConfig {
	config := ResilienceConfig{}

	// Настройки circuit breaker
	config.CircuitBreaker.FailureThreshold = 5
	config.CircuitBreaker.ResetTimeout = 30 * time.Second

	config.Startup.MaxRetries = 5
	config.Startup.InitialBackoff = 500 * time.Millisecond
	config.Startup.MaxBackoff = 5 * time.Second
	config.Startup.BackoffFactor = 2.0
	config.Startup.Jitter = 0.2

	config.ProbeTimeout = 2 * time.Second
	config.ShutdownTimeout = 30 * time.Second

	return config
}

// StartupRetry возвращает параметры повторных попыток подключения при старте
func (c ResilienceConfig) StartupRetry() resilience.RetryOptions {
	return resilience.RetryOptions{
		MaxRetries:     c.Startup.MaxRetries,
		InitialBackoff: c.Startup.InitialBackoff,
		MaxBackoff:     c.Startup.MaxBackoff,
		BackoffFactor:  c.Startup.BackoffFactor,
		Jitter:         c.Startup.Jitter,
	}
}
