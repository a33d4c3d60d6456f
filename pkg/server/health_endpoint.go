package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// HealthCheckerInterface определяет интерфейс для проверки здоровья хранилищ
type HealthCheckerInterface interface {
	// IsDatabaseHealthy проверяет здоровье PostgreSQL
	IsDatabaseHealthy(ctx context.Context) bool

	// IsRedisHealthy проверяет здоровье Redis
	IsRedisHealthy(ctx context.Context) bool

	// HasRedis сообщает, подключен ли кэш
	HasRedis() bool
}

// HealthCheck представляет сервис проверки здоровья. Проверки выполняются
// при каждом запросе, фоновых опросов нет.
type HealthCheck struct {
	checker HealthCheckerInterface
	logger  *zap.Logger
	server  *http.Server
	version string
}

// HealthResponse представляет ответ эндпоинта проверки здоровья
type HealthResponse struct {
	Status    string            `json:"status"`
	Services  map[string]string `json:"services"`
	Timestamp time.Time         `json:"timestamp"`
	Version   string            `json:"version"`
}

// NewHealthCheck создает новый сервис проверки здоровья
func NewHealthCheck(checker HealthCheckerInterface, logger *zap.Logger, version string) *HealthCheck {
	return &HealthCheck{
		checker: checker,
		logger:  logger,
		version: version,
	}
}

// Handler возвращает обработчик эндпоинтов /health, /health/live и /health/ready
func (h *HealthCheck) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health/live", h.livenessHandler)
	mux.HandleFunc("/health/ready", h.readinessHandler)
	mux.HandleFunc("/health", h.healthHandler)
	return mux
}

// StartServer запускает HTTP сервер для проверки здоровья
func (h *HealthCheck) StartServer(port int) {
	h.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           h.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		h.logger.Info("Starting health check server", zap.Int("port", port))
		if err := h.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			h.logger.Error("Health check server failed", zap.Error(err))
		}
	}()
}

// Stop останавливает HTTP сервер
func (h *HealthCheck) Stop(ctx context.Context) error {
	if h.server == nil {
		return nil
	}
	return h.server.Shutdown(ctx)
}

// Services проверяет зависимости и возвращает их статусы.
// PostgreSQL обязателен; недоступный Redis переводит сервис в degraded.
func (h *HealthCheck) Services(ctx context.Context) map[string]string {
	services := map[string]string{
		"service":  "up",
		"postgres": "up",
		"redis":    "disabled",
	}

	if !h.checker.IsDatabaseHealthy(ctx) {
		services["postgres"] = "down"
		h.logger.Warn("PostgreSQL health check failed")
	}

	if h.checker.HasRedis() {
		services["redis"] = "up"
		if !h.checker.IsRedisHealthy(ctx) {
			services["redis"] = "degraded"
			h.logger.Warn("Redis health check failed")
		}
	}

	return services
}

// livenessHandler обрабатывает запросы проверки жизнеспособности
func (h *HealthCheck) livenessHandler(w http.ResponseWriter, r *http.Request) {
	// Проверка жизнеспособности проверяет только, работает ли сам сервис
	writeJSON(w, http.StatusOK, map[string]string{"status": "up"})
}

// readinessHandler обрабатывает запросы проверки готовности
func (h *HealthCheck) readinessHandler(w http.ResponseWriter, r *http.Request) {
	// Если PostgreSQL недоступен, сервис не готов к работе
	if !h.checker.IsDatabaseHealthy(r.Context()) {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status":  "down",
			"message": "PostgreSQL is not available",
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "up"})
}

// healthHandler обрабатывает запросы полной информации о здоровье
func (h *HealthCheck) healthHandler(w http.ResponseWriter, r *http.Request) {
	services := h.Services(r.Context())

	status := "up"
	code := http.StatusOK
	if services["postgres"] != "up" {
		status = "down"
		code = http.StatusServiceUnavailable
	}

	writeJSON(w, code, HealthResponse{
		Status:    status,
		Services:  services,
		Timestamp: time.Now(),
		Version:   h.version,
	})
}

func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}
