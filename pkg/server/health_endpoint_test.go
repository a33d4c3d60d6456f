package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
)

// mockHealthChecker - проверка здоровья с заранее заданными результатами
type mockHealthChecker struct {
	pgHealthy    bool
	redisHealthy bool
	hasRedis     bool
	probes       int
}

func (m *mockHealthChecker) IsDatabaseHealthy(ctx context.Context) bool {
	m.probes++
	return m.pgHealthy
}

func (m *mockHealthChecker) IsRedisHealthy(ctx context.Context) bool {
	return m.redisHealthy
}

func (m *mockHealthChecker) HasRedis() bool {
	return m.hasRedis
}

func serve(t *testing.T, health *HealthCheck, path string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	health.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

// TestHealthCheck_LivenessHandler тестирует обработчик проверки жизнеспособности
func TestHealthCheck_LivenessHandler(t *testing.T) {
	unhealthy := NewHealthCheck(&mockHealthChecker{}, zap.NewNop(), "1.0.0")

	w := serve(t, unhealthy, "/health/live")

	// liveness не зависит от состояния баз данных
	if w.Code != http.StatusOK {
		t.Errorf("Expected status code %d, got %d", http.StatusOK, w.Code)
	}
	if contentType := w.Header().Get("Content-Type"); contentType != "application/json" {
		t.Errorf("Expected Content-Type 'application/json', got '%s'", contentType)
	}
}

// TestHealthCheck_ReadinessHandler тестирует обработчик проверки готовности
func TestHealthCheck_ReadinessHandler(t *testing.T) {
	t.Run("ServiceReady", func(t *testing.T) {
		checker := &mockHealthChecker{pgHealthy: true}
		w := serve(t, NewHealthCheck(checker, zap.NewNop(), "1.0.0"), "/health/ready")

		if w.Code != http.StatusOK {
			t.Errorf("Expected status code %d, got %d", http.StatusOK, w.Code)
		}
		if checker.probes != 1 {
			t.Errorf("Expected probe on request, got %d probes", checker.probes)
		}
	})

	t.Run("ServiceNotReady", func(t *testing.T) {
		w := serve(t, NewHealthCheck(&mockHealthChecker{}, zap.NewNop(), "1.0.0"), "/health/ready")

		if w.Code != http.StatusServiceUnavailable {
			t.Errorf("Expected status code %d, got %d", http.StatusServiceUnavailable, w.Code)
		}

		var response map[string]string
		if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
			t.Fatalf("Failed to parse response: %v", err)
		}
		if response["status"] != "down" {
			t.Errorf("Expected status 'down', got '%s'", response["status"])
		}
	})
}

// TestHealthCheck_HealthHandler тестирует обработчик полной информации о здоровье
func TestHealthCheck_HealthHandler(t *testing.T) {
	tests := []struct {
		name     string
		checker  *mockHealthChecker
		code     int
		status   string
		postgres string
		redis    string
	}{
		{"AllHealthy", &mockHealthChecker{pgHealthy: true, redisHealthy: true, hasRedis: true}, http.StatusOK, "up", "up", "up"},
		{"RedisDegraded", &mockHealthChecker{pgHealthy: true, hasRedis: true}, http.StatusOK, "up", "up", "degraded"},
		{"CacheDisabled", &mockHealthChecker{pgHealthy: true}, http.StatusOK, "up", "up", "disabled"},
		{"PostgresDown", &mockHealthChecker{redisHealthy: true, hasRedis: true}, http.StatusServiceUnavailable, "down", "down", "up"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(t, NewHealthCheck(tt.checker, zap.NewNop(), "1.2.3"), "/health")

			if w.Code != tt.code {
				t.Errorf("Expected status code %d, got %d", tt.code, w.Code)
			}

			var response HealthResponse
			if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
				t.Fatalf("Failed to parse response: %v", err)
			}
			if response.Status != tt.status {
				t.Errorf("Expected status %s, got %s", tt.status, response.Status)
			}
			if response.Services["postgres"] != tt.postgres || response.Services["redis"] != tt.redis {
				t.Errorf("Unexpected services: %v", response.Services)
			}
			if response.Version != "1.2.3" {
				t.Errorf("Expected version 1.2.3, got %s", response.Version)
			}
		})
	}
}

func TestHealthCheck_StopWithoutStart(t *testing.T) {
	health := NewHealthCheck(&mockHealthChecker{}, zap.NewNop(), "1.0.0")
	if err := health.Stop(context.Background()); err != nil {
		t.Errorf("Expected nil error, got %v", err)
	}
}
