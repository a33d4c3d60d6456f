package server

import (
	"context"
	"errors"
	"os"
	"syscall"
	"testing"
	"time"

	"go.uber.org/zap"
)

// TestGracefulShutdown_Order тестирует порядок выполнения шагов (LIFO)
func TestGracefulShutdown_Order(t *testing.T) {
	gs := NewGracefulShutdown(zap.NewNop(), 100*time.Millisecond)

	var order []string
	for _, name := range []string{"postgres", "redis", "http"} {
		name := name
		gs.Register(name, func(ctx context.Context) error {
			order = append(order, name)
			return nil
		})
	}

	if err := gs.Shutdown(); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	expected := []string{"http", "redis", "postgres"}
	for i, v := range expected {
		if i >= len(order) || order[i] != v {
			t.Fatalf("Expected shutdown order %v, got %v", expected, order)
		}
	}
}

// TestGracefulShutdown_ErrorHandling тестирует, что ошибка шага не прерывает остановку
func TestGracefulShutdown_ErrorHandling(t *testing.T) {
	gs := NewGracefulShutdown(zap.NewNop(), 100*time.Millisecond)

	firstCalled := false
	gs.Register("postgres", func(ctx context.Context) error {
		firstCalled = true
		return nil
	})
	gs.Register("grpc", func(ctx context.Context) error {
		return context.DeadlineExceeded
	})

	err := gs.Shutdown()
	if !firstCalled {
		t.Error("First shutdown step was not called")
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Expected wrapped deadline error, got %v", err)
	}
	if err == nil || err.Error() != "grpc: context deadline exceeded" {
		t.Errorf("Expected component name in error, got %v", err)
	}
}

// TestGracefulShutdown_Timeout тестирует общий таймаут остановки
func TestGracefulShutdown_Timeout(t *testing.T) {
	gs := NewGracefulShutdown(zap.NewNop(), 50*time.Millisecond)

	completed := false
	gs.Register("slow", func(ctx context.Context) error {
		if _, ok := ctx.Deadline(); !ok {
			t.Error("Expected context with deadline")
		}
		select {
		case <-time.After(200 * time.Millisecond):
			completed = true
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})

	if err := gs.Shutdown(); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Expected deadline exceeded, got %v", err)
	}
	if completed {
		t.Error("Expected step to be interrupted by timeout")
	}
}

// TestGracefulShutdown_WaitWithContext тестирует остановку по отмене контекста
func TestGracefulShutdown_WaitWithContext(t *testing.T) {
	gs := NewGracefulShutdown(zap.NewNop(), 100*time.Millisecond)

	called := false
	gs.Register("http", func(ctx context.Context) error {
		called = true
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	if err := gs.Wait(ctx); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !called {
		t.Error("Expected shutdown after context cancellation")
	}

	select {
	case <-gs.Done():
	default:
		t.Error("Expected done channel to be closed")
	}
}

// TestGracefulShutdown_Signal тестирует обработку реального SIGTERM
func TestGracefulShutdown_Signal(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping real signal test in short mode")
	}

	gs := NewGracefulShutdown(zap.NewNop(), 100*time.Millisecond)

	called := make(chan struct{})
	gs.Register("http", func(ctx context.Context) error {
		close(called)
		return nil
	})

	waitDone := make(chan struct{})
	go func() {
		_ = gs.Wait(context.Background())
		close(waitDone)
	}()

	go func() {
		time.Sleep(50 * time.Millisecond)
		process, err := os.FindProcess(os.Getpid())
		if err != nil {
			t.Logf("Failed to find process: %v", err)
			return
		}
		_ = process.Signal(syscall.SIGTERM)
	}()

	select {
	case <-called:
	case <-time.After(time.Second):
		t.Fatal("Timed out waiting for shutdown step")
	}

	select {
	case <-waitDone:
	case <-time.After(time.Second):
		t.Fatal("Timed out waiting for Wait to complete")
	}
}

// TestGracefulShutdown_Once тестирует, что шаги выполняются только один раз
func TestGracefulShutdown_Once(t *testing.T) {
	gs := NewGracefulShutdown(zap.NewNop(), 100*time.Millisecond)

	calls := 0
	gs.Register("http", func(ctx context.Context) error {
		calls++
		return nil
	})

	_ = gs.Shutdown()
	_ = gs.Shutdown()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_ = gs.Wait(ctx)

	if calls != 1 {
		t.Errorf("Expected 1 call, got %d", calls)
	}
}
