package server

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// shutdownStep - именованный шаг остановки (HTTP сервер, gRPC, пул БД и т.д.)
type shutdownStep struct {
	name string
	fn   func(context.Context) error
}

// GracefulShutdown останавливает компоненты сервиса в порядке, обратном регистрации
type GracefulShutdown struct {
	logger  *zap.Logger
	timeout time.Duration
	steps   []shutdownStep
	signals chan os.Signal
	done    chan struct{}
	once    sync.Once
	mu      sync.Mutex
	err     error
}

// NewGracefulShutdown создает новый экземпляр GracefulShutdown и подписывается на SIGINT/SIGTERM
func NewGracefulShutdown(logger *zap.Logger, timeout time.Duration) *GracefulShutdown {
	gs := &GracefulShutdown{
		logger:  logger,
		timeout: timeout,
		signals: make(chan os.Signal, 1),
		done:    make(chan struct{}),
	}

	signal.Notify(gs.signals, syscall.SIGINT, syscall.SIGTERM)

	return gs
}

// Register добавляет шаг остановки. Шаги выполняются в обратном порядке,
// поэтому то, что запущено последним, останавливается первым.
func (gs *GracefulShutdown) Register(name string, fn func(context.Context) error) {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	gs.steps = append(gs.steps, shutdownStep{name: name, fn: fn})
}

// Wait блокирует выполнение до сигнала или отмены контекста, затем
// выполняет все шаги и возвращает объединенную ошибку
func (gs *GracefulShutdown) Wait(ctx context.Context) error {
	select {
	case sig := <-gs.signals:
		gs.logger.Info("Shutdown signal received", zap.String("signal", sig.String()))
	case <-ctx.Done():
		gs.logger.Info("Context cancelled, initiating shutdown")
	}

	gs.run()
	return gs.Err()
}

// Shutdown инициирует остановку без сигнала и дожидается ее завершения
func (gs *GracefulShutdown) Shutdown() error {
	gs.run()
	return gs.Err()
}

// Done возвращает канал, который закрывается после выполнения всех шагов
func (gs *GracefulShutdown) Done() <-chan struct{} {
	return gs.done
}

// Err возвращает ошибки шагов остановки
func (gs *GracefulShutdown) Err() error {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	return gs.err
}

func (gs *GracefulShutdown) run() {
	gs.once.Do(func() {
		signal.Stop(gs.signals)
		gs.err = gs.shutdown()
		close(gs.done)
	})
	<-gs.done
}

// shutdown выполняет шаги с общим таймаутом. Ошибка одного шага
// не мешает выполнению остальных.
func (gs *GracefulShutdown) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), gs.timeout)
	defer cancel()

	gs.mu.Lock()
	steps := append([]shutdownStep(nil), gs.steps...)
	gs.mu.Unlock()

	var errs []error
	for i := len(steps) - 1; i >= 0; i-- {
		step := steps[i]
		if err := step.fn(ctx); err != nil {
			gs.logger.Error("Error during shutdown", zap.String("component", step.name), zap.Error(err))
			errs = append(errs, fmt.Errorf("%s: %w", step.name, err))
			continue
		}
		gs.logger.Debug("Component stopped", zap.String("component", step.name))
	}

	gs.logger.Info("Graceful shutdown completed")
	return errors.Join(errs...)
}
