package resilience

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestCircuitBreaker_States(t *testing.T) {
	failureThreshold := 3
	resetTimeout := 50 * time.Millisecond
	cb := NewCircuitBreaker("postgres", failureThreshold, resetTimeout, zap.NewNop())

	var transitions []CircuitState
	cb.OnStateChange(func(name string, state CircuitState) {
		if name != "postgres" {
			t.Errorf("Unexpected breaker name %q", name)
		}
		transitions = append(transitions, state)
	})

	if state := cb.GetState(); state != CircuitClosed {
		t.Errorf("Expected initial state to be CLOSED, got %v", state)
	}

	testErr := errors.New("test error")
	ctx := context.Background()

	// Открывается после порога ошибок
	for i := 0; i < failureThreshold; i++ {
		err := cb.Execute(ctx, "probe", func(ctx context.Context) error { return testErr })
		if !errors.Is(err, testErr) {
			t.Errorf("Expected test error, got: %v", err)
		}
	}
	if state := cb.GetState(); state != CircuitOpen {
		t.Fatalf("Expected OPEN after %d failures, got %v", failureThreshold, state)
	}

	// При открытом breaker функция не выполняется
	called := false
	err := cb.Execute(ctx, "probe", func(ctx context.Context) error {
		called = true
		return nil
	})
	if called {
		t.Error("Operation was called when circuit is open")
	}
	if !errors.Is(err, ErrCircuitOpen) {
		t.Errorf("Expected ErrCircuitOpen, got: %v", err)
	}

	// После таймаута пробный успешный вызов закрывает breaker
	time.Sleep(resetTimeout + 20*time.Millisecond)
	if err := cb.Execute(ctx, "probe", func(ctx context.Context) error { return nil }); err != nil {
		t.Errorf("Expected no error in half-open state, got: %v", err)
	}
	if state := cb.GetState(); state != CircuitClosed {
		t.Errorf("Expected CLOSED after successful probe, got %v", state)
	}

	// Ошибка в полуоткрытом состоянии снова открывает breaker
	for i := 0; i < failureThreshold; i++ {
		_ = cb.Execute(ctx, "probe", func(ctx context.Context) error { return testErr })
	}
	time.Sleep(resetTimeout + 20*time.Millisecond)
	_ = cb.Execute(ctx, "probe", func(ctx context.Context) error { return testErr })
	if state := cb.GetState(); state != CircuitOpen {
		t.Errorf("Expected OPEN after failure in half-open state, got %v", state)
	}

	want := []CircuitState{CircuitOpen, CircuitHalfOpen, CircuitClosed, CircuitOpen, CircuitHalfOpen, CircuitOpen}
	if len(transitions) != len(want) {
		t.Fatalf("Expected transitions %v, got %v", want, transitions)
	}
	for i := range want {
		if transitions[i] != want[i] {
			t.Errorf("Transition %d: expected %v, got %v", i, want[i], transitions[i])
		}
	}
}

func TestCircuitBreaker_IgnoredErrors(t *testing.T) {
	notFound := errors.New("not found")
	cb := NewCircuitBreaker("redis", 1, time.Second, zap.NewNop(), notFound)

	for i := 0; i < 5; i++ {
		_ = cb.Execute(context.Background(), "get", func(ctx context.Context) error { return notFound })
	}

	if state := cb.GetState(); state != CircuitClosed {
		t.Errorf("Ignored errors must not open the circuit, got %v", state)
	}
}

func TestCircuitBreaker_Concurrency(t *testing.T) {
	cb := NewCircuitBreaker("concurrent", 5, time.Second, zap.NewNop())
	ctx := context.Background()

	const numGoroutines = 10
	const numRequests = 20

	var (
		mu                                      sync.Mutex
		successCount, failureCount, rejectCount int
		wg                                      sync.WaitGroup
	)

	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < numRequests; j++ {
				err := cb.Execute(ctx, "concurrent_test", func(ctx context.Context) error {
					if j > numRequests/2 {
						return errors.New("deliberate test error")
					}
					return nil
				})

				mu.Lock()
				switch {
				case err == nil:
					successCount++
				case errors.Is(err, ErrCircuitOpen):
					rejectCount++
				default:
					failureCount++
				}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if state := cb.GetState(); state != CircuitOpen {
		t.Errorf("Expected circuit to be OPEN after concurrent tests, got %v", state)
	}
	if successCount == 0 || failureCount == 0 || rejectCount == 0 {
		t.Errorf("Expected all outcomes, got success=%d failure=%d rejected=%d", successCount, failureCount, rejectCount)
	}
}

func TestCircuitState_Gauge(t *testing.T) {
	cases := map[CircuitState]int{CircuitClosed: 0, CircuitHalfOpen: 1, CircuitOpen: 2}
	for state, want := range cases {
		if got := state.Gauge(); got != want {
			t.Errorf("%v: expected gauge %d, got %d", state, want, got)
		}
	}
	if CircuitHalfOpen.String() != "HALF_OPEN" {
		t.Errorf("Unexpected state string %s", CircuitHalfOpen)
	}
}
