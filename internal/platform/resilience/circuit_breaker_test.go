package resilience

import (
	"errors"
	"testing"
	"time"
)

func TestCircuitBreaker_BasicTransitions(t *testing.T) {
	b := NewCircuitBreaker(2, 5*time.Second, 1)

	now := time.Date(2024, 9, 8, 17, 0, 0, 0, time.UTC)
	b.now = func() time.Time { return now }

	if err := b.Allow(); err != nil {
		t.Fatalf("expected allow in closed state: %v", err)
	}

	b.RecordFailure()
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("expected closed after first failure, got %s", state)
	}

	b.RecordFailure()
	if state := b.State(); state != CircuitStateOpen {
		t.Fatalf("expected open after threshold failures, got %s", state)
	}

	if err := b.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected circuit open error, got %v", err)
	}

	now = now.Add(6 * time.Second)
	if err := b.Allow(); err != nil {
		t.Fatalf("expected half-open trial call to pass, got %v", err)
	}
	if state := b.State(); state != CircuitStateHalfOpen {
		t.Fatalf("expected half-open state, got %s", state)
	}

	b.RecordSuccess()
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("expected closed after successful half-open trial call, got %s", state)
	}
}

func TestCircuitBreaker_NilIsAlwaysClosed(t *testing.T) {
	var b *CircuitBreaker
	if err := b.Allow(); err != nil {
		t.Fatalf("nil breaker must allow calls: %v", err)
	}
	b.RecordFailure()
	if b.State() != CircuitStateClosed {
		t.Fatalf("nil breaker must report closed")
	}
	if NewCircuitBreakerFromConfig(CircuitBreakerConfig{Enabled: false}) != nil {
		t.Fatalf("disabled config must produce a nil breaker")
	}
}

func TestCircuitBreaker_GuardIgnoresNonFailures(t *testing.T) {
	b := NewCircuitBreakerFromConfig(CircuitBreakerConfig{Enabled: true, FailureThreshold: 1})
	notFound := errors.New("not found")
	transient := errors.New("transient")
	isFailure := func(err error) bool { return errors.Is(err, transient) }

	if err := b.Guard(func() error { return notFound }, isFailure); !errors.Is(err, notFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if b.State() != CircuitStateClosed {
		t.Fatalf("expected closed after a caller error, got %s", b.State())
	}

	if err := b.Guard(func() error { return transient }, isFailure); !errors.Is(err, transient) {
		t.Fatalf("expected transient, got %v", err)
	}
	if b.State() != CircuitStateOpen {
		t.Fatalf("expected open after a dependency failure, got %s", b.State())
	}
	if err := b.Guard(func() error { return nil }, isFailure); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected circuit open, got %v", err)
	}
}
