package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestStore_GetOrLoad_UsesSingleFlight(t *testing.T) {
	t.Parallel()

	store := NewStore[string](time.Minute)
	var calls atomic.Int32

	loader := func(context.Context) (string, error) {
		calls.Add(1)
		time.Sleep(20 * time.Millisecond)
		return "value", nil
	}

	const workers = 32
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)
	errCh := make(chan error, workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			<-start
			v, err := store.GetOrLoad(context.Background(), "same-key", loader)
			if err != nil {
				errCh <- err
				return
			}
			if v != "value" {
				errCh <- errUnexpectedValue
			}
		}()
	}

	close(start)
	wg.Wait()
	close(errCh)
	for err := range errCh {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if got := calls.Load(); got != 1 {
		t.Fatalf("loader called %d times, want 1", got)
	}
}

func TestStore_GetOrLoad_DoesNotCacheErrors(t *testing.T) {
	t.Parallel()

	store := NewStore[int](time.Minute)
	var calls atomic.Int32
	boom := errors.New("boom")

	loader := func(context.Context) (int, error) {
		if calls.Add(1) == 1 {
			return 0, boom
		}
		return 7, nil
	}

	if _, err := store.GetOrLoad(context.Background(), "k", loader); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	v, err := store.GetOrLoad(context.Background(), "k", loader)
	if err != nil || v != 7 {
		t.Fatalf("expected 7, got %d (%v)", v, err)
	}
	if _, err := store.GetOrLoad(context.Background(), "k", loader); err != nil {
		t.Fatalf("third GetOrLoad error: %v", err)
	}
	if got := calls.Load(); got != 2 {
		t.Fatalf("loader called %d times, want 2", got)
	}
}

func TestStore_TTLExpiry(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 9, 8, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	store := NewStore[string](time.Minute, WithClock[string](clock))
	ctx := context.Background()

	store.Set(ctx, "a", "1")
	store.SetWithTTL(ctx, "forever", "2", 0)
	if !store.Has(ctx, "a") {
		t.Fatalf("expected key a before expiry")
	}

	now = now.Add(time.Minute)
	if store.Has(ctx, "a") {
		t.Fatalf("expected key a to expire")
	}
	if v, ok := store.Get(ctx, "forever"); !ok || v != "2" {
		t.Fatalf("expected non-expiring key to survive, got %q %v", v, ok)
	}
}

func TestStore_DeleteAndPurge(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 9, 8, 12, 0, 0, 0, time.UTC)
	store := NewStore[int](time.Second, WithClock[int](func() time.Time { return now }))
	ctx := context.Background()

	store.Set(ctx, "performance:QB:1", 1)
	store.Set(ctx, "performance:QB:2", 2)
	store.Set(ctx, "performance:RB:1", 3)
	store.SetWithTTL(ctx, "pinned", 4, time.Hour)

	store.Delete(ctx, "performance:RB:1")
	if store.Has(ctx, "performance:RB:1") {
		t.Fatalf("expected deleted key to be gone")
	}
	if removed := store.DeletePrefix(ctx, "performance:QB:"); removed != 2 {
		t.Fatalf("expected 2 keys removed by prefix, got %d", removed)
	}

	store.Set(ctx, "short", 5)
	now = now.Add(2 * time.Second)
	if removed := store.Purge(); removed != 1 {
		t.Fatalf("expected 1 expired key purged, got %d", removed)
	}
	if store.Len() != 1 {
		t.Fatalf("expected only the pinned key left, got %d", store.Len())
	}
}

var errUnexpectedValue = errors.New("unexpected loaded value")
