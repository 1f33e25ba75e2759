package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestStore_GetOrLoad_CollapsesConcurrentLoads(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	var calls atomic.Int32

	loader := func(context.Context) (any, error) {
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
			v, err := store.GetOrLoad(context.Background(), Key(3, "team", "40", "2025"), loader)
			if err != nil {
				errCh <- err
				return
			}
			if got, _ := v.(string); got != "value" {
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

func TestStore_GetOrLoad_UsesCachedValueAfterFirstLoad(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	var calls atomic.Int32

	loader := func(context.Context) (any, error) {
		calls.Add(1)
		return "cached", nil
	}

	if _, err := store.GetOrLoad(context.Background(), Key(1, "career", "1004757"), loader); err != nil {
		t.Fatalf("first GetOrLoad error: %v", err)
	}
	if _, err := store.GetOrLoad(context.Background(), Key(1, "career", "1004757"), loader); err != nil {
		t.Fatalf("second GetOrLoad error: %v", err)
	}

	if got := calls.Load(); got != 1 {
		t.Fatalf("loader called %d times, want 1", got)
	}
}

func TestStore_RetainDropsOtherVersions(t *testing.T) {
	t.Parallel()

	store := NewStore(0)
	ctx := context.Background()
	store.Set(ctx, Key(1, "team", "40"), "old")
	store.Set(ctx, Key(2, "team", "40"), "new")
	store.Set(ctx, Key(2, "team", "50"), "new")

	if removed := store.Retain(2); removed != 1 {
		t.Fatalf("unexpected removed count: got=%d want=1", removed)
	}
	if _, ok := store.Get(ctx, Key(1, "team", "40")); ok {
		t.Fatalf("expected version 1 entry to be dropped")
	}
	if store.Len() != 2 {
		t.Fatalf("unexpected entry count: got=%d want=2", store.Len())
	}
}

func TestStore_GetExpiresAfterTTL(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	store.Set(context.Background(), Key(1, "teams"), 18)
	now = now.Add(2 * time.Minute)
	if _, ok := store.Get(context.Background(), Key(1, "teams")); ok {
		t.Fatalf("expected entry to expire")
	}
}

func TestLoad_TypedAndNilStore(t *testing.T) {
	t.Parallel()

	got, err := Load(context.Background(), nil, "ignored", func(context.Context) (int, error) { return 7, nil })
	if err != nil || got != 7 {
		t.Fatalf("unexpected nil-store load: got=%d err=%v", got, err)
	}

	store := NewStore(time.Minute)
	store.Set(context.Background(), "v1:x", "string value")
	if _, err := Load(context.Background(), store, "v1:x", func(context.Context) (int, error) { return 1, nil }); err == nil {
		t.Fatalf("expected type mismatch error")
	}
}

func TestKey(t *testing.T) {
	t.Parallel()

	if got := Key(12, "team", "40", "2025", ""); got != "v12:team:40:2025:" {
		t.Fatalf("unexpected key: got=%q", got)
	}
	if got := versionOf("v12:team"); got != 12 {
		t.Fatalf("unexpected version: got=%d want=12", got)
	}
}

var errUnexpectedValue = errors.New("unexpected loaded value")
