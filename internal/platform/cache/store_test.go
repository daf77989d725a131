package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestStoreExpiresEntriesByInjectedClock(t *testing.T) {
	t.Parallel()

	current := time.Date(2025, time.November, 4, 19, 0, 0, 0, time.UTC)
	store := NewStoreWithClock(5*time.Minute, func() time.Time { return current })
	ctx := context.Background()

	store.Set(ctx, "selection:guild-1:user-1", []string{"round-1"})

	if _, ok := store.Get(ctx, "selection:guild-1:user-1"); !ok {
		t.Fatal("fresh entry should be present")
	}

	current = current.Add(4 * time.Minute)
	if _, ok := store.Get(ctx, "selection:guild-1:user-1"); !ok {
		t.Fatal("entry should survive before TTL")
	}

	current = current.Add(2 * time.Minute)
	if _, ok := store.Get(ctx, "selection:guild-1:user-1"); ok {
		t.Fatal("entry should be evicted after TTL")
	}
}

func TestStoreZeroTTLNeverExpires(t *testing.T) {
	t.Parallel()

	current := time.Now()
	store := NewStoreWithClock(0, func() time.Time { return current })
	ctx := context.Background()

	store.Set(ctx, "key", "value")
	current = current.Add(24 * time.Hour)

	if _, ok := store.Get(ctx, "key"); !ok {
		t.Fatal("zero-TTL entries should not expire")
	}
}

func TestStoreGetOrLoadCachesValue(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	ctx := context.Background()

	loads := 0
	loader := func(context.Context) (any, error) {
		loads++
		return "loaded", nil
	}

	for i := 0; i < 3; i++ {
		value, err := store.GetOrLoad(ctx, "key", loader)
		if err != nil {
			t.Fatalf("GetOrLoad error: %v", err)
		}
		if value != "loaded" {
			t.Fatalf("unexpected value: %v", value)
		}
	}

	if loads != 1 {
		t.Fatalf("expected one load, got %d", loads)
	}
}

func TestStoreGetOrLoadPropagatesError(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	wantErr := errors.New("boom")

	_, err := store.GetOrLoad(context.Background(), "key", func(context.Context) (any, error) {
		return nil, wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected loader error, got %v", err)
	}

	if _, ok := store.Get(context.Background(), "key"); ok {
		t.Fatal("failed load must not be cached")
	}
}

func TestStoreDeletePrefix(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	ctx := context.Background()

	store.Set(ctx, "selection:guild-1:user-1", 1)
	store.Set(ctx, "selection:guild-1:user-2", 2)
	store.Set(ctx, "selection:guild-2:user-1", 3)

	store.DeletePrefix(ctx, "selection:guild-1:")

	if _, ok := store.Get(ctx, "selection:guild-1:user-1"); ok {
		t.Fatal("prefixed entry should be deleted")
	}
	if _, ok := store.Get(ctx, "selection:guild-2:user-1"); !ok {
		t.Fatal("other guild entry should remain")
	}
}
