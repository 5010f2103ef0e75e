package jwks

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/edgegate/edgegate/internal/core"
)

func staticFetch(keys ...core.SigningKey) FetchFunc {
	return func(ctx context.Context) ([]core.SigningKey, error) {
		return keys, nil
	}
}

func TestCacheResolve(t *testing.T) {
	cache := NewCache(staticFetch(
		core.SigningKey{KeyID: "key-1", Algorithm: "RS256", Key: "public-1"},
		core.SigningKey{KeyID: "key-2", Algorithm: "RS256", Key: "public-2"},
	))

	got, err := cache.Resolve(context.Background(), "key-2")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != "public-2" {
		t.Errorf("Resolve returned %v, want public-2", got)
	}

	if !cache.Warm() {
		t.Error("expected cache to be warm after first resolve")
	}
	if n := len(cache.Keys()); n != 2 {
		t.Errorf("Keys() returned %d keys, want 2", n)
	}
}

func TestCacheUnknownKid(t *testing.T) {
	cache := NewCache(staticFetch(
		core.SigningKey{KeyID: "key-1", Key: "public-1"},
	))

	_, err := cache.Resolve(context.Background(), "rotated-key")
	if err == nil {
		t.Fatal("expected error for unknown kid")
	}
	if kind := core.KindOf(err); kind != core.KindUnknownSigningKey {
		t.Errorf("error kind = %q, want %q", kind, core.KindUnknownSigningKey)
	}

	// the fetch succeeded, so the cache stays warm even though the kid
	// was not found
	if !cache.Warm() {
		t.Error("expected cache to be warm after a successful fetch")
	}
}

func TestCacheFetchesOnce(t *testing.T) {
	var fetches atomic.Int32
	cache := NewCache(func(ctx context.Context) ([]core.SigningKey, error) {
		fetches.Add(1)
		return []core.SigningKey{{KeyID: "key-1", Key: "public-1"}}, nil
	})

	const goroutines = 50
	var wg sync.WaitGroup
	errs := make([]error, goroutines)

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = cache.Resolve(context.Background(), "key-1")
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("goroutine %d: %v", i, err)
		}
	}
	if got := fetches.Load(); got != 1 {
		t.Errorf("fetch ran %d times, want exactly 1", got)
	}

	// warm lookups never fetch again
	if _, err := cache.Resolve(context.Background(), "key-1"); err != nil {
		t.Fatalf("warm resolve: %v", err)
	}
	if got := fetches.Load(); got != 1 {
		t.Errorf("fetch ran %d times after warm resolve, want 1", got)
	}
}

func TestCacheFailedFetchRetries(t *testing.T) {
	var fetches atomic.Int32
	fail := errors.New("issuer unreachable")

	cache := NewCache(func(ctx context.Context) ([]core.SigningKey, error) {
		if fetches.Add(1) == 1 {
			return nil, fail
		}
		return []core.SigningKey{{KeyID: "key-1", Key: "public-1"}}, nil
	})

	_, err := cache.Resolve(context.Background(), "key-1")
	if err == nil {
		t.Fatal("expected first resolve to fail")
	}
	if kind := core.KindOf(err); kind != core.KindKeyResolution {
		t.Errorf("error kind = %q, want %q", kind, core.KindKeyResolution)
	}
	if !errors.Is(err, fail) {
		t.Error("expected fetch error in the chain")
	}
	if cache.Warm() {
		t.Error("failed fetch must leave the cache cold")
	}

	// the next invocation retries and succeeds
	if _, err := cache.Resolve(context.Background(), "key-1"); err != nil {
		t.Fatalf("second resolve: %v", err)
	}
	if got := fetches.Load(); got != 2 {
		t.Errorf("fetch ran %d times, want 2", got)
	}
}
