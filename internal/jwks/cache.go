// Package jwks resolves and memoizes the issuer's public signing keys.
//
// The key set is fetched once per process lifetime and never refreshed:
// issuer key rotation is rare, and a process restart is the implicit
// invalidation path. A rotated kid therefore shows up as an unknown key,
// not as a stale verification.
package jwks

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"github.com/edgegate/edgegate/internal/core"
)

// Cache is the process-wide signing key cache, keyed by kid.
//
// Population is single-flight: concurrent callers racing a cold cache share
// one fetch and observe the same completed result (or the same failure).
// Once warm, lookups are lock-free. A failed fetch leaves the cache cold, so
// the next invocation retries.
type Cache struct {
	fetch FetchFunc
	group singleflight.Group
	keys  atomic.Pointer[map[string]core.SigningKey]
}

func NewCache(fetch FetchFunc) *Cache {
	return &Cache{fetch: fetch}
}

var _ core.KeyResolver = (*Cache)(nil)

// Resolve returns the verification key for the given kid, fetching the key
// set first if the cache is cold.
func (c *Cache) Resolve(ctx context.Context, kid string) (any, error) {
	set, err := c.keySet(ctx)
	if err != nil {
		return nil, err
	}

	key, ok := set[kid]
	if !ok {
		return nil, core.Errf(core.KindUnknownSigningKey, "no key %q in issuer key set", kid)
	}
	return key.Key, nil
}

func (c *Cache) keySet(ctx context.Context) (map[string]core.SigningKey, error) {
	if m := c.keys.Load(); m != nil {
		return *m, nil
	}

	v, err, _ := c.group.Do("keyset", func() (any, error) {
		// another flight may have completed between our load and Do
		if m := c.keys.Load(); m != nil {
			return *m, nil
		}

		list, err := c.fetch(ctx)
		if err != nil {
			return nil, core.WrapErr(core.KindKeyResolution, err)
		}

		m := make(map[string]core.SigningKey, len(list))
		for _, k := range list {
			m[k.KeyID] = k
		}
		c.keys.Store(&m)
		return m, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(map[string]core.SigningKey), nil
}

// Warm reports whether the key set has been populated.
func (c *Cache) Warm() bool {
	return c.keys.Load() != nil
}

// Keys returns the cached signing keys, or nil while the cache is cold.
func (c *Cache) Keys() []core.SigningKey {
	m := c.keys.Load()
	if m == nil {
		return nil
	}
	keys := make([]core.SigningKey, 0, len(*m))
	for _, k := range *m {
		keys = append(keys, k)
	}
	return keys
}
