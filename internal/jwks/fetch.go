package jwks

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/lestrrat-go/jwx/v3/jwk"

	"github.com/edgegate/edgegate/internal/core"
)

// WellKnownPath is the discovery path the issuer serves its key set under.
const WellKnownPath = "/.well-known/jwks.json"

// DefaultTimeout bounds the discovery fetch so an invocation can never
// outlive the hosting environment's deadline waiting on the network.
const DefaultTimeout = 5 * time.Second

// URLFor builds the discovery URL for an issuer.
func URLFor(issuer string) string {
	return strings.TrimSuffix(issuer, "/") + WellKnownPath
}

// FetchFunc retrieves the issuer's full signing key set.
// The Cache takes one of these so tests can inject their own.
type FetchFunc func(ctx context.Context) ([]core.SigningKey, error)

// HTTPFetcher fetches and parses the issuer's JWKS document.
type HTTPFetcher struct {
	url    string
	client *http.Client
}

func NewHTTPFetcher(jwksURL string, timeout time.Duration) *HTTPFetcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &HTTPFetcher{
		url:    jwksURL,
		client: &http.Client{Timeout: timeout},
	}
}

func (f *HTTPFetcher) Fetch(ctx context.Context) ([]core.SigningKey, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating jwks request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching jwks from %q: %w", f.url, err)
	}
	defer func(body io.ReadCloser) {
		_ = body.Close()
	}(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("jwks endpoint %q returned status %d", f.url, resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading jwks response: %w", err)
	}

	return ParseKeySet(raw)
}

// ParseKeySet converts a JWKS document into verification keys.
// Keys without a kid are skipped; they can never be looked up.
func ParseKeySet(raw []byte) ([]core.SigningKey, error) {
	set, err := jwk.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parsing jwks document: %w", err)
	}

	keys := make([]core.SigningKey, 0, set.Len())
	for i := 0; i < set.Len(); i++ {
		key, ok := set.Key(i)
		if !ok {
			continue
		}
		kid, ok := key.KeyID()
		if !ok || kid == "" {
			continue
		}

		var pub any
		if err := jwk.Export(key, &pub); err != nil {
			return nil, fmt.Errorf("deriving verification key for %q: %w", kid, err)
		}

		alg := ""
		if a, ok := key.Algorithm(); ok {
			alg = a.String()
		}

		rawKey, err := json.Marshal(key)
		if err != nil {
			return nil, fmt.Errorf("marshaling key %q: %w", kid, err)
		}

		keys = append(keys, core.SigningKey{
			KeyID:     kid,
			Algorithm: alg,
			Raw:       rawKey,
			Key:       pub,
		})
	}

	if len(keys) == 0 {
		return nil, fmt.Errorf("jwks document contains no usable keys")
	}
	return keys, nil
}
