package verify

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/edgegate/edgegate/internal/core"
	"github.com/edgegate/edgegate/internal/policy"
)

const (
	testIssuer = "https://cognito-idp.eu-central-1.amazonaws.com/eu-central-1_TestPool1"
	testKid    = "test-key"
)

// fakeResolver serves a single RSA public key under testKid.
type fakeResolver struct {
	key *rsa.PublicKey
}

func (r *fakeResolver) Resolve(_ context.Context, kid string) (any, error) {
	if kid != testKid {
		return nil, core.Errf(core.KindUnknownSigningKey, "no key %q in issuer key set", kid)
	}
	return r.key, nil
}

type testEnv struct {
	priv     *rsa.PrivateKey
	resolver *fakeResolver
	now      time.Time
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generating rsa key: %v", err)
	}
	return &testEnv{
		priv:     priv,
		resolver: &fakeResolver{key: &priv.PublicKey},
		now:      time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

// baseClaims returns claims that verify cleanly against the default
// verifier options. Tests override individual entries to trip one check.
func (e *testEnv) baseClaims() jwt.MapClaims {
	return jwt.MapClaims{
		"iss":       testIssuer,
		"sub":       "4f2a-sub",
		"username":  "jdoe",
		"token_use": "access",
		"auth_time": float64(e.now.Add(-10 * time.Minute).Unix()),
		"iat":       float64(e.now.Add(-10 * time.Minute).Unix()),
		"exp":       float64(e.now.Add(50 * time.Minute).Unix()),
		"scope":     "api/read api/write",
		"client_id": "client-abc",
		"jti":       "token-1",
	}
}

func (e *testEnv) sign(t *testing.T, claims jwt.MapClaims, kid string, key *rsa.PrivateKey) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = kid
	signed, err := token.SignedString(key)
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}
	return signed
}

func (e *testEnv) verifier(t *testing.T, opts Options) *Verifier {
	t.Helper()
	if opts.Issuer == "" {
		opts.Issuer = testIssuer
	}
	if opts.Now == nil {
		opts.Now = func() time.Time { return e.now }
	}
	return New(e.resolver, opts)
}

func TestVerifyValidToken(t *testing.T) {
	env := newTestEnv(t)
	v := env.verifier(t, Options{RequiredScopes: "api/read"})

	raw := env.sign(t, env.baseClaims(), testKid, env.priv)
	claims, err := v.Verify(context.Background(), raw)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}

	if claims.Subject != "4f2a-sub" {
		t.Errorf("Subject = %q", claims.Subject)
	}
	if claims.Username != "jdoe" {
		t.Errorf("Username = %q", claims.Username)
	}
	if claims.ClientID != "client-abc" {
		t.Errorf("ClientID = %q", claims.ClientID)
	}
	if claims.TokenUse != "access" {
		t.Errorf("TokenUse = %q", claims.TokenUse)
	}
	if !claims.HasScope("api/write") {
		t.Error("expected api/write scope")
	}
	if claims.Raw["jti"] != "token-1" {
		t.Errorf("Raw[jti] = %v", claims.Raw["jti"])
	}
}

func TestVerifyFailureKinds(t *testing.T) {
	env := newTestEnv(t)

	otherKey, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generating rsa key: %v", err)
	}

	tests := []struct {
		name  string
		opts  Options
		token func(t *testing.T) string
		want  core.Kind
	}{
		{
			name:  "Garbage Token",
			token: func(t *testing.T) string { return "not.a.token" },
			want:  core.KindMalformedToken,
		},
		{
			name: "Missing Kid",
			token: func(t *testing.T) string {
				token := jwt.NewWithClaims(jwt.SigningMethodRS256, env.baseClaims())
				signed, err := token.SignedString(env.priv)
				if err != nil {
					t.Fatalf("signing token: %v", err)
				}
				return signed
			},
			want: core.KindMalformedToken,
		},
		{
			name: "Unknown Kid",
			token: func(t *testing.T) string {
				return env.sign(t, env.baseClaims(), "rotated-key", env.priv)
			},
			want: core.KindUnknownSigningKey,
		},
		{
			name: "Wrong Signing Key",
			token: func(t *testing.T) string {
				return env.sign(t, env.baseClaims(), testKid, otherKey)
			},
			want: core.KindInvalidSignature,
		},
		{
			name: "Expired",
			token: func(t *testing.T) string {
				claims := env.baseClaims()
				claims["exp"] = float64(env.now.Add(-time.Minute).Unix())
				return env.sign(t, claims, testKid, env.priv)
			},
			want: core.KindExpired,
		},
		{
			name: "Auth Time In Future",
			token: func(t *testing.T) string {
				claims := env.baseClaims()
				claims["auth_time"] = float64(env.now.Add(time.Hour).Unix())
				return env.sign(t, claims, testKid, env.priv)
			},
			want: core.KindNotYetValid,
		},
		{
			name: "Missing Required Scope",
			opts: Options{RequiredScopes: "api/admin"},
			token: func(t *testing.T) string {
				return env.sign(t, env.baseClaims(), testKid, env.priv)
			},
			want: core.KindInsufficientScope,
		},
		{
			name: "Issuer Mismatch",
			token: func(t *testing.T) string {
				claims := env.baseClaims()
				claims["iss"] = "https://cognito-idp.eu-central-1.amazonaws.com/eu-central-1_OtherPool"
				return env.sign(t, claims, testKid, env.priv)
			},
			want: core.KindIssuerMismatch,
		},
		{
			name: "ID Token Rejected",
			token: func(t *testing.T) string {
				claims := env.baseClaims()
				claims["token_use"] = "id"
				return env.sign(t, claims, testKid, env.priv)
			},
			want: core.KindWrongTokenUse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := env.verifier(t, tt.opts)
			_, err := v.Verify(context.Background(), tt.token(t))
			if err == nil {
				t.Fatal("expected verification to fail")
			}
			if kind := core.KindOf(err); kind != tt.want {
				t.Errorf("error kind = %q, want %q (err: %v)", kind, tt.want, err)
			}
		})
	}
}

func TestVerifyCheckOrder(t *testing.T) {
	env := newTestEnv(t)
	v := env.verifier(t, Options{RequiredScopes: "api/admin"})

	// multiple checks would fail here; the expiry check runs before
	// scopes and issuer, so its kind wins
	claims := env.baseClaims()
	claims["exp"] = float64(env.now.Add(-time.Minute).Unix())
	claims["iss"] = "https://wrong.example.com"

	_, err := v.Verify(context.Background(), env.sign(t, claims, testKid, env.priv))
	if kind := core.KindOf(err); kind != core.KindExpired {
		t.Errorf("error kind = %q, want %q", kind, core.KindExpired)
	}
}

func TestVerifyAdminScopeBypass(t *testing.T) {
	env := newTestEnv(t)
	v := env.verifier(t, Options{RequiredScopes: "api/admin api/special"})

	claims := env.baseClaims()
	claims["scope"] = DefaultAdminScope

	if _, err := v.Verify(context.Background(), env.sign(t, claims, testKid, env.priv)); err != nil {
		t.Errorf("expected admin scope to satisfy all required scopes, got %v", err)
	}
}

func TestVerifyCustomAdminScope(t *testing.T) {
	env := newTestEnv(t)
	v := env.verifier(t, Options{
		RequiredScopes: "api/admin",
		AdminScope:     "internal/superuser",
	})

	claims := env.baseClaims()
	claims["scope"] = "internal/superuser"
	if _, err := v.Verify(context.Background(), env.sign(t, claims, testKid, env.priv)); err != nil {
		t.Errorf("expected custom admin scope to bypass, got %v", err)
	}

	// the default admin scope no longer bypasses once overridden
	claims["scope"] = DefaultAdminScope
	_, err := v.Verify(context.Background(), env.sign(t, claims, testKid, env.priv))
	if kind := core.KindOf(err); kind != core.KindInsufficientScope {
		t.Errorf("error kind = %q, want %q", kind, core.KindInsufficientScope)
	}
}

func TestVerifyNoRequiredScopes(t *testing.T) {
	env := newTestEnv(t)
	v := env.verifier(t, Options{})

	claims := env.baseClaims()
	claims["scope"] = ""

	if _, err := v.Verify(context.Background(), env.sign(t, claims, testKid, env.priv)); err != nil {
		t.Errorf("expected scope-less token to pass without requirements, got %v", err)
	}
}

func TestVerifyAssertions(t *testing.T) {
	env := newTestEnv(t)

	assertions, err := policy.Compile([]policy.AssertionConfig{
		{Name: "client-allowlisted", Expr: `claims.client_id == "client-abc"`},
	})
	if err != nil {
		t.Fatalf("compiling assertions: %v", err)
	}
	v := env.verifier(t, Options{Assertions: assertions})

	if _, err := v.Verify(context.Background(), env.sign(t, env.baseClaims(), testKid, env.priv)); err != nil {
		t.Errorf("expected assertion to pass, got %v", err)
	}

	claims := env.baseClaims()
	claims["client_id"] = "client-evil"
	_, err = v.Verify(context.Background(), env.sign(t, claims, testKid, env.priv))
	if kind := core.KindOf(err); kind != core.KindAssertionFailed {
		t.Errorf("error kind = %q, want %q", kind, core.KindAssertionFailed)
	}
}
