package authorizer

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/go-cmp/cmp"

	"github.com/edgegate/edgegate/internal/audit"
	"github.com/edgegate/edgegate/internal/core"
	"github.com/edgegate/edgegate/internal/store"
	"github.com/edgegate/edgegate/internal/verify"
)

const (
	testIssuer   = "https://cognito-idp.eu-central-1.amazonaws.com/eu-central-1_TestPool1"
	testKid      = "test-key"
	testResource = "arn:aws:execute-api:eu-central-1:123456789012:api/prod/GET/items"
)

type fakeResolver struct {
	key *rsa.PublicKey
}

func (r *fakeResolver) Resolve(_ context.Context, kid string) (any, error) {
	if kid != testKid {
		return nil, core.Errf(core.KindUnknownSigningKey, "no key %q in issuer key set", kid)
	}
	return r.key, nil
}

type harness struct {
	priv    *rsa.PrivateKey
	now     time.Time
	auditor *audit.InMemoryAuditor
	store   *store.InMemoryDecisionStore
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generating rsa key: %v", err)
	}
	return &harness{
		priv:    priv,
		now:     time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		auditor: audit.NewInMemoryAuditor(),
		store:   store.NewInMemoryDecisionStore(16),
	}
}

func (h *harness) authorizer(t *testing.T, opts Options) *Authorizer {
	t.Helper()
	v := verify.New(&fakeResolver{key: &h.priv.PublicKey}, verify.Options{
		Issuer: testIssuer,
		Now:    func() time.Time { return h.now },
	})
	if opts.IdentitySource == core.IdentitySourceUnknown {
		opts.IdentitySource = core.IdentitySourceHeader
	}
	if opts.Auditor == nil {
		opts.Auditor = h.auditor
	}
	if opts.Store == nil {
		opts.Store = h.store
	}
	return New(v, opts)
}

func (h *harness) token(t *testing.T) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, jwt.MapClaims{
		"iss":       testIssuer,
		"sub":       "4f2a-sub",
		"username":  "jdoe",
		"token_use": "access",
		"auth_time": float64(h.now.Add(-10 * time.Minute).Unix()),
		"iat":       float64(h.now.Add(-10 * time.Minute).Unix()),
		"exp":       float64(h.now.Add(50 * time.Minute).Unix()),
		"scope":     "api/read",
		"client_id": "client-abc",
	})
	token.Header["kid"] = testKid
	signed, err := token.SignedString(h.priv)
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}
	return signed
}

func bearerRequest(token string) core.Request {
	return core.Request{
		Headers:  map[string]string{"authorization": "Bearer " + token},
		Resource: testResource,
	}
}

func TestAuthorizeAllow(t *testing.T) {
	h := newHarness(t)
	a := h.authorizer(t, Options{})

	decision := a.Authorize(context.Background(), bearerRequest(h.token(t)))

	if !decision.Allowed() {
		t.Fatal("expected Allow")
	}
	if decision.PrincipalID != core.PrincipalUser {
		t.Errorf("principal = %q, want %q", decision.PrincipalID, core.PrincipalUser)
	}
	if got := decision.Policy.Statement[0].Resource; got != testResource {
		t.Errorf("policy resource = %q, want %q", got, testResource)
	}
	if decision.Policy.Version != core.PolicyVersion {
		t.Errorf("policy version = %q", decision.Policy.Version)
	}
	if got := decision.Context["username"]; got != "jdoe" {
		t.Errorf("context username = %q, want jdoe", got)
	}
	if got := decision.Context["sub"]; got != "4f2a-sub" {
		t.Errorf("context sub = %q", got)
	}
}

func TestAuthorizeDenyInvalidToken(t *testing.T) {
	h := newHarness(t)
	a := h.authorizer(t, Options{})

	decision := a.Authorize(context.Background(), bearerRequest("not.a.token"))

	if decision.Allowed() {
		t.Fatal("expected Deny")
	}
	if decision.PrincipalID != "" {
		t.Errorf("deny decision must not carry a principal, got %q", decision.PrincipalID)
	}
	// failure detail stays in logs and audits, never in the decision
	if len(decision.Context) != 0 {
		t.Errorf("deny decision must not carry context, got %v", decision.Context)
	}
	if got := decision.Policy.Statement[0].Resource; got != testResource {
		t.Errorf("deny policy resource = %q, want %q", got, testResource)
	}
}

func TestAuthorizeNoCredential(t *testing.T) {
	h := newHarness(t)

	t.Run("Anonymous Disabled", func(t *testing.T) {
		a := h.authorizer(t, Options{})
		decision := a.Authorize(context.Background(), core.Request{
			Headers:  map[string]string{},
			Resource: testResource,
		})
		if decision.Allowed() {
			t.Error("expected Deny without a credential")
		}
	})

	t.Run("Anonymous Enabled", func(t *testing.T) {
		a := h.authorizer(t, Options{AllowAnonymous: true})
		decision := a.Authorize(context.Background(), core.Request{
			Headers:  map[string]string{},
			Resource: testResource,
		})
		if !decision.Allowed() {
			t.Fatal("expected anonymous Allow")
		}
		if decision.PrincipalID != core.PrincipalAnonymous {
			t.Errorf("principal = %q, want %q", decision.PrincipalID, core.PrincipalAnonymous)
		}
		if len(decision.Context) != 0 {
			t.Errorf("anonymous decision must not carry context, got %v", decision.Context)
		}
	})

	t.Run("Anonymous Does Not Excuse Bad Credentials", func(t *testing.T) {
		a := h.authorizer(t, Options{AllowAnonymous: true})
		decision := a.Authorize(context.Background(), core.Request{
			Headers:  map[string]string{"authorization": "Basic dXNlcjpwYXNz"},
			Resource: testResource,
		})
		if decision.Allowed() {
			t.Error("expected Deny for a malformed credential even with anonymous enabled")
		}
	})
}

func TestAuthorizeIdempotent(t *testing.T) {
	h := newHarness(t)
	a := h.authorizer(t, Options{})
	req := bearerRequest(h.token(t))

	first := a.Authorize(context.Background(), req)
	second := a.Authorize(context.Background(), req)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("same request produced different decisions (-first +second):\n%s", diff)
	}
}

func TestAuthorizeAuditTrail(t *testing.T) {
	h := newHarness(t)
	a := h.authorizer(t, Options{})

	token := h.token(t)
	a.Authorize(context.Background(), bearerRequest(token))
	a.Authorize(context.Background(), bearerRequest("not.a.token"))

	entries, err := h.auditor.GetRecent(10)
	if err != nil {
		t.Fatalf("GetRecent: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 audit entries, got %d", len(entries))
	}

	allow, deny := entries[0], entries[1]
	if allow.Effect != core.EffectAllow || allow.Subject != "4f2a-sub" {
		t.Errorf("unexpected allow entry: %+v", allow)
	}
	if allow.TokenFingerprint != audit.Fingerprint(token) {
		t.Error("allow entry fingerprint does not match the presented token")
	}
	if deny.Effect != core.EffectDeny || deny.ErrorKind != string(core.KindMalformedToken) {
		t.Errorf("unexpected deny entry: %+v", deny)
	}

	records, err := h.store.ListRecent(context.Background(), 10)
	if err != nil {
		t.Fatalf("ListRecent: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 decision records, got %d", len(records))
	}
	if !records[0].Decision.Allowed() || records[1].Decision.Allowed() {
		t.Errorf("unexpected record effects: %+v", records)
	}
}

func TestAuthorizeQuerySource(t *testing.T) {
	h := newHarness(t)
	a := h.authorizer(t, Options{IdentitySource: core.IdentitySourceQuery})

	decision := a.Authorize(context.Background(), core.Request{
		QueryParams: map[string]string{"token": h.token(t)},
		Resource:    testResource,
	})
	if !decision.Allowed() {
		t.Error("expected Allow for valid token in query string")
	}

	// an authorization header is ignored when the source is the query string
	decision = a.Authorize(context.Background(), core.Request{
		Headers:  map[string]string{"authorization": "Bearer " + h.token(t)},
		Resource: testResource,
	})
	if decision.Allowed() {
		t.Error("expected Deny when the credential is in the wrong place")
	}
}
