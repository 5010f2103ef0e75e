// Package verify validates access tokens against the issuer's signing keys
// and the deployment's claim policy. Correctness here is a security
// boundary: every check that fails must end in a Deny upstream.
package verify

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/edgegate/edgegate/internal/core"
	"github.com/edgegate/edgegate/internal/policy"
)

// DefaultAdminScope is the administrative scope marker that satisfies all
// required scopes. Interactively-issued tokens never carry audience-specific
// scopes, so this is their documented escape hatch.
const DefaultAdminScope = "aws.cognito.signin.user.admin"

const tokenUseAccess = "access"

// Options configures a Verifier.
type Options struct {
	// Issuer is the exact issuer string the token must carry.
	Issuer string

	// RequiredScopes is the space-delimited set of scopes the token must
	// satisfy. Empty means no scope requirement.
	RequiredScopes string

	// AdminScope overrides DefaultAdminScope.
	AdminScope string

	// Assertions are evaluated after the fixed checks. Optional.
	Assertions []*policy.Assertion

	// Now overrides the clock, for tests.
	Now func() time.Time
}

// Verifier checks a raw token string and returns its validated claims.
type Verifier struct {
	keys       core.KeyResolver
	issuer     string
	required   []string
	adminScope string
	assertions []*policy.Assertion
	now        func() time.Time
}

func New(keys core.KeyResolver, opts Options) *Verifier {
	adminScope := opts.AdminScope
	if adminScope == "" {
		adminScope = DefaultAdminScope
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Verifier{
		keys:       keys,
		issuer:     opts.Issuer,
		required:   strings.Fields(opts.RequiredScopes),
		adminScope: adminScope,
		assertions: opts.Assertions,
		now:        now,
	}
}

// Verify runs the checks in a fixed order: structure, signature, expiry,
// authentication time, scopes, issuer, token use, then assertions. The
// first failure short-circuits; order matters for diagnostic precision
// only, since any failure yields Deny.
func (v *Verifier) Verify(ctx context.Context, raw string) (*core.Claims, error) {
	mapClaims := jwt.MapClaims{}
	parser := jwt.NewParser(jwt.WithoutClaimsValidation())

	_, err := parser.ParseWithClaims(raw, mapClaims, func(t *jwt.Token) (any, error) {
		kid, _ := t.Header["kid"].(string)
		if kid == "" {
			return nil, core.Errf(core.KindMalformedToken, "token header has no kid")
		}
		return v.keys.Resolve(ctx, kid)
	})
	if err != nil {
		return nil, classifyParseError(err)
	}

	claims := claimsFromMap(mapClaims)

	now := v.now().Unix()
	if now > claims.Expiry {
		return nil, core.Errf(core.KindExpired, "token expired at %d (now %d)", claims.Expiry, now)
	}
	if now < claims.AuthTime {
		return nil, core.Errf(core.KindNotYetValid, "token auth_time %d is in the future (now %d)", claims.AuthTime, now)
	}

	if err := v.checkScopes(claims); err != nil {
		return nil, err
	}

	if claims.Issuer != v.issuer {
		return nil, core.Errf(core.KindIssuerMismatch, "token issued by %q, expected %q", claims.Issuer, v.issuer)
	}

	if claims.TokenUse != tokenUseAccess {
		return nil, core.Errf(core.KindWrongTokenUse, "token_use is %q, want %q", claims.TokenUse, tokenUseAccess)
	}

	for _, a := range v.assertions {
		ok, err := a.Eval(claims.Raw)
		if err != nil {
			return nil, core.WrapErr(core.KindAssertionFailed, err)
		}
		if !ok {
			return nil, core.Errf(core.KindAssertionFailed, "assertion %q not satisfied", a.Name)
		}
	}

	return claims, nil
}

func (v *Verifier) checkScopes(claims *core.Claims) error {
	if len(v.required) == 0 {
		return nil
	}
	if claims.HasScope(v.adminScope) {
		return nil
	}
	for _, req := range v.required {
		if !claims.HasScope(req) {
			return core.Errf(core.KindInsufficientScope, "token missing required scope %q", req)
		}
	}
	return nil
}

// classifyParseError maps golang-jwt parse failures onto the authorizer's
// taxonomy. Keyfunc errors already carry a kind and pass through unchanged.
func classifyParseError(err error) error {
	var authErr *core.AuthError
	if errors.As(err, &authErr) {
		return authErr
	}
	if errors.Is(err, jwt.ErrTokenMalformed) {
		return core.WrapErr(core.KindMalformedToken, err)
	}
	// signature mismatch, unsupported algorithm, and everything else the
	// parser rejects after structural validation
	return core.WrapErr(core.KindInvalidSignature, err)
}

func claimsFromMap(m jwt.MapClaims) *core.Claims {
	return &core.Claims{
		Issuer:   stringClaim(m, "iss"),
		Subject:  stringClaim(m, "sub"),
		Username: stringClaim(m, "username"),
		TokenUse: stringClaim(m, "token_use"),
		AuthTime: intClaim(m, "auth_time"),
		IssuedAt: intClaim(m, "iat"),
		Expiry:   intClaim(m, "exp"),
		Scope:    stringClaim(m, "scope"),
		ClientID: stringClaim(m, "client_id"),
		TokenID:  stringClaim(m, "jti"),
		Raw:      map[string]any(m),
	}
}

func stringClaim(m jwt.MapClaims, key string) string {
	s, _ := m[key].(string)
	return s
}

func intClaim(m jwt.MapClaims, key string) int64 {
	switch t := m[key].(type) {
	case float64:
		return int64(t)
	case int64:
		return t
	default:
		return 0
	}
}
