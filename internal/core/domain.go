package core

import (
	"encoding/json"
	"fmt"
	"strings"
)

// IdentitySource selects where the authorizer looks for the caller credential.
// It is resolved once at configuration load, not per request.
type IdentitySource int

const (
	IdentitySourceUnknown IdentitySource = iota
	IdentitySourceHeader
	IdentitySourceQuery
)

// ParseIdentitySource maps the configured identity source string to its
// enumerated form. The names match what the gateway configuration uses.
func ParseIdentitySource(s string) (IdentitySource, error) {
	switch s {
	case "HEADER":
		return IdentitySourceHeader, nil
	case "QUERYSTRING":
		return IdentitySourceQuery, nil
	default:
		return IdentitySourceUnknown, fmt.Errorf("unknown identity source %q (expected HEADER or QUERYSTRING)", s)
	}
}

func (s IdentitySource) String() string {
	switch s {
	case IdentitySourceHeader:
		return "HEADER"
	case IdentitySourceQuery:
		return "QUERYSTRING"
	default:
		return "UNKNOWN"
	}
}

// Request is the inbound gateway event the authorizer decides on.
// It is supplied once per invocation and never mutated.
type Request struct {
	// Headers are the request headers, keyed lowercase.
	Headers map[string]string

	// QueryParams are the request query string parameters.
	QueryParams map[string]string

	// Resource is the gateway resource identifier (ARN-like string)
	// the decision must be scoped to.
	Resource string
}

// Claims is the decoded payload of a verified access token.
type Claims struct {
	// Issuer is the 'iss' claim.
	Issuer string

	// Subject is the 'sub' claim.
	Subject string

	// Username is the username the pool knows the caller by.
	Username string

	// TokenUse tags the token kind ("access", "id", "refresh").
	TokenUse string

	// AuthTime is when the caller authenticated, seconds since epoch.
	AuthTime int64

	// IssuedAt is the 'iat' claim, seconds since epoch.
	IssuedAt int64

	// Expiry is the 'exp' claim, seconds since epoch.
	Expiry int64

	// Scope is the space-delimited scope claim.
	Scope string

	// ClientID is the app client the token was issued to.
	ClientID string

	// TokenID is the unique token identifier ('jti').
	TokenID string

	// Raw holds every decoded claim, used for context building
	// and assertion evaluation.
	Raw map[string]any
}

// Scopes splits the space-delimited scope claim.
func (c *Claims) Scopes() []string {
	return strings.Fields(c.Scope)
}

// HasScope reports whether the token carries the given scope.
func (c *Claims) HasScope(scope string) bool {
	for _, s := range c.Scopes() {
		if s == scope {
			return true
		}
	}
	return false
}

// SigningKey is one verification key from the issuer's published key set.
// Immutable once fetched; identity is the key id.
type SigningKey struct {
	// KeyID is the 'kid' the key is looked up by.
	KeyID string

	// Algorithm is the declared signing algorithm (e.g. "RS256").
	Algorithm string

	// Raw is the JWK document the key was built from.
	Raw json.RawMessage

	// Key is the derived crypto verification key (e.g. *rsa.PublicKey).
	Key any
}

// Effect is the authorization outcome attached to a policy statement.
type Effect string

const (
	EffectAllow Effect = "Allow"
	EffectDeny  Effect = "Deny"
)

// Principal markers returned in decisions. They are stable and non-secret;
// the claims context carries the actual caller identity.
const (
	PrincipalUser      = "user"
	PrincipalAnonymous = "anonymous"
)

const (
	// PolicyVersion is the policy language version the gateway expects.
	PolicyVersion = "2012-10-17"

	// InvokeAction is the single action an authorizer decision covers.
	InvokeAction = "execute-api:Invoke"
)

// Statement is one policy statement scoped to a single resource.
type Statement struct {
	Action   string `json:"Action"`
	Effect   Effect `json:"Effect"`
	Resource string `json:"Resource"`
}

// PolicyDocument is the policy attached to a Decision.
type PolicyDocument struct {
	Version   string      `json:"Version"`
	Statement []Statement `json:"Statement"`
}

// Decision is the authorizer verdict for one request. Produced fresh per
// invocation and immutable once returned. Context values are always
// strings: the consuming gateway silently drops requests whose authorizer
// context contains non-string values.
type Decision struct {
	PrincipalID string            `json:"principal_id,omitempty"`
	Policy      PolicyDocument    `json:"policy"`
	Context     map[string]string `json:"context,omitempty"`
}

// Allowed reports whether the decision permits the request.
func (d Decision) Allowed() bool {
	for _, s := range d.Policy.Statement {
		if s.Effect == EffectAllow {
			return true
		}
	}
	return false
}
