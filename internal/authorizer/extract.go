package authorizer

import (
	"strings"

	"github.com/edgegate/edgegate/internal/core"
)

const (
	authorizationHeader = "authorization"
	tokenQueryParam     = "token"
	bearerScheme        = "Bearer"
)

// ExtractCredential pulls the bearer credential out of the request
// according to the configured identity source.
//
// An empty token with a nil error means no credential was presented,
// which is a valid state (the decision builder settles it).
func ExtractCredential(req core.Request, source core.IdentitySource) (string, error) {
	switch source {
	case core.IdentitySourceHeader:
		raw := headerValue(req.Headers, authorizationHeader)
		if raw == "" {
			return "", nil
		}
		parts := strings.Fields(raw)
		if len(parts) != 2 || parts[0] != bearerScheme {
			return "", core.Errf(core.KindInvalidCredentialFormat,
				"authorization header is not of the form 'Bearer <token>'")
		}
		return parts[1], nil

	case core.IdentitySourceQuery:
		return req.QueryParams[tokenQueryParam], nil

	default:
		// deployment misconfiguration, not a per-request condition
		return "", core.Errf(core.KindConfiguration, "unknown identity source %q", source)
	}
}

func headerValue(headers map[string]string, name string) string {
	if v, ok := headers[name]; ok {
		return v
	}
	// gateways differ on header casing
	for k, v := range headers {
		if strings.EqualFold(k, name) {
			return v
		}
	}
	return ""
}
