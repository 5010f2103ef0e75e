package validation

import (
	"fmt"
	"strings"

	"github.com/edgegate/edgegate/internal/core"
	"github.com/edgegate/edgegate/internal/policy"
)

// ValidateAuthorizer resolves the identity-source string into its closed
// enum form and sanity-checks the scope configuration. Called once at
// config load; a failure here is a deployment misconfiguration.
func ValidateAuthorizer(identitySource, requiredScopes string) (core.IdentitySource, error) {
	source, err := core.ParseIdentitySource(identitySource)
	if err != nil {
		return core.IdentitySourceUnknown, err
	}

	// required_scopes is space-delimited; commas are a frequent operator
	// mistake and would silently require a scope nobody can hold
	for _, scope := range strings.Fields(requiredScopes) {
		if strings.Contains(scope, ",") {
			return core.IdentitySourceUnknown, fmt.Errorf("required scope %q contains a comma (scopes are space-delimited)", scope)
		}
	}

	return source, nil
}

// ValidateAssertions compiles the configured claim assertions.
func ValidateAssertions(cfgs []policy.AssertionConfig) ([]*policy.Assertion, error) {
	assertions, err := policy.Compile(cfgs)
	if err != nil {
		return nil, fmt.Errorf("validating assertions: %w", err)
	}
	return assertions, nil
}
