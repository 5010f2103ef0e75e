package authorizer

import "github.com/edgegate/edgegate/internal/core"

// buildDecision assembles the decision returned to the gateway. The policy
// document always echoes the resource of the originating request,
// regardless of effect.
func buildDecision(principal string, effect core.Effect, resource string, context map[string]string) core.Decision {
	return core.Decision{
		PrincipalID: principal,
		Policy: core.PolicyDocument{
			Version: core.PolicyVersion,
			Statement: []core.Statement{
				{
					Action:   core.InvokeAction,
					Effect:   effect,
					Resource: resource,
				},
			},
		},
		Context: context,
	}
}
