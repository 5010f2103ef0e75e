// Package gateway holds the wire formats exchanged with the hosting
// API gateway: the inbound authorizer event and the policy response.
package gateway

import (
	"strings"

	"github.com/edgegate/edgegate/internal/core"
)

// Event is the payload the gateway hands to the authorizer per request.
type Event struct {
	// Type is the authorizer invocation type as reported by the gateway
	// (e.g. "REQUEST"). Informational.
	Type string `json:"type,omitempty"`

	// MethodArn identifies the resource the request targets.
	MethodArn string `json:"methodArn"`

	Headers               map[string]string `json:"headers,omitempty"`
	QueryStringParameters map[string]string `json:"queryStringParameters,omitempty"`
}

// Request converts the event into the authorizer's request model.
// Header names are normalized to lowercase; gateways disagree on casing.
func (e Event) Request() core.Request {
	headers := make(map[string]string, len(e.Headers))
	for k, v := range e.Headers {
		headers[strings.ToLower(k)] = v
	}
	return core.Request{
		Headers:     headers,
		QueryParams: e.QueryStringParameters,
		Resource:    e.MethodArn,
	}
}

// Response is the decision shape the gateway consumes.
type Response struct {
	PrincipalID    string              `json:"principalId,omitempty"`
	PolicyDocument core.PolicyDocument `json:"policyDocument"`
	Context        map[string]string   `json:"context,omitempty"`
}

// FromDecision maps a decision onto the gateway response.
func FromDecision(d core.Decision) Response {
	return Response{
		PrincipalID:    d.PrincipalID,
		PolicyDocument: d.Policy,
		Context:        d.Context,
	}
}
