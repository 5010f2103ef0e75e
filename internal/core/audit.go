package core

import "time"

// AuditEntry is one record of an authorization decision. It carries enough
// detail to diagnose a denial (kind, principal hint, token fingerprint) but
// never the raw token or the error the caller would see.
type AuditEntry struct {
	// ID is the correlation id of the invocation.
	ID string `json:"id,omitempty"`

	Time time.Time `json:"time"`

	// Resource is the gateway resource the decision was scoped to.
	Resource string `json:"resource,omitempty"`

	Effect Effect `json:"effect"`

	// PrincipalID is set on Allow ("user" or "anonymous").
	PrincipalID string `json:"principal_id,omitempty"`

	// Subject is a principal hint on successful verification.
	Subject string `json:"subject,omitempty"`

	// ErrorKind is the failure classification on Deny.
	ErrorKind string `json:"error_kind,omitempty"`

	// Error is the internal error detail, for operators only.
	Error string `json:"error,omitempty"`

	// TokenFingerprint is a non-reversible fingerprint of the presented
	// credential, for correlating abuse across requests.
	TokenFingerprint string `json:"token_fingerprint,omitempty"`

	IdentitySource string `json:"identity_source,omitempty"`
}

// DecisionRecord pairs a returned decision with invocation metadata.
type DecisionRecord struct {
	ID        string    `json:"id,omitempty"`
	Time      time.Time `json:"time"`
	Resource  string    `json:"resource,omitempty"`
	Decision  Decision  `json:"decision"`
	ErrorKind string    `json:"error_kind,omitempty"`
}
