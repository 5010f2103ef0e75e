package core

import "context"

// KeyResolver returns the verification key for a key id.
// Implementations: JWKS cache, static test resolvers.
type KeyResolver interface {
	// Resolve returns the crypto verification key for the given kid.
	Resolve(ctx context.Context, kid string) (any, error)
}

// Auditor records one entry per authorization decision.
// Implementations: file, memory, noop.
type Auditor interface {
	Log(entry AuditEntry) error
	Close() error
}

// RecentLister is implemented by auditors that can serve entries back,
// used by the admin API.
type RecentLister interface {
	GetRecent(limit int) ([]AuditEntry, error)
}

// DecisionStore keeps recent decisions for the admin API.
type DecisionStore interface {
	Save(ctx context.Context, rec DecisionRecord) error
	ListRecent(ctx context.Context, limit int) ([]DecisionRecord, error)
}
