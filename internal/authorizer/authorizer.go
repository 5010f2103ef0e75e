// Package authorizer decides Allow/Deny for every inbound gateway request.
//
// Control flow per invocation is strictly linear: extract the credential,
// resolve the signing key, verify the token, build the decision. Any
// failure anywhere is converted to a Deny decision at this level; an
// authorizer invocation must always return a structured decision, never
// an error, because an uncaught failure would fail the whole request
// pipeline instead of simply denying it.
package authorizer

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/edgegate/edgegate/internal/audit"
	"github.com/edgegate/edgegate/internal/core"
	"github.com/edgegate/edgegate/internal/verify"
)

// errCredentialAbsent denies requests without a credential when anonymous
// access is disabled. Not part of the failure taxonomy: nothing about the
// request was malformed, it just was not allowed in.
var errCredentialAbsent = errors.New("no credential presented and anonymous access is disabled")

// Authorizer is the request-time token authorizer.
type Authorizer struct {
	source         core.IdentitySource
	allowAnonymous bool
	verifier       *verify.Verifier
	auditor        core.Auditor
	store          core.DecisionStore
}

// Options wires the authorizer's collaborators. Auditor and Store are
// optional; a nil Auditor becomes a noop.
type Options struct {
	IdentitySource core.IdentitySource
	AllowAnonymous bool
	Auditor        core.Auditor
	Store          core.DecisionStore
}

func New(verifier *verify.Verifier, opts Options) *Authorizer {
	auditor := opts.Auditor
	if auditor == nil {
		auditor = audit.NewNoopAuditor()
	}
	return &Authorizer{
		source:         opts.IdentitySource,
		allowAnonymous: opts.AllowAnonymous,
		verifier:       verifier,
		auditor:        auditor,
		store:          opts.Store,
	}
}

// Authorize produces the decision for one request. It never returns an
// error: the caller only ever observes Allow or Deny.
func (a *Authorizer) Authorize(ctx context.Context, req core.Request) core.Decision {
	reqID, _ := ctx.Value("correlation_id").(string)

	entry := core.AuditEntry{
		ID:             reqID,
		Time:           time.Now(),
		Resource:       req.Resource,
		IdentitySource: a.source.String(),
	}

	token, err := ExtractCredential(req, a.source)
	if err != nil {
		return a.deny(ctx, req, &entry, err)
	}

	if token == "" {
		if a.allowAnonymous {
			entry.Effect = core.EffectAllow
			entry.PrincipalID = core.PrincipalAnonymous
			return a.finish(ctx, &entry,
				buildDecision(core.PrincipalAnonymous, core.EffectAllow, req.Resource, nil))
		}
		return a.deny(ctx, req, &entry,
			errCredentialAbsent)
	}

	entry.TokenFingerprint = audit.Fingerprint(token)

	claims, err := a.verifier.Verify(ctx, token)
	if err != nil {
		return a.deny(ctx, req, &entry, err)
	}

	entry.Effect = core.EffectAllow
	entry.PrincipalID = core.PrincipalUser
	entry.Subject = claims.Subject

	return a.finish(ctx, &entry,
		buildDecision(core.PrincipalUser, core.EffectAllow, req.Resource, ContextFromClaims(claims)))
}

// deny logs the failure for operators and returns a bare Deny. The error
// detail never reaches the decision or the context: the unauthenticated
// caller must not learn why it was rejected.
func (a *Authorizer) deny(ctx context.Context, req core.Request, entry *core.AuditEntry, err error) core.Decision {
	kind := core.KindOf(err)

	logger := log.Ctx(ctx)
	evt := logger.Warn().
		Str("error_kind", string(kind)).
		Str("resource", req.Resource).
		Err(err)
	if entry.Subject != "" {
		evt = evt.Str("subject", entry.Subject)
	}
	evt.Msg("authorization denied")

	entry.Effect = core.EffectDeny
	entry.ErrorKind = string(kind)
	entry.Error = err.Error()

	return a.finish(ctx, entry, buildDecision("", core.EffectDeny, req.Resource, nil))
}

func (a *Authorizer) finish(ctx context.Context, entry *core.AuditEntry, decision core.Decision) core.Decision {
	logger := log.Ctx(ctx)

	if err := a.auditor.Log(*entry); err != nil {
		logger.Error().Err(err).Msg("failed to write audit entry for decision")
	}

	if a.store != nil {
		rec := core.DecisionRecord{
			ID:        entry.ID,
			Time:      entry.Time,
			Resource:  entry.Resource,
			Decision:  decision,
			ErrorKind: entry.ErrorKind,
		}
		if err := a.store.Save(ctx, rec); err != nil {
			logger.Error().Err(err).Msg("failed to save decision record")
		}
	}

	return decision
}
