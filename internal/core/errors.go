package core

import (
	"errors"
	"fmt"
)

// Kind classifies an authorization failure. Every kind results in a Deny;
// the distinction exists for logs and audits, never for the caller.
type Kind string

const (
	// KindConfiguration is a deployment misconfiguration. It denies the
	// request like any other failure but should alert operators.
	KindConfiguration Kind = "configuration_error"

	KindInvalidCredentialFormat Kind = "invalid_credential_format"
	KindMalformedToken          Kind = "malformed_token"
	KindUnknownSigningKey       Kind = "unknown_signing_key"
	KindKeyResolution           Kind = "key_resolution_error"
	KindInvalidSignature        Kind = "invalid_signature"
	KindExpired                 Kind = "expired"
	KindNotYetValid             Kind = "not_yet_valid"
	KindInsufficientScope       Kind = "insufficient_scope"
	KindIssuerMismatch          Kind = "issuer_mismatch"
	KindWrongTokenUse           Kind = "wrong_token_use"

	// KindAssertionFailed denies a verified token that fails one of the
	// configured claim assertions.
	KindAssertionFailed Kind = "claim_assertion_failed"
)

// AuthError carries the failure kind alongside the underlying error.
type AuthError struct {
	Kind    Kind
	Wrapped error
}

func (e *AuthError) Error() string {
	return string(e.Kind) + ": " + e.Wrapped.Error()
}

func (e *AuthError) Unwrap() error {
	return e.Wrapped
}

// Errf builds an AuthError from a format string.
func Errf(kind Kind, format string, args ...any) *AuthError {
	return &AuthError{Kind: kind, Wrapped: fmt.Errorf(format, args...)}
}

// WrapErr attaches a kind to an existing error.
func WrapErr(kind Kind, err error) *AuthError {
	return &AuthError{Kind: kind, Wrapped: err}
}

// KindOf extracts the failure kind from an error chain.
// It returns the empty kind for errors that carry none.
func KindOf(err error) Kind {
	var authErr *AuthError
	if errors.As(err, &authErr) {
		return authErr.Kind
	}
	return ""
}
