package audit

import (
	"crypto/sha256"
	"encoding/base64"
)

// Fingerprint derives a non-reversible identifier from a presented
// credential so audit entries can correlate repeated use of the same token
// without ever storing the token itself.
func Fingerprint(token string) string {
	hash := sha256.Sum256([]byte(token))
	return base64.StdEncoding.EncodeToString(hash[:])
}
