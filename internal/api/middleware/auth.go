package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/edgegate/edgegate/internal/api/presenter"
)

// AdminAuth guards the admin routes behind a shared token. The facade is a
// dev/operations surface; callers present the token as a bearer credential.
func AdminAuth(adminToken string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if adminToken == "" {
				presenter.Error(w, r, "admin API disabled (no admin token configured)", http.StatusForbidden)
				return
			}

			auth := r.Header.Get("Authorization")
			presented := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer"))
			if presented == "" {
				presenter.Error(w, r, "login required", http.StatusUnauthorized)
				return
			}

			if subtle.ConstantTimeCompare([]byte(presented), []byte(adminToken)) != 1 {
				presenter.Error(w, r, "invalid admin token", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
