package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/Kingmac21-dev/ghl-telecom-middleware/internal/api/response"
)

// AdminKeyHeader carries the shared administrative secret.
const AdminKeyHeader = "x-admin-key"

// AdminAuth gates administrative routes behind a shared-secret header.
type AdminAuth struct {
	secret string
}

// NewAdminAuth creates an AdminAuth middleware for the configured secret.
func NewAdminAuth(secret string) *AdminAuth {
	return &AdminAuth{secret: secret}
}

// Require rejects any request whose x-admin-key header does not match the
// configured secret. The comparison is constant-time; the response carries no
// detail beyond "unauthorized".
func (a *AdminAuth) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Header.Get(AdminKeyHeader)
		if key == "" || subtle.ConstantTimeCompare([]byte(key), []byte(a.secret)) != 1 {
			response.Error(w, http.StatusForbidden, "unauthorized", "Unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}
