package middleware

import (
	"crypto/subtle"
	"net/http"
)

// AdminPasswordHeader carries the operator-entered admin password.
const AdminPasswordHeader = "X-Admin-Password"

// NewAdminGate returns a middleware that guards the admin area with a
// shared-secret check. password is a function because the secret lives in
// the mutable settings record and may change at runtime.
//
// This mirrors the original client's password prompt: a UI nag for a
// single-organization tool, not a security boundary.
func NewAdminGate(password func() string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := r.Header.Get(AdminPasswordHeader)
			want := password()
			if subtle.ConstantTimeCompare([]byte(got), []byte(want)) != 1 {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error":{"code":"unauthorized","message":"wrong admin password"}}`))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
