package transport

import (
	"net/http"
	"strings"
)

// requireDirectory wraps next with the optional LDAP bind gate. With no
// gate configured it is a no-op, matching spec: no authorisation beyond
// what the transport enforces, and the transport enforces nothing by
// default.
func (t *Transport) requireDirectory(next http.HandlerFunc) http.HandlerFunc {
	if t.gate == nil {
		return next
	}
	return func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		const prefix = "Bearer "
		if !strings.HasPrefix(auth, prefix) {
			respondError(w, http.StatusUnauthorized, "TransportError", "missing directory credentials")
			return
		}
		cred := strings.TrimPrefix(auth, prefix)
		i := strings.Index(cred, ":")
		if i < 0 {
			respondError(w, http.StatusUnauthorized, "TransportError", "malformed directory credentials")
			return
		}
		dn, password := cred[:i], cred[i+1:]
		if err := t.gate.Authenticate(dn, password); err != nil {
			respondError(w, http.StatusUnauthorized, "TransportError", "directory authentication failed")
			return
		}
		next(w, r)
	}
}
