package transport

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/blackox/loomd/internal/objmgr"
)

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func respondOK(w http.ResponseWriter, payload any) {
	respondJSON(w, http.StatusOK, payload)
}

func respondError(w http.ResponseWriter, status int, kind, message string) {
	respondJSON(w, status, map[string]string{"error": kind, "message": message})
}

// respondOpError maps an objmgr error to its HTTP status, defaulting to
// TransportError/400 for anything the core did not itself raise.
func respondOpError(w http.ResponseWriter, err error) {
	if e, ok := objmgr.AsError(err); ok {
		respondError(w, http.StatusBadRequest, string(e.Kind), e.Message)
		return
	}
	respondError(w, http.StatusBadRequest, string(objmgr.TransportError), err.Error())
}

func decodeBody(r *http.Request, v any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	return dec.Decode(v)
}

// actorFrom extracts the bearer DN from an Authorization header for
// audit attribution, or "anonymous" if none was presented.
func actorFrom(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(auth, prefix) {
		return "anonymous"
	}
	cred := strings.TrimPrefix(auth, prefix)
	if i := strings.Index(cred, ":"); i >= 0 {
		return cred[:i]
	}
	return "anonymous"
}
