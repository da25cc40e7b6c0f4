package middleware

import (
	"encoding/json"
	"net/http"

	"stationdesk/services/console/internal/navigation"
)

// SessionState is the part of the session store the guard reads.
type SessionState interface {
	IsAuthenticated() bool
}

// Guard evaluates route access before the handler runs. Page loads (GET/HEAD) are redirected;
// other methods get 401/409 with the redirect target so API callers can follow it.
func Guard(meta navigation.Meta, session SessionState) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			decision := navigation.Evaluate(meta, session.IsAuthenticated(), r.URL.RequestURI())
			if decision.Allowed() {
				next.ServeHTTP(w, r)
				return
			}

			if r.Method == http.MethodGet || r.Method == http.MethodHead {
				http.Redirect(w, r, decision.Redirect, http.StatusFound)
				return
			}

			status := http.StatusUnauthorized
			message := "authentication required"
			if meta.GuestOnly {
				status = http.StatusConflict
				message = "already signed in"
			}
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(status)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": message, "redirect": decision.Redirect})
		})
	}
}
