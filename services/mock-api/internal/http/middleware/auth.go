package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"stationdesk/services/mock-api/internal/service"
)

type contextKey string

const claimsKey contextKey = "claims"

// TokenValidator decodes bearer tokens.
type TokenValidator interface {
	ValidateToken(raw string) (*service.Claims, error)
}

// AuthMiddleware validates JWT tokens and stores the claims in the request context.
func AuthMiddleware(tokens TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				unauthorized(w, "Not authorized, no token")
				return
			}
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				unauthorized(w, "Not authorized, malformed token")
				return
			}
			claims, err := tokens.ValidateToken(strings.TrimSpace(parts[1]))
			if err != nil {
				unauthorized(w, "Not authorized, token failed")
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ActorFromContext returns the authenticated caller.
func ActorFromContext(ctx context.Context) (service.Actor, bool) {
	claims, ok := ctx.Value(claimsKey).(*service.Claims)
	if !ok || claims == nil {
		return service.Actor{}, false
	}
	return service.Actor{UserID: claims.UserID, Role: claims.Role}, true
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": message})
}
