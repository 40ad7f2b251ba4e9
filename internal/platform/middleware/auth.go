package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"civitas/pkg/domain"
)

// PrincipalValidator turns a bearer token into an authenticated principal.
type PrincipalValidator interface {
	ValidateToken(tokenString string) (domain.Principal, error)
}

type contextKeyPrincipal struct{}

var ContextKeyPrincipal = contextKeyPrincipal{}

// GetPrincipal retrieves the authenticated principal from the context.
// The zero Principal means the request was not authenticated.
func GetPrincipal(ctx context.Context) domain.Principal {
	p, ok := ctx.Value(ContextKeyPrincipal).(domain.Principal)
	if !ok {
		return domain.Principal{}
	}
	return p
}

// RequireAuth validates the bearer token and stores the principal in context.
func RequireAuth(validator PrincipalValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(authHeader, "Bearer ")
			if !ok || token == "" {
				unauthorized(w)
				return
			}
			principal, err := validator.ValidateToken(token)
			if err != nil {
				logger.WarnContext(r.Context(), "unauthorized access - invalid token",
					"error", err,
					"request_id", GetRequestID(r.Context()),
				)
				unauthorized(w)
				return
			}
			ctx := context.WithValue(r.Context(), ContextKeyPrincipal, principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole rejects authenticated principals whose role does not match.
// Must be mounted after RequireAuth.
func RequireRole(role domain.Role, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal := GetPrincipal(r.Context())
			if principal.Role != role {
				logger.WarnContext(r.Context(), "forbidden - role mismatch",
					"required_role", string(role),
					"actual_role", string(principal.Role),
					"request_id", GetRequestID(r.Context()),
				)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusForbidden)
				_, _ = w.Write([]byte(`{"error":"forbidden"}`))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"unauthorized","error_description":"Invalid or expired token"}`))
}
