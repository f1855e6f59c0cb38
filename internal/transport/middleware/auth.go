package middleware

import (
	"net/http"
	"strings"

	"github.com/tastemap/tastemap-backend/internal/auth"
	"github.com/tastemap/tastemap-backend/pkg/ctxutil"
)

type tokenValidator interface {
	ValidateAccessToken(token string) (int64, string, error)
}

// Auth validates a bearer token when one is present and stores the caller's
// identity (user id, admin flag) in the request context. Requests without a
// token pass through anonymously; per-route authorization is enforced by
// the handlers.
func Auth(validator tokenValidator) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractBearerToken(r)
			if token == "" {
				next.ServeHTTP(w, r) // Anonymous
				return
			}
			userID, role, err := validator.ValidateAccessToken(token)
			if err != nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			ctx := ctxutil.WithUserID(r.Context(), userID)
			ctx = ctxutil.WithAdmin(ctx, role == auth.RoleAdmin)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func extractBearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
