package middleware

import (
	"context"
	"net/http"
	"strings"

	"stravamcp/internal/handlers/render"
	"stravamcp/internal/handlers/sessionctx"
	"stravamcp/internal/models"
)

type SessionResolver interface {
	Resolve(ctx context.Context, bearer string) (models.Session, error)
}

// SessionMiddleware authenticates requests with an "Authorization: Bearer"
// header and puts the resolved session into the request context.
func SessionMiddleware(resolver SessionResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			bearer, ok := bearerFromRequest(r)
			if !ok {
				render.ServiceError(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			session, err := resolver.Resolve(r.Context(), bearer)
			if err != nil {
				render.ServiceError(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := sessionctx.New(r.Context(), session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerFromRequest(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	bearer, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || bearer == "" {
		return "", false
	}
	return bearer, true
}
