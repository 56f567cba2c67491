package middleware

import (
	"context"
	"net/http"
	"strings"

	"folha/internal/domain/auth"
	"folha/internal/requestctx"
	"folha/internal/transport/http/api"
)

// Auth resolves a bearer token into the operator identity. Requests without
// a valid token pass through anonymous; RequireOperator rejects them.
func Auth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			scheme, token, found := strings.Cut(authHeader, " ")
			if !found || !strings.EqualFold(scheme, "bearer") || token == "" {
				next.ServeHTTP(w, r)
				return
			}
			claims, err := auth.ParseToken(secret, strings.TrimSpace(token))
			if err != nil || claims.Role != auth.RoleOperator {
				next.ServeHTTP(w, r)
				return
			}
			ctx := requestctx.WithOperator(r.Context(), claims.Email)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func RequireOperator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetUser(r.Context()); !ok {
			api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", GetRequestID(r.Context()))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func GetUser(ctx context.Context) (auth.UserContext, bool) {
	email := requestctx.Operator(ctx)
	if email == "" {
		return auth.UserContext{}, false
	}
	return auth.UserContext{Email: email, Role: auth.RoleOperator}, true
}
