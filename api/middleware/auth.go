package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/spinwin/prizewheel-backend/api/responses"
	pkgAuth "github.com/spinwin/prizewheel-backend/pkg/auth"
	"github.com/spinwin/prizewheel-backend/pkg/config"
	pkgerrors "github.com/spinwin/prizewheel-backend/pkg/errors"
	"github.com/spinwin/prizewheel-backend/pkg/logger"
)

// Auth validates a bearer token and seeds the request context with the
// admin identity. Tokens are stateless; there is no session store behind the
// single dashboard credential.
func Auth(cfg config.JWTConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get("Authorization"))
			if raw == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			token := raw
			if strings.HasPrefix(strings.ToLower(token), "bearer ") {
				token = strings.TrimSpace(token[7:])
			}
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			claims, err := pkgAuth.ParseAccessToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}

			ctx := context.WithValue(r.Context(), ctxAdminEmail, claims.Email)
			ctx = context.WithValue(ctx, ctxRole, claims.Role)

			if logg != nil {
				ctx = logg.WithFields(ctx, map[string]any{
					"admin_email": claims.Email,
					"actor_role":  claims.Role,
				})
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
