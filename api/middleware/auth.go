package middleware

import (
	"net/http"
	"strings"

	"github.com/nexusmart/storefront-gateway/api/responses"
	"github.com/nexusmart/storefront-gateway/internal/session"
	pkgauth "github.com/nexusmart/storefront-gateway/pkg/auth"
	"github.com/nexusmart/storefront-gateway/pkg/config"
	pkgerrors "github.com/nexusmart/storefront-gateway/pkg/errors"
	"github.com/nexusmart/storefront-gateway/pkg/logger"
)

// Auth validates a bearer token and seeds the request context with the
// session. The raw token rides along in the session because every
// collaborator call forwards it.
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

			claims, err := pkgauth.ParseAccessToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}
			if claims.CustomerRef == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "token carries no customer reference"))
				return
			}

			sess := session.Session{
				Token:       token,
				CustomerRef: claims.CustomerRef,
				Email:       claims.Email,
				Role:        string(claims.Role),
			}

			ctx := WithSession(r.Context(), sess)
			if logg != nil {
				ctx = logg.WithCustomerRef(ctx, sess.CustomerRef)
				ctx = logg.WithActorRole(ctx, sess.Role)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
