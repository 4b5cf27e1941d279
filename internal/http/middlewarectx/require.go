package middlewarectx

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/smartcomptable/smartcomptable/internal/http/response"
	"github.com/smartcomptable/smartcomptable/internal/services/authn"
)

// RequireEntitled rejects anonymous requests with 401. Subscribers and
// administrators pass.
func RequireEntitled(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity := IdentityFromContext(r.Context())
			if identity.Kind == authn.Anonymous {
				log.Info("unentitled request rejected", slog.String("path", r.URL.Path))
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, response.Error("subscription required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin rejects everything but an administrator session with 403.
func RequireAdmin(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity := IdentityFromContext(r.Context())
			if identity.Kind != authn.Administrator {
				log.Info("non-admin request rejected", slog.String("path", r.URL.Path))
				w.WriteHeader(http.StatusForbidden)
				render.JSON(w, r, response.Error("administrator access required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
