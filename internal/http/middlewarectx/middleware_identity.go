// Package middlewarectx contains the HTTP middleware chain: per-request
// identity resolution, access gates for subscribers and administrators, and
// rate limiting for the authenticated group.
//
// IdentityMiddleware runs the resolver once per request and stores the
// result plus the mutable session in the request context for the handlers.
package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/smartcomptable/smartcomptable/internal/http/cookietoken"
	"github.com/smartcomptable/smartcomptable/internal/services/authn"
)

// Key is the context key type for request-scoped values.
type Key string

const (
	// IdentityKey holds the resolved authn.Identity.
	IdentityKey Key = "identity"
	// SessionKey holds the *authn.Session for this request.
	SessionKey Key = "session"
	// SessionIDKey holds the opaque session cookie value.
	SessionIDKey Key = "session_id"
)

// sessionCookie carries the opaque in-memory session id.
const sessionCookie = "smartcomptable_session"

// IdentityFromContext returns the resolved identity, defaulting to
// anonymous when the middleware did not run.
func IdentityFromContext(ctx context.Context) authn.Identity {
	id, ok := ctx.Value(IdentityKey).(authn.Identity)
	if !ok {
		return authn.Identity{Kind: authn.Anonymous}
	}
	return id
}

// SessionFromContext returns the mutable session for this request.
func SessionFromContext(ctx context.Context) (*authn.Session, bool) {
	sess, ok := ctx.Value(SessionKey).(*authn.Session)
	return sess, ok
}

// SessionIDFromContext returns the opaque session id for this request.
func SessionIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(SessionIDKey).(string)
	return id, ok
}

// IdentityMiddleware attaches or creates the in-memory session, resolves
// the identity through the long-lived token cookie and puts both into the
// request context.
func IdentityMiddleware(resolver *authn.Resolver, sessions *authn.SessionStore, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var (
				sessID string
				sess   *authn.Session
			)
			if c, err := r.Cookie(sessionCookie); err == nil {
				if existing, ok := sessions.Get(c.Value); ok {
					sessID, sess = c.Value, existing
				}
			}
			if sess == nil {
				sessID, sess = sessions.Create()
				http.SetCookie(w, &http.Cookie{
					Name:     sessionCookie,
					Value:    sessID,
					Path:     "/",
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}

			identity := resolver.Resolve(r.Context(), sess, cookietoken.New(w, r))
			log.Debug("identity resolved",
				slog.String("kind", identity.Kind.String()),
				slog.String("session_id", sessID))

			ctx := context.WithValue(r.Context(), IdentityKey, identity)
			ctx = context.WithValue(ctx, SessionKey, sess)
			ctx = context.WithValue(ctx, SessionIDKey, sessID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
