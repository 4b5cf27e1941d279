// Package logout clears the current session, evicts its server-side entry
// and revokes the long-lived auth cookie regardless of its parse validity.
package logout

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/smartcomptable/smartcomptable/internal/http/cookietoken"
	"github.com/smartcomptable/smartcomptable/internal/http/middlewarectx"
	"github.com/smartcomptable/smartcomptable/internal/http/response"
	"github.com/smartcomptable/smartcomptable/internal/lib/i18n"
	"github.com/smartcomptable/smartcomptable/internal/services/authn"
)

// Sessions drops server-side session entries.
type Sessions interface {
	Drop(id string)
}

// Handler logs the current identity out.
type Handler struct {
	log      *slog.Logger
	resolver *authn.Resolver
	sessions Sessions
}

// New creates the handler.
func New(log *slog.Logger, resolver *authn.Resolver, sessions Sessions) *Handler {
	return &Handler{log: log, resolver: resolver, sessions: sessions}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.logout"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	if sess, ok := middlewarectx.SessionFromContext(r.Context()); ok {
		sess.Reset()
	}
	if id, ok := middlewarectx.SessionIDFromContext(r.Context()); ok {
		h.sessions.Drop(id)
	}
	h.resolver.RevokeToken(cookietoken.New(w, r))

	log.Info("logged out")
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"message": i18n.Text("logged_out", r.URL.Query().Get("lang")),
	}))
}
