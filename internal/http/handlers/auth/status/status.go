// Package status reports the resolved identity and, for subscribers, the
// subscription end date.
package status

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/smartcomptable/smartcomptable/internal/http/middlewarectx"
	"github.com/smartcomptable/smartcomptable/internal/http/response"
	"github.com/smartcomptable/smartcomptable/internal/lib/i18n"
	"github.com/smartcomptable/smartcomptable/internal/services/authn"
)

// Entitlements describes the end-date lookup the handler needs.
type Entitlements interface {
	SubscriptionEndDate(ctx context.Context, email string) *time.Time
}

// Handler reports the identity status.
type Handler struct {
	log          *slog.Logger
	entitlements Entitlements
}

// New creates the handler.
func New(log *slog.Logger, entitlements Entitlements) *Handler {
	return &Handler{log: log, entitlements: entitlements}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.status"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	identity := middlewarectx.IdentityFromContext(r.Context())
	lang := r.URL.Query().Get("lang")

	data := map[string]any{
		"identity": identity.Kind.String(),
	}
	if identity.Kind == authn.Subscriber {
		data["email"] = identity.Email
		if end := h.entitlements.SubscriptionEndDate(r.Context(), identity.Email); end != nil {
			data["subscription_end"] = end.Format(time.RFC3339)
			data["message"] = i18n.Text("subscription_valid_until", lang) + " " + end.Format("02/01/2006")
		} else {
			data["message"] = i18n.Text("subscription_expired", lang)
		}
	}

	log.Debug("status reported", slog.String("kind", identity.Kind.String()))
	render.JSON(w, r, response.StatusOKWithData(data))
}
