// Package trial implements the HTTP handler activating the 30-day test
// mode for an email: it grants the trial subscription, binds the session
// and issues the long-lived auth cookie.
package trial

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"github.com/smartcomptable/smartcomptable/internal/http/cookietoken"
	"github.com/smartcomptable/smartcomptable/internal/http/middlewarectx"
	"github.com/smartcomptable/smartcomptable/internal/http/response"
	"github.com/smartcomptable/smartcomptable/internal/lib/i18n"
	"github.com/smartcomptable/smartcomptable/internal/lib/sl"
	"github.com/smartcomptable/smartcomptable/internal/services/authn"
)

// trialDays is the fixed free trial length.
const trialDays = 30

// Request is the trial activation payload.
type Request struct {
	Email string `json:"email" validate:"required,email"`
	Lang  string `json:"lang"`
}

// Entitlements describes the grant operation the handler needs.
type Entitlements interface {
	GrantFreeSubscription(ctx context.Context, email string, days int, grantedByAdmin bool) bool
}

// Handler activates trials.
type Handler struct {
	log          *slog.Logger
	entitlements Entitlements
	resolver     *authn.Resolver
	validate     *validator.Validate
}

// New creates the handler.
func New(log *slog.Logger, entitlements Entitlements, resolver *authn.Resolver) *Handler {
	return &Handler{
		log:          log,
		entitlements: entitlements,
		resolver:     resolver,
		validate:     validator.New(),
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.trial"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	if !h.entitlements.GrantFreeSubscription(r.Context(), req.Email, trialDays, false) {
		log.Error("failed to grant trial subscription", slog.String("email", req.Email))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to activate trial"))
		return
	}

	if sess, ok := middlewarectx.SessionFromContext(r.Context()); ok {
		sess.SetEmail(req.Email)
	}
	h.resolver.BindToken(cookietoken.New(w, r), req.Email)

	log.Info("trial activated", slog.String("email", req.Email))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"message": i18n.Text("trial_activated", req.Lang),
		"days":    trialDays,
	}))
}
