// Package grant implements the administrator endpoint granting or renewing
// a subscription for an email.
//
// The underlying write replaces the record wholesale, so the admin flag of
// the target is whatever the request says, not what was stored before. The
// handler exposes that choice as an explicit field instead of hiding it.
package grant

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"github.com/smartcomptable/smartcomptable/internal/http/response"
	"github.com/smartcomptable/smartcomptable/internal/lib/sl"
)

// Request is the grant payload.
type Request struct {
	Email string `json:"email" validate:"required,email"`
	Days  int    `json:"days" validate:"required,gt=0"`
	Admin bool   `json:"admin"`
}

// Entitlements describes the grant operation.
type Entitlements interface {
	GrantFreeSubscription(ctx context.Context, email string, days int, grantedByAdmin bool) bool
}

// Handler grants subscriptions.
type Handler struct {
	log          *slog.Logger
	entitlements Entitlements
	validate     *validator.Validate
}

// New creates the handler.
func New(log *slog.Logger, entitlements Entitlements) *Handler {
	return &Handler{
		log:          log,
		entitlements: entitlements,
		validate:     validator.New(),
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.grant"
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

	if !h.entitlements.GrantFreeSubscription(r.Context(), req.Email, req.Days, req.Admin) {
		log.Error("failed to grant subscription", slog.String("email", req.Email))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to grant subscription"))
		return
	}

	log.Info("subscription granted", slog.String("email", req.Email),
		slog.Int("days", req.Days))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"email": req.Email,
		"days":  req.Days,
	}))
}
