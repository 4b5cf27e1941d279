// Package addadmin implements the administrator endpoint marking an email
// as administrator without touching its subscription end date.
package addadmin

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

// Request is the add-admin payload.
type Request struct {
	Email string `json:"email" validate:"required,email"`
}

// Entitlements describes the admin-flag operation.
type Entitlements interface {
	AddAdmin(ctx context.Context, email string) bool
}

// Handler adds administrators.
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
	const op = "handlers.admin.addadmin"
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

	if !h.entitlements.AddAdmin(r.Context(), req.Email) {
		log.Error("failed to add admin", slog.String("email", req.Email))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to add admin"))
		return
	}

	log.Info("admin added", slog.String("email", req.Email))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"email": req.Email,
		"admin": true,
	}))
}
