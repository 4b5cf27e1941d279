// Package create implements the HTTP handler for recording a new expense.
//
// The handler decodes and validates the JSON payload, delegates to the
// expense service (which derives the id and persists the row) and returns
// the new id. Caller mistakes map to 4xx, everything else to a generic 500.
package create

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"github.com/smartcomptable/smartcomptable/internal/http/response"
	"github.com/smartcomptable/smartcomptable/internal/lib/sl"
	"github.com/smartcomptable/smartcomptable/internal/models"
	"github.com/smartcomptable/smartcomptable/internal/services/expense"
)

// Service describes the expense creation operation.
type Service interface {
	Add(ctx context.Context, req models.DummyExpense) (string, error)
}

// Handler records new expenses.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New creates the handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.expense.create"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyExpense
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

	id, err := h.service.Add(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, expense.ErrInvalidAmount),
			errors.Is(err, expense.ErrEmptySupplier),
			errors.Is(err, expense.ErrUnknownCategory):
			log.Info("expense rejected", sl.Err(err))
			w.WriteHeader(http.StatusUnprocessableEntity)
			render.JSON(w, r, response.Error(err.Error()))
		default:
			log.Error("failed to save expense", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to save expense"))
		}
		return
	}

	log.Info("expense created", slog.String("id", id))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"id": id,
	}))
}
