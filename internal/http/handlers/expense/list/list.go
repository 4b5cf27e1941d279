// Package list implements the HTTP handler returning the expense records,
// most recent first, optionally restricted to a calendar year.
package list

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/smartcomptable/smartcomptable/internal/http/response"
	"github.com/smartcomptable/smartcomptable/internal/models"
)

// Service describes the expense listing operation.
type Service interface {
	List(ctx context.Context, year *int) []models.ExpenseRecord
}

// Handler lists expenses.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New creates the handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.expense.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var year *int
	if yearStr := r.URL.Query().Get("year"); yearStr != "" {
		y, err := strconv.Atoi(yearStr)
		if err != nil {
			log.Error("invalid year format", slog.String("year", yearStr))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid year"))
			return
		}
		year = &y
	}

	records := h.service.List(r.Context(), year)

	log.Info("expenses listed", slog.Int("count", len(records)))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"expenses": records,
		"count":    len(records),
	}))
}
