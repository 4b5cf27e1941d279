// Package remove implements the HTTP handler deleting a single expense by
// id, distinguishing "deleted" from "not found" so the caller can present
// accurate feedback.
package remove

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/smartcomptable/smartcomptable/internal/http/response"
)

// Service describes the expense deletion operation.
type Service interface {
	Delete(ctx context.Context, id string) bool
}

// Handler deletes expenses.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New creates the handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.expense.remove"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")
	if id == "" {
		log.Error("missing expense id")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid id"))
		return
	}

	deleted := h.service.Delete(r.Context(), id)
	if !deleted {
		log.Info("expense not found", slog.String("id", id))
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("expense not found"))
		return
	}

	log.Info("expense deleted", slog.String("id", id))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"deleted": true,
		"id":      id,
	}))
}
