// Package categorylist implements the HTTP handler returning the ordered
// category names in the requested language. A storage failure behind it
// yields the minimal fallback list, never an error.
package categorylist

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/smartcomptable/smartcomptable/internal/http/response"
	"github.com/smartcomptable/smartcomptable/internal/lib/i18n"
)

// Service describes the category listing operation.
type Service interface {
	Categories(ctx context.Context, lang string) []string
}

// Handler lists category names.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New creates the handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.category.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	lang := i18n.Normalize(r.URL.Query().Get("lang"))
	names := h.service.Categories(r.Context(), lang)

	log.Debug("categories listed", slog.String("lang", lang), slog.Int("count", len(names)))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"lang":       lang,
		"categories": names,
	}))
}
