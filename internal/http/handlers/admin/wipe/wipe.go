// Package wipe implements the bulk deletion of all expense records. The
// operation is destructive and runs only when the request repeats the
// explicit confirmation token, mirroring the double confirmation the admin
// panel requires.
package wipe

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/smartcomptable/smartcomptable/internal/http/response"
)

// confirmToken must be passed verbatim in the confirm query parameter.
const confirmToken = "DELETE-ALL"

// Service describes the wipe operation.
type Service interface {
	Wipe(ctx context.Context) (int64, bool)
}

// Handler wipes the expense table.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New creates the handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.wipe"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	if r.URL.Query().Get("confirm") != confirmToken {
		log.Info("wipe rejected: missing confirmation")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("confirmation required: pass confirm="+confirmToken))
		return
	}

	count, ok := h.service.Wipe(r.Context())
	if !ok {
		log.Error("failed to wipe expenses")
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to wipe expenses"))
		return
	}

	log.Info("all expenses wiped", slog.Int64("count", count))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"deleted_count": count,
	}))
}
