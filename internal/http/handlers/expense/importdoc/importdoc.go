// Package importdoc implements the document import staging endpoint. The
// uploaded file is stored under the staging directory and the response
// carries the staged path plus manual-entry defaults, since automatic text
// extraction is disabled in this deployment.
package importdoc

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/smartcomptable/smartcomptable/internal/http/response"
	"github.com/smartcomptable/smartcomptable/internal/lib/i18n"
	"github.com/smartcomptable/smartcomptable/internal/lib/sl"
	"github.com/smartcomptable/smartcomptable/internal/services/document"
)

// maxUploadBytes bounds a single staged document.
const maxUploadBytes = 10 << 20

// Service describes the staging operations.
type Service interface {
	Stage(originalName string, r io.Reader) (string, error)
	Extract(lang string) document.ExtractedData
}

// Handler stages uploaded documents.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New creates the handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.expense.importdoc"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		log.Error("failed to read uploaded file", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("missing or invalid file"))
		return
	}
	defer func() { _ = file.Close() }()

	path, err := h.service.Stage(header.Filename, file)
	if err != nil {
		log.Error("failed to stage document", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to stage document"))
		return
	}

	lang := r.URL.Query().Get("lang")
	log.Info("document imported", slog.String("path", path),
		slog.String("original", header.Filename))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"file_path": path,
		"message":   i18n.Text("manual_entry", lang),
		"extracted": h.service.Extract(lang),
	}))
}
