// Package adminlogin implements the administrator password check. A
// successful login flips the admin flag on the in-memory session; a
// mismatch and a malformed credential blob are indistinguishable.
package adminlogin

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"github.com/smartcomptable/smartcomptable/internal/http/middlewarectx"
	"github.com/smartcomptable/smartcomptable/internal/http/response"
	"github.com/smartcomptable/smartcomptable/internal/lib/sl"
)

// Request is the login payload.
type Request struct {
	Password string `json:"password" validate:"required"`
}

// Credentials verifies the administrator password.
type Credentials interface {
	VerifyAdmin(password string) bool
}

// Handler performs the admin login.
type Handler struct {
	log      *slog.Logger
	creds    Credentials
	validate *validator.Validate
}

// New creates the handler.
func New(log *slog.Logger, creds Credentials) *Handler {
	return &Handler{
		log:      log,
		creds:    creds,
		validate: validator.New(),
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.adminlogin"
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

	if !h.creds.VerifyAdmin(req.Password) {
		log.Info("admin login rejected")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("invalid credentials"))
		return
	}

	sess, ok := middlewarectx.SessionFromContext(r.Context())
	if !ok {
		log.Error("session not found in context")
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("session unavailable"))
		return
	}
	sess.SetAdmin(true)

	log.Info("admin logged in")
	render.JSON(w, r, response.OK())
}
