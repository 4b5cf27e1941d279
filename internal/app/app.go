// Package app wires the storage, services and HTTP surface together and
// runs the server with graceful shutdown.
package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/smartcomptable/smartcomptable/internal/config"
	"github.com/smartcomptable/smartcomptable/internal/lib/hash"
	"github.com/smartcomptable/smartcomptable/internal/services/authn"
	"github.com/smartcomptable/smartcomptable/internal/services/document"
	"github.com/smartcomptable/smartcomptable/internal/services/entitlement"
	"github.com/smartcomptable/smartcomptable/internal/services/expense"
	"github.com/smartcomptable/smartcomptable/internal/storage/sqlite"
)

// App holds the running server and its owned resources.
type App struct {
	server *http.Server
	logger *slog.Logger
	store  *sqlite.Store
}

// New builds the full application from configuration. A storage medium that
// cannot be opened is fatal: nothing can function without it.
func New(cfg *config.Config, logger *slog.Logger) (*App, error) {
	store, err := sqlite.New(cfg.StoragePath)
	if err != nil {
		return nil, err
	}

	hasher := hash.New(cfg.HashScheme)
	creds, err := hash.NewCredentials(hasher, cfg.AdminPassword)
	if err != nil {
		return nil, err
	}

	entitlementService := entitlement.New(store, logger)
	expenseService := expense.New(store, logger)
	documentService, err := document.New(cfg.UploadsDir, logger)
	if err != nil {
		return nil, err
	}
	resolver := authn.New(entitlementService, cfg.CookieTTL, logger)
	sessions := authn.NewSessionStore(cfg.SessionTTL)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, &Services{
		Expenses:     expenseService,
		Entitlements: entitlementService,
		Documents:    documentService,
		Resolver:     resolver,
		Sessions:     sessions,
		Credentials:  creds,
	})

	srv := &http.Server{
		Addr:         cfg.Address,
		Handler:      router,
		ReadTimeout:  cfg.Timeout,
		WriteTimeout: cfg.Timeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		store:  store,
	}, nil
}

// Run serves HTTP until the context is cancelled, then shuts down
// gracefully and releases the store.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		_ = a.store.Close()
		return err
	}
}
