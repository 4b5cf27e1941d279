// Package app: route registration for the HTTP surface.
package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/smartcomptable/smartcomptable/internal/http/handlers/admin/addadmin"
	"github.com/smartcomptable/smartcomptable/internal/http/handlers/admin/grant"
	"github.com/smartcomptable/smartcomptable/internal/http/handlers/admin/wipe"
	"github.com/smartcomptable/smartcomptable/internal/http/handlers/auth/adminlogin"
	"github.com/smartcomptable/smartcomptable/internal/http/handlers/auth/logout"
	"github.com/smartcomptable/smartcomptable/internal/http/handlers/auth/status"
	"github.com/smartcomptable/smartcomptable/internal/http/handlers/auth/trial"
	"github.com/smartcomptable/smartcomptable/internal/http/handlers/category/categorylist"
	"github.com/smartcomptable/smartcomptable/internal/http/handlers/expense/create"
	"github.com/smartcomptable/smartcomptable/internal/http/handlers/expense/importdoc"
	"github.com/smartcomptable/smartcomptable/internal/http/handlers/expense/list"
	"github.com/smartcomptable/smartcomptable/internal/http/handlers/expense/remove"
	"github.com/smartcomptable/smartcomptable/internal/http/middlewarectx"
	"github.com/smartcomptable/smartcomptable/internal/lib/hash"
	"github.com/smartcomptable/smartcomptable/internal/services/authn"
	"github.com/smartcomptable/smartcomptable/internal/services/document"
	"github.com/smartcomptable/smartcomptable/internal/services/entitlement"
	"github.com/smartcomptable/smartcomptable/internal/services/expense"
)

// Services bundles the wired dependencies for route registration.
type Services struct {
	Expenses     *expense.Service
	Entitlements *entitlement.Service
	Documents    *document.Service
	Resolver     *authn.Resolver
	Sessions     *authn.SessionStore
	Credentials  *hash.Credentials
}

var requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "smartcomptable_http_requests_total",
	Help: "Total HTTP requests by method.",
}, []string{"method"})

func countRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestsTotal.WithLabelValues(r.Method).Inc()
		next.ServeHTTP(w, r)
	})
}

// RegisterRoutes registers all application routes.
func RegisterRoutes(r chi.Router, logger *slog.Logger, svc *Services) {
	r.Use(
		middleware.RequestID,
		middleware.Recoverer,
		middleware.URLFormat,
		countRequests,
	)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middlewarectx.IdentityMiddleware(svc.Resolver, svc.Sessions, logger))

		// Open endpoints
		r.Post("/trial", trial.New(logger, svc.Entitlements, svc.Resolver).ServeHTTP)
		r.Post("/admin/login", adminlogin.New(logger, svc.Credentials).ServeHTTP)
		r.Post("/logout", logout.New(logger, svc.Resolver, svc.Sessions).ServeHTTP)
		r.Get("/status", status.New(logger, svc.Entitlements).ServeHTTP)
		r.Get("/categories", categorylist.New(logger, svc.Expenses).ServeHTTP)

		// Entitled group: subscribers and administrators
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.RequireEntitled(logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger, rate.NewLimiter(10, 30)))
			r.Post("/expenses", create.New(logger, svc.Expenses).ServeHTTP)
			r.Post("/expenses/import", importdoc.New(logger, svc.Documents).ServeHTTP)
			r.Get("/expenses", list.New(logger, svc.Expenses).ServeHTTP)
			r.Delete("/expenses/{id}", remove.New(logger, svc.Expenses).ServeHTTP)
		})

		// Administrator group
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.RequireAdmin(logger))
			r.Post("/admin/grant", grant.New(logger, svc.Entitlements).ServeHTTP)
			r.Post("/admin/admins", addadmin.New(logger, svc.Entitlements).ServeHTTP)
			r.Delete("/admin/expenses", wipe.New(logger, svc.Expenses).ServeHTTP)
		})
	})

	r.Handle("/metrics", promhttp.Handler())
}
