package app

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"

	"github.com/sabai-pos/sabai-pos/internal/auth"
	"github.com/sabai-pos/sabai-pos/internal/masterdata/branches"
	"github.com/sabai-pos/sabai-pos/internal/masterdata/categories"
	"github.com/sabai-pos/sabai-pos/internal/masterdata/groups"
	"github.com/sabai-pos/sabai-pos/internal/masterdata/products"
	"github.com/sabai-pos/sabai-pos/internal/observability"
	"github.com/sabai-pos/sabai-pos/internal/reports"
	"github.com/sabai-pos/sabai-pos/internal/sales"
	"github.com/sabai-pos/sabai-pos/internal/users"
	"github.com/sabai-pos/sabai-pos/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger            *slog.Logger
	Config            *Config
	AuthHandler       *auth.Handler
	BranchesHandler   *branches.Handler
	GroupsHandler     *groups.Handler
	CategoriesHandler *categories.Handler
	ProductsHandler   *products.Handler
	UsersHandler      *users.Handler
	SalesHandler      *sales.Handler
	ReportsHandler    *reports.Handler
	JobsHandler       *jobs.Handler
	Metrics           *observability.Metrics
}

// NewRouter constructs the chi.Router with Sabai POS defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Credential guessing gets a much tighter budget than the rest of the API.
	r.Group(func(r chi.Router) {
		r.Use(httprate.Limit(10, time.Minute, httprate.WithKeyFuncs(httprate.KeyByIP)))
		r.Post("/login", params.AuthHandler.Login)
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(params.AuthHandler.Authenticate)

		r.Get("/me", params.AuthHandler.Me)
		r.Post("/logout", params.AuthHandler.Logout)

		params.SalesHandler.MountRoutes(r)
		params.ReportsHandler.MountRoutes(r)

		// Catalog reads are open to all staff; mutations are mounted behind the
		// admin gate inside each handler.
		params.ProductsHandler.MountRoutes(r)
		params.CategoriesHandler.MountRoutes(r)
		params.GroupsHandler.MountRoutes(r)
		params.BranchesHandler.MountRoutes(r)

		r.Group(func(r chi.Router) {
			r.Use(params.AuthHandler.RequireAdmin)
			params.UsersHandler.MountRoutes(r)
			if params.JobsHandler != nil {
				params.JobsHandler.MountRoutes(r)
			}
		})
	})

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}
