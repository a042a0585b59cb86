package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/leoprim/ebutikpartner-sub001/internal/api/handler"
	"github.com/leoprim/ebutikpartner-sub001/internal/api/middleware"
	"github.com/leoprim/ebutikpartner-sub001/internal/authstate"
	"github.com/leoprim/ebutikpartner-sub001/internal/identity"
	"github.com/leoprim/ebutikpartner-sub001/internal/llm"
	"github.com/leoprim/ebutikpartner-sub001/internal/profile"
	"github.com/leoprim/ebutikpartner-sub001/internal/role"
	"github.com/leoprim/ebutikpartner-sub001/internal/storebuild"
	"github.com/leoprim/ebutikpartner-sub001/internal/web"
)

// RouterDeps holds all dependencies needed by the router.
type RouterDeps struct {
	Resolver      *authstate.Resolver
	Identity      *identity.Client
	Renderer      *web.Renderer
	Profiles      profile.Repository
	Builds        storebuild.Repository
	Roles         role.Repository
	Generator     llm.Generator
	HasLLMKey     bool
	DBPinger      handler.DBPinger
	Version       string
	SecureCookies bool
	Metrics       *prometheus.Registry
}

// NewRouter creates and configures a Chi router with all middleware and routes.
// Infrastructure endpoints (health, metrics, static assets) sit outside the
// gatekeeper; every page and API route passes through it.
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery)
	r.Use(chimiddleware.Logger)
	if deps.Metrics != nil {
		r.Use(middleware.Metrics(deps.Metrics))
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Metrics, promhttp.HandlerOpts{}))
	}

	healthHandler := handler.NewHealthHandler(deps.DBPinger, deps.Identity, deps.Version)
	r.Get("/health", healthHandler.ServeHTTP)

	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(web.Static()))))

	authHandler := handler.NewAuthHandler(deps.Identity, deps.Renderer, deps.SecureCookies)
	callbackHandler := handler.NewCallbackHandler(deps.Identity, deps.SecureCookies)
	dashboardHandler := handler.NewDashboardHandler(deps.Builds, deps.Renderer)
	adminHandler := handler.NewAdminHandler(deps.Builds, deps.Renderer)
	usersHandler := handler.NewUsersHandler(deps.Identity, deps.Profiles, deps.Builds, deps.Roles)
	blogHandler := handler.NewBlogHandler(deps.Generator, deps.HasLLMKey)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Gatekeeper(deps.Resolver))

		r.Get("/", authHandler.Landing)
		r.Get("/auth", authHandler.ShowSignIn)
		r.Post("/auth/sign-in", authHandler.SignIn)
		r.Get("/auth/callback", callbackHandler.ServeHTTP)
		r.Post("/signout", authHandler.SignOut)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireUser(deps.Resolver))
			r.Get("/dashboard", dashboardHandler.ServeHTTP)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin(deps.Resolver, deps.Roles))
			r.Get("/admin", adminHandler.ServeHTTP)
		})

		r.Route("/api", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(middleware.APIRequireUser(deps.Resolver))
				r.Get("/admin/check", usersHandler.Check)
				r.Post("/blog/generate", blogHandler.Generate)
			})

			r.Route("/admin/users", func(r chi.Router) {
				r.Use(middleware.APIRequireAdmin(deps.Resolver, deps.Roles))
				r.Get("/", usersHandler.List)
				r.Delete("/{id}", usersHandler.Delete)
				r.Post("/delete", usersHandler.BulkDelete)
				r.Patch("/{id}", usersHandler.Update)
			})
		})
	})

	return otelhttp.NewHandler(r, "ebutikpartner")
}
