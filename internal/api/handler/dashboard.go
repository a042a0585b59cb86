package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/leoprim/ebutikpartner-sub001/internal/api/middleware"
	"github.com/leoprim/ebutikpartner-sub001/internal/identity"
	"github.com/leoprim/ebutikpartner-sub001/internal/storebuild"
	"github.com/leoprim/ebutikpartner-sub001/internal/web"
)

// DashboardHandler renders the customer-facing store build progress view.
type DashboardHandler struct {
	builds   storebuild.Repository
	renderer *web.Renderer
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(builds storebuild.Repository, renderer *web.Renderer) *DashboardHandler {
	return &DashboardHandler{builds: builds, renderer: renderer}
}

type dashboardData struct {
	User  *identity.User
	Build *storebuild.Build
	Steps []storebuild.Step
}

// ServeHTTP handles GET /dashboard. RequireUser has already injected the
// authenticated user.
func (h *DashboardHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())
	if user == nil {
		http.Redirect(w, r, middleware.AuthPath, http.StatusFound)
		return
	}

	data := dashboardData{User: user}

	build, err := h.builds.GetByUserID(r.Context(), user.ID)
	switch {
	case err == nil:
		data.Build = build
		data.Steps = build.Steps()
	case errors.Is(err, storebuild.ErrBuildNotFound):
		// no build yet; the template renders the empty state
	default:
		slog.Error("failed to load store build", "error", err, "userId", user.ID)
		http.Error(w, "something went wrong", http.StatusInternalServerError)
		return
	}

	if err := h.renderer.Render(w, "dashboard.html", data); err != nil {
		slog.Error("failed to render dashboard", "error", err)
		http.Error(w, "something went wrong", http.StatusInternalServerError)
	}
}
