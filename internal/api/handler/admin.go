package handler

import (
	"log/slog"
	"net/http"

	"github.com/leoprim/ebutikpartner-sub001/internal/storebuild"
	"github.com/leoprim/ebutikpartner-sub001/internal/web"
)

// AdminHandler renders the admin back-office shell.
type AdminHandler struct {
	builds   storebuild.Repository
	renderer *web.Renderer
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(builds storebuild.Repository, renderer *web.Renderer) *AdminHandler {
	return &AdminHandler{builds: builds, renderer: renderer}
}

type adminData struct {
	Builds []storebuild.Build
}

// ServeHTTP handles GET /admin. RequireAdmin has already verified the role.
func (h *AdminHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	builds, err := h.builds.List(r.Context())
	if err != nil {
		slog.Error("failed to list store builds", "error", err)
		http.Error(w, "something went wrong", http.StatusInternalServerError)
		return
	}

	if err := h.renderer.Render(w, "admin.html", adminData{Builds: builds}); err != nil {
		slog.Error("failed to render admin page", "error", err)
		http.Error(w, "something went wrong", http.StatusInternalServerError)
	}
}
