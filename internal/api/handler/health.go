package handler

import (
	"context"
	"net/http"

	"github.com/leoprim/ebutikpartner-sub001/internal/api/response"
)

// DBPinger verifies database connectivity.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// IdentityPinger verifies identity provider reachability.
type IdentityPinger interface {
	Health(ctx context.Context) error
}

// HealthHandler handles the GET /health endpoint.
type HealthHandler struct {
	db      DBPinger
	idp     IdentityPinger
	version string
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(db DBPinger, idp IdentityPinger, version string) *HealthHandler {
	return &HealthHandler{db: db, idp: idp, version: version}
}

type dependencyStatus struct {
	Connected bool `json:"connected"`
}

type healthData struct {
	Status   string           `json:"status"`
	Version  string           `json:"version"`
	Database dependencyStatus `json:"database"`
	Identity dependencyStatus `json:"identity"`
}

// ServeHTTP handles the health check request.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	data := healthData{
		Status:   "healthy",
		Version:  h.version,
		Database: dependencyStatus{Connected: true},
		Identity: dependencyStatus{Connected: true},
	}

	if h.db == nil || h.db.Ping(r.Context()) != nil {
		data.Database.Connected = false
		data.Status = "degraded"
	}
	if h.idp == nil || h.idp.Health(r.Context()) != nil {
		data.Identity.Connected = false
		data.Status = "degraded"
	}

	response.JSON(w, http.StatusOK, data)
}
