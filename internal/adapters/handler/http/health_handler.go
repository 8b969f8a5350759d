package http

import (
	"database/sql"
	"net/http"
)

type HealthHandler struct {
	db          *sql.DB
	version     string
	environment string
}

func NewHealthHandler(db *sql.DB, version, environment string) *HealthHandler {
	return &HealthHandler{db: db, version: version, environment: environment}
}

func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	if err := h.db.PingContext(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "unhealthy",
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status":      "healthy",
		"version":     h.version,
		"environment": h.environment,
	})
}
