package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"
)

type HealthHandler struct {
	db *sql.DB
}

func NewHealthHandler(db *sql.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	status := http.StatusOK
	overall, dbStatus := "ok", "ok"
	if err := h.db.PingContext(r.Context()); err != nil {
		status = http.StatusServiceUnavailable
		overall, dbStatus = "degraded", "unavailable"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{
		"status":   overall,
		"database": dbStatus,
	})
}
