package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-cardwallet-webapp/internal/monitoring"
	"go-cardwallet-webapp/internal/repository"
)

type MonitoringHandler struct {
	db      *repository.Database
	tracker *monitoring.ErrorTracker
}

func NewMonitoringHandler(db *repository.Database, tracker *monitoring.ErrorTracker) *MonitoringHandler {
	return &MonitoringHandler{db: db, tracker: tracker}
}

// Health reports service liveness and database reachability.
func (h *MonitoringHandler) Health(c *gin.Context) {
	database := "up"
	status := http.StatusOK
	if err := h.db.Ping(); err != nil {
		database = "down"
		status = http.StatusServiceUnavailable
	}

	SafeJSON(c, status, gin.H{
		"status":   "ok",
		"database": database,
	})
}

// Errors dumps the aggregated error summaries for admins.
func (h *MonitoringHandler) Errors(c *gin.Context) {
	SafeJSON(c, http.StatusOK, gin.H{
		"count":  h.tracker.ErrorCount(),
		"errors": h.tracker.Summaries(),
	})
}
