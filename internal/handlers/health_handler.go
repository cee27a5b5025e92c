package handlers

import (
	"net/http"
	"time"

	"github.com/spacesedan/sentireview/internal/models"
	"github.com/spacesedan/sentireview/internal/monitoring"
)

func (s *Server) healthHandler(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, models.HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().Unix(),
		Analyzer:  s.analyzer.Name(),
		Cache:     monitoring.CacheStatus(s.cacheHealthy),
	})
}
