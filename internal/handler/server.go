// Package handler provides HTTP handlers for the application's own endpoints.
package handler

import (
	"net/http"
	"time"

	"lmstudio-proxy/internal/types"
	"lmstudio-proxy/internal/version"

	"github.com/gin-gonic/gin"
)

// Server contains dependencies for the non-proxy endpoints.
type Server struct {
	configManager types.ConfigManager
	startTime     time.Time
}

// NewServer creates a new server handler instance.
func NewServer(configManager types.ConfigManager) *Server {
	return &Server{
		configManager: configManager,
		startTime:     time.Now(),
	}
}

// Health returns the liveness status of the proxy.
func (s *Server) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "healthy",
		"uptime":   time.Since(s.startTime).Truncate(time.Second).String(),
		"version":  version.Version,
		"upstream": s.configManager.GetUpstreamConfig().BaseURL,
	})
}
