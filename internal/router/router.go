// Package router wires middleware and routes into the gin engine.
package router

import (
	"lmstudio-proxy/internal/handler"
	"lmstudio-proxy/internal/middleware"
	"lmstudio-proxy/internal/proxy"
	"lmstudio-proxy/internal/types"

	"github.com/gin-gonic/gin"
)

// NewRouter builds the gin engine. Besides /health, every method and path is
// handed to the proxy catch-all so the upstream API surface passes through
// unrestricted.
func NewRouter(
	serverHandler *handler.Server,
	proxyServer *proxy.ProxyServer,
	configManager types.ConfigManager,
) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Register global middleware
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.CORS(configManager.GetCORSConfig()))
	router.Use(middleware.RateLimiter(configManager.GetPerformanceConfig()))
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.RequestBodySizeLimit(configManager.GetPerformanceConfig().MaxRequestBodySize))

	router.GET("/health", serverHandler.Health)

	// Catch-all proxy route
	router.NoRoute(proxyServer.HandleProxy)

	return router
}
