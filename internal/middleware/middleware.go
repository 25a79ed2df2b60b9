// Package middleware provides HTTP middleware for the application
package middleware

import (
	"errors"
	"net/http"
	"time"

	app_errors "lmstudio-proxy/internal/errors"
	"lmstudio-proxy/internal/response"
	"lmstudio-proxy/internal/types"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Logger creates a high-performance logging middleware
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		latency := time.Since(start)
		method := c.Request.Method
		statusCode := c.Writer.Status()

		// Filter health check logs to reduce noise
		if isMonitoringEndpoint(path) {
			if statusCode >= 400 {
				logrus.Warnf("%s %s - %d - %v", method, path, statusCode, latency)
			}
			return
		}

		// Choose log level based on status code
		if statusCode >= 500 {
			logrus.Errorf("%s %s - %d - %v", method, path, statusCode, latency)
		} else if statusCode >= 400 {
			logrus.Warnf("%s %s - %d - %v", method, path, statusCode, latency)
		} else {
			logrus.Infof("%s %s - %d - %v", method, path, statusCode, latency)
		}
	}
}

// RequestID attaches a unique identifier to every request for log correlation.
// An incoming X-Request-Id header is honored so clients can trace their calls.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-Id")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set("requestID", requestID)
		c.Header("X-Request-Id", requestID)
		c.Next()
	}
}

// CORS creates a CORS middleware with efficient preflight handling.
// Only wildcard origins are supported since the proxy serves local tooling.
func CORS(config types.CORSConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !config.Enabled {
			c.Next()
			return
		}

		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "*")
		c.Header("Access-Control-Allow-Headers", "*")

		// Fast path: handle preflight requests immediately
		if c.Request.Method == "OPTIONS" {
			c.Header("Access-Control-Max-Age", "86400")
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

// Recovery creates a recovery middleware with custom error handling
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logrus.Errorf("Panic recovered: %v", recovered)
		response.Error(c, app_errors.ErrInternalServer)
		c.Abort()
	})
}

// RateLimiter creates a simple rate limiting middleware
func RateLimiter(config types.PerformanceConfig) gin.HandlerFunc {
	// Simple semaphore-based rate limiting
	semaphore := make(chan struct{}, config.MaxConcurrentRequests)

	return func(c *gin.Context) {
		select {
		case semaphore <- struct{}{}:
			defer func() { <-semaphore }()
			c.Next()
		default:
			response.Error(c, app_errors.NewAPIError(app_errors.ErrInternalServer, "Too many concurrent requests"))
			c.Abort()
		}
	}
}

// SecurityHeaders creates a middleware to add security-related headers
func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Next()
	}
}

// RequestBodySizeLimit creates a middleware to limit request body size.
// Protects against memory exhaustion since the proxy buffers request bodies
// in full before rewriting them.
func RequestBodySizeLimit(maxBytes int64) gin.HandlerFunc {
	if maxBytes <= 0 {
		maxBytes = 150 << 20 // 150MB default
	}

	return func(c *gin.Context) {
		// Early rejection: check Content-Length header before reading body
		if c.Request.ContentLength > maxBytes && c.Request.ContentLength != -1 {
			logrus.WithFields(logrus.Fields{
				"path":           c.Request.URL.Path,
				"content_length": c.Request.ContentLength,
				"max_bytes":      maxBytes,
			}).Warn("Request body size exceeds limit")
			c.AbortWithStatus(http.StatusRequestEntityTooLarge)
			return
		}

		// Wrap request body with size limiter
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()

		// Check if MaxBytesError occurred during request processing
		for _, err := range c.Errors {
			var mbErr *http.MaxBytesError
			if errors.As(err.Err, &mbErr) {
				logrus.WithFields(logrus.Fields{
					"path":           c.Request.URL.Path,
					"content_length": c.Request.ContentLength,
					"max_bytes":      maxBytes,
				}).Warn("Request body exceeded limit during processing")
				c.AbortWithStatus(http.StatusRequestEntityTooLarge)
				break
			}
		}
	}
}

// isMonitoringEndpoint checks if the path is a monitoring endpoint
func isMonitoringEndpoint(path string) bool {
	return path == "/health"
}
