// Package config provides environment-based configuration management.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"lmstudio-proxy/internal/types"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Default configuration values
const (
	DefaultPort            = 3000
	DefaultUpstreamBaseURL = "http://localhost:1234"
)

// Manager implements types.ConfigManager backed by environment variables.
// All values are resolved once at construction time and are read-only afterwards,
// so the manager can be shared across all request goroutines without locking.
type Manager struct {
	server      types.ServerConfig
	upstream    types.UpstreamConfig
	cors        types.CORSConfig
	performance types.PerformanceConfig
	log         types.LogConfig
}

// NewManager creates a configuration manager from the process environment.
// A .env file in the working directory is loaded first when present.
func NewManager() (types.ConfigManager, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logrus.WithError(err).Debug("No .env file loaded")
	}

	host := "127.0.0.1"
	if parseBoolEnv("BIND_ALL", false) {
		host = "0.0.0.0"
	}

	m := &Manager{
		server: types.ServerConfig{
			Port:                    parseIntEnv("PORT", DefaultPort),
			Host:                    host,
			ReadTimeout:             parseIntEnv("SERVER_READ_TIMEOUT", 300),
			WriteTimeout:            parseIntEnv("SERVER_WRITE_TIMEOUT", 600),
			IdleTimeout:             parseIntEnv("SERVER_IDLE_TIMEOUT", 120),
			GracefulShutdownTimeout: parseIntEnv("SERVER_GRACEFUL_SHUTDOWN_TIMEOUT", 10),
		},
		upstream: types.UpstreamConfig{
			BaseURL:               strings.TrimRight(getEnv("UPSTREAM_BASE_URL", DefaultUpstreamBaseURL), "/"),
			ConnectTimeout:        parseIntEnv("CONNECT_TIMEOUT", 15),
			RequestTimeout:        parseIntEnv("REQUEST_TIMEOUT", 600),
			ResponseHeaderTimeout: parseIntEnv("RESPONSE_HEADER_TIMEOUT", 600),
			IdleConnTimeout:       parseIntEnv("IDLE_CONN_TIMEOUT", 120),
			MaxIdleConns:          parseIntEnv("MAX_IDLE_CONNS", 100),
			MaxIdleConnsPerHost:   parseIntEnv("MAX_IDLE_CONNS_PER_HOST", 50),
		},
		cors: types.CORSConfig{
			Enabled: parseBoolEnv("CORS_ENABLED", false),
		},
		performance: types.PerformanceConfig{
			MaxConcurrentRequests: parseIntEnv("MAX_CONCURRENT_REQUESTS", 100),
			MaxRequestBodySize:    int64(parseIntEnv("MAX_REQUEST_BODY_SIZE_MB", 150)) << 20,
		},
		log: types.LogConfig{
			Level:      getEnv("LOG_LEVEL", "info"),
			Format:     getEnv("LOG_FORMAT", "text"),
			EnableFile: parseBoolEnv("LOG_ENABLE_FILE", false),
			FilePath:   getEnv("LOG_FILE_PATH", "./data/logs/app.log"),
		},
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}

	return m, nil
}

// GetServerConfig returns the listener configuration.
func (m *Manager) GetServerConfig() types.ServerConfig {
	return m.server
}

// GetUpstreamConfig returns the upstream connection configuration.
func (m *Manager) GetUpstreamConfig() types.UpstreamConfig {
	return m.upstream
}

// GetCORSConfig returns the CORS configuration.
func (m *Manager) GetCORSConfig() types.CORSConfig {
	return m.cors
}

// GetPerformanceConfig returns the performance configuration.
func (m *Manager) GetPerformanceConfig() types.PerformanceConfig {
	return m.performance
}

// GetLogConfig returns the logging configuration.
func (m *Manager) GetLogConfig() types.LogConfig {
	return m.log
}

// Validate checks that the resolved configuration is usable.
func (m *Manager) Validate() error {
	if m.server.Port < 1 || m.server.Port > 65535 {
		return fmt.Errorf("invalid PORT: %d (must be 1-65535)", m.server.Port)
	}

	u, err := url.Parse(m.upstream.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid UPSTREAM_BASE_URL: %q", m.upstream.BaseURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid UPSTREAM_BASE_URL scheme: %q (must be http or https)", u.Scheme)
	}

	if m.performance.MaxConcurrentRequests < 1 {
		return fmt.Errorf("invalid MAX_CONCURRENT_REQUESTS: %d (must be >= 1)", m.performance.MaxConcurrentRequests)
	}

	return nil
}

// DisplayServerConfig logs the effective configuration at startup.
func (m *Manager) DisplayServerConfig() {
	logrus.Info("Starting Copilot-LMStudio proxy")
	logrus.Infof("Listening on: http://%s:%d", m.server.Host, m.server.Port)
	logrus.Infof("Proxying to: %s", m.upstream.BaseURL)
	if m.cors.Enabled {
		logrus.Info("CORS: Enabled")
	}
	logrus.Info("")
	logrus.Info("Fixes:")
	logrus.Info("  1. Adds type: 'object' to tool parameters")
	logrus.Info("  2. Adds input_tokens_details to usage responses")
	logrus.Info("")
}

// getEnv returns the environment value for key, or def when unset or empty.
func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// parseIntEnv parses an integer environment variable, falling back to def on
// missing or malformed values.
func parseIntEnv(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		logrus.Warnf("Invalid value for %s: %q, using default %d", key, v, def)
		return def
	}
	return n
}

// parseBoolEnv parses a boolean environment variable, falling back to def on
// missing or malformed values.
func parseBoolEnv(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		logrus.Warnf("Invalid value for %s: %q, using default %t", key, v, def)
		return def
	}
	return b
}
