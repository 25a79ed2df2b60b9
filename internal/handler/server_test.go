package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"lmstudio-proxy/internal/types"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

type stubConfigManager struct{}

func (s *stubConfigManager) GetUpstreamConfig() types.UpstreamConfig {
	return types.UpstreamConfig{BaseURL: "http://localhost:1234"}
}
func (s *stubConfigManager) GetCORSConfig() types.CORSConfig               { return types.CORSConfig{} }
func (s *stubConfigManager) GetPerformanceConfig() types.PerformanceConfig { return types.PerformanceConfig{} }
func (s *stubConfigManager) GetLogConfig() types.LogConfig                 { return types.LogConfig{} }
func (s *stubConfigManager) GetServerConfig() types.ServerConfig           { return types.ServerConfig{} }
func (s *stubConfigManager) Validate() error                               { return nil }
func (s *stubConfigManager) DisplayServerConfig()                          {}

func TestHealth(t *testing.T) {
	gin.SetMode(gin.TestMode)

	engine := gin.New()
	engine.GET("/health", NewServer(&stubConfigManager{}).Health)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Equal(t, "healthy", gjson.Get(body, "status").String())
	assert.Equal(t, "http://localhost:1234", gjson.Get(body, "upstream").String())
	assert.NotEmpty(t, gjson.Get(body, "uptime").String())
	assert.NotEmpty(t, gjson.Get(body, "version").String())
}
