package types

// ConfigManager defines the interface for configuration management
type ConfigManager interface {
	GetUpstreamConfig() UpstreamConfig
	GetCORSConfig() CORSConfig
	GetPerformanceConfig() PerformanceConfig
	GetLogConfig() LogConfig
	GetServerConfig() ServerConfig
	Validate() error
	DisplayServerConfig()
}

// ServerConfig represents the listener configuration
type ServerConfig struct {
	Port                    int    `json:"port"`
	Host                    string `json:"host"`
	ReadTimeout             int    `json:"read_timeout"`
	WriteTimeout            int    `json:"write_timeout"`
	IdleTimeout             int    `json:"idle_timeout"`
	GracefulShutdownTimeout int    `json:"graceful_shutdown_timeout"`
}

// UpstreamConfig represents the outbound connection configuration for the
// inference server the proxy forwards to.
type UpstreamConfig struct {
	BaseURL               string `json:"base_url"`
	ConnectTimeout        int    `json:"connect_timeout"`
	RequestTimeout        int    `json:"request_timeout"`
	ResponseHeaderTimeout int    `json:"response_header_timeout"`
	IdleConnTimeout       int    `json:"idle_conn_timeout"`
	MaxIdleConns          int    `json:"max_idle_conns"`
	MaxIdleConnsPerHost   int    `json:"max_idle_conns_per_host"`
}

// CORSConfig represents CORS configuration. The proxy only supports wildcard
// CORS: when enabled, all origins, methods and headers are allowed.
type CORSConfig struct {
	Enabled bool `json:"enabled"`
}

// PerformanceConfig represents performance configuration
type PerformanceConfig struct {
	MaxConcurrentRequests int   `json:"max_concurrent_requests"`
	MaxRequestBodySize    int64 `json:"max_request_body_size"`
}

// LogConfig represents logging configuration
type LogConfig struct {
	Level      string `json:"level"`
	Format     string `json:"format"`
	EnableFile bool   `json:"enable_file"`
	FilePath   string `json:"file_path"`
}
