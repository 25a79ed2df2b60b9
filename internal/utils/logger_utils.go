package utils

import (
	"io"
	"os"
	"path/filepath"
	"sync"

	"lmstudio-proxy/internal/types"

	"github.com/sirupsen/logrus"
)

// syncWriter wraps an io.Writer with synchronization to ensure thread-safe writes.
// This prevents log entries from being interleaved when multiple goroutines write concurrently.
type syncWriter struct {
	mu     sync.Mutex
	writer io.Writer
}

func (sw *syncWriter) Write(p []byte) (n int, err error) {
	sw.mu.Lock()
	defer sw.mu.Unlock()
	return sw.writer.Write(p)
}

// logFileHandle keeps the opened log file so CloseLogger can flush it on exit.
var logFileHandle *os.File

// SetupLogger configures the logging system based on the provided configuration.
func SetupLogger(configManager types.ConfigManager) {
	logConfig := configManager.GetLogConfig()

	// Set log level
	level, err := logrus.ParseLevel(logConfig.Level)
	if err != nil {
		logrus.Warn("Invalid log level, using info")
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)

	// Set log format
	if logConfig.Format == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00", // ISO 8601 format
		})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}

	// Setup file logging if enabled
	if logConfig.EnableFile {
		logDir := filepath.Dir(logConfig.FilePath)
		if err := os.MkdirAll(logDir, 0755); err != nil {
			logrus.Warnf("Failed to create log directory: %v", err)
			return
		}
		logFile, err := os.OpenFile(logConfig.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			logrus.Warnf("Failed to open log file: %v", err)
			return
		}
		logFileHandle = logFile
		// Use syncWriter to ensure thread-safe writes to both outputs
		logrus.SetOutput(&syncWriter{
			writer: io.MultiWriter(os.Stdout, logFile),
		})
	}
}

// CloseLogger flushes and closes the log file if file logging was enabled.
func CloseLogger() {
	if logFileHandle == nil {
		return
	}
	if err := logFileHandle.Sync(); err != nil {
		logrus.Warnf("Failed to sync log file: %v", err)
	}
	if err := logFileHandle.Close(); err != nil {
		logrus.Warnf("Failed to close log file: %v", err)
	}
	logFileHandle = nil
}
