// Package main provides a lightweight health check utility for Docker containers.
// This tool is statically compiled and designed to work in minimal environments
// like scratch-based Docker images where standard tools (wget, curl) are unavailable.
package main

import (
	"fmt"
	"net/http"
	"os"
	"time"
)

const (
	defaultPort    = "3000"
	requestTimeout = 5 * time.Second
	exitSuccess    = 0
	exitFailure    = 1
)

// buildAddress constructs the loopback address for the given port.
// 127.0.0.1 is used instead of localhost so the check works in scratch
// images that have no /etc/hosts.
func buildAddress(port string) string {
	return "127.0.0.1:" + port
}

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = defaultPort
	}

	healthURL := fmt.Sprintf("http://%s/health", buildAddress(port))

	client := &http.Client{
		Timeout: requestTimeout,
	}

	resp, err := client.Get(healthURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Health check failed: %v\n", err)
		os.Exit(exitFailure)
	}
	// Close response body immediately since we exit right after checking status
	// Note: defer won't work here because os.Exit bypasses deferred calls
	resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		fmt.Fprintf(os.Stderr, "Health check returned non-OK status: %d\n", resp.StatusCode)
		os.Exit(exitFailure)
	}

	os.Exit(exitSuccess)
}
