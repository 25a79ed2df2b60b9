package main

import (
	"strings"
	"testing"
)

func TestBuildAddress(t *testing.T) {
	tests := []struct {
		name     string
		port     string
		expected string
	}{
		{
			name:     "Default port",
			port:     "3000",
			expected: "127.0.0.1:3000",
		},
		{
			name:     "Custom port",
			port:     "8080",
			expected: "127.0.0.1:8080",
		},
		{
			name:     "High port number",
			port:     "65535",
			expected: "127.0.0.1:65535",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := buildAddress(tt.port)
			if result != tt.expected {
				t.Errorf("buildAddress(%q) = %q, want %q", tt.port, result, tt.expected)
			}
		})
	}
}

// buildAddress must not use "localhost"; scratch images have no /etc/hosts.
func TestBuildAddressUsesIPv4(t *testing.T) {
	address := buildAddress("3000")

	if address != "127.0.0.1:3000" {
		t.Errorf("buildAddress must use 127.0.0.1, got %q", address)
	}
	if strings.HasPrefix(address, "localhost") {
		t.Error("buildAddress must not use 'localhost' for scratch image compatibility")
	}
}
