package utils

import "net/http"

// responseHeaderDenylist lists headers that describe the upstream's wire encoding
// of the body. The proxy may decode and re-encode JSON bodies, so these headers
// would describe bytes that no longer match what is actually sent downstream.
var responseHeaderDenylist = []string{
	"Content-Length",
	"Content-Encoding",
	"Transfer-Encoding",
}

// requestHeaderDenylist extends the response denylist for the inbound-to-upstream
// direction: Host is recomputed for the new destination, Connection and
// Accept-Encoding are renegotiated by the outbound client.
var requestHeaderDenylist = []string{
	"Content-Length",
	"Content-Encoding",
	"Transfer-Encoding",
	"Host",
	"Connection",
	"Accept-Encoding",
}

// SanitizeResponseHeaders removes body-encoding headers from an upstream
// response header set before it is replayed to the client. All other headers
// pass through untouched.
func SanitizeResponseHeaders(h http.Header) {
	for _, name := range responseHeaderDenylist {
		h.Del(name)
	}
}

// SanitizeRequestHeaders removes connection- and encoding-level headers from an
// outbound upstream request. The transport recomputes them for the new
// destination.
func SanitizeRequestHeaders(req *http.Request) {
	for _, name := range requestHeaderDenylist {
		req.Header.Del(name)
	}
}

// CopyHeaders copies every header key and value from src into dst.
func CopyHeaders(dst, src http.Header) {
	for key, values := range src {
		for _, value := range values {
			dst.Add(key, value)
		}
	}
}
