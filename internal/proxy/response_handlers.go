package proxy

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	app_errors "lmstudio-proxy/internal/errors"
	"lmstudio-proxy/internal/response"
	"lmstudio-proxy/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// handleNormalResponse buffers the upstream body, applies the usage rewrite
// to JSON payloads, and replays status, sanitized headers, and body.
func (ps *ProxyServer) handleNormalResponse(c *gin.Context, resp *http.Response) {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		logrus.WithError(err).Error("Failed to read upstream response body")
		response.Error(c, app_errors.NewAPIError(app_errors.ErrUpstreamBodyRead, "Failed to read upstream response"))
		return
	}

	// The transport decompresses transparently unless the upstream forced an
	// encoding we asked it not to use; decode before inspecting the JSON.
	body, _ = utils.DecompressResponse(resp.Header.Get("Content-Encoding"), body)

	if isJSONContentType(resp.Header.Get("Content-Type")) && len(body) > 0 {
		patched, _, err := PatchResponseBody(body)
		if err != nil {
			logrus.WithError(err).Warn("Upstream response is not valid JSON, forwarding unchanged")
		} else {
			body = patched
		}
	}

	utils.SanitizeResponseHeaders(resp.Header)
	utils.CopyHeaders(c.Writer.Header(), resp.Header)

	c.Status(resp.StatusCode)
	if _, err := c.Writer.Write(body); err != nil && !app_errors.IsIgnorableError(err) {
		logrus.WithError(err).Warn("Failed to write response to client")
	}
}

// handleStreamingResponse replays the upstream event stream, filtering each
// complete event through FilterSSEFrame. Events are flushed individually so
// the client receives tokens as the upstream emits them.
func (ps *ProxyServer) handleStreamingResponse(c *gin.Context, resp *http.Response) {
	utils.SanitizeResponseHeaders(resp.Header)
	utils.CopyHeaders(c.Writer.Header(), resp.Header)

	if c.Writer.Header().Get("Content-Type") == "" {
		c.Writer.Header().Set("Content-Type", "text/event-stream")
	}
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("X-Accel-Buffering", "no")

	c.Status(resp.StatusCode)

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		logrus.Error("Streaming unsupported: response writer does not implement http.Flusher")
		return
	}
	flusher.Flush()

	if err := ps.forwardStream(c, resp.Body, flusher); err != nil {
		if isClientDisconnect(c, err) {
			logrus.WithError(err).Debug("Client disconnected during stream")
			return
		}
		// Headers are already sent; all we can do is stop the stream.
		logrus.WithError(err).Error("Stream forwarding terminated")
	}
}

// forwardStream pumps filtered events to the client until the upstream
// closes the stream or either side fails.
func (ps *ProxyServer) forwardStream(c *gin.Context, upstream io.Reader, flusher http.Flusher) error {
	return ForwardSSEStream(c.Writer, flusher, upstream)
}

// isClientDisconnect reports whether the stream ended because the client
// went away rather than an upstream fault.
func isClientDisconnect(c *gin.Context, err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(c.Request.Context().Err(), context.Canceled) {
		return true
	}
	if app_errors.IsIgnorableError(err) {
		return true
	}
	return strings.Contains(err.Error(), "client disconnected")
}
