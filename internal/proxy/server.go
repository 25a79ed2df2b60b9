package proxy

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"strings"

	app_errors "lmstudio-proxy/internal/errors"
	"lmstudio-proxy/internal/httpclient"
	"lmstudio-proxy/internal/response"
	"lmstudio-proxy/internal/types"
	"lmstudio-proxy/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
)

// ProxyServer forwards every inbound request to the configured upstream,
// rewriting JSON bodies in flight. It holds two shared outbound clients: a
// pooled client with a total request timeout for buffered exchanges, and a
// timeout-free client for long-lived event streams.
type ProxyServer struct {
	configManager  types.ConfigManager
	bufferedClient *http.Client
	streamClient   *http.Client
}

// NewProxyServer creates a proxy server instance.
func NewProxyServer(
	configManager types.ConfigManager,
	clientManager *httpclient.HTTPClientManager,
) *ProxyServer {
	upstream := configManager.GetUpstreamConfig()
	return &ProxyServer{
		configManager:  configManager,
		bufferedClient: clientManager.GetClient(httpclient.BufferedClientConfig(upstream)),
		streamClient:   clientManager.GetClient(httpclient.StreamClientConfig(upstream)),
	}
}

// HandleProxy is the catch-all entry point. Any method, path, and query is
// forwarded to <upstream-base><path>[?<query>] with exactly one upstream
// attempt per inbound request.
func (ps *ProxyServer) HandleProxy(c *gin.Context) {
	bodyBytes, err := ps.readRequestBody(c)
	if err != nil {
		var mbErr *http.MaxBytesError
		if errors.As(err, &mbErr) {
			c.Error(err)
			return
		}
		logrus.WithError(err).Warn("Failed to read request body")
		response.Error(c, app_errors.NewAPIError(app_errors.ErrClientBodyRead, "Failed to read request body"))
		return
	}

	// Rewrite JSON request bodies; any parse ambiguity forwards the
	// original bytes unchanged.
	if isJSONContentType(c.ContentType()) && len(bodyBytes) > 0 {
		patched, _, err := PatchRequestBody(bodyBytes)
		if err != nil {
			logrus.WithError(err).Warn("Request body is not valid JSON, forwarding unchanged")
		} else {
			bodyBytes = patched
		}
	}

	upstreamReq, err := ps.buildUpstreamRequest(c, bodyBytes)
	if err != nil {
		logrus.WithError(err).Error("Failed to build upstream request")
		response.Error(c, app_errors.ErrInternalServer)
		return
	}

	client := ps.bufferedClient
	if isStreamingRequest(c, bodyBytes) {
		client = ps.streamClient
	}

	resp, err := client.Do(upstreamReq)
	if err != nil {
		if app_errors.IsIgnorableError(err) {
			logrus.WithError(err).Debug("Upstream request aborted by client")
			c.Abort()
			return
		}
		logrus.WithError(err).Error("Upstream request failed")
		response.Error(c, app_errors.NewAPIError(app_errors.ErrUpstreamUnreachable, "Failed to reach upstream server"))
		return
	}
	defer resp.Body.Close()

	if strings.Contains(resp.Header.Get("Content-Type"), "text/event-stream") {
		ps.handleStreamingResponse(c, resp)
	} else {
		ps.handleNormalResponse(c, resp)
	}
}

// readRequestBody buffers the full inbound body through the shared pool.
// Streaming request bodies are not specially handled.
func (ps *ProxyServer) readRequestBody(c *gin.Context) ([]byte, error) {
	if c.Request.Body == nil {
		return nil, nil
	}

	buf := utils.GetBuffer()
	defer utils.PutBuffer(buf)

	if _, err := io.Copy(buf, c.Request.Body); err != nil {
		return nil, err
	}

	// The pooled buffer is reused, so hand back a copy.
	body := make([]byte, buf.Len())
	copy(body, buf.Bytes())
	return body, nil
}

// buildUpstreamRequest assembles the outbound request with the inbound
// method, path, query, sanitized headers, and the possibly patched body.
// The inbound request context is propagated so a client disconnect cancels
// the upstream call.
func (ps *ProxyServer) buildUpstreamRequest(c *gin.Context, body []byte) (*http.Request, error) {
	target := ps.configManager.GetUpstreamConfig().BaseURL + c.Request.URL.Path
	if c.Request.URL.RawQuery != "" {
		target += "?" + c.Request.URL.RawQuery
	}

	req, err := http.NewRequestWithContext(c.Request.Context(), c.Request.Method, target, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	req.Header = c.Request.Header.Clone()
	utils.SanitizeRequestHeaders(req)
	req.ContentLength = int64(len(body))

	return req, nil
}

// isStreamingRequest predicts whether the exchange will stream so the
// timeout-free client can be selected up front. The response content type
// still decides how the body is actually handled.
func isStreamingRequest(c *gin.Context, body []byte) bool {
	if strings.Contains(c.GetHeader("Accept"), "text/event-stream") {
		return true
	}
	return len(body) > 0 && gjson.GetBytes(body, "stream").Bool()
}

// isJSONContentType reports whether the content type carries a JSON body.
func isJSONContentType(contentType string) bool {
	return strings.Contains(contentType, "application/json")
}
