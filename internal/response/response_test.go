package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	app_errors "lmstudio-proxy/internal/errors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestSuccess(t *testing.T) {
	tests := []struct {
		name string
		data any
	}{
		{name: "with data", data: map[string]string{"key": "value"}},
		{name: "with nil data", data: nil},
		{name: "with array data", data: []string{"item1", "item2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			Success(c, tt.data)

			assert.Equal(t, http.StatusOK, w.Code)

			var resp SuccessResponse
			err := json.Unmarshal(w.Body.Bytes(), &resp)
			require.NoError(t, err)

			assert.Equal(t, 0, resp.Code)
			assert.NotEmpty(t, resp.Message)
			if tt.data != nil {
				assert.NotNil(t, resp.Data)
			}
		})
	}
}

func TestError(t *testing.T) {
	tests := []struct {
		name         string
		apiErr       *app_errors.APIError
		expectedCode int
	}{
		{
			name:         "bad request",
			apiErr:       app_errors.ErrBadRequest,
			expectedCode: http.StatusBadRequest,
		},
		{
			name:         "upstream unreachable",
			apiErr:       app_errors.ErrUpstreamUnreachable,
			expectedCode: http.StatusBadGateway,
		},
		{
			name:         "wrapped with custom message",
			apiErr:       app_errors.NewAPIError(app_errors.ErrInternalServer, "custom detail"),
			expectedCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			Error(c, tt.apiErr)

			assert.Equal(t, tt.expectedCode, w.Code)

			var resp ErrorResponse
			err := json.Unmarshal(w.Body.Bytes(), &resp)
			require.NoError(t, err)

			assert.Equal(t, tt.apiErr.Code, resp.Code)
			assert.Equal(t, tt.apiErr.Message, resp.Message)
		})
	}
}
