package proxy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestPatchRequestBodyAddsTypeAndProperties(t *testing.T) {
	body := []byte(`{"model":"qwen2.5","tools":[{"type":"function","function":{"name":"get_weather","parameters":{}}}]}`)

	patched, count, err := PatchRequestBody(body)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	params := gjson.GetBytes(patched, "tools.0.function.parameters")
	assert.Equal(t, "object", params.Get("type").String())
	assert.True(t, params.Get("properties").Exists())
	assert.Equal(t, 0, len(params.Get("properties").Map()))
}

func TestPatchRequestBodyKeepsExistingProperties(t *testing.T) {
	body := []byte(`{"tools":[{"function":{"name":"lookup","parameters":{"properties":{"q":{"type":"string"}}}}}]}`)

	patched, count, err := PatchRequestBody(body)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	params := gjson.GetBytes(patched, "tools.0.function.parameters")
	assert.Equal(t, "object", params.Get("type").String())
	assert.Equal(t, "string", params.Get("properties.q.type").String())
}

func TestPatchRequestBodyFlatForm(t *testing.T) {
	body := []byte(`{"tools":[{"name":"search","parameters":{}}]}`)

	patched, count, err := PatchRequestBody(body)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Equal(t, "object", gjson.GetBytes(patched, "tools.0.parameters.type").String())
}

func TestPatchRequestBodyNestedFormWins(t *testing.T) {
	// When a function key exists the flat parameters sibling is ignored.
	body := []byte(`{"tools":[{"parameters":{},"function":{"name":"f","parameters":{"type":"object"}}}]}`)

	patched, count, err := PatchRequestBody(body)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
	assert.Equal(t, body, patched)
}

func TestPatchRequestBodyIdentityCases(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"no tools", `{"model":"qwen2.5","messages":[]}`},
		{"tools not array", `{"tools":{"foo":1}}`},
		{"empty tools", `{"tools":[]}`},
		{"type already present", `{"tools":[{"function":{"parameters":{"type":"object"}}}]}`},
		{"parameters not object", `{"tools":[{"function":{"parameters":"none"}}]}`},
		{"no parameters", `{"tools":[{"function":{"name":"f"}}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			patched, count, err := PatchRequestBody([]byte(tt.body))
			require.NoError(t, err)
			assert.Equal(t, 0, count)
			assert.Equal(t, tt.body, string(patched))
		})
	}
}

func TestPatchRequestBodyMultipleTools(t *testing.T) {
	body := []byte(`{"tools":[` +
		`{"function":{"name":"a","parameters":{}}},` +
		`{"function":{"name":"b","parameters":{"type":"object","properties":{}}}},` +
		`{"function":{"name":"c","parameters":{}}}]}`)

	patched, count, err := PatchRequestBody(body)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	for _, idx := range []string{"0", "1", "2"} {
		params := gjson.GetBytes(patched, "tools."+idx+".function.parameters")
		assert.Equal(t, "object", params.Get("type").String(), "tool %s", idx)
		assert.True(t, params.Get("properties").Exists(), "tool %s", idx)
	}
}

func TestPatchRequestBodyPreservesUnrelatedContent(t *testing.T) {
	body := []byte(`{"model":"qwen2.5","stream":true,"tools":[{"function":{"name":"f","parameters":{}}}],"messages":[{"role":"user","content":"hi"}]}`)

	patched, _, err := PatchRequestBody(body)
	require.NoError(t, err)

	assert.Equal(t, "qwen2.5", gjson.GetBytes(patched, "model").String())
	assert.True(t, gjson.GetBytes(patched, "stream").Bool())
	assert.Equal(t, "hi", gjson.GetBytes(patched, "messages.0.content").String())
}

func TestPatchRequestBodyInvalidJSON(t *testing.T) {
	body := []byte(`{"tools": [`)

	patched, count, err := PatchRequestBody(body)
	assert.ErrorIs(t, err, ErrInvalidJSON)
	assert.Equal(t, 0, count)
	assert.Equal(t, body, patched, "caller gets the original bytes back")
}

func TestPatchRequestBodyIdempotent(t *testing.T) {
	body := []byte(`{"tools":[{"function":{"name":"f","parameters":{}}}]}`)

	once, count, err := PatchRequestBody(body)
	require.NoError(t, err)
	require.Equal(t, 1, count)

	twice, count, err := PatchRequestBody(once)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
	assert.Equal(t, string(once), string(twice))
}

func TestPatchResponseBodyAddsUsageDetails(t *testing.T) {
	body := []byte(`{"id":"resp_1","usage":{"input_tokens":10,"output_tokens":5}}`)

	patched, changed, err := PatchResponseBody(body)
	require.NoError(t, err)
	assert.True(t, changed)

	usage := gjson.GetBytes(patched, "usage")
	assert.Equal(t, int64(0), usage.Get("input_tokens_details.cached_tokens").Int())
	assert.Equal(t, int64(0), usage.Get("output_tokens_details.reasoning_tokens").Int())

	// Existing counters survive.
	assert.Equal(t, int64(10), usage.Get("input_tokens").Int())
	assert.Equal(t, int64(5), usage.Get("output_tokens").Int())
}

func TestPatchResponseBodyPartialDetails(t *testing.T) {
	body := []byte(`{"usage":{"input_tokens_details":{"cached_tokens":7}}}`)

	patched, changed, err := PatchResponseBody(body)
	require.NoError(t, err)
	assert.True(t, changed)

	usage := gjson.GetBytes(patched, "usage")
	// Existing detail object is never overwritten.
	assert.Equal(t, int64(7), usage.Get("input_tokens_details.cached_tokens").Int())
	assert.Equal(t, int64(0), usage.Get("output_tokens_details.reasoning_tokens").Int())
}

func TestPatchResponseBodyIdentityCases(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"no usage", `{"id":"resp_1","choices":[]}`},
		{"usage not object", `{"usage":42}`},
		{"details complete", `{"usage":{"input_tokens_details":{"cached_tokens":1},"output_tokens_details":{"reasoning_tokens":2}}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			patched, changed, err := PatchResponseBody([]byte(tt.body))
			require.NoError(t, err)
			assert.False(t, changed)
			assert.Equal(t, tt.body, string(patched))
		})
	}
}

func TestPatchResponseBodyInvalidJSON(t *testing.T) {
	body := []byte(`not json at all`)

	patched, changed, err := PatchResponseBody(body)
	assert.ErrorIs(t, err, ErrInvalidJSON)
	assert.False(t, changed)
	assert.Equal(t, body, patched)
}
