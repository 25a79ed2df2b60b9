// Package proxy implements the request forwarding core and the in-flight
// JSON body rewrites that reconcile client and upstream API shapes.
package proxy

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// ErrInvalidJSON is returned when a body that should be JSON cannot be parsed.
// Callers decide whether to fail open and forward the original bytes.
var ErrInvalidJSON = errors.New("body is not valid JSON")

// PatchRequestBody completes tool parameter schemas in a chat completion
// request. Some clients emit tool definitions whose parameters object lacks
// the type field required by strict schema validators. For each entry of the
// top-level tools array, the parameters object gains type "object" when the
// key is absent, plus an empty properties object when that is also absent.
// Existing keys are never overwritten and document formatting is preserved.
//
// Returns the possibly rewritten body and the number of schemas completed.
func PatchRequestBody(body []byte) ([]byte, int, error) {
	if !gjson.ValidBytes(body) {
		return body, 0, ErrInvalidJSON
	}

	tools := gjson.GetBytes(body, "tools")
	if !tools.IsArray() {
		return body, 0, nil
	}

	patched := body
	fixedCount := 0

	for i, tool := range tools.Array() {
		// Nested function-calling form takes precedence; the flat form is
		// only consulted when the entry carries no function key at all.
		paramsPath := fmt.Sprintf("tools.%d.function.parameters", i)
		params := tool.Get("function.parameters")
		if !tool.Get("function").Exists() {
			paramsPath = fmt.Sprintf("tools.%d.parameters", i)
			params = tool.Get("parameters")
		}

		if !params.IsObject() || params.Get("type").Exists() {
			continue
		}

		var err error
		patched, err = sjson.SetBytes(patched, paramsPath+".type", "object")
		if err != nil {
			return body, 0, fmt.Errorf("failed to set tool parameter type: %w", err)
		}

		if !params.Get("properties").Exists() {
			patched, err = sjson.SetRawBytes(patched, paramsPath+".properties", []byte("{}"))
			if err != nil {
				return body, 0, fmt.Errorf("failed to set tool parameter properties: %w", err)
			}
		}

		fixedCount++
	}

	if fixedCount > 0 {
		logrus.Infof("Fixed %d tool parameter schema(s)", fixedCount)
	}

	return patched, fixedCount, nil
}

// PatchResponseBody completes token accounting details in a non-streaming
// completion response. The upstream omits input_tokens_details and
// output_tokens_details from the usage object, which some clients require.
// Missing details are inserted with zero counts; present keys are untouched.
//
// Returns the possibly rewritten body and whether any insertion occurred.
func PatchResponseBody(body []byte) ([]byte, bool, error) {
	if !gjson.ValidBytes(body) {
		return body, false, ErrInvalidJSON
	}

	patched, changed, err := completeUsageDetails(body, "usage")
	if err != nil {
		return body, false, err
	}

	if changed {
		logrus.Info("Fixed usage details in response")
	}

	return patched, changed, nil
}

// completeUsageDetails inserts the zero-valued token detail objects into the
// usage object at path when they are absent. Non-object usage values are left
// alone.
func completeUsageDetails(body []byte, path string) ([]byte, bool, error) {
	usage := gjson.GetBytes(body, path)
	if !usage.IsObject() {
		return body, false, nil
	}

	patched := body
	changed := false
	var err error

	if !usage.Get("input_tokens_details").Exists() {
		patched, err = sjson.SetRawBytes(patched, path+".input_tokens_details", []byte(`{"cached_tokens":0}`))
		if err != nil {
			return body, false, fmt.Errorf("failed to set input_tokens_details: %w", err)
		}
		changed = true
	}

	if !usage.Get("output_tokens_details").Exists() {
		patched, err = sjson.SetRawBytes(patched, path+".output_tokens_details", []byte(`{"reasoning_tokens":0}`))
		if err != nil {
			return body, false, fmt.Errorf("failed to set output_tokens_details: %w", err)
		}
		changed = true
	}

	return patched, changed, nil
}
