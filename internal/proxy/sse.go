package proxy

import (
	"bufio"
	"bytes"
	"io"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/tidwall/gjson"
)

var (
	sseDataPrefix = []byte("data: ")
	sseDoneMarker = "[DONE]"
)

// FilterSSEFrame rewrites a single server-sent event when it carries a
// completion payload with incomplete usage details. Every ambiguous input
// passes through byte-for-byte: non-UTF-8 frames, frames without the data
// prefix (comments, event ids, keep-alives), the [DONE] sentinel, and
// payloads that are not valid JSON. Only when an insertion actually happens
// is the event re-serialized as "data: <json>\n\n".
func FilterSSEFrame(frame []byte) []byte {
	if !utf8.Valid(frame) {
		return frame
	}

	if !bytes.HasPrefix(frame, sseDataPrefix) {
		return frame
	}

	payload := strings.TrimSpace(string(frame[len(sseDataPrefix):]))
	if payload == sseDoneMarker {
		return frame
	}

	if !gjson.Valid(payload) {
		return frame
	}

	// Streaming responses nest usage under the response object, unlike the
	// flat usage of buffered responses.
	patched, changed, err := completeUsageDetails([]byte(payload), "response.usage")
	if err != nil || !changed {
		return frame
	}

	rewrapped := make([]byte, 0, len(sseDataPrefix)+len(patched)+2)
	rewrapped = append(rewrapped, sseDataPrefix...)
	rewrapped = append(rewrapped, patched...)
	rewrapped = append(rewrapped, '\n', '\n')
	return rewrapped
}

// ForwardSSEStream copies server-sent events from upstream to w, applying
// FilterSSEFrame to each complete event. Transport chunks do not align with
// event boundaries, so events are reassembled by reading up to each blank
// line before filtering. Each event is flushed as soon as it is written so
// the client sees tokens as the upstream produces them.
func ForwardSSEStream(w io.Writer, flusher http.Flusher, upstream io.Reader) error {
	reader := bufio.NewReader(upstream)
	var event bytes.Buffer

	flushEvent := func() error {
		if event.Len() == 0 {
			return nil
		}
		if _, err := w.Write(FilterSSEFrame(event.Bytes())); err != nil {
			return err
		}
		flusher.Flush()
		event.Reset()
		return nil
	}

	for {
		line, err := reader.ReadBytes('\n')
		if len(line) > 0 {
			event.Write(line)
		}

		if err != nil {
			if err == io.EOF {
				// Forward any unterminated trailing event as-is.
				return flushEvent()
			}
			return err
		}

		if isBlankLine(line) {
			if err := flushEvent(); err != nil {
				return err
			}
		}
	}
}

// isBlankLine reports whether line is an SSE event terminator.
func isBlankLine(line []byte) bool {
	trimmed := bytes.TrimRight(line, "\r\n")
	return len(trimmed) == 0
}
