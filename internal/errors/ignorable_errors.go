package errors

import "strings"

// ignorableErrorSubstrings lists transport error fragments that indicate the
// client went away rather than an upstream fault. These are matched
// case-sensitively against the error text.
var ignorableErrorSubstrings = []string{
	"context canceled",
	"connection reset by peer",
	"broken pipe",
	"use of closed network connection",
	"request canceled",
}

// IsIgnorableError reports whether err looks like a client disconnect that
// should end the request quietly instead of being logged as a failure.
func IsIgnorableError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	for _, s := range ignorableErrorSubstrings {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}
