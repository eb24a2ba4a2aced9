package domain

import "time"

// ProbeResult is the normalized outcome of a single diagnostic call.
// Data is only set on success and Error only on failure. Attempts is set
// only when a retry policy ran the call more than once.
type ProbeResult struct {
	Success   bool           `json:"success"`
	Data      map[string]any `json:"data,omitempty"`
	Error     string         `json:"error,omitempty"`
	Attempts  int            `json:"attempts,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

func Succeeded(data map[string]any, at time.Time) ProbeResult {
	return ProbeResult{Success: true, Data: data, Timestamp: at.UTC()}
}

// Failed keeps the backend's message verbatim; an empty message is replaced
// so callers always see a non-empty error.
func Failed(err error, at time.Time) ProbeResult {
	msg := "unknown error"
	if err != nil && err.Error() != "" {
		msg = err.Error()
	}
	return ProbeResult{Success: false, Error: msg, Timestamp: at.UTC()}
}
