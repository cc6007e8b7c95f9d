package service

import "github.com/MimeLyc/yt-caption-translator/internal/subtitle"

// Result is the discriminated success/failure value returned by
// ProcessVideo. On success Data holds the translated timeline; on failure
// Error holds a human-readable message.
type Result struct {
	Success   bool              `json:"success"`
	Data      subtitle.Timeline `json:"data,omitempty"`
	Error     string            `json:"error,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
}

func successResult(requestID string, timeline subtitle.Timeline) Result {
	return Result{
		Success:   true,
		Data:      timeline,
		RequestID: requestID,
	}
}

func failureResult(requestID string, err error) Result {
	return Result{
		Success:   false,
		Error:     err.Error(),
		RequestID: requestID,
	}
}
