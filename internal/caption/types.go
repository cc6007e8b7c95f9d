package caption

import (
	"context"
	"errors"
)

// ErrNoTranscript is returned when a video has no caption track at all.
var ErrNoTranscript = errors.New("video has no caption track")

// RawSegment is one entry of a caption track as delivered by the caption
// source. Real caption cues carry both timing fields and usually a text
// snippet; structural entries (chapter markers, section headers) lack
// timing and must be filtered out before translation.
//
// Timing fields are kept as strings on purpose: caption backends deliver
// millisecond offsets as decimal strings and malformed values are expected.
type RawSegment struct {
	StartMs *string `json:"startMs,omitempty"`
	EndMs   *string `json:"endMs,omitempty"`
	Text    *string `json:"text,omitempty"`
}

// Track is the caption track of one video.
type Track struct {
	VideoID  string       `json:"videoId"`
	Language string       `json:"language,omitempty"`
	Segments []RawSegment `json:"segments"`
}

// Source fetches the caption track for a video identifier.
// Implementations return ErrNoTranscript when the video exists but carries
// no caption track.
type Source interface {
	Fetch(ctx context.Context, videoID string) (*Track, error)
}
