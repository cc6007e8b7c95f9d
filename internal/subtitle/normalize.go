package subtitle

import (
	"strconv"
	"strings"

	"github.com/MimeLyc/yt-caption-translator/internal/caption"
)

// Normalize converts raw caption segments into a Timeline. A segment is
// kept only when it carries both a start and an end time; structural
// entries (section headers and the like) have no timing and are dropped.
// A missing text snippet becomes an empty string rather than excluding
// the segment.
//
// Timing fields are parsed independently and each defaults to 0 on parse
// failure, so a malformed end time can yield a negative duration. The
// value is passed through unchanged; downstream consumers treat timing as
// opaque.
func Normalize(segments []caption.RawSegment) Timeline {
	timeline := make(Timeline, 0, len(segments))
	for _, seg := range segments {
		if seg.StartMs == nil || seg.EndMs == nil {
			continue
		}

		start := parseMs(*seg.StartMs)
		end := parseMs(*seg.EndMs)

		text := ""
		if seg.Text != nil {
			text = *seg.Text
		}

		timeline = append(timeline, Block{
			Text:     text,
			Offset:   start,
			Duration: end - start,
		})
	}
	return timeline
}

// parseMs parses a millisecond offset, defaulting to 0 for missing or
// non-numeric values.
func parseMs(s string) int64 {
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0
	}
	return v
}
