package subtitle

// Block represents a single timed subtitle line. Offset and Duration are
// milliseconds from the start of the video; only Text changes during
// translation.
type Block struct {
	Text     string `json:"text"`
	Offset   int64  `json:"offset"`
	Duration int64  `json:"duration"`
}

// Timeline is an ordered sequence of subtitle blocks spanning a video,
// ordered by appearance in the source captions.
type Timeline []Block
