package subtitle

// Split partitions a timeline into contiguous chunks of at most size
// blocks each. The partition is exact: no overlap, no gaps, order
// preserved, so concatenating the chunks reproduces the timeline.
// A non-positive size falls back to DefaultChunkSize.
func Split(timeline Timeline, size int) []Timeline {
	if size <= 0 {
		size = DefaultChunkSize
	}

	chunks := make([]Timeline, 0, (len(timeline)+size-1)/size)
	for start := 0; start < len(timeline); start += size {
		end := start + size
		if end > len(timeline) {
			end = len(timeline)
		}
		chunks = append(chunks, timeline[start:end])
	}
	return chunks
}

// DefaultChunkSize bounds one translation request to the model's
// practical input size.
const DefaultChunkSize = 50

// Concat joins translated chunks back into a single timeline, preserving
// chunk order and intra-chunk order.
func Concat(chunks []Timeline) Timeline {
	total := 0
	for _, c := range chunks {
		total += len(c)
	}

	timeline := make(Timeline, 0, total)
	for _, c := range chunks {
		timeline = append(timeline, c...)
	}
	return timeline
}
