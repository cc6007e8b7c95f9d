package cache

import (
	"context"
	"time"

	"github.com/MimeLyc/yt-caption-translator/internal/subtitle"
)

// DefaultTTL is how long a cached timeline stays fresh after insertion.
const DefaultTTL = 24 * time.Hour

// Cache memoizes completed timelines per video identifier. Expiry is
// checked at Get time; entries older than the TTL are treated as misses.
// Implementations do not guarantee at-most-once computation: concurrent
// misses for the same key may each compute and overwrite the entry, last
// write wins.
type Cache interface {
	Get(ctx context.Context, videoID string) (subtitle.Timeline, bool, error)
	Set(ctx context.Context, videoID string, timeline subtitle.Timeline) error
	// PurgeExpired removes entries whose TTL has elapsed and reports how
	// many were dropped.
	PurgeExpired(ctx context.Context, now time.Time) (int64, error)
}

// Noop is a Cache that stores nothing; every Get is a miss.
type Noop struct{}

func (Noop) Get(ctx context.Context, videoID string) (subtitle.Timeline, bool, error) {
	return nil, false, nil
}

func (Noop) Set(ctx context.Context, videoID string, timeline subtitle.Timeline) error {
	return nil
}

func (Noop) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	return 0, nil
}
