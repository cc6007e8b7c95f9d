package cache

import (
	"context"
	"sync"
	"time"

	"github.com/MimeLyc/yt-caption-translator/internal/subtitle"
)

type memoryEntry struct {
	timeline  subtitle.Timeline
	expiresAt time.Time
}

// Memory is an in-process Cache backed by a mutex-guarded map. Growth is
// bounded only by the TTL window; PurgeExpired reclaims stale entries.
type Memory struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewMemory creates an in-memory cache. A non-positive ttl falls back to
// DefaultTTL.
func NewMemory(ttl time.Duration) *Memory {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Memory{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (m *Memory) Get(ctx context.Context, videoID string) (subtitle.Timeline, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[videoID]
	if !ok {
		return nil, false, nil
	}
	if !m.now().Before(entry.expiresAt) {
		delete(m.entries, videoID)
		return nil, false, nil
	}
	return entry.timeline, true, nil
}

func (m *Memory) Set(ctx context.Context, videoID string, timeline subtitle.Timeline) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[videoID] = memoryEntry{
		timeline:  timeline,
		expiresAt: m.now().Add(m.ttl),
	}
	return nil
}

func (m *Memory) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var purged int64
	for key, entry := range m.entries {
		if !now.Before(entry.expiresAt) {
			delete(m.entries, key)
			purged++
		}
	}
	return purged, nil
}
