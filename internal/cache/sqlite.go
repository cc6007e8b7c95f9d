package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/MimeLyc/yt-caption-translator/internal/subtitle"
)

// SQLite is a Cache persisted in a local SQLite database, so cached
// timelines survive process restarts.
type SQLite struct {
	db  *sql.DB
	ttl time.Duration
	now func() time.Time
}

// NewSQLite opens (creating if needed) the cache database at path. A
// non-positive ttl falls back to DefaultTTL.
func NewSQLite(path string, ttl time.Duration) (*SQLite, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("db path is required")
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	store := &SQLite{db: db, ttl: ttl, now: time.Now}
	if err := store.init(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func (s *SQLite) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLite) init(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "PRAGMA journal_mode = WAL;"); err != nil {
		return fmt.Errorf("set WAL mode: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, "PRAGMA busy_timeout = 5000;"); err != nil {
		return fmt.Errorf("set busy timeout: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS timeline_cache (
		video_id TEXT PRIMARY KEY,
		payload_json TEXT NOT NULL,
		expires_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	);`); err != nil {
		return fmt.Errorf("create timeline_cache: %w", err)
	}
	return nil
}

func (s *SQLite) Get(ctx context.Context, videoID string) (subtitle.Timeline, bool, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT payload_json
		 FROM timeline_cache
		 WHERE video_id = ? AND expires_at > ?`,
		videoID,
		s.now().UTC(),
	)

	var payloadJSON string
	if err := row.Scan(&payloadJSON); err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		return nil, false, err
	}

	var timeline subtitle.Timeline
	if err := json.Unmarshal([]byte(payloadJSON), &timeline); err != nil {
		return nil, false, err
	}
	return timeline, true, nil
}

func (s *SQLite) Set(ctx context.Context, videoID string, timeline subtitle.Timeline) error {
	payload, err := json.Marshal(timeline)
	if err != nil {
		return err
	}

	now := s.now().UTC()
	_, err = s.db.ExecContext(
		ctx,
		`INSERT INTO timeline_cache (video_id, payload_json, expires_at, updated_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(video_id) DO UPDATE SET
			payload_json=excluded.payload_json,
			expires_at=excluded.expires_at,
			updated_at=excluded.updated_at`,
		videoID,
		string(payload),
		now.Add(s.ttl),
		now,
	)
	return err
}

// PurgeExpired removes timeline_cache rows whose expires_at is before now.
func (s *SQLite) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM timeline_cache WHERE expires_at <= ?`, now.UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
