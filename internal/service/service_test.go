package service

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/MimeLyc/yt-caption-translator/internal/caption"
	"github.com/MimeLyc/yt-caption-translator/internal/cache"
	"github.com/MimeLyc/yt-caption-translator/internal/subtitle"
)

const testVideoID = "dQw4w9WgXcQ"

func strPtr(s string) *string { return &s }

// fakeSource serves a scripted track and counts fetches.
type fakeSource struct {
	track   *caption.Track
	err     error
	fetches int
}

func (f *fakeSource) Fetch(ctx context.Context, videoID string) (*caption.Track, error) {
	f.fetches++
	if f.err != nil {
		return nil, f.err
	}
	return f.track, nil
}

// fakeTranslator marks each block as translated and counts chunks.
type fakeTranslator struct {
	chunks int
	err    error
}

func (f *fakeTranslator) TranslateChunk(ctx context.Context, chunk subtitle.Timeline, sourceLang, targetLang string) (subtitle.Timeline, error) {
	f.chunks++
	if f.err != nil {
		return nil, f.err
	}
	result := make(subtitle.Timeline, len(chunk))
	for i, block := range chunk {
		result[i] = subtitle.Block{
			Text:     "translated: " + block.Text,
			Offset:   block.Offset,
			Duration: block.Duration,
		}
	}
	return result, nil
}

func testTrack(n int) *caption.Track {
	segments := make([]caption.RawSegment, 0, n+1)
	segments = append(segments, caption.RawSegment{Text: strPtr("Intro")}) // structural, filtered
	for i := 0; i < n; i++ {
		segments = append(segments, caption.RawSegment{
			StartMs: strPtr(fmt.Sprintf("%d", i*1000)),
			EndMs:   strPtr(fmt.Sprintf("%d", i*1000+900)),
			Text:    strPtr(fmt.Sprintf("line %d", i)),
		})
	}
	return &caption.Track{VideoID: testVideoID, Segments: segments}
}

func newTestService(source caption.Source, trans *fakeTranslator, store cache.Cache) *Service {
	return New(source, trans, store, Options{
		TargetLanguage: language.French,
		ChunkSize:      10,
	})
}

func TestProcessVideo_Success(t *testing.T) {
	t.Parallel()

	source := &fakeSource{track: testTrack(25)}
	trans := &fakeTranslator{}
	svc := newTestService(source, trans, cache.NewMemory(0))

	result := svc.ProcessVideo(context.Background(), "https://www.youtube.com/watch?v="+testVideoID)
	require.True(t, result.Success, "error: %s", result.Error)
	require.Len(t, result.Data, 25)
	assert.Equal(t, "translated: line 0", result.Data[0].Text)
	assert.Equal(t, int64(24000), result.Data[24].Offset)
	assert.Equal(t, 3, trans.chunks) // 10+10+5
	assert.NotEmpty(t, result.RequestID)
}

func TestProcessVideo_CacheHitSkipsFetchAndTranslation(t *testing.T) {
	t.Parallel()

	source := &fakeSource{track: testTrack(5)}
	trans := &fakeTranslator{}
	svc := newTestService(source, trans, cache.NewMemory(0))

	first := svc.ProcessVideo(context.Background(), testVideoID)
	require.True(t, first.Success)
	assert.Equal(t, 1, source.fetches)
	assert.Equal(t, 1, trans.chunks)

	second := svc.ProcessVideo(context.Background(), "https://youtu.be/"+testVideoID)
	require.True(t, second.Success)
	assert.Equal(t, first.Data, second.Data)
	assert.Equal(t, 1, source.fetches, "cache hit must not fetch captions again")
	assert.Equal(t, 1, trans.chunks, "cache hit must not invoke the model again")
}

func TestProcessVideo_InvalidURL(t *testing.T) {
	t.Parallel()

	source := &fakeSource{track: testTrack(1)}
	svc := newTestService(source, &fakeTranslator{}, cache.NewMemory(0))

	result := svc.ProcessVideo(context.Background(), "not a url")
	require.False(t, result.Success)
	assert.Contains(t, result.Error, "invalid video URL or ID")
	assert.Equal(t, 0, source.fetches)
}

func TestProcessVideo_NoTranscript(t *testing.T) {
	t.Parallel()

	source := &fakeSource{err: fmt.Errorf("video %s: %w", testVideoID, caption.ErrNoTranscript)}
	svc := newTestService(source, &fakeTranslator{}, cache.NewMemory(0))

	result := svc.ProcessVideo(context.Background(), testVideoID)
	require.False(t, result.Success)
	assert.Contains(t, result.Error, "no transcript")
}

func TestProcessVideo_EmptyTranscript(t *testing.T) {
	t.Parallel()

	// track exists but only structural segments survive filtering
	source := &fakeSource{track: &caption.Track{
		VideoID:  testVideoID,
		Segments: []caption.RawSegment{{Text: strPtr("Chapter 1")}},
	}}
	svc := newTestService(source, &fakeTranslator{}, cache.NewMemory(0))

	result := svc.ProcessVideo(context.Background(), testVideoID)
	require.False(t, result.Success)
	assert.Contains(t, result.Error, "empty transcript")
}

func TestProcessVideo_FetchError(t *testing.T) {
	t.Parallel()

	source := &fakeSource{err: fmt.Errorf("connection refused")}
	svc := newTestService(source, &fakeTranslator{}, cache.NewMemory(0))

	result := svc.ProcessVideo(context.Background(), testVideoID)
	require.False(t, result.Success)
	assert.Contains(t, result.Error, "failed to fetch captions")
}

// panicSource simulates a collaborator blowing up at runtime.
type panicSource struct{}

func (panicSource) Fetch(ctx context.Context, videoID string) (*caption.Track, error) {
	panic("caption library bug")
}

func TestProcessVideo_PanicBecomesFailureResult(t *testing.T) {
	t.Parallel()

	svc := newTestService(panicSource{}, &fakeTranslator{}, cache.NewMemory(0))

	result := svc.ProcessVideo(context.Background(), testVideoID)
	require.False(t, result.Success)
	assert.Contains(t, result.Error, "runtime error")
}

func TestProcessVideo_NilCacheDefaultsToNoop(t *testing.T) {
	t.Parallel()

	source := &fakeSource{track: testTrack(2)}
	svc := New(source, &fakeTranslator{}, nil, Options{TargetLanguage: language.French})

	result := svc.ProcessVideo(context.Background(), testVideoID)
	require.True(t, result.Success)

	// no cache: second call recomputes
	_ = svc.ProcessVideo(context.Background(), testVideoID)
	assert.Equal(t, 2, source.fetches)
}

func TestProcessVideo_TimingPreservedEndToEnd(t *testing.T) {
	t.Parallel()

	source := &fakeSource{track: testTrack(12)}
	svc := newTestService(source, &fakeTranslator{}, cache.NewMemory(0))

	result := svc.ProcessVideo(context.Background(), testVideoID)
	require.True(t, result.Success)

	original := subtitle.Normalize(source.track.Segments)
	require.Len(t, result.Data, len(original))
	for i := range original {
		assert.Equal(t, original[i].Offset, result.Data[i].Offset)
		assert.Equal(t, original[i].Duration, result.Data[i].Duration)
		assert.True(t, strings.HasPrefix(result.Data[i].Text, "translated: "))
	}
}

func TestIsErrorType(t *testing.T) {
	t.Parallel()

	err := WrapError(fmt.Errorf("boom"), ErrFetch, "failed to fetch captions")
	assert.True(t, IsErrorType(err, ErrFetch))
	assert.False(t, IsErrorType(err, ErrInvalidURL))
	assert.False(t, IsErrorType(fmt.Errorf("plain"), ErrFetch))
}
