package translator

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MimeLyc/yt-caption-translator/internal/subtitle"
)

// fakeCompleter returns scripted responses in order, then repeats the last.
type fakeCompleter struct {
	responses []string
	errs      []error
	calls     int
}

func (f *fakeCompleter) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	i := f.calls
	f.calls++
	if i >= len(f.responses) {
		i = len(f.responses) - 1
	}
	var err error
	if i < len(f.errs) {
		err = f.errs[i]
	}
	return f.responses[i], err
}

func testChunk() subtitle.Timeline {
	return subtitle.Timeline{
		{Text: "hello", Offset: 0, Duration: 1000},
		{Text: "world", Offset: 1000, Duration: 500},
		{Text: "again", Offset: 1500, Duration: 750},
	}
}

func newTestTranslator(client Completer) Translator {
	return NewLLMTranslator(client, WithBackoffUnit(0))
}

func TestTranslateChunk_Success(t *testing.T) {
	t.Parallel()

	client := &fakeCompleter{responses: []string{
		`[{"text":"bonjour","offset":99,"duration":99},{"text":"monde","offset":99,"duration":99},{"text":"encore","offset":99,"duration":99}]`,
	}}

	got, err := newTestTranslator(client).TranslateChunk(context.Background(), testChunk(), "en", "French")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "bonjour", got[0].Text)
	assert.Equal(t, "monde", got[1].Text)
	assert.Equal(t, "encore", got[2].Text)
	// echoed timing values are ignored, originals win
	assert.Equal(t, int64(0), got[0].Offset)
	assert.Equal(t, int64(1000), got[0].Duration)
	assert.Equal(t, int64(1500), got[2].Offset)
	assert.Equal(t, 1, client.calls)
}

func TestTranslateChunk_ShortArrayFallsBack(t *testing.T) {
	t.Parallel()

	client := &fakeCompleter{responses: []string{
		`[{"text":"bonjour"}]`,
	}}

	got, err := newTestTranslator(client).TranslateChunk(context.Background(), testChunk(), "en", "French")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "bonjour", got[0].Text)
	assert.Equal(t, "world", got[1].Text)
	assert.Equal(t, "again", got[2].Text)
}

func TestTranslateChunk_BlankElementFallsBack(t *testing.T) {
	t.Parallel()

	client := &fakeCompleter{responses: []string{
		`[{"text":"bonjour"},{"text":"  "},{"text":"encore"}]`,
	}}

	got, err := newTestTranslator(client).TranslateChunk(context.Background(), testChunk(), "en", "French")
	require.NoError(t, err)
	assert.Equal(t, "world", got[1].Text)
}

func TestTranslateChunk_RetriesThenRecovers(t *testing.T) {
	t.Parallel()

	client := &fakeCompleter{
		responses: []string{
			"",
			"not json at all",
			`[{"text":"bonjour"},{"text":"monde"},{"text":"encore"}]`,
		},
		errs: []error{fmt.Errorf("connection reset"), nil, nil},
	}

	got, err := newTestTranslator(client).TranslateChunk(context.Background(), testChunk(), "en", "French")
	require.NoError(t, err)
	assert.Equal(t, "bonjour", got[0].Text)
	assert.Equal(t, 3, client.calls)
}

func TestTranslateChunk_ExhaustedRetriesDegrade(t *testing.T) {
	t.Parallel()

	client := &fakeCompleter{responses: []string{"garbage every time"}}

	got, err := newTestTranslator(client).TranslateChunk(context.Background(), testChunk(), "en", "French")
	require.NoError(t, err)
	assert.Equal(t, 3, client.calls)
	require.Len(t, got, 3)
	for i, block := range got {
		assert.True(t, strings.HasPrefix(block.Text, FailedMarker))
		assert.Equal(t, testChunk()[i].Offset, block.Offset)
		assert.Equal(t, testChunk()[i].Duration, block.Duration)
	}
	assert.Equal(t, FailedMarker+"hello", got[0].Text)
}

func TestTranslateChunk_MaxRetriesOption(t *testing.T) {
	t.Parallel()

	client := &fakeCompleter{responses: []string{"garbage"}}
	trans := NewLLMTranslator(client, WithBackoffUnit(0), WithMaxRetries(5))

	_, err := trans.TranslateChunk(context.Background(), testChunk(), "en", "French")
	require.NoError(t, err)
	assert.Equal(t, 5, client.calls)
}

func TestTranslateChunk_EmptyChunk(t *testing.T) {
	t.Parallel()

	client := &fakeCompleter{responses: []string{"unused"}}

	got, err := newTestTranslator(client).TranslateChunk(context.Background(), subtitle.Timeline{}, "en", "French")
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Equal(t, 0, client.calls)
}

func TestTranslateChunk_ContextCancelledDuringBackoff(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := &fakeCompleter{responses: []string{"garbage"}}
	trans := NewLLMTranslator(client, WithBackoffUnit(time.Hour))

	got, err := trans.TranslateChunk(ctx, testChunk(), "en", "French")
	require.Error(t, err)
	// the caller still receives a complete, correctly timed chunk
	require.Len(t, got, 3)
	assert.True(t, strings.HasPrefix(got[0].Text, FailedMarker))
}

func TestTranslateChunk_TimingInvariantUnderAnyOutcome(t *testing.T) {
	t.Parallel()

	outcomes := []string{
		`[{"text":"a","offset":123456,"duration":-1}]`,
		`[{"text":"a"},{"text":"b"},{"text":"c"},{"text":"d"},{"text":"e"}]`,
		`nonsense`,
	}

	for _, raw := range outcomes {
		client := &fakeCompleter{responses: []string{raw}}
		got, err := newTestTranslator(client).TranslateChunk(context.Background(), testChunk(), "en", "French")
		require.NoError(t, err)
		require.Len(t, got, len(testChunk()))
		for i, block := range got {
			assert.Equal(t, testChunk()[i].Offset, block.Offset)
			assert.Equal(t, testChunk()[i].Duration, block.Duration)
		}
	}
}
