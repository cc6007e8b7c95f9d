package translator

import (
	"context"

	"github.com/MimeLyc/yt-caption-translator/internal/subtitle"
)

// Completer is the LLM capability the translator needs: one prompt in,
// free-form text out. Satisfied by llm.Client.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Translator translates the text of one timeline chunk while preserving
// timing fields exactly.
type Translator interface {
	// TranslateChunk returns a chunk of identical length and timing.
	// Model unreliability never surfaces as an error: after retries are
	// exhausted the original text is returned with a failure marker.
	// The only error returned is context cancellation.
	TranslateChunk(ctx context.Context, chunk subtitle.Timeline, sourceLang, targetLang string) (subtitle.Timeline, error)
}
