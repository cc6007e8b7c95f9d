package translator

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/MimeLyc/yt-caption-translator/internal/subtitle"
	"github.com/MimeLyc/yt-caption-translator/pkg/log"
)

// FailedMarker prefixes the original text of a chunk whose translation
// could not be obtained after all retries.
const FailedMarker = "[translation failed] "

const (
	defaultMaxRetries  = 3
	defaultBackoffUnit = time.Second
)

type llmTranslator struct {
	client      Completer
	maxRetries  int
	backoffUnit time.Duration
}

// Option configures the LLM translator.
type Option func(*llmTranslator)

// WithMaxRetries sets the per-chunk attempt limit.
func WithMaxRetries(n int) Option {
	return func(t *llmTranslator) {
		if n > 0 {
			t.maxRetries = n
		}
	}
}

// WithBackoffUnit sets the unit of the linear retry backoff; the delay
// before attempt n+1 is n times this unit.
func WithBackoffUnit(d time.Duration) Option {
	return func(t *llmTranslator) {
		if d >= 0 {
			t.backoffUnit = d
		}
	}
}

// NewLLMTranslator creates a translator backed by a chat-completion model.
func NewLLMTranslator(client Completer, opts ...Option) Translator {
	t := &llmTranslator{
		client:      client,
		maxRetries:  defaultMaxRetries,
		backoffUnit: defaultBackoffUnit,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *llmTranslator) TranslateChunk(
	ctx context.Context,
	chunk subtitle.Timeline,
	sourceLang string,
	targetLang string,
) (subtitle.Timeline, error) {
	if len(chunk) == 0 {
		return subtitle.Timeline{}, nil
	}

	systemPrompt := buildSystemPrompt(sourceLang, targetLang)
	userMessage, err := buildUserMessage(chunk)
	if err != nil {
		return nil, fmt.Errorf("failed to encode chunk: %w", err)
	}

	var lastErr error
	for attempt := 1; attempt <= t.maxRetries; attempt++ {
		raw, err := t.client.Complete(ctx, systemPrompt, userMessage)
		if err == nil {
			parsed, perr := parseChunkOutput(raw)
			if perr == nil {
				return reconcile(chunk, parsed), nil
			}
			err = perr
		}
		lastErr = err
		log.Warn("chunk translation attempt %d/%d failed: %v", attempt, t.maxRetries, err)

		if attempt < t.maxRetries {
			if werr := sleepContext(ctx, time.Duration(attempt)*t.backoffUnit); werr != nil {
				return markFailed(chunk), werr
			}
		}
	}

	log.Error("chunk translation failed after %d attempts, keeping original text: %v", t.maxRetries, lastErr)
	return markFailed(chunk), nil
}

// translatedBlock is one element of the model's JSON array output. Only
// the text field matters: echoed offset/duration values are ignored so a
// model that "fixes" the numbers cannot corrupt the timeline.
type translatedBlock struct {
	Text string `json:"text"`
}

// buildUserMessage serializes the chunk as the JSON array the model is
// asked to translate in place.
func buildUserMessage(chunk subtitle.Timeline) (string, error) {
	payload, err := json.Marshal(chunk)
	if err != nil {
		return "", err
	}
	return string(payload), nil
}

// buildSystemPrompt builds the translation instruction for one chunk.
func buildSystemPrompt(sourceLang, targetLang string) string {
	var prompt strings.Builder

	prompt.WriteString("You are a professional subtitle translation expert. ")
	if sourceLang != "" && sourceLang != "und" {
		prompt.WriteString("Translate the subtitle lines from " + sourceLang + " to " + targetLang + ".\n\n")
	} else {
		prompt.WriteString("Translate the subtitle lines to " + targetLang + ".\n\n")
	}

	prompt.WriteString("The user message is a JSON array of objects with fields \"text\", \"offset\" and \"duration\".\n\n")

	prompt.WriteString("=== TRANSLATION GUIDELINES ===\n")
	prompt.WriteString("1. Keep the translation colloquial and natural for on-screen reading\n")
	prompt.WriteString("2. Preserve the tone and emotion of the dialogue\n")
	prompt.WriteString("3. Translate each array element independently, one output element per input element\n")

	prompt.WriteString("\n=== OUTPUT FORMAT ===\n")
	prompt.WriteString("Return a JSON array with exactly one object per input object, each with fields \"text\", \"offset\" and \"duration\".\n")
	prompt.WriteString("Set \"text\" to the translation; echo \"offset\" and \"duration\" unchanged, do not recalculate them.\n")
	prompt.WriteString("Return ONLY the bare JSON array. No explanations, no markdown code fences, no text before or after it.\n")

	return prompt.String()
}

// parseChunkOutput turns raw model output into translated blocks. It
// tolerates code-fence wrapping and prose around the array, and fails on
// anything that does not contain a non-empty JSON array.
func parseChunkOutput(raw string) ([]translatedBlock, error) {
	cleaned := stripCodeFences(raw)
	extracted, ok := extractJSONArray(cleaned)
	if !ok {
		return nil, fmt.Errorf("no JSON array found in model output")
	}

	var blocks []translatedBlock
	if err := json.Unmarshal([]byte(extracted), &blocks); err != nil {
		return nil, fmt.Errorf("failed to parse model output as JSON array: %w", err)
	}
	if len(blocks) == 0 {
		return nil, fmt.Errorf("model output is an empty array")
	}
	return blocks, nil
}

// stripCodeFences removes a markdown code fence wrapping, with or
// without a language tag.
func stripCodeFences(s string) string {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}

	trimmed = strings.TrimPrefix(trimmed, "```")
	if i := strings.IndexByte(trimmed, '\n'); i >= 0 {
		// drop the language tag line ("json", "JSON", ...)
		firstLine := strings.TrimSpace(trimmed[:i])
		if len(firstLine) <= 10 && !strings.ContainsAny(firstLine, "[]{}") {
			trimmed = trimmed[i+1:]
		}
	}
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}

// extractJSONArray locates the outermost array literal within s, which
// defends against models adding preamble or postamble text.
func extractJSONArray(s string) (string, bool) {
	start := strings.IndexByte(s, '[')
	end := strings.LastIndexByte(s, ']')
	if start < 0 || end <= start {
		return "", false
	}
	return s[start : end+1], true
}

// reconcile merges the model output back onto the original chunk
// positionally. Offset and duration always come from the original; a
// missing or blank translated element falls back to the original text, so
// a short array degrades gracefully instead of failing the chunk.
func reconcile(chunk subtitle.Timeline, parsed []translatedBlock) subtitle.Timeline {
	result := make(subtitle.Timeline, len(chunk))
	for i, block := range chunk {
		text := block.Text
		if i < len(parsed) && strings.TrimSpace(parsed[i].Text) != "" {
			text = parsed[i].Text
		}
		result[i] = subtitle.Block{
			Text:     text,
			Offset:   block.Offset,
			Duration: block.Duration,
		}
	}
	return result
}

// markFailed returns the chunk untranslated with each text prefixed by
// the failure marker, keeping the timeline complete and correctly timed.
func markFailed(chunk subtitle.Timeline) subtitle.Timeline {
	result := make(subtitle.Timeline, len(chunk))
	for i, block := range chunk {
		result[i] = subtitle.Block{
			Text:     FailedMarker + block.Text,
			Offset:   block.Offset,
			Duration: block.Duration,
		}
	}
	return result
}

// sleepContext waits for d unless the context is cancelled first.
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
