package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"golang.org/x/sync/singleflight"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"github.com/MimeLyc/yt-caption-translator/internal/caption"
	"github.com/MimeLyc/yt-caption-translator/internal/cache"
	"github.com/MimeLyc/yt-caption-translator/internal/subtitle"
	"github.com/MimeLyc/yt-caption-translator/internal/translator"
	"github.com/MimeLyc/yt-caption-translator/pkg/log"
)

// Options tunes the translation pipeline.
type Options struct {
	TargetLanguage language.Tag
	ChunkSize      int
}

// Service drives the caption translation pipeline:
// fetch → normalize → chunk → translate → concat, wrapped in an
// identity-keyed result cache.
type Service struct {
	source         caption.Source
	translator     translator.Translator
	cache          cache.Cache
	targetLanguage language.Tag
	chunkSize      int
}

// New creates the pipeline orchestrator.
func New(source caption.Source, trans translator.Translator, store cache.Cache, opts Options) *Service {
	if store == nil {
		store = cache.Noop{}
	}
	chunkSize := opts.ChunkSize
	if chunkSize <= 0 {
		chunkSize = subtitle.DefaultChunkSize
	}
	targetLanguage := opts.TargetLanguage
	if targetLanguage == language.Und {
		targetLanguage = language.Chinese
	}
	return &Service{
		source:         source,
		translator:     trans,
		cache:          store,
		targetLanguage: targetLanguage,
		chunkSize:      chunkSize,
	}
}

// ProcessVideo translates the caption track of the video identified by
// input (a watch/short-link/embed URL or a bare 11-character ID) into the
// configured target language. It always returns a Result; errors never
// propagate past this boundary.
func (s *Service) ProcessVideo(ctx context.Context, input string) Result {
	requestID := uuid.NewString()

	var timeline subtitle.Timeline
	err := SafeExecute(func() error {
		var perr error
		timeline, perr = s.process(ctx, requestID, input)
		return perr
	})
	if err != nil {
		log.Error("[%s] processing failed: %v", requestID, err)
		return failureResult(requestID, err)
	}
	return successResult(requestID, timeline)
}

func (s *Service) process(ctx context.Context, requestID, input string) (subtitle.Timeline, error) {
	videoID, err := caption.ExtractVideoID(input)
	if err != nil {
		return nil, WrapError(err, ErrInvalidURL, "invalid video URL or ID")
	}

	if cached, ok, err := s.cache.Get(ctx, videoID); err != nil {
		log.Warn("[%s] cache lookup failed for %s, recomputing: %v", requestID, videoID, err)
	} else if ok {
		log.Info("[%s] cache hit for %s (%d blocks)", requestID, videoID, len(cached))
		return cached, nil
	}

	track, err := s.source.Fetch(ctx, videoID)
	if err != nil {
		if errors.Is(err, caption.ErrNoTranscript) {
			return nil, WrapError(err, ErrNoTranscript, "no transcript available for this video")
		}
		return nil, WrapError(err, ErrFetch, "failed to fetch captions")
	}

	timeline := subtitle.Normalize(track.Segments)
	if len(timeline) == 0 {
		return nil, NewError(ErrEmptyTranscript, "empty transcript: no usable caption segments")
	}

	sourceLang := languageName(subtitle.DetectLanguage(timeline))
	targetLang := languageName(s.targetLanguage)

	chunks := subtitle.Split(timeline, s.chunkSize)
	log.Info("[%s] translating %s: %d blocks in %d chunks to %s", requestID, videoID, len(timeline), len(chunks), targetLang)

	translated := make([]subtitle.Timeline, 0, len(chunks))
	for i, chunk := range chunks {
		result, err := s.translator.TranslateChunk(ctx, chunk, sourceLang, targetLang)
		if err != nil {
			return nil, WrapError(err, ErrTranslation, "translation aborted")
		}
		log.Debug("[%s] chunk %d/%d done", requestID, i+1, len(chunks))
		translated = append(translated, result)
	}

	result := subtitle.Concat(translated)
	if err := s.cache.Set(ctx, videoID, result); err != nil {
		log.Warn("[%s] failed to cache result for %s: %v", requestID, videoID, err)
	}
	return result, nil
}

// languageName renders a tag as the English language name used in prompts.
func languageName(tag language.Tag) string {
	if tag == language.Und {
		return ""
	}
	return display.English.Languages().Name(tag)
}

var purgeGroup singleflight.Group

// SchedulePurge registers a cron job that drops expired cache entries.
// Overlapping runs are collapsed into one.
func (s *Service) SchedulePurge(c *cron.Cron, expr string) error {
	_, err := c.AddFunc(expr, func() {
		_, _, _ = purgeGroup.Do("purge", func() (any, error) {
			purged, err := s.cache.PurgeExpired(context.Background(), time.Now())
			if err != nil {
				log.Error("cache purge failed: %v", err)
			} else if purged > 0 {
				log.Info("purged %d expired cache entries", purged)
			}
			return nil, nil
		})
	})
	return err
}
