package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"github.com/MimeLyc/yt-caption-translator/internal/caption"
	"github.com/MimeLyc/yt-caption-translator/internal/cache"
	"github.com/MimeLyc/yt-caption-translator/internal/config"
	"github.com/MimeLyc/yt-caption-translator/internal/httpapi"
	"github.com/MimeLyc/yt-caption-translator/internal/llm"
	"github.com/MimeLyc/yt-caption-translator/internal/service"
	"github.com/MimeLyc/yt-caption-translator/internal/translator"
	"github.com/MimeLyc/yt-caption-translator/pkg/log"
)

func main() {
	// .env is optional; real deployments use environment variables
	_ = godotenv.Load()

	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatal("Failed to load configuration: %v", err)
	}
	log.InitLogger(log.ParseLevel(cfg.Server.LogLevel))

	llmClient, err := llm.NewClient(&llm.Config{
		APIKey:      cfg.LLM.APIKey,
		APIURL:      cfg.LLM.APIURL,
		Model:       cfg.LLM.Model,
		MaxTokens:   cfg.LLM.MaxTokens,
		Temperature: cfg.LLM.Temperature,
		Timeout:     cfg.LLM.Timeout,
		AppName:     cfg.LLM.AppName,
	})
	if err != nil {
		log.Fatal("Failed to create LLM client: %v", err)
	}

	source, err := caption.NewClient(caption.Config{
		APIURL:  cfg.Caption.APIURL,
		Timeout: cfg.Caption.Timeout,
	})
	if err != nil {
		log.Fatal("Failed to create caption client: %v", err)
	}

	store, closeStore, err := newCache(cfg.Cache)
	if err != nil {
		log.Fatal("Failed to create cache: %v", err)
	}
	defer closeStore()

	svc := service.New(
		source,
		translator.NewLLMTranslator(llmClient, translator.WithMaxRetries(cfg.Translate.MaxRetries)),
		store,
		service.Options{
			TargetLanguage: cfg.Translate.TargetLanguage,
			ChunkSize:      cfg.Translate.ChunkSize,
		},
	)

	scheduler := cron.New()
	if err := svc.SchedulePurge(scheduler, cfg.Server.CronExpr); err != nil {
		log.Fatal("Failed to schedule cache purge: %v", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	server := httpapi.NewServer(svc)
	go func() {
		log.Info("Listening on %s", cfg.Server.Addr)
		if err := server.ListenAndServe(cfg.Server.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server failed: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Info("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error("Shutdown error: %v", err)
	}
}

// newCache builds the configured cache backend. The returned close func
// is a no-op for non-persistent backends.
func newCache(cfg config.CacheConfig) (cache.Cache, func(), error) {
	switch cfg.Backend {
	case "sqlite":
		store, err := cache.NewSQLite(cfg.DBPath, cfg.TTL)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { _ = store.Close() }, nil
	case "none":
		return cache.Noop{}, func() {}, nil
	default:
		return cache.NewMemory(cfg.TTL), func() {}, nil
	}
}
