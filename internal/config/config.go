package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"golang.org/x/text/language"

	"github.com/MimeLyc/yt-caption-translator/pkg/log"
)

// Config holds all application configuration.
// Supports environment variables with sensible defaults.
//
// Environment Variables:
// LLM Configuration:
// - LLM_API_KEY: API key for the LLM provider (required)
// - LLM_API_URL: API endpoint URL (default: https://openrouter.ai/api/v1)
// - LLM_MODEL: Model name to use (default: openai/gpt-3.5-turbo)
// - LLM_MAX_TOKENS: Maximum tokens for responses (default: 8000)
// - LLM_TEMPERATURE: Temperature for responses (default: 0.7)
// - LLM_TIMEOUT: Request timeout in seconds (default: 30)
// - LLM_APP_NAME: Application name for X-Title header (optional)
//
// Translation Configuration:
// - TARGET_LANGUAGE: BCP 47 tag of the translation target (default: zh)
// - CHUNK_SIZE: Subtitle blocks per model request (default: 50)
// - TRANSLATE_MAX_RETRIES: Attempts per chunk before degrading (default: 3)
//
// Cache Configuration:
// - CACHE_BACKEND: "memory", "sqlite" or "none" (default: memory)
// - CACHE_TTL: Entry time-to-live (default: 24h)
// - CACHE_DB_PATH: SQLite database path (default: ./data/cache.db)
//
// Caption Source Configuration:
// - CAPTION_API_URL: Caption track endpoint (required)
// - CAPTION_TIMEOUT: Fetch timeout (default: 30s)
//
// Server Configuration:
// - HTTP_ADDR: Listen address (default: :8080)
// - CRON_EXPR: Schedule for cache purge runs (default: "0 * * * *")
// - LOG_LEVEL: debug/info/warn/error (default: info)
type Config struct {
	LLM       LLMConfig       `json:"llm"`
	Translate TranslateConfig `json:"translate"`
	Cache     CacheConfig     `json:"cache"`
	Caption   CaptionConfig   `json:"caption"`
	Server    ServerConfig    `json:"server"`
}

// LLMConfig holds the configuration for the LLM client.
type LLMConfig struct {
	APIKey      string  `json:"api_key"`
	APIURL      string  `json:"api_url"`
	Model       string  `json:"model"`
	MaxTokens   int     `json:"max_tokens"`
	Temperature float64 `json:"temperature"`
	Timeout     int     `json:"timeout"`
	AppName     string  `json:"app_name"`
}

// TranslateConfig holds pipeline tuning knobs.
type TranslateConfig struct {
	TargetLanguage language.Tag `json:"target_language"`
	ChunkSize      int          `json:"chunk_size"`
	MaxRetries     int          `json:"max_retries"`
}

// CacheConfig holds the result cache configuration.
type CacheConfig struct {
	Backend string        `json:"backend"`
	TTL     time.Duration `json:"ttl"`
	DBPath  string        `json:"db_path"`
}

// CaptionConfig holds the caption source configuration.
type CaptionConfig struct {
	APIURL  string        `json:"api_url"`
	Timeout time.Duration `json:"timeout"`
}

// ServerConfig holds HTTP server and scheduling configuration.
type ServerConfig struct {
	Addr     string `json:"addr"`
	CronExpr string `json:"cron_expr"`
	LogLevel string `json:"log_level"`
}

// Option is a function type for configuring Config.
type Option func(*Config)

// NewFromEnv creates a new Config instance with values from environment
// variables and options.
func NewFromEnv(opts ...Option) (*Config, error) {
	config := &Config{
		LLM: LLMConfig{
			APIKey:      getEnvString("LLM_API_KEY", ""),
			APIURL:      getEnvString("LLM_API_URL", "https://openrouter.ai/api/v1"),
			Model:       getEnvString("LLM_MODEL", "openai/gpt-3.5-turbo"),
			MaxTokens:   getEnvInt("LLM_MAX_TOKENS", 8000),
			Temperature: getEnvFloat("LLM_TEMPERATURE", 0.7),
			Timeout:     getEnvInt("LLM_TIMEOUT", 30),
			AppName:     getEnvString("LLM_APP_NAME", ""),
		},
		Translate: TranslateConfig{
			TargetLanguage: getEnvLanguage("TARGET_LANGUAGE", language.Chinese),
			ChunkSize:      getEnvInt("CHUNK_SIZE", 50),
			MaxRetries:     getEnvInt("TRANSLATE_MAX_RETRIES", 3),
		},
		Cache: CacheConfig{
			Backend: getEnvString("CACHE_BACKEND", "memory"),
			TTL:     getEnvDuration("CACHE_TTL", 24*time.Hour),
			DBPath:  getEnvString("CACHE_DB_PATH", "./data/cache.db"),
		},
		Caption: CaptionConfig{
			APIURL:  getEnvString("CAPTION_API_URL", ""),
			Timeout: getEnvDuration("CAPTION_TIMEOUT", 30*time.Second),
		},
		Server: ServerConfig{
			Addr:     getEnvString("HTTP_ADDR", ":8080"),
			CronExpr: getEnvString("CRON_EXPR", "0 * * * *"),
			LogLevel: getEnvString("LOG_LEVEL", "info"),
		},
	}

	// Apply custom options
	for _, opt := range opts {
		opt(config)
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// validate checks if all required configuration is properly set.
func (c *Config) validate() error {
	if c.LLM.APIKey == "" {
		return fmt.Errorf("LLM_API_KEY is required")
	}
	if c.Caption.APIURL == "" {
		return fmt.Errorf("CAPTION_API_URL is required")
	}
	if c.Translate.ChunkSize <= 0 {
		return fmt.Errorf("CHUNK_SIZE must be greater than 0")
	}
	if c.Translate.MaxRetries <= 0 {
		return fmt.Errorf("TRANSLATE_MAX_RETRIES must be greater than 0")
	}
	switch c.Cache.Backend {
	case "memory", "sqlite", "none":
	default:
		return fmt.Errorf("CACHE_BACKEND must be one of memory, sqlite, none")
	}
	return nil
}

// getEnvString gets a string value from environment variables with default.
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an integer value from environment variables with default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvFloat gets a float value from environment variables with default.
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

// getEnvDuration gets a duration value from environment variables with default.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

// getEnvLanguage parses a BCP 47 language tag from the environment,
// keeping the default when the value does not parse.
func getEnvLanguage(key string, defaultValue language.Tag) language.Tag {
	if value := os.Getenv(key); value != "" {
		tag, err := language.Parse(value)
		if err == nil {
			return tag
		}
		log.Warn("invalid %s %q, using %s", key, value, defaultValue)
	}
	return defaultValue
}
