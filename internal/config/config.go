// Package config defines service configuration and its loading.
package config

import (
	"fmt"
	"runtime"

	"github.com/okian/pragati/internal/adapters/repository"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// StoreDriver selects update storage: memory or sqlite.
	StoreDriver string `koanf:"store_driver"`

	// SQLitePath is the database file used by the sqlite driver.
	SQLitePath string `koanf:"sqlite_path"`

	// RedisAddr enables the shared embedding cache when set.
	RedisAddr string `koanf:"redis_addr"`

	// QueueSize bounds the in-memory submission queue.
	QueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of analysis workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize sets the size of the submission id cache.
	DedupeSize int `koanf:"dedupe_size"`

	// AnalysisConcurrency bounds parallel per-member work in the
	// keyword and stall analyses.
	AnalysisConcurrency int `koanf:"analysis_concurrency"`

	// StallThreshold is the default cosine similarity above which two
	// consecutive updates count as the same.
	StallThreshold float64 `koanf:"stall_threshold"`

	// KeywordMinOccurrences is how many consecutive updates a keyword must
	// appear in to be reported.
	KeywordMinOccurrences int `koanf:"keyword_min_occurrences"`

	// KeywordLookbackDays is the default lookback of the keyword and stall
	// analyses.
	KeywordLookbackDays int `koanf:"keyword_lookback_days"`

	// EmbeddingModel names the OpenAI embedding model.
	EmbeddingModel string `koanf:"embedding_model"`

	// EmbeddingTimeoutMS bounds a single embedding call.
	EmbeddingTimeoutMS int `koanf:"embedding_timeout_ms"`

	// OpenAIAPIKey enables remote embeddings. Without it text is embedded
	// lexically.
	OpenAIAPIKey string `koanf:"openai_api_key"`

	// AnthropicAPIKey enables the LLM update analyzer. Without it updates
	// are analyzed heuristically.
	AnthropicAPIKey string `koanf:"anthropic_api_key"`

	// AnalyzerTimeoutMS bounds a single analyzer call.
	AnalyzerTimeoutMS int `koanf:"analyzer_timeout_ms"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:              "info",
		LogFormat:             "text",
		Addr:                  ":9080",
		StoreDriver:           repository.DriverMemory,
		SQLitePath:            "pragati.db",
		QueueSize:             1024,
		WorkerCount:           runtime.NumCPU(),
		DedupeSize:            50_000,
		AnalysisConcurrency:   8,
		StallThreshold:        0.85,
		KeywordMinOccurrences: 2,
		KeywordLookbackDays:   30,
		EmbeddingModel:        "text-embedding-3-small",
		EmbeddingTimeoutMS:    10_000,
		AnalyzerTimeoutMS:     30_000,
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.StoreDriver != repository.DriverMemory && c.StoreDriver != repository.DriverSQLite:
		return fmt.Errorf("%w: unknown store_driver %q", ErrInvalidConfig, c.StoreDriver)
	case c.StoreDriver == repository.DriverSQLite && c.SQLitePath == "":
		return fmt.Errorf("%w: sqlite_path must not be empty", ErrInvalidConfig)
	case c.StallThreshold < -1 || c.StallThreshold > 1:
		return fmt.Errorf("%w: stall_threshold %v outside [-1, 1]", ErrInvalidConfig, c.StallThreshold)
	case c.KeywordMinOccurrences < 1:
		return fmt.Errorf("%w: keyword_min_occurrences must be at least 1", ErrInvalidConfig)
	case c.KeywordLookbackDays < 1 || c.KeywordLookbackDays > 365:
		return fmt.Errorf("%w: keyword_lookback_days must be 1 to 365", ErrInvalidConfig)
	case c.QueueSize < 1:
		return fmt.Errorf("%w: queue_size must be positive", ErrInvalidConfig)
	}
	return nil
}
