package service

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/okian/pragati/internal/adapters/analyzer"
	"github.com/okian/pragati/internal/adapters/embedding"
	"github.com/okian/pragati/internal/adapters/repository"
	"github.com/okian/pragati/internal/config"
	"github.com/okian/pragati/pkg/logger"
)

const redisPingTimeout = 2 * time.Second

// NewFromConfig builds a Service from cfg, choosing the store, the embedding
// cache, the embedder and the analyzer. External providers are used only
// when configured; an unreachable Redis falls back to the in-process cache.
// extra options are applied last. The returned cleanup releases what the
// Service does not own and is always safe to call.
func NewFromConfig(ctx context.Context, cfg *config.Config, l logger.Logger, extra ...Option) (*Service, func(), error) {
	cleanup := func() {}
	if l == nil {
		l = logger.Get().Named("service")
	}

	store, err := repository.Open(cfg.StoreDriver, cfg.SQLitePath)
	if err != nil {
		return nil, cleanup, fmt.Errorf("open %s store: %w", cfg.StoreDriver, err)
	}

	opts := []Option{
		WithLogger(l),
		WithStore(store),
		WithWorkerCount(cfg.WorkerCount),
		WithQueueSize(cfg.QueueSize),
		WithDedupeSize(cfg.DedupeSize),
		WithAnalysisConcurrency(cfg.AnalysisConcurrency),
		WithStallThreshold(cfg.StallThreshold),
		WithKeywordMinOccurrences(cfg.KeywordMinOccurrences),
		WithKeywordLookbackDays(cfg.KeywordLookbackDays),
	}

	namespace := "lexical"
	if cfg.OpenAIAPIKey != "" {
		remote := embedding.NewOpenAIEmbedder(cfg.OpenAIAPIKey, cfg.EmbeddingModel)
		opts = append(opts, WithEmbedder(embedding.NewResilient(remote,
			embedding.WithTimeout(time.Duration(cfg.EmbeddingTimeoutMS)*time.Millisecond),
			embedding.WithLogger(l.Named("embedding")),
		)))
		namespace = "openai:" + cfg.EmbeddingModel
	} else {
		l.Info(ctx, "no OpenAI key, embedding text lexically")
	}

	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
		err := client.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			l.Warn(ctx, "redis unreachable, using in-process embedding cache",
				logger.String("redis_addr", cfg.RedisAddr), logger.Error(err))
			_ = client.Close()
		} else {
			// vectors from different embedders never share keys
			cache := embedding.NewRedisCache(client, embedding.WithKeyPrefix(embedding.DefaultKeyPrefix+namespace+":"))
			opts = append(opts, WithEmbeddingCache(cache))
			cleanup = func() { _ = client.Close() }
		}
	}

	if cfg.AnthropicAPIKey != "" {
		opts = append(opts, WithAnalyzer(analyzer.NewAnthropicAnalyzer(cfg.AnthropicAPIKey,
			analyzer.WithTimeout(time.Duration(cfg.AnalyzerTimeoutMS)*time.Millisecond),
			analyzer.WithLogger(l.Named("analyzer")),
		)))
	} else {
		l.Info(ctx, "no Anthropic key, analyzing updates heuristically")
	}

	return New(append(opts, extra...)...), cleanup, nil
}
