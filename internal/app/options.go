package service

import (
	"time"

	"github.com/okian/pragati/internal/adapters/mq/worker"
	"github.com/okian/pragati/internal/adapters/repository"
	"github.com/okian/pragati/internal/domain/similarity"
	"github.com/okian/pragati/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of analysis workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the capacity of the submission queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets how many submission ids are remembered.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithStore sets the update store and member directory.
func WithStore(st repository.Store) Option {
	return func(s *Service) {
		if st != nil {
			s.store = st
		}
	}
}

// WithAnalyzer sets the analyzer used by the workers.
func WithAnalyzer(a worker.Analyzer) Option {
	return func(s *Service) {
		if a != nil {
			s.analyzer = a
		}
	}
}

// WithEmbedder sets the embedder used by stall detection.
func WithEmbedder(e similarity.Embedder) Option {
	return func(s *Service) {
		if e != nil {
			s.embedder = e
		}
	}
}

// WithEmbeddingCache sets the vector cache used by stall detection.
func WithEmbeddingCache(c similarity.Cache) Option {
	return func(s *Service) {
		if c != nil {
			s.cache = c
		}
	}
}

// WithClock sets the time source. Analyses are computed relative to it.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithStallThreshold sets the default similarity threshold.
func WithStallThreshold(t float64) Option {
	return func(s *Service) {
		if t >= -1 && t <= 1 {
			s.stallThreshold = t
		}
	}
}

// WithKeywordMinOccurrences sets how often a token must occur in one update
// to be significant.
func WithKeywordMinOccurrences(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.minOccurrences = n
		}
	}
}

// WithKeywordLookbackDays sets the default window of the keyword and stall analyses.
func WithKeywordLookbackDays(days int) Option {
	return func(s *Service) {
		if days > 0 {
			s.lookbackDays = days
		}
	}
}

// WithAnalysisConcurrency bounds the per-member fan-out of the analyses.
func WithAnalysisConcurrency(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.concurrency = n
		}
	}
}
