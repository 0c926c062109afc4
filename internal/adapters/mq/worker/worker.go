package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/pragati/internal/domain/model"
	"github.com/okian/pragati/pkg/logger"
	"github.com/okian/pragati/pkg/metrics"
)

// Default worker configuration constants.
const (
	metricsUpdateInterval = 5 * time.Second
	workerShutdownTimeout = 5 * time.Second
	poolShutdownTimeout   = 30 * time.Second
)

// Analyzer structures the text of a submission.
type Analyzer interface {
	Analyze(ctx context.Context, text string) (model.Analysis, error)
}

// Recorder persists an analyzed submission.
type Recorder interface {
	Record(ctx context.Context, s model.Submission, a model.Analysis) error
}

// Queue defines how workers receive submissions.
type Queue interface {
	Dequeue(ctx context.Context) <-chan model.Submission
}

// Worker processes submissions from a queue.
type Worker interface {
	// Run starts the worker loop until ctx is canceled.
	Run(ctx context.Context)

	// Shutdown stops the worker after the submission in hand.
	Shutdown(ctx context.Context) error
}

type counters struct {
	processed atomic.Int64
	failed    atomic.Int64
}

// InMemoryWorker implements Worker.
type InMemoryWorker struct {
	queue     Queue
	analyzer  Analyzer
	recorder  Recorder
	name      string
	onFailure FailureHandler
	counters  *counters

	stopOnce sync.Once
	shutdown chan struct{}
	done     chan struct{}

	logger logger.Logger
}

// NewInMemoryWorker creates a new worker with configuration options.
func NewInMemoryWorker(q Queue, analyzer Analyzer, recorder Recorder, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:    q,
		analyzer: analyzer,
		recorder: recorder,
		name:     "worker",
		counters: &counters{},
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
		logger:   logger.Get().Named("worker"),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.name != "worker" {
		w.logger = w.logger.Named(w.name)
	}
	return w
}

// Run starts the worker loop.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	ch := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case s, ok := <-ch:
			if !ok {
				return
			}
			if err := w.process(ctx, s); err != nil {
				w.counters.failed.Add(1)
				w.logger.Error(ctx, "error processing submission",
					logger.String("submission_id", s.SubmissionID),
					logger.String("team_member", s.TeamMember),
					logger.Error(err),
				)
				if w.onFailure != nil {
					w.onFailure(ctx, s, err)
				}
				continue
			}
			w.counters.processed.Add(1)
		}
	}
}

// Shutdown stops the worker and waits for it to finish.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	w.stop()
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

func (w *InMemoryWorker) stop() {
	w.stopOnce.Do(func() { close(w.shutdown) })
}

// process analyzes one submission and hands it to the recorder.
func (w *InMemoryWorker) process(ctx context.Context, s model.Submission) error {
	start := time.Now()
	defer func() {
		metrics.RecordWorkerProcessingLatency(float64(time.Since(start).Milliseconds()))
	}()

	analysis, err := w.analyzer.Analyze(ctx, s.Text)
	if err != nil {
		metrics.RecordWorkerError("analyze")
		metrics.RecordSubmission("analysis_failed")
		return fmt.Errorf("analyze submission %s: %w", s.SubmissionID, err)
	}
	if err := w.recorder.Record(ctx, s, analysis); err != nil {
		metrics.RecordWorkerError("record")
		metrics.RecordSubmission("record_failed")
		return fmt.Errorf("record submission %s: %w", s.SubmissionID, err)
	}
	metrics.RecordSubmission("processed")
	return nil
}

// Pool manages multiple workers sharing one queue.
type Pool struct {
	workers  []*InMemoryWorker
	queue    Queue
	counters *counters

	stopOnce sync.Once
	shutdown chan struct{}

	logger logger.Logger
}

// NewPool creates a pool of workerCount workers. A count below 1 uses
// runtime.NumCPU().
func NewPool(workerCount int, q Queue, analyzer Analyzer, recorder Recorder, opts ...Option) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU()
	}
	p := &Pool{
		workers:  make([]*InMemoryWorker, workerCount),
		queue:    q,
		counters: &counters{},
		shutdown: make(chan struct{}),
		logger:   logger.Get().Named("worker-pool"),
	}
	for i := 0; i < workerCount; i++ {
		wopts := append([]Option{WithName("worker-" + strconv.Itoa(i))}, opts...)
		wopts = append(wopts, withCounters(p.counters))
		p.workers[i] = NewInMemoryWorker(q, analyzer, recorder, wopts...)
	}
	metrics.UpdateWorkerCount(workerCount)
	return p
}

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
	go p.startMetricsUpdater(ctx)
}

// Size returns the number of workers.
func (p *Pool) Size() int { return len(p.workers) }

// Processed returns how many submissions were recorded.
func (p *Pool) Processed() int64 { return p.counters.processed.Load() }

// Failed returns how many submissions could not be analyzed or recorded.
func (p *Pool) Failed() int64 { return p.counters.failed.Load() }

func (p *Pool) startMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(metricsUpdateInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-p.shutdown:
			return
		case <-ticker.C:
			updateRuntimeMetrics()
		}
	}
}

func updateRuntimeMetrics() {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	metrics.UpdateSystemMemoryUsage(ms.Alloc)
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())
	if ms.NumGC > 0 {
		last := ms.PauseNs[(ms.NumGC+255)%256]
		metrics.RecordSystemGCPauseTime(float64(last) / float64(time.Millisecond))
	}
}

// Stop signals every worker and waits briefly for each.
func (p *Pool) Stop() {
	p.stopOnce.Do(func() { close(p.shutdown) })
	for _, w := range p.workers {
		w.stop()
	}
	for _, w := range p.workers {
		select {
		case <-w.done:
		case <-time.After(workerShutdownTimeout):
		}
	}
}

// Shutdown closes the queue, lets workers drain what is left, and waits
// for them until ctx or the pool timeout ends.
func (p *Pool) Shutdown(ctx context.Context) error {
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}
	p.stopOnce.Do(func() { close(p.shutdown) })

	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	for i, w := range p.workers {
		select {
		case <-w.done:
		case <-shutdownCtx.Done():
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
			for _, w := range p.workers {
				w.stop()
			}
			return fmt.Errorf("worker pool shutdown: %w", shutdownCtx.Err())
		}
	}
	return nil
}
