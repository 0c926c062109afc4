// Package service wires storage, the submission pipeline and the analyses
// into the operations served by the HTTP API, the MCP server and the CLI.
package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/okian/pragati/internal/adapters/analyzer"
	"github.com/okian/pragati/internal/adapters/embedding"
	"github.com/okian/pragati/internal/adapters/mq/queue"
	"github.com/okian/pragati/internal/adapters/mq/worker"
	"github.com/okian/pragati/internal/adapters/repository"
	"github.com/okian/pragati/internal/domain/dedupe"
	"github.com/okian/pragati/internal/domain/fields"
	"github.com/okian/pragati/internal/domain/keywords"
	"github.com/okian/pragati/internal/domain/members"
	"github.com/okian/pragati/internal/domain/model"
	"github.com/okian/pragati/internal/domain/periods"
	"github.com/okian/pragati/internal/domain/scoring"
	"github.com/okian/pragati/internal/domain/similarity"
	"github.com/okian/pragati/internal/domain/textproc"
	"github.com/okian/pragati/internal/domain/trends"
	"github.com/okian/pragati/internal/domain/types"
	"github.com/okian/pragati/pkg/logger"
	"github.com/okian/pragati/pkg/metrics"
)

// Submission text bounds, in characters.
const (
	MinTextLength = 10
	MaxTextLength = 2000
)

const stopTimeout = 10 * time.Second

// Service implements the operations of the update analysis service.
type Service struct {
	mu sync.RWMutex

	// Core components
	store      repository.Store
	deduper    dedupe.Deduper
	queue      *queue.InMemoryQueue
	pool       *worker.Pool
	analyzer   worker.Analyzer
	embedder   similarity.Embedder
	cache      similarity.Cache
	normalizer *fields.Normalizer
	tokenizer  *textproc.Tokenizer
	keywords   *keywords.Analyzer
	detector   *similarity.Detector

	// Configuration
	workerCount    int
	queueSize      int
	dedupeSize     int
	concurrency    int
	minOccurrences int
	lookbackDays   int
	stallThreshold float64
	now            func() time.Time

	// State
	started bool

	logger logger.Logger
}

// New constructs a Service. Without options it keeps data in memory,
// analyzes submissions heuristically and embeds text lexically, so it runs
// with no external services.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:    runtime.NumCPU(),
		queueSize:      1024,
		dedupeSize:     50000,
		concurrency:    8,
		minOccurrences: 2,
		lookbackDays:   periods.DefaultLookbackDays,
		stallThreshold: similarity.DefaultThreshold,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	if s.store == nil {
		s.store = repository.NewMemoryStore()
	}
	if s.analyzer == nil {
		s.analyzer = analyzer.NewHeuristicAnalyzer()
	}
	s.normalizer = fields.New(fields.WithLogger(s.logger.Named("fields")))
	s.tokenizer = textproc.New(textproc.WithLogger(s.logger.Named("textproc")))
	if s.embedder == nil {
		s.embedder = embedding.NewLexicalEmbedder(s.tokenizer, 0)
	}
	if s.cache == nil {
		s.cache = embedding.NewMemoryCache()
	}
	s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))
	s.keywords = keywords.New(
		keywords.WithTokenizer(s.tokenizer),
		keywords.WithMinOccurrences(s.minOccurrences),
		keywords.WithConcurrency(s.concurrency),
		keywords.WithLogger(s.logger.Named("keywords")),
	)
	s.detector = similarity.NewDetector(s.embedder,
		similarity.WithCache(s.cache),
		similarity.WithConcurrency(s.concurrency),
		similarity.WithLogger(s.logger.Named("similarity")),
	)
	return s
}

// Start creates the submission queue and starts the workers.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	s.logger.Info(ctx, "starting update analysis service...")

	s.queue = queue.NewInMemoryQueue(queue.WithCapacity(s.queueSize))
	s.pool = worker.NewPool(s.workerCount, s.queue, s.analyzer, s,
		worker.WithFailureHandler(s.onFailure))
	s.pool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "update analysis service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
		logger.Bool("tokenizerDegraded", s.tokenizer.Degraded()),
	)
	return nil
}

// Stop drains the queue, stops the workers and closes the store.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx := context.Background()
	if s.started {
		s.logger.Info(ctx, "stopping update analysis service...")
		shutdownCtx, cancel := context.WithTimeout(ctx, stopTimeout)
		if err := s.pool.Shutdown(shutdownCtx); err != nil {
			s.logger.Warn(ctx, "worker pool did not drain", logger.Error(err))
		}
		cancel()
		s.started = false
	}
	if err := s.store.Close(); err != nil {
		s.logger.Error(ctx, "error closing store", logger.Error(err))
	}
	s.logger.Info(ctx, "update analysis service stopped")
}

// Submit validates an update and queues it for analysis. A submission id
// seen before is acknowledged as a duplicate and not queued again.
func (s *Service) Submit(ctx context.Context, req types.SubmitRequest) (types.SubmitResponse, error) {
	canonical, _, _, err := members.ParseName(req.TeamMember)
	if err != nil {
		metrics.RecordSubmission("rejected")
		return types.SubmitResponse{}, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	text := strings.TrimSpace(req.Text)
	if n := utf8.RuneCountInString(text); n < MinTextLength || n > MaxTextLength {
		metrics.RecordSubmission("rejected")
		return types.SubmitResponse{}, fmt.Errorf("%w: update text must be %d to %d characters, got %d",
			ErrInvalidRequest, MinTextLength, MaxTextLength, n)
	}

	id := strings.TrimSpace(req.SubmissionID)
	if id == "" {
		id = uuid.NewString()
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return types.SubmitResponse{}, ErrNotStarted
	}

	if s.deduper.SeenAndRecord(ctx, id) {
		metrics.RecordSubmission("duplicate")
		s.logger.Debug(ctx, "duplicate submission", logger.String("submission_id", id))
		return types.SubmitResponse{SubmissionID: id, Status: "duplicate", Duplicate: true}, nil
	}

	sub := model.Submission{SubmissionID: id, TeamMember: canonical, Text: text, ReceivedAt: s.now().UTC()}
	if err := s.queue.Enqueue(ctx, sub); err != nil {
		s.deduper.Unrecord(ctx, id)
		switch {
		case errors.Is(err, queue.ErrFull):
			metrics.RecordSubmission("backpressure")
			return types.SubmitResponse{}, ErrBackpressure
		case errors.Is(err, queue.ErrClosed):
			return types.SubmitResponse{}, ErrNotStarted
		default:
			return types.SubmitResponse{}, fmt.Errorf("enqueue submission %s: %w", id, err)
		}
	}
	metrics.RecordSubmission("accepted")
	return types.SubmitResponse{SubmissionID: id, Status: "accepted"}, nil
}

// Record stores an analyzed submission, creating its member on first sight.
// The workers call it.
func (s *Service) Record(ctx context.Context, sub model.Submission, a model.Analysis) error {
	canonical, _, role, err := members.ParseName(sub.TeamMember)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	m, created, err := s.store.EnsureMember(ctx, canonical, role, members.DepartmentFromRole(role))
	if err != nil {
		return fmt.Errorf("ensure member %q: %w", canonical, err)
	}
	if created {
		s.logger.Info(ctx, "created team member",
			logger.String("member", m.Name), logger.String("department", m.Department))
	}

	rec := model.UpdateRecord{
		MemberID:          m.ID,
		Timestamp:         sub.ReceivedAt,
		Text:              sub.Text,
		CompletedTasks:    model.ListField(a.CompletedTasks...),
		ProjectProgress:   model.ListField(a.ProjectProgress...),
		GoalsStatus:       model.ListField(a.GoalsStatus...),
		Blockers:          model.ListField(a.Blockers...),
		NextWeekPlans:     model.ListField(a.NextWeekPlans...),
		ProductivityScore: model.Float(a.ProductivityScore),
	}
	id, err := s.store.SaveUpdate(ctx, rec)
	if err != nil {
		return fmt.Errorf("save update for %q: %w", canonical, err)
	}
	metrics.RecordUpdateIngested()
	s.logger.Debug(ctx, "stored update",
		logger.Int64("update_id", id),
		logger.String("member", m.Name),
		logger.String("submission_id", sub.SubmissionID),
	)
	return nil
}

// onFailure forgets a failed submission id so the caller may resubmit it.
func (s *Service) onFailure(ctx context.Context, sub model.Submission, _ error) {
	s.deduper.Unrecord(ctx, sub.SubmissionID)
}

// Ratings scores and tiers every member with updates in the period
// (30d, 90d, 180d or 365d).
func (s *Service) Ratings(ctx context.Context, period string) (model.PerformanceReport, error) {
	start := time.Now()
	now := s.now()
	w, err := periods.Rating(period, now)
	if err != nil {
		return model.PerformanceReport{}, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	groups, err := s.load(ctx, repository.Filter{Since: w.Start, Until: w.End})
	if err != nil {
		return model.PerformanceReport{}, s.internal(ctx, "ratings", w, err)
	}

	scored := make([]scoring.Scored, 0, len(groups))
	for _, g := range groups {
		if sc, ok := scoring.Evaluate(g.Member, g.Updates, w.Start, now); ok {
			scored = append(scored, sc)
		}
	}
	report := scoring.ClassifyTiers(scored, w.Label())
	metrics.UpdateMembersRanked(report.TotalEmployees)
	metrics.RecordAnalysis("ratings", float64(time.Since(start).Milliseconds()))
	return report, nil
}

// ProductivityTrends returns daily productivity per department over the
// time range (week, month, quarter or year). department "all" or empty
// includes every department.
func (s *Service) ProductivityTrends(ctx context.Context, timeRange, department string) ([]model.TrendPoint, error) {
	start := time.Now()
	w, err := periods.Trend(timeRange, s.now())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	ups, dir, err := s.snapshot(ctx, repository.Filter{Since: w.Start, Until: w.End})
	if err != nil {
		return nil, s.internal(ctx, "trends", w, err)
	}
	out := trends.ProductivityTrend(ups, dir, department)
	metrics.RecordAnalysis("trends", float64(time.Since(start).Milliseconds()))
	return out, nil
}

// DepartmentMetrics summarizes every update by department.
func (s *Service) DepartmentMetrics(ctx context.Context) ([]model.DepartmentSummary, error) {
	start := time.Now()
	ups, dir, err := s.snapshot(ctx, repository.Filter{})
	if err != nil {
		return nil, s.internal(ctx, "departments", periods.Window{}, err)
	}
	out := trends.DepartmentSummaries(ups, dir)
	metrics.RecordAnalysis("departments", float64(time.Since(start).Milliseconds()))
	return out, nil
}

// Departments lists the distinct departments of all members, sorted.
func (s *Service) Departments(ctx context.Context) ([]string, error) {
	ms, err := s.store.ListMembers(ctx)
	if err != nil {
		return nil, s.internal(ctx, "departments_list", periods.Window{}, err)
	}
	return trends.Departments(ms), nil
}

// Velocity returns weekly planned and completed work, newest week first.
func (s *Service) Velocity(ctx context.Context, department string) ([]model.VelocityPoint, error) {
	start := time.Now()
	ups, dir, err := s.snapshot(ctx, repository.Filter{})
	if err != nil {
		return nil, s.internal(ctx, "velocity", periods.Window{}, err)
	}
	out := trends.Velocity(ups, dir, department)
	metrics.RecordAnalysis("velocity", float64(time.Since(start).Milliseconds()))
	return out, nil
}

// Overview summarizes the team over the period (7d, 30d, 90d or 180d).
func (s *Service) Overview(ctx context.Context, period string) (model.Overview, error) {
	start := time.Now()
	w, err := periods.Overview(period, s.now())
	if err != nil {
		return model.Overview{}, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	ups, dir, err := s.snapshot(ctx, repository.Filter{Since: w.Start, Until: w.End})
	if err != nil {
		return model.Overview{}, s.internal(ctx, "overview", w, err)
	}
	out := trends.Overview(ups, dir)
	metrics.RecordAnalysis("overview", float64(time.Since(start).Milliseconds()))
	return out, nil
}

// RepeatedKeywords flags members who keep writing about the same things in
// consecutive updates over the last days (0 means the configured default).
func (s *Service) RepeatedKeywords(ctx context.Context, days int) (types.KeywordReport, error) {
	start := time.Now()
	w, err := s.lookback(days)
	if err != nil {
		return types.KeywordReport{}, err
	}
	groups, err := s.load(ctx, repository.Filter{Since: w.Start, Until: w.End})
	if err != nil {
		return types.KeywordReport{}, s.internal(ctx, "keywords", w, err)
	}
	results, err := s.keywords.Analyze(ctx, groups)
	if err != nil {
		metrics.RecordAnalysisError("keywords")
		return types.KeywordReport{}, s.internal(ctx, "keywords", w, err)
	}

	total := 0
	for _, r := range results {
		total += len(r.Keywords)
	}
	metrics.RecordRepeatedKeywords(total)
	metrics.RecordAnalysis("keywords", float64(time.Since(start).Milliseconds()))
	return types.KeywordReport{
		AnalysisPeriod: w.Label(),
		MinOccurrences: s.keywords.MinOccurrences(),
		Degraded:       s.tokenizer.Degraded(),
		Results:        results,
	}, nil
}

// Stalls finds consecutive updates that say nearly the same thing while
// productivity does not improve. A nil threshold uses the configured one.
func (s *Service) Stalls(ctx context.Context, days int, threshold *float64) (model.StallReport, error) {
	start := time.Now()
	w, err := s.lookback(days)
	if err != nil {
		return model.StallReport{}, err
	}
	t := s.stallThreshold
	if threshold != nil {
		t = *threshold
	}
	if math.IsNaN(t) || t < -1 || t > 1 {
		return model.StallReport{}, fmt.Errorf("%w: threshold %v outside [-1, 1]", ErrInvalidRequest, t)
	}
	groups, err := s.load(ctx, repository.Filter{Since: w.Start, Until: w.End})
	if err != nil {
		return model.StallReport{}, s.internal(ctx, "stalls", w, err)
	}
	results, err := s.detector.Detect(ctx, groups, t)
	if err != nil {
		metrics.RecordAnalysisError("stalls")
		return model.StallReport{}, s.internal(ctx, "stalls", w, err)
	}

	total := 0
	for _, r := range results {
		total += len(r.StalledPeriods)
	}
	metrics.RecordStalledPeriods(total)
	metrics.RecordAnalysis("stalls", float64(time.Since(start).Milliseconds()))
	return similarity.Report(w.Label(), t, results), nil
}

// History returns stored updates newest first. limit 0 returns all.
func (s *Service) History(ctx context.Context, limit int) (types.History, error) {
	if limit < 0 {
		return types.History{}, fmt.Errorf("%w: negative limit", ErrInvalidRequest)
	}
	ups, dir, err := s.snapshot(ctx, repository.Filter{})
	if err != nil {
		return types.History{}, s.internal(ctx, "history", periods.Window{}, err)
	}

	out := types.History{History: make([]types.HistoryEntry, 0, len(ups))}
	for i := len(ups) - 1; i >= 0; i-- {
		if limit > 0 && len(out.History) == limit {
			break
		}
		u := ups[i]
		out.History = append(out.History, types.HistoryEntry{
			ID:         u.ID,
			Timestamp:  u.Timestamp,
			TeamMember: dir[u.MemberID].Name,
			Update:     u.Text,
			Analysis: model.Analysis{
				CompletedTasks:    u.CompletedTasks,
				ProjectProgress:   u.ProjectProgress,
				GoalsStatus:       u.GoalsStatus,
				Blockers:          u.Blockers,
				NextWeekPlans:     u.NextWeekPlans,
				ProductivityScore: u.Score(),
			},
		})
	}
	return out, nil
}

// GetStats reports the submission pipeline state.
func (s *Service) GetStats(ctx context.Context) types.Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := types.Stats{
		QueueCapacity: s.queueSize,
		Workers:       s.workerCount,
		DedupeSize:    int(s.deduper.Size()),
	}
	if s.started {
		st.QueueLen = s.queue.Len(ctx)
		st.Processed = s.pool.Processed()
		st.Failed = s.pool.Failed()
	}
	if ms, err := s.store.ListMembers(ctx); err == nil {
		st.Members = len(ms)
	}
	metrics.UpdateWorkerCount(s.workerCount)
	return st
}

// Store exposes the underlying store, used by seeding.
func (s *Service) Store() repository.Store { return s.store }

func (s *Service) lookback(days int) (periods.Window, error) {
	if days == 0 {
		days = s.lookbackDays
	}
	w, err := periods.Lookback(days, s.now())
	if err != nil {
		return periods.Window{}, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	return w, nil
}

// snapshot loads and normalizes the matching updates plus the member directory.
func (s *Service) snapshot(ctx context.Context, f repository.Filter) ([]model.Update, trends.Directory, error) {
	recs, err := s.store.ListUpdates(ctx, f)
	if err != nil {
		return nil, nil, fmt.Errorf("list updates: %w", err)
	}
	ms, err := s.store.ListMembers(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("list members: %w", err)
	}
	return s.normalizer.ResolveAll(ctx, recs), trends.NewDirectory(ms), nil
}

// load groups the matching updates by member, members in id order.
func (s *Service) load(ctx context.Context, f repository.Filter) ([]model.MemberUpdates, error) {
	ups, dir, err := s.snapshot(ctx, f)
	if err != nil {
		return nil, err
	}
	byMember := make(map[int64][]model.Update)
	for _, u := range ups {
		if _, ok := dir[u.MemberID]; ok {
			byMember[u.MemberID] = append(byMember[u.MemberID], u)
		}
	}
	ids := make([]int64, 0, len(byMember))
	for id := range byMember {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := make([]model.MemberUpdates, 0, len(ids))
	for _, id := range ids {
		out = append(out, model.MemberUpdates{Member: dir[id], Updates: byMember[id]})
	}
	return out, nil
}

// internal logs an unexpected failure with its analysis and window.
func (s *Service) internal(ctx context.Context, analysis string, w periods.Window, err error) error {
	metrics.RecordAnalysisError(analysis)
	lf := []logger.Field{logger.String("analysis", analysis), logger.Error(err)}
	if w.Days > 0 {
		lf = append(lf, logger.String("window", w.Label()), logger.Time("since", w.Start))
	}
	s.logger.Error(ctx, "analysis failed", lf...)
	return fmt.Errorf("%s: %w", analysis, err)
}
