// Package service provides the use cases behind the HTTP API and the CLI:
// analyzing uploads, storing matches and comparing them.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/okian/smtgolf/internal/adapters/export"
	"github.com/okian/smtgolf/internal/adapters/repository"
	"github.com/okian/smtgolf/internal/domain/compare"
	"github.com/okian/smtgolf/internal/domain/ingest"
	"github.com/okian/smtgolf/internal/domain/model"
	"github.com/okian/smtgolf/internal/domain/summary"
	"github.com/okian/smtgolf/internal/domain/timing"
	"github.com/okian/smtgolf/pkg/logger"
	"github.com/okian/smtgolf/pkg/metrics"
)

// Upload modes used in metrics.
const (
	modeAnalyze = "analyze"
	modePersist = "persist"
)

// AnalyzeResult is the outcome of running the pipeline over one CSV export.
type AnalyzeResult struct {
	Success        bool                `json:"success"`
	TotalRows      int                 `json:"totalRows"`
	CompletedShots int                 `json:"completedShots"`
	DiscardedShots int                 `json:"discardedShots"`
	Warnings       int                 `json:"warnings"`
	Issues         []ingest.Issue      `json:"issues,omitempty"`
	Golfers        []string            `json:"golfers"`
	Stats          []model.GolferStats `json:"stats"`
}

// UploadResult is an AnalyzeResult for a stored match.
type UploadResult struct {
	MatchNumber string `json:"matchNumber"`
	AnalyzeResult
}

// MatchStats is a stored match with statistics recomputed from its shots.
type MatchStats struct {
	MatchNumber string              `json:"matchNumber"`
	Description string              `json:"description"`
	CreatedAt   time.Time           `json:"createdAt"`
	Stats       []model.GolferStats `json:"stats"`
}

// MatchSide is one side of a comparison.
type MatchSide struct {
	MatchNumber string              `json:"matchNumber"`
	Description string              `json:"description"`
	Stats       []model.GolferStats `json:"stats"`
}

// ComparisonResult carries both matches and their position-matched diff.
type ComparisonResult struct {
	MatchA     MatchSide        `json:"matchA"`
	MatchB     MatchSide        `json:"matchB"`
	Comparison model.Comparison `json:"comparison"`
}

// Service implements the shot-timing use cases.
type Service struct {
	mu sync.RWMutex

	store      repository.Store
	aggregator *timing.Aggregator
	comparator *compare.Comparator

	// Configuration
	driver         string
	dsn            string
	sequentialGaps bool
	outlierFactor  float64
	tieThreshold   float64

	// State
	started  bool
	ownStore bool

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithStore injects an already opened store. The service does not close it.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithDatabase sets the driver and DSN opened by Start when no store is
// injected.
func WithDatabase(driver, dsn string) Option {
	return func(s *Service) {
		if driver != "" {
			s.driver = driver
		}
		if dsn != "" {
			s.dsn = dsn
		}
	}
}

// WithSequentialGaps attaches field-to-field gaps to every shot.
func WithSequentialGaps(enabled bool) Option {
	return func(s *Service) {
		s.sequentialGaps = enabled
	}
}

// WithOutlierFactor sets the comparison outlier multiplier.
func WithOutlierFactor(factor float64) Option {
	return func(s *Service) {
		if factor > 0 {
			s.outlierFactor = factor
		}
	}
}

// WithTieThreshold sets the comparison dead zone in seconds.
func WithTieThreshold(seconds float64) Option {
	return func(s *Service) {
		if seconds >= 0 {
			s.tieThreshold = seconds
		}
	}
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		driver:        repository.DriverSQLite,
		dsn:           "file:smtgolf.db?cache=shared",
		outlierFactor: 2.0,
		tieThreshold:  0.005,
	}
	for _, opt := range opts {
		opt(s)
	}

	var aggOpts []timing.Option
	if s.sequentialGaps {
		aggOpts = append(aggOpts, timing.WithSequentialGaps())
	}
	s.aggregator = timing.NewAggregator(aggOpts...)
	s.comparator = compare.NewComparator(
		compare.WithOutlierFactor(s.outlierFactor),
		compare.WithTieThreshold(s.tieThreshold),
	)
	return s
}

// Start opens the store unless one was injected.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}

	if s.store == nil {
		store, err := repository.Open(ctx, s.driver, s.dsn)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		s.store = store
		s.ownStore = true
		s.logger.Info(ctx, "store opened", logger.String("driver", s.driver))
	}

	s.started = true
	s.refreshStoredMatches(ctx)
	s.logger.Info(ctx, "shot service started",
		logger.Any("sequentialGaps", s.sequentialGaps),
		logger.Float64("outlierFactor", s.outlierFactor),
		logger.Float64("tieThreshold", s.tieThreshold),
	)
	return nil
}

// Stop closes a store opened by Start.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	if s.ownStore && s.store != nil {
		if err := s.store.Close(); err != nil {
			s.logger.Warn(context.Background(), "closing store failed", logger.Error(err))
		}
		s.store = nil
		s.ownStore = false
	}
	s.started = false
	s.logger.Info(context.Background(), "shot service stopped")
}

func (s *Service) storeOrErr() (repository.Store, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started || s.store == nil {
		return nil, ErrNotStarted
	}
	return s.store, nil
}

func (s *Service) log() logger.Logger {
	if s.logger == nil {
		return logger.Get()
	}
	return s.logger
}

// Analyze runs the pipeline over a CSV export without storing anything.
func (s *Service) Analyze(ctx context.Context, r io.Reader) (AnalyzeResult, error) {
	if r == nil {
		return AnalyzeResult{}, ErrMissingFile
	}
	res, _, err := s.pipeline(ctx, r)
	if err != nil {
		metrics.RecordUpload(modeAnalyze, "error")
		return AnalyzeResult{}, err
	}
	metrics.RecordUpload(modeAnalyze, "ok")
	return res, nil
}

// Upload runs the pipeline and replaces the shots stored under matchNumber.
func (s *Service) Upload(ctx context.Context, matchNumber, description string, r io.Reader) (UploadResult, error) {
	matchNumber = strings.TrimSpace(matchNumber)
	switch {
	case r == nil:
		return UploadResult{}, ErrMissingFile
	case matchNumber == "":
		return UploadResult{}, ErrMissingMatchNumber
	}
	store, err := s.storeOrErr()
	if err != nil {
		return UploadResult{}, err
	}

	ctx = logger.ContextWith(ctx, logger.String("match", matchNumber))
	res, shots, err := s.pipeline(ctx, r)
	if err != nil {
		metrics.RecordUpload(modePersist, "error")
		return UploadResult{}, err
	}

	if _, err := store.ReplaceShots(ctx, matchNumber, strings.TrimSpace(description), shots); err != nil {
		metrics.RecordUpload(modePersist, "error")
		return UploadResult{}, fmt.Errorf("store match %s: %w", matchNumber, err)
	}
	metrics.RecordUpload(modePersist, "ok")
	s.refreshStoredMatches(ctx)

	s.log().Info(ctx, "match stored",
		logger.Int("rows", res.TotalRows),
		logger.Int("shots", res.CompletedShots),
		logger.Int("discarded", res.DiscardedShots),
	)
	return UploadResult{MatchNumber: matchNumber, AnalyzeResult: res}, nil
}

// pipeline parses, aggregates and summarizes one export.
func (s *Service) pipeline(ctx context.Context, r io.Reader) (AnalyzeResult, []model.Shot, error) {
	start := time.Now()

	read, err := ingest.ReadRows(r)
	if err != nil {
		return AnalyzeResult{}, nil, fmt.Errorf("%w: %w", ErrBadRequest, err)
	}
	for _, issue := range read.Issues {
		metrics.RecordParseWarning(issue.Column)
		s.log().Warn(ctx, "non-numeric measurement treated as null",
			logger.Int("line", issue.Line),
			logger.String("column", issue.Column),
			logger.String("value", issue.Value),
		)
	}

	agg := s.aggregator.Aggregate(read.Rows)
	stats := summary.Summarize(agg.Shots)

	metrics.RecordRowsParsed(len(read.Rows))
	metrics.RecordShots(len(agg.Shots), agg.Discarded)
	metrics.RecordPipelineDuration(float64(time.Since(start).Microseconds()) / 1000)

	return AnalyzeResult{
		Success:        true,
		TotalRows:      len(read.Rows),
		CompletedShots: len(agg.Shots),
		DiscardedShots: agg.Discarded,
		Warnings:       len(read.Issues),
		Issues:         read.Issues,
		Golfers:        golferNames(stats),
		Stats:          stats,
	}, agg.Shots, nil
}

// GetMatch loads a stored match and summarizes its shots.
func (s *Service) GetMatch(ctx context.Context, matchNumber string) (MatchStats, error) {
	if strings.TrimSpace(matchNumber) == "" {
		return MatchStats{}, ErrMissingMatchNumber
	}
	store, err := s.storeOrErr()
	if err != nil {
		return MatchStats{}, err
	}
	m, shots, err := store.GetMatch(ctx, matchNumber)
	if err != nil {
		return MatchStats{}, err
	}
	return MatchStats{
		MatchNumber: m.MatchNumber,
		Description: m.Description,
		CreatedAt:   m.CreatedAt,
		Stats:       s.summarize(shots),
	}, nil
}

// summarize recomputes statistics for stored shots. Gaps are derived from
// latencies, so they are attached here rather than stored.
func (s *Service) summarize(shots []model.Shot) []model.GolferStats {
	if s.sequentialGaps {
		for i := range shots {
			gaps := timing.SequentialGaps(shots[i].Latencies)
			shots[i].Gaps = &gaps
		}
	}
	return summary.Summarize(shots)
}

// ListMatches returns all stored matches, newest first.
func (s *Service) ListMatches(ctx context.Context) ([]model.Match, error) {
	store, err := s.storeOrErr()
	if err != nil {
		return nil, err
	}
	return store.ListMatches(ctx)
}

// DeleteMatch removes a stored match and its shots.
func (s *Service) DeleteMatch(ctx context.Context, matchNumber string) error {
	if strings.TrimSpace(matchNumber) == "" {
		return ErrMissingMatchNumber
	}
	store, err := s.storeOrErr()
	if err != nil {
		return err
	}
	if err := store.DeleteMatch(ctx, matchNumber); err != nil {
		return err
	}
	s.refreshStoredMatches(ctx)
	s.log().Info(logger.ContextWith(ctx, logger.String("match", matchNumber)), "match deleted")
	return nil
}

// Compare loads two stored matches and diffs them position by position.
func (s *Service) Compare(ctx context.Context, matchA, matchB string) (ComparisonResult, error) {
	if strings.TrimSpace(matchA) == "" || strings.TrimSpace(matchB) == "" {
		return ComparisonResult{}, ErrMissingMatchNumber
	}
	a, err := s.GetMatch(ctx, matchA)
	if err != nil {
		return ComparisonResult{}, err
	}
	b, err := s.GetMatch(ctx, matchB)
	if err != nil {
		return ComparisonResult{}, err
	}

	cmp := s.comparator.Compare(a.Stats, b.Stats)
	metrics.RecordComparison(cmp.OutlierCount)
	return ComparisonResult{
		MatchA:     MatchSide{MatchNumber: a.MatchNumber, Description: a.Description, Stats: a.Stats},
		MatchB:     MatchSide{MatchNumber: b.MatchNumber, Description: b.Description, Stats: b.Stats},
		Comparison: cmp,
	}, nil
}

// ExportMatch writes the match workbook to w.
func (s *Service) ExportMatch(ctx context.Context, matchNumber string, w io.Writer) error {
	m, err := s.GetMatch(ctx, matchNumber)
	if err != nil {
		return err
	}
	if err := export.WriteMatch(w, m.MatchNumber, m.Stats); err != nil {
		return fmt.Errorf("export match %s: %w", matchNumber, err)
	}
	metrics.RecordExport("match")
	return nil
}

// ExportComparison writes the comparison workbook to w.
func (s *Service) ExportComparison(ctx context.Context, matchA, matchB string, w io.Writer) error {
	res, err := s.Compare(ctx, matchA, matchB)
	if err != nil {
		return err
	}
	if err := export.WriteComparison(w, matchA, matchB, res.Comparison); err != nil {
		return fmt.Errorf("export comparison: %w", err)
	}
	metrics.RecordExport("comparison")
	return nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats(ctx context.Context) map[string]any {
	s.mu.RLock()
	stats := map[string]any{
		"started":        s.started,
		"driver":         s.driver,
		"sequentialGaps": s.sequentialGaps,
	}
	store := s.store
	s.mu.RUnlock()

	if store != nil {
		if n, err := store.CountMatches(ctx); err == nil {
			stats["matches"] = n
			metrics.UpdateStoredMatches(n)
		}
	}
	return stats
}

func (s *Service) refreshStoredMatches(ctx context.Context) {
	if s.store == nil {
		return
	}
	n, err := s.store.CountMatches(ctx)
	if err != nil {
		s.log().Warn(ctx, "counting matches failed", logger.Error(err))
		return
	}
	metrics.UpdateStoredMatches(n)
}

func golferNames(stats []model.GolferStats) []string {
	names := make([]string, len(stats))
	for i, g := range stats {
		names[i] = g.Golfer
	}
	return names
}

// IsClientError reports whether err was caused by the caller's input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrMissingFile) ||
		errors.Is(err, ErrMissingMatchNumber) ||
		errors.Is(err, ErrBadRequest)
}
