// Package pipeline orchestrates the analysis of one load-test run:
// decode -> aggregate -> evaluate -> assemble.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/perflens/perflens/internal/baseline"
	"github.com/perflens/perflens/internal/results"
	"github.com/perflens/perflens/internal/stats"
	"github.com/perflens/perflens/internal/summary"
)

const defaultWorkers = 4

// ErrNoInput is returned when AnalyzeFiles is called without any paths.
var ErrNoInput = errors.New("no input files given")

// Service runs the analysis pipeline. Each Analyze call is one independent,
// synchronous invocation: it runs to completion or failure, and the decoded
// sample sequence stays local to the call so it is reclaimable as soon as the
// call returns.
type Service interface {
	Start(ctx context.Context) error
	Stop() error
	Analyze(ctx context.Context, source string, data []byte) (*summary.RunSummary, error)
	AnalyzeFile(ctx context.Context, path string) (*summary.RunSummary, error)
	AnalyzeFiles(ctx context.Context, paths []string) ([]*summary.RunSummary, error)
}

// Config holds the pipeline configuration for a batch of runs.
type Config struct {
	// Baseline supplies the allow-list and thresholds; nil disables evaluation.
	Baseline *baseline.Config
	// Workers bounds concurrent file analyses in AnalyzeFiles.
	Workers int
}

type service struct {
	log       logrus.FieldLogger
	cfg       Config
	decoder   results.Decoder
	evaluator baseline.Evaluator
}

// NewService creates a new pipeline service.
func NewService(log logrus.FieldLogger, cfg Config) Service {
	if cfg.Workers <= 0 {
		cfg.Workers = defaultWorkers
	}

	return &service{
		log:       log.WithField("service", "pipeline"),
		cfg:       cfg,
		decoder:   results.NewDecoder(log),
		evaluator: baseline.NewEvaluator(log),
	}
}

func (s *service) Start(_ context.Context) error {
	s.log.Debug("pipeline service started")
	return nil
}

func (s *service) Stop() error {
	s.log.Debug("pipeline service stopped")
	return nil
}

// Analyze processes one complete run. Only a fatal input error propagates;
// malformed records and degraded fields are absorbed and counted.
func (s *service) Analyze(_ context.Context, source string, data []byte) (*summary.RunSummary, error) {
	start := time.Now()

	parsed, err := s.decoder.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", source, err)
	}

	labels := stats.AggregateByLabel(parsed.Samples)

	// The samples have served their purpose; drop the reference before
	// evaluation so a large run's raw records do not outlive aggregation.
	parsed.Samples = nil

	report := baseline.EvaluationReport{Results: map[string]baseline.CriterionResult{}}
	if s.cfg.Baseline != nil {
		report = s.evaluator.Evaluate(labels, s.cfg.Baseline.TestCases, s.cfg.Baseline.Thresholds)
	}

	run := summary.Assemble(source, parsed, labels, report)

	s.log.WithFields(logrus.Fields{
		"source":   source,
		"samples":  run.Aggregate.TotalCount,
		"labels":   len(run.Labels) - 1,
		"skipped":  run.Parse.SkippedRecords,
		"duration": time.Since(start),
	}).Info("run analyzed")

	return run, nil
}

// AnalyzeFile reads and analyzes a single result log from disk.
func (s *service) AnalyzeFile(ctx context.Context, path string) (*summary.RunSummary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	return s.Analyze(ctx, path, data)
}

// AnalyzeFiles analyzes several independent runs with a bounded worker pool.
// Results keep the order of the input paths. The first fatal error cancels
// the remaining work.
func (s *service) AnalyzeFiles(ctx context.Context, paths []string) ([]*summary.RunSummary, error) {
	if len(paths) == 0 {
		return nil, ErrNoInput
	}

	var (
		runs    = make([]*summary.RunSummary, len(paths))
		g, gctx = errgroup.WithContext(ctx)
	)

	g.SetLimit(s.cfg.Workers)

	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			run, err := s.AnalyzeFile(gctx, path)
			if err != nil {
				return err
			}

			runs[i] = run
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return runs, nil
}

var _ Service = (*service)(nil)
