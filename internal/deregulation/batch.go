package deregulation

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/JaimeStill/proctor/internal/ecfr"
)

// DefaultBatchConcurrency bounds simultaneous assessments when no
// concurrency is configured.
const DefaultBatchConcurrency = 10

// AgencySource lists the agencies eligible for classification.
type AgencySource interface {
	Agencies(ctx context.Context) ([]ecfr.Agency, error)
}

// Assessor computes one agency's assessment.
type Assessor interface {
	Configured() bool
	Assess(ctx context.Context, agency *ecfr.Agency) (*UpsertCommand, error)
}

// AssessmentWriter persists assessments through the cache. Writes use an
// isolated database session so concurrent workers never share one.
type AssessmentWriter interface {
	UpsertIsolated(ctx context.Context, cmd UpsertCommand) (*Assessment, error)
}

// BatchResult summarizes one batch run. Total counts only the agencies
// admitted to the run; Succeeded, Skipped, and Failed partition it.
type BatchResult struct {
	Total     int           `json:"total"`
	Succeeded int           `json:"succeeded"`
	Skipped   int           `json:"skipped"`
	Failed    int           `json:"failed"`
	Duration  time.Duration `json:"duration"`
}

// BatchJob classifies every agency with CFR references under a bounded
// concurrency limit. Individual failures are recorded per agency and
// never abort the run.
type BatchJob struct {
	registry    AgencySource
	assessor    Assessor
	cache       AssessmentWriter
	concurrency int
	logger      *slog.Logger
}

// NewBatchJob creates a batch job. Concurrency values below one fall
// back to DefaultBatchConcurrency.
func NewBatchJob(
	registry AgencySource,
	assessor Assessor,
	cache AssessmentWriter,
	concurrency int,
	logger *slog.Logger,
) *BatchJob {
	if concurrency < 1 {
		concurrency = DefaultBatchConcurrency
	}

	return &BatchJob{
		registry:    registry,
		assessor:    assessor,
		cache:       cache,
		concurrency: concurrency,
		logger:      logger.With("system", "deregulation-batch"),
	}
}

// Run assesses all qualifying agencies, at most limit of them when
// limit is positive. Cancelling the context stops admitting new work;
// in-flight assessments finish on their own timeouts.
func (j *BatchJob) Run(ctx context.Context, limit int) (*BatchResult, error) {
	if !j.assessor.Configured() {
		return nil, ErrNotConfigured
	}

	agencies, err := j.registry.Agencies(ctx)
	if err != nil {
		return nil, fmt.Errorf("list agencies: %w", err)
	}

	var population []ecfr.Agency
	for _, a := range agencies {
		if a.HasReferences() {
			population = append(population, a)
		}
	}

	if limit > 0 && len(population) > limit {
		population = population[:limit]
	}

	j.logger.Info("batch started",
		"agencies", len(population),
		"concurrency", j.concurrency,
	)

	started := time.Now()

	var succeeded, skipped, failed atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(j.concurrency)

	for i := range population {
		agency := population[i]

		g.Go(func() error {
			if gctx.Err() != nil {
				failed.Add(1)
				return nil
			}

			if agency.Slug == "" {
				skipped.Add(1)
				return nil
			}

			if err := j.assess(gctx, &agency); err != nil {
				failed.Add(1)
				j.logger.Error("assessment failed",
					"agency", agency.Slug,
					"error", err,
				)
				return nil
			}

			succeeded.Add(1)
			return nil
		})
	}

	g.Wait()

	result := &BatchResult{
		Total:     len(population),
		Succeeded: int(succeeded.Load()),
		Skipped:   int(skipped.Load()),
		Failed:    int(failed.Load()),
		Duration:  time.Since(started),
	}

	j.logger.Info("batch finished",
		"total", result.Total,
		"succeeded", result.Succeeded,
		"skipped", result.Skipped,
		"failed", result.Failed,
		"duration", result.Duration,
	)

	return result, nil
}

func (j *BatchJob) assess(ctx context.Context, agency *ecfr.Agency) error {
	cmd, err := j.assessor.Assess(ctx, agency)
	if err != nil {
		return err
	}

	_, err = j.cache.UpsertIsolated(ctx, *cmd)
	return err
}
