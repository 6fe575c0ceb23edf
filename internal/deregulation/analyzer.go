package deregulation

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/JaimeStill/proctor/internal/ecfr"
)

// RevisionSource counts an agency's recent amendment activity.
type RevisionSource interface {
	RecentRevisionDates(ctx context.Context, agency *ecfr.Agency) ([]string, error)
}

// Analyzer computes a deregulation assessment for one agency: it counts
// recent amendment activity through the registry, asks the configured
// model for a narrative verdict, and fails closed to the revision-count
// heuristic when the model path breaks down.
type Analyzer struct {
	registry RevisionSource
	model    Model
	logger   *slog.Logger
}

// NewAnalyzer creates an Analyzer. A nil model leaves the analyzer
// unconfigured; Assess then returns ErrNotConfigured.
func NewAnalyzer(registry RevisionSource, model Model, logger *slog.Logger) *Analyzer {
	return &Analyzer{
		registry: registry,
		model:    model,
		logger:   logger.With("system", "deregulation"),
	}
}

// Configured reports whether a model is available for analysis.
func (a *Analyzer) Configured() bool {
	return a.model != nil
}

// Assess classifies one agency. Agencies with no amendment activity in
// the trailing 12 months are classified unlikely without consulting the
// model. Registry failures propagate; model failures degrade to the
// heuristic rather than failing the assessment.
func (a *Analyzer) Assess(ctx context.Context, agency *ecfr.Agency) (*UpsertCommand, error) {
	if !a.Configured() {
		return nil, ErrNotConfigured
	}

	dates, err := a.registry.RecentRevisionDates(ctx, agency)
	if err != nil {
		return nil, fmt.Errorf("count revisions for %s: %w", agency.Slug, err)
	}

	cmd := &UpsertCommand{
		AgencySlug:      agency.Slug,
		AgencyName:      agency.Name,
		RecentRevisions: len(dates),
	}

	if len(dates) == 0 {
		cmd.Likelihood = LikelihoodUnlikely
		cmd.Label = LabelUnlikely
		cmd.Analysis = "No revisions in last 12 months"
		return cmd, nil
	}

	prompt := buildPrompt(agency.Name, dates, len(agency.CFRReferences))

	raw, err := a.model.Analyze(ctx, prompt)
	if err != nil {
		a.logger.Warn("model analysis failed, using heuristic",
			"agency", agency.Slug,
			"error", err,
		)
		return a.heuristic(cmd), nil
	}

	verdict, err := ParseVerdict(raw)
	if err != nil {
		a.logger.Warn("model response unparseable, using heuristic",
			"agency", agency.Slug,
			"error", err,
		)
		return a.heuristic(cmd), nil
	}

	cmd.Likelihood = verdict.Likelihood
	cmd.Label = verdict.Likelihood.Label()
	cmd.Analysis = verdict.Explanation
	if cmd.Analysis == "" {
		cmd.Analysis = fmt.Sprintf("%d revisions in last 12 months", cmd.RecentRevisions)
	}
	cmd.FullAnalysis = &raw

	return cmd, nil
}

func (a *Analyzer) heuristic(cmd *UpsertCommand) *UpsertCommand {
	cmd.Likelihood, cmd.Label = heuristicClassify(cmd.RecentRevisions)
	cmd.Analysis = fmt.Sprintf(
		"%d revisions in last 12 months (model analysis unavailable)",
		cmd.RecentRevisions,
	)
	cmd.FullAnalysis = nil
	return cmd
}
