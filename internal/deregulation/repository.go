package deregulation

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/JaimeStill/proctor/internal/ecfr"
	"github.com/JaimeStill/proctor/pkg/pagination"
	"github.com/JaimeStill/proctor/pkg/query"
	"github.com/JaimeStill/proctor/pkg/repository"
)

type repo struct {
	db         *sql.DB
	registry   *ecfr.Client
	analyzer   *Analyzer
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a deregulation repository implementing the System interface.
func New(
	db *sql.DB,
	registry *ecfr.Client,
	analyzer *Analyzer,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		registry:   registry,
		analyzer:   analyzer,
		logger:     logger.With("system", "deregulation"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Assessment], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "AgencyName", "AgencySlug")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count assessments: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanAssessment)
	if err != nil {
		return nil, fmt.Errorf("query assessments: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Get(ctx context.Context, agencySlug string) (*Assessment, error) {
	q, args := query.
		NewBuilder(projection, defaultSort).
		WhereEquals("AgencySlug", &agencySlug).
		Build()

	a, err := repository.QueryOne(ctx, r.db, q, args, scanAssessment)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, err)
	}

	return &a, nil
}

func (r *repo) Upsert(ctx context.Context, cmd UpsertCommand) (*Assessment, error) {
	return r.UpsertOn(ctx, r.db, cmd)
}

func (r *repo) UpsertOn(
	ctx context.Context,
	q repository.Querier,
	cmd UpsertCommand,
) (*Assessment, error) {
	upsertQ := `
		INSERT INTO deregulation_assessments(
			agency_slug, agency_name, likelihood, label,
			recent_revisions, analysis, full_analysis
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (agency_slug) DO UPDATE SET
			agency_name = EXCLUDED.agency_name,
			likelihood = EXCLUDED.likelihood,
			label = EXCLUDED.label,
			recent_revisions = EXCLUDED.recent_revisions,
			analysis = EXCLUDED.analysis,
			full_analysis = EXCLUDED.full_analysis,
			computed_at = NOW()
		RETURNING id, agency_slug, agency_name, likelihood, label,
				  recent_revisions, analysis, full_analysis, computed_at`

	upsertArgs := []any{
		cmd.AgencySlug,
		cmd.AgencyName,
		cmd.Likelihood,
		cmd.Label,
		cmd.RecentRevisions,
		cmd.Analysis,
		cmd.FullAnalysis,
	}

	a, err := repository.QueryOne(ctx, q, upsertQ, upsertArgs, scanAssessment)
	if err != nil {
		return nil, fmt.Errorf("upsert assessment for %s: %w", cmd.AgencySlug, err)
	}

	r.logger.Info("assessment cached",
		"agency", a.AgencySlug,
		"likelihood", a.Likelihood,
		"revisions", a.RecentRevisions,
	)
	return &a, nil
}

func (r *repo) UpsertIsolated(ctx context.Context, cmd UpsertCommand) (*Assessment, error) {
	conn, err := r.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("checkout connection: %w", err)
	}
	defer conn.Close()

	return r.UpsertOn(ctx, conn, cmd)
}

func (r *repo) Likelihood(
	ctx context.Context,
	agencySlug string,
	refresh bool,
) (*Result, error) {
	if !refresh {
		cached, err := r.Get(ctx, agencySlug)
		if err == nil {
			return &Result{Assessment: *cached, Cached: true}, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return nil, err
		}
	}

	agency, err := r.registry.FindAgency(ctx, agencySlug)
	if err != nil {
		return nil, err
	}

	if !agency.HasReferences() {
		return &Result{
			Assessment: Assessment{
				AgencySlug: agency.Slug,
				AgencyName: agency.Name,
				Likelihood: LikelihoodUnknown,
				Label:      LabelUnknown,
				Analysis:   "No CFR references found",
			},
		}, nil
	}

	cmd, err := r.analyzer.Assess(ctx, agency)
	if err != nil {
		return nil, err
	}

	stored, err := r.Upsert(ctx, *cmd)
	if err != nil {
		return nil, err
	}

	return &Result{Assessment: *stored}, nil
}
