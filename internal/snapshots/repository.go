package snapshots

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/JaimeStill/proctor/pkg/pagination"
	"github.com/JaimeStill/proctor/pkg/query"
	"github.com/JaimeStill/proctor/pkg/repository"
)

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a snapshot repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger, pagination pagination.Config) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "snapshots"),
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
) (*pagination.PageResult[MetricSnapshot], error) {
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
		return nil, fmt.Errorf("count snapshots: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanSnapshot)
	if err != nil {
		return nil, fmt.Errorf("query snapshots: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Append(ctx context.Context, cmd AppendCommand) (*MetricSnapshot, error) {
	childrenJSON, err := json.Marshal(orEmpty(cmd.ChildSlugs))
	if err != nil {
		return nil, fmt.Errorf("marshal child_slugs: %w", err)
	}

	refsJSON, err := json.Marshal(cmd.CFRReferences)
	if err != nil {
		return nil, fmt.Errorf("marshal cfr_references: %w", err)
	}

	insertQ := `
		INSERT INTO agency_snapshots(
			agency_slug, agency_name, parent_slug, child_slugs,
			snapshot_date, word_count, complexity_score, checksum,
			cfr_references
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, agency_slug, agency_name, parent_slug, child_slugs,
				  snapshot_date, word_count, complexity_score, checksum,
				  cfr_references, created_at`

	insertArgs := []any{
		cmd.AgencySlug,
		cmd.AgencyName,
		cmd.ParentSlug,
		childrenJSON,
		cmd.SnapshotDate,
		cmd.WordCount,
		cmd.ComplexityScore,
		cmd.Checksum,
		refsJSON,
	}

	m, err := repository.QueryOne(ctx, r.db, insertQ, insertArgs, scanSnapshot)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("snapshot appended",
		"id", m.ID,
		"agency", m.AgencySlug,
		"date", m.SnapshotDate.Format("2006-01-02"),
		"words", m.WordCount,
	)
	return &m, nil
}

func (r *repo) LatestDate(ctx context.Context) (time.Time, error) {
	var latest sql.NullTime
	err := r.db.
		QueryRowContext(ctx, "SELECT MAX(snapshot_date) FROM agency_snapshots").
		Scan(&latest)
	if err != nil {
		return time.Time{}, fmt.Errorf("query latest snapshot date: %w", err)
	}

	if !latest.Valid {
		return time.Time{}, ErrNotFound
	}

	return latest.Time, nil
}

func (r *repo) SnapshotsAt(ctx context.Context, date time.Time) ([]MetricSnapshot, error) {
	q, args := query.
		NewBuilder(projection, query.SortField{Field: "AgencyName"}).
		WhereEquals("SnapshotDate", date).
		Build()

	return repository.QueryMany(ctx, r.db, q, args, scanSnapshot)
}

func (r *repo) History(ctx context.Context, agencySlug string) ([]MetricSnapshot, error) {
	q, args := query.
		NewBuilder(projection, defaultSort).
		WhereEquals("AgencySlug", &agencySlug).
		Build()

	history, err := repository.QueryMany(ctx, r.db, q, args, scanSnapshot)
	if err != nil {
		return nil, fmt.Errorf("query history for %s: %w", agencySlug, err)
	}

	if len(history) == 0 {
		return nil, ErrNotFound
	}

	return history, nil
}

func (r *repo) Delta(ctx context.Context, agencySlug string) (*Delta, error) {
	q, args := query.
		NewBuilder(projection, defaultSort).
		WhereEquals("AgencySlug", &agencySlug).
		BuildPage(1, 2)

	recent, err := repository.QueryMany(ctx, r.db, q, args, scanSnapshot)
	if err != nil {
		return nil, fmt.Errorf("query recent snapshots for %s: %w", agencySlug, err)
	}

	if len(recent) < 2 {
		return nil, ErrInsufficientHistory
	}

	delta := ComputeDelta(&recent[0], &recent[1])
	return &delta, nil
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
