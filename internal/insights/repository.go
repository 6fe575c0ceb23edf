package insights

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/JaimeStill/proctor/internal/ecfr"
	"github.com/JaimeStill/proctor/pkg/memo"
)

type repo struct {
	db       *sql.DB
	registry *ecfr.Client
	logger   *slog.Logger

	overview *memo.Cache[*Overview]

	mu     sync.Mutex
	trends map[string]*memo.Cache[*Trends]
}

// New creates an insights repository implementing the System interface.
func New(db *sql.DB, registry *ecfr.Client, logger *slog.Logger) System {
	return &repo{
		db:       db,
		registry: registry,
		logger:   logger.With("system", "insights"),
		overview: memo.New[*Overview](CacheTTL, nil),
		trends:   make(map[string]*memo.Cache[*Trends]),
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger)
}

func (r *repo) Overview(ctx context.Context) (*Overview, error) {
	return r.overview.Get(ctx, r.computeOverview)
}

func (r *repo) Trends(ctx context.Context, title int, granularity string) (*Trends, error) {
	key := fmt.Sprintf("%d/%s", title, granularity)

	r.mu.Lock()
	cache, ok := r.trends[key]
	if !ok {
		cache = memo.New[*Trends](CacheTTL, nil)
		r.trends[key] = cache
	}
	r.mu.Unlock()

	return cache.Get(ctx, func(ctx context.Context) (*Trends, error) {
		return r.computeTrends(ctx, title, granularity)
	})
}

func (r *repo) computeOverview(ctx context.Context) (*Overview, error) {
	o := &Overview{LikelihoodDist: make(map[string]int)}

	snapshotQ := `
		SELECT COUNT(*), COALESCE(SUM(word_count), 0),
			   COALESCE(AVG(complexity_score), 0), MAX(snapshot_date)
		FROM agency_snapshots
		WHERE snapshot_date = (SELECT MAX(snapshot_date) FROM agency_snapshots)`

	var latest sql.NullTime
	var avg float64
	err := r.db.
		QueryRowContext(ctx, snapshotQ).
		Scan(&o.TotalAgencies, &o.TotalWords, &avg, &latest)
	if err != nil {
		return nil, fmt.Errorf("aggregate snapshots: %w", err)
	}

	o.AvgComplexity = math.Round(avg*100) / 100
	if latest.Valid {
		o.SnapshotDate = &latest.Time
	}

	distQ := `
		SELECT likelihood, COUNT(*)
		FROM deregulation_assessments
		GROUP BY likelihood`

	rows, err := r.db.QueryContext(ctx, distQ)
	if err != nil {
		return nil, fmt.Errorf("aggregate assessments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var likelihood string
		var count int
		if err := rows.Scan(&likelihood, &count); err != nil {
			return nil, err
		}
		o.LikelihoodDist[likelihood] = count
		o.TotalAssessed += count
	}

	return o, rows.Err()
}

func (r *repo) computeTrends(ctx context.Context, title int, granularity string) (*Trends, error) {
	versions, err := r.registry.TitleVersions(ctx, title)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	t := &Trends{Title: title, Granularity: granularity}

	switch granularity {
	case GranularityYear:
		t.Buckets = bucketize(versions, yearlyBuckets, now, "2006",
			func(d time.Time, i int) string {
				return d.AddDate(-i, 0, 0).Format("2006")
			})
	default:
		t.Buckets = bucketize(versions, monthlyBuckets, now, "2006-01",
			func(d time.Time, i int) string {
				return d.AddDate(0, -i, 0).Format("2006-01")
			})
	}

	return t, nil
}

// Supported trend granularities and their bucket counts.
const (
	GranularityMonth = "month"
	GranularityYear  = "year"

	monthlyBuckets = 12
	yearlyBuckets  = 5
)

// bucketize counts versions per period over the trailing n periods,
// oldest first. Version dates outside the covered periods are ignored.
func bucketize(
	versions []ecfr.ContentVersion,
	n int,
	now time.Time,
	layout string,
	period func(d time.Time, i int) string,
) []TrendBucket {
	counts := make(map[string]int)
	for _, v := range versions {
		d, err := time.Parse("2006-01-02", v.IssueDate)
		if err != nil {
			continue
		}
		counts[d.Format(layout)]++
	}

	buckets := make([]TrendBucket, 0, n)
	for i := n - 1; i >= 0; i-- {
		p := period(now, i)
		buckets = append(buckets, TrendBucket{Period: p, Count: counts[p]})
	}

	return buckets
}
