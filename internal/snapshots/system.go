package snapshots

import (
	"context"
	"time"

	"github.com/JaimeStill/proctor/pkg/pagination"
)

// System defines the public contract for snapshot domain operations.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[MetricSnapshot], error)

	Append(ctx context.Context, cmd AppendCommand) (*MetricSnapshot, error)
	LatestDate(ctx context.Context) (time.Time, error)
	SnapshotsAt(ctx context.Context, date time.Time) ([]MetricSnapshot, error)
	History(ctx context.Context, agencySlug string) ([]MetricSnapshot, error)
	Delta(ctx context.Context, agencySlug string) (*Delta, error)
}
