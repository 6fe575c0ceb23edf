package deregulation

import (
	"context"

	"github.com/JaimeStill/proctor/pkg/pagination"
	"github.com/JaimeStill/proctor/pkg/repository"
)

// System defines the public contract for deregulation domain operations.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Assessment], error)

	Get(ctx context.Context, agencySlug string) (*Assessment, error)

	// Upsert writes an assessment through the cache on the system's own
	// database handle. UpsertOn does the same on a caller-supplied
	// querier; UpsertIsolated checks out a dedicated connection so
	// concurrent batch workers never share a session.
	Upsert(ctx context.Context, cmd UpsertCommand) (*Assessment, error)
	UpsertOn(ctx context.Context, q repository.Querier, cmd UpsertCommand) (*Assessment, error)
	UpsertIsolated(ctx context.Context, cmd UpsertCommand) (*Assessment, error)

	// Likelihood serves the cache-or-compute path: a cached assessment
	// when one exists, otherwise (or when refresh is set) a fresh
	// computation written through the cache.
	Likelihood(ctx context.Context, agencySlug string, refresh bool) (*Result, error)
}
