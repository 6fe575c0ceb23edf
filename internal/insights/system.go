package insights

import "context"

// System defines the public contract for insight queries.
type System interface {
	Handler() *Handler

	Overview(ctx context.Context) (*Overview, error)
	Trends(ctx context.Context, title int, granularity string) (*Trends, error)
}
