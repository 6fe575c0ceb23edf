package api

import (
	"github.com/JaimeStill/proctor/internal/deregulation"
	"github.com/JaimeStill/proctor/internal/insights"
	"github.com/JaimeStill/proctor/internal/snapshots"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Snapshots    snapshots.System
	Deregulation deregulation.System
	Insights     insights.System
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime) *Domain {
	snapshotsSystem := snapshots.New(
		runtime.Database.Connection(),
		runtime.Logger,
		runtime.Pagination,
	)

	analyzer := deregulation.NewAnalyzer(
		runtime.Registry,
		runtime.Model,
		runtime.Logger,
	)

	deregulationSystem := deregulation.New(
		runtime.Database.Connection(),
		runtime.Registry,
		analyzer,
		runtime.Logger,
		runtime.Pagination,
	)

	insightsSystem := insights.New(
		runtime.Database.Connection(),
		runtime.Registry,
		runtime.Logger,
	)

	return &Domain{
		Snapshots:    snapshotsSystem,
		Deregulation: deregulationSystem,
		Insights:     insightsSystem,
	}
}
