package api

import (
	"github.com/JaimeStill/proctor/internal/config"
	"github.com/JaimeStill/proctor/internal/deregulation"
	"github.com/JaimeStill/proctor/internal/infrastructure"
	"github.com/JaimeStill/proctor/pkg/pagination"
)

// Runtime extends Infrastructure with API-specific configuration.
type Runtime struct {
	*infrastructure.Infrastructure
	Model      deregulation.Model
	Pagination pagination.Config
}

// NewRuntime creates an API runtime with a module-scoped logger. Model
// is nil when no analysis model is configured; classification requests
// then report the model as unavailable.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	return &Runtime{
		Infrastructure: &infrastructure.Infrastructure{
			Lifecycle: infra.Lifecycle,
			Logger:    infra.Logger.With("module", "api"),
			Database:  infra.Database,
			Registry:  infra.Registry,
			Archive:   infra.Archive,
		},
		Model:      deregulation.NewModel(&cfg.Model),
		Pagination: cfg.API.Pagination,
	}
}
