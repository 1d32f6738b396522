package api

import (
	"github.com/covenantlabs/covenant/internal/config"
	"github.com/covenantlabs/covenant/internal/infrastructure"
	"github.com/covenantlabs/covenant/internal/pipeline"
	"github.com/covenantlabs/covenant/pkg/pagination"
)

// Runtime extends Infrastructure with API-specific configuration.
type Runtime struct {
	*infrastructure.Infrastructure
	Pagination pagination.Config
	Pipeline   pipeline.Config
}

// NewRuntime creates an API runtime with a module-scoped logger.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	return &Runtime{
		Infrastructure: &infrastructure.Infrastructure{
			Lifecycle: infra.Lifecycle,
			Logger:    infra.Logger.With("module", "api"),
			Database:  infra.Database,
			Storage:   infra.Storage,
			Upstream:  infra.Upstream,
		},
		Pagination: cfg.API.Pagination,
		Pipeline:   cfg.Pipeline,
	}
}
