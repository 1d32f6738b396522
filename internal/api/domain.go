package api

import (
	"github.com/covenantlabs/covenant/internal/analyses"
	"github.com/covenantlabs/covenant/internal/documents"
	"github.com/covenantlabs/covenant/internal/parties"
	"github.com/covenantlabs/covenant/internal/pipeline"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Documents documents.System
	Analyses  analyses.System
	Parties   parties.System
	Pipeline  *pipeline.Orchestrator
}

// NewDomain creates all domain systems from the API runtime. The analysis
// system is wrapped in a read-through cache when configured.
func NewDomain(runtime *Runtime) *Domain {
	docsSystem := documents.New(
		runtime.Database.Connection(),
		runtime.Storage,
		runtime.Logger,
		runtime.Pagination,
	)

	analysesSystem := analyses.New(
		runtime.Database.Connection(),
		runtime.Logger,
		runtime.Pagination,
	)
	if runtime.Pipeline.CacheResults {
		analysesSystem = analyses.NewCached(analysesSystem)
	}

	partiesSystem := parties.New(
		runtime.Database.Connection(),
		runtime.Logger,
	)

	orchestrator := pipeline.NewOrchestrator(
		runtime.Pipeline,
		runtime.Upstream,
		docsSystem,
		analysesSystem,
		partiesSystem,
		runtime.Logger,
	)

	return &Domain{
		Documents: docsSystem,
		Analyses:  analysesSystem,
		Parties:   partiesSystem,
		Pipeline:  orchestrator,
	}
}
