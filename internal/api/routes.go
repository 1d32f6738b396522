package api

import (
	"net/http"

	"github.com/covenantlabs/covenant/internal/config"
	"github.com/covenantlabs/covenant/pkg/routes"
)

func registerRoutes(
	mux *http.ServeMux,
	domain *Domain,
	cfg *config.Config,
	runtime *Runtime,
) {
	routes.Register(
		mux,
		domain.Documents.Handler(cfg.API.MaxUploadSizeBytes()).Routes(),
		domain.Analyses.Handler().Routes(),
		domain.Parties.Handler().Routes(),
		domain.Pipeline.Handler().Routes(),
		newStorageHandler(
			runtime.Storage,
			runtime.Logger,
			cfg.Storage.MaxListSize,
		).routes(),
	)
}
