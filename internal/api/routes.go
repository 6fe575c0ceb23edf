package api

import (
	"net/http"

	"github.com/JaimeStill/proctor/pkg/routes"
)

func registerRoutes(
	mux *http.ServeMux,
	domain *Domain,
	runtime *Runtime,
) {
	routes.Register(
		mux,
		domain.Snapshots.Handler().Routes(),
		domain.Deregulation.Handler().Routes(),
		domain.Insights.Handler().Routes(),
	)

	if runtime.Archive != nil {
		archive := newArchiveHandler(runtime.Archive, runtime.Logger)
		routes.Register(mux, archive.routes())
	}
}
