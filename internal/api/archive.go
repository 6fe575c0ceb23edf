package api

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path"

	"github.com/JaimeStill/proctor/pkg/handlers"
	"github.com/JaimeStill/proctor/pkg/routes"
	"github.com/JaimeStill/proctor/pkg/storage"
)

// archiveHandler exposes the raw title-XML archive for download, keyed
// the way the ingest pipeline writes it (titles/{date}/title-{n}.xml).
type archiveHandler struct {
	archive storage.System
	logger  *slog.Logger
}

func newArchiveHandler(archive storage.System, logger *slog.Logger) *archiveHandler {
	return &archiveHandler{
		archive: archive,
		logger:  logger.With("handler", "archive"),
	}
}

func (h *archiveHandler) routes() routes.Group {
	return routes.Group{
		Prefix: "/archive",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/{key...}", Handler: h.download},
		},
	}
}

func (h *archiveHandler) download(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")

	body, err := h.archive.Download(r.Context(), key)
	if err != nil {
		handlers.RespondError(
			w, h.logger,
			storage.MapHTTPStatus(err), err,
		)
		return
	}
	defer body.Close()

	w.Header().Set("Content-Type", "application/xml")
	w.Header().Set(
		"Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", path.Base(key)),
	)
	w.WriteHeader(http.StatusOK)
	io.Copy(w, body)
}
