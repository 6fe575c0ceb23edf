package deregulation

import (
	"log/slog"
	"net/http"

	"github.com/JaimeStill/proctor/pkg/handlers"
	"github.com/JaimeStill/proctor/pkg/pagination"
	"github.com/JaimeStill/proctor/pkg/routes"
)

// Handler provides HTTP endpoints for deregulation operations.
type Handler struct {
	sys        System
	logger     *slog.Logger
	pagination pagination.Config
}

// NewHandler creates a Handler with the given system, logger, and pagination config.
func NewHandler(
	sys System,
	logger *slog.Logger,
	pagination pagination.Config,
) *Handler {
	return &Handler{
		sys:        sys,
		logger:     logger.With("handler", "deregulation"),
		pagination: pagination,
	}
}

// Routes returns the route group definition for deregulation endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/deregulation",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List},
			{Method: "GET", Pattern: "/{slug}", Handler: h.Likelihood},
		},
	}
}

// List returns a paginated list of cached assessments with optional
// query parameter filters.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)
	filters := FiltersFromQuery(r.URL.Query())

	result, err := h.sys.List(r.Context(), page, filters)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Likelihood returns the agency's deregulation assessment, served from
// the cache when present. Pass refresh=true to force recomputation.
func (h *Handler) Likelihood(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	refresh := r.URL.Query().Get("refresh") == "true"

	result, err := h.sys.Likelihood(r.Context(), slug, refresh)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
