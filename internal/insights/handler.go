package insights

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/JaimeStill/proctor/internal/ecfr"
	"github.com/JaimeStill/proctor/pkg/handlers"
	"github.com/JaimeStill/proctor/pkg/routes"
)

// Handler provides HTTP endpoints for aggregate insight queries.
type Handler struct {
	sys    System
	logger *slog.Logger
}

// NewHandler creates a Handler with the given system and logger.
func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "insights"),
	}
}

// Routes returns the route group definition for insight endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/insights",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/overview", Handler: h.Overview},
			{Method: "GET", Pattern: "/trends/{title}", Handler: h.Trends},
		},
	}
}

// Overview returns aggregate figures for the latest snapshot generation
// and the cached assessment distribution.
func (h *Handler) Overview(w http.ResponseWriter, r *http.Request) {
	overview, err := h.sys.Overview(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, overview)
}

// Trends returns amendment counts for one CFR title, bucketed monthly
// by default or yearly with granularity=year.
func (h *Handler) Trends(w http.ResponseWriter, r *http.Request) {
	title, err := strconv.Atoi(r.PathValue("title"))
	if err != nil || title < 1 {
		handlers.RespondError(w, h.logger, http.StatusBadRequest,
			errors.New("title must be a positive integer"))
		return
	}

	granularity := r.URL.Query().Get("granularity")
	if granularity != GranularityYear {
		granularity = GranularityMonth
	}

	trends, err := h.sys.Trends(r.Context(), title, granularity)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, ecfr.ErrUnavailable) {
			status = http.StatusBadGateway
		}
		handlers.RespondError(w, h.logger, status, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, trends)
}
