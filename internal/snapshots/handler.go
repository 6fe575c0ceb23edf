package snapshots

import (
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/JaimeStill/proctor/pkg/handlers"
	"github.com/JaimeStill/proctor/pkg/pagination"
	"github.com/JaimeStill/proctor/pkg/routes"
)

// Handler provides HTTP endpoints for snapshot operations.
type Handler struct {
	sys        System
	logger     *slog.Logger
	pagination pagination.Config
}

// LatestResponse is the latest-snapshot payload: the snapshot date, every
// agency's record at that date, and aggregate summary figures.
type LatestResponse struct {
	SnapshotDate time.Time        `json:"snapshot_date"`
	Agencies     []MetricSnapshot `json:"agencies"`
	Summary      Summary          `json:"summary"`
}

// Summary aggregates the agencies in one snapshot.
type Summary struct {
	TotalAgencies int     `json:"total_agencies"`
	TotalWords    int64   `json:"total_words"`
	AvgComplexity float64 `json:"avg_complexity"`
}

// Ranking is one row in a word-count or complexity ranking.
type Ranking struct {
	Rank            int     `json:"rank"`
	AgencySlug      string  `json:"agency_slug"`
	AgencyName      string  `json:"agency_name"`
	WordCount       int64   `json:"word_count"`
	ComplexityScore float64 `json:"complexity_score"`
	Checksum        string  `json:"checksum"`
}

// RankingsResponse carries ranked agencies for one snapshot date.
type RankingsResponse struct {
	SnapshotDate time.Time `json:"snapshot_date"`
	Rankings     []Ranking `json:"rankings"`
}

// NewHandler creates a Handler with the given system, logger, and pagination config.
func NewHandler(
	sys System,
	logger *slog.Logger,
	pagination pagination.Config,
) *Handler {
	return &Handler{
		sys:        sys,
		logger:     logger.With("handler", "snapshots"),
		pagination: pagination,
	}
}

// Routes returns the route group definition for snapshot endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/snapshots",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List},
			{Method: "GET", Pattern: "/latest", Handler: h.Latest},
			{Method: "GET", Pattern: "/rankings/words", Handler: h.WordRankings},
			{Method: "GET", Pattern: "/rankings/complexity", Handler: h.ComplexityRankings},
			{Method: "GET", Pattern: "/{slug}/history", Handler: h.History},
			{Method: "GET", Pattern: "/{slug}/changes", Handler: h.Changes},
		},
	}
}

// List returns a paginated list of snapshots with optional query parameter filters.
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

// Latest returns every agency's record at the most recent snapshot date
// with aggregate summary figures. Responds 404 when no snapshots exist.
func (h *Handler) Latest(w http.ResponseWriter, r *http.Request) {
	date, err := h.sys.LatestDate(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	agencies, err := h.sys.SnapshotsAt(r.Context(), date)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, LatestResponse{
		SnapshotDate: date,
		Agencies:     agencies,
		Summary:      summarize(agencies),
	})
}

// History returns all snapshots for one agency, most recent first.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")

	history, err := h.sys.History(r.Context(), slug)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, map[string]any{
		"agency_slug": slug,
		"snapshots":   history,
	})
}

// Changes returns the delta between an agency's two most recent snapshots.
// Responds 404 when fewer than two snapshots exist.
func (h *Handler) Changes(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")

	delta, err := h.sys.Delta(r.Context(), slug)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, delta)
}

// WordRankings ranks agencies in the latest snapshot by word count.
func (h *Handler) WordRankings(w http.ResponseWriter, r *http.Request) {
	h.rankings(w, r, func(a, b MetricSnapshot) bool {
		return a.WordCount > b.WordCount
	})
}

// ComplexityRankings ranks agencies in the latest snapshot by complexity score.
func (h *Handler) ComplexityRankings(w http.ResponseWriter, r *http.Request) {
	h.rankings(w, r, func(a, b MetricSnapshot) bool {
		return a.ComplexityScore > b.ComplexityScore
	})
}

func (h *Handler) rankings(
	w http.ResponseWriter,
	r *http.Request,
	less func(a, b MetricSnapshot) bool,
) {
	date, err := h.sys.LatestDate(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	agencies, err := h.sys.SnapshotsAt(r.Context(), date)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	sort.Slice(agencies, func(i, j int) bool {
		return less(agencies[i], agencies[j])
	})

	rankings := make([]Ranking, len(agencies))
	for i, a := range agencies {
		rankings[i] = Ranking{
			Rank:            i + 1,
			AgencySlug:      a.AgencySlug,
			AgencyName:      a.AgencyName,
			WordCount:       a.WordCount,
			ComplexityScore: a.ComplexityScore,
			Checksum:        a.Checksum,
		}
	}

	handlers.RespondJSON(w, http.StatusOK, RankingsResponse{
		SnapshotDate: date,
		Rankings:     rankings,
	})
}

func summarize(agencies []MetricSnapshot) Summary {
	s := Summary{TotalAgencies: len(agencies)}
	if len(agencies) == 0 {
		return s
	}

	var totalComplexity float64
	for _, a := range agencies {
		s.TotalWords += a.WordCount
		totalComplexity += a.ComplexityScore
	}

	s.AvgComplexity = round2(totalComplexity / float64(len(agencies)))
	return s
}
