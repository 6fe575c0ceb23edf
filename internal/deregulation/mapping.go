package deregulation

import (
	"net/url"

	"github.com/JaimeStill/proctor/pkg/query"
	"github.com/JaimeStill/proctor/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "deregulation_assessments", "a").
	Project("id", "ID").
	Project("agency_slug", "AgencySlug").
	Project("agency_name", "AgencyName").
	Project("likelihood", "Likelihood").
	Project("label", "Label").
	Project("recent_revisions", "RecentRevisions").
	Project("analysis", "Analysis").
	Project("full_analysis", "FullAnalysis").
	Project("computed_at", "ComputedAt")

var defaultSort = query.SortField{
	Field:      "ComputedAt",
	Descending: true,
}

// Filters contains optional filtering criteria for assessment queries.
// Nil fields are ignored. All fields use exact matching.
type Filters struct {
	Likelihood *string `json:"likelihood,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.WhereEquals("Likelihood", f.Likelihood)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if l := values.Get("likelihood"); l != "" {
		f.Likelihood = &l
	}

	return f
}

func scanAssessment(s repository.Scanner) (Assessment, error) {
	var a Assessment

	err := s.Scan(
		&a.ID,
		&a.AgencySlug,
		&a.AgencyName,
		&a.Likelihood,
		&a.Label,
		&a.RecentRevisions,
		&a.Analysis,
		&a.FullAnalysis,
		&a.ComputedAt,
	)

	return a, err
}
