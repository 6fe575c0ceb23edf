package snapshots

import (
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/JaimeStill/proctor/pkg/query"
	"github.com/JaimeStill/proctor/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "agency_snapshots", "s").
	Project("id", "ID").
	Project("agency_slug", "AgencySlug").
	Project("agency_name", "AgencyName").
	Project("parent_slug", "ParentSlug").
	Project("child_slugs", "ChildSlugs").
	Project("snapshot_date", "SnapshotDate").
	Project("word_count", "WordCount").
	Project("complexity_score", "ComplexityScore").
	Project("checksum", "Checksum").
	Project("cfr_references", "CFRReferences").
	Project("created_at", "CreatedAt")

var defaultSort = query.SortField{
	Field:      "SnapshotDate",
	Descending: true,
}

// Filters contains optional filtering criteria for snapshot queries.
// Nil fields are ignored. All fields use exact matching.
type Filters struct {
	AgencySlug   *string    `json:"agency_slug,omitempty"`
	SnapshotDate *time.Time `json:"snapshot_date,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("AgencySlug", f.AgencySlug).
		WhereEquals("SnapshotDate", f.SnapshotDate)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if s := values.Get("agency_slug"); s != "" {
		f.AgencySlug = &s
	}

	if d := values.Get("snapshot_date"); d != "" {
		if date, err := time.Parse("2006-01-02", d); err == nil {
			f.SnapshotDate = &date
		}
	}

	return f
}

func scanSnapshot(s repository.Scanner) (MetricSnapshot, error) {
	var m MetricSnapshot
	var childrenRaw, refsRaw []byte

	err := s.Scan(
		&m.ID,
		&m.AgencySlug,
		&m.AgencyName,
		&m.ParentSlug,
		&childrenRaw,
		&m.SnapshotDate,
		&m.WordCount,
		&m.ComplexityScore,
		&m.Checksum,
		&refsRaw,
		&m.CreatedAt,
	)

	if err != nil {
		return m, err
	}

	if len(childrenRaw) > 0 {
		if err := json.Unmarshal(childrenRaw, &m.ChildSlugs); err != nil {
			return m, fmt.Errorf("unmarshal child_slugs: %w", err)
		}
	}
	if m.ChildSlugs == nil {
		m.ChildSlugs = []string{}
	}

	if len(refsRaw) > 0 {
		if err := json.Unmarshal(refsRaw, &m.CFRReferences); err != nil {
			return m, fmt.Errorf("unmarshal cfr_references: %w", err)
		}
	}

	return m, nil
}
