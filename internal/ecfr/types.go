package ecfr

import (
	"sort"
	"time"
)

// Agency is a registry agency record. Optional registry fields are
// pointers; the registry omits them for many agencies.
type Agency struct {
	Name          string         `json:"name"`
	ShortName     *string        `json:"short_name,omitempty"`
	DisplayName   *string        `json:"display_name,omitempty"`
	Slug          string         `json:"slug"`
	ParentSlug    *string        `json:"-"`
	Children      []Agency       `json:"children,omitempty"`
	CFRReferences []CFRReference `json:"cfr_references"`
}

// CFRReference points at the CFR title (and optionally chapter) an agency
// regulates. Order is preserved from the registry response.
type CFRReference struct {
	Title   int     `json:"title"`
	Chapter *string `json:"chapter,omitempty"`
}

// HasReferences reports whether the agency regulates any CFR content.
func (a *Agency) HasReferences() bool {
	return len(a.CFRReferences) > 0
}

// ContentVersion is one dated entry in a title's revision history.
type ContentVersion struct {
	Identifier string `json:"identifier"`
	IssueDate  string `json:"issue_date"`
	Title      string `json:"title"`
	Part       string `json:"part,omitempty"`
}

type agenciesResponse struct {
	Agencies []Agency `json:"agencies"`
}

type versionsResponse struct {
	ContentVersions []ContentVersion `json:"content_versions"`
}

// Flatten expands the registry's nested agency list into a flat slice,
// assigning ParentSlug on each child. The tree is derived per run from
// this flat list and never persisted.
func Flatten(agencies []Agency) []Agency {
	flat := make([]Agency, 0, len(agencies))
	for _, a := range agencies {
		children := a.Children
		a.Children = nil
		flat = append(flat, a)

		for _, child := range children {
			parent := a.Slug
			child.ParentSlug = &parent
			child.Children = nil
			flat = append(flat, child)
		}
	}
	return flat
}

// UniqueRecentDates returns the distinct issue dates from versions that
// fall on or after since, sorted most recent first. Malformed dates are
// skipped.
func UniqueRecentDates(versions []ContentVersion, since time.Time) []string {
	seen := make(map[string]struct{})
	for _, v := range versions {
		if v.IssueDate == "" {
			continue
		}
		d, err := time.Parse("2006-01-02", v.IssueDate)
		if err != nil {
			continue
		}
		if d.Before(since) {
			continue
		}
		seen[v.IssueDate] = struct{}{}
	}

	dates := make([]string, 0, len(seen))
	for d := range seen {
		dates = append(dates, d)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))
	return dates
}
