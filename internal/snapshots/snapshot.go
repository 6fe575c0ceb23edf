// Package snapshots implements the metric snapshot domain: immutable,
// dated measurements of each agency's regulatory text (size, complexity,
// checksum) and the deltas between an agency's two most recent records.
package snapshots

import (
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/proctor/internal/ecfr"
)

// MetricSnapshot is one agency's measurement at a snapshot date. Records
// are append-only: once written they are never mutated, and at most one
// record exists per (agency_slug, snapshot_date).
type MetricSnapshot struct {
	ID              uuid.UUID           `json:"id"`
	AgencySlug      string              `json:"agency_slug"`
	AgencyName      string              `json:"agency_name"`
	ParentSlug      *string             `json:"parent_slug"`
	ChildSlugs      []string            `json:"child_slugs"`
	SnapshotDate    time.Time           `json:"snapshot_date"`
	WordCount       int64               `json:"word_count"`
	ComplexityScore float64             `json:"complexity_score"`
	Checksum        string              `json:"checksum"`
	CFRReferences   []ecfr.CFRReference `json:"cfr_references"`
	CreatedAt       time.Time           `json:"created_at"`
}

// AppendCommand carries the data needed to append a snapshot.
type AppendCommand struct {
	AgencySlug      string              `json:"agency_slug"`
	AgencyName      string              `json:"agency_name"`
	ParentSlug      *string             `json:"parent_slug"`
	ChildSlugs      []string            `json:"child_slugs"`
	SnapshotDate    time.Time           `json:"snapshot_date"`
	WordCount       int64               `json:"word_count"`
	ComplexityScore float64             `json:"complexity_score"`
	Checksum        string              `json:"checksum"`
	CFRReferences   []ecfr.CFRReference `json:"cfr_references"`
}

// Delta describes the change between an agency's two most recent snapshots.
type Delta struct {
	AgencySlug         string    `json:"agency_slug"`
	AgencyName         string    `json:"agency_name"`
	WordCountChange    int64     `json:"word_count_change"`
	WordCountPctChange float64   `json:"word_count_pct_change"`
	ComplexityChange   float64   `json:"complexity_change"`
	ChecksumChanged    bool      `json:"checksum_changed"`
	LatestDate         time.Time `json:"latest_date"`
	PreviousDate       time.Time `json:"previous_date"`
}

// ComputeDelta derives the change between the latest and previous
// snapshots. Percentage change is 0 when the previous word count is 0;
// percentage and complexity deltas are rounded to two decimal places.
func ComputeDelta(latest, previous *MetricSnapshot) Delta {
	change := latest.WordCount - previous.WordCount

	var pct float64
	if previous.WordCount > 0 {
		pct = round2(float64(change) / float64(previous.WordCount) * 100)
	}

	return Delta{
		AgencySlug:         latest.AgencySlug,
		AgencyName:         latest.AgencyName,
		WordCountChange:    change,
		WordCountPctChange: pct,
		ComplexityChange:   round2(latest.ComplexityScore - previous.ComplexityScore),
		ChecksumChanged:    latest.Checksum != previous.Checksum,
		LatestDate:         latest.SnapshotDate,
		PreviousDate:       previous.SnapshotDate,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
