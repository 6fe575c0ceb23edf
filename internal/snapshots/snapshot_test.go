package snapshots_test

import (
	"errors"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/JaimeStill/proctor/internal/snapshots"
)

func snapshotAt(date time.Time, words int64, complexity float64, checksum string) snapshots.MetricSnapshot {
	return snapshots.MetricSnapshot{
		AgencySlug:      "examples",
		AgencyName:      "Department of Examples",
		SnapshotDate:    date,
		WordCount:       words,
		ComplexityScore: complexity,
		Checksum:        checksum,
	}
}

func TestComputeDelta(t *testing.T) {
	previous := snapshotAt(
		time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
		1000, 12.5, "aaaa",
	)
	latest := snapshotAt(
		time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC),
		1100, 13.25, "bbbb",
	)

	delta := snapshots.ComputeDelta(&latest, &previous)

	if delta.WordCountChange != 100 {
		t.Errorf("word count change = %d, want 100", delta.WordCountChange)
	}
	if delta.WordCountPctChange != 10.0 {
		t.Errorf("pct change = %v, want 10.0", delta.WordCountPctChange)
	}
	if delta.ComplexityChange != 0.75 {
		t.Errorf("complexity change = %v, want 0.75", delta.ComplexityChange)
	}
	if !delta.ChecksumChanged {
		t.Error("checksum change not detected")
	}
	if !delta.LatestDate.Equal(latest.SnapshotDate) ||
		!delta.PreviousDate.Equal(previous.SnapshotDate) {
		t.Error("delta dates do not match inputs")
	}
}

func TestComputeDeltaZeroPrevious(t *testing.T) {
	previous := snapshotAt(time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), 0, 0, "aaaa")
	latest := snapshotAt(time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC), 500, 8.1, "aaaa")

	delta := snapshots.ComputeDelta(&latest, &previous)

	if delta.WordCountChange != 500 {
		t.Errorf("word count change = %d, want 500", delta.WordCountChange)
	}
	if delta.WordCountPctChange != 0 {
		t.Errorf("pct change = %v, want 0 with zero baseline", delta.WordCountPctChange)
	}
	if delta.ChecksumChanged {
		t.Error("identical checksums should not report change")
	}
}

func TestComputeDeltaRounding(t *testing.T) {
	previous := snapshotAt(time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), 3000, 10.111, "aaaa")
	latest := snapshotAt(time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC), 3100, 10.333, "bbbb")

	delta := snapshots.ComputeDelta(&latest, &previous)

	if delta.WordCountPctChange != 3.33 {
		t.Errorf("pct change = %v, want 3.33", delta.WordCountPctChange)
	}
	if delta.ComplexityChange != 0.22 {
		t.Errorf("complexity change = %v, want 0.22", delta.ComplexityChange)
	}
}

func TestFiltersFromQuery(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		wantSlug *string
		wantDate bool
	}{
		{"empty", "", nil, false},
		{"slug only", "agency_slug=examples", strptr("examples"), false},
		{"valid date", "snapshot_date=2025-08-01", nil, true},
		{"invalid date ignored", "snapshot_date=august", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, _ := url.ParseQuery(tt.query)
			f := snapshots.FiltersFromQuery(values)

			if (f.AgencySlug == nil) != (tt.wantSlug == nil) {
				t.Fatalf("AgencySlug = %v, want %v", f.AgencySlug, tt.wantSlug)
			}
			if tt.wantSlug != nil && *f.AgencySlug != *tt.wantSlug {
				t.Errorf("AgencySlug = %s, want %s", *f.AgencySlug, *tt.wantSlug)
			}
			if (f.SnapshotDate != nil) != tt.wantDate {
				t.Errorf("SnapshotDate = %v, want set=%v", f.SnapshotDate, tt.wantDate)
			}
		})
	}
}

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", snapshots.ErrNotFound, http.StatusNotFound},
		{"insufficient history", snapshots.ErrInsufficientHistory, http.StatusNotFound},
		{"duplicate", snapshots.ErrDuplicate, http.StatusConflict},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := snapshots.MapHTTPStatus(tt.err); got != tt.want {
				t.Errorf("MapHTTPStatus() = %d, want %d", got, tt.want)
			}
		})
	}
}

func strptr(s string) *string { return &s }
