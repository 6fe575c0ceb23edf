// Package insights serves read-only aggregate views over the snapshot
// and assessment stores plus registry revision histories. Responses are
// memoized for an hour; the underlying data changes at most daily.
package insights

import "time"

// CacheTTL is how long aggregate responses are served from memory
// before recomputation.
const CacheTTL = time.Hour

// Overview summarizes the latest snapshot generation and the cached
// assessment distribution.
type Overview struct {
	SnapshotDate   *time.Time     `json:"snapshot_date"`
	TotalAgencies  int            `json:"total_agencies"`
	TotalWords     int64          `json:"total_words"`
	AvgComplexity  float64        `json:"avg_complexity"`
	TotalAssessed  int            `json:"total_assessed"`
	LikelihoodDist map[string]int `json:"likelihood_distribution"`
}

// TrendBucket is one interval's amendment count for a title.
type TrendBucket struct {
	Period string `json:"period"`
	Count  int    `json:"count"`
}

// Trends is the revision trend for one CFR title.
type Trends struct {
	Title       int           `json:"title"`
	Granularity string        `json:"granularity"`
	Buckets     []TrendBucket `json:"buckets"`
}
