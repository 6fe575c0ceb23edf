// Package deregulation implements the deregulation-likelihood domain:
// a rule-based classifier over amendment activity, an optional
// model-assisted analysis path, a per-agency result cache, and the
// bounded-concurrency batch job that populates it.
package deregulation

import (
	"time"

	"github.com/google/uuid"
)

// Likelihood is the ordinal deregulation classification
// (unlikely < low < moderate < strong; unknown when undetermined).
type Likelihood string

const (
	LikelihoodStrong   Likelihood = "strong"
	LikelihoodModerate Likelihood = "moderate"
	LikelihoodLow      Likelihood = "low"
	LikelihoodUnlikely Likelihood = "unlikely"
	LikelihoodUnknown  Likelihood = "unknown"
)

// Human-readable labels for model-derived classifications. The fallback
// heuristic uses its own activity labels; see heuristicClassify.
const (
	LabelStrong   = "Strong Deregulation"
	LabelModerate = "Moderate Deregulation"
	LabelLow      = "Low Deregulation"
	LabelUnlikely = "Deregulation Unlikely"
	LabelUnknown  = "Unknown"
)

// Label returns the display label for a model-derived likelihood.
func (l Likelihood) Label() string {
	switch l {
	case LikelihoodStrong:
		return LabelStrong
	case LikelihoodModerate:
		return LabelModerate
	case LikelihoodLow:
		return LabelLow
	case LikelihoodUnlikely:
		return LabelUnlikely
	default:
		return LabelUnknown
	}
}

// Assessment is the cached classification result for one agency. Exactly
// one live record exists per agency slug; recomputation overwrites it in
// place. Absence means the agency has never been classified.
type Assessment struct {
	ID              uuid.UUID  `json:"id"`
	AgencySlug      string     `json:"agency_slug"`
	AgencyName      string     `json:"agency_name"`
	Likelihood      Likelihood `json:"likelihood"`
	Label           string     `json:"label"`
	RecentRevisions int        `json:"recent_revisions"`
	Analysis        string     `json:"analysis"`
	FullAnalysis    *string    `json:"full_analysis"`
	ComputedAt      time.Time  `json:"computed_at"`
}

// UpsertCommand carries the data needed to write an assessment through
// the cache. ComputedAt is refreshed by the store on every write.
type UpsertCommand struct {
	AgencySlug      string     `json:"agency_slug"`
	AgencyName      string     `json:"agency_name"`
	Likelihood      Likelihood `json:"likelihood"`
	Label           string     `json:"label"`
	RecentRevisions int        `json:"recent_revisions"`
	Analysis        string     `json:"analysis"`
	FullAnalysis    *string    `json:"full_analysis"`
}

// Result is a likelihood lookup outcome, flagging whether it was served
// from the cache or computed live.
type Result struct {
	Assessment
	Cached bool `json:"cached"`
}
