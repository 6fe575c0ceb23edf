package deregulation

import "strings"

// Revision-count thresholds for the narrative classifier. A strong or
// moderate phrase only upgrades the classification when amendment
// activity backs it up.
const (
	highActivityThreshold     = 10
	moderateActivityThreshold = 3
)

// Thresholds for the revision-count-only heuristic used when no
// narrative is available.
const (
	heuristicModerateThreshold = 10
	heuristicLowThreshold      = 5
)

// unlikelyPhrases veto any positive signal in the narrative.
var unlikelyPhrases = []string{
	"deregulation unlikely",
	"no clear deregulation",
	"no deregulation signals",
	"minimal deregulation activity",
	"not actively deregulating",
	"increased regulatory burden",
	"adding requirements",
}

var strongPhrases = []string{
	"strong deregulation signals",
	"active deregulation",
	"significant deregulation activity",
	"coordinated deregulation effort",
}

var moderatePhrases = []string{
	"moderate deregulation",
	"some deregulation signals",
	"streamlining efforts",
	"reducing regulatory burden",
	"discretionary language increases",
}

var minorPhrases = []string{
	"potential deregulation",
	"possible simplification",
	"flexibility",
	"discretion",
}

// ClassifyNarrative classifies an analysis narrative combined with the
// recent revision count. The decision list is ordered: negative phrases
// veto everything, then strong and moderate signals are gated on
// activity thresholds, then minor signals or trace activity yield low.
// The same inputs always produce the same classification.
//
// This is the deterministic reference classification. The live path
// trusts the model's parsed likelihood token directly; a verdict that
// contradicts this rule set for the same narrative and count indicates
// a model regression, so the rule order and threshold boundaries must
// not change.
func ClassifyNarrative(narrative string, recentRevisions int) (Likelihood, string) {
	text := strings.ToLower(narrative)

	if containsAny(text, unlikelyPhrases) {
		return LikelihoodUnlikely, LabelUnlikely
	}

	if containsAny(text, strongPhrases) && recentRevisions >= highActivityThreshold {
		return LikelihoodStrong, LabelStrong
	}

	if (containsAny(text, strongPhrases) || containsAny(text, moderatePhrases)) &&
		recentRevisions >= moderateActivityThreshold &&
		recentRevisions < highActivityThreshold {
		return LikelihoodModerate, LabelModerate
	}

	if containsAny(text, minorPhrases) || (recentRevisions >= 1 && recentRevisions <= 2) {
		return LikelihoodLow, LabelLow
	}

	return LikelihoodUnlikely, LabelUnlikely
}

// heuristicClassify maps a revision count to a likelihood without any
// narrative. Used when the model path fails or returns nothing usable.
func heuristicClassify(recentRevisions int) (Likelihood, string) {
	switch {
	case recentRevisions >= heuristicModerateThreshold:
		return LikelihoodModerate, "Moderate Activity"
	case recentRevisions >= heuristicLowThreshold:
		return LikelihoodLow, "Low Activity"
	default:
		return LikelihoodUnlikely, "Minimal Activity"
	}
}

func containsAny(text string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(text, p) {
			return true
		}
	}
	return false
}
