// Package scoring provides deterministic metrics over regulatory text:
// a lexical complexity score and an order-insensitive content checksum.
package scoring

import (
	"math"
	"regexp"
	"strings"
)

// Weights applied to each indicator class, normalized per 1000 words.
// These constants are load-bearing: historical scores were computed with
// them and changing any value invalidates stored snapshots.
const (
	weightObligations = 0.40
	weightCrossRefs   = 0.25
	weightEnforcement = 0.20
	weightExceptions  = 0.15
)

var (
	obligationPattern  = regexp.MustCompile(`\b(shall|must|may|should|required)\b`)
	crossRefPattern    = regexp.MustCompile(`(§|CFR|\bcfr\b)`)
	enforcementPattern = regexp.MustCompile(`\b(penalty|violation|compliance|fine|sanction)\b`)
	exceptionPattern   = regexp.MustCompile(`\b(except|unless|provided that|notwithstanding)\b`)
)

// Complexity computes the regulatory complexity score for a body of text.
// Four lexical indicator classes are counted, normalized to occurrences per
// 1000 words, weighted, and summed: obligation modals, cross-reference
// markers, enforcement terms, and conditional/exception markers.
//
// The result is non-negative, deterministic, and rounded to two decimal
// places. Empty or whitespace-only input scores 0.
func Complexity(text string) float64 {
	totalWords := len(strings.Fields(text))
	if totalWords == 0 {
		return 0
	}

	lower := strings.ToLower(text)

	obligations := len(obligationPattern.FindAllString(lower, -1))
	crossRefs := len(crossRefPattern.FindAllString(text, -1))
	enforcement := len(enforcementPattern.FindAllString(lower, -1))
	exceptions := len(exceptionPattern.FindAllString(lower, -1))

	perThousand := 1000.0 / float64(totalWords)

	score := float64(obligations)*perThousand*weightObligations +
		float64(crossRefs)*perThousand*weightCrossRefs +
		float64(enforcement)*perThousand*weightEnforcement +
		float64(exceptions)*perThousand*weightExceptions

	return round2(score)
}

// WordCount returns the whitespace-tokenized word count of text.
func WordCount(text string) int {
	return len(strings.Fields(text))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
