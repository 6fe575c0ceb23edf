package deregulation

import (
	"errors"
	"strings"
)

// ErrUnparseableResponse indicates the model response did not follow the
// LIKELIHOOD/EXPLANATION grammar. Callers fall back to the
// revision-count heuristic.
var ErrUnparseableResponse = errors.New("unparseable model response")

// ModelVerdict is the structured content extracted from a model response.
type ModelVerdict struct {
	Likelihood  Likelihood
	Explanation string
}

// ParseVerdict extracts the likelihood token and explanation from a
// model response. Emphasis markup is stripped before matching. Returns
// ErrUnparseableResponse when no recognizable likelihood token is found.
func ParseVerdict(content string) (*ModelVerdict, error) {
	clean := strings.NewReplacer("**", "", "*", "").Replace(content)

	verdict := &ModelVerdict{Likelihood: LikelihoodUnknown}

	for _, line := range strings.Split(clean, "\n") {
		line = strings.TrimSpace(line)

		if v, ok := strings.CutPrefix(line, "LIKELIHOOD:"); ok {
			verdict.Likelihood = parseLikelihoodToken(v)
			continue
		}

		if v, ok := strings.CutPrefix(line, "EXPLANATION:"); ok {
			verdict.Explanation = strings.TrimSpace(v)
		}
	}

	if verdict.Likelihood == LikelihoodUnknown {
		return nil, ErrUnparseableResponse
	}

	return verdict, nil
}

func parseLikelihoodToken(token string) Likelihood {
	switch strings.ToLower(strings.TrimSpace(token)) {
	case "strong":
		return LikelihoodStrong
	case "moderate":
		return LikelihoodModerate
	case "low":
		return LikelihoodLow
	case "unlikely":
		return LikelihoodUnlikely
	default:
		return LikelihoodUnknown
	}
}
