package deregulation_test

import (
	"context"
	"errors"
	"testing"

	"github.com/JaimeStill/proctor/internal/deregulation"
	"github.com/JaimeStill/proctor/internal/ecfr"
)

type fakeRevisions struct {
	dates []string
	err   error
}

func (f *fakeRevisions) RecentRevisionDates(ctx context.Context, agency *ecfr.Agency) ([]string, error) {
	return f.dates, f.err
}

type fakeModel struct {
	response string
	err      error
}

func (f *fakeModel) Analyze(ctx context.Context, prompt string) (string, error) {
	return f.response, f.err
}

func assessAgency() *ecfr.Agency {
	return &ecfr.Agency{
		Name:          "Department of Examples",
		Slug:          "examples",
		CFRReferences: []ecfr.CFRReference{{Title: 12}},
	}
}

func dates(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = "2025-0" + string(rune('1'+i%9)) + "-15"
	}
	return out
}

func TestAssessNoRevisionsShortCircuits(t *testing.T) {
	model := &fakeModel{err: errors.New("should not be called")}
	analyzer := deregulation.NewAnalyzer(&fakeRevisions{}, model, testLogger())

	cmd, err := analyzer.Assess(context.Background(), assessAgency())
	if err != nil {
		t.Fatalf("Assess() error = %v", err)
	}

	if cmd.Likelihood != deregulation.LikelihoodUnlikely {
		t.Errorf("likelihood = %s, want unlikely", cmd.Likelihood)
	}
	if cmd.Analysis != "No revisions in last 12 months" {
		t.Errorf("analysis = %q", cmd.Analysis)
	}
	if cmd.FullAnalysis != nil {
		t.Error("no model call means no full analysis")
	}
}

func TestAssessModelVerdict(t *testing.T) {
	model := &fakeModel{
		response: "LIKELIHOOD: moderate\nEXPLANATION: Streamlining across chapters.",
	}
	analyzer := deregulation.NewAnalyzer(
		&fakeRevisions{dates: dates(6)},
		model,
		testLogger(),
	)

	cmd, err := analyzer.Assess(context.Background(), assessAgency())
	if err != nil {
		t.Fatalf("Assess() error = %v", err)
	}

	if cmd.Likelihood != deregulation.LikelihoodModerate {
		t.Errorf("likelihood = %s, want moderate", cmd.Likelihood)
	}
	if cmd.Label != deregulation.LabelModerate {
		t.Errorf("label = %q, want %q", cmd.Label, deregulation.LabelModerate)
	}
	if cmd.Analysis != "Streamlining across chapters." {
		t.Errorf("analysis = %q", cmd.Analysis)
	}
	if cmd.FullAnalysis == nil || *cmd.FullAnalysis != model.response {
		t.Error("full analysis should carry the raw model response")
	}
	if cmd.RecentRevisions != 6 {
		t.Errorf("recent revisions = %d, want 6", cmd.RecentRevisions)
	}
}

func TestAssessModelFailureFallsBack(t *testing.T) {
	tests := []struct {
		name      string
		model     *fakeModel
		revisions int
		want      deregulation.Likelihood
		wantLabel string
	}{
		{
			name:      "call failure with high activity",
			model:     &fakeModel{err: errors.New("timeout")},
			revisions: 12,
			want:      deregulation.LikelihoodModerate,
			wantLabel: "Moderate Activity",
		},
		{
			name:      "call failure with mid activity",
			model:     &fakeModel{err: errors.New("timeout")},
			revisions: 6,
			want:      deregulation.LikelihoodLow,
			wantLabel: "Low Activity",
		},
		{
			name:      "unparseable response with low activity",
			model:     &fakeModel{response: "I cannot assess this agency."},
			revisions: 3,
			want:      deregulation.LikelihoodUnlikely,
			wantLabel: "Minimal Activity",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			analyzer := deregulation.NewAnalyzer(
				&fakeRevisions{dates: dates(tt.revisions)},
				tt.model,
				testLogger(),
			)

			cmd, err := analyzer.Assess(context.Background(), assessAgency())
			if err != nil {
				t.Fatalf("Assess() error = %v", err)
			}

			if cmd.Likelihood != tt.want {
				t.Errorf("likelihood = %s, want %s", cmd.Likelihood, tt.want)
			}
			if cmd.Label != tt.wantLabel {
				t.Errorf("label = %q, want %q", cmd.Label, tt.wantLabel)
			}
			if cmd.FullAnalysis != nil {
				t.Error("heuristic results should not carry a full analysis")
			}
		})
	}
}

func TestAssessUnconfigured(t *testing.T) {
	analyzer := deregulation.NewAnalyzer(&fakeRevisions{}, nil, testLogger())

	_, err := analyzer.Assess(context.Background(), assessAgency())
	if !errors.Is(err, deregulation.ErrNotConfigured) {
		t.Errorf("Assess() error = %v, want ErrNotConfigured", err)
	}
}

func TestAssessRegistryFailurePropagates(t *testing.T) {
	analyzer := deregulation.NewAnalyzer(
		&fakeRevisions{err: errors.New("versions down")},
		&fakeModel{},
		testLogger(),
	)

	if _, err := analyzer.Assess(context.Background(), assessAgency()); err == nil {
		t.Error("Assess() should propagate registry failures")
	}
}
