package deregulation_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/JaimeStill/proctor/internal/deregulation"
	"github.com/JaimeStill/proctor/internal/ecfr"
)

type fakeRegistry struct {
	agencies []ecfr.Agency
	err      error
}

func (f *fakeRegistry) Agencies(ctx context.Context) ([]ecfr.Agency, error) {
	return f.agencies, f.err
}

type fakeAssessor struct {
	configured bool
	failSlugs  map[string]bool
}

func (f *fakeAssessor) Configured() bool { return f.configured }

func (f *fakeAssessor) Assess(ctx context.Context, agency *ecfr.Agency) (*deregulation.UpsertCommand, error) {
	if f.failSlugs[agency.Slug] {
		return nil, fmt.Errorf("registry unavailable for %s", agency.Slug)
	}
	return &deregulation.UpsertCommand{
		AgencySlug: agency.Slug,
		AgencyName: agency.Name,
		Likelihood: deregulation.LikelihoodLow,
		Label:      deregulation.LabelLow,
	}, nil
}

type fakeCache struct {
	mu      sync.Mutex
	written []string
	err     error
}

func (f *fakeCache) UpsertIsolated(ctx context.Context, cmd deregulation.UpsertCommand) (*deregulation.Assessment, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.mu.Lock()
	f.written = append(f.written, cmd.AgencySlug)
	f.mu.Unlock()
	return &deregulation.Assessment{AgencySlug: cmd.AgencySlug}, nil
}

func testAgencies(n int) []ecfr.Agency {
	agencies := make([]ecfr.Agency, n)
	for i := range agencies {
		agencies[i] = ecfr.Agency{
			Name:          fmt.Sprintf("Agency %d", i+1),
			Slug:          fmt.Sprintf("agency-%d", i+1),
			CFRReferences: []ecfr.CFRReference{{Title: i + 1}},
		}
	}
	return agencies
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestBatchRunIsolatesFailures(t *testing.T) {
	registry := &fakeRegistry{agencies: testAgencies(5)}
	assessor := &fakeAssessor{
		configured: true,
		failSlugs:  map[string]bool{"agency-3": true},
	}
	cache := &fakeCache{}

	job := deregulation.NewBatchJob(registry, assessor, cache, 2, testLogger())

	result, err := job.Run(context.Background(), 0)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if result.Total != 5 {
		t.Errorf("total = %d, want 5", result.Total)
	}
	if result.Succeeded != 4 {
		t.Errorf("succeeded = %d, want 4", result.Succeeded)
	}
	if result.Failed != 1 {
		t.Errorf("failed = %d, want 1", result.Failed)
	}
	if result.Skipped != 0 {
		t.Errorf("skipped = %d, want 0", result.Skipped)
	}
	if len(cache.written) != 4 {
		t.Errorf("cache writes = %d, want 4", len(cache.written))
	}
	for _, slug := range cache.written {
		if slug == "agency-3" {
			t.Error("failed agency should not be written")
		}
	}
}

func TestBatchRunHonorsLimit(t *testing.T) {
	registry := &fakeRegistry{agencies: testAgencies(10)}
	assessor := &fakeAssessor{configured: true}
	cache := &fakeCache{}

	job := deregulation.NewBatchJob(registry, assessor, cache, 4, testLogger())

	result, err := job.Run(context.Background(), 3)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if result.Total != 3 || result.Succeeded != 3 {
		t.Errorf("total/succeeded = %d/%d, want 3/3", result.Total, result.Succeeded)
	}
}

func TestBatchRunExcludesAgenciesWithoutReferences(t *testing.T) {
	agencies := testAgencies(3)
	agencies = append(agencies, ecfr.Agency{Name: "Paper Tiger", Slug: "paper-tiger"})

	registry := &fakeRegistry{agencies: agencies}
	assessor := &fakeAssessor{configured: true}
	cache := &fakeCache{}

	job := deregulation.NewBatchJob(registry, assessor, cache, 2, testLogger())

	result, err := job.Run(context.Background(), 0)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if result.Total != 3 {
		t.Errorf("total = %d, want 3 (agency without references excluded)", result.Total)
	}
}

func TestBatchRunUnconfigured(t *testing.T) {
	job := deregulation.NewBatchJob(
		&fakeRegistry{agencies: testAgencies(1)},
		&fakeAssessor{configured: false},
		&fakeCache{},
		1,
		testLogger(),
	)

	_, err := job.Run(context.Background(), 0)
	if !errors.Is(err, deregulation.ErrNotConfigured) {
		t.Errorf("Run() error = %v, want ErrNotConfigured", err)
	}
}

func TestBatchRunRegistryFailure(t *testing.T) {
	job := deregulation.NewBatchJob(
		&fakeRegistry{err: errors.New("listing down")},
		&fakeAssessor{configured: true},
		&fakeCache{},
		1,
		testLogger(),
	)

	if _, err := job.Run(context.Background(), 0); err == nil {
		t.Error("Run() should fail when the agency list is unavailable")
	}
}

func TestBatchRunCacheWriteFailure(t *testing.T) {
	registry := &fakeRegistry{agencies: testAgencies(2)}
	assessor := &fakeAssessor{configured: true}
	cache := &fakeCache{err: errors.New("connection refused")}

	job := deregulation.NewBatchJob(registry, assessor, cache, 2, testLogger())

	result, err := job.Run(context.Background(), 0)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if result.Failed != 2 || result.Succeeded != 0 {
		t.Errorf("failed/succeeded = %d/%d, want 2/0", result.Failed, result.Succeeded)
	}
}
