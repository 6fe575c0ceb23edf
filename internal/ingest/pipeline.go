// Package ingest builds a snapshot generation: it fetches every
// referenced CFR title from the registry, extracts and measures each
// agency's regulatory text, and appends one metric snapshot per agency
// for the run date. Titles are fetched once and shared across the
// agencies that reference them.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/JaimeStill/proctor/internal/ecfr"
	"github.com/JaimeStill/proctor/internal/snapshots"
	"github.com/JaimeStill/proctor/pkg/formatting"
	"github.com/JaimeStill/proctor/pkg/scoring"
	"github.com/JaimeStill/proctor/pkg/storage"
)

// Pipeline drives one snapshot generation run.
type Pipeline struct {
	registry *ecfr.Client
	store    snapshots.System
	archive  storage.System
	logger   *slog.Logger
}

// Result summarizes one ingest run.
type Result struct {
	SnapshotDate time.Time `json:"snapshot_date"`
	Titles       int       `json:"titles"`
	Appended     int       `json:"appended"`
	Duplicates   int       `json:"duplicates"`
	Failed       int       `json:"failed"`
	Duration     string    `json:"duration"`
}

// New creates an ingest pipeline. A nil archive disables XML archival;
// snapshot generation proceeds without it.
func New(
	registry *ecfr.Client,
	store snapshots.System,
	archive storage.System,
	logger *slog.Logger,
) *Pipeline {
	return &Pipeline{
		registry: registry,
		store:    store,
		archive:  archive,
		logger:   logger.With("system", "ingest"),
	}
}

// Run generates snapshots dated date for at most limit agencies when
// limit is positive. A title that cannot be fetched or parsed is logged
// and skipped; agencies whose every reference landed on a skipped title
// are counted failed. Duplicate appends for the run date are counted
// separately and do not fail the run.
func (p *Pipeline) Run(ctx context.Context, date time.Time, limit int) (*Result, error) {
	started := time.Now()

	agencies, err := p.registry.Agencies(ctx)
	if err != nil {
		return nil, fmt.Errorf("list agencies: %w", err)
	}

	var population []ecfr.Agency
	for _, a := range agencies {
		if a.HasReferences() {
			population = append(population, a)
		}
	}
	if limit > 0 && len(population) > limit {
		population = population[:limit]
	}

	children := childIndex(agencies)
	titles := p.fetchTitles(ctx, population, date)

	result := &Result{
		SnapshotDate: date,
		Titles:       len(titles),
	}

	for i := range population {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		agency := &population[i]
		cmd, ok := p.measure(agency, titles, date, children)
		if !ok {
			result.Failed++
			continue
		}

		if _, err := p.store.Append(ctx, *cmd); err != nil {
			if errors.Is(err, snapshots.ErrDuplicate) {
				result.Duplicates++
				continue
			}
			result.Failed++
			p.logger.Error("snapshot append failed",
				"agency", agency.Slug,
				"error", err,
			)
			continue
		}

		result.Appended++
	}

	result.Duration = time.Since(started).Round(time.Millisecond).String()

	p.logger.Info("ingest finished",
		"date", date.Format("2006-01-02"),
		"titles", result.Titles,
		"appended", result.Appended,
		"duplicates", result.Duplicates,
		"failed", result.Failed,
		"duration", result.Duration,
	)

	return result, nil
}

// fetchTitles downloads and parses every title referenced by the
// population, keyed by title number. Fetch or parse failures drop the
// title from the map.
func (p *Pipeline) fetchTitles(
	ctx context.Context,
	population []ecfr.Agency,
	date time.Time,
) map[int]*ecfr.TitleContent {
	needed := make(map[int]struct{})
	for _, a := range population {
		for _, ref := range a.CFRReferences {
			if ref.Title > 0 {
				needed[ref.Title] = struct{}{}
			}
		}
	}

	dateStr := date.Format("2006-01-02")
	titles := make(map[int]*ecfr.TitleContent, len(needed))

	for title := range needed {
		if ctx.Err() != nil {
			return titles
		}

		raw, err := p.registry.TitleXML(ctx, title, dateStr)
		if err != nil {
			p.logger.Warn("title fetch failed", "title", title, "error", err)
			continue
		}

		content, err := ecfr.ParseTitle(raw)
		if err != nil {
			p.logger.Warn("title parse failed", "title", title, "error", err)
			continue
		}

		titles[title] = content
		p.logger.Info("title parsed",
			"title", title,
			"size", formatting.FormatBytes(int64(len(raw)), 1),
			"words", content.WordCount,
			"chapters", len(content.Chapters),
		)

		p.archiveTitle(ctx, title, dateStr, raw)
	}

	return titles
}

// archiveTitle uploads raw title XML to the archive, best effort. A key
// already present is left untouched so re-running a date does not
// re-upload unchanged titles.
func (p *Pipeline) archiveTitle(ctx context.Context, title int, date, raw string) {
	if p.archive == nil {
		return
	}

	key := fmt.Sprintf("titles/%s/title-%d.xml", date, title)

	if exists, err := p.archive.Exists(ctx, key); err == nil && exists {
		return
	}

	err := p.archive.Upload(ctx, key, strings.NewReader(raw), "application/xml")
	if err != nil {
		p.logger.Warn("title archival failed", "key", key, "error", err)
	}
}

// measure aggregates one agency's text across its references. A
// chapter-scoped reference uses the chapter's chunk when the title
// exposes it, otherwise the whole title. Returns false when no
// referenced title was available.
func (p *Pipeline) measure(
	agency *ecfr.Agency,
	titles map[int]*ecfr.TitleContent,
	date time.Time,
	children map[string][]string,
) (*snapshots.AppendCommand, bool) {
	var words int64
	var texts []string
	var checksums []string

	for _, ref := range agency.CFRReferences {
		content, ok := titles[ref.Title]
		if !ok {
			continue
		}

		text := content.Text
		count := content.WordCount
		if ref.Chapter != nil {
			if ch, ok := content.Chapters[*ref.Chapter]; ok {
				text = ch.Text
				count = ch.WordCount
			}
		}

		words += int64(count)
		texts = append(texts, text)
		checksums = append(checksums, scoring.Checksum(text))
	}

	if len(texts) == 0 {
		p.logger.Warn("no title content available", "agency", agency.Slug)
		return nil, false
	}

	combined := strings.Join(texts, " ")

	return &snapshots.AppendCommand{
		AgencySlug:      agency.Slug,
		AgencyName:      agency.Name,
		ParentSlug:      agency.ParentSlug,
		ChildSlugs:      children[agency.Slug],
		SnapshotDate:    date,
		WordCount:       words,
		ComplexityScore: scoring.Complexity(combined),
		Checksum:        scoring.AggregateChecksum(checksums),
		CFRReferences:   agency.CFRReferences,
	}, true
}

// childIndex maps each parent slug to the slugs of its children.
func childIndex(agencies []ecfr.Agency) map[string][]string {
	index := make(map[string][]string)
	for _, a := range agencies {
		if a.ParentSlug != nil {
			index[*a.ParentSlug] = append(index[*a.ParentSlug], a.Slug)
		}
	}
	return index
}
