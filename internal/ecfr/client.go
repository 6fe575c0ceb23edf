// Package ecfr implements the client for the eCFR public registry API:
// agency metadata, title revision histories, and full-title XML documents.
package ecfr

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// revisionRefLimit caps how many of an agency's CFR references are
// consulted when counting recent revisions. Version histories are large;
// two references cover the dominant titles for nearly every agency.
const revisionRefLimit = 2

// revisionWindow is the trailing window for "recent" amendment activity.
const revisionWindow = 365 * 24 * time.Hour

// Client fetches agency and title data from the registry.
type Client struct {
	http            *http.Client
	baseURL         string
	metadataTimeout time.Duration
	documentTimeout time.Duration
	logger          *slog.Logger
}

// NewClient creates a registry client from the given configuration.
func NewClient(cfg *Config, logger *slog.Logger) *Client {
	return &Client{
		http:            &http.Client{},
		baseURL:         cfg.BaseURL,
		metadataTimeout: cfg.MetadataTimeoutDuration(),
		documentTimeout: cfg.DocumentTimeoutDuration(),
		logger:          logger.With("system", "ecfr"),
	}
}

// Agencies returns the flattened agency list, children expanded with
// their parent slug assigned.
func (c *Client) Agencies(ctx context.Context) ([]Agency, error) {
	url := fmt.Sprintf("%s/admin/v1/agencies.json", c.baseURL)

	var resp agenciesResponse
	if err := c.getJSON(ctx, url, c.metadataTimeout, &resp); err != nil {
		return nil, err
	}

	return Flatten(resp.Agencies), nil
}

// FindAgency returns the agency with the given slug, searching the
// flattened list. Returns ErrNotFound when absent.
func (c *Client) FindAgency(ctx context.Context, slug string) (*Agency, error) {
	agencies, err := c.Agencies(ctx)
	if err != nil {
		return nil, err
	}

	for i := range agencies {
		if agencies[i].Slug == slug {
			return &agencies[i], nil
		}
	}

	return nil, ErrNotFound
}

// TitleVersions returns the revision history for a CFR title.
func (c *Client) TitleVersions(ctx context.Context, title int) ([]ContentVersion, error) {
	url := fmt.Sprintf("%s/versioner/v1/versions/title-%d.json", c.baseURL, title)

	var resp versionsResponse
	if err := c.getJSON(ctx, url, c.metadataTimeout, &resp); err != nil {
		return nil, err
	}

	return resp.ContentVersions, nil
}

// TitleXML fetches the full XML for a CFR title as of the given date
// (YYYY-MM-DD). Uses the long document timeout.
func (c *Client) TitleXML(ctx context.Context, title int, date string) (string, error) {
	url := fmt.Sprintf("%s/versioner/v1/full/%s/title-%d.xml", c.baseURL, date, title)

	reqCtx, cancel := context.WithTimeout(ctx, c.documentTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: title %d at %s: %v", ErrUnavailable, title, date, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: title %d at %s: status %d", ErrUnavailable, title, date, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read title %d body: %w", title, err)
	}

	return string(body), nil
}

// RecentRevisionDates returns the distinct issue dates within the trailing
// 12-month window across the agency's first CFR references, most recent
// first. A title whose version history is unavailable is skipped rather
// than failing the whole count.
func (c *Client) RecentRevisionDates(ctx context.Context, agency *Agency) ([]string, error) {
	since := time.Now().Add(-revisionWindow)

	refs := agency.CFRReferences
	if len(refs) > revisionRefLimit {
		refs = refs[:revisionRefLimit]
	}

	var all []ContentVersion
	for _, ref := range refs {
		if ref.Title == 0 {
			continue
		}

		versions, err := c.TitleVersions(ctx, ref.Title)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			c.logger.Warn("version history unavailable",
				"agency", agency.Slug,
				"title", ref.Title,
				"error", err,
			)
			continue
		}
		all = append(all, versions...)
	}

	return UniqueRecentDates(all, since), nil
}

func (c *Client) getJSON(ctx context.Context, url string, timeout time.Duration, out any) error {
	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrUnavailable, url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %s: status %d", ErrUnavailable, url, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", url, err)
	}

	return nil
}
