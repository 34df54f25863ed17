// Package search finds chord sheets online through Google Custom Search,
// falling back to deterministic placeholder results when no search backend
// is configured.
package search

import (
	"context"
	"net/url"
	"regexp"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/memtensor/songbook/pkg/config"
	sberrors "github.com/memtensor/songbook/pkg/errors"
	"github.com/memtensor/songbook/pkg/extract"
	"github.com/memtensor/songbook/pkg/interfaces"
	"github.com/memtensor/songbook/pkg/logger"
	"github.com/memtensor/songbook/pkg/types"
)

var (
	slugInvalid = regexp.MustCompile(`[^a-z0-9]+`)
	slugEdges   = regexp.MustCompile(`(^-|-$)+`)
)

// Client runs online searches
type Client struct {
	cfg    config.SearchConfig
	http   *resty.Client
	logger interfaces.Logger
}

// cseResponse is the subset of a Custom Search response that is used
type cseResponse struct {
	Items []cseItem `json:"items"`
}

type cseItem struct {
	Title        string `json:"title"`
	Link         string `json:"link"`
	FormattedURL string `json:"formattedUrl"`
	DisplayLink  string `json:"displayLink"`
}

// New creates a search client
func New(cfg config.SearchConfig, log interfaces.Logger) *Client {
	defaults := config.Default().Search
	if cfg.Endpoint == "" {
		cfg.Endpoint = defaults.Endpoint
	}
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = defaults.MaxResults
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaults.Timeout
	}
	if log == nil {
		log = logger.NewNopLogger()
	}

	client := resty.New()
	client.SetTimeout(cfg.Timeout)
	client.SetRetryCount(0)
	client.SetHeader("Accept", "application/json")

	return &Client{cfg: cfg, http: client, logger: log}
}

// BackendConfigured reports whether Custom Search credentials are present
func (c *Client) BackendConfigured() bool {
	return c.cfg.GoogleCSE.Key != "" && c.cfg.GoogleCSE.CX != ""
}

// Search looks query up. A blank query yields no results. Without a
// configured backend placeholder results derived from the query are
// returned. Backend failures are logged and yield whatever was collected.
func (c *Client) Search(ctx context.Context, query string) ([]types.SearchResult, error) {
	if !c.cfg.Enabled {
		return nil, sberrors.NewSearchDisabledError()
	}
	q := strings.TrimSpace(query)
	if q == "" {
		return []types.SearchResult{}, nil
	}
	if !c.BackendConfigured() {
		return StubResults(q), nil
	}
	return c.searchCSE(ctx, q), nil
}

func (c *Client) searchCSE(ctx context.Context, q string) []types.SearchResult {
	results := []types.SearchResult{}
	log := c.logger.WithFields(map[string]interface{}{"query": q})

	var body cseResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"q":   q,
			"key": c.cfg.GoogleCSE.Key,
			"cx":  c.cfg.GoogleCSE.CX,
			"num": "10",
		}).
		SetResult(&body).
		Get(c.cfg.Endpoint)
	if err != nil {
		log.Warn("Custom Search query failed", map[string]interface{}{"error": err.Error()})
		return results
	}
	if resp.IsError() {
		log.Warn("Custom Search query failed", map[string]interface{}{"status": resp.StatusCode()})
		return results
	}

	seen := make(map[string]bool)
	for _, item := range body.Items {
		if len(results) >= c.cfg.MaxResults {
			break
		}
		link := item.Link
		if link == "" {
			link = item.FormattedURL
		}
		if link == "" {
			continue
		}
		domain := item.DisplayLink
		if domain == "" {
			domain = extract.Hostname(link)
		}
		key := strings.TrimPrefix(strings.ToLower(domain), "www.")
		if seen[key] || !c.siteAllowed(domain) {
			continue
		}
		seen[key] = true

		title := item.Title
		if title == "" {
			title = q
		}
		results = append(results, types.SearchResult{
			ID:     Slug(q) + "-" + Slug(domain),
			Title:  title,
			Source: types.OnlineSource{Site: domain, URL: link},
		})
	}

	log.Debug("Custom Search results", map[string]interface{}{
		"items":   len(body.Items),
		"results": len(results),
	})
	return results
}

// siteAllowed reports whether domain is one of the configured sites or a
// subdomain of one. An empty site list allows everything.
func (c *Client) siteAllowed(domain string) bool {
	if len(c.cfg.Sites) == 0 {
		return true
	}
	domain = strings.TrimPrefix(strings.ToLower(domain), "www.")
	for _, site := range c.cfg.Sites {
		site = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(site)), "www.")
		if site != "" && (domain == site || strings.HasSuffix(domain, "."+site)) {
			return true
		}
	}
	return false
}

// StubResults returns three deterministic placeholder results for q
func StubResults(q string) []types.SearchResult {
	base := Slug(q)
	escaped := url.PathEscape(base)
	return []types.SearchResult{
		{
			ID:     base + "-ug",
			Title:  q + " (Chords)",
			Artist: "Unknown Artist",
			Source: types.OnlineSource{Site: "ExampleUG", URL: "https://www.e-chords.com/ug/" + escaped},
		},
		{
			ID:     base + "-cfy",
			Title:  q + " (Live)",
			Artist: "Unknown Artist",
			Source: types.OnlineSource{Site: "ExampleChordify", URL: "https://example.com/cfy/" + escaped},
		},
		{
			ID:     base + "-misc",
			Title:  q + " - Acoustic",
			Artist: "Unknown Artist",
			Source: types.OnlineSource{Site: "ExampleMisc", URL: "https://example.com/m/" + escaped},
		},
	}
}

// Slug lowercases s and joins its alphanumeric runs with "-"
func Slug(s string) string {
	s = slugInvalid.ReplaceAllString(strings.ToLower(s), "-")
	return slugEdges.ReplaceAllString(s, "")
}

var _ interfaces.Searcher = (*Client)(nil)
