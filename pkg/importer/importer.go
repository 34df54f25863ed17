// Package importer fetches chord-sheet pages and turns them into drafts
package importer

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/memtensor/songbook/pkg/config"
	sberrors "github.com/memtensor/songbook/pkg/errors"
	"github.com/memtensor/songbook/pkg/extract"
	"github.com/memtensor/songbook/pkg/interfaces"
	"github.com/memtensor/songbook/pkg/logger"
	"github.com/memtensor/songbook/pkg/metrics"
	"github.com/memtensor/songbook/pkg/types"
)

// Importer combines a fetcher with the extraction pipeline
type Importer struct {
	fetcher   interfaces.Fetcher
	extractor interfaces.Extractor
	logger    interfaces.Logger
	metrics   interfaces.Metrics
}

// New creates an importer using HTTP fetching and the extractor built from
// cfg
func New(cfg *config.Config, log interfaces.Logger, m interfaces.Metrics) *Importer {
	if cfg == nil {
		cfg = config.Default()
	}
	return NewWithFetcher(NewHTTPFetcher(cfg.Import), extract.New(cfg.Extract, log), log, m)
}

// NewWithFetcher creates an importer from explicit collaborators
func NewWithFetcher(f interfaces.Fetcher, e interfaces.Extractor, log interfaces.Logger, m interfaces.Metrics) *Importer {
	if log == nil {
		log = logger.NewNopLogger()
	}
	if m == nil {
		m = metrics.NewNoOpMetrics()
	}
	return &Importer{fetcher: f, extractor: e, logger: log, metrics: m}
}

// Import fetches rawURL and extracts a draft from it
func (i *Importer) Import(ctx context.Context, rawURL string) (*types.ImportDraft, error) {
	rawURL = strings.TrimSpace(rawURL)
	if err := validateURL(rawURL); err != nil {
		i.record(err, 0)
		return nil, err
	}

	log := i.logger.WithFields(map[string]interface{}{"url": rawURL})
	log.Info("Importing page")

	start := time.Now()
	page, err := i.fetcher.Fetch(ctx, rawURL)
	i.metrics.Timer("import_fetch_seconds", time.Since(start).Seconds(), map[string]string{
		"host": extract.Hostname(rawURL),
	})
	if err != nil {
		log.Warn("Fetch failed", map[string]interface{}{"error": err.Error()})
		i.record(err, 0)
		return nil, err
	}

	draft, err := i.extractor.Extract(page, rawURL)
	if err != nil {
		log.Warn("Extraction failed", map[string]interface{}{"error": err.Error()})
		i.record(err, 0)
		return nil, err
	}

	log.Info("Imported draft", map[string]interface{}{
		"title": draft.Title,
		"lines": len(draft.Lines),
	})
	i.record(nil, len(draft.Lines))
	return draft, nil
}

// ImportFromURL runs Import and folds the outcome into an ImportResult
func (i *Importer) ImportFromURL(ctx context.Context, rawURL string) types.ImportResult {
	draft, err := i.Import(ctx, rawURL)
	if err != nil {
		return types.ImportResult{Error: sberrors.UserMessage(err)}
	}
	return types.ImportResult{Draft: draft}
}

func (i *Importer) record(err error, lines int) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
		if sbErr := sberrors.GetSongbookError(err); sbErr != nil {
			outcome = strings.ToLower(string(sbErr.Code))
		}
	} else {
		i.metrics.Histogram("import_draft_lines", float64(lines), nil)
	}
	i.metrics.Counter("import_requests_total", 1, map[string]string{"outcome": outcome})
}

// validateURL accepts absolute http and https URLs only
func validateURL(rawURL string) error {
	if rawURL == "" {
		return sberrors.NewMissingFieldError("url")
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return sberrors.NewInvalidURLError(rawURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return sberrors.NewInvalidURLError(rawURL, nil)
	}
	return nil
}

var _ interfaces.Importer = (*Importer)(nil)
