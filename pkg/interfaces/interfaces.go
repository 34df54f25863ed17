// Package interfaces defines the collaborator interfaces used across songbook
package interfaces

import (
	"context"

	"github.com/memtensor/songbook/pkg/types"
)

// Fetcher retrieves raw page HTML for a URL
type Fetcher interface {
	// Fetch returns the response body for url, or an error carrying the
	// HTTP status or transport failure
	Fetch(ctx context.Context, url string) (string, error)
}

// Extractor converts a page's HTML into a song draft
type Extractor interface {
	// Extract runs the extraction pipeline over a single HTML document
	Extract(html, sourceURL string) (*types.ImportDraft, error)
}

// Importer fetches a page and extracts a draft from it
type Importer interface {
	// Import fetches url and extracts a draft, returning a typed error on failure
	Import(ctx context.Context, url string) (*types.ImportDraft, error)

	// ImportFromURL is Import folded into the boundary result shape
	ImportFromURL(ctx context.Context, url string) types.ImportResult
}

// Searcher looks up chord sheets online
type Searcher interface {
	// Search returns at most a handful of results for query
	Search(ctx context.Context, query string) ([]types.SearchResult, error)
}

// ConfigManager defines the interface for configuration management
type ConfigManager interface {
	// Load loads configuration from a file
	Load(ctx context.Context, path string) error

	// Get retrieves a configuration value
	Get(key string) interface{}

	// Set sets a configuration value
	Set(key string, value interface{}) error

	// Save saves configuration to a file
	Save(ctx context.Context, path string) error

	// Watch watches for configuration changes
	Watch(ctx context.Context, callback func(key string, value interface{})) error
}

// Logger defines the interface for logging implementations
type Logger interface {
	// Debug logs debug level messages
	Debug(msg string, fields ...map[string]interface{})

	// Info logs info level messages
	Info(msg string, fields ...map[string]interface{})

	// Warn logs warning level messages
	Warn(msg string, fields ...map[string]interface{})

	// Error logs error level messages
	Error(msg string, err error, fields ...map[string]interface{})

	// Fatal logs fatal level messages and exits
	Fatal(msg string, err error, fields ...map[string]interface{})

	// WithFields returns a logger with additional fields
	WithFields(fields map[string]interface{}) Logger
}

// Metrics defines the interface for metrics collection
type Metrics interface {
	// Counter increments a counter metric
	Counter(name string, value float64, labels map[string]string)

	// Gauge sets a gauge metric
	Gauge(name string, value float64, labels map[string]string)

	// Histogram records a histogram metric
	Histogram(name string, value float64, labels map[string]string)

	// Timer records timing metrics
	Timer(name string, duration float64, labels map[string]string)
}
