// Package config provides configuration management for songbook
package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	sberrors "github.com/memtensor/songbook/pkg/errors"
	"github.com/memtensor/songbook/pkg/interfaces"
)

// EnvPrefix is the prefix for environment overrides, e.g. SONGBOOK_LOG_LEVEL
const EnvPrefix = "SONGBOOK"

// LogConfig represents logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level" json:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" yaml:"format" json:"format" validate:"oneof=text json"`
}

// ImportConfig represents configuration for fetching chord pages
type ImportConfig struct {
	UserAgent    string        `mapstructure:"user_agent" yaml:"user_agent" json:"user_agent" validate:"required"`
	Timeout      time.Duration `mapstructure:"timeout" yaml:"timeout" json:"timeout" validate:"gt=0"`
	MaxBodyBytes int64         `mapstructure:"max_body_bytes" yaml:"max_body_bytes" json:"max_body_bytes" validate:"gt=0"`
}

// ExtractConfig bounds the extraction pipeline over untrusted pages
type ExtractConfig struct {
	MaxVisitedNodes       int `mapstructure:"max_visited_nodes" yaml:"max_visited_nodes" json:"max_visited_nodes" validate:"gt=0"`
	MaxDepth              int `mapstructure:"max_depth" yaml:"max_depth" json:"max_depth" validate:"gt=0"`
	ChordDensityThreshold int `mapstructure:"chord_density_threshold" yaml:"chord_density_threshold" json:"chord_density_threshold" validate:"gt=0"`
}

// GoogleCSEConfig holds Google Custom Search credentials
type GoogleCSEConfig struct {
	Key string `mapstructure:"key" yaml:"key,omitempty" json:"key,omitempty"`
	CX  string `mapstructure:"cx" yaml:"cx,omitempty" json:"cx,omitempty"`
}

// SearchConfig represents online search configuration
type SearchConfig struct {
	Enabled    bool            `mapstructure:"enabled" yaml:"enabled" json:"enabled"`
	Sites      []string        `mapstructure:"sites" yaml:"sites,omitempty" json:"sites,omitempty"`
	GoogleCSE  GoogleCSEConfig `mapstructure:"google_cse" yaml:"google_cse" json:"google_cse"`
	Endpoint   string          `mapstructure:"endpoint" yaml:"endpoint" json:"endpoint" validate:"required,url"`
	MaxResults int             `mapstructure:"max_results" yaml:"max_results" json:"max_results" validate:"min=1,max=10"`
	Timeout    time.Duration   `mapstructure:"timeout" yaml:"timeout" json:"timeout" validate:"gt=0"`
}

// APIConfig represents API server configuration
type APIConfig struct {
	Host         string        `mapstructure:"host" yaml:"host" json:"host" validate:"required"`
	Port         int           `mapstructure:"port" yaml:"port" json:"port" validate:"gt=0,lte=65535"`
	CORSOrigins  []string      `mapstructure:"cors_origins" yaml:"cors_origins,omitempty" json:"cors_origins,omitempty"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout" yaml:"read_timeout" json:"read_timeout" validate:"gt=0"`
	WriteTimeout time.Duration `mapstructure:"write_timeout" yaml:"write_timeout" json:"write_timeout" validate:"gt=0"`
}

// Config is the explicit configuration object handed to every component at
// construction
type Config struct {
	Log     LogConfig     `mapstructure:"log" yaml:"log" json:"log"`
	Import  ImportConfig  `mapstructure:"import" yaml:"import" json:"import"`
	Extract ExtractConfig `mapstructure:"extract" yaml:"extract" json:"extract"`
	Search  SearchConfig  `mapstructure:"search" yaml:"search" json:"search"`
	API     APIConfig     `mapstructure:"api" yaml:"api" json:"api"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Import: ImportConfig{
			UserAgent:    "songbook/1.0",
			Timeout:      15 * time.Second,
			MaxBodyBytes: 5 << 20,
		},
		Extract: ExtractConfig{
			MaxVisitedNodes:       20000,
			MaxDepth:              64,
			ChordDensityThreshold: 8,
		},
		Search: SearchConfig{
			Enabled:    false,
			Endpoint:   "https://www.googleapis.com/customsearch/v1",
			MaxResults: 3,
			Timeout:    10 * time.Second,
		},
		API: APIConfig{
			Host:         "localhost",
			Port:         8080,
			CORSOrigins:  []string{"*"},
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
	}
}

var validate = validator.New()

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return sberrors.NewConfigInvalidError("invalid configuration", err)
	}
	cse := c.Search.GoogleCSE
	if (cse.Key == "") != (cse.CX == "") {
		return sberrors.NewConfigInvalidError("search.google_cse requires both key and cx", nil)
	}
	return nil
}

// SearchBackendConfigured reports whether real online search can run
func (c *Config) SearchBackendConfigured() bool {
	return c.Search.GoogleCSE.Key != "" && c.Search.GoogleCSE.CX != ""
}

// ToYAMLFile saves configuration to a YAML file
func (c *Config) ToYAMLFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}

// Load reads configuration from path (YAML or JSON by extension) layered over
// defaults and SONGBOOK_* environment variables. An empty path uses defaults
// and environment only.
func Load(path string) (*Config, error) {
	v := newViper()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, sberrors.NewConfigNotFoundError(path)
			}
			return nil, sberrors.NewConfigInvalidError("failed to read config file", err)
		}
	}
	return decode(v)
}

func decode(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, sberrors.NewConfigInvalidError("failed to decode config", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v, Default())
	return v
}

// setDefaults registers every key so AutomaticEnv can override it
func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("import.user_agent", d.Import.UserAgent)
	v.SetDefault("import.timeout", d.Import.Timeout)
	v.SetDefault("import.max_body_bytes", d.Import.MaxBodyBytes)
	v.SetDefault("extract.max_visited_nodes", d.Extract.MaxVisitedNodes)
	v.SetDefault("extract.max_depth", d.Extract.MaxDepth)
	v.SetDefault("extract.chord_density_threshold", d.Extract.ChordDensityThreshold)
	v.SetDefault("search.enabled", d.Search.Enabled)
	v.SetDefault("search.sites", d.Search.Sites)
	v.SetDefault("search.google_cse.key", d.Search.GoogleCSE.Key)
	v.SetDefault("search.google_cse.cx", d.Search.GoogleCSE.CX)
	v.SetDefault("search.endpoint", d.Search.Endpoint)
	v.SetDefault("search.max_results", d.Search.MaxResults)
	v.SetDefault("search.timeout", d.Search.Timeout)
	v.SetDefault("api.host", d.API.Host)
	v.SetDefault("api.port", d.API.Port)
	v.SetDefault("api.cors_origins", d.API.CORSOrigins)
	v.SetDefault("api.read_timeout", d.API.ReadTimeout)
	v.SetDefault("api.write_timeout", d.API.WriteTimeout)
}

// Manager implements the configuration manager interface
type Manager struct {
	mu    sync.RWMutex
	viper *viper.Viper
}

var _ interfaces.ConfigManager = (*Manager)(nil)

// NewManager creates a new configuration manager seeded with defaults
func NewManager() *Manager {
	return &Manager{viper: newViper()}
}

// Load loads configuration from a file
func (m *Manager) Load(ctx context.Context, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.viper.SetConfigFile(path)
	if err := m.viper.ReadInConfig(); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return sberrors.NewConfigNotFoundError(path)
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}
	return nil
}

// Get retrieves a configuration value
func (m *Manager) Get(key string) interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.viper.Get(key)
}

// Set sets a configuration value
func (m *Manager) Set(key string, value interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.viper.Set(key, value)
	return nil
}

// Save saves configuration to a file
func (m *Manager) Save(ctx context.Context, path string) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.viper.WriteConfigAs(path)
}

// Config decodes and validates the current settings
func (m *Manager) Config() (*Config, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return decode(m.viper)
}

// Watch watches the loaded file for changes and reports every key after each
// reload, in sorted order
func (m *Manager) Watch(ctx context.Context, callback func(key string, value interface{})) error {
	m.mu.RLock()
	file := m.viper.ConfigFileUsed()
	m.mu.RUnlock()
	if file == "" {
		return sberrors.NewConfigInvalidError("no configuration file loaded to watch", nil)
	}

	m.viper.OnConfigChange(func(e fsnotify.Event) {
		if ctx.Err() != nil {
			return
		}
		m.mu.RLock()
		keys := m.viper.AllKeys()
		sort.Strings(keys)
		values := make([]interface{}, len(keys))
		for i, k := range keys {
			values[i] = m.viper.Get(k)
		}
		m.mu.RUnlock()

		for i, k := range keys {
			callback(k, values[i])
		}
	})
	m.viper.WatchConfig()
	return nil
}
