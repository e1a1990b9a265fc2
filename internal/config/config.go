package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BadgerOps/fxsnap/internal/safety"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Folder layouts understood by the snapshot builder.
const (
	LayoutDated   = "dated"
	LayoutNumeric = "numeric"
)

// Default base directories, one per layout.
const (
	DefaultDatedBaseDir   = "data/Currency Raw Data"
	DefaultNumericBaseDir = "data/Currency rate PDF DATA"
)

// Environment variables that override file settings.
const (
	EnvBaseDir  = "FXSNAP_BASE_DIR"
	EnvLayout   = "FXSNAP_LAYOUT"
	EnvLogLevel = "FXSNAP_LOG_LEVEL"
)

// Configuration validation errors.
var (
	ErrNoSources          = errors.New("at least one source is required")
	ErrSourceMissingName  = errors.New("source name is required")
	ErrSourceMissingURL   = errors.New("source url is required")
	ErrSourceMissingExt   = errors.New("source extension is required")
	ErrDuplicateSource    = errors.New("source names must be unique")
	ErrMissingBaseDir     = errors.New("output.base_dir is required")
	ErrInvalidLayout      = errors.New("output.layout must be 'dated' or 'numeric'")
	ErrInvalidRetries     = errors.New("fetch.retry_attempts must be at least 1")
	ErrInvalidBackoff     = errors.New("fetch.backoff_unit_sec must be non-negative")
	ErrInvalidTimeout     = errors.New("fetch.timeout_sec must be at least 1")
	ErrInvalidMaxBodySize = errors.New("fetch.max_body_size must be a positive size")
	ErrInvalidLogLevel    = errors.New("log_level must be one of: debug, info, warn, error")
)

// Config is the top-level configuration
type Config struct {
	LogLevel string       `yaml:"log_level"`
	Output   OutputConfig `yaml:"output"`
	Fetch    FetchConfig  `yaml:"fetch"`
	Run      RunConfig    `yaml:"run"`
	Sources  []Source     `yaml:"sources"`
}

// OutputConfig controls where snapshots land
type OutputConfig struct {
	BaseDir     string `yaml:"base_dir"`
	Layout      string `yaml:"layout"`
	ReadmeTitle string `yaml:"readme_title"`
}

// FetchConfig holds HTTP and retry settings
type FetchConfig struct {
	TimeoutSec     int               `yaml:"timeout_sec"`
	RetryAttempts  int               `yaml:"retry_attempts"`
	BackoffUnitSec int               `yaml:"backoff_unit_sec"`
	MaxBodySize    string            `yaml:"max_body_size"`
	Headers        map[string]string `yaml:"headers"`
}

// RunConfig holds per-invocation behaviour
type RunConfig struct {
	// Strict makes the CLI exit non-zero when any source failed.
	Strict bool `yaml:"strict"`
}

// Source describes one document to archive.
type Source struct {
	Name      string `yaml:"name"`
	URL       string `yaml:"url"`
	Extension string `yaml:"extension"`
}

// FileName returns the on-disk name for the source, e.g. "HDFC_Rates.pdf".
func (s Source) FileName() string {
	return safety.FileName(s.Name, s.Extension)
}

// DefaultHeaders mimic a desktop browser; some bank sites refuse bare clients.
func DefaultHeaders() map[string]string {
	return map[string]string{
		"User-Agent":      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		"Accept":          "application/pdf, text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
		"Accept-Language": "en-US,en;q=0.9",
	}
}

// DefaultSources returns the three bank rate documents.
func DefaultSources() []Source {
	return []Source{
		{
			Name:      "HDFC_Rates",
			URL:       "https://www.hdfcbank.com/content/bbp/repositories/723fb80a-2dde-42a3-9793-7ae1be57c87f/?path=/Personal/Home/content/rates.pdf",
			Extension: "pdf",
		},
		{
			Name:      "AXIS_Rates",
			URL:       "https://application.axisbank.co.in/WebForms/corporatecardrate/index.aspx",
			Extension: "html",
		},
		{
			Name:      "ICICI_Rates",
			URL:       "https://www.icicibank.com/corporate/global-markets/forex/forex-card-rate",
			Extension: "html",
		},
	}
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		LogLevel: "info",
		Output: OutputConfig{
			BaseDir:     DefaultDatedBaseDir,
			Layout:      LayoutDated,
			ReadmeTitle: "Daily currency rate snapshots",
		},
		Fetch: FetchConfig{
			TimeoutSec:     90,
			RetryAttempts:  3,
			BackoffUnitSec: 2,
			MaxBodySize:    "50MB",
			Headers:        DefaultHeaders(),
		},
		Sources: DefaultSources(),
	}
}

// Load reads a config file from the given path
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	// A sources list in the file replaces the defaults rather than merging.
	cfg.Sources = nil
	cfg.Output.BaseDir = ""
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	if cfg.Output.BaseDir == "" {
		// No base_dir in the file: use the default paired with its layout.
		cfg.SetLayout(cfg.Output.Layout)
		if cfg.Output.BaseDir == "" {
			cfg.Output.BaseDir = DefaultDatedBaseDir
		}
	}
	if len(cfg.Sources) == 0 {
		cfg.Sources = DefaultSources()
	}
	if len(cfg.Fetch.Headers) == 0 {
		cfg.Fetch.Headers = DefaultHeaders()
	}

	return cfg, nil
}

// FindConfigFile searches for a config file in standard locations
func FindConfigFile() (string, error) {
	searchPaths := []string{
		"fxsnap.yaml",
		"/etc/fxsnap/fxsnap.yaml",
	}

	if home, err := os.UserHomeDir(); err == nil {
		searchPaths = append(searchPaths,
			filepath.Join(home, ".config", "fxsnap", "fxsnap.yaml"),
		)
	}

	for _, path := range searchPaths {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	return "", fmt.Errorf("no config file found (searched: %v)", searchPaths)
}

// LoadDotEnv loads KEY=VALUE pairs from the given files into the process
// environment. Missing files are ignored; variables already set win.
func LoadDotEnv(files ...string) error {
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("loading %s: %w", f, err)
		}
	}
	return nil
}

// ApplyEnv overrides settings from FXSNAP_* environment variables.
// Switching layout without an explicit base dir also switches to that
// layout's default base dir.
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvLayout); v != "" {
		c.SetLayout(v)
	}
	if v := os.Getenv(EnvBaseDir); v != "" {
		c.Output.BaseDir = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = strings.ToLower(v)
	}
}

// SetLayout changes the folder layout, moving the base dir along with it
// when it still points at the previous layout's default.
func (c *Config) SetLayout(layout string) {
	layout = strings.ToLower(strings.TrimSpace(layout))
	if c.Output.BaseDir == DefaultDatedBaseDir || c.Output.BaseDir == DefaultNumericBaseDir || c.Output.BaseDir == "" {
		switch layout {
		case LayoutDated:
			c.Output.BaseDir = DefaultDatedBaseDir
		case LayoutNumeric:
			c.Output.BaseDir = DefaultNumericBaseDir
		}
	}
	c.Output.Layout = layout
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if len(c.Sources) == 0 {
		return ErrNoSources
	}

	seen := make(map[string]bool, len(c.Sources))
	for i, src := range c.Sources {
		if src.Name == "" {
			return fmt.Errorf("%w: sources[%d]", ErrSourceMissingName, i)
		}
		if err := safety.ValidateFileName(src.Name); err != nil {
			return fmt.Errorf("sources[%d] name: %w", i, err)
		}
		if src.URL == "" {
			return fmt.Errorf("%w: sources[%d]", ErrSourceMissingURL, i)
		}
		if _, err := safety.ValidateHTTPURL(src.URL); err != nil {
			return fmt.Errorf("sources[%d] url: %w", i, err)
		}
		if strings.TrimPrefix(src.Extension, ".") == "" {
			return fmt.Errorf("%w: sources[%d]", ErrSourceMissingExt, i)
		}
		if err := safety.ValidateFileName(src.FileName()); err != nil {
			return fmt.Errorf("sources[%d] extension: %w", i, err)
		}
		if seen[src.Name] {
			return fmt.Errorf("%w: %q", ErrDuplicateSource, src.Name)
		}
		seen[src.Name] = true
	}

	if c.Output.BaseDir == "" {
		return ErrMissingBaseDir
	}
	if c.Output.Layout != LayoutDated && c.Output.Layout != LayoutNumeric {
		return ErrInvalidLayout
	}

	if c.Fetch.RetryAttempts < 1 {
		return ErrInvalidRetries
	}
	if c.Fetch.BackoffUnitSec < 0 {
		return ErrInvalidBackoff
	}
	if c.Fetch.TimeoutSec < 1 {
		return ErrInvalidTimeout
	}
	if n, err := ParseSize(c.Fetch.MaxBodySize); err != nil || n <= 0 {
		return ErrInvalidMaxBodySize
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.LogLevel] {
		return ErrInvalidLogLevel
	}

	return nil
}

// Timeout returns the per-request timeout.
func (f FetchConfig) Timeout() time.Duration {
	return time.Duration(f.TimeoutSec) * time.Second
}

// BackoffUnit returns the linear backoff step.
func (f FetchConfig) BackoffUnit() time.Duration {
	return time.Duration(f.BackoffUnitSec) * time.Second
}

// BodyLimit returns max_body_size in bytes. Call Validate first.
func (f FetchConfig) BodyLimit() int64 {
	n, _ := ParseSize(f.MaxBodySize)
	return n
}
