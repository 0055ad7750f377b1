// Package config defines core configuration types for adocast.
// These types are pure data structures with no dependency on the loader.
package config

import "github.com/yaklabco/adocast/pkg/asciidoc"

// OutputFormat specifies how a parsed document is written.
type OutputFormat string

const (
	FormatJSON OutputFormat = "json"
	FormatTree OutputFormat = "tree"
)

// IsValid returns true if the format is known.
func (f OutputFormat) IsValid() bool {
	switch f {
	case FormatJSON, FormatTree:
		return true
	default:
		return false
	}
}

// Config is the root configuration structure for adocast.
type Config struct {
	// MaxDepth bounds nested re-parsing of example blocks and table cells.
	MaxDepth int `mapstructure:"max_depth" yaml:"max_depth"`

	// DetectLanguage guesses a listing block language when none is given.
	DetectLanguage *bool `mapstructure:"detect_language" yaml:"detect_language,omitempty"`

	// CacheFiles memoizes files read while inlining images.
	CacheFiles *bool `mapstructure:"cache_files" yaml:"cache_files,omitempty"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `mapstructure:"log_level" yaml:"log_level"`

	// Ignore contains glob patterns for files convert skips.
	Ignore []string `mapstructure:"ignore" yaml:"ignore,omitempty"`

	// CLI-level options (not persisted to config files).

	// Format specifies the output format.
	Format OutputFormat `mapstructure:"-" yaml:"-"`

	// Output is the output file path; empty or "-" means stdout.
	Output string `mapstructure:"-" yaml:"-"`

	// Jobs is the number of parallel convert workers. 0 means GOMAXPROCS.
	Jobs int `mapstructure:"-" yaml:"-"`
}

// NewConfig returns a Config with sensible defaults.
func NewConfig() *Config {
	return &Config{
		MaxDepth:       asciidoc.DefaultMaxDepth,
		DetectLanguage: boolPtr(false),
		CacheFiles:     boolPtr(true),
		LogLevel:       "warn",
		Format:         FormatJSON,
	}
}

// DetectLanguageEnabled reports whether language detection is on.
func (c *Config) DetectLanguageEnabled() bool {
	return c != nil && c.DetectLanguage != nil && *c.DetectLanguage
}

// CacheFilesEnabled reports whether file reads are memoized.
// Unset means enabled.
func (c *Config) CacheFilesEnabled() bool {
	return c == nil || c.CacheFiles == nil || *c.CacheFiles
}

// ReaderOptions converts the configuration into transformer options.
func (c *Config) ReaderOptions() asciidoc.Options {
	return asciidoc.Options{
		MaxDepth:       c.MaxDepth,
		DetectLanguage: c.DetectLanguageEnabled(),
	}
}

// Bool returns a pointer to b, for building configs in code.
func Bool(b bool) *bool {
	return boolPtr(b)
}

func boolPtr(b bool) *bool {
	return &b
}
