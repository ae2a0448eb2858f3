// Package config loads suitetree run settings from suitetree.yaml or
// suitetree.cue. Command-line flags override file values; see internal/cli.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// FileNames are the config files Find looks for, in order.
var FileNames = []string{"suitetree.yaml", "suitetree.yml", "suitetree.cue"}

// Config holds run settings. The yaml and json tags name the same keys; the
// json tags are what the CUE decoder reads.
type Config struct {
	// RootID is the engine segment of every unique ID.
	RootID string `yaml:"root_id" json:"root_id"`
	// Format is the report format written to stdout: "text" or "json".
	Format string `yaml:"format" json:"format"`
	// Filter keeps only suites matching one of these doublestar patterns.
	Filter []string `yaml:"filter" json:"filter"`
	// LogLevel is "debug", "info", "warn" or "error".
	LogLevel string `yaml:"log_level" json:"log_level"`
	// LogFormat is "text" or "json".
	LogFormat string `yaml:"log_format" json:"log_format"`
	// ReportPath, if set, also writes the JSON report to this file.
	ReportPath string `yaml:"report_path" json:"report_path"`
	// NoColor disables styled text output.
	NoColor bool `yaml:"no_color" json:"no_color"`
	// Durations prints per-node durations in text output.
	Durations bool `yaml:"durations" json:"durations"`
}

// Default returns the settings used when no file or flag says otherwise.
func Default() Config {
	return Config{
		RootID:    "suitetree",
		Format:    FormatText,
		LogLevel:  "warn",
		LogFormat: "text",
	}
}

// Error codes for ConfigError.
const (
	ErrCodeRead        = "CONFIG_READ"
	ErrCodeParse       = "CONFIG_PARSE"
	ErrCodeInvalid     = "CONFIG_INVALID"
	ErrCodeUnsupported = "CONFIG_UNSUPPORTED"
)

// ConfigError reports a config file that cannot be used.
type ConfigError struct {
	Code string
	// Path is the config file, empty for flag values.
	Path string
	// Field is the offending key, when known.
	Field   string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	msg := e.Code
	if e.Path != "" {
		msg += " " + e.Path
	}
	if e.Field != "" {
		msg += ": " + e.Field
	}
	msg += ": " + e.Message
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ConfigError) Unwrap() error { return e.Err }

// IsConfigError checks if err is a ConfigError.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}

// Load reads path on top of Default and validates the result. The file type
// is chosen by extension.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, &ConfigError{Code: ErrCodeRead, Path: path, Message: "cannot read file", Err: err}
	}

	cfg := Default()
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		err = decodeYAML(data, &cfg)
	case ".cue":
		err = decodeCUE(path, data, &cfg)
	default:
		return Config{}, &ConfigError{
			Code:    ErrCodeUnsupported,
			Path:    path,
			Message: "unsupported extension, want .yaml, .yml or .cue",
		}
	}
	if err != nil {
		var ce *ConfigError
		if errors.As(err, &ce) {
			ce.Path = path
			return Config{}, ce
		}
		return Config{}, &ConfigError{Code: ErrCodeParse, Path: path, Message: "cannot parse", Err: err}
	}

	if err := cfg.Validate(); err != nil {
		var ce *ConfigError
		if errors.As(err, &ce) {
			ce.Path = path
		}
		return Config{}, err
	}
	return cfg, nil
}

// Find returns the first of FileNames present in dir, or "" if none is.
func Find(dir string) string {
	for _, name := range FileNames {
		p := filepath.Join(dir, name)
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p
		}
	}
	return ""
}

var (
	validFormats    = map[string]bool{FormatText: true, FormatJSON: true}
	validLogLevels  = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	validLogFormats = map[string]bool{"text": true, "json": true}
)

// Validate checks every field and returns the first problem as a
// *ConfigError naming the field.
func (c Config) Validate() error {
	if c.RootID == "" {
		return invalid("root_id", "must not be empty")
	}
	if !validFormats[c.Format] {
		return invalid("format", fmt.Sprintf("%q is not one of text, json", c.Format))
	}
	if !validLogLevels[c.LogLevel] {
		return invalid("log_level", fmt.Sprintf("%q is not one of debug, info, warn, error", c.LogLevel))
	}
	if !validLogFormats[c.LogFormat] {
		return invalid("log_format", fmt.Sprintf("%q is not one of text, json", c.LogFormat))
	}
	for _, p := range c.Filter {
		if !doublestar.ValidatePattern(p) {
			return invalid("filter", fmt.Sprintf("%q is not a valid pattern", p))
		}
	}
	return nil
}

func invalid(field, msg string) error {
	return &ConfigError{Code: ErrCodeInvalid, Field: field, Message: msg}
}
