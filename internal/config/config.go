// Package config holds runtime configuration for the docmerge command:
// defaults, CLI flag parsing and validation.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/tsawler/docmerge"
	"github.com/tsawler/docmerge/dataset"
)

// LogFormat selects the log handler.
type LogFormat string

const (
	LogText LogFormat = "text" // slog.TextHandler (default).
	LogJSON LogFormat = "json" // slog.JSONHandler.
)

// Config holds all runtime settings. It is populated by [DefaultConfig] and
// then mutated by [ParseFlags].
type Config struct {
	// Paths (set from positional args).
	DataFile  string
	Templates []string

	// Output.
	OutputDir    string // Default: "output".
	NameTemplate string // Column name or $Field template; empty uses the first value.
	DryRun       bool
	ManifestPath string // SQLite run manifest; empty disables it.

	// Data input.
	Encoding  string   // Default: "utf-8".
	Sheet     string   // XLSX sheet; empty selects the first.
	Delimiter rune     // Default: ','.
	Require   []string // Columns that must exist.

	// Logging.
	LogLevel  slog.Level // Default: info.
	LogFormat LogFormat  // Default: text.

	ShowVersion bool
}

// DefaultConfig returns the default settings.
func DefaultConfig() Config {
	return Config{
		OutputDir: docmerge.DefaultOutputDir,
		Encoding:  dataset.DefaultEncoding,
		Delimiter: ',',
		LogLevel:  slog.LevelInfo,
		LogFormat: LogText,
	}
}

// Validate checks value ranges and that the input files exist.
func (c *Config) Validate() error {
	if c.DataFile == "" {
		return errors.New("no data file given")
	}
	if len(c.Templates) == 0 {
		return errors.New("no template given")
	}
	if strings.TrimSpace(c.OutputDir) == "" {
		return errors.New("output directory must not be empty")
	}
	if c.Delimiter == '\n' || c.Delimiter == '\r' || c.Delimiter == '"' || c.Delimiter == 0xFFFD {
		return fmt.Errorf("invalid delimiter %q", c.Delimiter)
	}
	if c.LogFormat != LogText && c.LogFormat != LogJSON {
		return fmt.Errorf("invalid log format %q (use 'text' or 'json')", c.LogFormat)
	}
	if _, err := dataset.Decode(nil, c.Encoding); err != nil {
		return err
	}

	if err := mustExist(c.DataFile, docmerge.ErrDataNotFound); err != nil {
		return err
	}
	for _, t := range c.Templates {
		if err := mustExist(t, docmerge.ErrTemplateNotFound); err != nil {
			return err
		}
	}
	return nil
}

func mustExist(path string, notFound error) error {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", notFound, path)
		}
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}
	return nil
}
