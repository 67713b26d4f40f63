package docmerge

import (
	"log/slog"

	"github.com/tsawler/docmerge/dataset"
	"github.com/tsawler/docmerge/destination"
)

// mergeOptions holds configuration for a merge run.
type mergeOptions struct {
	outputDir    string
	nameTemplate string
	data         dataset.Options
	require      []string
	dryRun       bool

	dest     destination.Destination
	recorder Recorder
	logger   *slog.Logger
}

// DefaultOutputDir is used when no output directory is configured.
const DefaultOutputDir = "output"

func defaultOptions() mergeOptions {
	return mergeOptions{
		outputDir: DefaultOutputDir,
		logger:    slog.New(slog.DiscardHandler),
	}
}

// clone creates a deep copy of mergeOptions.
func (o mergeOptions) clone() mergeOptions {
	newOpts := o
	if o.require != nil {
		newOpts.require = append([]string(nil), o.require...)
	}
	return newOpts
}
