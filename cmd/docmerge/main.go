// Command docmerge fills document templates with the rows of a CSV or XLSX
// file, writing one document per row and template.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/tsawler/docmerge"
	"github.com/tsawler/docmerge/internal/config"
	"github.com/tsawler/docmerge/manifest"
)

// version is set at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	os.Exit(run(os.Args[1:], os.Stderr))
}

func run(args []string, stderr io.Writer) int {
	cfg := config.DefaultConfig()
	if err := config.ParseFlags(args, &cfg); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(stderr, "docmerge: %v\n", err)
		return 2
	}
	if cfg.ShowVersion {
		fmt.Fprintln(os.Stdout, "docmerge "+version)
		return 0
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "docmerge: %v\n", err)
		return 1
	}

	logger := newLogger(stderr, cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := merge(ctx, cfg, logger); err != nil {
		logger.Error("merge failed", "error", err)
		return 1
	}
	return 0
}

func newLogger(w io.Writer, cfg config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}
	if cfg.LogFormat == config.LogJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func merge(ctx context.Context, cfg config.Config, logger *slog.Logger) (err error) {
	m := docmerge.Open(cfg.Templates...).
		Data(cfg.DataFile).
		OutputDir(cfg.OutputDir).
		NameTemplate(cfg.NameTemplate).
		Encoding(cfg.Encoding).
		Sheet(cfg.Sheet).
		Delimiter(cfg.Delimiter).
		Require(cfg.Require...).
		Logger(logger)
	if cfg.DryRun {
		m = m.DryRun()
	}

	if cfg.ManifestPath != "" {
		store, openErr := manifest.Open(cfg.ManifestPath)
		if openErr != nil {
			return openErr
		}
		defer store.Close()

		rec, beginErr := store.BeginRun(ctx, manifest.RunInfo{
			DataFile:  cfg.DataFile,
			Templates: cfg.Templates,
			OutputDir: cfg.OutputDir,
			DryRun:    cfg.DryRun,
		})
		if beginErr != nil {
			return beginErr
		}
		defer func() {
			if ferr := rec.Finish(context.WithoutCancel(ctx), err); ferr != nil {
				logger.Error("failed to finish manifest run", "error", ferr)
			}
		}()
		m = m.Recorder(rec)
		logger.Debug("recording run", "manifest", cfg.ManifestPath, "run", rec.ID())
	}

	logger.Info("starting", "data", cfg.DataFile, "templates", len(cfg.Templates), "out", cfg.OutputDir, "dry_run", cfg.DryRun)

	report, warnings, err := m.Run(ctx)
	for _, w := range warnings {
		logger.Warn(w.Message, "code", w.Code.String(), "row", w.Row, "template", w.Template)
	}
	if err != nil {
		return err
	}

	logger.Info("done", "rows", report.Rows, "documents", len(report.Outputs), "warnings", len(warnings))
	return nil
}
