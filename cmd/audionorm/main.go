// Command audionorm is the CLI entrypoint for the WAV/AIFF normalizer.
//
// It parses flags, validates configuration and paths, and either runs
// system diagnostics (--check) or the conversion pipeline.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/backmassage/audionorm/internal/check"
	"github.com/backmassage/audionorm/internal/classify"
	"github.com/backmassage/audionorm/internal/config"
	"github.com/backmassage/audionorm/internal/convert"
	"github.com/backmassage/audionorm/internal/display"
	"github.com/backmassage/audionorm/internal/ffmpeg"
	"github.com/backmassage/audionorm/internal/logging"
	"github.com/backmassage/audionorm/internal/pipeline"
)

// version and commit are injected at build time via -ldflags.
var (
	version = "1.0.0"
	commit  = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Phase 1: Bootstrap. The logger doesn't exist yet, so errors go
	// directly to stderr via fmt.
	cfg := config.DefaultConfig()
	if err := config.ParseFlags(&cfg, version, os.Args[1:]); err != nil {
		if errors.Is(err, config.ErrHelp) {
			return 0
		}
		fmt.Fprintf(os.Stderr, "audionorm: %v\n", err)
		fmt.Fprintln(os.Stderr, "Run 'audionorm --help' for usage.")
		return 1
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "audionorm: %v\n", err)
		return 1
	}

	log, err := logging.NewLogger(&cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "audionorm: %v\n", err)
		return 1
	}
	defer log.Close()

	// Phase 2: Logger available. All output goes through log from here on.
	display.PrintBanner(os.Stdout)

	if cfg.CheckOnly {
		if !check.RunCheck(&cfg, log) {
			return 1
		}
		return 0
	}

	// The source must be an existing directory. The target is created
	// lazily, one destination directory per converted file.
	sourceAbs, err := absPath(cfg.SourceDir)
	if err != nil {
		log.Error("Source not found: %s", cfg.SourceDir)
		return 1
	}
	if fi, err := os.Stat(sourceAbs); err != nil || !fi.IsDir() {
		log.Error("Source is not a directory: %s", cfg.SourceDir)
		return 1
	}
	targetAbs, err := config.ResolvePath(cfg.TargetDir)
	if err != nil {
		log.Error("Cannot resolve target path: %s", cfg.TargetDir)
		return 1
	}
	if targetAbs == sourceAbs {
		log.Error("Target must differ from source: %s", cfg.TargetDir)
		return 1
	}
	if config.TargetInsideSource(sourceAbs, targetAbs) {
		log.Warn("Target is inside source; it will be skipped during discovery")
	}

	log.Info("=== audionorm v%s (%s) ===", version, commit)
	log.Info("In:  %s", cfg.SourceDir)
	log.Info("Out: %s", cfg.TargetDir)
	log.Info("")

	// Fail fast if ffmpeg/ffprobe or the output format are unusable.
	if err := check.CheckDeps(&cfg); err != nil {
		log.Error("%v", err)
		return 1
	}

	// Phase 3: Signal handling. Cancel the context on SIGINT/SIGTERM so the
	// pipeline stops before the next file.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Warn("Received interrupt, finishing current file…")
		cancel()
	}()

	// Phase 4: Run pipeline (discover -> classify -> transcode -> report).
	tool := ffmpeg.NewExec(cfg.FFmpegPath, cfg.FFprobePath)
	if cfg.Verbose {
		tool.Tee = os.Stderr
	}
	exe := convert.NewExecutor(tool, classify.New(tool))

	stats, err := pipeline.Run(ctx, &cfg, exe, pipeline.NewLogReporter(log, &cfg))
	if err != nil {
		log.Error("%v", err)
		return 1
	}
	if stats.Failed > 0 || ctx.Err() != nil {
		return 1
	}
	return 0
}

// absPath returns the absolute, symlink-resolved path for safe comparison
// of source vs target directory hierarchies.
func absPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}
