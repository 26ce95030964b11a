package pipeline

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/backmassage/audionorm/internal/config"
	"github.com/backmassage/audionorm/internal/convert"
)

// Converter converts one file. *convert.Executor is the production
// implementation.
type Converter interface {
	Convert(ctx context.Context, req convert.Request) convert.Outcome
}

// Run is the top-level batch entry point. It discovers every audio file
// under cfg.SourceDir, converts each one sequentially to its mirrored path
// under cfg.TargetDir, and returns aggregate stats. Per-file failures are
// counted and reported, never returned. Unreadable directories below the
// source are reported and skipped; the error is non-nil only when the
// source directory itself could not be read.
//
// Cancelling ctx stops the batch before the next file starts. The file in
// flight is not cancelled; its child process finishes or fails on its own.
func Run(ctx context.Context, cfg *config.Config, conv Converter, rep Reporter) (RunStats, error) {
	var stats RunStats

	// WalkDir does not follow a symlinked root, so walk the resolved path.
	root, err := config.ResolvePath(cfg.SourceDir)
	if err != nil {
		return stats, fmt.Errorf("resolve %s: %w", cfg.SourceDir, err)
	}
	files, err := Discover(root, nestedTarget(root, cfg.TargetDir), rep.DirSkipped)
	if err != nil {
		return stats, fmt.Errorf("discover %s: %w", cfg.SourceDir, err)
	}

	stats.Total = len(files)
	if stats.Total == 0 {
		rep.NoFiles(cfg.SourceDir)
		return stats, nil
	}
	rep.BatchStarted(stats.Total)

	for i, path := range files {
		if ctx.Err() != nil {
			break
		}
		stats.Current = i + 1
		processFile(ctx, cfg, conv, rep, root, path, &stats)
	}

	rep.Summary(stats)
	return stats, nil
}

// processFile converts one discovered file and records its outcome.
func processFile(ctx context.Context, cfg *config.Config, conv Converter, rep Reporter, root, path string, stats *RunStats) {
	req := convert.Request{
		Source:     path,
		SampleRate: cfg.SampleRate,
		BitDepth:   cfg.BitDepth,
	}
	dst, err := Destination(root, cfg.TargetDir, path)
	if err != nil {
		stats.Failed++
		rep.FileFailed(stats.Current, stats.Total, convert.Outcome{Request: req, Err: err})
		return
	}
	req.Destination = dst

	rep.FileStarted(stats.Current, stats.Total, req)
	out := conv.Convert(context.WithoutCancel(ctx), req)
	if !out.Succeeded() {
		stats.Failed++
		rep.FileFailed(stats.Current, stats.Total, out)
		return
	}

	stats.Succeeded++
	if out.Request.Mono {
		stats.Downmixed++
	}
	stats.TotalInputBytes += out.InputBytes
	stats.TotalOutputBytes += out.OutputBytes
	rep.FileSucceeded(stats.Current, stats.Total, out)
}

// Destination maps a discovered source file to its mirrored path under
// targetRoot, keeping the relative directories and the file name.
func Destination(sourceRoot, targetRoot, path string) (string, error) {
	rel, err := filepath.Rel(sourceRoot, path)
	if err != nil {
		return "", fmt.Errorf("relative path of %s: %w", path, err)
	}
	return filepath.Join(targetRoot, rel), nil
}

// nestedTarget returns the resolved target directory when it lies strictly
// inside the source tree, or "" when discovery needs no pruning. Both paths
// are compared with symlinks resolved.
func nestedTarget(sourceDir, targetDir string) string {
	src, err := config.ResolvePath(sourceDir)
	if err != nil {
		return ""
	}
	dst, err := config.ResolvePath(targetDir)
	if err != nil {
		return ""
	}
	if src == dst || !config.TargetInsideSource(src, dst) {
		return ""
	}
	return dst
}
