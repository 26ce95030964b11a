// Package convert turns one source file into its normalized destination:
// it prepares the destination directory, asks the classifier whether the
// file can be downmixed, and runs the transcode.
package convert

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/backmassage/audionorm/internal/classify"
	"github.com/backmassage/audionorm/internal/ffmpeg"
)

// Transcoder is the subset of [ffmpeg.Tool] the Executor needs.
type Transcoder interface {
	Transcode(ctx context.Context, src, dst string, args []string) ffmpeg.ExecResult
}

// MonoClassifier decides whether a file's channels can be downmixed.
type MonoClassifier interface {
	Classify(ctx context.Context, path string) classify.Decision
}

// Executor converts single files. It holds no per-file state and is safe to
// reuse across a batch.
type Executor struct {
	tool       Transcoder
	classifier MonoClassifier

	// ReadHeaders enables inspection of the destination header after a
	// successful transcode.
	ReadHeaders bool
}

// NewExecutor returns an Executor with destination header inspection enabled.
func NewExecutor(tool Transcoder, classifier MonoClassifier) *Executor {
	return &Executor{tool: tool, classifier: classifier, ReadHeaders: true}
}

// Convert runs one conversion. It never panics on tool failure and never
// retries; a failed transcode may leave a partial destination file behind.
func (e *Executor) Convert(ctx context.Context, req Request) Outcome {
	start := time.Now()
	out := Outcome{Request: req}

	if err := os.MkdirAll(filepath.Dir(req.Destination), 0o755); err != nil {
		out.Err = fmt.Errorf("create destination directory: %w", err)
		return out
	}

	out.Decision = e.classifier.Classify(ctx, req.Source)
	req.Mono = out.Decision.Mono
	out.Request = req

	args := ffmpeg.TranscodeArgs(ffmpeg.TranscodeOptions{
		SampleRate: req.SampleRate,
		BitDepth:   req.BitDepth,
		Mono:       req.Mono,
	})
	res := e.tool.Transcode(ctx, req.Source, req.Destination, args)
	out.Stderr = res.Stderr
	out.Elapsed = time.Since(start)
	if res.Err != nil {
		out.Err = res.Err
		return out
	}

	if fi, err := os.Stat(req.Source); err == nil {
		out.InputBytes = fi.Size()
	}
	if fi, err := os.Stat(req.Destination); err == nil {
		out.OutputBytes = fi.Size()
	}
	if e.ReadHeaders {
		if h, err := ReadHeader(req.Destination); err == nil {
			out.Header = &h
		}
	}
	return out
}
