package ffmpeg

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os/exec"
	"strings"

	"github.com/backmassage/audionorm/internal/probe"
)

// Tool is the synchronous call contract to the external media tools. Every
// method blocks until the child process exits.
type Tool interface {
	Probe(ctx context.Context, path string) (*probe.Result, error)
	RunFilter(ctx context.Context, path, filter string) (string, error)
	Transcode(ctx context.Context, src, dst string, args []string) ExecResult
}

// ExecResult holds the outcome of a single transcode invocation. Err is nil
// exactly when the process exited with status 0; otherwise it is a
// *TranscodeError.
type ExecResult struct {
	ExitCode int
	Stderr   string
	Err      error
}

// Exec runs the real ffmpeg and ffprobe binaries.
type Exec struct {
	FFmpeg  string
	FFprobe string

	// Tee, when non-nil, receives transcode stderr in real time in
	// addition to the captured copy.
	Tee io.Writer
}

var _ Tool = (*Exec)(nil)

// NewExec returns an Exec for the given binary names or paths.
func NewExec(ffmpegPath, ffprobePath string) *Exec {
	return &Exec{FFmpeg: ffmpegPath, FFprobe: ffprobePath}
}

// Probe runs ffprobe against the first audio stream of path.
func (e *Exec) Probe(ctx context.Context, path string) (*probe.Result, error) {
	out, stderr, _, err := run(ctx, e.FFprobe, probe.Args(path), nil)
	if err != nil {
		if stderr != "" {
			err = errors.Join(err, errors.New(firstLine(stderr)))
		}
		return nil, &ProbeError{Path: path, Err: err}
	}
	pr, err := probe.ParseJSON(out)
	if err != nil {
		return nil, &ProbeError{Path: path, Err: err}
	}
	return pr, nil
}

// RunFilter runs filter over the first audio stream of path and returns the
// decoded diagnostic text ffmpeg wrote to stderr.
func (e *Exec) RunFilter(ctx context.Context, path, filter string) (string, error) {
	_, stderr, _, err := run(ctx, e.FFmpeg, filterArgs(path, filter), nil)
	if err != nil {
		return stderr, &ToolError{Path: path, Stderr: stderr, Err: err}
	}
	return stderr, nil
}

// Transcode runs ffmpeg on src with the given output options and writes dst.
// Stderr is captured, and tee'd to e.Tee when set.
func (e *Exec) Transcode(ctx context.Context, src, dst string, args []string) ExecResult {
	_, stderr, code, err := run(ctx, e.FFmpeg, transcodeArgs(src, dst, args), e.Tee)
	res := ExecResult{ExitCode: code, Stderr: stderr}
	if err != nil {
		res.Err = &TranscodeError{
			Source:      src,
			Destination: dst,
			ExitCode:    code,
			Stderr:      stderr,
			Err:         err,
		}
	}
	return res
}

// run executes name with args, capturing stdout and stderr. The exit code is
// -1 when the process could not be started or was killed by a signal.
func run(ctx context.Context, name string, args []string, tee io.Writer) ([]byte, string, int, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = &stdoutBuf
	if tee != nil {
		cmd.Stderr = io.MultiWriter(&stderrBuf, tee)
	} else {
		cmd.Stderr = &stderrBuf
	}

	err := cmd.Run()
	code := 0
	if err != nil {
		code = -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			code = exitErr.ExitCode()
		}
	}
	return stdoutBuf.Bytes(), DecodeText(stderrBuf.Bytes()), code, err
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[:i])
	}
	return s
}
