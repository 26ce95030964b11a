package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/backmassage/audionorm/internal/config"
	"github.com/backmassage/audionorm/internal/convert"
	"github.com/backmassage/audionorm/internal/display"
	"github.com/backmassage/audionorm/internal/ffmpeg"
	"github.com/backmassage/audionorm/internal/logging"
	"github.com/backmassage/audionorm/internal/term"
)

// stderrTailLines is how much transcode output a failure report includes.
const stderrTailLines = 20

// Reporter observes a batch run. Index is 1-based.
type Reporter interface {
	BatchStarted(total int)
	NoFiles(root string)
	DirSkipped(path string, err error)
	FileStarted(index, total int, req convert.Request)
	FileSucceeded(index, total int, out convert.Outcome)
	FileFailed(index, total int, out convert.Outcome)
	Summary(stats RunStats)
}

// Discard is a Reporter that reports nothing.
var Discard Reporter = discard{}

type discard struct{}

func (discard) BatchStarted(int) {}
func (discard) NoFiles(string) {}
func (discard) DirSkipped(string, error) {}
func (discard) FileStarted(int, int, convert.Request) {}
func (discard) FileSucceeded(int, int, convert.Outcome) {}
func (discard) FileFailed(int, int, convert.Outcome) {}
func (discard) Summary(RunStats) {}

// LogReporter reports through a logging.Logger. On a TTY, and when not
// verbose, an inline progress line is shown while each file converts.
type LogReporter struct {
	log      *logging.Logger
	progress *term.StatusLine // nil disables the inline progress line.

	sourceDir  string
	walkedDir  string
	targetDir  string
	sampleRate int
	sampleFmt  string
}

// NewLogReporter returns a LogReporter for the batch described by cfg.
func NewLogReporter(log *logging.Logger, cfg *config.Config) *LogReporter {
	r := &LogReporter{
		log:        log,
		sourceDir:  cfg.SourceDir,
		targetDir:  cfg.TargetDir,
		sampleRate: cfg.SampleRate,
		sampleFmt:  cfg.SampleFormat(),
	}
	// Run reports paths under the resolved source.
	if root, err := config.ResolvePath(cfg.SourceDir); err == nil {
		r.walkedDir = root
	}
	// Verbose mode tees ffmpeg stderr to the terminal, which would
	// interleave with the progress line.
	if !log.Verbose() {
		r.progress = term.NewStatusLine(os.Stdout)
	}
	return r
}

func (r *LogReporter) BatchStarted(total int) {
	r.log.Info("Found %d audio files in %s", total, r.sourceDir)
	r.log.Info("Output: PCM %d Hz, %s, mono when both channels are identical", r.sampleRate, r.sampleFmt)
	r.log.Info("Target: %s", r.targetDir)
	r.log.Info("")
}

func (r *LogReporter) NoFiles(root string) {
	r.log.Warn("No WAV/AIFF files found in %s", root)
}

func (r *LogReporter) DirSkipped(path string, err error) {
	r.log.Warn("Skipping %s: %v", r.relSource(path), err)
}

func (r *LogReporter) FileStarted(index, total int, req convert.Request) {
	r.log.Info("[%d/%d] %s", index, total, r.relSource(req.Source))
	r.progress.Set(progressText(index, total, filepath.Base(req.Source)))
}

func (r *LogReporter) FileSucceeded(_, _ int, out convert.Outcome) {
	r.progress.Clear()
	d := out.Decision
	if d.Reason != "" {
		r.log.Debug("  No downmix: %s", d.Reason)
	}
	if d.Stats != nil {
		dc, rms := d.Stats.Diffs()
		r.log.Debug("  Channel diff: DC offset %g, RMS level %g", dc, rms)
	}

	layout := "stereo"
	switch {
	case out.Request.Mono:
		layout = "mono (identical channels)"
	case d.Channels > 0 && d.Channels != 2:
		layout = fmt.Sprintf("%d channels", d.Channels)
	}
	r.log.Success("Converted in %s -> %s [%s]", display.FormatDuration(out.Elapsed), out.Request.Destination, layout)
	if out.Header != nil {
		r.log.Debug("  Output: %s, %s", out.Header, display.FormatBytes(out.OutputBytes))
	}
}

func (r *LogReporter) FileFailed(_, _ int, out convert.Outcome) {
	r.progress.Clear()
	r.log.Error("Failed: %s: %v", out.Request.Source, out.Err)
	lines := ffmpeg.Tail(out.Stderr, stderrTailLines)
	if len(lines) == 0 {
		return
	}
	r.log.Error("Last ffmpeg output:")
	for _, l := range lines {
		r.log.Error("  %s", l)
	}
}

func (r *LogReporter) Summary(stats RunStats) {
	r.log.Info("==============================")
	if stats.Interrupted() {
		r.log.Warn("Interrupted after %d of %d files", stats.Processed(), stats.Total)
	}
	r.log.Info("Done: %d converted (%d downmixed to mono), %d failed", stats.Succeeded, stats.Downmixed, stats.Failed)
	if stats.Succeeded > 0 {
		r.log.Info("  Size: input %s -> output %s (%s)",
			display.FormatBytes(stats.TotalInputBytes),
			display.FormatBytes(stats.TotalOutputBytes),
			display.FormatBytesWithSign(stats.SizeDelta()))
	}
	if stats.Failed > 0 {
		r.log.Error("%d file(s) failed; see errors above", stats.Failed)
	} else if !stats.Interrupted() {
		r.log.Success("All files converted")
	}
}

func (r *LogReporter) relSource(path string) string {
	for _, root := range []string{r.walkedDir, r.sourceDir} {
		if root == "" {
			continue
		}
		if rel, err := filepath.Rel(root, path); err == nil && !strings.HasPrefix(rel, "..") {
			return rel
		}
	}
	return path
}

// progressText renders the inline status shown while a file converts.
func progressText(current, total int, name string) string {
	const maxName = 40
	if utf8.RuneCountInString(name) > maxName {
		name = string([]rune(name)[:maxName-1]) + "…"
	}
	return fmt.Sprintf("  Converting [%d/%d] %d%% %s", current, total, current*100/total, name)
}
