// Package check provides system diagnostics (--check mode) and pre-pipeline
// dependency validation (CheckDeps) for ffmpeg, ffprobe, the PCM encoder and
// the astats filter.
package check

import (
	"bytes"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/backmassage/audionorm/internal/classify"
	"github.com/backmassage/audionorm/internal/config"
	"github.com/backmassage/audionorm/internal/ffmpeg"
)

// Sentinel errors returned by CheckDeps when a required tool or capability
// is missing.
var (
	ErrFfmpegNotFound  = errors.New("ffmpeg not found")
	ErrFfprobeNotFound = errors.New("ffprobe not found")
	ErrEncodeFailed    = errors.New("ffmpeg " + ffmpeg.Codec + " test encode failed")
	ErrAnalyzeFailed   = errors.New("ffmpeg astats test analysis failed")
)

// Logger is the minimal logging interface needed by RunCheck.
// Defined here (rather than importing the logging package) so that check
// remains dependency-light and testable with a mock logger.
type Logger interface {
	Info(string, ...interface{})
	Success(string, ...interface{})
	Warn(string, ...interface{})
	Error(string, ...interface{})
	Debug(string, ...interface{})
}

// RunCheck runs the interactive --check flow: prints the ffmpeg and ffprobe
// versions, whether the PCM encoder and the astats filter are available,
// and runs a short test encode and analysis. It reports every item and
// returns false if any required check failed.
func RunCheck(cfg *config.Config, log Logger) bool {
	log.Info("=== System Check ===")

	ok := checkVersion(log, cfg.FFmpegPath)
	ok = checkVersion(log, cfg.FFprobePath) && ok
	if !ok {
		return false
	}
	ok = checkListed(log, cfg.FFmpegPath, "-encoders", ffmpeg.Codec, "PCM encoder") && ok
	ok = checkListed(log, cfg.FFmpegPath, "-filters", "astats", "astats filter") && ok

	log.Info("Testing %s encode at %d Hz / %s...", ffmpeg.Codec, cfg.SampleRate, cfg.SampleFormat())
	if runSilent(cfg.FFmpegPath, encodeTestArgs(cfg)...) {
		log.Success("Test encode works")
	} else {
		log.Error("Test encode failed (bit depth %d may not be supported by %s)", cfg.BitDepth, ffmpeg.Codec)
		ok = false
	}

	log.Info("Testing channel analysis...")
	if err := testAnalysis(cfg.FFmpegPath); err == nil {
		log.Success("Channel analysis works")
	} else {
		log.Error("Channel analysis test failed")
		log.Debug("  %v", err)
		ok = false
	}
	return ok
}

// checkVersion verifies the binary resolves and logs its version line.
func checkVersion(log Logger, bin string) bool {
	path, err := exec.LookPath(bin)
	if err != nil {
		log.Error("%s not found", bin)
		return false
	}
	out, err := exec.Command(path, "-version").Output()
	if err != nil {
		log.Warn("%s found but -version failed: %v", bin, err)
		return false
	}
	firstLine := strings.TrimSpace(ffmpeg.DecodeText(out))
	if idx := strings.Index(firstLine, "\n"); idx > 0 {
		firstLine = firstLine[:idx]
	}
	log.Success("%s", firstLine)
	log.Debug("  path: %s", path)
	return true
}

// checkListed runs ffmpeg with a listing flag (-encoders, -filters) and
// reports whether a line names want.
func checkListed(log Logger, bin, listFlag, want, label string) bool {
	out, err := exec.Command(bin, "-hide_banner", listFlag).Output()
	if err != nil {
		log.Warn("Could not list %s: %v", strings.TrimPrefix(listFlag, "-"), err)
		return false
	}
	if line, found := findListed(ffmpeg.DecodeText(out), want); found {
		log.Success("%s: %s", label, line)
		return true
	}
	log.Error("%s not available: %s", label, want)
	return false
}

// findListed returns the first line of an ffmpeg listing whose name column
// equals name.
func findListed(listing, name string) (string, bool) {
	for _, line := range strings.Split(listing, "\n") {
		for _, field := range strings.Fields(line) {
			if field == name {
				return strings.TrimSpace(line), true
			}
		}
	}
	return "", false
}

// CheckDeps is the pre-pipeline validation: it verifies that ffmpeg and
// ffprobe resolve, then runs a short test encode with the configured
// output format and a short channel analysis. Returns a sentinel error on
// failure.
func CheckDeps(cfg *config.Config) error {
	if _, err := exec.LookPath(cfg.FFmpegPath); err != nil {
		return fmt.Errorf("%w: %s", ErrFfmpegNotFound, cfg.FFmpegPath)
	}
	if _, err := exec.LookPath(cfg.FFprobePath); err != nil {
		return fmt.Errorf("%w: %s", ErrFfprobeNotFound, cfg.FFprobePath)
	}
	if !runSilent(cfg.FFmpegPath, encodeTestArgs(cfg)...) {
		return fmt.Errorf("%w (%d Hz, %s)", ErrEncodeFailed, cfg.SampleRate, cfg.SampleFormat())
	}
	if err := testAnalysis(cfg.FFmpegPath); err != nil {
		return fmt.Errorf("%w: %v", ErrAnalyzeFailed, err)
	}
	return nil
}

// --- internal helpers ---

// encodeTestArgs returns the ffmpeg arguments for a minimal transcode with
// the configured output options. Shared by RunCheck and CheckDeps.
func encodeTestArgs(cfg *config.Config) []string {
	args := []string{
		"-hide_banner", "-nostdin", "-loglevel", "error",
		"-f", "lavfi", "-i", "sine=frequency=1000:duration=0.1",
	}
	args = append(args, ffmpeg.TranscodeArgs(ffmpeg.TranscodeOptions{
		SampleRate: cfg.SampleRate,
		BitDepth:   cfg.BitDepth,
		Mono:       true,
	})...)
	return append(args, "-f", "null", "-")
}

// analyzeTestArgs returns the ffmpeg arguments for a minimal per-channel
// statistics pass over a generated stereo tone. astats reports at info
// level, so the log level is left at its default.
func analyzeTestArgs() []string {
	return []string{
		"-hide_banner", "-nostdin",
		"-f", "lavfi", "-i", "sine=frequency=1000:duration=0.1",
		"-ac", "2", "-filter:a", ffmpeg.StatsFilter,
		"-f", "null", "-",
	}
}

// testAnalysis runs the statistics pass over a tone duplicated onto two
// channels and checks that the classifier reads it as identical.
func testAnalysis(bin string) error {
	cmd := exec.Command(bin, analyzeTestArgs()...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return err
	}
	st, err := classify.ParseStats(ffmpeg.DecodeText(stderr.Bytes()))
	if err != nil {
		return err
	}
	if !classify.Identical(st, classify.DefaultTolerance) {
		dc, rms := st.Diffs()
		return fmt.Errorf("duplicated channels measured as different (DC offset diff %g, RMS level diff %g)", dc, rms)
	}
	return nil
}

// runSilent runs a command and returns true if it exits with status 0.
// Both stdout and stderr are discarded.
func runSilent(name string, args ...string) bool {
	cmd := exec.Command(name, args...)
	cmd.Stdout = nil
	cmd.Stderr = nil
	return cmd.Run() == nil
}
