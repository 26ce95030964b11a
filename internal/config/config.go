// Package config holds runtime configuration: defaults, CLI flag parsing, and
// validation. Output defaults to 44.1 kHz, 16-bit PCM.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ColorMode controls ANSI color output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Enable colors when stdout is a TTY (default).
	ColorAlways ColorMode = "always" // Force colors on.
	ColorNever  ColorMode = "never"  // Disable colors entirely.
)

// Supported output bit depths. Each maps to the signed ffmpeg sample format
// "s<depth>"; other widths have no matching sample format.
var supportedBitDepths = map[int]bool{
	16: true,
	32: true,
}

// Config holds all runtime settings. It is populated by [DefaultConfig] and
// then mutated by [ParseFlags] before being passed (by pointer) to packages
// that need it.
type Config struct {
	// Paths (set from positional args).
	SourceDir string
	TargetDir string

	// Output format.
	SampleRate int // Default: 44100 Hz.
	BitDepth   int // Default: 16 bits.

	// External tools.
	FFmpegPath  string // Default: "ffmpeg" (resolved via PATH).
	FFprobePath string // Default: "ffprobe".

	// Display and logging.
	Verbose   bool
	ColorMode ColorMode // Default: "auto".
	LogFile   string    // Optional log file path.
	CheckOnly bool      // Run --check diagnostics and exit.
}

// DefaultConfig returns a Config with the converter defaults. Used as the
// base before [ParseFlags] applies CLI overrides.
func DefaultConfig() Config {
	return Config{
		SampleRate:  44100,
		BitDepth:    16,
		FFmpegPath:  "ffmpeg",
		FFprobePath: "ffprobe",
		ColorMode:   ColorAuto,
	}
}

// NormalizeDirArg strips trailing slashes from a directory path.
// The filesystem root "/" is returned unchanged so we don't produce an empty string.
func NormalizeDirArg(path string) string {
	if path == "/" {
		return "/"
	}
	return strings.TrimRight(path, "/")
}

// Validate checks the sample rate, bit depth and tool paths. When not in
// CheckOnly mode, it also requires that both directory paths are non-empty.
func (c *Config) Validate() error {
	if c.SampleRate <= 0 {
		return fmt.Errorf("invalid sample rate %d (must be a positive number of Hz)", c.SampleRate)
	}
	if !supportedBitDepths[c.BitDepth] {
		return fmt.Errorf("invalid bit depth %d (use 16 or 32)", c.BitDepth)
	}
	if strings.TrimSpace(c.FFmpegPath) == "" || strings.TrimSpace(c.FFprobePath) == "" {
		return errors.New("ffmpeg and ffprobe paths must not be empty")
	}

	if c.CheckOnly {
		return nil
	}
	if c.SourceDir == "" || c.TargetDir == "" {
		return errors.New("need exactly source_dir and target_dir")
	}
	return nil
}

// SampleFormat returns the ffmpeg sample format name for the configured bit depth.
func (c *Config) SampleFormat() string {
	return fmt.Sprintf("s%d", c.BitDepth)
}

// ResolvePath returns the absolute, symlink-resolved form of path. Missing
// trailing components are kept as given under their resolved ancestor, so a
// target that does not exist yet still compares correctly against a source
// reached through a symlink.
func ResolvePath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return resolveExisting(abs), nil
}

func resolveExisting(abs string) string {
	if r, err := filepath.EvalSymlinks(abs); err == nil {
		return r
	}
	parent := filepath.Dir(abs)
	if parent == abs {
		return abs
	}
	return filepath.Join(resolveExisting(parent), filepath.Base(abs))
}

// TargetInsideSource reports whether the resolved target directory is inside
// (or equal to) the resolved source directory. Discovery uses this to prune
// the target subtree so converted files are never picked up as inputs.
// Both arguments must be absolute, cleaned paths.
func TargetInsideSource(sourceAbs, targetAbs string) bool {
	sep := string(filepath.Separator)
	return targetAbs == sourceAbs || strings.HasPrefix(targetAbs+sep, sourceAbs+sep)
}
