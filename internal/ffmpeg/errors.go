package ffmpeg

import (
	"fmt"
	"regexp"
	"strings"
)

// ProbeError reports that ffprobe could not describe a file: the process
// failed to start or exited non-zero, its JSON was malformed, or the file
// has no audio stream.
type ProbeError struct {
	Path string
	Err  error
}

func (e *ProbeError) Error() string { return fmt.Sprintf("probe %q: %v", e.Path, e.Err) }
func (e *ProbeError) Unwrap() error { return e.Err }

// ToolError reports a failed diagnostic-filter invocation or diagnostic
// output that could not be interpreted. Stderr holds whatever text the tool
// produced.
type ToolError struct {
	Path   string
	Stderr string
	Err    error
}

func (e *ToolError) Error() string { return fmt.Sprintf("analyze %q: %v", e.Path, e.Err) }
func (e *ToolError) Unwrap() error { return e.Err }

// TranscodeError reports a transcode that did not exit cleanly. ExitCode is
// -1 when the process could not be started.
type TranscodeError struct {
	Source      string
	Destination string
	ExitCode    int
	Stderr      string
	Err         error
}

func (e *TranscodeError) Error() string {
	if hint := Hint(e.Stderr); hint != "" {
		return fmt.Sprintf("transcode %q: exit %d (%s)", e.Source, e.ExitCode, hint)
	}
	return fmt.Sprintf("transcode %q: exit %d: %v", e.Source, e.ExitCode, e.Err)
}

func (e *TranscodeError) Unwrap() error { return e.Err }

// Pre-compiled patterns that map common ffmpeg stderr lines to a short
// reason. Checked in order; the first match wins.
var stderrHints = []struct {
	re   *regexp.Regexp
	hint string
}{
	{regexp.MustCompile(`(?i)Invalid data found when processing input`), "invalid or corrupt input"},
	{regexp.MustCompile(`(?i)No such file or directory`), "file not found"},
	{regexp.MustCompile(`(?i)Permission denied`), "permission denied"},
	{regexp.MustCompile(`(?i)Requested output format .* is not a suitable output format|Unable to find a suitable output format`), "unsupported output container"},
	{regexp.MustCompile(`(?i)Specified sample format \S+ is invalid or not supported`), "sample format not supported by encoder"},
	{regexp.MustCompile(`(?i)No space left on device`), "disk full"},
	{regexp.MustCompile(`(?i)Output file #?\d* does not contain any stream|does not contain any stream`), "no audio stream"},
}

// Hint returns a short human-readable reason for a failed ffmpeg run, or ""
// when stderr matches no known pattern.
func Hint(stderr string) string {
	if strings.TrimSpace(stderr) == "" {
		return ""
	}
	for _, h := range stderrHints {
		if h.re.MatchString(stderr) {
			return h.hint
		}
	}
	return ""
}

// Tail returns the last n non-empty lines of stderr.
func Tail(stderr string, n int) []string {
	var lines []string
	for _, l := range strings.Split(strings.TrimSpace(stderr), "\n") {
		if l = strings.TrimRight(l, "\r"); strings.TrimSpace(l) != "" {
			lines = append(lines, l)
		}
	}
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return lines
}
