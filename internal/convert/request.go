package convert

import (
	"time"

	"github.com/backmassage/audionorm/internal/classify"
)

// Request describes one file conversion. Mono is derived by the Executor
// from the classifier's decision and ignored on input.
type Request struct {
	Source      string
	Destination string
	SampleRate  int
	BitDepth    int
	Mono        bool
}

// Outcome is the result of converting one file: Success when Err is nil,
// Failure otherwise. A failed transcode carries a *ffmpeg.TranscodeError
// with the captured diagnostic text.
type Outcome struct {
	Request  Request
	Decision classify.Decision
	Err      error

	// Stderr is the transcode diagnostic text, on success and on failure.
	Stderr string

	// Filled in on success only. Header is nil when the destination's
	// container header could not be read.
	Header      *Header
	InputBytes  int64
	OutputBytes int64
	Elapsed     time.Duration
}

// Succeeded reports whether the conversion produced its destination.
func (o Outcome) Succeeded() bool { return o.Err == nil }
