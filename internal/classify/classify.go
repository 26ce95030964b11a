// Package classify decides whether a stereo file's two channels are
// identical enough to be downmixed to mono without audible loss.
//
// The decision is a two-stage heuristic: a metadata probe rejects anything
// that is not exactly two channels, then a per-channel statistics pass
// compares DC offset and RMS level between the channels against a fixed
// tolerance. Every failure along the way resolves to "keep stereo".
package classify

import (
	"context"
	"fmt"

	"github.com/backmassage/audionorm/internal/ffmpeg"
	"github.com/backmassage/audionorm/internal/probe"
)

// DefaultTolerance is the largest per-statistic channel difference still
// treated as identical (exclusive).
const DefaultTolerance = 1e-4

// Analyzer is the subset of [ffmpeg.Tool] the classifier needs.
type Analyzer interface {
	Probe(ctx context.Context, path string) (*probe.Result, error)
	RunFilter(ctx context.Context, path, filter string) (string, error)
}

// Decision is the full result of classifying one file. Reason explains a
// negative decision and is meant for verbose logging only.
type Decision struct {
	Channels int
	Stats    *ChannelStats
	Mono     bool
	Reason   string
}

// Classifier implements the identical-channel heuristic.
type Classifier struct {
	tool Analyzer

	// Tolerance defaults to DefaultTolerance.
	Tolerance float64
	// Filter is the ffmpeg audio filter whose diagnostic text is parsed.
	Filter string
}

// New returns a Classifier with the default tolerance and statistics filter.
func New(tool Analyzer) *Classifier {
	return &Classifier{
		tool:      tool,
		Tolerance: DefaultTolerance,
		Filter:    ffmpeg.StatsFilter,
	}
}

// IsMonoEligible reports whether path is a 2-channel file whose channels
// are statistically indistinguishable.
func (c *Classifier) IsMonoEligible(ctx context.Context, path string) bool {
	return c.Classify(ctx, path).Mono
}

// Classify runs the probe-then-measure heuristic on path. It never returns
// an error: probe and analysis failures produce a stereo decision with the
// failure recorded in Reason.
func (c *Classifier) Classify(ctx context.Context, path string) Decision {
	pr, err := c.tool.Probe(ctx, path)
	if err != nil {
		return Decision{Reason: err.Error()}
	}
	stream, ok := pr.FirstAudio()
	if !ok {
		return Decision{Reason: "no audio stream"}
	}

	d := Decision{Channels: stream.Channels}
	if stream.Channels != 2 {
		d.Reason = fmt.Sprintf("%d channel(s), not stereo", stream.Channels)
		return d
	}

	text, err := c.tool.RunFilter(ctx, path, c.Filter)
	if err != nil {
		d.Reason = err.Error()
		return d
	}

	stats, err := ParseStats(text)
	if err != nil {
		d.Reason = err.Error()
		return d
	}
	d.Stats = &stats

	if !Identical(stats, c.tolerance()) {
		dc, rms := stats.Diffs()
		d.Reason = fmt.Sprintf("channels differ (DC offset diff %g, RMS level diff %g)", dc, rms)
		return d
	}
	d.Mono = true
	return d
}

func (c *Classifier) tolerance() float64 {
	if c.Tolerance <= 0 {
		return DefaultTolerance
	}
	return c.Tolerance
}
