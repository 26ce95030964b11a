package ffmpeg

import (
	"fmt"
	"strconv"
)

// Codec is the fixed output codec: 16-bit little-endian linear PCM.
const Codec = "pcm_s16le"

// StatsFilter is the per-channel statistics filter run by the classifier.
// Only the diagnostic text is used; decoded output goes to the null muxer.
// The measure options are flag sets, so the statistics are named rather
// than given as a number.
const StatsFilter = "astats=measure_perchannel=DC_offset+RMS_level:measure_overall=none"

// TranscodeOptions are the per-file settings that shape the transcode
// argument vector.
type TranscodeOptions struct {
	SampleRate int
	BitDepth   int
	Mono       bool
}

// TranscodeArgs returns the output options placed between the input and
// the destination path: overwrite, fixed PCM codec, sample rate and sample
// format, plus a single-channel downmix only when Mono is set.
func TranscodeArgs(opts TranscodeOptions) []string {
	args := make([]string, 0, 10)
	args = append(args,
		"-y",
		"-acodec", Codec,
		"-ar", strconv.Itoa(opts.SampleRate),
		"-sample_fmt", fmt.Sprintf("s%d", opts.BitDepth),
	)
	if opts.Mono {
		args = append(args, "-ac", "1")
	}
	return args
}

// filterArgs builds the ffmpeg invocation that runs filter over the first
// audio stream of path and discards the decoded output.
func filterArgs(path, filter string) []string {
	return []string{
		"-hide_banner", "-nostdin",
		"-i", path,
		"-map", "0:a:0",
		"-filter:a", filter,
		"-f", "null", "-",
	}
}

// transcodeArgs wraps the caller's output options with the input and
// destination paths.
func transcodeArgs(src, dst string, args []string) []string {
	full := make([]string, 0, len(args)+6)
	full = append(full, "-hide_banner", "-nostdin", "-i", src)
	full = append(full, args...)
	return append(full, dst)
}
