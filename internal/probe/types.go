package probe

import "strconv"

// AudioStream holds the parsed properties of a single audio stream.
// Zero values mean ffprobe did not report the field.
type AudioStream struct {
	Index         int
	Codec         string
	Channels      int
	SampleRate    int
	BitsPerSample int
}

// Result is the parsed output of one ffprobe call.
type Result struct {
	Streams []AudioStream
}

// FirstAudio returns the first audio stream, or false when the file has none.
func (r *Result) FirstAudio() (AudioStream, bool) {
	if r == nil || len(r.Streams) == 0 {
		return AudioStream{}, false
	}
	return r.Streams[0], true
}

// Describe returns a short human-readable summary such as
// "pcm_s24le, 2ch, 96000 Hz, 24-bit".
func (s AudioStream) Describe() string {
	codec := s.Codec
	if codec == "" {
		codec = "unknown"
	}
	out := codec + ", " + strconv.Itoa(s.Channels) + "ch"
	if s.SampleRate > 0 {
		out += ", " + strconv.Itoa(s.SampleRate) + " Hz"
	}
	if s.BitsPerSample > 0 {
		out += ", " + strconv.Itoa(s.BitsPerSample) + "-bit"
	}
	return out
}
