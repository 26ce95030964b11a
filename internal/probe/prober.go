package probe

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrNoAudioStream is returned by [ParseJSON] when ffprobe reported no
// audio stream for the file.
var ErrNoAudioStream = errors.New("no audio stream")

// Args returns the ffprobe argument vector (without the binary name) that
// selects the first audio stream of path and prints its fields as JSON.
func Args(path string) []string {
	return []string{
		"-v", "quiet",
		"-select_streams", "a:0",
		"-show_entries", "stream=index,codec_name,codec_type,channels,sample_rate,bits_per_sample",
		"-of", "json",
		path,
	}
}

// ParseJSON converts raw ffprobe JSON output into a Result. Streams whose
// codec_type is present and not "audio" are dropped; a document without any
// audio stream yields ErrNoAudioStream.
func ParseJSON(data []byte) (*Result, error) {
	var raw ffprobeOutput
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse ffprobe JSON: %w", err)
	}
	res := &Result{}
	for i := range raw.Streams {
		s := &raw.Streams[i]
		if s.CodecType != "" && s.CodecType != "audio" {
			continue
		}
		res.Streams = append(res.Streams, convertAudio(s))
	}
	if len(res.Streams) == 0 {
		return nil, ErrNoAudioStream
	}
	return res, nil
}

// --- ffprobe JSON wire types ---

type ffprobeOutput struct {
	Streams []ffprobeStream `json:"streams"`
}

type ffprobeStream struct {
	Index         int    `json:"index"`
	CodecName     string `json:"codec_name"`
	CodecType     string `json:"codec_type"`
	Channels      int    `json:"channels"`
	SampleRate    string `json:"sample_rate"`
	BitsPerSample int    `json:"bits_per_sample"`
}

func convertAudio(s *ffprobeStream) AudioStream {
	return AudioStream{
		Index:         s.Index,
		Codec:         s.CodecName,
		Channels:      s.Channels,
		SampleRate:    parseInt(s.SampleRate),
		BitsPerSample: s.BitsPerSample,
	}
}

// ffprobe returns sample_rate as a string.
func parseInt(s string) int {
	n, _ := strconv.Atoi(strings.TrimSpace(s))
	return n
}
