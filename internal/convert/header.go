package convert

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-audio/aiff"
	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// Header errors.
var (
	ErrUnknownContainer = errors.New("unknown container extension")
	ErrInvalidHeader    = errors.New("invalid container header")
)

// Header is the format information stored in a WAV or AIFF file header.
type Header struct {
	Channels   int
	SampleRate int
	BitDepth   int
	Duration   time.Duration
}

// String renders the header as e.g. "1ch, 44100 Hz, 16-bit, 3.2s".
func (h Header) String() string {
	s := fmt.Sprintf("%dch, %d Hz, %d-bit", h.Channels, h.SampleRate, h.BitDepth)
	if h.Duration > 0 {
		s += fmt.Sprintf(", %.1fs", h.Duration.Seconds())
	}
	return s
}

// ReadHeader reads the container header of a WAV or AIFF file, choosing the
// decoder by extension. The audio payload is not decoded.
func ReadHeader(path string) (Header, error) {
	f, err := os.Open(path)
	if err != nil {
		return Header{}, err
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
		d := wav.NewDecoder(f)
		if !d.IsValidFile() {
			return Header{}, fmt.Errorf("%s: %w", path, ErrInvalidHeader)
		}
		d.ReadInfo()
		h := fromFormat(d.Format(), int(d.BitDepth))
		if dur, err := d.Duration(); err == nil {
			h.Duration = dur
		}
		return h, nil
	case ".aif", ".aiff":
		d := aiff.NewDecoder(f)
		if !d.IsValidFile() {
			return Header{}, fmt.Errorf("%s: %w", path, ErrInvalidHeader)
		}
		d.ReadInfo()
		h := fromFormat(d.Format(), int(d.BitDepth))
		if dur, err := d.Duration(); err == nil {
			h.Duration = dur
		}
		return h, nil
	default:
		return Header{}, fmt.Errorf("%s: %w", path, ErrUnknownContainer)
	}
}

func fromFormat(f *audio.Format, bitDepth int) Header {
	h := Header{BitDepth: bitDepth}
	if f != nil {
		h.Channels = f.NumChannels
		h.SampleRate = f.SampleRate
	}
	return h
}
