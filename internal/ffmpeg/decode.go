package ffmpeg

import (
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// DecodeText turns raw child-process output into a string without ever
// failing. Valid UTF-8 is returned as is; anything else is decoded as
// ISO-8859-1, which assigns a character to every byte value.
func DecodeText(b []byte) string {
	if utf8.Valid(b) {
		return string(b)
	}
	s, _, err := transform.Bytes(charmap.ISO8859_1.NewDecoder(), b)
	if err != nil {
		return string([]rune(string(b)))
	}
	return string(s)
}
