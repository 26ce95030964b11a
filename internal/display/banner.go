package display

import (
	"fmt"
	"io"

	"github.com/backmassage/audionorm/internal/term"
)

// PrintBanner writes the ASCII art banner to w, in magenta when colors are
// enabled.
func PrintBanner(w io.Writer) {
	fmt.Fprint(w, term.Magenta)
	fmt.Fprint(w, `                 _ _
  __ _ _   _  __| (_) ___  _ __   ___  _ __ _ __ ___
 / _`+"`"+` | | | |/ _`+"`"+` | |/ _ \| '_ \ / _ \| '__| '_ `+"`"+` _ \
| (_| | |_| | (_| | | (_) | | | | (_) | |  | | | | | |
 \__,_|\__,_|\__,_|_|\___/|_| |_|\___/|_|  |_| |_| |_|
`)
	fmt.Fprintln(w, term.NC)
}
