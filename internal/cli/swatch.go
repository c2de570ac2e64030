package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/afalcongonzalez/chromaviews/internal/colorspace"
)

// ANSI escape codes for truecolor swatches.
const (
	ansiReset    = "\033[0m"
	ansiBgPrefix = "\033[48;2;"
	swatchWidth  = 4
)

// useColor reports whether w is a terminal that should get ANSI swatches.
// NO_COLOR disables them.
func useColor(w io.Writer) bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// swatch returns a solid block of c, or blank padding when color is off.
func swatch(c colorspace.RGB, color bool) string {
	block := strings.Repeat(" ", swatchWidth)
	if !color {
		return block
	}
	return fmt.Sprintf("%s%d;%d;%dm%s%s", ansiBgPrefix, c.R, c.G, c.B, block, ansiReset)
}
