package colorspace

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// ErrInvalidHex is returned for color codes that are not exactly six
// hexadecimal digits.
var ErrInvalidHex = errors.New("invalid hex color")

var hexPattern = regexp.MustCompile(`^[0-9a-fA-F]{6}$`)

// IsHex reports whether s is exactly six hex digits with no prefix.
func IsHex(s string) bool {
	return hexPattern.MatchString(s)
}

// ParseHex parses a six-digit hex color. A single leading '#' is accepted;
// shorthand (#rgb), alpha and surrounding whitespace are not.
func ParseHex(s string) (RGB, error) {
	digits := strings.TrimPrefix(s, "#")
	if !IsHex(digits) {
		return RGB{}, fmt.Errorf("%w: %q (want 6 hex digits)", ErrInvalidHex, s)
	}

	c, err := colorful.Hex("#" + strings.ToLower(digits))
	if err != nil {
		return RGB{}, fmt.Errorf("%w: %v", ErrInvalidHex, err)
	}

	r, g, b := c.RGB255()
	return RGB{R: r, G: g, B: b}, nil
}

