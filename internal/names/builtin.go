package names

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"golang.org/x/image/colornames"

	"github.com/afalcongonzalez/chromaviews/internal/colorspace"
)

// Color is a named color as supplied to Load. Hex may be empty for names that
// are CSS color keywords; their value is then taken from the CSS table.
type Color struct {
	Name string `json:"name"`
	Hex  string `json:"hex,omitempty"`
}

// basicColors are the CSS basic keywords plus a few everyday names.
var basicColors = []Color{
	{Name: "black"}, {Name: "white"}, {Name: "red"},
	{Name: "green"}, {Name: "blue"}, {Name: "yellow"},
	{Name: "cyan"}, {Name: "magenta"}, {Name: "orange"},
	{Name: "pink"}, {Name: "purple"}, {Name: "brown"},
	{Name: "gray"}, {Name: "grey"}, {Name: "navy"},
	{Name: "teal"}, {Name: "olive"}, {Name: "maroon"},
	{Name: "lime"}, {Name: "aqua"}, {Name: "silver"},
	{Name: "gold"}, {Name: "steel blue"}, {Name: "mustard", Hex: "#FFDB58"},
}

// extendedColors are the CSS extended keywords, spelled with spaces.
var extendedColors = []Color{
	{Name: "alice blue"}, {Name: "antique white"},
	{Name: "aquamarine"}, {Name: "azure"},
	{Name: "beige"}, {Name: "bisque"},
	{Name: "blanched almond"}, {Name: "blue violet"},
	{Name: "burlywood"}, {Name: "cadet blue"},
	{Name: "chartreuse"}, {Name: "chocolate"},
	{Name: "coral"}, {Name: "cornflower blue"},
	{Name: "cornsilk"}, {Name: "crimson"},
	{Name: "dark blue"}, {Name: "dark cyan"},
	{Name: "dark goldenrod"}, {Name: "dark gray"},
	{Name: "dark green"}, {Name: "dark khaki"},
	{Name: "dark magenta"}, {Name: "dark olive green"},
	{Name: "dark orange"}, {Name: "dark orchid"},
	{Name: "dark red"}, {Name: "dark salmon"},
	{Name: "dark sea green"}, {Name: "dark slate blue"},
	{Name: "dark slate gray"}, {Name: "dark turquoise"},
	{Name: "dark violet"}, {Name: "deep pink"},
	{Name: "deep sky blue"}, {Name: "dim gray"},
	{Name: "dodger blue"}, {Name: "fire brick"},
	{Name: "floral white"}, {Name: "forest green"},
	{Name: "fuchsia"}, {Name: "gainsboro"},
	{Name: "ghost white"}, {Name: "gold"},
	{Name: "goldenrod"}, {Name: "green yellow"},
	{Name: "honeydew"}, {Name: "hot pink"},
	{Name: "indian red"}, {Name: "indigo"},
	{Name: "ivory"}, {Name: "khaki"},
	{Name: "lavender"}, {Name: "lavender blush"},
	{Name: "lawn green"}, {Name: "lemon chiffon"},
	{Name: "light blue"}, {Name: "light coral"},
	{Name: "light cyan"}, {Name: "light goldenrod yellow"},
	{Name: "light gray"}, {Name: "light green"},
	{Name: "light pink"}, {Name: "light salmon"},
	{Name: "light sea green"}, {Name: "light sky blue"},
	{Name: "light slate gray"}, {Name: "light steel blue"},
	{Name: "light yellow"}, {Name: "lime green"},
	{Name: "linen"}, {Name: "medium aquamarine"},
	{Name: "medium blue"}, {Name: "medium orchid"},
	{Name: "medium purple"}, {Name: "medium sea green"},
	{Name: "medium slate blue"}, {Name: "medium spring green"},
	{Name: "medium turquoise"}, {Name: "medium violet red"},
	{Name: "midnight blue"}, {Name: "mint cream"},
	{Name: "misty rose"}, {Name: "moccasin"},
	{Name: "navajo white"}, {Name: "old lace"},
	{Name: "olive drab"}, {Name: "orange red"},
	{Name: "orchid"}, {Name: "pale goldenrod"},
	{Name: "pale green"}, {Name: "pale turquoise"},
	{Name: "pale violet red"}, {Name: "papaya whip"},
	{Name: "peach puff"}, {Name: "peru"},
	{Name: "plum"}, {Name: "powder blue"},
	{Name: "rosy brown"}, {Name: "royal blue"},
	{Name: "saddle brown"}, {Name: "salmon"},
	{Name: "sandy brown"}, {Name: "sea green"},
	{Name: "sea shell"}, {Name: "sienna"},
	{Name: "sky blue"}, {Name: "slate blue"},
	{Name: "slate gray"}, {Name: "snow"},
	{Name: "spring green"}, {Name: "tan"},
	{Name: "thistle"}, {Name: "tomato"},
	{Name: "turquoise"}, {Name: "violet"},
	{Name: "wheat"}, {Name: "white smoke"},
	{Name: "yellow green"},
}

// BuiltinColors returns the default name table in load order.
func BuiltinColors() []Color {
	out := make([]Color, 0, len(basicColors)+len(extendedColors))
	out = append(out, basicColors...)
	out = append(out, extendedColors...)
	return out
}

// resolve returns the RGB value for c, falling back to the CSS keyword table
// when c has no hex literal.
func (c Color) resolve() (colorspace.RGB, error) {
	if c.Hex != "" {
		return colorspace.ParseHex(c.Hex)
	}

	key := strings.ToLower(strings.ReplaceAll(c.Name, " ", ""))
	rgba, ok := colornames.Map[key]
	if !ok {
		return colorspace.RGB{}, fmt.Errorf("%q is not a CSS color keyword and has no hex value", c.Name)
	}
	return colorspace.RGB{R: rgba.R, G: rgba.G, B: rgba.B}, nil
}

// ReadColorsFile reads a JSON array of {"name", "hex"} objects.
func ReadColorsFile(path string) ([]Color, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read color names: %w", err)
	}

	var colors []Color
	if err := json.Unmarshal(data, &colors); err != nil {
		return nil, fmt.Errorf("parse color names %s: %w", path, err)
	}
	return colors, nil
}
