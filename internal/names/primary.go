package names

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// primaryWords are the names that are already a primary category.
var primaryWords = map[string]struct{}{
	"red": {}, "green": {}, "blue": {}, "yellow": {}, "orange": {}, "pink": {},
	"purple": {}, "brown": {}, "gray": {}, "grey": {}, "black": {}, "white": {},
	"cyan": {}, "magenta": {}, "teal": {}, "olive": {}, "navy": {}, "maroon": {},
	"lime": {}, "aqua": {}, "silver": {}, "gold": {},
}

// primaryGroup lists the specific names filed under one primary category.
type primaryGroup struct {
	Primary string
	Names   []string
}

// primaryGroups is applied in order; a name listed in several groups takes
// the primary of the last one.
var primaryGroups = []primaryGroup{
	{"Red", []string{
		"crimson", "dark red", "maroon", "fire brick", "indian red", "dark salmon",
		"salmon", "light coral", "tomato", "coral", "orange red",
	}},
	{"Blue", []string{
		"navy", "dark blue", "steel blue", "cornflower blue", "royal blue",
		"dodger blue", "deep sky blue", "sky blue", "light blue", "powder blue",
		"alice blue", "cadet blue", "slate blue", "dark slate blue",
		"medium slate blue", "medium blue", "midnight blue", "indigo",
		"dark orchid", "blue violet", "dark violet", "violet",
	}},
	{"Green", []string{
		"dark green", "forest green", "sea green", "dark sea green",
		"medium sea green", "light sea green", "pale green", "spring green",
		"lawn green", "chartreuse", "green yellow", "yellow green", "lime green",
		"lime", "olive", "dark olive green", "olive drab", "dark khaki",
	}},
	{"Yellow", []string{
		"gold", "dark goldenrod", "goldenrod", "khaki", "yellow green",
		"green yellow", "lemon chiffon", "light yellow", "light goldenrod yellow",
		"papaya whip", "moccasin", "peach puff", "pale goldenrod", "mustard",
	}},
	{"Orange", []string{
		"dark orange", "orange red", "tomato", "coral", "sandy brown", "peru",
		"chocolate", "saddle brown", "sienna", "burlywood", "tan", "wheat", "bisque",
	}},
	{"Pink", []string{
		"hot pink", "deep pink", "light pink", "pale violet red",
		"medium violet red", "fuchsia", "magenta", "lavender blush", "misty rose",
	}},
	{"Purple", []string{
		"blue violet", "indigo", "dark violet", "medium purple", "thistle", "plum",
		"violet", "orchid", "medium orchid", "dark orchid", "dark magenta", "purple",
	}},
	{"Brown", []string{
		"maroon", "dark red", "sienna", "saddle brown", "chocolate", "peru",
		"burlywood", "tan", "rosy brown", "sandy brown", "wheat", "navajo white",
		"bisque", "peach puff", "moccasin",
	}},
	{"Gray", []string{
		"dim gray", "dark gray", "light gray", "slate gray", "dark slate gray",
		"light slate gray", "gainsboro", "silver", "alice blue", "ghost white",
		"snow", "white smoke", "ivory", "beige", "old lace", "floral white",
		"linen", "antique white", "papaya whip", "blanched almond", "bisque",
	}},
	{"Black", []string{
		"black", "dim gray", "dark slate gray", "navy", "midnight blue",
	}},
	{"White", []string{
		"white", "snow", "honeydew", "mint cream", "azure", "alice blue",
		"ghost white", "white smoke", "seashell", "beige", "old lace",
		"floral white", "ivory", "antique white", "linen", "lavender blush",
		"misty rose", "cornsilk", "blanched almond",
	}},
	{"Cyan", []string{
		"aqua", "cyan", "light cyan", "pale turquoise", "aquamarine", "turquoise",
		"medium turquoise", "dark turquoise", "cadet blue",
	}},
	{"Teal", []string{
		"teal", "dark cyan", "medium aquamarine",
	}},
}

// Conflict describes a specific name filed under more than one primary.
type Conflict struct {
	Name string `json:"name"`
	// Primaries lists every group the name appears in, in table order.
	Primaries []string `json:"primaries"`
	// Resolved is the primary that PrimaryCategoryOf uses (the last one).
	Resolved string `json:"resolved"`
}

var specificToPrimary, primaryConflicts = buildPrimaryTable(primaryGroups)

func buildPrimaryTable(groups []primaryGroup) (map[string]string, []Conflict) {
	table := make(map[string]string)
	seen := make(map[string][]string)

	for _, g := range groups {
		for _, name := range g.Names {
			table[name] = g.Primary
			// A name repeated inside one group is not a conflict.
			if ps := seen[name]; len(ps) == 0 || ps[len(ps)-1] != g.Primary {
				seen[name] = append(ps, g.Primary)
			}
		}
	}

	var conflicts []Conflict
	for name, primaries := range seen {
		if len(primaries) < 2 {
			continue
		}
		conflicts = append(conflicts, Conflict{
			Name:      name,
			Primaries: primaries,
			Resolved:  table[name],
		})
	}
	sort.Slice(conflicts, func(i, j int) bool {
		return conflicts[i].Name < conflicts[j].Name
	})

	return table, conflicts
}

// Conflicts returns the specific names listed under several primaries,
// sorted by name.
func Conflicts() []Conflict {
	out := make([]Conflict, len(primaryConflicts))
	copy(out, primaryConflicts)
	return out
}

// PrimaryCategoryOf returns the primary color category for a specific color
// name.
//
// Resolution order:
//  1. The name is itself a primary word: return it capitalized.
//  2. The name is in the specific-to-primary table: return the mapped primary.
//  3. A word of the name is a primary word ("dark red" -> "Red"): return the
//     first such word capitalized.
//  4. Otherwise return the name capitalized.
func PrimaryCategoryOf(specific string) string {
	name := strings.TrimSpace(specific)
	lower := strings.ToLower(name)

	if _, ok := primaryWords[lower]; ok {
		return capitalize(name)
	}

	if primary, ok := specificToPrimary[lower]; ok {
		return primary
	}

	for _, word := range strings.Fields(lower) {
		if _, ok := primaryWords[word]; ok {
			return capitalize(word)
		}
	}

	return capitalize(name)
}

// capitalize upper-cases the first letter and lower-cases the rest.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}
