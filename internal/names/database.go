package names

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/afalcongonzalez/chromaviews/internal/colorspace"
)

var (
	// ErrEmpty is returned by Load when no entry could be loaded.
	ErrEmpty = errors.New("no color names loaded")

	// ErrNotFound is returned by lookups on a database with no entries.
	ErrNotFound = errors.New("no color name found")
)

// Entry is one named color in the database.
type Entry struct {
	Name string
	Hex  string
	RGB  colorspace.RGB
	Lab  colorspace.Lab
}

// Match is the result of a nearest-name lookup.
type Match struct {
	Name    string  `json:"name"`
	Primary string  `json:"primary"`
	DeltaE  float64 `json:"deltaE"`
}

// Display returns the match as "Primary (name)".
func (m Match) Display() string {
	return m.Primary + " (" + m.Name + ")"
}

// Database is an immutable table of named colors.
type Database struct {
	entries []Entry
}

type loadOptions struct {
	logger   hclog.Logger
	colors   []Color
	builtins bool
}

// Option configures Load.
type Option func(*loadOptions)

// WithLogger sets the logger used to report skipped entries.
func WithLogger(logger hclog.Logger) Option {
	return func(o *loadOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithColors appends colors after the built-in table.
func WithColors(colors []Color) Option {
	return func(o *loadOptions) {
		o.colors = append(o.colors, colors...)
	}
}

// WithoutBuiltins loads only the colors given with WithColors.
func WithoutBuiltins() Option {
	return func(o *loadOptions) {
		o.builtins = false
	}
}

// Load builds a Database. Entries whose value cannot be parsed are logged and
// skipped, as are repeated names. Load fails with ErrEmpty if nothing loads.
func Load(opts ...Option) (*Database, error) {
	o := loadOptions{
		logger:   hclog.NewNullLogger(),
		builtins: true,
	}
	for _, opt := range opts {
		opt(&o)
	}

	var colors []Color
	if o.builtins {
		colors = BuiltinColors()
	}
	colors = append(colors, o.colors...)

	db := &Database{entries: make([]Entry, 0, len(colors))}
	seen := make(map[string]struct{}, len(colors))

	for _, c := range colors {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			o.logger.Warn("skipping color with empty name", "hex", c.Hex)
			continue
		}
		key := strings.ToLower(name)
		if _, dup := seen[key]; dup {
			continue
		}

		rgb, err := c.resolve()
		if err != nil {
			o.logger.Warn("skipping color", "name", name, "hex", c.Hex, "error", err)
			continue
		}

		seen[key] = struct{}{}
		db.entries = append(db.entries, Entry{
			Name: name,
			Hex:  rgb.Hex(),
			RGB:  rgb,
			Lab:  colorspace.RGBToLab(rgb),
		})
	}

	if len(db.entries) == 0 {
		return nil, ErrEmpty
	}

	o.logger.Info("loaded color names", "count", len(db.entries))
	for _, c := range primaryConflicts {
		o.logger.Debug("color listed under several primaries", "name", c.Name,
			"primaries", c.Primaries, "resolved", c.Resolved)
	}
	return db, nil
}

// Len returns the number of entries.
func (db *Database) Len() int {
	return len(db.entries)
}

// FindNearest returns the name closest to a 6-digit hex color. A single
// leading "#" is accepted.
func (db *Database) FindNearest(hex string) (Match, error) {
	rgb, err := colorspace.ParseHex(hex)
	if err != nil {
		return Match{}, err
	}
	return db.FindNearestLab(colorspace.RGBToLab(rgb))
}

// FindNearestLab returns the entry minimizing PerceptualDistance(target,
// entry).
//
// Parameters:
//   - target: The color to name, in Lab.
//
// Returns:
//   - Match: The entry's name, its primary category and the distance.
//   - error: ErrNotFound when the database is nil or empty.
//
// The distance is not symmetric; the query is always the first argument.
// On ties the earliest entry wins, so built-in names beat extra names that
// share a color.
func (db *Database) FindNearestLab(target colorspace.Lab) (Match, error) {
	if db == nil || len(db.entries) == 0 {
		return Match{}, ErrNotFound
	}

	best := -1
	bestDist := math.Inf(1)
	for i := range db.entries {
		d := colorspace.PerceptualDistance(target, db.entries[i].Lab)
		if d < bestDist {
			bestDist = d
			best = i
		}
	}

	if best < 0 {
		return Match{}, fmt.Errorf("%w: all distances were undefined", ErrNotFound)
	}

	name := db.entries[best].Name
	return Match{
		Name:    name,
		Primary: PrimaryCategoryOf(name),
		DeltaE:  bestDist,
	}, nil
}
