// Package names maps colors to human-readable names.
//
// A Database is an in-memory table of named colors, each stored with its RGB
// and precomputed Lab value. It is built once with Load, never mutated
// afterwards, and shared by every request. Concurrent reads need no locking.
//
// # Built-in Table
//
// The built-in table covers the CSS basic and extended color keywords (spelled
// with spaces, e.g. "steel blue") plus a few common extras such as "mustard".
// RGB values for CSS keywords come from golang.org/x/image/colornames; extras
// carry their own hex literal. Additional colors can be appended at load time
// with WithColors or read from a JSON file with ReadColorsFile.
//
// # Lookup
//
// FindNearest performs a linear scan using colorspace.PerceptualDistance with
// the query color as the reference. Ties go to the entry loaded first.
//
// # Primary Categories
//
// PrimaryCategoryOf groups a specific name under one of 22 primary words
// ("Red", "Blue", "Gray", ...). Specific names listed under more than one
// primary resolve to the last group that lists them; Conflicts reports those
// names.
package names
