package palette

import (
	"sort"

	"github.com/afalcongonzalez/chromaviews/internal/colorspace"
)

// DuplicateThreshold is the DeltaE below which two colors are merged.
const DuplicateThreshold = 5.0

// Deduplicate drops entries that are within threshold of a more prominent
// one.
//
// Candidates are visited by descending Percent. Each is compared with the
// entries accepted so far; the first accepted entry closer than threshold
// decides: the candidate replaces it if its Percent is strictly higher,
// otherwise the candidate is discarded. Percentages are not summed, so the
// total may fall below 100. The result is sorted by Percent, descending.
func Deduplicate(entries []Entry, threshold float64) []Entry {
	candidates := sortedByPercent(entries)

	accepted := make([]Entry, 0, len(candidates))
	for _, cand := range candidates {
		match := -1
		for i := range accepted {
			if colorspace.DeltaE(cand.LabColor(), accepted[i].LabColor()) < threshold {
				match = i
				break
			}
		}

		switch {
		case match < 0:
			accepted = append(accepted, cand)
		case cand.Percent > accepted[match].Percent:
			accepted[match] = cand
		}
	}

	return sortedByPercent(accepted)
}

func sortedByPercent(entries []Entry) []Entry {
	out := make([]Entry, len(entries))
	copy(out, entries)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Percent > out[j].Percent
	})
	return out
}
