package report

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// ComparisonEntry is one key's totals across the two compared periods.
type ComparisonEntry struct {
	Key         string
	Name        string
	Total1      float64
	Total2      float64
	Diff        float64
	DiffPercent float64
}

// collator orders display names the way a Spanish-speaking user would
// expect (accents and ñ sort with their base letters).
var collator = collate.New(language.Spanish)

// ComparePeriods unions the key sets of two per-key rollups and computes
// the delta for every key. A key present in only one period contributes 0
// for the missing period rather than being excluded.
//
// DiffPercent is guarded: a move from 0 to a positive total is defined as
// exactly 100 (new spend), and 0 to 0 is 0.
func ComparePeriods(totals1, totals2 map[string]float64, names map[string]string) []ComparisonEntry {
	keys := make(map[string]bool, len(totals1)+len(totals2))
	for k := range totals1 {
		keys[k] = true
	}
	for k := range totals2 {
		keys[k] = true
	}

	entries := make([]ComparisonEntry, 0, len(keys))
	for k := range keys {
		t1 := totals1[k]
		t2 := totals2[k]
		diff := t2 - t1

		var pct float64
		switch {
		case t1 == 0 && t2 > 0:
			pct = 100
		case t1 == 0:
			pct = 0
		default:
			pct = diff / t1 * 100
		}

		name := names[k]
		if name == "" {
			name = UncategorizedLabel
		}
		entries = append(entries, ComparisonEntry{
			Key:         k,
			Name:        name,
			Total1:      Round2(t1),
			Total2:      Round2(t2),
			Diff:        Round2(diff),
			DiffPercent: Round2(pct),
		})
	}

	sortComparison(entries)
	return entries
}

// sortComparison applies the three-tier ordering: increases by diff
// descending, unchanged alphabetically, decreases by diff ascending so the
// largest saving comes first.
func sortComparison(entries []ComparisonEntry) {
	tier := func(e ComparisonEntry) int {
		switch {
		case e.Diff > 0:
			return 0
		case e.Diff == 0:
			return 1
		default:
			return 2
		}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		ti, tj := tier(entries[i]), tier(entries[j])
		if ti != tj {
			return ti < tj
		}
		switch ti {
		case 0:
			return entries[i].Diff > entries[j].Diff
		case 2:
			return entries[i].Diff < entries[j].Diff
		default:
			return collator.CompareString(entries[i].Name, entries[j].Name) < 0
		}
	})
}
