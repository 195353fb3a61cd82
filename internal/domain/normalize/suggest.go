package normalize

import (
	"sort"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Suggest proposes the canonical field an unknown header probably meant.
func Suggest(header string) (string, bool) {
	if c, ok := Canonical(header); ok {
		return c, true
	}
	folded := fold(header)
	if folded == "" {
		return "", false
	}

	keys := make([]string, 0, len(aliases))
	for k := range aliases {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	// Abbreviated headers ("tlpl4") are subsequences of an alias.
	if ranks := fuzzy.RankFind(folded, keys); len(ranks) > 0 {
		sort.Stable(ranks)
		return aliases[ranks[0].Target], true
	}

	// Misspelled headers are a few edits away from an alias.
	best, bestDist := "", -1
	for _, k := range keys {
		d := fuzzy.LevenshteinDistance(folded, k)
		if bestDist < 0 || d < bestDist {
			best, bestDist = k, d
		}
	}
	if bestDist >= 0 && bestDist <= maxEdits(len(folded)) {
		return aliases[best], true
	}
	return "", false
}

func maxEdits(n int) int {
	if n/4 > 2 {
		return n / 4
	}
	return 2
}
