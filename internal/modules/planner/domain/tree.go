package domain

import (
	"math/rand/v2"
	"strings"

	"golang.org/x/text/cases"
)

// Normalize collapses whitespace runs, trims and case-folds s so tree labels
// can be compared with configured phrases regardless of spacing or case.
func Normalize(s string) string {
	return cases.Fold().String(strings.Join(strings.Fields(s), " "))
}

// MatchesPhrase reports whether the normalized text contains the normalized phrase.
func MatchesPhrase(text, phrase string) bool {
	return strings.Contains(Normalize(text), Normalize(phrase))
}

// CommonGroups returns how many leading groups are eligible for random
// selection: every group except the last two.
func CommonGroups(n int) int {
	if n < 2 {
		return 0
	}
	return n - 2
}

// FromEnd resolves a 1-based position counted from the end of n groups.
func FromEnd(n, fromEnd int) (int, bool) {
	if fromEnd < 1 {
		return 0, false
	}
	idx := n - fromEnd
	if idx < 0 {
		return 0, false
	}
	return idx, true
}

// PickUnused picks a random row index in [0, n) that is not in used.
func PickUnused(r *rand.Rand, n int, used map[int]bool) (int, bool) {
	available := make([]int, 0, n)
	for i := 0; i < n; i++ {
		if !used[i] {
			available = append(available, i)
		}
	}
	if len(available) == 0 {
		return 0, false
	}
	return available[r.IntN(len(available))], true
}

// Clamp keeps idx inside a listing that may have shrunk since it was chosen.
func Clamp(idx, n int) int {
	if idx >= n {
		return n - 1
	}
	if idx < 0 {
		return 0
	}
	return idx
}

type TreeSummary struct {
	Common      int
	Penultimate int
	Last        int
}

func (s TreeSummary) Total() int {
	return s.Common + s.Penultimate + s.Last
}
