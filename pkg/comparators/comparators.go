// Package comparators implements the fuzzy similarity primitives used by
// blocking and probabilistic matching. Inputs are expected to be normalized
// (see pkg/normalizers) before comparison.
package comparators

import (
	"sort"
	"strings"
)

// Scorer provides string similarity algorithms for entity resolution
type Scorer struct{}

// NewScorer creates a new Scorer
func NewScorer() *Scorer {
	return &Scorer{}
}

// Ratio returns a Levenshtein-based similarity between 0.0 and 1.0.
// Returns 0.0 when either side is empty.
func (s *Scorer) Ratio(a, b string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0.0
	}
	if a == b {
		return 1.0
	}
	distance := s.LevenshteinDistance(a, b)
	maxLen := max(len(a), len(b))
	return 1.0 - float64(distance)/float64(maxLen)
}

// TokenSortRatio tokenizes both strings, sorts the tokens, and compares the
// rejoined forms. Word order differences score as equal.
func (s *Scorer) TokenSortRatio(a, b string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0.0
	}
	return s.Ratio(sortedTokens(a), sortedTokens(b))
}

// TokenSetRatio compares the token intersection against each side's
// remainder and returns the best score. Robust to one side carrying extra
// tokens ("aero club" vs "aero club de madrid").
func (s *Scorer) TokenSetRatio(a, b string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0.0
	}

	tokensA := tokenSet(a)
	tokensB := tokenSet(b)

	var intersection, diffA, diffB []string
	for t := range tokensA {
		if tokensB[t] {
			intersection = append(intersection, t)
		} else {
			diffA = append(diffA, t)
		}
	}
	for t := range tokensB {
		if !tokensA[t] {
			diffB = append(diffB, t)
		}
	}

	sort.Strings(intersection)
	sort.Strings(diffA)
	sort.Strings(diffB)

	base := strings.Join(intersection, " ")
	combinedA := strings.TrimSpace(base + " " + strings.Join(diffA, " "))
	combinedB := strings.TrimSpace(base + " " + strings.Join(diffB, " "))

	best := s.Ratio(combinedA, combinedB)
	if base != "" {
		if r := s.Ratio(base, combinedA); r > best {
			best = r
		}
		if r := s.Ratio(base, combinedB); r > best {
			best = r
		}
	}
	return best
}

// PartialRatio slides the shorter string over the longer one and returns the
// best window similarity. Useful for phone fragments and truncated fields.
func (s *Scorer) PartialRatio(a, b string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0.0
	}

	shorter, longer := a, b
	if len(shorter) > len(longer) {
		shorter, longer = longer, shorter
	}
	if len(shorter) == len(longer) {
		return s.Ratio(shorter, longer)
	}

	best := 0.0
	for i := 0; i+len(shorter) <= len(longer); i++ {
		window := longer[i : i+len(shorter)]
		if r := s.Ratio(shorter, window); r > best {
			best = r
			if best == 1.0 {
				break
			}
		}
	}
	return best
}

// ExactMatch returns 1.0 for exact match, 0.0 otherwise
func (s *Scorer) ExactMatch(a, b string) float64 {
	if a == "" || b == "" {
		return 0.0
	}
	if a == b {
		return 1.0
	}
	return 0.0
}

// LevenshteinDistance calculates the edit distance between two strings
func (s *Scorer) LevenshteinDistance(a, b string) int {
	if a == b {
		return 0
	}
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	row := make([]int, len(b)+1)
	prevRow := make([]int, len(b)+1)

	for j := 0; j <= len(b); j++ {
		prevRow[j] = j
	}

	for i := 1; i <= len(a); i++ {
		row[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 0
			if a[i-1] != b[j-1] {
				cost = 1
			}
			row[j] = min(min(row[j-1]+1, prevRow[j]+1), prevRow[j-1]+cost)
		}
		row, prevRow = prevRow, row
	}

	return prevRow[len(b)]
}

func sortedTokens(s string) string {
	tokens := strings.Fields(s)
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}

func tokenSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, t := range strings.Fields(s) {
		set[t] = true
	}
	return set
}
