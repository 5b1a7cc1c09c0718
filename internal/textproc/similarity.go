package textproc

import (
	"github.com/agnivade/levenshtein"
)

// Similarity thresholds used at the two distinct comparison sites.  They are
// configurable per profile / per merge call and must never be conflated: the
// dedup threshold tolerates rephrasing, the title threshold guards report
// structure and is deliberately strict.
const (
	DefaultDuplicateThreshold  = 80
	DefaultTitleMatchThreshold = 95
)

// Similarity computes a normalized edit-distance ratio between a and b in
// [0, 100]: 100 means identical, 0 fully dissimilar.  The ratio is
// rune-based, so multi-byte scripts (Cyrillic clinical text) score the same
// as ASCII.  Symmetric: Similarity(a, b) == Similarity(b, a).
func Similarity(a, b string) int {
	if a == b {
		return 100
	}
	la := len([]rune(a))
	lb := len([]rune(b))
	longest := la
	if lb > longest {
		longest = lb
	}
	if longest == 0 {
		return 100
	}
	dist := levenshtein.ComputeDistance(a, b)
	return (longest - dist) * 100 / longest
}

// IsDuplicate reports whether a and b score at or above threshold.
func IsDuplicate(a, b string, threshold int) bool {
	return Similarity(a, b) >= threshold
}

// Match is the outcome of scanning a candidate against a pool.
type Match struct {
	// Index is the position of the matched pool entry, -1 when none matched.
	Index int
	// Score is the similarity of the matched entry (0 when none matched).
	Score int
}

// FirstMatch scans pool in the order given and returns the first entry whose
// similarity to candidate meets or exceeds threshold.
//
// This is first-qualifying-match, not best-match, on purpose: scan order is
// the caller's paragraph/group arrival order and the early return keeps
// batch classification cheap.  Changing this to best-match would alter
// observable dedup behavior.
func FirstMatch(candidate string, pool []string, threshold int) Match {
	for i, p := range pool {
		if score := Similarity(candidate, p); score >= threshold {
			return Match{Index: i, Score: score}
		}
	}
	return Match{Index: -1}
}
