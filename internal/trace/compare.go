package trace

import (
	"fmt"
)

// ComparisonResult is Match, or Mismatch with the index of the first line
// that differs.
type ComparisonResult struct {
	matched bool
	index   int
}

var Match = ComparisonResult{matched: true}

func Mismatch(index int) ComparisonResult {
	return ComparisonResult{matched: false, index: index}
}

func (r ComparisonResult) IsMatch() bool {
	return r.matched
}

// Index is the divergence index of a mismatch, -1 for a match.
func (r ComparisonResult) Index() int {
	if r.matched {
		return -1
	}
	return r.index
}

func (r ComparisonResult) String() string {
	if r.matched {
		return "match"
	}
	return fmt.Sprintf("mismatch at %d", r.index)
}

// Compare walks both traces in lockstep. A line missing from the shorter
// trace counts as different, so a strict prefix mismatches at its length.
func Compare(a []string, b []string) ComparisonResult {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if i >= len(a) || i >= len(b) || a[i] != b[i] {
			return Mismatch(i)
		}
	}
	return Match
}
