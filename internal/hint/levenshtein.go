// Package hint computes "did you mean" suggestions for
// diag.E_UnresolvedReference, : the Levenshtein-closest
// names within the visible modules, top 3, max edit distance 3, ties
// broken by distance then prefix-match then lexicographically.
package hint

import "golang.org/x/text/unicode/norm"

// distance computes the Levenshtein edit distance between a and b
// after NFC-normalizing both, so visually identical names that differ
// only in Unicode composition (e.g. a precomposed "é" vs. "e"+combining
// acute) compare as identical rather than as a spurious edit away.
func distance(a, b string) int {
	ra := []rune(norm.NFC.String(a))
	rb := []rune(norm.NFC.String(b))

	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			del := prev[j] + 1
			ins := curr[j-1] + 1
			sub := prev[j-1] + cost
			curr[j] = min(del, min(ins, sub))
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}
