package hint

import (
	"sort"
	"strings"
)

// maxDistance and maxHints implement the "max distance 3, limit top 3"
// rule.
const (
	maxDistance = 3
	maxHints    = 3
)

type candidate struct {
	name      string
	dist      int
	prefixHit bool
}

// Closest returns up to maxHints names from candidates within
// maxDistance edits of target, ordered by distance, then by whether the
// candidate shares target's first rune as a prefix, then
// lexicographically as the final tie-break.
func Closest(target string, candidates []string) []string {
	scored := make([]candidate, 0, len(candidates))
	for _, c := range candidates {
		d := distance(target, c)
		if d > maxDistance {
			continue
		}
		scored = append(scored, candidate{
			name:      c,
			dist:      d,
			prefixHit: sharesPrefix(target, c),
		})
	}

	sort.Slice(scored, func(i, j int) bool {
		a, b := scored[i], scored[j]
		if a.dist != b.dist {
			return a.dist < b.dist
		}
		if a.prefixHit != b.prefixHit {
			return a.prefixHit
		}
		return a.name < b.name
	})

	if len(scored) > maxHints {
		scored = scored[:maxHints]
	}
	out := make([]string, len(scored))
	for i, c := range scored {
		out[i] = c.name
	}
	return out
}

func sharesPrefix(target, candidate string) bool {
	if target == "" || candidate == "" {
		return false
	}
	tr := []rune(target)
	cr := []rune(candidate)
	n := 1
	if len(tr) < n || len(cr) < n {
		return false
	}
	return strings.EqualFold(string(tr[:n]), string(cr[:n]))
}
