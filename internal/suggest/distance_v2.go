package suggest

import "github.com/antzucaro/matchr"

// jaroWinklerScore wraps matchr's Jaro-Winkler implementation, used by
// Suggest as a prefix-aware tiebreaker: two candidates can sit at the same
// edit distance from a typo while differing in how much of their prefix
// actually matches, which matters for short schema.org term names and
// filename keywords.
func jaroWinklerScore(a, b string) float64 {
	const longTolerance = false
	return matchr.JaroWinkler(a, b, longTolerance)
}
