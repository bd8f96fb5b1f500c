// Package suggest provides fuzzy "did you mean...?" ranking used to annotate
// a handful of diagnostics (unofficial filename keywords, unknown schema.org
// terms) with the closest known-good value.
//
// Distance/Score give the plain Levenshtein edit distance and its 0.0-1.0
// normalization; Suggest ranks a candidate list against an input using OSA
// distance (transposition-aware) with a Jaro-Winkler prefix tiebreak, and
// returns the top matches above a minimum score.
package suggest
