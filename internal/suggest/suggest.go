package suggest

// scoredCandidate is an internal type used during suggestion ranking.
type scoredCandidate struct {
	originalValue   string
	normalizedValue string
	score           float64
	prefixScore     float64
}

// Suggestion is one ranked fuzzy match: a candidate plus its score.
type Suggestion struct {
	Value string
	// Score is the similarity in [0.0, 1.0]; 1.0 is identical, 0.6 is the
	// default "similar enough" threshold.
	Score float64
}

// SuggestOptions configures Suggest's ranking and filtering. Zero value is
// not usable directly for Normalize (Go's bool zero value is false); use
// DefaultSuggestOptions for the common case.
type SuggestOptions struct {
	// MinScore filters out candidates scoring below it. Default 0.6.
	MinScore float64
	// MaxSuggestions caps the returned slice length. Default 3.
	MaxSuggestions int
	// Normalize case-folds input and candidates before scoring. Default true.
	Normalize bool
}

// DefaultSuggestOptions returns MinScore 0.6, MaxSuggestions 3, Normalize true.
func DefaultSuggestOptions() SuggestOptions {
	return SuggestOptions{
		MinScore:       0.6,
		MaxSuggestions: 3,
		Normalize:      true,
	}
}

// Suggest ranks candidates against input by similarity, filters out anything
// below opts.MinScore, and returns the top opts.MaxSuggestions. Used to
// populate the suggestion shown alongside an unofficial filename keyword or
// an unrecognized schema.org term.
func Suggest(input string, candidates []string, opts SuggestOptions) []Suggestion {
	// Apply defaults if not set
	minScore := opts.MinScore
	if minScore == 0 {
		minScore = 0.6
	}
	maxSuggestions := opts.MaxSuggestions
	if maxSuggestions == 0 {
		maxSuggestions = 3
	}
	// Note: opts.Normalize defaults to false (Go zero value)
	// Callers should use DefaultSuggestOptions() or set explicitly

	// Handle empty input or candidates
	if len(candidates) == 0 {
		return []Suggestion{}
	}

	// Prepare normalized versions if requested
	normalizedInput := input
	normalizedCandidates := make([]string, len(candidates))
	copy(normalizedCandidates, candidates)

	if opts.Normalize {
		// Normalize input
		normalizedInput = Normalize(input)

		// Normalize all candidates
		for i, candidate := range candidates {
			normalizedCandidates[i] = Normalize(candidate)
		}
	}

	// Score all candidates. osaScore (transposition-aware) ranks typo-style
	// input better than plain Levenshtein; prefixScore (Jaro-Winkler) only
	// breaks ties between candidates OSA scores identically.
	scored := make([]scoredCandidate, 0, len(candidates))
	for i, candidate := range candidates {
		score := osaScore(normalizedInput, normalizedCandidates[i])

		// Filter by minimum score
		if score >= minScore {
			scored = append(scored, scoredCandidate{
				originalValue:   candidate,
				normalizedValue: normalizedCandidates[i],
				score:           score,
				prefixScore:     jaroWinklerScore(normalizedInput, normalizedCandidates[i]),
			})
		}
	}

	// If no candidates meet threshold, return empty
	if len(scored) == 0 {
		return []Suggestion{}
	}

	// Sort by score (descending), then prefix score, then alphabetically for ties
	// Using insertion sort for small slices (typically < 10 candidates)
	for i := 1; i < len(scored); i++ {
		key := scored[i]
		j := i - 1

		// Move elements that are "less than" key to the right
		for j >= 0 && shouldSwap(scored[j], key) {
			scored[j+1] = scored[j]
			j--
		}
		scored[j+1] = key
	}

	// Return top maxSuggestions
	limit := maxSuggestions
	if limit > len(scored) {
		limit = len(scored)
	}

	results := make([]Suggestion, limit)
	for i := 0; i < limit; i++ {
		results[i] = Suggestion{
			Value: scored[i].originalValue,
			Score: scored[i].score,
		}
	}

	return results
}

// shouldSwap returns true if a should come after b in the sorted order.
// Sort order: OSA score descending, then Jaro-Winkler prefix score
// descending, then alphabetically ascending for ties in both.
func shouldSwap(a, b scoredCandidate) bool {
	if a.score != b.score {
		return a.score < b.score
	}
	if a.prefixScore != b.prefixScore {
		return a.prefixScore < b.prefixScore
	}
	return a.originalValue > b.originalValue
}
