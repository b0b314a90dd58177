// Package text holds the token-budget text utilities used by the embedding pipeline:
// token estimation, chunking with overlap, truncation and snippet generation.
package text

import (
	"strings"
	"unicode/utf8"
)

// TokenEstimator estimates how many model tokens a text consumes.
type TokenEstimator interface {
	EstimateTokens(text string) int
}

// HeuristicEstimator approximates BPE token counts without a vocabulary:
// max(ceil(chars/4), ceil(words*1.3)). Deterministic and non-decreasing as text grows.
type HeuristicEstimator struct{}

// NewHeuristicEstimator returns the default estimator.
func NewHeuristicEstimator() HeuristicEstimator {
	return HeuristicEstimator{}
}

// EstimateTokens implements TokenEstimator.
func (HeuristicEstimator) EstimateTokens(text string) int {
	if text == "" {
		return 0
	}
	chars := utf8.RuneCountInString(text)
	words := len(strings.Fields(text))

	byChars := (chars + 3) / 4
	// integer ceil(words*1.3); float math gives 14 for 10 words
	byWords := (words*13 + 9) / 10

	return max(byChars, byWords)
}
