package tokenizer

import "strings"

const wordEstimateCounterName = "word-estimate"

// WordEstimateCounter approximates tokens by counting whitespace separated words.
type WordEstimateCounter struct{}

// Name identifies the estimator.
func (WordEstimateCounter) Name() string {
	return wordEstimateCounterName
}

// CountString returns the number of words in input.
func (WordEstimateCounter) CountString(input string) (int, error) {
	return len(strings.Fields(input)), nil
}
