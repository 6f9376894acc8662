// Package tokenizer counts tokens for aggregated content using tiktoken encodings.
package tokenizer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pkoukk/tiktoken-go"
)

// Counter estimates token counts for text content.
type Counter interface {
	Name() string
	CountString(input string) (int, error)
}

// Config captures tokenizer selection parameters provided by the CLI.
type Config struct {
	Model string
}

const (
	// DefaultEncodingName is the encoding used when no model is configured.
	DefaultEncodingName = "cl100k_base"

	errorInitializeEncodingFormat = "initialize tokenizer for %s: %w"
	warningFallbackFormat         = "token counting falls back to a word estimate: %v"
)

var knownEncodingNames = map[string]struct{}{
	"cl100k_base": {},
	"o200k_base":  {},
	"p50k_base":   {},
	"p50k_edit":   {},
	"r50k_base":   {},
}

var errNilEncoder = errors.New("nil tiktoken encoder")

// NewCounter returns a Counter for the requested encoding or model name.
// Encoding names such as cl100k_base are used directly; anything else is
// resolved as an OpenAI model name.
func NewCounter(cfg Config) (Counter, error) {
	model := strings.ToLower(strings.TrimSpace(cfg.Model))
	if model == "" {
		model = DefaultEncodingName
	}

	var encoding *tiktoken.Tiktoken
	var encodingErr error
	if _, isEncodingName := knownEncodingNames[model]; isEncodingName {
		encoding, encodingErr = tiktoken.GetEncoding(model)
	} else {
		encoding, encodingErr = tiktoken.EncodingForModel(model)
	}
	if encodingErr != nil {
		return nil, fmt.Errorf(errorInitializeEncodingFormat, model, encodingErr)
	}
	return openAICounter{encoding: encoding, name: model}, nil
}

// NewCounterWithFallback returns NewCounter's result, or a word estimate counter when the
// encoding cannot be initialized. The boolean reports whether the estimate is in use.
func NewCounterWithFallback(cfg Config, warn func(string)) (Counter, bool) {
	counter, counterErr := NewCounter(cfg)
	if counterErr == nil {
		return counter, false
	}
	if warn != nil {
		warn(fmt.Sprintf(warningFallbackFormat, counterErr))
	}
	return WordEstimateCounter{}, true
}

// IsEstimate reports whether counter produces estimates rather than exact token counts.
func IsEstimate(counter Counter) bool {
	switch counter.(type) {
	case WordEstimateCounter, *WordEstimateCounter:
		return true
	default:
		return false
	}
}
