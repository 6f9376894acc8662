package tokenizer

import (
	"strings"
	"testing"
)

type testCounter struct{}

func (testCounter) Name() string { return "stub" }

func (testCounter) CountString(input string) (int, error) { return len([]rune(input)), nil }

func TestCountTextValidInput(t *testing.T) {
	result, err := CountText(testCounter{}, "hello")
	if err != nil {
		t.Fatalf("CountText error: %v", err)
	}
	if !result.Counted {
		t.Fatalf("expected counted result")
	}
	if result.Tokens != len([]rune("hello")) {
		t.Fatalf("expected %d tokens, got %d", len([]rune("hello")), result.Tokens)
	}
}

func TestCountTextInvalidUTF8(t *testing.T) {
	result, err := CountText(testCounter{}, string([]byte{0xff, 0xfe}))
	if err != nil {
		t.Fatalf("CountText error: %v", err)
	}
	if result.Counted {
		t.Fatalf("expected invalid text to be skipped")
	}
}

func TestCountTextNilCounter(t *testing.T) {
	if _, err := CountText(nil, "hello"); err == nil {
		t.Fatalf("expected error for nil counter")
	}
}

func TestWordEstimateCounter(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected int
	}{
		{name: "empty", input: "", expected: 0},
		{name: "words", input: "def foo():\n    return 1\n", expected: 4},
		{name: "extra whitespace", input: "  a \t b\n\nc  ", expected: 3},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			tokens, err := WordEstimateCounter{}.CountString(testCase.input)
			if err != nil {
				t.Fatalf("CountString error: %v", err)
			}
			if tokens != testCase.expected {
				t.Fatalf("expected %d, got %d", testCase.expected, tokens)
			}
		})
	}
}

func TestNewCounterWithFallbackUsesEstimateForUnknownModel(t *testing.T) {
	var warnings []string
	counter, estimated := NewCounterWithFallback(Config{Model: "no-such-model"}, func(message string) {
		warnings = append(warnings, message)
	})
	if !estimated {
		t.Fatalf("expected the estimate counter for an unknown model")
	}
	if !IsEstimate(counter) {
		t.Fatalf("expected IsEstimate to report the word estimate counter")
	}
	if len(warnings) != 1 || !strings.Contains(warnings[0], "no-such-model") {
		t.Fatalf("expected one warning naming the model, got %v", warnings)
	}
}

func TestIsEstimate(t *testing.T) {
	if IsEstimate(testCounter{}) {
		t.Fatalf("did not expect a stub counter to be an estimate")
	}
	if !IsEstimate(&WordEstimateCounter{}) {
		t.Fatalf("expected pointer estimate counter to be an estimate")
	}
}
