package utils_test

import (
	"testing"

	"github.com/temirov/promptprep/internal/utils"
)

func TestBytesToMegabytes(t *testing.T) {
	testCases := []struct {
		name     string
		bytes    int64
		expected float64
	}{
		{name: "negative", bytes: -1, expected: 0},
		{name: "zero", bytes: 0, expected: 0},
		{name: "one megabyte", bytes: 1024 * 1024, expected: 1},
		{name: "one and a half megabytes", bytes: 1536 * 1024, expected: 1.5},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			result := utils.BytesToMegabytes(testCase.bytes)
			if result != testCase.expected {
				t.Fatalf("expected %v, got %v", testCase.expected, result)
			}
		})
	}
}

func TestFormatMegabytes(t *testing.T) {
	if result := utils.FormatMegabytes(1.5); result != "1.50 MB" {
		t.Fatalf("expected 1.50 MB, got %s", result)
	}
}

func TestFormatCount(t *testing.T) {
	testCases := []struct {
		name     string
		count    int
		expected string
	}{
		{name: "small", count: 42, expected: "42"},
		{name: "thousands", count: 12345, expected: "12,345"},
		{name: "millions", count: 1234567, expected: "1,234,567"},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			result := utils.FormatCount(testCase.count)
			if result != testCase.expected {
				t.Fatalf("expected %s, got %s", testCase.expected, result)
			}
		})
	}
}
