package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/temirov/promptprep/internal/utils"
)

func TestDefaultFilterConfiguration(t *testing.T) {
	configuration := DefaultFilterConfiguration()
	for _, extension := range []string{".py", ".go", ".md", ".makefile"} {
		if _, ok := configuration.Extensions[extension]; !ok {
			t.Fatalf("expected default extension %s", extension)
		}
	}
	for _, directory := range []string{"venv", "node_modules", ".git", "__pycache__"} {
		if _, ok := configuration.ExcludedDirectories[directory]; !ok {
			t.Fatalf("expected default excluded directory %s", directory)
		}
	}
	if _, ok := configuration.ExcludedFiles[utils.DefaultOutputFileName]; !ok {
		t.Fatalf("expected %s to be excluded", utils.DefaultOutputFileName)
	}
	if configuration.MaximumFileSizeMB != DefaultMaximumFileSizeMB {
		t.Fatalf("expected default size limit, got %v", configuration.MaximumFileSizeMB)
	}
}

func TestBuildFilterConfiguration(t *testing.T) {
	testCases := []struct {
		name              string
		options           FilterOptions
		expectExtension   string
		rejectExtension   string
		expectExcluded    string
		expectMaximumSize float64
	}{
		{
			name:              "extensions_are_normalized",
			options:           FilterOptions{Extensions: []string{"GO", " .Rs "}, MaximumFileSizeMB: floatPointer(2)},
			expectExtension:   ".go",
			rejectExtension:   ".py",
			expectExcluded:    utils.DefaultOutputFileName,
			expectMaximumSize: 2,
		},
		{
			name:              "output_file_is_always_excluded",
			options:           FilterOptions{ExcludedFiles: []string{"notes.txt"}, OutputFileName: "bundle.md"},
			expectExtension:   ".py",
			expectExcluded:    "bundle.md",
			expectMaximumSize: DefaultMaximumFileSizeMB,
		},
		{
			name:              "zero_size_limit_is_kept",
			options:           FilterOptions{MaximumFileSizeMB: floatPointer(0)},
			expectExtension:   ".py",
			expectExcluded:    utils.DefaultOutputFileName,
			expectMaximumSize: 0,
		},
		{
			name:              "empty_lists_select_defaults",
			options:           FilterOptions{Extensions: []string{"", " "}},
			expectExtension:   ".py",
			expectExcluded:    utils.DefaultOutputFileName,
			expectMaximumSize: DefaultMaximumFileSizeMB,
		},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			configuration := BuildFilterConfiguration(testCase.options)
			if _, ok := configuration.Extensions[testCase.expectExtension]; !ok {
				t.Fatalf("expected extension %s in %v", testCase.expectExtension, configuration.Extensions)
			}
			if testCase.rejectExtension != "" {
				if _, ok := configuration.Extensions[testCase.rejectExtension]; ok {
					t.Fatalf("did not expect extension %s", testCase.rejectExtension)
				}
			}
			if _, ok := configuration.ExcludedFiles[testCase.expectExcluded]; !ok {
				t.Fatalf("expected excluded file %s in %v", testCase.expectExcluded, configuration.ExcludedFiles)
			}
			if configuration.MaximumFileSizeMB != testCase.expectMaximumSize {
				t.Fatalf("expected size limit %v, got %v", testCase.expectMaximumSize, configuration.MaximumFileSizeMB)
			}
		})
	}
}

func TestLoadGitignoreMatcher(t *testing.T) {
	rootDirectory := t.TempDir()
	matcher, err := LoadGitignoreMatcher(rootDirectory)
	if err != nil || matcher != nil {
		t.Fatalf("expected nil matcher without .gitignore, got %v %v", matcher, err)
	}
	if writeErr := os.WriteFile(filepath.Join(rootDirectory, utils.GitIgnoreFileName), []byte("*.log\nsecrets/\n"), 0o600); writeErr != nil {
		t.Fatalf("write .gitignore: %v", writeErr)
	}
	matcher, err = LoadGitignoreMatcher(rootDirectory)
	if err != nil {
		t.Fatalf("LoadGitignoreMatcher error: %v", err)
	}
	if !matcher.MatchesPath("debug.log") {
		t.Fatalf("expected debug.log to be ignored")
	}
	if !matcher.MatchesPath("secrets/key.py") {
		t.Fatalf("expected secrets/key.py to be ignored")
	}
	if matcher.MatchesPath("main.py") {
		t.Fatalf("did not expect main.py to be ignored")
	}
}
