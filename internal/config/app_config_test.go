package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/temirov/promptprep/internal/utils"
)

type configTestCase struct {
	name              string
	globalContent     string
	localContent      string
	explicitPath      string
	explicitContent   string
	expectFormat      string
	expectModel       string
	expectExtensions  []string
	expectSummaryMode *bool
	expectMaxSize     *float64
}

func boolPointer(value bool) *bool {
	pointer := value
	return &pointer
}

func floatPointer(value float64) *float64 {
	pointer := value
	return &pointer
}

func TestLoadApplicationConfigurationMergesSources(t *testing.T) {
	testCases := []configTestCase{
		{
			name:              "local_overrides_global",
			globalContent:     "format: markdown\nsummary_mode: true\ntoken_model: gpt-4o\n",
			localContent:      "format: html\nextensions:\n  - .go\n  - .py\n",
			expectFormat:      "html",
			expectModel:       "gpt-4o",
			expectExtensions:  []string{".go", ".py"},
			expectSummaryMode: boolPointer(true),
		},
		{
			name:              "explicit_path_replaces_local",
			globalContent:     "max_file_size_mb: 5\n",
			localContent:      "format: html\n",
			explicitPath:      "custom.yaml",
			explicitContent:   "format: highlighted\nsummary_mode: false\n",
			expectFormat:      "highlighted",
			expectSummaryMode: boolPointer(false),
			expectMaxSize:     floatPointer(5),
		},
		{
			name:             "comma_separated_extensions",
			localContent:     "extensions: .go,.rs\n",
			expectExtensions: []string{".go", ".rs"},
		},
		{
			name: "no_configuration_files",
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			homeDir := t.TempDir()
			workingDir := t.TempDir()
			configDir := filepath.Join(homeDir, utils.GlobalConfigDirectoryName)
			if err := os.MkdirAll(configDir, 0o755); err != nil {
				t.Fatalf("create config dir: %v", err)
			}
			if testCase.globalContent != "" {
				globalPath := filepath.Join(configDir, utils.GlobalConfigFileName)
				if err := os.WriteFile(globalPath, []byte(testCase.globalContent), 0o600); err != nil {
					t.Fatalf("write global config: %v", err)
				}
			}
			if testCase.localContent != "" {
				localPath := filepath.Join(workingDir, utils.LocalConfigFileName)
				if err := os.WriteFile(localPath, []byte(testCase.localContent), 0o600); err != nil {
					t.Fatalf("write local config: %v", err)
				}
			}
			if testCase.explicitPath != "" {
				target := filepath.Join(workingDir, testCase.explicitPath)
				if err := os.WriteFile(target, []byte(testCase.explicitContent), 0o600); err != nil {
					t.Fatalf("write explicit config: %v", err)
				}
			}

			t.Setenv("HOME", homeDir)
			t.Setenv("USERPROFILE", homeDir)

			loadedConfig, err := LoadApplicationConfiguration(LoadOptions{
				WorkingDirectory: workingDir,
				ExplicitFilePath: testCase.explicitPath,
			})
			if err != nil {
				t.Fatalf("LoadApplicationConfiguration error: %v", err)
			}

			if loadedConfig.Format != testCase.expectFormat {
				t.Fatalf("expected format %q, got %q", testCase.expectFormat, loadedConfig.Format)
			}
			if loadedConfig.TokenModel != testCase.expectModel {
				t.Fatalf("expected model %q, got %q", testCase.expectModel, loadedConfig.TokenModel)
			}
			if len(testCase.expectExtensions) > 0 && !reflect.DeepEqual(loadedConfig.Extensions, testCase.expectExtensions) {
				t.Fatalf("expected extensions %v, got %v", testCase.expectExtensions, loadedConfig.Extensions)
			}
			if testCase.expectSummaryMode == nil {
				if loadedConfig.SummaryMode != nil {
					t.Fatalf("expected no summary_mode override")
				}
			} else if loadedConfig.SummaryMode == nil || *loadedConfig.SummaryMode != *testCase.expectSummaryMode {
				t.Fatalf("unexpected summary_mode value")
			}
			if testCase.expectMaxSize == nil {
				if loadedConfig.MaximumFileSizeMB != nil {
					t.Fatalf("expected no max_file_size_mb override")
				}
			} else if loadedConfig.MaximumFileSizeMB == nil || *loadedConfig.MaximumFileSizeMB != *testCase.expectMaxSize {
				t.Fatalf("unexpected max_file_size_mb value")
			}
		})
	}
}

func TestLoadApplicationConfigurationRejectsMissingExplicitFile(t *testing.T) {
	homeDir := t.TempDir()
	t.Setenv("HOME", homeDir)
	t.Setenv("USERPROFILE", homeDir)
	_, err := LoadApplicationConfiguration(LoadOptions{WorkingDirectory: t.TempDir(), ExplicitFilePath: "missing.yaml"})
	if err == nil {
		t.Fatalf("expected error for missing explicit configuration")
	}
}

func TestMergeKeepsBaseWhenOverrideIsEmpty(t *testing.T) {
	base := ApplicationConfiguration{
		Format:        "markdown",
		CountTokens:   boolPointer(true),
		ExcludedFiles: []string{"notes.txt"},
	}
	merged := base.Merge(ApplicationConfiguration{})
	if merged.Format != "markdown" {
		t.Fatalf("expected format to be kept, got %q", merged.Format)
	}
	if merged.CountTokens == nil || !*merged.CountTokens {
		t.Fatalf("expected count_tokens to be kept")
	}
	if !reflect.DeepEqual(merged.ExcludedFiles, []string{"notes.txt"}) {
		t.Fatalf("unexpected excluded files %v", merged.ExcludedFiles)
	}
}
