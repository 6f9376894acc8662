package utils_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/temirov/promptprep/internal/utils"
)

// TestFindRepositoryRoot verifies the upward search for a .git directory or worktree file.
func TestFindRepositoryRoot(testingInstance *testing.T) {
	testCases := []struct {
		testName     string
		createMarker func(t *testing.T, repositoryRoot string)
	}{
		{
			testName: "git directory",
			createMarker: func(t *testing.T, repositoryRoot string) {
				if err := os.MkdirAll(filepath.Join(repositoryRoot, ".git"), 0o755); err != nil {
					t.Fatalf("mkdir .git: %v", err)
				}
			},
		},
		{
			testName: "worktree git file",
			createMarker: func(t *testing.T, repositoryRoot string) {
				if err := os.WriteFile(filepath.Join(repositoryRoot, ".git"), []byte("gitdir: /elsewhere\n"), 0o600); err != nil {
					t.Fatalf("write .git: %v", err)
				}
			},
		},
	}
	for _, testCase := range testCases {
		testingInstance.Run(testCase.testName, func(t *testing.T) {
			repositoryRoot := t.TempDir()
			testCase.createMarker(t, repositoryRoot)
			nestedDirectory := filepath.Join(repositoryRoot, "internal", "pkg")
			if err := os.MkdirAll(nestedDirectory, 0o755); err != nil {
				t.Fatalf("mkdir nested: %v", err)
			}
			found, err := utils.FindRepositoryRoot(nestedDirectory)
			if err != nil {
				t.Fatalf("FindRepositoryRoot error: %v", err)
			}
			if found != repositoryRoot {
				t.Fatalf("expected %s, got %s", repositoryRoot, found)
			}
		})
	}
}

// TestFindRepositoryRootOutsideRepository verifies the error when no .git entry exists.
func TestFindRepositoryRootOutsideRepository(testingInstance *testing.T) {
	startDirectory := testingInstance.TempDir()
	found, err := utils.FindRepositoryRoot(startDirectory)
	if err == nil {
		testingInstance.Skipf("temporary directory is inside the checkout at %s", found)
	}
	if !strings.Contains(err.Error(), "not found in or above "+startDirectory) {
		testingInstance.Fatalf("expected a not found error, got %v", err)
	}
}

// TestDescribeVersion verifies the order of git describe attempts.
func TestDescribeVersion(testingInstance *testing.T) {
	errDescribe := errors.New("no names found")
	testCases := []struct {
		testName string
		outputs  map[string]string
		expected string
	}{
		{
			testName: "exact release tag",
			outputs:  map[string]string{"--exact-match": "v1.4.0\n"},
			expected: "v1.4.0",
		},
		{
			testName: "falls back to long description",
			outputs:  map[string]string{"--long": "v1.4.0-3-gabc1234-dirty\n"},
			expected: "v1.4.0-3-gabc1234-dirty",
		},
		{
			testName: "blank output is skipped",
			outputs:  map[string]string{"--exact-match": "  \n", "--long": "v0.1.0-0-gdef5678\n"},
			expected: "v0.1.0-0-gdef5678",
		},
		{
			testName: "unknown without tags",
			outputs:  map[string]string{},
			expected: "unknown",
		},
	}
	for _, testCase := range testCases {
		testingInstance.Run(testCase.testName, func(t *testing.T) {
			repositoryRoot := t.TempDir()
			run := func(directory string, arguments ...string) ([]byte, error) {
				if directory != repositoryRoot {
					t.Fatalf("git ran in %s, want %s", directory, repositoryRoot)
				}
				output, described := testCase.outputs[arguments[2]]
				if !described {
					return nil, errDescribe
				}
				return []byte(output), nil
			}
			if version := utils.DescribeVersion(repositoryRoot, run); version != testCase.expected {
				t.Fatalf("expected %q, got %q", testCase.expected, version)
			}
		})
	}
}

// TestGetApplicationVersionPrefersLinkedVersion verifies the link time override.
func TestGetApplicationVersionPrefersLinkedVersion(testingInstance *testing.T) {
	previousVersion := utils.Version
	testingInstance.Cleanup(func() { utils.Version = previousVersion })
	utils.Version = "v9.9.9"
	if version := utils.GetApplicationVersion(); version != "v9.9.9" {
		testingInstance.Fatalf("expected linked version, got %q", version)
	}
}
