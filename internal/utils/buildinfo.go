package utils

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime/debug"
	"strings"
)

const (
	unknownVersion       = "unknown"
	developmentVersion   = "(devel)"
	gitExecutableName    = "git"
	workingDirectoryPath = "."
	errorGitNotFoundFmt  = "%s not found in or above %s"
	errorAbsolutePathFmt = "resolve %s: %w"
)

// Version is set at link time with -ldflags "-X github.com/temirov/promptprep/internal/utils.Version=v1.2.3".
var Version string

// describeArgumentSets are tried in order. The first prefers a release tag on HEAD.
var describeArgumentSets = [][]string{
	{"describe", "--tags", "--exact-match"},
	{"describe", "--tags", "--long", "--dirty"},
}

// gitRunner runs git with arguments inside directory and returns its standard output.
type gitRunner func(directory string, arguments ...string) ([]byte, error)

// GetApplicationVersion reports the linked version, then the module version from build
// info, then git describe output when running from a source checkout.
func GetApplicationVersion() string {
	if Version != EmptyString {
		return Version
	}
	buildInfo, buildInfoAvailable := debug.ReadBuildInfo()
	if buildInfoAvailable && buildInfo.Main.Version != EmptyString && buildInfo.Main.Version != developmentVersion {
		return buildInfo.Main.Version
	}
	repositoryRoot, repositoryRootErr := FindRepositoryRoot(workingDirectoryPath)
	if repositoryRootErr != nil {
		return unknownVersion
	}
	return DescribeVersion(repositoryRoot, runGit)
}

// DescribeVersion returns the first non empty git describe output for repositoryRoot, or
// "unknown" when every attempt fails.
func DescribeVersion(repositoryRoot string, run gitRunner) string {
	for _, describeArguments := range describeArgumentSets {
		describeOutput, describeErr := run(repositoryRoot, describeArguments...)
		if describeErr != nil {
			continue
		}
		if described := strings.TrimSpace(string(describeOutput)); described != EmptyString {
			return described
		}
	}
	return unknownVersion
}

// FindRepositoryRoot walks upward from startDirectory to the first directory holding a
// .git entry. Linked worktrees keep .git as a file, so any entry type counts.
func FindRepositoryRoot(startDirectory string) (string, error) {
	absoluteStartDirectory, absoluteErr := filepath.Abs(startDirectory)
	if absoluteErr != nil {
		return EmptyString, fmt.Errorf(errorAbsolutePathFmt, startDirectory, absoluteErr)
	}
	for currentDirectory := absoluteStartDirectory; ; {
		if _, statErr := os.Stat(filepath.Join(currentDirectory, GitDirectoryName)); statErr == nil {
			return currentDirectory, nil
		}
		parentDirectory := filepath.Dir(currentDirectory)
		if parentDirectory == currentDirectory {
			return EmptyString, fmt.Errorf(errorGitNotFoundFmt, GitDirectoryName, absoluteStartDirectory)
		}
		currentDirectory = parentDirectory
	}
}

func runGit(directory string, arguments ...string) ([]byte, error) {
	// #nosec G204
	command := exec.Command(gitExecutableName, arguments...)
	command.Dir = directory
	return command.Output()
}
