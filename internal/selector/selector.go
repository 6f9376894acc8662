// Package selector decides which files take part in an aggregation run.
package selector

import (
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/temirov/promptprep/internal/types"
	"github.com/temirov/promptprep/internal/utils"
)

const (
	globMetaCharacters = "*?[{"
	currentDirPrefix   = "./"
	directorySuffix    = "/"
)

// IgnoreMatcher reports whether a slash separated relative path is ignored.
// *ignore.GitIgnore from github.com/sabhiram/go-gitignore satisfies it.
type IgnoreMatcher interface {
	MatchesPath(relativePath string) bool
}

// Selector applies a FilterConfiguration to relative paths.
// All methods are pure predicates over their arguments.
type Selector struct {
	filterConfiguration types.FilterConfiguration
	includedPaths       map[string]struct{}
	includedPatterns    []string
	ignoreMatcher       IgnoreMatcher
}

// New creates a Selector. ignoreMatcher may be nil.
func New(filterConfiguration types.FilterConfiguration, ignoreMatcher IgnoreMatcher) *Selector {
	selector := &Selector{
		filterConfiguration: filterConfiguration,
		includedPaths:       make(map[string]struct{}),
		ignoreMatcher:       ignoreMatcher,
	}
	for _, includedFile := range filterConfiguration.IncludedFiles {
		normalized := normalizeRelativePath(includedFile)
		selector.includedPaths[normalized] = struct{}{}
		if strings.ContainsAny(normalized, globMetaCharacters) {
			selector.includedPatterns = append(selector.includedPatterns, normalized)
		}
	}
	return selector
}

// IsProgrammingFile reports whether the file name carries a recognized extension.
func (selector *Selector) IsProgrammingFile(fileName string) bool {
	_, recognized := selector.filterConfiguration.Extensions[FileExtension(fileName)]
	return recognized
}

// IsExcludedDirectory reports whether a directory name is excluded.
func (selector *Selector) IsExcludedDirectory(directoryName string) bool {
	_, excluded := selector.filterConfiguration.ExcludedDirectories[directoryName]
	return excluded
}

// IsExcludedFile reports whether a file name is excluded.
func (selector *Selector) IsExcludedFile(fileName string) bool {
	_, excluded := selector.filterConfiguration.ExcludedFiles[fileName]
	return excluded
}

// IsIncluded reports whether a relative path passes the include list.
// An empty include list admits every path.
func (selector *Selector) IsIncluded(relativePath string) bool {
	if len(selector.includedPaths) == 0 && len(selector.includedPatterns) == 0 {
		return true
	}
	normalized := normalizeRelativePath(relativePath)
	if _, listed := selector.includedPaths[normalized]; listed {
		return true
	}
	for _, pattern := range selector.includedPatterns {
		if matched, matchErr := doublestar.Match(pattern, normalized); matchErr == nil && matched {
			return true
		}
	}
	return false
}

// IsIgnored reports whether the configured ignore matcher excludes the relative path.
func (selector *Selector) IsIgnored(relativePath string, isDirectory bool) bool {
	if selector.ignoreMatcher == nil {
		return false
	}
	normalized := normalizeRelativePath(relativePath)
	if selector.ignoreMatcher.MatchesPath(normalized) {
		return true
	}
	return isDirectory && selector.ignoreMatcher.MatchesPath(normalized+directorySuffix)
}

// IsCandidate reports whether the file at relativePath should be aggregated.
// It checks the extension, every parent directory component, the file name,
// the include list and the ignore matcher.
func (selector *Selector) IsCandidate(relativePath string) bool {
	segments := utils.PathSegments(relativePath)
	if len(segments) == 0 {
		return false
	}
	fileName := segments[len(segments)-1]
	if !selector.IsProgrammingFile(fileName) {
		return false
	}
	for _, directoryName := range segments[:len(segments)-1] {
		if selector.IsExcludedDirectory(directoryName) {
			return false
		}
	}
	if selector.IsExcludedFile(fileName) {
		return false
	}
	if !selector.IsIncluded(relativePath) {
		return false
	}
	return !selector.IsIgnored(relativePath, false)
}

// IsWithinSizeLimit reports whether the candidate does not exceed the configured ceiling.
func (selector *Selector) IsWithinSizeLimit(candidate types.FileCandidate) bool {
	return candidate.SizeMB() <= selector.filterConfiguration.MaximumFileSizeMB
}

// FileExtension returns the lowercased extension of fileName. Leading dots do not
// start an extension, so ".bashrc" has none.
func FileExtension(fileName string) string {
	trimmed := strings.TrimLeft(filepath.Base(fileName), ".")
	return strings.ToLower(path.Ext(trimmed))
}

func normalizeRelativePath(relativePath string) string {
	normalized := strings.ReplaceAll(strings.TrimSpace(relativePath), "\\", directorySuffix)
	for strings.HasPrefix(normalized, currentDirPrefix) {
		normalized = strings.TrimPrefix(normalized, currentDirPrefix)
	}
	return normalized
}
