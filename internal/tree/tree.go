// Package tree renders an indented ASCII tree of the aggregation root.
package tree

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/temirov/promptprep/internal/selector"
	"github.com/temirov/promptprep/internal/utils"
)

const (
	branchPrefix      = "├── "
	verticalIndent    = "│   "
	directorySuffix   = "/"
	excludedMarker    = " [EXCLUDED]"
	lineTerminator    = "\n"
	relativeSeparator = "/"

	errorDirectoryNotFoundFormat = "%w: %s"
	errorStatRootFormat          = "stat %s: %w"
	warningReadDirectoryFormat   = "skipping directory %s: %v"
)

// ErrDirectoryNotFound indicates that the tree root does not exist or is not a directory.
var ErrDirectoryNotFound = errors.New("directory not found")

// Renderer produces the directory tree text for a root directory.
// Directories appear with a trailing slash before their files, followed by their
// subdirectories. Entries are visited in lexical order.
type Renderer struct {
	Selector *selector.Selector
	Warn     func(string)
}

// NewRenderer creates a Renderer backed by fileSelector.
func NewRenderer(fileSelector *selector.Selector, warn func(string)) *Renderer {
	return &Renderer{Selector: fileSelector, Warn: warn}
}

// Render returns the tree of rootDirectory. It fails with ErrDirectoryNotFound when the
// root is missing.
func (renderer *Renderer) Render(rootDirectory string) (string, error) {
	rootInfo, statErr := os.Stat(rootDirectory)
	if statErr != nil {
		if errors.Is(statErr, fs.ErrNotExist) {
			return utils.EmptyString, fmt.Errorf(errorDirectoryNotFoundFormat, ErrDirectoryNotFound, rootDirectory)
		}
		return utils.EmptyString, fmt.Errorf(errorStatRootFormat, rootDirectory, statErr)
	}
	if !rootInfo.IsDir() {
		return utils.EmptyString, fmt.Errorf(errorDirectoryNotFoundFormat, ErrDirectoryNotFound, rootDirectory)
	}

	var builder strings.Builder
	renderer.renderDirectory(&builder, rootDirectory, utils.EmptyString, RootDisplayName(rootDirectory), 0)
	return builder.String(), nil
}

// RootDisplayName returns the name printed for the root directory line.
func RootDisplayName(rootDirectory string) string {
	trimmed := strings.TrimRight(rootDirectory, string(os.PathSeparator)+relativeSeparator)
	if trimmed == utils.EmptyString {
		return rootDirectory
	}
	return filepath.Base(trimmed)
}

func (renderer *Renderer) renderDirectory(builder *strings.Builder, absoluteDirectory string, relativeDirectory string, displayName string, level int) {
	builder.WriteString(directoryIndent(level))
	builder.WriteString(displayName)
	builder.WriteString(directorySuffix)
	if renderer.Selector.IsExcludedDirectory(displayName) {
		builder.WriteString(excludedMarker)
		builder.WriteString(lineTerminator)
		return
	}
	builder.WriteString(lineTerminator)

	directoryEntries, readErr := os.ReadDir(absoluteDirectory)
	if readErr != nil {
		renderer.warn(fmt.Sprintf(warningReadDirectoryFormat, absoluteDirectory, readErr))
		return
	}

	var subdirectories []fs.DirEntry
	fileIndent := strings.Repeat(verticalIndent, level+1) + branchPrefix
	for _, directoryEntry := range directoryEntries {
		entryPath := filepath.Join(absoluteDirectory, directoryEntry.Name())
		relativeEntryPath := JoinRelative(relativeDirectory, directoryEntry.Name())
		if IsDirectoryEntry(directoryEntry, entryPath) {
			if directoryEntry.Type()&fs.ModeSymlink != 0 {
				continue
			}
			if renderer.Selector.IsIgnored(relativeEntryPath, true) {
				continue
			}
			subdirectories = append(subdirectories, directoryEntry)
			continue
		}
		if !renderer.Selector.IsCandidate(relativeEntryPath) || !IsRegularFile(entryPath) {
			continue
		}
		builder.WriteString(fileIndent)
		builder.WriteString(directoryEntry.Name())
		builder.WriteString(lineTerminator)
	}

	for _, subdirectory := range subdirectories {
		renderer.renderDirectory(
			builder,
			filepath.Join(absoluteDirectory, subdirectory.Name()),
			JoinRelative(relativeDirectory, subdirectory.Name()),
			subdirectory.Name(),
			level+1,
		)
	}
}

func (renderer *Renderer) warn(message string) {
	if renderer.Warn != nil {
		renderer.Warn(message)
	}
}

func directoryIndent(level int) string {
	if level == 0 {
		return utils.EmptyString
	}
	return strings.Repeat(verticalIndent, level) + branchPrefix
}

// JoinRelative joins a slash separated relative directory and an entry name.
func JoinRelative(relativeDirectory string, name string) string {
	if relativeDirectory == utils.EmptyString {
		return name
	}
	return relativeDirectory + relativeSeparator + name
}

// IsDirectoryEntry reports whether an entry is a directory, resolving symbolic links.
func IsDirectoryEntry(directoryEntry fs.DirEntry, entryPath string) bool {
	if directoryEntry.IsDir() {
		return true
	}
	if directoryEntry.Type()&fs.ModeSymlink == 0 {
		return false
	}
	targetInfo, statErr := os.Stat(entryPath)
	return statErr == nil && targetInfo.IsDir()
}

// IsRegularFile reports whether path resolves to a regular file. Broken symbolic links
// and special files are not regular.
func IsRegularFile(path string) bool {
	fileInfo, statErr := os.Stat(path)
	return statErr == nil && fileInfo.Mode().IsRegular()
}
