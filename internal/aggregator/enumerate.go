package aggregator

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/temirov/promptprep/internal/selector"
	"github.com/temirov/promptprep/internal/tree"
	"github.com/temirov/promptprep/internal/types"
)

const (
	warningReadDirectoryMessage = "skipping unreadable directory"
	warningStatFileMessage      = "skipping file that cannot be inspected"
	errorReadRootFormat         = "reading directory %s: %w"
)

// candidateSet is the outcome of enumeration: files to process and files over the size limit.
type candidateSet struct {
	process []types.FileCandidate
	skipped []types.SkippedFile
}

// enumerateCandidates walks rootDirectory in the same order the tree renderer uses:
// the files of a directory first, then its subdirectories, each in lexical order.
// Every file size is read exactly once.
func enumerateCandidates(rootDirectory string, fileSelector *selector.Selector, logger *zap.Logger) (candidateSet, error) {
	var candidates candidateSet
	if fileSelector.IsExcludedDirectory(tree.RootDisplayName(rootDirectory)) {
		return candidates, nil
	}
	if _, readErr := os.ReadDir(rootDirectory); readErr != nil {
		return candidates, fmt.Errorf(errorReadRootFormat, rootDirectory, readErr)
	}
	walkDirectory(rootDirectory, "", fileSelector, logger, &candidates)
	return candidates, nil
}

func walkDirectory(absoluteDirectory string, relativeDirectory string, fileSelector *selector.Selector, logger *zap.Logger, candidates *candidateSet) {
	directoryEntries, readErr := os.ReadDir(absoluteDirectory)
	if readErr != nil {
		logger.Warn(warningReadDirectoryMessage, zap.String("path", absoluteDirectory), zap.Error(readErr))
		return
	}

	var subdirectories []string
	for _, directoryEntry := range directoryEntries {
		entryPath := filepath.Join(absoluteDirectory, directoryEntry.Name())
		relativeEntryPath := tree.JoinRelative(relativeDirectory, directoryEntry.Name())
		if tree.IsDirectoryEntry(directoryEntry, entryPath) {
			if directoryEntry.IsDir() && !fileSelector.IsExcludedDirectory(directoryEntry.Name()) && !fileSelector.IsIgnored(relativeEntryPath, true) {
				subdirectories = append(subdirectories, directoryEntry.Name())
			}
			continue
		}
		if !fileSelector.IsCandidate(relativeEntryPath) {
			continue
		}
		fileInfo, statErr := os.Stat(entryPath)
		if statErr != nil {
			logger.Warn(warningStatFileMessage, zap.String("path", relativeEntryPath), zap.Error(statErr))
			continue
		}
		if !fileInfo.Mode().IsRegular() {
			continue
		}
		candidate := types.FileCandidate{
			AbsolutePath: entryPath,
			RelativePath: relativeEntryPath,
			SizeBytes:    fileInfo.Size(),
		}
		if fileSelector.IsWithinSizeLimit(candidate) {
			candidates.process = append(candidates.process, candidate)
			continue
		}
		candidates.skipped = append(candidates.skipped, types.SkippedFile{
			RelativePath: relativeEntryPath,
			SizeMB:       candidate.SizeMB(),
		})
	}

	for _, subdirectory := range subdirectories {
		walkDirectory(
			filepath.Join(absoluteDirectory, subdirectory),
			tree.JoinRelative(relativeDirectory, subdirectory),
			fileSelector,
			logger,
			candidates,
		)
	}
}
