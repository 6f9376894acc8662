// Package output writes the aggregated document to its destination file.
package output

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/temirov/promptprep/internal/types"
)

const (
	htmlExtension     = ".html"
	markdownExtension = ".md"

	temporaryFilePattern = ".promptprep-*"
	outputFilePermission = 0o644

	errorCreateTemporaryFormat = "create temporary file for %s: %w"
	errorWriteOutputFormat     = "write output file %s: %w"
	errorReplaceOutputFormat   = "replace output file %s: %w"
)

// acceptedExtensionsByFormat lists the extensions kept as-is for each format. The first entry
// replaces any other extension.
var acceptedExtensionsByFormat = map[string][]string{
	types.FormatHTML:        {htmlExtension, ".htm"},
	types.FormatHighlighted: {htmlExtension, ".htm"},
	types.FormatMarkdown:    {markdownExtension, ".markdown"},
}

// CorrectExtension returns outputPath with the extension implied by formatName.
// Plain text and unknown formats leave the path untouched.
func CorrectExtension(outputPath string, formatName string) string {
	acceptedExtensions, hasPreference := acceptedExtensionsByFormat[formatName]
	if !hasPreference {
		return outputPath
	}
	currentExtension := filepath.Ext(outputPath)
	for _, acceptedExtension := range acceptedExtensions {
		if strings.EqualFold(currentExtension, acceptedExtension) {
			return outputPath
		}
	}
	return strings.TrimSuffix(outputPath, currentExtension) + acceptedExtensions[0]
}

// WriteFile writes content to outputPath after extension correction and returns the path written.
// A failed write leaves any existing target untouched.
func WriteFile(outputPath string, content string, formatName string) (string, error) {
	finalPath := CorrectExtension(outputPath, formatName)
	temporaryFile, createErr := os.CreateTemp(filepath.Dir(finalPath), temporaryFilePattern)
	if createErr != nil {
		return finalPath, fmt.Errorf(errorCreateTemporaryFormat, finalPath, createErr)
	}
	temporaryPath := temporaryFile.Name()

	_, writeErr := temporaryFile.WriteString(content)
	closeErr := temporaryFile.Close()
	if writeErr == nil {
		writeErr = closeErr
	}
	if writeErr == nil {
		writeErr = os.Chmod(temporaryPath, outputFilePermission)
	}
	if writeErr != nil {
		_ = os.Remove(temporaryPath)
		return finalPath, fmt.Errorf(errorWriteOutputFormat, finalPath, writeErr)
	}
	if renameErr := os.Rename(temporaryPath, finalPath); renameErr != nil {
		_ = os.Remove(temporaryPath)
		return finalPath, fmt.Errorf(errorReplaceOutputFormat, finalPath, renameErr)
	}
	return finalPath, nil
}
