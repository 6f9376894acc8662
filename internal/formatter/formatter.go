// Package formatter renders the logical blocks of an aggregated document in a target format.
package formatter

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/temirov/promptprep/internal/types"
	"github.com/temirov/promptprep/internal/utils"
)

const (
	errorUnknownFormatFormat = "%w: %s"
	keyWordSeparator         = "_"
	keyDisplaySeparator      = " "
	commentRatioFormat       = "%.2f"
	extensionPrefix          = "."

	// DefaultDocumentTitle is the title used when wrapping HTML output.
	DefaultDocumentTitle = "Code Aggregation"
)

// ErrUnknownFormat indicates that no formatter exists for the requested name.
var ErrUnknownFormat = errors.New("unknown output format")

// Formatter renders each block of the aggregated document.
type Formatter interface {
	Name() string
	FormatDirectoryTree(tree string) string
	FormatFileHeader(relativePath string) string
	FormatCodeContent(content string, relativePath string) string
	FormatMetadata(metadata types.Metadata) string
	FormatError(message string) string
	FormatSkippedFiles(skippedFiles []types.SkippedFile) string
}

// DocumentWrapper is implemented by formatters that produce document fragments
// which must be wrapped in a complete document.
type DocumentWrapper interface {
	WrapDocument(body string, title string) string
}

// New returns the formatter registered under formatName.
func New(formatName string) (Formatter, error) {
	switch strings.ToLower(strings.TrimSpace(formatName)) {
	case types.FormatPlain:
		return NewPlain(), nil
	case types.FormatMarkdown:
		return NewMarkdown(), nil
	case types.FormatHTML:
		return NewHTML(), nil
	case types.FormatHighlighted:
		return NewHighlighted(NewHTML()), nil
	default:
		return nil, fmt.Errorf(errorUnknownFormatFormat, ErrUnknownFormat, formatName)
	}
}

var metadataKeyCaser = cases.Title(language.English)

// MetadataKeyTitle converts a snake_case metadata key into its display form.
func MetadataKeyTitle(key string) string {
	return metadataKeyCaser.String(strings.ReplaceAll(key, keyWordSeparator, keyDisplaySeparator))
}

// MetadataValueText renders a metadata value. Ratios render with two decimals.
func MetadataValueText(entry types.MetadataEntry) string {
	if ratio, isFloat := entry.Value.(float64); isFloat && entry.Key == types.MetadataKeyCommentRatio {
		return fmt.Sprintf(commentRatioFormat, ratio)
	}
	return fmt.Sprint(entry.Value)
}

// SkippedSizeText renders the size of a skipped file.
func SkippedSizeText(skippedFile types.SkippedFile) string {
	return utils.FormatMegabytes(skippedFile.SizeMB)
}

// CodeLanguage returns the lowercased extension of relativePath without its dot.
func CodeLanguage(relativePath string) string {
	extension := strings.ToLower(filepath.Ext(relativePath))
	return strings.TrimPrefix(extension, extensionPrefix)
}

func joinLines(lines ...string) string {
	return strings.Join(lines, utils.EmptyString)
}
