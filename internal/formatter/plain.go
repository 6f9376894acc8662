package formatter

import (
	"strings"

	"github.com/temirov/promptprep/internal/types"
	"github.com/temirov/promptprep/internal/utils"
)

const (
	plainRule          = "# ======================\n"
	plainTreeTitle     = "Directory Tree:\n"
	plainMetadataTitle = "# Codebase Metadata\n"
	plainSkippedTitle  = "# Files skipped due to size limit\n"
)

// Plain renders the document as plain text with comment-style banners.
type Plain struct{}

// NewPlain creates the plain text formatter.
func NewPlain() *Plain {
	return &Plain{}
}

// Name returns the format name.
func (formatter *Plain) Name() string {
	return types.FormatPlain
}

// FormatDirectoryTree renders the tree block.
func (formatter *Plain) FormatDirectoryTree(tree string) string {
	return joinLines(plainTreeTitle, tree, "\n\n")
}

// FormatFileHeader renders the banner preceding a file.
func (formatter *Plain) FormatFileHeader(relativePath string) string {
	return joinLines("\n\n", plainRule, "# File: ", relativePath, "\n", plainRule, "\n")
}

// FormatCodeContent returns content unchanged.
func (formatter *Plain) FormatCodeContent(content string, relativePath string) string {
	return content
}

// FormatMetadata renders one commented line per metric.
func (formatter *Plain) FormatMetadata(metadata types.Metadata) string {
	var builder strings.Builder
	builder.WriteString(plainRule)
	builder.WriteString(plainMetadataTitle)
	builder.WriteString(plainRule)
	builder.WriteString("\n")
	for _, entry := range metadata.Entries {
		builder.WriteString(joinLines("# ", MetadataKeyTitle(entry.Key), ": ", MetadataValueText(entry), "\n"))
	}
	return builder.String()
}

// FormatError renders an inline error line.
func (formatter *Plain) FormatError(message string) string {
	return joinLines("\n# ", message, "\n")
}

// FormatSkippedFiles renders the skipped files banner and list.
func (formatter *Plain) FormatSkippedFiles(skippedFiles []types.SkippedFile) string {
	if len(skippedFiles) == 0 {
		return utils.EmptyString
	}
	var builder strings.Builder
	builder.WriteString("\n\n")
	builder.WriteString(plainRule)
	builder.WriteString(plainSkippedTitle)
	builder.WriteString(plainRule)
	builder.WriteString("\n")
	for _, skippedFile := range skippedFiles {
		builder.WriteString(joinLines("# ", skippedFile.RelativePath, " (", SkippedSizeText(skippedFile), ")\n"))
	}
	return builder.String()
}
