package formatter

import (
	"strings"

	"github.com/temirov/promptprep/internal/types"
	"github.com/temirov/promptprep/internal/utils"
)

const (
	fenceCharacter     = "`"
	minimumFenceLength = 3
)

// Markdown renders the document as Markdown with fenced code blocks.
type Markdown struct{}

// NewMarkdown creates the Markdown formatter.
func NewMarkdown() *Markdown {
	return &Markdown{}
}

// Name returns the format name.
func (formatter *Markdown) Name() string {
	return types.FormatMarkdown
}

// FormatDirectoryTree renders the tree inside an untagged fence.
func (formatter *Markdown) FormatDirectoryTree(tree string) string {
	fence := codeFenceFor(tree)
	return joinLines("## Directory Tree\n\n", fence, "\n", tree, "\n", fence, "\n\n")
}

// FormatFileHeader renders a second level heading for the file.
func (formatter *Markdown) FormatFileHeader(relativePath string) string {
	return joinLines("\n\n## File: ", relativePath, "\n\n")
}

// FormatCodeContent wraps content in a fence tagged with the file extension.
// The fence is longer than any backtick run inside content.
func (formatter *Markdown) FormatCodeContent(content string, relativePath string) string {
	fence := codeFenceFor(content)
	return joinLines(fence, CodeLanguage(relativePath), "\n", content, "\n", fence)
}

func codeFenceFor(content string) string {
	longestRun := 0
	currentRun := 0
	for index := 0; index < len(content); index++ {
		if content[index] != fenceCharacter[0] {
			currentRun = 0
			continue
		}
		currentRun++
		longestRun = max(longestRun, currentRun)
	}
	return strings.Repeat(fenceCharacter, max(minimumFenceLength, longestRun+1))
}

// FormatMetadata renders the metrics as a two column table.
func (formatter *Markdown) FormatMetadata(metadata types.Metadata) string {
	var builder strings.Builder
	builder.WriteString("## Codebase Metadata\n\n")
	builder.WriteString("| Metric | Value |\n")
	builder.WriteString("| ------ | ----- |\n")
	for _, entry := range metadata.Entries {
		builder.WriteString(joinLines("| ", MetadataKeyTitle(entry.Key), " | ", MetadataValueText(entry), " |\n"))
	}
	return builder.String()
}

// FormatError renders an error block quote.
func (formatter *Markdown) FormatError(message string) string {
	return joinLines("\n> **Error:** ", message, "\n")
}

// FormatSkippedFiles renders the skipped files table.
func (formatter *Markdown) FormatSkippedFiles(skippedFiles []types.SkippedFile) string {
	if len(skippedFiles) == 0 {
		return utils.EmptyString
	}
	var builder strings.Builder
	builder.WriteString("\n\n## Files skipped due to size limit\n\n")
	builder.WriteString("| File | Size |\n")
	builder.WriteString("| ---- | ---- |\n")
	for _, skippedFile := range skippedFiles {
		builder.WriteString(joinLines("| ", skippedFile.RelativePath, " | ", SkippedSizeText(skippedFile), " |\n"))
	}
	return builder.String()
}
