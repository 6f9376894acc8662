package formatter

import (
	"strings"

	"github.com/temirov/promptprep/internal/types"
	"github.com/temirov/promptprep/internal/utils"
)

const documentStyles = `<style>
    body {
        font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Oxygen, Ubuntu, Cantarell, 'Open Sans', 'Helvetica Neue', sans-serif;
        line-height: 1.6;
        margin: 0;
        padding: 20px;
        color: #333;
        background-color: #f8f8f8;
    }
    h1, h2 {
        color: #2c3e50;
        margin-top: 30px;
        margin-bottom: 15px;
    }
    pre {
        background-color: #f1f1f1;
        padding: 10px;
        border-radius: 5px;
        overflow-x: auto;
        font-family: 'SFMono-Regular', Consolas, 'Liberation Mono', Menlo, Courier, monospace;
        font-size: 14px;
        white-space: pre-wrap;
    }
    .line-number {
        color: #999;
        margin-right: 10px;
        user-select: none;
    }
    .file-header {
        background-color: #3498db;
        color: white;
        padding: 10px;
        border-radius: 5px 5px 0 0;
        font-weight: bold;
        margin-top: 25px;
    }
    .file-content {
        margin-top: 0;
        border-radius: 0 0 5px 5px;
    }
    table {
        border-collapse: collapse;
        width: 100%;
        margin: 20px 0;
    }
    th, td {
        border: 1px solid #ddd;
        padding: 8px;
        text-align: left;
    }
    th {
        background-color: #f2f2f2;
    }
    .error-message {
        color: #e74c3c;
        padding: 10px;
        margin: 10px 0;
        background-color: #fadbd8;
        border-left: 4px solid #e74c3c;
    }
</style>`

var htmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// EscapeHTML escapes the characters that would otherwise be read as markup.
func EscapeHTML(text string) string {
	return htmlEscaper.Replace(text)
}

// HTML renders the document as an HTML fragment and wraps it into a full page.
type HTML struct {
	additionalStyles []string
}

// NewHTML creates the HTML formatter.
func NewHTML() *HTML {
	return &HTML{}
}

// Name returns the format name.
func (formatter *HTML) Name() string {
	return types.FormatHTML
}

// AddStyles appends a stylesheet emitted once in the document head.
func (formatter *HTML) AddStyles(styles string) {
	formatter.additionalStyles = append(formatter.additionalStyles, styles)
}

// FormatDirectoryTree renders the tree in a preformatted block.
func (formatter *HTML) FormatDirectoryTree(tree string) string {
	return joinLines("<h2>Directory Tree</h2>\n<pre class='tree'>", EscapeHTML(tree), "</pre>\n\n")
}

// FormatFileHeader renders the file banner.
func (formatter *HTML) FormatFileHeader(relativePath string) string {
	return joinLines("\n\n<div class='file-header'>File: ", EscapeHTML(relativePath), "</div>\n")
}

// FormatCodeContent renders escaped content in a preformatted block.
func (formatter *HTML) FormatCodeContent(content string, relativePath string) string {
	return joinLines("<pre class='file-content'>", EscapeHTML(content), "</pre>")
}

// FormatMetadata renders the metrics table.
func (formatter *HTML) FormatMetadata(metadata types.Metadata) string {
	var builder strings.Builder
	builder.WriteString("<h2>Codebase Metadata</h2>\n\n<table>\n")
	builder.WriteString("<tr><th>Metric</th><th>Value</th></tr>\n")
	for _, entry := range metadata.Entries {
		builder.WriteString(joinLines(
			"<tr><td>", EscapeHTML(MetadataKeyTitle(entry.Key)),
			"</td><td>", EscapeHTML(MetadataValueText(entry)), "</td></tr>\n",
		))
	}
	builder.WriteString("</table>\n")
	return builder.String()
}

// FormatError renders an error block.
func (formatter *HTML) FormatError(message string) string {
	return joinLines("\n<div class='error-message'>Error: ", EscapeHTML(message), "</div>\n")
}

// FormatSkippedFiles renders the skipped files table.
func (formatter *HTML) FormatSkippedFiles(skippedFiles []types.SkippedFile) string {
	if len(skippedFiles) == 0 {
		return utils.EmptyString
	}
	var builder strings.Builder
	builder.WriteString("\n\n<h2>Files skipped due to size limit</h2>\n\n<table>\n")
	builder.WriteString("<tr><th>File</th><th>Size</th></tr>\n")
	for _, skippedFile := range skippedFiles {
		builder.WriteString(joinLines(
			"<tr><td>", EscapeHTML(skippedFile.RelativePath),
			"</td><td>", SkippedSizeText(skippedFile), "</td></tr>\n",
		))
	}
	builder.WriteString("</table>\n")
	return builder.String()
}

// WrapDocument wraps body in a complete HTML document titled title.
func (formatter *HTML) WrapDocument(body string, title string) string {
	escapedTitle := EscapeHTML(title)
	var builder strings.Builder
	builder.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n")
	builder.WriteString("    <meta charset=\"UTF-8\">\n")
	builder.WriteString("    <meta name=\"viewport\" content=\"width=device-width, initial-scale=1.0\">\n")
	builder.WriteString(joinLines("    <title>", escapedTitle, "</title>\n"))
	builder.WriteString(documentStyles)
	builder.WriteString("\n")
	for _, styles := range formatter.additionalStyles {
		builder.WriteString(styles)
		builder.WriteString("\n")
	}
	builder.WriteString("</head>\n<body>\n")
	builder.WriteString(joinLines("    <h1>", escapedTitle, "</h1>\n"))
	builder.WriteString(body)
	builder.WriteString("\n</body>\n</html>\n")
	return builder.String()
}
