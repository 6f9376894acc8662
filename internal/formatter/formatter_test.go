package formatter_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/temirov/promptprep/internal/formatter"
	"github.com/temirov/promptprep/internal/types"
)

func sampleMetadata() types.Metadata {
	var metadata types.Metadata
	metadata.Set(types.MetadataKeyFiles, 2)
	metadata.Set(types.MetadataKeyCommentRatio, 0.25)
	metadata.Set(types.MetadataKeyTokenCount, "1,234")
	return metadata
}

func sampleSkipped() []types.SkippedFile {
	return []types.SkippedFile{{RelativePath: "big.py", SizeMB: 2.5}}
}

func TestNewReturnsRegisteredFormatters(t *testing.T) {
	for _, formatName := range types.SupportedFormats {
		t.Run(formatName, func(t *testing.T) {
			created, err := formatter.New(formatName)
			if err != nil {
				t.Fatalf("New(%q) error: %v", formatName, err)
			}
			if created.Name() != formatName {
				t.Fatalf("expected name %q, got %q", formatName, created.Name())
			}
		})
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	_, err := formatter.New("pdf")
	if !errors.Is(err, formatter.ErrUnknownFormat) {
		t.Fatalf("expected ErrUnknownFormat, got %v", err)
	}
}

func TestPlainFormatter(t *testing.T) {
	plain := formatter.NewPlain()
	testCases := []struct {
		name     string
		rendered string
		expected string
	}{
		{name: "tree", rendered: plain.FormatDirectoryTree("root/\n"), expected: "Directory Tree:\nroot/\n\n\n"},
		{name: "header", rendered: plain.FormatFileHeader("a.py"), expected: "\n\n# ======================\n# File: a.py\n# ======================\n\n"},
		{name: "code", rendered: plain.FormatCodeContent("x = 1", "a.py"), expected: "x = 1"},
		{name: "error", rendered: plain.FormatError("Error reading file a.py: denied"), expected: "\n# Error reading file a.py: denied\n"},
		{
			name:     "metadata",
			rendered: plain.FormatMetadata(sampleMetadata()),
			expected: "# ======================\n# Codebase Metadata\n# ======================\n\n# Files: 2\n# Comment Ratio: 0.25\n# Token Count: 1,234\n",
		},
		{
			name:     "skipped",
			rendered: plain.FormatSkippedFiles(sampleSkipped()),
			expected: "\n\n# ======================\n# Files skipped due to size limit\n# ======================\n\n# big.py (2.50 MB)\n",
		},
		{name: "no skipped files", rendered: plain.FormatSkippedFiles(nil), expected: ""},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			if testCase.rendered != testCase.expected {
				t.Fatalf("expected %q, got %q", testCase.expected, testCase.rendered)
			}
		})
	}
}

func TestMarkdownFormatter(t *testing.T) {
	markdown := formatter.NewMarkdown()
	testCases := []struct {
		name     string
		rendered string
		expected string
	}{
		{name: "tree", rendered: markdown.FormatDirectoryTree("root/\n"), expected: "## Directory Tree\n\n```\nroot/\n\n```\n\n"},
		{name: "header", rendered: markdown.FormatFileHeader("pkg/a.go"), expected: "\n\n## File: pkg/a.go\n\n"},
		{name: "code tagged with extension", rendered: markdown.FormatCodeContent("package a", "pkg/a.GO"), expected: "```go\npackage a\n```"},
		{name: "code without extension", rendered: markdown.FormatCodeContent("all:", "Makefile"), expected: "```\nall:\n```"},
		{name: "short backtick runs keep the default fence", rendered: markdown.FormatCodeContent("x = `a` + ``b``", "a.md"), expected: "```md\nx = `a` + ``b``\n```"},
		{
			name:     "fence outgrows embedded fences",
			rendered: markdown.FormatCodeContent("# Usage\n```go\nrun()\n```", "README.md"),
			expected: "````md\n# Usage\n```go\nrun()\n```\n````",
		},
		{
			name:     "fence outgrows the longest run",
			rendered: markdown.FormatCodeContent("``` and `````", "notes.txt"),
			expected: "``````txt\n``` and `````\n``````",
		},
		{name: "error", rendered: markdown.FormatError("boom"), expected: "\n> **Error:** boom\n"},
		{
			name:     "metadata",
			rendered: markdown.FormatMetadata(sampleMetadata()),
			expected: "## Codebase Metadata\n\n| Metric | Value |\n| ------ | ----- |\n| Files | 2 |\n| Comment Ratio | 0.25 |\n| Token Count | 1,234 |\n",
		},
		{
			name:     "skipped",
			rendered: markdown.FormatSkippedFiles(sampleSkipped()),
			expected: "\n\n## Files skipped due to size limit\n\n| File | Size |\n| ---- | ---- |\n| big.py | 2.50 MB |\n",
		},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			if testCase.rendered != testCase.expected {
				t.Fatalf("expected %q, got %q", testCase.expected, testCase.rendered)
			}
		})
	}
}

func TestHTMLFormatterEscapesMarkup(t *testing.T) {
	html := formatter.NewHTML()
	code := html.FormatCodeContent("if a < b && b > c {}", "main.go")
	if code != "<pre class='file-content'>if a &lt; b &amp;&amp; b &gt; c {}</pre>" {
		t.Fatalf("unexpected escaped code: %s", code)
	}
	header := html.FormatFileHeader("<odd>.py")
	if !strings.Contains(header, "File: &lt;odd&gt;.py") {
		t.Fatalf("expected escaped header, got %s", header)
	}
	errorBlock := html.FormatError("<bad>")
	if errorBlock != "\n<div class='error-message'>Error: &lt;bad&gt;</div>\n" {
		t.Fatalf("unexpected error block: %q", errorBlock)
	}
	tree := html.FormatDirectoryTree("root/\n")
	if !strings.HasPrefix(tree, "<h2>Directory Tree</h2>\n<pre class='tree'>") {
		t.Fatalf("unexpected tree block: %q", tree)
	}
	metadata := html.FormatMetadata(sampleMetadata())
	if !strings.Contains(metadata, "<tr><td>Comment Ratio</td><td>0.25</td></tr>") {
		t.Fatalf("unexpected metadata block: %s", metadata)
	}
}

func TestHTMLWrapDocument(t *testing.T) {
	document := formatter.NewHTML().WrapDocument("<p>body</p>", formatter.DefaultDocumentTitle)
	for _, fragment := range []string{
		"<!DOCTYPE html>",
		"<title>Code Aggregation</title>",
		".file-header {",
		"<h1>Code Aggregation</h1>",
		"<p>body</p>",
		"</html>\n",
	} {
		if !strings.Contains(document, fragment) {
			t.Fatalf("expected document to contain %q", fragment)
		}
	}
}

func TestHighlightedFormatterOverHTML(t *testing.T) {
	created, err := formatter.New(types.FormatHighlighted)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	highlighted := created.FormatCodeContent("def foo():\n    return '<x>'\n", "a.py")
	if !strings.Contains(highlighted, "class=\"chroma\"") {
		t.Fatalf("expected chroma markup, got %s", highlighted)
	}
	if strings.Contains(highlighted, "'<x>'") {
		t.Fatalf("expected markup in code to be escaped, got %s", highlighted)
	}
	wrapper, isWrapper := created.(formatter.DocumentWrapper)
	if !isWrapper {
		t.Fatalf("expected highlighted formatter to wrap documents")
	}
	document := wrapper.WrapDocument(highlighted, formatter.DefaultDocumentTitle)
	if strings.Count(document, ".chroma {") != 1 {
		t.Fatalf("expected the chroma stylesheet exactly once in the document")
	}
}

func TestHighlightedFormatterFallsBackForUnknownFileNames(t *testing.T) {
	highlighted := formatter.NewHighlighted(formatter.NewHTML())
	rendered := highlighted.FormatCodeContent("just some text", "notes.unknownext")
	if !strings.Contains(rendered, "just some text") {
		t.Fatalf("expected content to survive fallback lexer, got %s", rendered)
	}
}

func TestHighlightedFormatterOverPlainUsesTerminalOutput(t *testing.T) {
	highlighted := formatter.NewHighlighted(formatter.NewPlain())
	rendered := highlighted.FormatCodeContent("package main\n", "main.go")
	if !strings.Contains(rendered, "\x1b[") {
		t.Fatalf("expected terminal escape sequences, got %q", rendered)
	}
	if highlighted.FormatFileHeader("main.go") != formatter.NewPlain().FormatFileHeader("main.go") {
		t.Fatalf("expected header to delegate to the plain base")
	}
	if highlighted.WrapDocument("body", "title") != "body" {
		t.Fatalf("expected plain base not to wrap the document")
	}
}

func TestMetadataKeyTitle(t *testing.T) {
	testCases := map[string]string{
		types.MetadataKeyTotalLines:   "Total Lines",
		types.MetadataKeyCommentRatio: "Comment Ratio",
		types.MetadataKeyFiles:        "Files",
	}
	for key, expected := range testCases {
		if actual := formatter.MetadataKeyTitle(key); actual != expected {
			t.Errorf("MetadataKeyTitle(%q) = %q, expected %q", key, actual, expected)
		}
	}
}
