package formatter

import (
	"bytes"
	"path/filepath"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"

	"github.com/temirov/promptprep/internal/types"
)

const (
	highlightStyleName       = "github"
	terminalFormatterName    = "terminal256"
	highlightStyleOpenTag    = "<style>\n"
	highlightStyleCloseTag   = "</style>"
	highlightedCodeClassName = "source"
)

// Highlighted composes a base formatter with chroma syntax highlighting.
// Over an HTML base it emits class based markup and contributes the chroma
// stylesheet to the document head. Over any other base it emits 256 color
// terminal escape sequences.
type Highlighted struct {
	base           Formatter
	style          *chroma.Style
	htmlFormatter  *chromahtml.Formatter
	codeFormatter  chroma.Formatter
	producesMarkup bool
}

// NewHighlighted creates a highlighting formatter over base.
func NewHighlighted(base Formatter) *Highlighted {
	style := styles.Get(highlightStyleName)
	if style == nil {
		style = styles.Fallback
	}
	highlighted := &Highlighted{base: base, style: style}
	if htmlBase, isHTML := base.(*HTML); isHTML {
		highlighted.producesMarkup = true
		highlighted.htmlFormatter = chromahtml.New(chromahtml.WithClasses(true))
		highlighted.codeFormatter = highlighted.htmlFormatter
		var stylesheet bytes.Buffer
		if cssErr := highlighted.htmlFormatter.WriteCSS(&stylesheet, style); cssErr == nil {
			htmlBase.AddStyles(highlightStyleOpenTag + stylesheet.String() + highlightStyleCloseTag)
		}
		return highlighted
	}
	highlighted.codeFormatter = formatters.Get(terminalFormatterName)
	return highlighted
}

// Name returns the format name.
func (formatter *Highlighted) Name() string {
	return types.FormatHighlighted
}

// FormatDirectoryTree delegates to the base formatter.
func (formatter *Highlighted) FormatDirectoryTree(tree string) string {
	return formatter.base.FormatDirectoryTree(tree)
}

// FormatFileHeader delegates to the base formatter.
func (formatter *Highlighted) FormatFileHeader(relativePath string) string {
	return formatter.base.FormatFileHeader(relativePath)
}

// FormatCodeContent highlights content with the lexer matching the file name.
// Unknown file names use the plain text lexer. When tokenizing fails the base
// formatter renders the content instead.
func (formatter *Highlighted) FormatCodeContent(content string, relativePath string) string {
	lexer := lexers.Match(filepath.Base(relativePath))
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	iterator, tokeniseErr := lexer.Tokenise(nil, content)
	if tokeniseErr != nil {
		return formatter.base.FormatCodeContent(content, relativePath)
	}
	var highlighted bytes.Buffer
	if formatErr := formatter.codeFormatter.Format(&highlighted, formatter.style, iterator); formatErr != nil {
		return formatter.base.FormatCodeContent(content, relativePath)
	}
	if formatter.producesMarkup {
		return joinLines("<div class='", highlightedCodeClassName, "'>", highlighted.String(), "</div>")
	}
	return highlighted.String()
}

// FormatMetadata delegates to the base formatter.
func (formatter *Highlighted) FormatMetadata(metadata types.Metadata) string {
	return formatter.base.FormatMetadata(metadata)
}

// FormatError delegates to the base formatter.
func (formatter *Highlighted) FormatError(message string) string {
	return formatter.base.FormatError(message)
}

// FormatSkippedFiles delegates to the base formatter.
func (formatter *Highlighted) FormatSkippedFiles(skippedFiles []types.SkippedFile) string {
	return formatter.base.FormatSkippedFiles(skippedFiles)
}

// WrapDocument wraps body when the base formatter produces document fragments.
func (formatter *Highlighted) WrapDocument(body string, title string) string {
	if wrapper, isWrapper := formatter.base.(DocumentWrapper); isWrapper {
		return wrapper.WrapDocument(body, title)
	}
	return body
}
