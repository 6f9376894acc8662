// Package summary reduces Python sources to an outline of their declarations and docstrings.
package summary

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/temirov/promptprep/internal/utils"
)

const (
	pythonFileExtension      = ".py"
	outlineIndentUnit        = "    "
	failureNoteFormat        = "# Could not parse %s: %v"
	errorUnsupportedFormat   = "%w: %s"
	errorSyntaxFormat        = "%w at line %d"
	lineSeparator            = "\n"
	openingBracketCharacters = "([{"
	closingBracketCharacters = ")]}"
)

var (
	// ErrUnsupportedLanguage indicates that the file is not a Python source.
	ErrUnsupportedLanguage = errors.New("unsupported language")
	// ErrSyntax indicates that the source could not be parsed.
	ErrSyntax = errors.New("invalid syntax")
)

// Summarize returns the outline of content, or a single line failure note naming
// relativePath when the outline cannot be produced.
func Summarize(content string, relativePath string) string {
	outline, extractErr := Extract(content, relativePath)
	if extractErr != nil {
		return FailureNote(relativePath, extractErr)
	}
	return outline
}

// Extract returns the declaration outline of a Python source. Each declaration keeps its
// decorators, its header and its docstring, indented to mirror nesting, and every top
// level declaration is followed by a blank line.
func Extract(content string, relativePath string) (string, error) {
	if !strings.EqualFold(filepath.Ext(relativePath), pythonFileExtension) {
		return utils.EmptyString, fmt.Errorf(errorUnsupportedFormat, ErrUnsupportedLanguage, filepath.Ext(relativePath))
	}
	declarations, extractErr := extractDeclarations([]byte(content))
	if extractErr != nil {
		return utils.EmptyString, extractErr
	}
	return renderOutline(declarations), nil
}

// FailureNote renders the single line emitted in place of an outline.
func FailureNote(relativePath string, failure error) string {
	return fmt.Sprintf(failureNoteFormat, relativePath, failure)
}

// declaration is one class or function with its nested declarations.
type declaration struct {
	decorators      []string
	header          string
	docstring       string
	docstringColumn int
	children        []declaration
}

func renderOutline(declarations []declaration) string {
	var builder strings.Builder
	for _, topLevel := range declarations {
		writeDeclaration(&builder, topLevel, 0)
		builder.WriteString(lineSeparator)
	}
	return builder.String()
}

func writeDeclaration(builder *strings.Builder, current declaration, depth int) {
	indentation := strings.Repeat(outlineIndentUnit, depth)
	for _, decorator := range current.decorators {
		builder.WriteString(indentation)
		builder.WriteString(strings.TrimSpace(decorator))
		builder.WriteString(lineSeparator)
	}
	builder.WriteString(indentation)
	builder.WriteString(collapseHeader(current.header))
	builder.WriteString(lineSeparator)
	if current.docstring != utils.EmptyString {
		builder.WriteString(reindentDocstring(current.docstring, current.docstringColumn, indentation+outlineIndentUnit))
		builder.WriteString(lineSeparator)
	}
	for _, child := range current.children {
		writeDeclaration(builder, child, depth+1)
	}
}

// collapseHeader joins a header spread over several lines into a single line.
func collapseHeader(header string) string {
	lines := strings.Split(strings.ReplaceAll(header, "\r\n", lineSeparator), lineSeparator)
	var builder strings.Builder
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == utils.EmptyString {
			continue
		}
		if builder.Len() > 0 {
			collapsed := builder.String()
			lastCharacter := collapsed[len(collapsed)-1:]
			firstCharacter := trimmed[:1]
			if !strings.Contains(openingBracketCharacters, lastCharacter) && !strings.Contains(closingBracketCharacters, firstCharacter) {
				builder.WriteString(" ")
			}
		}
		builder.WriteString(trimmed)
	}
	return builder.String()
}

// reindentDocstring moves a docstring literal that started at sourceColumn to indentation.
// Continuation lines lose up to sourceColumn leading blanks before being reindented.
func reindentDocstring(docstring string, sourceColumn int, indentation string) string {
	lines := strings.Split(strings.ReplaceAll(docstring, "\r\n", lineSeparator), lineSeparator)
	for index, line := range lines {
		if index == 0 {
			lines[index] = indentation + strings.TrimSpace(line)
			continue
		}
		if strings.TrimSpace(line) == utils.EmptyString {
			lines[index] = utils.EmptyString
			continue
		}
		removable := leadingBlankCount(line)
		if removable > sourceColumn {
			removable = sourceColumn
		}
		lines[index] = indentation + strings.TrimRight(line[removable:], " \t")
	}
	return strings.Join(lines, lineSeparator)
}

func leadingBlankCount(line string) int {
	return len(line) - len(strings.TrimLeft(line, " \t"))
}
