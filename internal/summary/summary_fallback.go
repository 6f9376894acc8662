//go:build !cgo

package summary

import (
	"strings"
	"unicode"
)

const (
	classKeyword         = "class "
	functionKeyword      = "def "
	asyncKeyword         = "async "
	decoratorPrefix      = "@"
	commentPrefix        = "#"
	tripleDoubleQuote    = `"""`
	tripleSingleQuote    = `'''`
	tabIndentationWidth  = 4
	stringPrefixLetters  = "rRuUfFbB"
	singleQuoteCharacter = '\''
	doubleQuoteCharacter = '"'
)

type declarationBuilder struct {
	indentation int
	value       declaration
	children    []*declarationBuilder
}

// extractDeclarations scans the source line by line when the tree-sitter parser is not
// available. It recognizes the same declaration shapes without validating syntax.
func extractDeclarations(content []byte) ([]declaration, error) {
	lines := strings.Split(strings.ReplaceAll(string(content), "\r\n", "\n"), "\n")

	var roots []*declarationBuilder
	var stack []*declarationBuilder
	var pendingDecorators []string

	for lineIndex := 0; lineIndex < len(lines); lineIndex++ {
		currentLine := lines[lineIndex]
		trimmedLine := strings.TrimSpace(currentLine)
		if trimmedLine == "" || strings.HasPrefix(trimmedLine, commentPrefix) {
			continue
		}
		indentation := countIndentation(currentLine)
		if strings.HasPrefix(trimmedLine, decoratorPrefix) {
			pendingDecorators = append(pendingDecorators, trimmedLine)
			continue
		}
		for len(stack) > 0 && indentation <= stack[len(stack)-1].indentation {
			stack = stack[:len(stack)-1]
		}
		if !isDeclarationLine(trimmedLine) {
			pendingDecorators = nil
			continue
		}

		header, headerEndIndex, remainder := scanHeader(lines, lineIndex)
		builder := &declarationBuilder{
			indentation: indentation,
			value:       declaration{decorators: pendingDecorators, header: header},
		}
		pendingDecorators = nil

		lineIndex = headerEndIndex
		if strings.TrimSpace(remainder) != "" {
			if literal, _, found := readStringLiteral([]string{strings.TrimSpace(remainder)}, 0); found {
				builder.value.docstring = literal
			}
		} else if literal, column, endIndex, found := findBlockDocstring(lines, headerEndIndex+1, indentation); found {
			builder.value.docstring = literal
			builder.value.docstringColumn = column
			lineIndex = endIndex
		}

		if len(stack) == 0 {
			roots = append(roots, builder)
		} else {
			parent := stack[len(stack)-1]
			parent.children = append(parent.children, builder)
		}
		stack = append(stack, builder)
	}

	return finalizeDeclarations(roots), nil
}

func finalizeDeclarations(builders []*declarationBuilder) []declaration {
	declarations := make([]declaration, 0, len(builders))
	for _, builder := range builders {
		value := builder.value
		value.children = finalizeDeclarations(builder.children)
		declarations = append(declarations, value)
	}
	return declarations
}

func isDeclarationLine(trimmedLine string) bool {
	candidate := trimmedLine
	if strings.HasPrefix(candidate, asyncKeyword) {
		candidate = strings.TrimSpace(candidate[len(asyncKeyword):])
	}
	return strings.HasPrefix(candidate, classKeyword) || strings.HasPrefix(candidate, functionKeyword)
}

// scanHeader reads a declaration header that may span several lines. It returns the
// header through its body opening colon, the index of the line holding that colon and
// the text following the colon on that line.
func scanHeader(lines []string, startIndex int) (string, int, string) {
	var header strings.Builder
	bracketDepth := 0
	var openQuote rune
lineLoop:
	for lineIndex := startIndex; lineIndex < len(lines); lineIndex++ {
		line := strings.TrimSpace(lines[lineIndex])
		if lineIndex > startIndex {
			header.WriteString("\n")
		}
		escaped := false
		for byteIndex, character := range line {
			switch {
			case openQuote != 0:
				if escaped {
					escaped = false
				} else if character == '\\' {
					escaped = true
				} else if character == openQuote {
					openQuote = 0
				}
			case character == singleQuoteCharacter || character == doubleQuoteCharacter:
				openQuote = character
			case character == '#':
				header.WriteString(strings.TrimRightFunc(line[:byteIndex], unicode.IsSpace))
				continue lineLoop
			case strings.ContainsRune(openingBracketCharacters, character):
				bracketDepth++
			case strings.ContainsRune(closingBracketCharacters, character):
				bracketDepth--
			case character == ':' && bracketDepth == 0:
				header.WriteString(line[:byteIndex+1])
				return header.String(), lineIndex, line[byteIndex+1:]
			}
		}
		header.WriteString(line)
	}
	return header.String(), len(lines) - 1, ""
}

// findBlockDocstring looks for a string literal opening the block that starts at startIndex.
func findBlockDocstring(lines []string, startIndex int, parentIndentation int) (string, int, int, bool) {
	for lineIndex := startIndex; lineIndex < len(lines); lineIndex++ {
		trimmedLine := strings.TrimSpace(lines[lineIndex])
		if trimmedLine == "" || strings.HasPrefix(trimmedLine, commentPrefix) {
			continue
		}
		indentation := countIndentation(lines[lineIndex])
		if indentation <= parentIndentation {
			return "", 0, startIndex, false
		}
		blockLines := append([]string{trimmedLine}, lines[lineIndex+1:]...)
		literal, consumed, found := readStringLiteral(blockLines, 0)
		if !found {
			return "", 0, startIndex, false
		}
		return literal, leadingBlankCount(lines[lineIndex]), lineIndex + consumed, true
	}
	return "", 0, startIndex, false
}

// readStringLiteral reads a string literal starting at the first character of
// lines[startIndex]. It returns the literal text including its quotes and the
// number of additional lines it spans.
func readStringLiteral(lines []string, startIndex int) (string, int, bool) {
	firstLine := lines[startIndex]
	prefixLength := len(firstLine) - len(strings.TrimLeft(firstLine, stringPrefixLetters))
	if prefixLength > 2 {
		return "", 0, false
	}
	opening := firstLine[prefixLength:]
	for _, quoteToken := range []string{tripleDoubleQuote, tripleSingleQuote} {
		if !strings.HasPrefix(opening, quoteToken) {
			continue
		}
		afterOpening := opening[len(quoteToken):]
		if closingIndex := strings.Index(afterOpening, quoteToken); closingIndex >= 0 {
			return firstLine[:prefixLength+len(quoteToken)+closingIndex+len(quoteToken)], 0, true
		}
		literalLines := []string{firstLine}
		for lineIndex := startIndex + 1; lineIndex < len(lines); lineIndex++ {
			if closingIndex := strings.Index(lines[lineIndex], quoteToken); closingIndex >= 0 {
				literalLines = append(literalLines, lines[lineIndex][:closingIndex+len(quoteToken)])
				return strings.Join(literalLines, "\n"), lineIndex - startIndex, true
			}
			literalLines = append(literalLines, lines[lineIndex])
		}
		return "", 0, false
	}
	if opening == "" {
		return "", 0, false
	}
	quoteCharacter := rune(opening[0])
	if quoteCharacter != singleQuoteCharacter && quoteCharacter != doubleQuoteCharacter {
		return "", 0, false
	}
	escaped := false
	for byteIndex, character := range opening[1:] {
		if escaped {
			escaped = false
			continue
		}
		if character == '\\' {
			escaped = true
			continue
		}
		if character == quoteCharacter {
			return firstLine[:prefixLength+byteIndex+2], 0, true
		}
	}
	return "", 0, false
}

func countIndentation(line string) int {
	indentation := 0
	for _, runeValue := range line {
		if runeValue == ' ' {
			indentation++
			continue
		}
		if runeValue == '\t' {
			indentation += tabIndentationWidth
			continue
		}
		break
	}
	return indentation
}
