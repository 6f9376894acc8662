package aggregator

import (
	"strings"
	"unicode/utf8"

	"github.com/temirov/promptprep/internal/selector"
	"github.com/temirov/promptprep/internal/utils"
)

const (
	hashCommentMarker      = "#"
	slashCommentMarker     = "//"
	dashCommentMarker      = "--"
	escapeCharacter        = '\\'
	singleQuoteCharacter   = '\''
	doubleQuoteCharacter   = "\""
	defaultQuoteCharacters = "\"'`"
	// maximumEscapeLength is the escape body after its first character, as in \u{10FFFF}.
	maximumEscapeLength = 8
	contentLineBreak    = "\n"
	trailingBlankCutset = " \t\r"
)

var commentMarkersByExtension = map[string]string{
	".c": slashCommentMarker, ".cpp": slashCommentMarker, ".h": slashCommentMarker, ".hpp": slashCommentMarker,
	".cs": slashCommentMarker, ".go": slashCommentMarker, ".java": slashCommentMarker, ".kt": slashCommentMarker,
	".js": slashCommentMarker, ".jsx": slashCommentMarker, ".ts": slashCommentMarker, ".tsx": slashCommentMarker,
	".rs": slashCommentMarker, ".swift": slashCommentMarker, ".scala": slashCommentMarker, ".php": slashCommentMarker,
	".scss": slashCommentMarker, ".less": slashCommentMarker, ".sass": slashCommentMarker, ".gradle": slashCommentMarker,
	".pq": slashCommentMarker, ".pqm": slashCommentMarker,

	".sql": dashCommentMarker, ".psql": dashCommentMarker, ".lua": dashCommentMarker,

	".md": utils.EmptyString, ".rst": utils.EmptyString, ".html": utils.EmptyString, ".xml": utils.EmptyString,
	".json": utils.EmptyString, ".css": utils.EmptyString, ".db": utils.EmptyString, ".sqlite": utils.EmptyString,
	".bat": utils.EmptyString, ".cmd": utils.EmptyString, ".vb": utils.EmptyString,
}

// CommentStyle describes how line comments and string literals look in one language.
type CommentStyle struct {
	Marker string
	// Quotes lists the characters that open and close string literals.
	Quotes string
	// CharacterLiterals marks languages where a single quote opens a character literal
	// only when it closes right after one character, and is a lifetime or label otherwise.
	CharacterLiterals bool
}

var characterLiteralExtensions = map[string]struct{}{
	".rs": {},
}

// CommentMarker returns the line comment marker for the file, or an empty string when
// the format has no line comments. Unlisted extensions use "#".
func CommentMarker(relativePath string) string {
	if marker, listed := commentMarkersByExtension[selector.FileExtension(relativePath)]; listed {
		return marker
	}
	return hashCommentMarker
}

// CommentStyleFor returns the comment style of the file.
func CommentStyleFor(relativePath string) CommentStyle {
	style := CommentStyle{Marker: CommentMarker(relativePath), Quotes: defaultQuoteCharacters}
	if _, usesCharacterLiterals := characterLiteralExtensions[selector.FileExtension(relativePath)]; usesCharacterLiterals {
		style.Quotes = doubleQuoteCharacter
		style.CharacterLiterals = true
	}
	return style
}

// StripComments removes the text following the comment marker on every line.
// Lines keep their position so blank line structure survives.
func StripComments(content string, style CommentStyle) string {
	if style.Marker == utils.EmptyString {
		return content
	}
	lines := strings.Split(content, contentLineBreak)
	for index, line := range lines {
		lines[index] = stripLineComment(line, style)
	}
	return strings.Join(lines, contentLineBreak)
}

// stripLineComment cuts line at the first marker found outside a quoted string.
func stripLineComment(line string, style CommentStyle) string {
	commentStart := findCommentStart(line, style)
	if commentStart < 0 {
		return line
	}
	return strings.TrimRight(line[:commentStart], trailingBlankCutset)
}

func findCommentStart(line string, style CommentStyle) int {
	var openQuote byte
	escaped := false
	for index := 0; index < len(line); index++ {
		character := line[index]
		if openQuote != 0 {
			switch {
			case escaped:
				escaped = false
			case character == escapeCharacter:
				escaped = true
			case character == openQuote:
				openQuote = 0
			}
			continue
		}
		if style.CharacterLiterals && character == singleQuoteCharacter {
			index += characterLiteralLength(line[index:]) - 1
			continue
		}
		if strings.IndexByte(style.Quotes, character) >= 0 {
			openQuote = character
			continue
		}
		if strings.HasPrefix(line[index:], style.Marker) {
			return index
		}
	}
	return -1
}

// characterLiteralLength returns the byte length of the character literal opening text,
// or 1 when the quote starts a lifetime or label instead.
func characterLiteralLength(text string) int {
	if len(text) < 3 {
		return 1
	}
	if text[1] == escapeCharacter {
		if len(text) < 4 {
			return 1
		}
		closing := strings.IndexByte(text[3:], singleQuoteCharacter)
		if closing < 0 || closing > maximumEscapeLength {
			return 1
		}
		return closing + 4
	}
	_, runeLength := utf8.DecodeRuneInString(text[1:])
	if 1+runeLength < len(text) && text[1+runeLength] == singleQuoteCharacter {
		return runeLength + 2
	}
	return 1
}

// LineCounts summarizes the lines of one file.
type LineCounts struct {
	Total   int
	Code    int
	Comment int
	Blank   int
}

// Add accumulates other into the receiver.
func (counts *LineCounts) Add(other LineCounts) {
	counts.Total += other.Total
	counts.Code += other.Code
	counts.Comment += other.Comment
	counts.Blank += other.Blank
}

// CommentRatio returns comment lines over non blank lines.
func (counts LineCounts) CommentRatio() float64 {
	nonBlank := counts.Code + counts.Comment
	if nonBlank == 0 {
		return 0
	}
	return float64(counts.Comment) / float64(nonBlank)
}

// CountLines classifies every line of content as blank, comment or code.
// A line is a comment when its first non blank text is the marker.
func CountLines(content string, marker string) LineCounts {
	var counts LineCounts
	for _, line := range SplitLines(content) {
		counts.Total++
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == utils.EmptyString:
			counts.Blank++
		case marker != utils.EmptyString && strings.HasPrefix(trimmed, marker):
			counts.Comment++
		default:
			counts.Code++
		}
	}
	return counts
}

// SplitLines splits content into lines. A trailing line break does not start a new line.
func SplitLines(content string) []string {
	if content == utils.EmptyString {
		return nil
	}
	return strings.Split(strings.TrimSuffix(content, contentLineBreak), contentLineBreak)
}
