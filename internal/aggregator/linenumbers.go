package aggregator

import (
	"fmt"
	"strconv"
	"strings"
)

const lineNumberFormat = "%*d | %s"

// NumberLines prefixes each line with its right aligned number. The width is the
// digit count of the last line number. A trailing line break is preserved.
func NumberLines(content string) string {
	lines := SplitLines(content)
	if len(lines) == 0 {
		return content
	}
	width := len(strconv.Itoa(len(lines)))
	numbered := make([]string, len(lines))
	for index, line := range lines {
		numbered[index] = fmt.Sprintf(lineNumberFormat, width, index+1, line)
	}
	result := strings.Join(numbered, contentLineBreak)
	if strings.HasSuffix(content, contentLineBreak) {
		result += contentLineBreak
	}
	return result
}
