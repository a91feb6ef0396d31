package ingestion

import (
	"regexp"
	"strings"
)

var (
	inlineSpace     = regexp.MustCompile(`[ \t\f\v\x{00a0}]+`)
	excessiveBlanks = regexp.MustCompile(`\n{3,}`)
)

// CleanText normalises text pulled out of a document: line endings become LF,
// runs of horizontal whitespace collapse to one space, lines are trimmed and
// no more than one blank line is kept between paragraphs.
func CleanText(content string) string {
	if content == "" {
		return ""
	}

	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(inlineSpace.ReplaceAllString(line, " "))
	}

	result := strings.Join(lines, "\n")
	result = excessiveBlanks.ReplaceAllString(result, "\n\n")
	return strings.TrimSpace(result)
}
