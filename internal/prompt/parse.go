package prompt

import (
	"regexp"
	"strings"
)

// Answer markers are question numbers at the start of a line, like "2. ".
var markerPattern = regexp.MustCompile(`\n\d+\.\s*`)

// ParseAnswers splits the model output into per-question answers. The
// leading newline is prepended so the "1." marker of the first answer is
// consumed like every other marker. When the number of parsed answers does
// not match expected, the raw output is returned unchanged as a single
// element and aligned is false.
func ParseAnswers(output string, expected int) (answers []string, aligned bool) {
	parts := markerPattern.Split("\n"+output, -1)

	answers = make([]string, 0, expected)
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			answers = append(answers, trimmed)
		}
	}

	if len(answers) != expected {
		return []string{output}, false
	}
	return answers, true
}
