package extractors

import (
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/paperrank/internal/core/domain"
)

const (
	// minLineRunes is the shortest line kept by CleanText. Shorter
	// lines are page numbers, stray glyphs and hyphenation debris.
	minLineRunes = 3

	// maxTitleRunes caps how long a line can be and still count as a
	// title candidate.
	maxTitleRunes = 200
)

// CleanText normalises extracted text: whitespace runs inside each line
// collapse to single spaces and lines of minLineRunes or fewer are
// dropped.
func CleanText(text string) string {
	lines := strings.Split(text, "\n")
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if utf8.RuneCountInString(line) <= minLineRunes {
			continue
		}
		cleaned = append(cleaned, line)
	}
	return strings.Join(cleaned, "\n")
}

// Title guesses the paper title: the first non-empty line short enough
// to plausibly be one. Falls back to a title derived from the key.
func Title(text, key string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || utf8.RuneCountInString(line) > maxTitleRunes {
			continue
		}
		return line
	}
	return domain.TitleFromKey(key)
}
