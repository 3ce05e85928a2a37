package extractors

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/paperrank/internal/core/domain"
)

const (
	// hintScanLines bounds how deep into the paper the heuristics look.
	// Bibliographic front matter sits in the first page of text.
	hintScanLines = 40

	// authorScanLines is how many lines below the title may hold the
	// author list.
	authorScanLines = 6

	// maxVenueRunes caps a venue line; longer matches are body text.
	maxVenueRunes = 160
)

var (
	yearPattern = regexp.MustCompile(`\b(19|20)\d{2}\b`)

	// namePattern matches one author: an uppercase-led word followed by
	// one to three more words, covering particles like "van der".
	namePattern = regexp.MustCompile(`^[A-Z][\pL.'-]*(\s[\pL][\pL.'-]*){1,3}$`)

	venueMarkers = []string{
		"proceedings", "conference", "journal", "workshop",
		"symposium", "transactions", "arxiv",
	}

	keywordMarkers = []string{
		"keywords:", "keywords—", "index terms:", "index terms—",
	}
)

// ParseHints derives best-effort bibliographic metadata from cleaned
// paper text. Fields that cannot be determined stay zero.
func ParseHints(text, key string) domain.MetadataHints {
	lines := headLines(text, hintScanLines)
	title := Title(text, key)
	return domain.MetadataHints{
		Title:    title,
		Authors:  findAuthors(lines, title),
		Year:     findYear(lines),
		Venue:    findVenue(lines),
		Keywords: findKeywords(lines),
	}
}

// headLines returns up to limit leading non-empty trimmed lines.
func headLines(text string, limit int) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lines = append(lines, line)
		if len(lines) == limit {
			break
		}
	}
	return lines
}

// findYear returns the first plausible publication year.
func findYear(lines []string) int {
	for _, line := range lines {
		if match := yearPattern.FindString(line); match != "" {
			year, err := strconv.Atoi(match)
			if err == nil {
				return year
			}
		}
	}
	return 0
}

// findVenue returns the first line naming a publication venue.
func findVenue(lines []string) string {
	for _, line := range lines {
		lower := strings.ToLower(line)
		for _, marker := range venueMarkers {
			if strings.Contains(lower, marker) && utf8.RuneCountInString(line) <= maxVenueRunes {
				return line
			}
		}
	}
	return ""
}

// findKeywords returns keywords from an explicit keyword declaration.
func findKeywords(lines []string) []string {
	for _, line := range lines {
		lower := strings.ToLower(line)
		for _, marker := range keywordMarkers {
			idx := strings.Index(lower, marker)
			if idx < 0 {
				continue
			}
			if keywords := splitKeywords(line[idx+len(marker):]); len(keywords) > 0 {
				return keywords
			}
		}
	}
	return nil
}

func splitKeywords(rest string) []string {
	parts := strings.FieldsFunc(rest, func(r rune) bool {
		return r == ',' || r == ';' || r == '·'
	})
	var keywords []string
	for _, part := range parts {
		keyword := strings.TrimSuffix(strings.TrimSpace(part), ".")
		if keyword != "" {
			keywords = append(keywords, keyword)
		}
	}
	return keywords
}

// findAuthors scans the lines just below the title for an author list.
func findAuthors(lines []string, title string) []string {
	start := 0
	for i, line := range lines {
		if line == title {
			start = i + 1
			break
		}
	}
	limit := start + authorScanLines
	for i := start; i < len(lines) && i < limit; i++ {
		if authors := parseAuthorLine(lines[i]); len(authors) > 0 {
			return authors
		}
	}
	return nil
}

// parseAuthorLine splits a candidate line into author names. Every part
// must look like a name or the line is rejected whole. A single part
// without separators must be a plain two-word name, so short headings
// are not mistaken for an author.
func parseAuthorLine(line string) []string {
	if len(line) > 4 && strings.EqualFold(line[:3], "by ") {
		line = line[3:]
	}
	line = strings.ReplaceAll(line, " and ", ", ")

	parts := strings.FieldsFunc(line, func(r rune) bool {
		return r == ',' || r == ';'
	})
	var authors []string
	for _, part := range parts {
		name := strings.TrimSpace(part)
		if name == "" {
			continue
		}
		if !namePattern.MatchString(name) {
			return nil
		}
		authors = append(authors, name)
	}
	if len(authors) == 1 && len(strings.Fields(authors[0])) != 2 {
		return nil
	}
	return authors
}
