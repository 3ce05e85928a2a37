package domain

import "strings"

// DefaultTopN is the result count used when callers do not choose one.
const DefaultTopN = 20

// RankFilter narrows the corpus considered for ranking. Zero values
// leave a dimension unconstrained. Filtering is a pure predicate over
// paper metadata, independent of similarity scores.
type RankFilter struct {
	// YearFrom is the inclusive lower bound on publication year, 0 = open.
	YearFrom int

	// YearTo is the inclusive upper bound on publication year, 0 = open.
	YearTo int

	// Author matches papers with any author containing this substring,
	// case-insensitive.
	Author string

	// Keywords matches papers whose keyword set intersects this set,
	// case-insensitive.
	Keywords []string
}

// IsZero returns true if no dimension is constrained.
func (f RankFilter) IsZero() bool {
	return f.YearFrom == 0 && f.YearTo == 0 && f.Author == "" && len(f.Keywords) == 0
}

// Matches reports whether a paper passes every constrained dimension.
func (f RankFilter) Matches(p *Paper) bool {
	if f.YearFrom != 0 && p.Year < f.YearFrom {
		return false
	}
	if f.YearTo != 0 && (p.Year == 0 || p.Year > f.YearTo) {
		return false
	}
	if f.Author != "" && !matchesAuthor(p.Authors, f.Author) {
		return false
	}
	if len(f.Keywords) > 0 && !intersects(p.Keywords, f.Keywords) {
		return false
	}
	return true
}

func matchesAuthor(authors []string, needle string) bool {
	needle = strings.ToLower(needle)
	for _, a := range authors {
		if strings.Contains(strings.ToLower(a), needle) {
			return true
		}
	}
	return false
}

func intersects(have, want []string) bool {
	set := make(map[string]struct{}, len(have))
	for _, k := range have {
		set[strings.ToLower(k)] = struct{}{}
	}
	for _, k := range want {
		if _, ok := set[strings.ToLower(k)]; ok {
			return true
		}
	}
	return false
}

// RankedPaper is one entry of a ranking result. It is ephemeral,
// produced per request and never persisted.
type RankedPaper struct {
	// Paper is a metadata snapshot of the ranked paper.
	Paper Paper

	// Score is the aggregated similarity against the seed set, in [-1, 1].
	Score float64
}
