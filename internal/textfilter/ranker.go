// Package textfilter implements the weighted substring filter used to
// narrow down settings pages as the user types a search query.
package textfilter

import (
	"regexp"
	"sort"
	"strings"
)

// matchAnything is used when the query contains no tokens. A blank filter
// keeps every candidate, each with a uniform single match per field.
var matchAnything = regexp.MustCompile(`^(.*)$`)

// Candidate is a filterable list entry: a display label plus auxiliary
// searchable text supplied by whoever registered the entry.
type Candidate struct {
	ID    string
	Label string
	Hints string
}

// ScoredCandidate is a Candidate that matched the query, annotated with the
// match counts used for ordering.
type ScoredCandidate struct {
	ID        string
	Label     string
	NameScore int
	HintScore int
}

// Compile turns a raw query into a case-insensitive pattern that matches any
// of its whitespace-delimited tokens as a literal substring. Tokens are
// quoted, so pattern metacharacters in the query ("a.b", "c++") match
// literally. A blank or whitespace-only query compiles to a pattern that
// matches every string.
func Compile(query string) *regexp.Regexp {
	tokens := strings.Fields(query)
	if len(tokens) == 0 {
		return matchAnything
	}

	quoted := make([]string, len(tokens))
	for i, token := range tokens {
		quoted[i] = regexp.QuoteMeta(token)
	}
	return regexp.MustCompile(`(?i)(` + strings.Join(quoted, "|") + `)`)
}

// countMatches returns the number of non-overlapping matches of pattern
// within text.
func countMatches(pattern *regexp.Regexp, text string) int {
	return len(pattern.FindAllStringIndex(text, -1))
}

// Rank scores every candidate against the query and returns the matching
// ones, best first. A candidate matches when the query tokens occur at least
// once across its label and hints; candidates with zero matches are dropped.
// Results are ordered by descending label match count, then descending hint
// match count, then label, with original insertion order as the final
// tiebreak. Rank is a pure function and is safe for concurrent use.
func Rank(query string, candidates []Candidate) []ScoredCandidate {
	pattern := Compile(query)

	scored := make([]ScoredCandidate, 0, len(candidates))
	for _, candidate := range candidates {
		nameScore := countMatches(pattern, candidate.Label)
		hintScore := countMatches(pattern, candidate.Hints)
		if nameScore+hintScore == 0 {
			continue
		}
		scored = append(scored, ScoredCandidate{
			ID:        candidate.ID,
			Label:     candidate.Label,
			NameScore: nameScore,
			HintScore: hintScore,
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].NameScore != scored[j].NameScore {
			return scored[i].NameScore > scored[j].NameScore
		}
		if scored[i].HintScore != scored[j].HintScore {
			return scored[i].HintScore > scored[j].HintScore
		}
		return scored[i].Label < scored[j].Label
	})
	return scored
}
