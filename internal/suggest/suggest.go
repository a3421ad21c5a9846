// Package suggest proposes corrected queries for searches that match
// nothing, using Damerau-Levenshtein distance against the words that
// actually occur in the settings schema.
package suggest

import (
	"sort"
	"strings"
)

// MaxDistance is the largest edit distance a word may be from a vocabulary
// word to still be considered a typo of it.
const MaxDistance = 2

// Vocabulary is the set of known words suggestions are drawn from, with a
// stable lookup order.
type Vocabulary struct {
	words []string
	seen  map[string]struct{}
}

// NewVocabulary builds a vocabulary from pre-tokenized lowercase words.
// Duplicates are dropped, first occurrence wins the tie order.
func NewVocabulary(words []string) *Vocabulary {
	v := &Vocabulary{seen: make(map[string]struct{}, len(words))}
	v.Add(words)
	return v
}

// Add extends the vocabulary with more words.
func (v *Vocabulary) Add(words []string) {
	for _, word := range words {
		if word == "" {
			continue
		}
		if _, ok := v.seen[word]; ok {
			continue
		}
		v.seen[word] = struct{}{}
		v.words = append(v.words, word)
	}
}

// Contains reports whether the word is already in the vocabulary.
func (v *Vocabulary) Contains(word string) bool {
	_, ok := v.seen[word]
	return ok
}

// Len returns the number of distinct words.
func (v *Vocabulary) Len() int {
	return len(v.words)
}

// Nearest returns the vocabulary word closest to term within MaxDistance,
// or "" when nothing is close enough. Ties go to the smaller distance, then
// to the word added first.
func (v *Vocabulary) Nearest(term string) string {
	if term == "" {
		return ""
	}
	if v.Contains(term) {
		return term
	}

	best := ""
	bestDist := MaxDistance + 1
	termLen := len([]rune(term))

	for _, word := range v.words {
		// Length-based early filtering: if length difference > MaxDistance, skip
		wordLen := len([]rune(word))
		lengthDiff := wordLen - termLen
		if lengthDiff < 0 {
			lengthDiff = -lengthDiff
		}
		if lengthDiff > MaxDistance {
			continue
		}

		dist := damerauLevenshteinWithLimit(term, word, MaxDistance)
		if dist < bestDist {
			best = word
			bestDist = dist
		}
	}
	return best
}

// Query corrects a whole query, token by token. It returns "" when no token
// needed correcting or when any unknown token has no close match, so callers
// only surface suggestions that differ from the query and cover all of it.
func (v *Vocabulary) Query(tokens []string) string {
	corrected := make([]string, len(tokens))
	changed := false
	for i, token := range tokens {
		if v.Contains(token) {
			corrected[i] = token
			continue
		}
		nearest := v.Nearest(token)
		if nearest == "" {
			return ""
		}
		corrected[i] = nearest
		changed = true
	}
	if !changed {
		return ""
	}
	return strings.Join(corrected, " ")
}

// Words returns the vocabulary sorted alphabetically.
func (v *Vocabulary) Words() []string {
	words := make([]string, len(v.words))
	copy(words, v.words)
	sort.Strings(words)
	return words
}

// damerauLevenshteinWithLimit computes the Damerau-Levenshtein distance
// between two strings with early termination. It counts insertions,
// deletions, substitutions and transpositions, and returns maxDistance + 1
// as soon as the actual distance is known to exceed maxDistance.
func damerauLevenshteinWithLimit(a, b string, maxDistance int) int {
	runesA := []rune(a)
	runesB := []rune(b)

	lenA := len(runesA)
	lenB := len(runesB)

	lengthDiff := lenA - lenB
	if lengthDiff < 0 {
		lengthDiff = -lengthDiff
	}
	if lengthDiff > maxDistance {
		return maxDistance + 1
	}

	if lenA == 0 {
		return lenB
	}
	if lenB == 0 {
		return lenA
	}

	// Three rows are needed instead of two: transpositions reach back to
	// the i-2 row.
	prevPrevRow := make([]int, lenB+1)
	prevRow := make([]int, lenB+1)
	currRow := make([]int, lenB+1)

	for j := 0; j <= lenB; j++ {
		prevRow[j] = j
	}

	for i := 1; i <= lenA; i++ {
		currRow[0] = i
		minInRow := i

		for j := 1; j <= lenB; j++ {
			cost := 0
			if runesA[i-1] != runesB[j-1] {
				cost = 1
			}

			deletion := prevRow[j] + 1
			insertion := currRow[j-1] + 1
			substitution := prevRow[j-1] + cost

			currRow[j] = min3(deletion, insertion, substitution)

			if i > 1 && j > 1 &&
				runesA[i-1] == runesB[j-2] &&
				runesA[i-2] == runesB[j-1] {
				transposition := prevPrevRow[j-2] + cost
				if transposition < currRow[j] {
					currRow[j] = transposition
				}
			}

			if currRow[j] < minInRow {
				minInRow = currRow[j]
			}
		}

		// If every cell in this row already exceeds the limit, the final
		// distance will too.
		if minInRow > maxDistance {
			return maxDistance + 1
		}

		prevPrevRow, prevRow, currRow = prevRow, currRow, prevPrevRow
	}

	return prevRow[lenB]
}

func min3(a, b, c int) int {
	if a < b {
		if a < c {
			return a
		}
		return c
	}
	if b < c {
		return b
	}
	return c
}
