package textfilter

import (
	"testing"
)

func pages() []Candidate {
	return []Candidate{
		{ID: "zebra", Label: "Zebra Script", Hints: "animal"},
		{ID: "fire", Label: "Fire Script", Hints: "magic fire"},
		{ID: "camera", Label: "Camera", Hints: "fov zoom first person third person"},
		{ID: "audio", Label: "Audio", Hints: "volume music effects footsteps"},
	}
}

func labels(results []ScoredCandidate) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.Label
	}
	return out
}

func TestRankSingleToken(t *testing.T) {
	results := Rank("fire", pages())

	if len(results) != 1 {
		t.Fatalf("Expected 1 result, got %d: %v", len(results), labels(results))
	}
	hit := results[0]
	if hit.Label != "Fire Script" {
		t.Errorf("Expected 'Fire Script', got '%s'", hit.Label)
	}
	if hit.NameScore != 1 || hit.HintScore != 1 {
		t.Errorf("Expected scores (1, 1), got (%d, %d)", hit.NameScore, hit.HintScore)
	}
}

func TestRankExcludesZeroScoreCandidates(t *testing.T) {
	for _, query := range []string{"fire", "zoom", "volume music", "xyzzy"} {
		for _, hit := range Rank(query, pages()) {
			if hit.NameScore+hit.HintScore == 0 {
				t.Errorf("Query %q returned zero-score candidate %q", query, hit.Label)
			}
		}
	}
}

func TestRankBlankQueryKeepsEverything(t *testing.T) {
	for _, query := range []string{"", "   ", "\t \n"} {
		t.Run("query_"+query, func(t *testing.T) {
			results := Rank(query, pages())
			if len(results) != len(pages()) {
				t.Fatalf("Blank query dropped candidates: got %d of %d", len(results), len(pages()))
			}
			// Uniform scores sort by label alphabetically.
			expected := []string{"Audio", "Camera", "Fire Script", "Zebra Script"}
			got := labels(results)
			for i := range expected {
				if got[i] != expected[i] {
					t.Errorf("Position %d: expected %q, got %q (full order: %v)", i, expected[i], got[i], got)
				}
			}
		})
	}
}

func TestRankCaseInsensitive(t *testing.T) {
	lower := Rank("fire", pages())
	upper := Rank("FIRE", pages())

	if len(lower) != len(upper) {
		t.Fatalf("Case changed result count: %d vs %d", len(lower), len(upper))
	}
	for i := range lower {
		if lower[i] != upper[i] {
			t.Errorf("Position %d differs: %+v vs %+v", i, lower[i], upper[i])
		}
	}
}

func TestRankMultiWordQueryIsUnionOfTokens(t *testing.T) {
	results := Rank("fire zebra", pages())

	if len(results) != 2 {
		t.Fatalf("Expected 2 results, got %d: %v", len(results), labels(results))
	}
	// "Fire Script" matches once in the label and once in the hints,
	// "Zebra Script" only once in the label, so fire ranks first.
	if results[0].Label != "Fire Script" || results[1].Label != "Zebra Script" {
		t.Errorf("Unexpected order: %v", labels(results))
	}
}

func TestRankEscapesPatternMetacharacters(t *testing.T) {
	candidates := []Candidate{
		{ID: "literal", Label: "a.b", Hints: ""},
		{ID: "trap", Label: "axb", Hints: ""},
	}

	results := Rank("a.b", candidates)
	if len(results) != 1 {
		t.Fatalf("Expected only the literal 'a.b' to match, got %v", labels(results))
	}
	if results[0].ID != "literal" {
		t.Errorf("Expected candidate 'literal', got '%s'", results[0].ID)
	}

	// Queries made entirely of metacharacters must not blow up either.
	for _, query := range []string{"^.[$()|*+?{", "(((", "a+ b*"} {
		Rank(query, candidates)
	}
}

func TestRankOrderIsDeterministicOnTies(t *testing.T) {
	candidates := []Candidate{
		{ID: "b", Label: "dup", Hints: "fire"},
		{ID: "a", Label: "dup", Hints: "fire"},
		{ID: "c", Label: "dup", Hints: "fire"},
	}

	first := Rank("fire", candidates)
	for i := 0; i < 10; i++ {
		again := Rank("fire", candidates)
		for j := range first {
			if first[j].ID != again[j].ID {
				t.Fatalf("Run %d reordered tied candidates: %v vs %v", i, first, again)
			}
		}
	}
	// Equal keys fall back to insertion order.
	if first[0].ID != "b" || first[1].ID != "a" || first[2].ID != "c" {
		t.Errorf("Tied candidates not in insertion order: %+v", first)
	}
}

func TestRankIdempotent(t *testing.T) {
	first := Rank("script", pages())

	reranked := make([]Candidate, len(first))
	for i, hit := range first {
		reranked[i] = Candidate{ID: hit.ID, Label: hit.Label, Hints: ""}
	}
	second := Rank("script", reranked)

	if len(second) != len(first) {
		t.Fatalf("Re-ranking changed result count: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if second[i].ID != first[i].ID {
			t.Errorf("Re-ranking reordered results at %d: %s vs %s", i, first[i].ID, second[i].ID)
		}
	}
}

func TestRankCountsRepeatedMatches(t *testing.T) {
	candidates := []Candidate{
		{ID: "double", Label: "fire and fire", Hints: ""},
		{ID: "single", Label: "fire", Hints: ""},
	}

	results := Rank("fire", candidates)
	if len(results) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(results))
	}
	if results[0].ID != "double" || results[0].NameScore != 2 {
		t.Errorf("Expected 'double' first with name score 2, got %+v", results[0])
	}
}

func TestCompileBlankQueryMatchesEverything(t *testing.T) {
	pattern := Compile("  \t ")
	for _, text := range []string{"", "anything", "with spaces"} {
		if !pattern.MatchString(text) {
			t.Errorf("Blank-query pattern failed to match %q", text)
		}
	}
}
