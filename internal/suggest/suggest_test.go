package suggest

import (
	"testing"
)

func TestDamerauLevenshteinWithLimit(t *testing.T) {
	tests := []struct {
		name        string
		a, b        string
		maxDistance int
		want        int
	}{
		{
			name:        "identical strings",
			a:           "gamma",
			b:           "gamma",
			maxDistance: 2,
			want:        0,
		},
		{
			name:        "single substitution",
			a:           "gamma",
			b:           "gamme",
			maxDistance: 2,
			want:        1,
		},
		{
			name:        "transposition counts as one edit",
			a:           "vsync",
			b:           "vsnyc",
			maxDistance: 2,
			want:        1,
		},
		{
			name:        "insertion and deletion",
			a:           "volum",
			b:           "volume",
			maxDistance: 2,
			want:        1,
		},
		{
			name:        "distance beyond the limit is capped",
			a:           "resolution",
			b:           "controller",
			maxDistance: 2,
			want:        3,
		},
		{
			name:        "length difference alone exceeds limit",
			a:           "fov",
			b:           "resolution",
			maxDistance: 2,
			want:        3,
		},
		{
			name:        "empty against non-empty",
			a:           "",
			b:           "ab",
			maxDistance: 2,
			want:        2,
		},
		{
			name:        "unicode runes count as single characters",
			a:           "café",
			b:           "cafe",
			maxDistance: 2,
			want:        1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := damerauLevenshteinWithLimit(tt.a, tt.b, tt.maxDistance)
			if got != tt.want {
				t.Errorf("damerauLevenshteinWithLimit(%q, %q, %d) = %d, want %d",
					tt.a, tt.b, tt.maxDistance, got, tt.want)
			}
		})
	}
}

func TestVocabularyNearest(t *testing.T) {
	vocab := NewVocabulary([]string{"gamma", "vsync", "resolution", "volume"})

	tests := []struct {
		name string
		term string
		want string
	}{
		{
			name: "exact word returns itself",
			term: "gamma",
			want: "gamma",
		},
		{
			name: "one typo away",
			term: "gamme",
			want: "gamma",
		},
		{
			name: "transposed letters",
			term: "vsnyc",
			want: "vsync",
		},
		{
			name: "nothing close enough",
			term: "keyboard",
			want: "",
		},
		{
			name: "empty term",
			term: "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := vocab.Nearest(tt.term); got != tt.want {
				t.Errorf("Nearest(%q) = %q, want %q", tt.term, got, tt.want)
			}
		})
	}
}

func TestVocabularyNearestPrefersSmallerDistance(t *testing.T) {
	vocab := NewVocabulary([]string{"vault", "volume"})

	// "volume" is 1 edit away, "vault" is further.
	if got := vocab.Nearest("volumee"); got != "volume" {
		t.Errorf("Nearest(\"volumee\") = %q, want \"volume\"", got)
	}
}

func TestVocabularyQuery(t *testing.T) {
	vocab := NewVocabulary([]string{"water", "texture", "size", "gamma"})

	tests := []struct {
		name   string
		tokens []string
		want   string
	}{
		{
			name:   "single corrected token",
			tokens: []string{"watre"},
			want:   "water",
		},
		{
			name:   "mixed known and corrected tokens",
			tokens: []string{"water", "texure"},
			want:   "water texture",
		},
		{
			name:   "all tokens already known yields no suggestion",
			tokens: []string{"water", "texture"},
			want:   "",
		},
		{
			name:   "an uncorrectable token suppresses the suggestion",
			tokens: []string{"watre", "zzzzzzzz"},
			want:   "",
		},
		{
			name:   "no tokens",
			tokens: nil,
			want:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := vocab.Query(tt.tokens); got != tt.want {
				t.Errorf("Query(%v) = %q, want %q", tt.tokens, got, tt.want)
			}
		})
	}
}

func TestVocabularyAddDeduplicates(t *testing.T) {
	vocab := NewVocabulary([]string{"gamma", "gamma", ""})
	vocab.Add([]string{"gamma", "vsync"})

	if vocab.Len() != 2 {
		t.Errorf("Expected 2 distinct words, got %d", vocab.Len())
	}
	if !vocab.Contains("vsync") {
		t.Error("Expected vocabulary to contain 'vsync'")
	}
}
