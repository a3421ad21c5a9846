package tokenizer

import (
	"reflect"
	"testing"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "plain words",
			text: "water texture size",
			want: []string{"water", "texture", "size"},
		},
		{
			name: "camelCase is split",
			text: "windowMode",
			want: []string{"window", "mode"},
		},
		{
			name: "acronym boundary",
			text: "HDRRendering",
			want: []string{"hdr", "rendering"},
		},
		{
			name: "punctuation separates",
			text: "field-of-view (fov)",
			want: []string{"field", "of", "view", "fov"},
		},
		{
			name: "empty input",
			text: "",
			want: []string{},
		},
		{
			name: "only punctuation",
			text: "--- !!!",
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokenize(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Tokenize(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}
