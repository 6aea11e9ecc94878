package cloze

import "testing"

func TestSelectAnchor(t *testing.T) {
	sel := NewAnchorSelector(DefaultAnchorRules())

	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "fallback_first_three_tokens",
			content: "a very long phrase with six words",
			want:    "a very long",
		},
		{
			name:    "paired_eponym_with_companion",
			content: "Schuffner's dots are seen",
			want:    "Schuffner's dots",
		},
		{
			name:    "paired_eponym_without_companion",
			content: "Schuffner's stippling on the smear",
			want:    "Schuffner's",
		},
		{
			name:    "species_name_wins_over_position",
			content: "infection caused by Plasmodium vivax in travellers",
			want:    "Plasmodium vivax",
		},
		{
			name:    "periodicity_numeral",
			content: "fever spikes roughly every 48 hours in this form",
			want:    "48",
		},
		{
			name:    "drug_name",
			content: "radical cure requires a full course of primaquine therapy",
			want:    "primaquine",
		},
		{
			name:    "fallback_strips_edge_punctuation",
			content: `"hello," (world) -- again`,
			want:    "hello world again",
		},
		{
			name:    "no_tokens_returns_content_unchanged",
			content: "  ,,  !! ",
			want:    "  ,,  !! ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sel.Select(tt.content, 3)
			if got != tt.want {
				t.Errorf("Select(%q, 3) = %q, want %q", tt.content, got, tt.want)
			}
		})
	}
}

func TestSelectAnchorRuleOrder(t *testing.T) {
	// The first matching rule wins: a content string holding both an
	// eponym and a drug name anchors on the eponym.
	sel := NewAnchorSelector(DefaultAnchorRules())
	got := sel.Select("Schuffner's dots respond to chloroquine", 3)
	if got != "Schuffner's dots" {
		t.Errorf("Select() = %q, want %q", got, "Schuffner's dots")
	}
}

func TestSelectAnchorMaxWordsOne(t *testing.T) {
	sel := NewAnchorSelector(nil)
	got := sel.Select("several plain words here", 1)
	if got != "several" {
		t.Errorf("Select() = %q, want %q", got, "several")
	}
}
