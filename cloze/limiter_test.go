package cloze

import (
	"strings"
	"testing"
)

func TestEnforceWordLimit(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "short_span_untouched",
			text: "{{c1::vivax}} relapses",
			want: "{{c1::vivax}} relapses",
		},
		{
			name: "long_span_shortened_by_fallback",
			text: "cause: {{c2::a very long phrase with six words}} noted",
			want: "cause: {{c2::a very long}} noted",
		},
		{
			name: "long_span_shortened_by_keyword",
			text: "{{c1::Schuffner's dots are seen on thin smear}}",
			want: "{{c1::Schuffner's dots}}",
		},
		{
			name: "mixed_spans_only_long_rewritten",
			text: "{{c1::two words}} and {{c2::this span runs well past the cap}}",
			want: "{{c1::two words}} and {{c2::this span runs}}",
		},
		{
			name: "no_spans_passthrough",
			text: "plain text without any markup",
			want: "plain text without any markup",
		},
		{
			name: "whitespace_index_normalized_on_rewrite",
			text: "{{ c3 ::one two three four five}}",
			want: "{{c3::one two three}}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EnforceWordLimit(tt.text, 3)
			if got != tt.want {
				t.Errorf("EnforceWordLimit() = %q, want %q", got, tt.want)
			}
		})
	}
}

// Every span in the output must respect the cap, whatever the input.
func TestEnforceWordLimitInvariant(t *testing.T) {
	inputs := []string{
		"{{c1::one two three four}} {{c2::five}} {{c3::six seven eight nine ten}}",
		"{{c1::Plasmodium vivax causes benign tertian malaria with relapses}}",
		"no clozes at all",
		"{{c7::   spaced    out    tokens    here   }}",
	}
	for _, in := range inputs {
		out := EnforceWordLimit(in, 3)
		ReplaceSpans(out, func(index, content string) (string, bool) {
			if n := len(strings.Fields(content)); n > 3 {
				t.Errorf("span {{c%s::%s}} has %d words after limiting, want <= 3", index, content, n)
			}
			return "", false
		})
	}
}
