package cloze

import (
	"regexp"
	"strings"
	"unicode"
)

// AnchorRule is one entry in an ordered matcher list. Pattern is tried
// against the full span content; the first rule whose pattern matches
// wins. Extract, when set, builds the anchor from the match and the full
// content (used for keyword pairs like an eponym plus its companion
// noun). A nil Extract returns the matched text itself.
type AnchorRule struct {
	Pattern *regexp.Regexp
	Extract func(content string, match []string) string
}

// AnchorSelector shortens over-long cloze content to a small anchor
// phrase, trying its rules in order before falling back to the leading
// tokens of the content.
type AnchorSelector struct {
	rules []AnchorRule
}

func NewAnchorSelector(rules []AnchorRule) *AnchorSelector {
	return &AnchorSelector{rules: rules}
}

// Select picks an anchor of at most maxWords whitespace tokens. Keyword
// rules take priority; otherwise the first maxWords tokens are kept with
// edge punctuation stripped. Content with no tokens at all comes back
// unchanged.
func (s *AnchorSelector) Select(content string, maxWords int) string {
	for _, rule := range s.rules {
		m := rule.Pattern.FindStringSubmatch(content)
		if m == nil {
			continue
		}
		if rule.Extract != nil {
			return rule.Extract(content, m)
		}
		return m[0]
	}

	tokens := make([]string, 0, maxWords)
	for _, field := range strings.Fields(content) {
		token := strings.TrimFunc(field, isEdgePunct)
		if token == "" {
			continue
		}
		tokens = append(tokens, token)
		if len(tokens) == maxWords {
			break
		}
	}
	if len(tokens) == 0 {
		return content
	}
	return strings.Join(tokens, " ")
}

func isEdgePunct(r rune) bool {
	return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_'
}

// pairedWith handles eponyms whose canonical anchor is the keyword plus a
// companion noun ("Schuffner's dots"): the pair is returned only when the
// companion also appears somewhere in the content.
func pairedWith(companion string) func(content string, match []string) string {
	return func(content string, match []string) string {
		if strings.Contains(strings.ToLower(content), companion) {
			return match[0] + " " + companion
		}
		return match[0]
	}
}

// DefaultAnchorRules is the built-in clinical lexicon, ordered by
// priority. Eponym pairs come first, then species names, periodicity
// numerals, drugs and life-cycle stages.
func DefaultAnchorRules() []AnchorRule {
	return []AnchorRule{
		{Pattern: regexp.MustCompile(`(?i)Sch[uü]ffner'?s`), Extract: pairedWith("dots")},
		{Pattern: regexp.MustCompile(`(?i)Maurer'?s`), Extract: pairedWith("clefts")},
		{Pattern: regexp.MustCompile(`(?i)Ziemann'?s`), Extract: pairedWith("dots")},
		{Pattern: regexp.MustCompile(`(?i)P(?:lasmodium|\.)?\s*(?:falciparum|vivax|ovale|malariae|knowlesi)`)},
		{Pattern: regexp.MustCompile(`(?i)blackwater fever`)},
		{Pattern: regexp.MustCompile(`(?i)cerebral malaria`)},
		{Pattern: regexp.MustCompile(`(?i)\b(?:benign|malignant)?\s*(?:tertian|quartan)\b`)},
		{Pattern: regexp.MustCompile(`\b(?:24|48|72)\b`)},
		{Pattern: regexp.MustCompile(`(?i)\b(?:chloroquine|primaquine|tafenoquine|artesunate|artemether|quinine|mefloquine|doxycycline|atovaquone|proguanil)\b`)},
		{Pattern: regexp.MustCompile(`(?i)\b(?:hypnozoites?|gametocytes?|merozoites?|sporozoites?|schizonts?|trophozoites?)\b`)},
		{Pattern: regexp.MustCompile(`(?i)\bG6PD\b`)},
		{Pattern: regexp.MustCompile(`(?i)\bAnopheles\b`)},
	}
}
