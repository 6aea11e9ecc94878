// Package cloze repairs Anki cloze-deletion markup in model output.
//
// A cloze span has the surface form {{c<digits>::<content>}}. Content is
// matched non-greedily up to the first "}}"; nested spans are excluded
// upstream by the prompt contract and are not handled here. Stray
// whitespace after "{{" and before "::" is tolerated when matching and
// never emitted when a span is rewritten.
package cloze

import (
	"regexp"
	"strings"
)

const (
	// DefaultDelimiter separates cards inside a batch string.
	DefaultDelimiter = "===CARD==="

	// DefaultMaxClozeWords is the policy cap on words per cloze span.
	DefaultMaxClozeWords = 3
)

var spanPattern = regexp.MustCompile(`(?s)\{\{\s*c(\d+)\s*::(.*?)\}\}`)

// ReplaceSpans walks every cloze span in text left to right and builds a
// new string. For each span, repl receives the index digits and the inner
// content; returning ok=false keeps the span's original bytes, returning
// ok=true substitutes the returned string for the whole span. Text outside
// spans is copied through untouched.
func ReplaceSpans(text string, repl func(index, content string) (string, bool)) string {
	matches := spanPattern.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return text
	}

	var b strings.Builder
	b.Grow(len(text))
	last := 0
	for _, m := range matches {
		b.WriteString(text[last:m[0]])
		index := text[m[2]:m[3]]
		content := text[m[4]:m[5]]
		if out, ok := repl(index, content); ok {
			b.WriteString(out)
		} else {
			b.WriteString(text[m[0]:m[1]])
		}
		last = m[1]
	}
	b.WriteString(text[last:])
	return b.String()
}

// writeSpan emits the normalized form: no whitespace around the index.
func writeSpan(index, content string) string {
	return "{{c" + index + "::" + content + "}}"
}

// indexSet collects the distinct cloze indices of one card, keyed by the
// exact digit string so quirks like leading zeros are preserved.
func indexSet(card string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, m := range spanPattern.FindAllStringSubmatch(card, -1) {
		set[m[1]] = struct{}{}
	}
	return set
}

// splitExact splits on the bare delimiter with no trimming or filtering,
// so strings.Join(splitExact(text, d), d) == text always holds. The
// transform passes rely on this to keep cards positionally aligned and
// non-cloze bytes intact.
func splitExact(text, delimiter string) []string {
	if delimiter == "" {
		return []string{text}
	}
	return strings.Split(text, delimiter)
}
