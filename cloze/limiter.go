package cloze

import "strings"

// EnforceWordLimit rewrites every cloze span whose content exceeds
// maxWords whitespace tokens, keeping the same index and substituting an
// anchor phrase chosen by the selector. Spans already within the limit
// keep their original bytes, and text outside spans is untouched.
func (s *AnchorSelector) EnforceWordLimit(text string, maxWords int) string {
	return ReplaceSpans(text, func(index, content string) (string, bool) {
		if len(strings.Fields(content)) <= maxWords {
			return "", false
		}
		return writeSpan(index, s.Select(content, maxWords)), true
	})
}

// EnforceWordLimit applies the default clinical anchor rules.
func EnforceWordLimit(text string, maxWords int) string {
	return NewAnchorSelector(DefaultAnchorRules()).EnforceWordLimit(text, maxWords)
}
