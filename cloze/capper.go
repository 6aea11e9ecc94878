package cloze

import "strings"

// CapToInput enforces the no-new-clozes policy card by card. Output and
// input are split positionally on the same delimiter; for each output
// card whose input counterpart already contains clozes, any output span
// with an index outside the input card's index set is unwrapped to its
// inner content. Cards whose input had no clozes at all pass through
// untouched, as do output cards with no input counterpart, so the model
// stays free to cloze fresh material.
func CapToInput(output, input, delimiter string) string {
	outCards := splitExact(output, delimiter)
	inCards := splitExact(input, delimiter)
	for i, card := range outCards {
		var allowed map[string]struct{}
		if i < len(inCards) {
			allowed = indexSet(inCards[i])
		}
		if len(allowed) == 0 {
			continue
		}
		outCards[i] = ReplaceSpans(card, func(index, content string) (string, bool) {
			if _, ok := allowed[index]; ok {
				return "", false
			}
			return content, true
		})
	}
	return strings.Join(outCards, delimiter)
}
