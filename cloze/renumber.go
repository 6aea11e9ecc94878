package cloze

import (
	"strconv"
	"strings"
)

// RenumberPerCard relabels cloze indices in each card to a dense 1..K run
// in order of first appearance. The original index is keyed by its exact
// digit string, so "c05" and "c5" are distinct and every repeat of an
// already-seen index maps to the same new number, which is how deliberate
// reuse of one concept across spans survives. Cards are split on the bare
// delimiter with no trimming so segment count and position are preserved
// exactly, and numbering restarts at 1 in every card.
func RenumberPerCard(text, delimiter string) string {
	cards := splitExact(text, delimiter)
	for i, card := range cards {
		cards[i] = renumberCard(card)
	}
	return strings.Join(cards, delimiter)
}

func renumberCard(card string) string {
	assigned := make(map[string]int)
	next := 1
	return ReplaceSpans(card, func(index, content string) (string, bool) {
		n, seen := assigned[index]
		if !seen {
			n = next
			assigned[index] = n
			next++
		}
		return writeSpan(strconv.Itoa(n), content), true
	})
}
