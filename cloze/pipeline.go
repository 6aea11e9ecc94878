package cloze

// Pipeline is the three-pass repair applied to raw model output for the
// refine feature. The pass order is load-bearing: capping must see the
// model's original indices before any span is rewritten, and renumbering
// must run last so the indices left after stripping come out dense.
type Pipeline struct {
	selector  *AnchorSelector
	delimiter string
	maxWords  int
}

// NewPipeline builds a pipeline with the given anchor rules. Empty
// delimiter and non-positive maxWords fall back to the package defaults.
func NewPipeline(delimiter string, maxWords int, rules []AnchorRule) *Pipeline {
	if delimiter == "" {
		delimiter = DefaultDelimiter
	}
	if maxWords < 1 {
		maxWords = DefaultMaxClozeWords
	}
	return &Pipeline{
		selector:  NewAnchorSelector(rules),
		delimiter: delimiter,
		maxWords:  maxWords,
	}
}

// Delimiter returns the card delimiter the pipeline splits on.
func (p *Pipeline) Delimiter() string { return p.delimiter }

// Refine repairs raw model output against the user's original input:
// model-invented cloze indices are stripped, over-long spans are
// shortened to anchors, and each card's indices are renumbered 1..K.
// Total over all inputs; malformed text simply passes through.
func (p *Pipeline) Refine(raw, input string) string {
	out := CapToInput(raw, input, p.delimiter)
	out = p.selector.EnforceWordLimit(out, p.maxWords)
	return RenumberPerCard(out, p.delimiter)
}

// CheckCardCount compares the number of non-empty cards in output and
// input. A mismatch means the model merged, dropped or split a card; it
// is reported to the caller as a warning beside best-effort output, not
// as an error.
func (p *Pipeline) CheckCardCount(output, input string) (got, want int, ok bool) {
	got = len(Split(output, p.delimiter))
	want = len(Split(input, p.delimiter))
	return got, want, got == want
}

// Refine runs the full repair with the default anchor rules, matching
// the calling contract of the surrounding HTTP layer.
func Refine(raw, input, delimiter string, maxWords int) string {
	return NewPipeline(delimiter, maxWords, DefaultAnchorRules()).Refine(raw, input)
}
