// Package format renders card text into HTML previews for the UI.
package format

import (
	"fmt"
	stdhtml "html"
	"strings"

	"clozesmith/cloze"
	"clozesmith/web/types"

	"github.com/gomarkdown/markdown"
)

// CardHTML renders one card as HTML with every cloze span wrapped in a
// styled <span> carrying its index. Spans are swapped for placeholder
// tokens before the markdown pass so the brace markup cannot be mangled,
// then substituted back into the rendered output.
func CardHTML(card string) string {
	type clozeSpan struct {
		index   string
		content string
	}
	var spans []clozeSpan

	withPlaceholders := cloze.ReplaceSpans(card, func(index, content string) (string, bool) {
		id := placeholder(len(spans))
		spans = append(spans, clozeSpan{index: index, content: content})
		return id, true
	})

	html := string(markdown.ToHTML([]byte(withPlaceholders), nil, nil))

	for i, span := range spans {
		rendered := `<span class="cloze" data-cloze="` + span.index + `">` +
			stdhtml.EscapeString(span.content) + `</span>`
		html = strings.Replace(html, placeholder(i), rendered, 1)
	}
	return html
}

// placeholder tokens use only letters and digits so markdown treats them
// as plain text.
func placeholder(i int) string {
	return fmt.Sprintf("XCLOZESPAN%dX", i)
}

// CardViews splits a batch into display blocks and renders each one.
func CardViews(text, delimiter string) []types.CardView {
	parts := cloze.Split(text, delimiter)
	views := make([]types.CardView, 0, len(parts))
	for _, part := range parts {
		views = append(views, types.CardView{Text: part, HTML: CardHTML(part)})
	}
	return views
}
