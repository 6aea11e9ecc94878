package cloze

import "strings"

// Split breaks a batch into display-ready card blocks: each segment is
// trimmed and empty segments are dropped. That makes it lossy — an
// intentionally empty card does not survive — so it is used only for
// presentation and for the soft card-count check, never to produce text
// that re-enters the transform passes (those split exactly, see
// splitExact).
func Split(raw, delimiter string) []string {
	var parts []string
	for _, seg := range splitExact(raw, delimiter) {
		seg = strings.TrimSpace(seg)
		if seg == "" {
			continue
		}
		parts = append(parts, seg)
	}
	return parts
}

// Join rebuilds a batch string with the delimiter on its own line
// between cards.
func Join(parts []string, delimiter string) string {
	return strings.Join(parts, "\n"+delimiter+"\n")
}
