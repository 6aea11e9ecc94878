package types

import "time"

// ChatMessage is one message in the format expected by the chat
// completions endpoint.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CardView is one card prepared for display: the raw text block plus an
// HTML preview with cloze spans wrapped for styling.
type CardView struct {
	Text string `json:"text"`
	HTML string `json:"html"`
}

// RefineRequest asks for cleanup of existing cloze cards.
type RefineRequest struct {
	Text  string `json:"text" binding:"required"`
	Model string `json:"model"`
}

// ComposeRequest asks for new cards generated from raw study notes.
type ComposeRequest struct {
	Notes string `json:"notes" binding:"required"`
	Model string `json:"model"`
}

// CardsResponse carries a repaired or generated batch. Warning is set
// when the model's card count did not match the request; the text is
// still the best-effort result.
type CardsResponse struct {
	Text    string     `json:"text"`
	Cards   []CardView `json:"cards"`
	Warning string     `json:"warning,omitempty"`
	Model   string     `json:"model"`
}

// RewriteRequest asks for a general rewrite, optionally steered by an
// instruction.
type RewriteRequest struct {
	Text        string `json:"text" binding:"required"`
	Instruction string `json:"instruction"`
	Model       string `json:"model"`
}

type RewriteResponse struct {
	Text    string `json:"text"`
	Warning string `json:"warning,omitempty"`
	Model   string `json:"model"`
}

// ExtractResponse carries text pulled from an uploaded PDF.
type ExtractResponse struct {
	Text     string `json:"text"`
	Pages    int    `json:"pages"`
	Filename string `json:"filename"`
}

type LoginRequest struct {
	Password string `json:"password" binding:"required"`
}

// LearnedEditRequest records one manual correction (before/after pair)
// for replay as a few-shot example.
type LearnedEditRequest struct {
	CardBefore string `json:"card_before" binding:"required"`
	CardAfter  string `json:"card_after" binding:"required"`
}

type LearnedEditView struct {
	ID         int64     `json:"id"`
	CardBefore string    `json:"card_before"`
	CardAfter  string    `json:"card_after"`
	CreatedAt  time.Time `json:"created_at"`
}

type StyleSeedRequest struct {
	Content string `json:"content"`
}

type StyleSeedResponse struct {
	Content string `json:"content"`
}
