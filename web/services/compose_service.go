package services

import (
	"context"
	"strings"

	"clozesmith/cloze"
	"clozesmith/config"
	apperrors "clozesmith/errors"
	"clozesmith/llmclient"
	"clozesmith/prompts"
	"clozesmith/store"
	"clozesmith/web/format"
	"clozesmith/web/types"

	"github.com/jdkato/prose/v2"
	"go.uber.org/zap"
)

// charsPerToken is the rough estimate used to budget note chunks against
// the model's context window without a tokenizer endpoint.
const charsPerToken = 4

// contextShare is the fraction of the context window granted to the
// notes themselves, leaving room for the prompt and the response.
const contextShare = 0.5

// ComposeService turns raw study notes into new cloze cards. Long notes
// are chunked at sentence boundaries and each chunk gets its own model
// call; every chunk's output runs through the same repair pipeline (with
// unclozed notes as input, capping passes everything through).
type ComposeService struct {
	cfg      *config.Config
	client   *llmclient.Client
	library  *store.Library
	pipeline *cloze.Pipeline
	logger   *zap.Logger
}

func NewComposeService(cfg *config.Config, client *llmclient.Client, library *store.Library, logger *zap.Logger) *ComposeService {
	return &ComposeService{
		cfg:      cfg,
		client:   client,
		library:  library,
		pipeline: cloze.NewPipeline(cfg.CardDelimiter, cfg.MaxClozeWords, cloze.DefaultAnchorRules()),
		logger:   logger,
	}
}

func (cs *ComposeService) Compose(ctx context.Context, notes, model string) (*types.CardsResponse, error) {
	system := prompts.ComposeSystem()
	if cs.library != nil {
		if seed, err := cs.library.StyleSeed(ctx, DefaultStyleSeedName); err != nil {
			cs.logger.Warn("Could not load style seed", zap.Error(err))
		} else if seed != "" {
			system += "\n\nHouse style for these cards:\n" + seed
		}
	}

	chunks := cs.chunkNotes(notes)
	cs.logger.Debug("Composing cards from notes",
		zap.Int("chunks", len(chunks)),
		zap.Int("characters", len(notes)))

	temp := cs.cfg.ComposeTemperature
	var cards []string
	for _, chunk := range chunks {
		messages := []types.ChatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: chunk},
		}
		raw, err := cs.client.Chat(ctx, model, messages, &temp)
		if err != nil {
			return nil, apperrors.WrapError(err, "compose model call")
		}
		repaired := cs.pipeline.Refine(raw, chunk)
		cards = append(cards, cloze.Split(repaired, cs.cfg.CardDelimiter)...)
	}

	text := cloze.Join(cards, cs.cfg.CardDelimiter)
	return &types.CardsResponse{
		Text:  text,
		Cards: format.CardViews(text, cs.cfg.CardDelimiter),
		Model: model,
	}, nil
}

// chunkNotes splits the notes into pieces that fit the character budget,
// breaking at sentence boundaries. If sentence segmentation fails the
// notes go out as a single chunk and the model's own truncation applies.
func (cs *ComposeService) chunkNotes(notes string) []string {
	notes = strings.TrimSpace(notes)
	budget := int(float64(cs.cfg.ContextLength)*contextShare) * charsPerToken
	if budget < 1 || len(notes) <= budget {
		return []string{notes}
	}

	doc, err := prose.NewDocument(notes, prose.WithTagging(false), prose.WithExtraction(false))
	if err != nil {
		cs.logger.Warn("Sentence segmentation failed, sending notes unchunked", zap.Error(err))
		return []string{notes}
	}

	var chunks []string
	var current strings.Builder
	for _, sentence := range doc.Sentences() {
		if current.Len() > 0 && current.Len()+len(sentence.Text)+1 > budget {
			chunks = append(chunks, strings.TrimSpace(current.String()))
			current.Reset()
		}
		current.WriteString(sentence.Text)
		current.WriteString(" ")
	}
	if strings.TrimSpace(current.String()) != "" {
		chunks = append(chunks, strings.TrimSpace(current.String()))
	}
	if len(chunks) == 0 {
		return []string{notes}
	}
	return chunks
}
