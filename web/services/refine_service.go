package services

import (
	"context"
	"fmt"
	"strings"

	"clozesmith/cloze"
	"clozesmith/config"
	apperrors "clozesmith/errors"
	"clozesmith/llmclient"
	"clozesmith/prompts"
	"clozesmith/store"
	"clozesmith/web/format"
	"clozesmith/web/types"

	"go.uber.org/zap"
)

// DefaultStyleSeedName is the seed injected into refine and compose
// prompts. The store supports named seeds; the UI currently edits one.
const DefaultStyleSeedName = "default"

// RefineService runs the core feature: prompt the model to clean up the
// user's cloze cards, then deterministically repair the response against
// the original input.
type RefineService struct {
	cfg      *config.Config
	client   *llmclient.Client
	library  *store.Library
	pipeline *cloze.Pipeline
	logger   *zap.Logger
}

func NewRefineService(cfg *config.Config, client *llmclient.Client, library *store.Library, logger *zap.Logger) *RefineService {
	return &RefineService{
		cfg:      cfg,
		client:   client,
		library:  library,
		pipeline: cloze.NewPipeline(cfg.CardDelimiter, cfg.MaxClozeWords, cloze.DefaultAnchorRules()),
		logger:   logger,
	}
}

// Refine sends the batch to the model and repairs the output. On a card
// count mismatch it re-asks the model once; if the retry still
// mismatches, the first best-effort result is returned with a warning.
func (rs *RefineService) Refine(ctx context.Context, text, model string) (*types.CardsResponse, error) {
	messages := rs.buildMessages(ctx, text)
	temp := rs.cfg.RefineTemperature

	raw, err := rs.client.Chat(ctx, model, messages, &temp)
	if err != nil {
		return nil, apperrors.WrapError(err, "refine model call")
	}
	repaired := rs.pipeline.Refine(raw, text)
	got, want, ok := rs.pipeline.CheckCardCount(repaired, text)

	if !ok {
		rs.logger.Warn("Card count mismatch, retrying once",
			zap.Int("got", got),
			zap.Int("want", want))
		if retry, retryErr := rs.client.Chat(ctx, model, messages, &temp); retryErr == nil {
			retried := rs.pipeline.Refine(retry, text)
			if _, _, retryOK := rs.pipeline.CheckCardCount(retried, text); retryOK {
				repaired = retried
				ok = true
			}
		} else {
			rs.logger.Warn("Retry model call failed", zap.Error(retryErr))
		}
	}

	resp := &types.CardsResponse{
		Text:  repaired,
		Cards: format.CardViews(repaired, rs.cfg.CardDelimiter),
		Model: model,
	}
	if !ok {
		resp.Warning = fmt.Sprintf("model returned %d cards, expected %d; result kept as-is", got, want)
	}
	return resp, nil
}

// buildMessages assembles system prompt, style seed, learned-edit
// few-shot pairs and the user's batch. Library failures degrade to a
// plain prompt; refinement must not depend on the store being healthy.
func (rs *RefineService) buildMessages(ctx context.Context, text string) []types.ChatMessage {
	system := prompts.RefineSystem()
	if rs.library != nil {
		if seed, err := rs.library.StyleSeed(ctx, DefaultStyleSeedName); err != nil {
			rs.logger.Warn("Could not load style seed", zap.Error(err))
		} else if seed != "" {
			system += "\n\nHouse style for these cards:\n" + seed
		}
	}

	messages := []types.ChatMessage{{Role: "system", Content: system}}

	if rs.library != nil && rs.cfg.MaxLearnedExamples > 0 {
		edits, err := rs.library.RecentLearnedEdits(ctx, rs.cfg.MaxLearnedExamples)
		if err != nil {
			rs.logger.Warn("Could not load learned edits", zap.Error(err))
		} else {
			// Oldest first so the freshest correction lands nearest the
			// user's actual request.
			for i := len(edits) - 1; i >= 0; i-- {
				messages = append(messages,
					types.ChatMessage{Role: "user", Content: edits[i].CardBefore},
					types.ChatMessage{Role: "assistant", Content: edits[i].CardAfter},
				)
			}
		}
	}

	return append(messages, types.ChatMessage{Role: "user", Content: strings.TrimSpace(text)})
}
