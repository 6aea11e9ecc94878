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
	"clozesmith/web/types"

	"go.uber.org/zap"
)

// RewriteService handles general text rewriting. No cloze passes are
// applied; the only postcondition is a soft chunk-count check when the
// request itself was delimiter-joined.
type RewriteService struct {
	cfg    *config.Config
	client *llmclient.Client
	logger *zap.Logger
}

func NewRewriteService(cfg *config.Config, client *llmclient.Client, logger *zap.Logger) *RewriteService {
	return &RewriteService{cfg: cfg, client: client, logger: logger}
}

func (ws *RewriteService) Rewrite(ctx context.Context, text, instruction, model string) (*types.RewriteResponse, error) {
	user := strings.TrimSpace(text)
	if instruction = strings.TrimSpace(instruction); instruction != "" {
		user = "Instruction: " + instruction + "\n\n" + user
	}
	messages := []types.ChatMessage{
		{Role: "system", Content: prompts.RewriteSystem()},
		{Role: "user", Content: user},
	}

	out, err := ws.client.Chat(ctx, model, messages, nil)
	if err != nil {
		return nil, apperrors.WrapError(err, "rewrite model call")
	}

	resp := &types.RewriteResponse{Text: out, Model: model}
	// Only delimiter-joined requests carry a chunk-count expectation.
	if strings.Contains(text, ws.cfg.CardDelimiter) {
		want := len(cloze.Split(text, ws.cfg.CardDelimiter))
		got := len(cloze.Split(out, ws.cfg.CardDelimiter))
		if got != want {
			ws.logger.Warn("Rewrite chunk count mismatch",
				zap.Int("got", got),
				zap.Int("want", want))
			resp.Warning = fmt.Sprintf("model returned %d chunks, expected %d", got, want)
		}
	}
	return resp, nil
}
