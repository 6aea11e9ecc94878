package services

import (
	"context"
	"strings"
	"testing"

	"clozesmith/llmclient"

	"go.uber.org/zap"
)

func TestChunkNotesShortNotesSingleChunk(t *testing.T) {
	cfg := testServiceConfig("http://unused")
	svc := NewComposeService(cfg, nil, nil, zap.NewNop())

	notes := "Plasmodium vivax relapses come from hypnozoites."
	chunks := svc.chunkNotes(notes)
	if len(chunks) != 1 || chunks[0] != notes {
		t.Errorf("chunkNotes() = %#v, want the notes as one chunk", chunks)
	}
}

func TestChunkNotesSplitsAtSentenceBoundaries(t *testing.T) {
	cfg := testServiceConfig("http://unused")
	// Budget of contextShare*ContextLength*4 chars; shrink the context so
	// a few sentences overflow it.
	cfg.ContextLength = 50 // budget = 100 chars

	svc := NewComposeService(cfg, nil, nil, zap.NewNop())

	sentence := "Malaria fever spikes happen every 48 hours in vivax infection."
	notes := strings.TrimSpace(strings.Repeat(sentence+" ", 6))
	chunks := svc.chunkNotes(notes)

	if len(chunks) < 2 {
		t.Fatalf("chunkNotes() produced %d chunks, want several", len(chunks))
	}
	for i, chunk := range chunks {
		if !strings.HasSuffix(strings.TrimSpace(chunk), ".") {
			t.Errorf("chunk %d does not end at a sentence boundary: %q", i, chunk)
		}
	}
	// No text may be lost.
	joined := strings.Join(chunks, " ")
	if strings.Count(joined, "48 hours") != 6 {
		t.Errorf("chunks lost sentences: %q", joined)
	}
}

func TestComposeRunsPipelinePerChunk(t *testing.T) {
	// Model returns two cards, one with an over-long span; compose must
	// shorten and renumber it.
	server, _ := modelStub(t,
		"{{c3::Plasmodium vivax}} relapses\n===CARD===\n{{c2::fever spikes every other day here}} pattern")
	cfg := testServiceConfig(server.URL)
	svc := NewComposeService(cfg, llmclient.New(cfg, zap.NewNop()), nil, zap.NewNop())

	resp, err := svc.Compose(context.Background(), "short notes about malaria", "test-model")
	if err != nil {
		t.Fatalf("Compose() error = %v", err)
	}
	want := "{{c1::Plasmodium vivax}} relapses\n===CARD===\n{{c1::fever spikes every}} pattern"
	if resp.Text != want {
		t.Errorf("Compose() text = %q, want %q", resp.Text, want)
	}
	if len(resp.Cards) != 2 {
		t.Errorf("Compose() returned %d card views, want 2", len(resp.Cards))
	}
}
