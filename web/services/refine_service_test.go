package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"clozesmith/config"
	"clozesmith/llmclient"
	"clozesmith/store"

	"go.uber.org/zap"
)

func testServiceConfig(host string) *config.Config {
	return &config.Config{
		LLMHost:               host,
		LLMRequestTimeout:     5 * time.Second,
		MaxRetries:            2,
		RetryDelaySeconds:     time.Millisecond,
		LLMBackoffMaxSeconds:  5 * time.Millisecond,
		LLMBackoffJitterRatio: 0.1,
		ContextLength:         8192,
		CardDelimiter:         "===CARD===",
		MaxClozeWords:         3,
		MaxLearnedExamples:    4,
		RefineTemperature:     0.3,
	}
}

// modelStub serves canned completions in order, repeating the last one.
func modelStub(t *testing.T, completions ...string) (*httptest.Server, *int) {
	t.Helper()
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		content := completions[len(completions)-1]
		if calls < len(completions) {
			content = completions[calls]
		}
		calls++
		body, _ := json.Marshal(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"role": "assistant", "content": content}},
			},
		})
		w.Write(body)
	}))
	t.Cleanup(server.Close)
	return server, &calls
}

func newTestLibrary(t *testing.T) *store.Library {
	t.Helper()
	lib, err := store.Open(filepath.Join(t.TempDir(), "library.db"))
	if err != nil {
		t.Fatalf("store.Open() error = %v", err)
	}
	t.Cleanup(func() { lib.Close() })
	return lib
}

func TestRefineRepairsModelOutput(t *testing.T) {
	// The model invents c9, over-fills a span and uses sparse indices;
	// the pipeline must cap, shorten and renumber.
	server, calls := modelStub(t,
		"{{c5::malaria}} causes {{c9::invented}} and {{c8::a very long phrase with six words}}")
	cfg := testServiceConfig(server.URL)
	svc := NewRefineService(cfg, llmclient.New(cfg, zap.NewNop()), nil, zap.NewNop())

	input := "{{c5::malaria}} causes fever and {{c8::jaundice}}"
	resp, err := svc.Refine(context.Background(), input, "test-model")
	if err != nil {
		t.Fatalf("Refine() error = %v", err)
	}

	want := "{{c1::malaria}} causes invented and {{c2::a very long}}"
	if resp.Text != want {
		t.Errorf("Refine() text = %q, want %q", resp.Text, want)
	}
	if resp.Warning != "" {
		t.Errorf("Refine() warning = %q, want none", resp.Warning)
	}
	if len(resp.Cards) != 1 {
		t.Errorf("Refine() returned %d card views, want 1", len(resp.Cards))
	}
	if *calls != 1 {
		t.Errorf("model called %d times, want 1", *calls)
	}
}

func TestRefineRetriesOnCardCountMismatch(t *testing.T) {
	// First completion collapses the two cards into one; the retry
	// returns the right shape and should win.
	server, calls := modelStub(t,
		"merged into a single card",
		"{{c1::first}}\n===CARD===\n{{c1::second}}")
	cfg := testServiceConfig(server.URL)
	svc := NewRefineService(cfg, llmclient.New(cfg, zap.NewNop()), nil, zap.NewNop())

	input := "{{c1::first}}\n===CARD===\n{{c1::second}}"
	resp, err := svc.Refine(context.Background(), input, "test-model")
	if err != nil {
		t.Fatalf("Refine() error = %v", err)
	}
	if resp.Warning != "" {
		t.Errorf("Refine() warning = %q, want none after successful retry", resp.Warning)
	}
	if len(resp.Cards) != 2 {
		t.Errorf("Refine() returned %d card views, want 2", len(resp.Cards))
	}
	if *calls != 2 {
		t.Errorf("model called %d times, want 2", *calls)
	}
}

func TestRefineWarnsWhenRetryStillMismatches(t *testing.T) {
	server, calls := modelStub(t, "still just one card")
	cfg := testServiceConfig(server.URL)
	svc := NewRefineService(cfg, llmclient.New(cfg, zap.NewNop()), nil, zap.NewNop())

	input := "first\n===CARD===\nsecond"
	resp, err := svc.Refine(context.Background(), input, "test-model")
	if err != nil {
		t.Fatalf("Refine() error = %v", err)
	}
	if resp.Warning == "" {
		t.Errorf("Refine() warning empty, want card count mismatch warning")
	}
	if resp.Text != "still just one card" {
		t.Errorf("Refine() text = %q, want best-effort model output", resp.Text)
	}
	if *calls != 2 {
		t.Errorf("model called %d times, want 2 (one retry)", *calls)
	}
}

func TestRefinePromptCarriesSeedAndEdits(t *testing.T) {
	var messages []map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Messages []map[string]string `json:"messages"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		messages = req.Messages
		body, _ := json.Marshal(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"role": "assistant", "content": "{{c1::x}}"}},
			},
		})
		w.Write(body)
	}))
	defer server.Close()

	cfg := testServiceConfig(server.URL)
	lib := newTestLibrary(t)
	ctx := context.Background()
	if err := lib.SetStyleSeed(ctx, DefaultStyleSeedName, "terse wording"); err != nil {
		t.Fatalf("SetStyleSeed() error = %v", err)
	}
	if _, err := lib.AddLearnedEdit(ctx, "{{c1::bad card}}", "{{c1::good card}}"); err != nil {
		t.Fatalf("AddLearnedEdit() error = %v", err)
	}

	svc := NewRefineService(cfg, llmclient.New(cfg, zap.NewNop()), lib, zap.NewNop())
	if _, err := svc.Refine(ctx, "{{c1::input card}}", "test-model"); err != nil {
		t.Fatalf("Refine() error = %v", err)
	}

	// system + few-shot pair + user
	if len(messages) != 4 {
		t.Fatalf("prompt carried %d messages, want 4", len(messages))
	}
	if messages[0]["role"] != "system" || !strings.Contains(messages[0]["content"], "terse wording") {
		t.Errorf("system message missing style seed: %q", messages[0]["content"])
	}
	if messages[1]["content"] != "{{c1::bad card}}" || messages[2]["content"] != "{{c1::good card}}" {
		t.Errorf("few-shot pair wrong: %q -> %q", messages[1]["content"], messages[2]["content"])
	}
	if messages[3]["content"] != "{{c1::input card}}" {
		t.Errorf("final user message = %q", messages[3]["content"])
	}
}
