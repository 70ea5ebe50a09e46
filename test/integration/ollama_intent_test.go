package integration

import (
	"context"
	"io"
	"log"
	"net/http"
	"testing"
	"time"

	"wevysya-assistant-be/pkg/assistant/action"
	"wevysya-assistant-be/pkg/assistant/intent"
	"wevysya-assistant-be/pkg/llm"
	"wevysya-assistant-be/pkg/llm/ollama"
)

const (
	ollamaBaseURL = "http://localhost:11434"
	ollamaModel   = "gemma:2b"
)

func requireOllama(t *testing.T) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, "GET", ollamaBaseURL, nil)
	if err != nil {
		t.Fatalf("Failed to create request: %v", err)
	}

	res, err := (&http.Client{Timeout: 5 * time.Second}).Do(req)
	if err != nil {
		t.Skipf("Ollama not running at %s: %v", ollamaBaseURL, err)
	}
	res.Body.Close()
}

// TestOllamaSimpleResponse verifies the provider round-trips a chat request.
func TestOllamaSimpleResponse(t *testing.T) {
	requireOllama(t)

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	provider := ollama.NewOllamaProvider(ollamaBaseURL, ollamaModel)
	response, err := provider.Chat(ctx, []llm.Message{
		{Role: "user", Content: "Hello! Say 'Ollama works!' in one sentence."},
	})
	if err != nil {
		t.Fatalf("Chat failed: %v", err)
	}

	t.Logf("Response: %s", response)
	if response == "" {
		t.Error("Response should not be empty")
	}
}

// TestOllamaIntentClassification runs the real classifier against a local
// model. Small models are noisy, so mismatches are logged rather than failed;
// what must always hold is that the result stays inside the closed vocabulary.
func TestOllamaIntentClassification(t *testing.T) {
	requireOllama(t)

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Second)
	defer cancel()

	registry := action.NewRegistry()
	provider := ollama.NewOllamaProvider(ollamaBaseURL, ollamaModel)
	classifier := intent.NewClassifier(provider, registry, 120*time.Second, log.New(io.Discard, "", 0))

	cases := []struct {
		query        string
		wantType     intent.Type
		wantCategory string
	}{
		{"find me a chartered accountant in Bangalore", intent.TypeAction, "search_member"},
		{"I want to post a new deal", intent.TypeAction, "post_deal"},
		{"what is this platform about?", intent.TypeKnowledge, "general"},
	}

	for _, tc := range cases {
		t.Run(tc.query, func(t *testing.T) {
			resolved := classifier.ClassifyIntent(ctx, tc.query, "")

			t.Logf("type=%s category=%s confidence=%.2f response=%q",
				resolved.Type, resolved.Category, resolved.Confidence, resolved.Response)

			if resolved.Type == intent.TypeAction {
				if _, ok := registry.Lookup(resolved.Category); !ok {
					t.Errorf("action category %q is outside the registry", resolved.Category)
				}
				if resolved.Action == nil {
					t.Errorf("executable action %q missing action payload", resolved.Category)
				}
			}

			if resolved.Type != tc.wantType || resolved.Category != tc.wantCategory {
				t.Logf("Decision mismatch: got %s/%s, expected %s/%s",
					resolved.Type, resolved.Category, tc.wantType, tc.wantCategory)
			}
		})
	}
}
