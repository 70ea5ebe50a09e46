package intent

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"wevysya-assistant-be/internal/constant"
	"wevysya-assistant-be/pkg/llm"
)

// Classifier turns (query, retrieved context) into an Intent. It is total:
// every failure of the remote call resolves through the local keyword
// fallback, so callers never see an error.
type Classifier struct {
	llmProvider llm.LLMProvider
	catalog     Catalog
	timeout     time.Duration
	logger      *log.Logger
}

// NewClassifier creates a classifier bound to an action catalog.
// timeout caps the remote call; a timeout resolves like any other failure.
func NewClassifier(llmProvider llm.LLMProvider, catalog Catalog, timeout time.Duration, logger *log.Logger) *Classifier {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Classifier{
		llmProvider: llmProvider,
		catalog:     catalog,
		timeout:     timeout,
		logger:      logger,
	}
}

// ClassifyIntent never returns nil and never returns an Intent with an
// empty Response.
func (c *Classifier) ClassifyIntent(ctx context.Context, query, contextText string) *Intent {
	query = clamp(query, constant.ClassifyMaxQueryChars)
	contextText = clamp(contextText, constant.ClassifyMaxContextChars)

	prompt := c.buildPrompt(query, contextText)

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	// Temperature 0 for deterministic routing
	response, err := c.llmProvider.Generate(callCtx, prompt, llm.WithTemperature(0.0))
	if err != nil {
		c.logger.Printf("[ERROR] Intent classification failed: %v", err)
		return FallbackIntent(query, c.catalog)
	}

	resolved, err := c.parseIntent(response)
	if err != nil {
		c.logger.Printf("[WARN] Intent parsing failed, using fallback: %v", err)
		return FallbackIntent(query, c.catalog)
	}

	c.logger.Printf("[INTENT] Resolved: type=%s category=%s executable=%v confidence=%.2f",
		resolved.Type, resolved.Category, resolved.Executable(), resolved.Confidence)

	return resolved
}

func (c *Classifier) buildPrompt(query, contextText string) string {
	var vocab strings.Builder
	for _, entry := range c.catalog.Entries() {
		vocab.WriteString(fmt.Sprintf("- %s: %s\n", entry.Category, entry.Description))
	}
	if contextText == "" {
		contextText = constant.PlatformDescription
	}
	return fmt.Sprintf(constant.IntentClassificationPrompt, vocab.String(), contextText, query)
}

// wireIntent is the shape expected on the wire; every field is optional
type wireIntent struct {
	Type       string         `json:"type"`
	Category   string         `json:"category"`
	Parameters map[string]any `json:"parameters"`
	Response   string         `json:"response"`
	Confidence *float64       `json:"confidence"`
}

func (c *Classifier) parseIntent(response string) (*Intent, error) {
	jsonContent := extractJSON(response)
	if jsonContent == "" {
		return nil, fmt.Errorf("no JSON found in response")
	}

	var wire wireIntent
	if err := json.Unmarshal([]byte(jsonContent), &wire); err != nil {
		return nil, fmt.Errorf("JSON unmarshal failed: %w", err)
	}

	resolved := &Intent{
		Type:       TypeKnowledge,
		Category:   strings.TrimSpace(wire.Category),
		Response:   strings.TrimSpace(wire.Response),
		Confidence: 0.5,
	}

	if strings.EqualFold(wire.Type, string(TypeAction)) {
		resolved.Type = TypeAction
	}
	if resolved.Response == "" {
		resolved.Response = constant.GenericHelpfulResponse
	}
	if wire.Confidence != nil {
		resolved.Confidence = clampConfidence(*wire.Confidence)
	}

	switch resolved.Type {
	case TypeAction:
		// Action is populated iff the category resolves in the registry.
		// Unknown categories stay non-executable, the caller shows Response.
		if entry, ok := c.catalog.Lookup(resolved.Category); ok {
			resolved.Action = &Action{
				Name:       resolved.Category,
				Parameters: DecodeParams(resolved.Category, wire.Parameters),
				Screen:     entry.Screen,
			}
		} else {
			c.logger.Printf("[WARN] Classifier named unknown action category %q", resolved.Category)
		}
	default:
		if resolved.Category == "" {
			resolved.Category = constant.KnowledgeCategoryGeneral
		}
	}

	return resolved, nil
}

func clamp(s string, max int) string {
	if len(s) <= max {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

func clampConfidence(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func extractJSON(response string) string {
	startIdx := strings.Index(response, "{")
	endIdx := strings.LastIndex(response, "}")

	if startIdx == -1 || endIdx == -1 || endIdx <= startIdx {
		return ""
	}

	return response[startIdx : endIdx+1]
}
