package retrieval

import (
	"context"
	"fmt"
	"log"
	"strings"

	"wevysya-assistant-be/internal/constant"
	"wevysya-assistant-be/pkg/embedding"
	"wevysya-assistant-be/pkg/store"
)

// DefaultLimit is used when callers pass limit <= 0
const DefaultLimit = 5

// KnowledgeSource is the read surface of the knowledge store
type KnowledgeSource interface {
	// SearchKeyword matches query case-insensitively against content and title
	SearchKeyword(ctx context.Context, query string, limit int) ([]store.Document, error)
	// FindAny returns up to limit arbitrary documents
	FindAny(ctx context.Context, limit int) ([]store.Document, error)
	// SearchSimilar ranks documents by vector similarity
	SearchSimilar(ctx context.Context, vector []float32, limit int) ([]store.Document, error)
}

// Retriever supplies grounding context for the classifier. SearchKnowledge
// never fails and never returns an empty string: each strategy in the ladder
// is attempted in order and the platform description is the final rung.
type Retriever struct {
	source   KnowledgeSource
	embedder embedding.EmbeddingProvider // optional, may be nil
	logger   *log.Logger
}

func NewRetriever(source KnowledgeSource, embedder embedding.EmbeddingProvider, logger *log.Logger) *Retriever {
	return &Retriever{
		source:   source,
		embedder: embedder,
		logger:   logger,
	}
}

// SearchKnowledge walks the degradation ladder:
// keyword match -> all documents -> embedding search (only after a keyword
// error) -> static platform description.
func (r *Retriever) SearchKnowledge(ctx context.Context, query string, limit int) string {
	if limit <= 0 {
		limit = DefaultLimit
	}

	docs, err := r.source.SearchKeyword(ctx, query, limit)
	if err != nil {
		r.logger.Printf("[WARN] Keyword search failed: %v", err)
		// Keyword path is broken, try the semantic rung before degrading
		if rendered, ok := r.searchByEmbedding(ctx, query, limit); ok {
			return rendered
		}
		if rendered, ok := r.anyDocuments(ctx, limit); ok {
			return rendered
		}
		return constant.PlatformDescription
	}

	if len(docs) == 0 {
		// Small stores rarely overlap on keywords; grounding in arbitrary
		// documents beats grounding in nothing.
		if rendered, ok := r.anyDocuments(ctx, limit); ok {
			return rendered
		}
		return constant.PlatformDescription
	}

	return Render(docs)
}

func (r *Retriever) searchByEmbedding(ctx context.Context, query string, limit int) (string, bool) {
	if r.embedder == nil {
		return "", false
	}

	res, err := r.embedder.Generate(embedding.Truncate(query), "RETRIEVAL_QUERY")
	if err != nil {
		r.logger.Printf("[WARN] Query embedding failed: %v", err)
		return "", false
	}

	docs, err := r.source.SearchSimilar(ctx, res.Embedding.Values, limit)
	if err != nil {
		r.logger.Printf("[WARN] Vector search failed: %v", err)
		return "", false
	}
	if len(docs) == 0 {
		return "", false
	}

	return Render(docs), true
}

func (r *Retriever) anyDocuments(ctx context.Context, limit int) (string, bool) {
	docs, err := r.source.FindAny(ctx, limit)
	if err != nil {
		r.logger.Printf("[WARN] Fallback-to-all failed: %v", err)
		return "", false
	}
	if len(docs) == 0 {
		return "", false
	}
	return Render(docs), true
}

// Render formats documents for LLM consumption
func Render(docs []store.Document) string {
	parts := make([]string, 0, len(docs))
	for _, d := range docs {
		parts = append(parts, fmt.Sprintf("%s:\n%s", d.Title, d.Content))
	}
	return strings.Join(parts, constant.KnowledgeDocSeparator)
}
