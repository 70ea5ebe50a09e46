package contract

import (
	"context"

	"wevysya-assistant-be/internal/entity"
	"wevysya-assistant-be/internal/repository/specification"

	"github.com/google/uuid"
)

// KnowledgeDocumentRepository stores immutable knowledge passages. There is
// no update path: documents are inserted once and only removed wholesale.
type KnowledgeDocumentRepository interface {
	Create(ctx context.Context, doc *entity.KnowledgeDocument) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.KnowledgeDocument, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.KnowledgeDocument, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// SearchKeyword matches query case-insensitively against content and title
	SearchKeyword(ctx context.Context, query string, limit int) ([]*entity.KnowledgeDocument, error)
	// DeleteAllUnscoped purges the whole store (administrative clear)
	DeleteAllUnscoped(ctx context.Context) error
}

// ScoredKnowledgeEmbedding wraps KnowledgeEmbedding with its similarity score
type ScoredKnowledgeEmbedding struct {
	Embedding  *entity.KnowledgeEmbedding
	Similarity float64 // 0.0 to 1.0 (1.0 = identical)
}

type KnowledgeEmbeddingRepository interface {
	Create(ctx context.Context, embedding *entity.KnowledgeEmbedding) error
	DeleteByDocumentId(ctx context.Context, documentId uuid.UUID) error
	DeleteAllUnscoped(ctx context.Context) error
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// SearchSimilarWithScore returns embeddings with similarity >= threshold
	SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, threshold float64) ([]*ScoredKnowledgeEmbedding, error)
}
