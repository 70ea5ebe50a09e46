package dto

import (
	"time"

	"github.com/google/uuid"
)

type UpsertKnowledgeRequest struct {
	Title    string `json:"title" validate:"required"`
	Category string `json:"category" validate:"required"`
	Source   string `json:"source"`
	Content  string `json:"content" validate:"required"`
}

type UpsertKnowledgeResponse struct {
	Id      uuid.UUID `json:"id"`
	Created bool      `json:"created"`
}

type KnowledgeDocumentResponse struct {
	Id        uuid.UUID  `json:"id"`
	Title     string     `json:"title"`
	Category  string     `json:"category"`
	Source    string     `json:"source,omitempty"`
	Content   string     `json:"content"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}

type ListKnowledgeResponse struct {
	Documents []KnowledgeDocumentResponse `json:"documents"`
	Total     int64                       `json:"total"`
}

type ClearKnowledgeResponse struct {
	DocumentsRemoved  int64 `json:"documents_removed"`
	EmbeddingsRemoved int64 `json:"embeddings_removed"`
}

// PublishEmbedKnowledgeMessage is the async embed-backfill payload
type PublishEmbedKnowledgeMessage struct {
	DocumentId uuid.UUID `json:"document_id"`
}

type SearchKnowledgeRequest struct {
	Query string `json:"query" validate:"required"`
	Limit int    `json:"limit,omitempty" validate:"omitempty,min=1,max=50"`
}

type ScoredDocumentDTO struct {
	Id       uuid.UUID `json:"id"`
	Title    string    `json:"title"`
	Category string    `json:"category"`
	Content  string    `json:"content"`
	Score    float64   `json:"score,omitempty"`
}

type SearchKnowledgeResponse struct {
	Documents []ScoredDocumentDTO `json:"documents"`
	Context   string              `json:"context"`
}
