package unitofwork

import (
	"context"

	"wevysya-assistant-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	KnowledgeDocumentRepository() contract.KnowledgeDocumentRepository
	KnowledgeEmbeddingRepository() contract.KnowledgeEmbeddingRepository
	MemberRepository() contract.MemberRepository
}
