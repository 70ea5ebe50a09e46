package service

import (
	"context"

	"wevysya-assistant-be/internal/entity"
	"wevysya-assistant-be/internal/repository/specification"
	"wevysya-assistant-be/internal/repository/unitofwork"
	"wevysya-assistant-be/pkg/store"
)

// SimilarityThreshold filters out weakly related documents from vector search
const SimilarityThreshold = 0.3

// KnowledgeGateway exposes the knowledge store to the retrieval layer as
// plain documents, hiding the entity/model split behind it.
type KnowledgeGateway struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewKnowledgeGateway(uowFactory unitofwork.RepositoryFactory) *KnowledgeGateway {
	return &KnowledgeGateway{
		uowFactory: uowFactory,
	}
}

func (g *KnowledgeGateway) SearchKeyword(ctx context.Context, query string, limit int) ([]store.Document, error) {
	uow := g.uowFactory.NewUnitOfWork(ctx)
	docs, err := uow.KnowledgeDocumentRepository().SearchKeyword(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	return toStoreDocuments(docs), nil
}

func (g *KnowledgeGateway) FindAny(ctx context.Context, limit int) ([]store.Document, error) {
	uow := g.uowFactory.NewUnitOfWork(ctx)
	docs, err := uow.KnowledgeDocumentRepository().FindAll(ctx, specification.Pagination{Limit: limit})
	if err != nil {
		return nil, err
	}
	return toStoreDocuments(docs), nil
}

func (g *KnowledgeGateway) SearchSimilar(ctx context.Context, vector []float32, limit int) ([]store.Document, error) {
	uow := g.uowFactory.NewUnitOfWork(ctx)
	scored, err := uow.KnowledgeEmbeddingRepository().SearchSimilarWithScore(ctx, vector, limit, SimilarityThreshold)
	if err != nil {
		return nil, err
	}

	docs := make([]store.Document, 0, len(scored))
	docRepo := uow.KnowledgeDocumentRepository()
	for _, s := range scored {
		doc, err := docRepo.FindOne(ctx, specification.ByID{ID: s.Embedding.DocumentId})
		if err != nil {
			return nil, err
		}
		if doc == nil {
			continue
		}
		d := toStoreDocument(doc)
		d.Score = float32(s.Similarity)
		docs = append(docs, d)
	}
	return docs, nil
}

func toStoreDocument(doc *entity.KnowledgeDocument) store.Document {
	return store.Document{
		ID:       doc.Id.String(),
		Title:    doc.Title,
		Category: doc.Category,
		Source:   doc.Source,
		Content:  doc.Content,
	}
}

func toStoreDocuments(docs []*entity.KnowledgeDocument) []store.Document {
	out := make([]store.Document, len(docs))
	for i, d := range docs {
		out[i] = toStoreDocument(d)
	}
	return out
}

// MemberGateway adapts the member repository to the action engine's
// directory interface.
type MemberGateway struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewMemberGateway(uowFactory unitofwork.RepositoryFactory) *MemberGateway {
	return &MemberGateway{
		uowFactory: uowFactory,
	}
}

func (g *MemberGateway) Search(ctx context.Context, profession, location string, limit int) ([]store.Member, error) {
	uow := g.uowFactory.NewUnitOfWork(ctx)
	members, err := uow.MemberRepository().Search(ctx, profession, location, limit)
	if err != nil {
		return nil, err
	}

	out := make([]store.Member, len(members))
	for i, m := range members {
		out[i] = store.Member{
			ID:         m.Id.String(),
			FullName:   m.FullName,
			Profession: m.Profession,
			Location:   m.Location,
			Firm:       m.Firm,
		}
	}
	return out, nil
}
