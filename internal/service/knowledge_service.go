package service

import (
	"context"
	"encoding/json"
	"time"

	"wevysya-assistant-be/internal/dto"
	"wevysya-assistant-be/internal/entity"
	"wevysya-assistant-be/internal/repository/specification"
	"wevysya-assistant-be/internal/repository/unitofwork"
	"wevysya-assistant-be/pkg/assistant/retrieval"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type IKnowledgeService interface {
	Upsert(ctx context.Context, req *dto.UpsertKnowledgeRequest) (*dto.UpsertKnowledgeResponse, error)
	List(ctx context.Context, category string) (*dto.ListKnowledgeResponse, error)
	Search(ctx context.Context, req *dto.SearchKnowledgeRequest) (*dto.SearchKnowledgeResponse, error)
	Clear(ctx context.Context) (*dto.ClearKnowledgeResponse, error)
}

type knowledgeService struct {
	uowFactory       unitofwork.RepositoryFactory
	publisherService IPublisherService
	gateway          *KnowledgeGateway
	logger           *zap.Logger
}

func NewKnowledgeService(
	uowFactory unitofwork.RepositoryFactory,
	publisherService IPublisherService,
	gateway *KnowledgeGateway,
	logger *zap.Logger,
) IKnowledgeService {
	return &knowledgeService{
		uowFactory:       uowFactory,
		publisherService: publisherService,
		gateway:          gateway,
		logger:           logger,
	}
}

// Upsert treats (title, category) as the document identity. A duplicate is
// a no-op: the existing document keeps its content and no embed message is
// published. Documents are never mutated after insert; Clear is the only
// way to reload content.
func (s *knowledgeService) Upsert(ctx context.Context, req *dto.UpsertKnowledgeRequest) (*dto.UpsertKnowledgeResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	repo := uow.KnowledgeDocumentRepository()

	existing, err := repo.FindOne(ctx, specification.ByTitleAndCategory{
		Title:    req.Title,
		Category: req.Category,
	})
	if err != nil {
		return nil, err
	}

	if existing != nil {
		s.logger.Info("knowledge document already present, insert skipped",
			zap.String("document_id", existing.Id.String()),
			zap.String("title", existing.Title),
			zap.String("category", existing.Category),
		)
		return &dto.UpsertKnowledgeResponse{
			Id:      existing.Id,
			Created: false,
		}, nil
	}

	doc := &entity.KnowledgeDocument{
		Id:        uuid.New(),
		Title:     req.Title,
		Category:  req.Category,
		Source:    req.Source,
		Content:   req.Content,
		CreatedAt: time.Now(),
	}
	if err := repo.Create(ctx, doc); err != nil {
		return nil, err
	}

	msgPayload := dto.PublishEmbedKnowledgeMessage{
		DocumentId: doc.Id,
	}
	msgJson, err := json.Marshal(msgPayload)
	if err != nil {
		return nil, err
	}
	if err := s.publisherService.Publish(ctx, msgJson); err != nil {
		return nil, err
	}

	s.logger.Info("knowledge document created",
		zap.String("document_id", doc.Id.String()),
		zap.String("title", doc.Title),
		zap.String("category", doc.Category),
	)

	return &dto.UpsertKnowledgeResponse{
		Id:      doc.Id,
		Created: true,
	}, nil
}

func (s *knowledgeService) List(ctx context.Context, category string) (*dto.ListKnowledgeResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	repo := uow.KnowledgeDocumentRepository()

	specs := []specification.Specification{
		specification.OrderBy{Field: "created_at", Desc: true},
	}
	if category != "" {
		specs = append(specs, specification.ByCategory{Category: category})
	}

	docs, err := repo.FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}

	countSpecs := specs[1:]
	total, err := repo.Count(ctx, countSpecs...)
	if err != nil {
		return nil, err
	}

	res := &dto.ListKnowledgeResponse{
		Documents: make([]dto.KnowledgeDocumentResponse, len(docs)),
		Total:     total,
	}
	for i, d := range docs {
		res.Documents[i] = dto.KnowledgeDocumentResponse{
			Id:        d.Id,
			Title:     d.Title,
			Category:  d.Category,
			Source:    d.Source,
			Content:   d.Content,
			CreatedAt: d.CreatedAt,
			UpdatedAt: d.UpdatedAt,
		}
	}
	return res, nil
}

// Search is a direct keyword lookup over the store. The assistant's own
// retrieval runs through the degradation ladder instead; this endpoint
// exists for inspection and admin tooling.
func (s *knowledgeService) Search(ctx context.Context, req *dto.SearchKnowledgeRequest) (*dto.SearchKnowledgeResponse, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = retrieval.DefaultLimit
	}

	docs, err := s.gateway.SearchKeyword(ctx, req.Query, limit)
	if err != nil {
		return nil, err
	}

	res := &dto.SearchKnowledgeResponse{
		Documents: make([]dto.ScoredDocumentDTO, len(docs)),
		Context:   retrieval.Render(docs),
	}
	for i, d := range docs {
		id, _ := uuid.Parse(d.ID)
		res.Documents[i] = dto.ScoredDocumentDTO{
			Id:       id,
			Title:    d.Title,
			Category: d.Category,
			Content:  d.Content,
			Score:    float64(d.Score),
		}
	}
	return res, nil
}

func (s *knowledgeService) Clear(ctx context.Context) (*dto.ClearKnowledgeResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	docCount, err := uow.KnowledgeDocumentRepository().Count(ctx)
	if err != nil {
		return nil, err
	}
	embCount, err := uow.KnowledgeEmbeddingRepository().Count(ctx)
	if err != nil {
		return nil, err
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	if err := uow.KnowledgeEmbeddingRepository().DeleteAllUnscoped(ctx); err != nil {
		_ = uow.Rollback()
		return nil, err
	}
	if err := uow.KnowledgeDocumentRepository().DeleteAllUnscoped(ctx); err != nil {
		_ = uow.Rollback()
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.logger.Warn("knowledge store cleared",
		zap.Int64("documents_removed", docCount),
		zap.Int64("embeddings_removed", embCount),
	)

	return &dto.ClearKnowledgeResponse{
		DocumentsRemoved:  docCount,
		EmbeddingsRemoved: embCount,
	}, nil
}

var _ retrieval.KnowledgeSource = (*KnowledgeGateway)(nil)
