package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"wevysya-assistant-be/internal/dto"
	"wevysya-assistant-be/internal/entity"
	"wevysya-assistant-be/internal/repository/specification"
	"wevysya-assistant-be/internal/repository/unitofwork"
	"wevysya-assistant-be/pkg/embedding"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService backfills embeddings for upserted knowledge documents.
// Embedding happens off the request path so a slow or unavailable embedding
// endpoint never blocks a write.
type consumerService struct {
	pubSub            *gochannel.GoChannel
	topicName         string
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.EmbeddingProvider
	logger            *zap.Logger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.EmbeddingProvider,
	logger *zap.Logger,
) IConsumerService {
	return &consumerService{
		pubSub:            pubSub,
		topicName:         topicName,
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
		logger:            logger,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishEmbedKnowledgeMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("failed to unmarshal embed message", zap.Error(err))
		msg.Ack() // invalid payload, retrying won't help
		return
	}

	cs.logger.Info("processing knowledge embedding",
		zap.String("document_id", payload.DocumentId.String()),
	)

	uow := cs.uowFactory.NewUnitOfWork(ctx)

	doc, err := uow.KnowledgeDocumentRepository().FindOne(ctx, specification.ByID{ID: payload.DocumentId})
	if err != nil {
		cs.logger.Error("failed to load document for embedding",
			zap.String("document_id", payload.DocumentId.String()),
			zap.Error(err),
		)
		msg.Nack()
		return
	}
	if doc == nil {
		// Document deleted between publish and consume. Nothing to embed.
		msg.Ack()
		return
	}

	content := fmt.Sprintf("Title: %s\nCategory: %s\n\n%s", doc.Title, doc.Category, doc.Content)

	res, err := cs.embeddingProvider.Generate(embedding.Truncate(content), "RETRIEVAL_DOCUMENT")
	if err != nil {
		cs.logger.Error("embedding generation failed",
			zap.String("document_id", doc.Id.String()),
			zap.Error(err),
		)
		msg.Nack()
		return
	}

	if err := cs.replaceEmbedding(ctx, uow, doc, res.Embedding.Values); err != nil {
		cs.logger.Error("failed to store embedding",
			zap.String("document_id", doc.Id.String()),
			zap.Error(err),
		)
		msg.Nack()
		return
	}

	cs.logger.Info("knowledge embedding stored",
		zap.String("document_id", doc.Id.String()),
		zap.Int("dimensions", len(res.Embedding.Values)),
	)
	msg.Ack()
}

// replaceEmbedding swaps the document's vector atomically so a re-upserted
// document never briefly has two competing embeddings.
func (cs *consumerService) replaceEmbedding(ctx context.Context, uow unitofwork.UnitOfWork, doc *entity.KnowledgeDocument, values []float32) error {
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	repo := uow.KnowledgeEmbeddingRepository()
	if err := repo.DeleteByDocumentId(ctx, doc.Id); err != nil {
		_ = uow.Rollback()
		return err
	}

	emb := entity.KnowledgeEmbedding{
		Id:             uuid.New(),
		DocumentId:     doc.Id,
		EmbeddingValue: values,
		CreatedAt:      time.Now(),
	}
	if err := repo.Create(ctx, &emb); err != nil {
		_ = uow.Rollback()
		return err
	}

	return uow.Commit()
}
