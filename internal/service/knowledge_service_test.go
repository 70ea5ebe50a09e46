package service

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"wevysya-assistant-be/internal/dto"
	"wevysya-assistant-be/internal/entity"
	"wevysya-assistant-be/internal/repository/contract"
	"wevysya-assistant-be/internal/repository/specification"
	"wevysya-assistant-be/internal/repository/unitofwork"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// memDocRepo interprets the specifications the knowledge service actually
// uses; anything else is ignored.
type memDocRepo struct {
	docs []*entity.KnowledgeDocument
}

func (r *memDocRepo) Create(ctx context.Context, doc *entity.KnowledgeDocument) error {
	cp := *doc
	r.docs = append(r.docs, &cp)
	return nil
}

func (r *memDocRepo) filter(specs ...specification.Specification) []*entity.KnowledgeDocument {
	out := r.docs
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.ByID:
			var kept []*entity.KnowledgeDocument
			for _, d := range out {
				if d.Id == s.ID {
					kept = append(kept, d)
				}
			}
			out = kept
		case specification.ByTitleAndCategory:
			var kept []*entity.KnowledgeDocument
			for _, d := range out {
				if d.Title == s.Title && d.Category == s.Category {
					kept = append(kept, d)
				}
			}
			out = kept
		case specification.ByCategory:
			var kept []*entity.KnowledgeDocument
			for _, d := range out {
				if d.Category == s.Category {
					kept = append(kept, d)
				}
			}
			out = kept
		}
	}
	return out
}

func (r *memDocRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.KnowledgeDocument, error) {
	matches := r.filter(specs...)
	if len(matches) == 0 {
		return nil, nil
	}
	cp := *matches[0]
	return &cp, nil
}

func (r *memDocRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.KnowledgeDocument, error) {
	return r.filter(specs...), nil
}

func (r *memDocRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return int64(len(r.filter(specs...))), nil
}

func (r *memDocRepo) SearchKeyword(ctx context.Context, query string, limit int) ([]*entity.KnowledgeDocument, error) {
	q := strings.ToLower(query)
	var matches []*entity.KnowledgeDocument
	for _, d := range r.docs {
		if strings.Contains(strings.ToLower(d.Title), q) || strings.Contains(strings.ToLower(d.Content), q) {
			matches = append(matches, d)
		}
	}
	return matches, nil
}

func (r *memDocRepo) DeleteAllUnscoped(ctx context.Context) error {
	r.docs = nil
	return nil
}

type memEmbRepo struct {
	embeddings []*entity.KnowledgeEmbedding
	scored     []*contract.ScoredKnowledgeEmbedding
}

func (r *memEmbRepo) Create(ctx context.Context, e *entity.KnowledgeEmbedding) error {
	cp := *e
	r.embeddings = append(r.embeddings, &cp)
	return nil
}

func (r *memEmbRepo) DeleteByDocumentId(ctx context.Context, documentId uuid.UUID) error {
	var kept []*entity.KnowledgeEmbedding
	for _, e := range r.embeddings {
		if e.DocumentId != documentId {
			kept = append(kept, e)
		}
	}
	r.embeddings = kept
	return nil
}

func (r *memEmbRepo) DeleteAllUnscoped(ctx context.Context) error {
	r.embeddings = nil
	return nil
}

func (r *memEmbRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return int64(len(r.embeddings)), nil
}

func (r *memEmbRepo) SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, threshold float64) ([]*contract.ScoredKnowledgeEmbedding, error) {
	return r.scored, nil
}

type memUow struct {
	docs    *memDocRepo
	embs    *memEmbRepo
	members contract.MemberRepository
}

func (u *memUow) Begin(ctx context.Context) error { return nil }
func (u *memUow) Commit() error                   { return nil }
func (u *memUow) Rollback() error                 { return nil }

func (u *memUow) KnowledgeDocumentRepository() contract.KnowledgeDocumentRepository {
	return u.docs
}

func (u *memUow) KnowledgeEmbeddingRepository() contract.KnowledgeEmbeddingRepository {
	return u.embs
}

func (u *memUow) MemberRepository() contract.MemberRepository {
	return u.members
}

type memUowFactory struct {
	uow *memUow
}

func (f *memUowFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return f.uow
}

type recordingPublisher struct {
	payloads [][]byte
}

func (p *recordingPublisher) Publish(ctx context.Context, payload []byte) error {
	p.payloads = append(p.payloads, payload)
	return nil
}

func newTestKnowledgeService() (IKnowledgeService, *memUow, *recordingPublisher) {
	uow := &memUow{docs: &memDocRepo{}, embs: &memEmbRepo{}}
	factory := &memUowFactory{uow: uow}
	pub := &recordingPublisher{}
	svc := NewKnowledgeService(factory, pub, NewKnowledgeGateway(factory), zap.NewNop())
	return svc, uow, pub
}

func TestUpsertDuplicateIsNoOp(t *testing.T) {
	svc, uow, pub := newTestKnowledgeService()
	ctx := context.Background()

	first, err := svc.Upsert(ctx, &dto.UpsertKnowledgeRequest{
		Title:    "About WeVysya",
		Category: "general",
		Content:  "original content",
	})
	require.NoError(t, err)
	assert.True(t, first.Created)
	assert.Len(t, uow.docs.docs, 1)

	second, err := svc.Upsert(ctx, &dto.UpsertKnowledgeRequest{
		Title:    "About WeVysya",
		Category: "general",
		Content:  "replacement attempt",
	})
	require.NoError(t, err)
	assert.False(t, second.Created)
	assert.Equal(t, first.Id, second.Id)

	// Duplicate identity never grows the store and never touches the content
	require.Len(t, uow.docs.docs, 1)
	assert.Equal(t, "original content", uow.docs.docs[0].Content)

	// Only the insert triggers an embed
	require.Len(t, pub.payloads, 1)
	var msg dto.PublishEmbedKnowledgeMessage
	require.NoError(t, json.Unmarshal(pub.payloads[0], &msg))
	assert.Equal(t, first.Id, msg.DocumentId)
}

func TestUpsertDifferentCategoryIsNewDocument(t *testing.T) {
	svc, uow, _ := newTestKnowledgeService()
	ctx := context.Background()

	_, err := svc.Upsert(ctx, &dto.UpsertKnowledgeRequest{Title: "Deals", Category: "deals", Content: "a"})
	require.NoError(t, err)
	res, err := svc.Upsert(ctx, &dto.UpsertKnowledgeRequest{Title: "Deals", Category: "faq", Content: "b"})
	require.NoError(t, err)

	assert.True(t, res.Created)
	assert.Len(t, uow.docs.docs, 2)
}

func TestListFiltersByCategory(t *testing.T) {
	svc, _, _ := newTestKnowledgeService()
	ctx := context.Background()

	for _, req := range []*dto.UpsertKnowledgeRequest{
		{Title: "A", Category: "deals", Content: "x"},
		{Title: "B", Category: "deals", Content: "y"},
		{Title: "C", Category: "general", Content: "z"},
	} {
		_, err := svc.Upsert(ctx, req)
		require.NoError(t, err)
	}

	all, err := svc.List(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, int64(3), all.Total)
	assert.Len(t, all.Documents, 3)

	deals, err := svc.List(ctx, "deals")
	require.NoError(t, err)
	assert.Equal(t, int64(2), deals.Total)
	assert.Len(t, deals.Documents, 2)
}

func TestSimilaritySearchScoresDocuments(t *testing.T) {
	uow := &memUow{docs: &memDocRepo{}, embs: &memEmbRepo{}}
	factory := &memUowFactory{uow: uow}

	docId := uuid.New()
	uow.docs.docs = append(uow.docs.docs, &entity.KnowledgeDocument{
		Id:       docId,
		Title:    "Posting deals",
		Category: "deals",
		Content:  "Deals are posted from the Deals tab.",
	})
	uow.embs.scored = []*contract.ScoredKnowledgeEmbedding{
		{Embedding: &entity.KnowledgeEmbedding{Id: uuid.New(), DocumentId: docId}, Similarity: 0.42},
	}

	gateway := NewKnowledgeGateway(factory)
	docs, err := gateway.SearchSimilar(context.Background(), []float32{1, 0}, 5)
	require.NoError(t, err)

	require.Len(t, docs, 1)
	assert.Equal(t, docId.String(), docs[0].ID)
	assert.InDelta(t, 0.42, float64(docs[0].Score), 1e-6)
}

func TestSearchMapsDocumentsWithScores(t *testing.T) {
	svc, _, _ := newTestKnowledgeService()
	ctx := context.Background()

	_, err := svc.Upsert(ctx, &dto.UpsertKnowledgeRequest{
		Title:    "Posting deals",
		Category: "deals",
		Content:  "Deals are posted from the Deals tab.",
	})
	require.NoError(t, err)

	res, err := svc.Search(ctx, &dto.SearchKnowledgeRequest{Query: "deals"})
	require.NoError(t, err)

	require.Len(t, res.Documents, 1)
	assert.Equal(t, "Posting deals", res.Documents[0].Title)
	assert.InDelta(t, 0, res.Documents[0].Score, 1e-9, "keyword matches carry no similarity score")
	assert.Contains(t, res.Context, "Posting deals:")
}

func TestClearReportsAndEmpties(t *testing.T) {
	svc, uow, _ := newTestKnowledgeService()
	ctx := context.Background()

	_, err := svc.Upsert(ctx, &dto.UpsertKnowledgeRequest{Title: "A", Category: "deals", Content: "x"})
	require.NoError(t, err)
	require.NoError(t, uow.embs.Create(ctx, &entity.KnowledgeEmbedding{Id: uuid.New()}))

	res, err := svc.Clear(ctx)
	require.NoError(t, err)

	assert.Equal(t, int64(1), res.DocumentsRemoved)
	assert.Equal(t, int64(1), res.EmbeddingsRemoved)
	assert.Empty(t, uow.docs.docs)
	assert.Empty(t, uow.embs.embeddings)
}
