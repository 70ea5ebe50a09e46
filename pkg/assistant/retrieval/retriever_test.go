package retrieval

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"

	"wevysya-assistant-be/internal/constant"
	"wevysya-assistant-be/pkg/embedding"
	"wevysya-assistant-be/pkg/store"

	"github.com/stretchr/testify/assert"
)

type fakeSource struct {
	keywordDocs []store.Document
	keywordErr  error
	anyDocs     []store.Document
	anyErr      error
	similarDocs []store.Document
	similarErr  error

	similarCalled bool
}

func (f *fakeSource) SearchKeyword(ctx context.Context, query string, limit int) ([]store.Document, error) {
	return f.keywordDocs, f.keywordErr
}

func (f *fakeSource) FindAny(ctx context.Context, limit int) ([]store.Document, error) {
	return f.anyDocs, f.anyErr
}

func (f *fakeSource) SearchSimilar(ctx context.Context, vector []float32, limit int) ([]store.Document, error) {
	f.similarCalled = true
	return f.similarDocs, f.similarErr
}

type fakeEmbedder struct {
	err error
}

func (f *fakeEmbedder) Generate(text string, taskType string) (*embedding.EmbeddingResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &embedding.EmbeddingResponse{
		Embedding: embedding.EmbeddingResponseEmbedding{Values: []float32{0.1, 0.2}},
	}, nil
}

func testLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func doc(title, content string) store.Document {
	return store.Document{Title: title, Content: content}
}

func TestSearchKnowledgeKeywordHit(t *testing.T) {
	src := &fakeSource{keywordDocs: []store.Document{doc("Deals", "How deals work")}}
	r := NewRetriever(src, nil, testLogger())

	got := r.SearchKnowledge(context.Background(), "deals", 5)

	assert.Equal(t, "Deals:\nHow deals work", got)
	assert.False(t, src.similarCalled, "semantic rung must not run when keyword search succeeds")
}

func TestSearchKnowledgeRendersSeparator(t *testing.T) {
	src := &fakeSource{keywordDocs: []store.Document{
		doc("A", "first"),
		doc("B", "second"),
	}}
	r := NewRetriever(src, nil, testLogger())

	got := r.SearchKnowledge(context.Background(), "x", 5)

	assert.Equal(t, "A:\nfirst"+constant.KnowledgeDocSeparator+"B:\nsecond", got)
}

func TestSearchKnowledgeNoMatchesFallsBackToAll(t *testing.T) {
	src := &fakeSource{
		anyDocs: []store.Document{doc("About", "platform overview")},
	}
	r := NewRetriever(src, nil, testLogger())

	got := r.SearchKnowledge(context.Background(), "unrelated query", 5)

	assert.Equal(t, "About:\nplatform overview", got)
	assert.False(t, src.similarCalled, "semantic rung is reserved for keyword errors")
}

func TestSearchKnowledgeEmptyStoreUsesPlatformDescription(t *testing.T) {
	src := &fakeSource{}
	r := NewRetriever(src, nil, testLogger())

	got := r.SearchKnowledge(context.Background(), "anything", 5)

	assert.Equal(t, constant.PlatformDescription, got)
}

func TestSearchKnowledgeKeywordErrorTriesEmbedding(t *testing.T) {
	src := &fakeSource{
		keywordErr:  errors.New("db down"),
		similarDocs: []store.Document{doc("Sim", "semantic match")},
	}
	r := NewRetriever(src, &fakeEmbedder{}, testLogger())

	got := r.SearchKnowledge(context.Background(), "query", 5)

	assert.True(t, src.similarCalled)
	assert.Equal(t, "Sim:\nsemantic match", got)
}

func TestSearchKnowledgeKeywordErrorWithoutEmbedderDegradesToAll(t *testing.T) {
	src := &fakeSource{
		keywordErr: errors.New("db down"),
		anyDocs:    []store.Document{doc("Any", "whatever we have")},
	}
	r := NewRetriever(src, nil, testLogger())

	got := r.SearchKnowledge(context.Background(), "query", 5)

	assert.Equal(t, "Any:\nwhatever we have", got)
}

func TestSearchKnowledgeEmbeddingFailureDegradesToAll(t *testing.T) {
	src := &fakeSource{
		keywordErr: errors.New("db down"),
		anyDocs:    []store.Document{doc("Any", "still here")},
	}
	r := NewRetriever(src, &fakeEmbedder{err: errors.New("embed endpoint down")}, testLogger())

	got := r.SearchKnowledge(context.Background(), "query", 5)

	assert.Equal(t, "Any:\nstill here", got)
}

func TestSearchKnowledgeEverythingFailsStaticRung(t *testing.T) {
	src := &fakeSource{
		keywordErr: errors.New("db down"),
		similarErr: errors.New("vector down"),
		anyErr:     errors.New("db still down"),
	}
	r := NewRetriever(src, &fakeEmbedder{}, testLogger())

	got := r.SearchKnowledge(context.Background(), "query", 5)

	assert.Equal(t, constant.PlatformDescription, got)
	assert.NotEmpty(t, got, "context must never be empty")
}

func TestRenderEmpty(t *testing.T) {
	assert.Equal(t, "", Render(nil))
}
