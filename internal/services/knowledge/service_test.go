package knowledge

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lexiq/internal/interfaces"
	"github.com/ternarybob/lexiq/internal/models"
)

// stubEmbedder returns canned vectors keyed by input text.
type stubEmbedder struct {
	vectors map[string][]float32
	failOn  map[string]bool
}

func (s *stubEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if s.failOn[text] {
		return nil, errors.New("embedding unavailable")
	}
	if v, ok := s.vectors[text]; ok {
		return v, nil
	}
	return []float32{1, 0, 0}, nil
}

func (s *stubEmbedder) Chat(ctx context.Context, messages []interfaces.Message) (string, error) {
	return "", errors.New("not implemented")
}

func (s *stubEmbedder) HealthCheck(ctx context.Context) error { return nil }

func (s *stubEmbedder) Provider() interfaces.LLMProvider { return interfaces.LLMProviderGemini }

func (s *stubEmbedder) Close() error { return nil }

// stubDocumentStorage keeps documents in a map.
type stubDocumentStorage struct {
	docs map[string]*models.Document
}

func (s *stubDocumentStorage) SaveDocument(doc *models.Document) error {
	s.docs[doc.ID] = doc
	return nil
}

func (s *stubDocumentStorage) GetDocument(id string) (*models.Document, error) {
	doc, ok := s.docs[id]
	if !ok {
		return nil, interfaces.ErrNotFound
	}
	return doc, nil
}

func (s *stubDocumentStorage) DeleteDocument(id string) error {
	delete(s.docs, id)
	return nil
}

func (s *stubDocumentStorage) ListDocuments(limit, offset int) ([]*models.Document, error) {
	var out []*models.Document
	for _, d := range s.docs {
		out = append(out, d)
	}
	return out, nil
}

func (s *stubDocumentStorage) TransitionStatus(id string, from []models.ProcessingStatus, to models.ProcessingStatus, mutate func(*models.Document)) (*models.Document, error) {
	doc, ok := s.docs[id]
	if !ok {
		return nil, interfaces.ErrNotFound
	}
	matched := false
	for _, f := range from {
		if doc.Status == f {
			matched = true
			break
		}
	}
	if !matched {
		return nil, interfaces.ErrStatusConflict
	}
	doc.Status = to
	if mutate != nil {
		mutate(doc)
	}
	return doc, nil
}

// stubChunkStorage keeps chunks in a slice per document.
type stubChunkStorage struct {
	chunks map[string][]*models.Chunk
}

func (s *stubChunkStorage) SaveChunks(chunks []*models.Chunk) error {
	for _, c := range chunks {
		s.chunks[c.DocumentID] = append(s.chunks[c.DocumentID], c)
	}
	return nil
}

func (s *stubChunkStorage) GetChunksByDocument(documentID string) ([]*models.Chunk, error) {
	return s.chunks[documentID], nil
}

func (s *stubChunkStorage) DeleteChunksByDocument(documentID string) error {
	delete(s.chunks, documentID)
	return nil
}

func newTestService(embedder interfaces.LLMService) (*Service, *stubDocumentStorage, *stubChunkStorage) {
	docs := &stubDocumentStorage{docs: map[string]*models.Document{}}
	chunks := &stubChunkStorage{chunks: map[string][]*models.Chunk{}}
	svc := &Service{
		documents: docs,
		chunks:    chunks,
		embedder:  embedder,
		logger:    arbor.NewLogger(),
	}
	return svc, docs, chunks
}

func testDocument(id, rawText string) *models.Document {
	return &models.Document{
		ID:     id,
		Status: models.StatusAnalyzed,
		Extraction: &models.ExtractionResult{
			RawText: rawText,
		},
	}
}

func TestBuildKnowledgeBase_NoText(t *testing.T) {
	svc, _, _ := newTestService(&stubEmbedder{})

	doc := &models.Document{ID: "doc_empty"}
	_, err := svc.BuildKnowledgeBase(context.Background(), doc)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no text found")
	assert.False(t, doc.KnowledgeBaseCreated)
}

func TestBuildKnowledgeBase_SetsDocumentState(t *testing.T) {
	svc, docs, chunks := newTestService(&stubEmbedder{})

	doc := testDocument("doc_1", "some contract text")
	docs.docs[doc.ID] = doc

	count, err := svc.BuildKnowledgeBase(context.Background(), doc)

	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.True(t, doc.KnowledgeBaseCreated)
	assert.Equal(t, 1, doc.EmbeddingsCount)
	assert.Len(t, chunks.chunks["doc_1"], 1)
	assert.Equal(t, "doc_1_chunk_0", chunks.chunks["doc_1"][0].ID)
}

func TestBuildKnowledgeBase_SkipsFailedEmbeddings(t *testing.T) {
	embedder := &stubEmbedder{failOn: map[string]bool{"some contract text": true}}
	svc, docs, _ := newTestService(embedder)

	doc := testDocument("doc_2", "some contract text")
	doc.Clauses = []models.Clause{
		{ID: "clause_1", ClauseType: models.ClauseTermination, RiskLevel: models.RiskLow},
	}
	docs.docs[doc.ID] = doc

	count, err := svc.BuildKnowledgeBase(context.Background(), doc)

	// Full-document chunk fails to embed, clause chunk survives
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Equal(t, 1, doc.EmbeddingsCount)
}

func TestBuildKnowledgeBase_ReplacesPreviousChunks(t *testing.T) {
	svc, docs, chunks := newTestService(&stubEmbedder{})

	doc := testDocument("doc_3", "original text")
	docs.docs[doc.ID] = doc

	_, err := svc.BuildKnowledgeBase(context.Background(), doc)
	require.NoError(t, err)
	_, err = svc.BuildKnowledgeBase(context.Background(), doc)
	require.NoError(t, err)

	assert.Len(t, chunks.chunks["doc_3"], 1)
}

func TestSearch_RequiresKnowledgeBase(t *testing.T) {
	svc, docs, _ := newTestService(&stubEmbedder{})

	doc := testDocument("doc_4", "text")
	docs.docs[doc.ID] = doc

	_, err := svc.Search(context.Background(), "doc_4", "question", 3)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "knowledge base not created")
}

func TestSearch_OrdersBySimilarityDescending(t *testing.T) {
	embedder := &stubEmbedder{vectors: map[string][]float32{
		"question": {1, 0, 0},
	}}
	svc, docs, chunks := newTestService(embedder)

	doc := testDocument("doc_5", "text")
	doc.KnowledgeBaseCreated = true
	docs.docs[doc.ID] = doc

	chunks.chunks["doc_5"] = []*models.Chunk{
		{ID: "doc_5_chunk_0", DocumentID: "doc_5", Text: "far", Embedding: []float32{0, 1, 0}},
		{ID: "doc_5_chunk_1", DocumentID: "doc_5", Text: "near", Embedding: []float32{1, 0.1, 0}},
		{ID: "doc_5_chunk_2", DocumentID: "doc_5", Text: "exact", Embedding: []float32{1, 0, 0}},
	}

	results, err := svc.Search(context.Background(), "doc_5", "question", 2)

	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "exact", results[0].Chunk.Text)
	assert.Equal(t, "near", results[1].Chunk.Text)
	assert.GreaterOrEqual(t, results[0].Similarity, results[1].Similarity)
}

func TestSearch_NotFoundDocument(t *testing.T) {
	svc, _, _ := newTestService(&stubEmbedder{})

	_, err := svc.Search(context.Background(), "doc_missing", "question", 3)

	assert.ErrorIs(t, err, interfaces.ErrNotFound)
}
