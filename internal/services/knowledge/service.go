package knowledge

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lexiq/internal/interfaces"
	"github.com/ternarybob/lexiq/internal/models"
)

// Service builds and searches per-document knowledge bases. Each build
// replaces the document's previous chunks wholesale; document chunks are
// never mixed with the general legal corpus.
type Service struct {
	documents interfaces.DocumentStorage
	chunks    interfaces.ChunkStorage
	embedder  interfaces.LLMService
	logger    arbor.ILogger
}

// NewService creates a knowledge base service
func NewService(storage interfaces.StorageManager, embedder interfaces.LLMService, logger arbor.ILogger) *Service {
	return &Service{
		documents: storage.DocumentStorage(),
		chunks:    storage.ChunkStorage(),
		embedder:  embedder,
		logger:    logger,
	}
}

var _ interfaces.KnowledgeService = (*Service)(nil)

// BuildKnowledgeBase chunks the document, embeds each chunk and persists the
// result. Per-chunk embedding failures are logged and skipped; the call
// fails only when the document has no extracted text.
func (s *Service) BuildKnowledgeBase(ctx context.Context, doc *models.Document) (int, error) {
	rawText := doc.RawText()
	if rawText == "" {
		return 0, fmt.Errorf("no text found in document %s", doc.ID)
	}

	var paragraphs []models.ExtractedParagraph
	if doc.Extraction != nil {
		paragraphs = doc.Extraction.Paragraphs
	}

	spans := BuildChunks(rawText, paragraphs, doc.Clauses)

	// Drop any chunks from a previous build before writing the new set
	if err := s.chunks.DeleteChunksByDocument(doc.ID); err != nil {
		return 0, fmt.Errorf("failed to clear previous knowledge base: %w", err)
	}

	start := time.Now()
	embedded := make([]*models.Chunk, 0, len(spans))
	for i, span := range spans {
		vector, err := s.embedder.Embed(ctx, span.Text)
		if err != nil {
			s.logger.Warn().
				Err(err).
				Str("document_id", doc.ID).
				Int("ordinal", i).
				Str("chunk_type", string(span.ChunkType)).
				Msg("Skipping chunk after embedding failure")
			continue
		}

		embedded = append(embedded, &models.Chunk{
			ID:         models.ChunkID(doc.ID, i),
			DocumentID: doc.ID,
			Ordinal:    i,
			Text:       span.Text,
			ChunkType:  span.ChunkType,
			Metadata:   span.Metadata,
			Embedding:  vector,
		})
	}

	if err := s.chunks.SaveChunks(embedded); err != nil {
		return 0, fmt.Errorf("failed to save chunks: %w", err)
	}

	doc.KnowledgeBaseCreated = true
	doc.EmbeddingsCount = len(embedded)
	if err := s.documents.SaveDocument(doc); err != nil {
		return 0, fmt.Errorf("failed to record knowledge base state: %w", err)
	}

	s.logger.Info().
		Str("document_id", doc.ID).
		Int("chunks_total", len(spans)).
		Int("chunks_embedded", len(embedded)).
		Dur("duration", time.Since(start)).
		Msg("Knowledge base created")

	return len(embedded), nil
}

// Search embeds the query and scans the document's chunks by cosine
// similarity, returning up to k results in descending similarity order.
func (s *Service) Search(ctx context.Context, documentID, query string, k int) ([]models.ScoredChunk, error) {
	doc, err := s.documents.GetDocument(documentID)
	if err != nil {
		return nil, err
	}
	if !doc.KnowledgeBaseCreated {
		return nil, fmt.Errorf("knowledge base not created for document %s", documentID)
	}

	queryVector, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	chunks, err := s.chunks.GetChunksByDocument(documentID)
	if err != nil {
		return nil, err
	}

	scored := make([]models.ScoredChunk, 0, len(chunks))
	for _, chunk := range chunks {
		scored = append(scored, models.ScoredChunk{
			Chunk:      chunk,
			Similarity: CosineSimilarity(queryVector, chunk.Embedding),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Similarity > scored[j].Similarity
	})

	if k > 0 && len(scored) > k {
		scored = scored[:k]
	}

	return scored, nil
}
