package badger

import (
	"fmt"
	"sort"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lexiq/internal/interfaces"
	"github.com/ternarybob/lexiq/internal/models"
	"github.com/timshannon/badgerhold/v4"
)

// ChunkStorage implements the ChunkStorage interface for Badger
type ChunkStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewChunkStorage creates a new ChunkStorage instance
func NewChunkStorage(db *BadgerDB, logger arbor.ILogger) interfaces.ChunkStorage {
	return &ChunkStorage{
		db:     db,
		logger: logger,
	}
}

func (s *ChunkStorage) SaveChunks(chunks []*models.Chunk) error {
	now := time.Now().UTC()
	for _, chunk := range chunks {
		if chunk.ID == "" {
			return fmt.Errorf("chunk ID is required")
		}
		if chunk.CreatedAt.IsZero() {
			chunk.CreatedAt = now
		}
		if err := s.db.Store().Upsert(chunk.ID, chunk); err != nil {
			return fmt.Errorf("failed to save chunk %s: %w", chunk.ID, err)
		}
	}
	return nil
}

func (s *ChunkStorage) GetChunksByDocument(documentID string) ([]*models.Chunk, error) {
	var chunks []models.Chunk
	if err := s.db.Store().Find(&chunks, badgerhold.Where("DocumentID").Eq(documentID).Index("DocumentID")); err != nil {
		return nil, fmt.Errorf("failed to get chunks for document %s: %w", documentID, err)
	}

	sort.Slice(chunks, func(i, j int) bool {
		return chunks[i].Ordinal < chunks[j].Ordinal
	})

	result := make([]*models.Chunk, len(chunks))
	for i := range chunks {
		result[i] = &chunks[i]
	}
	return result, nil
}

func (s *ChunkStorage) DeleteChunksByDocument(documentID string) error {
	if err := s.db.Store().DeleteMatching(&models.Chunk{}, badgerhold.Where("DocumentID").Eq(documentID).Index("DocumentID")); err != nil {
		return fmt.Errorf("failed to delete chunks for document %s: %w", documentID, err)
	}
	return nil
}
