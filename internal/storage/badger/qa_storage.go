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

// QAStorage implements the append-only QA audit log on Badger
type QAStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewQAStorage creates a new QAStorage instance
func NewQAStorage(db *BadgerDB, logger arbor.ILogger) interfaces.QAStorage {
	return &QAStorage{
		db:     db,
		logger: logger,
	}
}

func (s *QAStorage) AppendRecord(rec *models.QARecord) error {
	if rec.ID == "" {
		return fmt.Errorf("QA record ID is required")
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	// Insert, not upsert: the log is append-only and IDs never repeat
	if err := s.db.Store().Insert(rec.ID, rec); err != nil {
		return fmt.Errorf("failed to append QA record: %w", err)
	}
	return nil
}

func (s *QAStorage) GetHistory(documentID string, limit int) ([]*models.QARecord, error) {
	var records []models.QARecord
	if err := s.db.Store().Find(&records, badgerhold.Where("DocumentID").Eq(documentID).Index("DocumentID")); err != nil {
		return nil, fmt.Errorf("failed to get QA history for document %s: %w", documentID, err)
	}

	// Newest first
	sort.Slice(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})

	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}

	result := make([]*models.QARecord, len(records))
	for i := range records {
		result[i] = &records[i]
	}
	return result, nil
}
