package badger

import (
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lexiq/internal/interfaces"
	"github.com/ternarybob/lexiq/internal/models"
	"github.com/timshannon/badgerhold/v4"
)

// DocumentStorage implements the DocumentStorage interface for Badger
type DocumentStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewDocumentStorage creates a new DocumentStorage instance
func NewDocumentStorage(db *BadgerDB, logger arbor.ILogger) interfaces.DocumentStorage {
	return &DocumentStorage{
		db:     db,
		logger: logger,
	}
}

func (s *DocumentStorage) SaveDocument(doc *models.Document) error {
	if doc.ID == "" {
		return fmt.Errorf("document ID is required")
	}

	now := time.Now().UTC()
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = now
	}
	doc.UpdatedAt = now

	if err := s.db.Store().Upsert(doc.ID, doc); err != nil {
		return fmt.Errorf("failed to save document: %w", err)
	}
	return nil
}

func (s *DocumentStorage) GetDocument(id string) (*models.Document, error) {
	var doc models.Document
	if err := s.db.Store().Get(id, &doc); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, interfaces.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	return &doc, nil
}

func (s *DocumentStorage) DeleteDocument(id string) error {
	if err := s.db.Store().Delete(id, &models.Document{}); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil
		}
		return fmt.Errorf("failed to delete document: %w", err)
	}
	return nil
}

func (s *DocumentStorage) ListDocuments(limit, offset int) ([]*models.Document, error) {
	query := badgerhold.Where(badgerhold.Key).Ne("") // Select all

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Skip(offset)
	}

	var docs []models.Document
	if err := s.db.Store().Find(&docs, query); err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}

	result := make([]*models.Document, len(docs))
	for i := range docs {
		result[i] = &docs[i]
	}
	return result, nil
}

// TransitionStatus performs a compare-and-swap on the document status inside
// a single badgerhold update transaction. Concurrent callers racing on the
// same stage see exactly one winner; the rest get ErrStatusConflict.
func (s *DocumentStorage) TransitionStatus(id string, from []models.ProcessingStatus, to models.ProcessingStatus, mutate func(*models.Document)) (*models.Document, error) {
	var updated *models.Document

	err := s.db.Store().UpdateMatching(&models.Document{}, badgerhold.Where(badgerhold.Key).Eq(id), func(record interface{}) error {
		doc, ok := record.(*models.Document)
		if !ok {
			return fmt.Errorf("unexpected record type %T", record)
		}

		allowed := false
		for _, f := range from {
			if doc.Status == f {
				allowed = true
				break
			}
		}
		if !allowed {
			return fmt.Errorf("%w: document %s is %s", interfaces.ErrStatusConflict, id, doc.Status)
		}

		doc.Status = to
		if mutate != nil {
			mutate(doc)
		}
		doc.UpdatedAt = time.Now().UTC()

		copied := *doc
		updated = &copied
		return nil
	})
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, interfaces.ErrNotFound
	}
	return updated, nil
}
