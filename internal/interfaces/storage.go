package interfaces

import (
	"github.com/ternarybob/lexiq/internal/models"
)

// DocumentStorage persists Document records. The store provides atomic
// single-document read/write; multi-field updates within one Save are
// last-writer-wins across concurrent callers.
type DocumentStorage interface {
	SaveDocument(doc *models.Document) error
	GetDocument(id string) (*models.Document, error)
	DeleteDocument(id string) error
	ListDocuments(limit, offset int) ([]*models.Document, error)

	// TransitionStatus atomically moves a document from one of the expected
	// statuses to the target status, applying mutate to the document inside
	// the same update. Returns ErrStatusConflict when the current status is
	// not in from.
	TransitionStatus(id string, from []models.ProcessingStatus, to models.ProcessingStatus, mutate func(*models.Document)) (*models.Document, error)
}

// ChunkStorage persists knowledge-base chunks keyed by (document, ordinal).
type ChunkStorage interface {
	SaveChunks(chunks []*models.Chunk) error
	GetChunksByDocument(documentID string) ([]*models.Chunk, error)
	DeleteChunksByDocument(documentID string) error
}

// QAStorage is the append-only question/answer audit log.
type QAStorage interface {
	AppendRecord(rec *models.QARecord) error
	GetHistory(documentID string, limit int) ([]*models.QARecord, error)
}

// KeyValueStorage stores small configuration values such as API keys.
type KeyValueStorage interface {
	Get(key string) (string, error)
	Set(key, value string) error
}

// BlobStorage stores uploaded file bytes keyed by relative path.
type BlobStorage interface {
	Put(path string, content []byte) error
	Get(path string) ([]byte, error)
	Exists(path string) bool
	Delete(path string) error
}

// StorageManager aggregates all storage backends behind one lifecycle.
type StorageManager interface {
	DocumentStorage() DocumentStorage
	ChunkStorage() ChunkStorage
	QAStorage() QAStorage
	KeyValueStorage() KeyValueStorage
	Close() error
}
