package interfaces

import (
	"context"

	"github.com/ternarybob/lexiq/internal/models"
)

// UploadRequest carries a single uploaded file and its owner.
type UploadRequest struct {
	Filename    string
	ContentType string
	Content     []byte
	UserID      string
}

// DocumentService owns document ingestion and the processing lifecycle.
type DocumentService interface {
	// Upload validates the file, stores the raw bytes and creates the
	// document record in the uploaded state.
	Upload(ctx context.Context, req *UploadRequest) (*models.Document, error)

	// Get returns the document after checking the caller may read it.
	Get(id, userID string) (*models.Document, error)

	List(userID string) ([]*models.Document, error)
	Delete(ctx context.Context, id, userID string) error

	// RunOCR, RunClassification, RunAnalysis and Finalize advance the
	// document through its processing stages. Each enforces the stage
	// precondition and records failures on the document.
	RunOCR(ctx context.Context, id, userID string) (*models.Document, error)
	RunClassification(ctx context.Context, id, userID string) (*models.Document, error)
	RunAnalysis(ctx context.Context, id, userID string) (*models.Document, error)
	Finalize(ctx context.Context, id, userID string) (*models.Document, error)
}
