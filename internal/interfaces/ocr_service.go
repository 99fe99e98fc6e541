package interfaces

import (
	"context"

	"github.com/ternarybob/lexiq/internal/models"
)

// OCRService is the opaque text/layout extraction capability. Given raw
// document bytes and their MIME type it returns plain text plus
// page/paragraph/table structure with per-element confidence.
type OCRService interface {
	Process(ctx context.Context, content []byte, mimeType string) (*models.ExtractionResult, error)
}
