// Package documents owns document ingestion and the processing lifecycle.
// Stage transitions go through the storage layer's atomic status swap, so
// two callers racing the same stage see exactly one winner.
package documents

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lexiq/internal/common"
	"github.com/ternarybob/lexiq/internal/interfaces"
	"github.com/ternarybob/lexiq/internal/models"
)

// Service implements the document lifecycle over badger and blob storage.
type Service struct {
	documents  interfaces.DocumentStorage
	chunks     interfaces.ChunkStorage
	blobs      interfaces.BlobStorage
	ocr        interfaces.OCRService
	classifier interfaces.ClassifierService
	analysis   interfaces.AnalysisService
	config     *common.UploadConfig
	logger     arbor.ILogger
}

// NewService creates a document lifecycle service
func NewService(storage interfaces.StorageManager, blobs interfaces.BlobStorage, ocr interfaces.OCRService, classifier interfaces.ClassifierService, analysis interfaces.AnalysisService, config *common.UploadConfig, logger arbor.ILogger) *Service {
	return &Service{
		documents:  storage.DocumentStorage(),
		chunks:     storage.ChunkStorage(),
		blobs:      blobs,
		ocr:        ocr,
		classifier: classifier,
		analysis:   analysis,
		config:     config,
		logger:     logger,
	}
}

var _ interfaces.DocumentService = (*Service)(nil)

// Upload validates and stores an uploaded file, creating the document
// record in the uploaded state.
func (s *Service) Upload(ctx context.Context, req *interfaces.UploadRequest) (*models.Document, error) {
	if len(req.Content) == 0 {
		return nil, fmt.Errorf("uploaded file is empty")
	}
	if !s.typeAllowed(req.ContentType) {
		return nil, fmt.Errorf("unsupported file type '%s': please upload PDF, DOC, or DOCX files", req.ContentType)
	}
	if int64(len(req.Content)) > s.config.MaxSizeBytes {
		return nil, fmt.Errorf("file size %d exceeds %d byte limit", len(req.Content), s.config.MaxSizeBytes)
	}

	id := common.NewDocumentID()
	blobPath := fmt.Sprintf("uploads/%s.%s", id, fileExtension(req.Filename))

	if err := s.blobs.Put(blobPath, req.Content); err != nil {
		return nil, fmt.Errorf("failed to store uploaded file: %w", err)
	}

	now := time.Now().UTC()
	doc := &models.Document{
		ID: id,
		Metadata: models.DocumentMetadata{
			FileName:        req.Filename,
			FileSize:        int64(len(req.Content)),
			MimeType:        req.ContentType,
			UploadTimestamp: now,
			UserID:          req.UserID,
		},
		BlobPath:  blobPath,
		Status:    models.StatusUploaded,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.documents.SaveDocument(doc); err != nil {
		s.blobs.Delete(blobPath)
		return nil, fmt.Errorf("failed to save document record: %w", err)
	}

	s.logger.Info().
		Str("document_id", id).
		Str("file_name", req.Filename).
		Int("size", len(req.Content)).
		Msg("Document uploaded")

	return doc, nil
}

// Get returns the document after checking the caller may read it.
func (s *Service) Get(id, userID string) (*models.Document, error) {
	doc, err := s.documents.GetDocument(id)
	if err != nil {
		return nil, err
	}
	if !doc.OwnedBy(userID) {
		return nil, interfaces.ErrForbidden
	}
	return doc, nil
}

// List returns the documents visible to the caller.
func (s *Service) List(userID string) ([]*models.Document, error) {
	all, err := s.documents.ListDocuments(0, 0)
	if err != nil {
		return nil, err
	}
	visible := make([]*models.Document, 0, len(all))
	for _, doc := range all {
		if doc.OwnedBy(userID) {
			visible = append(visible, doc)
		}
	}
	return visible, nil
}

// Delete removes the document record, its stored file and its knowledge
// base chunks.
func (s *Service) Delete(ctx context.Context, id, userID string) error {
	doc, err := s.Get(id, userID)
	if err != nil {
		return err
	}

	if err := s.chunks.DeleteChunksByDocument(id); err != nil {
		s.logger.Warn().Err(err).Str("document_id", id).Msg("Failed to delete knowledge base chunks")
	}
	if doc.BlobPath != "" {
		if err := s.blobs.Delete(doc.BlobPath); err != nil {
			s.logger.Warn().Err(err).Str("document_id", id).Msg("Failed to delete stored file")
		}
	}
	return s.documents.DeleteDocument(id)
}

// ocrEntryStatuses lists every status OCR may start from. Re-running OCR
// on an already extracted document overwrites the extraction; only a
// document currently claimed by another stage is rejected.
var ocrEntryStatuses = []models.ProcessingStatus{
	models.StatusUploaded,
	models.StatusFailed,
	models.StatusOCRComplete,
	models.StatusClassified,
	models.StatusAnalyzed,
	models.StatusComplete,
}

// RunOCR extracts text and layout from the stored file and moves the
// document to ocr_complete.
func (s *Service) RunOCR(ctx context.Context, id, userID string) (*models.Document, error) {
	doc, err := s.beginStage(id, userID, ocrEntryStatuses)
	if err != nil {
		return nil, err
	}

	content, err := s.blobs.Get(doc.BlobPath)
	if err != nil {
		return nil, s.failStage(id, fmt.Errorf("failed to read stored file: %w", err))
	}

	extraction, err := s.ocr.Process(ctx, content, doc.Metadata.MimeType)
	if err != nil {
		return nil, s.failStage(id, fmt.Errorf("text extraction failed: %w", err))
	}

	return s.completeStage(id, models.StatusOCRComplete, func(d *models.Document) {
		d.Extraction = extraction
		d.ErrorMessage = ""
	})
}

// RunClassification classifies the document type and segments the
// extracted text into typed, risk-scored clauses.
func (s *Service) RunClassification(ctx context.Context, id, userID string) (*models.Document, error) {
	doc, err := s.beginStage(id, userID, []models.ProcessingStatus{models.StatusOCRComplete})
	if err != nil {
		return nil, err
	}

	rawText := doc.RawText()
	if rawText == "" {
		return nil, s.failStage(id, fmt.Errorf("no extracted text available for document %s", id))
	}

	docType, err := s.classifier.ClassifyDocumentType(ctx, rawText)
	if err != nil {
		return nil, s.failStage(id, fmt.Errorf("document type classification failed: %w", err))
	}

	clauses, err := s.classifier.SegmentClauses(ctx, rawText)
	if err != nil {
		return nil, s.failStage(id, fmt.Errorf("clause segmentation failed: %w", err))
	}

	return s.completeStage(id, models.StatusClassified, func(d *models.Document) {
		d.DocumentType = docType
		d.Clauses = clauses
		d.ErrorMessage = ""
	})
}

// RunAnalysis produces the document-level summary, key findings and
// overall risk from the classified clauses.
func (s *Service) RunAnalysis(ctx context.Context, id, userID string) (*models.Document, error) {
	doc, err := s.beginStage(id, userID, []models.ProcessingStatus{models.StatusClassified})
	if err != nil {
		return nil, err
	}

	result, err := s.analysis.Analyze(ctx, doc.DocumentType, doc.Clauses)
	if err != nil {
		return nil, s.failStage(id, fmt.Errorf("analysis failed: %w", err))
	}

	return s.completeStage(id, models.StatusAnalyzed, func(d *models.Document) {
		d.Summary = result.Summary
		d.KeyFindings = result.KeyFindings
		d.OverallRisk = result.OverallRisk
		d.ErrorMessage = ""
	})
}

// Finalize marks a fully analyzed document complete.
func (s *Service) Finalize(ctx context.Context, id, userID string) (*models.Document, error) {
	doc, err := s.documents.GetDocument(id)
	if err != nil {
		return nil, err
	}
	if !doc.OwnedBy(userID) {
		return nil, interfaces.ErrForbidden
	}
	return s.documents.TransitionStatus(id,
		[]models.ProcessingStatus{models.StatusAnalyzed}, models.StatusComplete, nil)
}

// beginStage checks access and atomically claims the document for one
// processing stage. A second caller racing the same stage gets
// ErrStatusConflict from the swap.
func (s *Service) beginStage(id, userID string, from []models.ProcessingStatus) (*models.Document, error) {
	doc, err := s.documents.GetDocument(id)
	if err != nil {
		return nil, err
	}
	if !doc.OwnedBy(userID) {
		return nil, interfaces.ErrForbidden
	}
	return s.documents.TransitionStatus(id, from, models.StatusProcessing, nil)
}

func (s *Service) completeStage(id string, to models.ProcessingStatus, mutate func(*models.Document)) (*models.Document, error) {
	return s.documents.TransitionStatus(id,
		[]models.ProcessingStatus{models.StatusProcessing}, to, mutate)
}

// failStage records the stage error on the document and returns it. The
// document ends in the failed state so the stage can be re-run.
func (s *Service) failStage(id string, stageErr error) error {
	s.logger.Warn().Err(stageErr).Str("document_id", id).Msg("Processing stage failed")
	_, err := s.documents.TransitionStatus(id,
		[]models.ProcessingStatus{models.StatusProcessing}, models.StatusFailed,
		func(d *models.Document) {
			d.ErrorMessage = stageErr.Error()
		})
	if err != nil {
		s.logger.Warn().Err(err).Str("document_id", id).Msg("Failed to record stage failure")
	}
	return stageErr
}

func (s *Service) typeAllowed(contentType string) bool {
	for _, allowed := range s.config.AllowedTypes {
		if contentType == allowed {
			return true
		}
	}
	return false
}

func fileExtension(filename string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if ext == "" {
		return "bin"
	}
	return ext
}
