package documents

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lexiq/internal/common"
	"github.com/ternarybob/lexiq/internal/interfaces"
	"github.com/ternarybob/lexiq/internal/models"
)

type fakeDocumentStore struct {
	docs    map[string]*models.Document
	saveErr error
}

func newFakeDocumentStore() *fakeDocumentStore {
	return &fakeDocumentStore{docs: map[string]*models.Document{}}
}

func (f *fakeDocumentStore) SaveDocument(doc *models.Document) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	copied := *doc
	f.docs[doc.ID] = &copied
	return nil
}

func (f *fakeDocumentStore) GetDocument(id string) (*models.Document, error) {
	doc, ok := f.docs[id]
	if !ok {
		return nil, interfaces.ErrNotFound
	}
	copied := *doc
	return &copied, nil
}

func (f *fakeDocumentStore) DeleteDocument(id string) error {
	if _, ok := f.docs[id]; !ok {
		return interfaces.ErrNotFound
	}
	delete(f.docs, id)
	return nil
}

func (f *fakeDocumentStore) ListDocuments(limit, offset int) ([]*models.Document, error) {
	var out []*models.Document
	for _, doc := range f.docs {
		copied := *doc
		out = append(out, &copied)
	}
	return out, nil
}

func (f *fakeDocumentStore) TransitionStatus(id string, from []models.ProcessingStatus, to models.ProcessingStatus, mutate func(*models.Document)) (*models.Document, error) {
	doc, ok := f.docs[id]
	if !ok {
		return nil, interfaces.ErrNotFound
	}
	allowed := false
	for _, status := range from {
		if doc.Status == status {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, fmt.Errorf("document %s is %s: %w", id, doc.Status, interfaces.ErrStatusConflict)
	}
	doc.Status = to
	if mutate != nil {
		mutate(doc)
	}
	copied := *doc
	return &copied, nil
}

type fakeChunkStore struct {
	deleted []string
}

func (f *fakeChunkStore) SaveChunks(chunks []*models.Chunk) error { return nil }

func (f *fakeChunkStore) GetChunksByDocument(documentID string) ([]*models.Chunk, error) {
	return nil, nil
}

func (f *fakeChunkStore) DeleteChunksByDocument(documentID string) error {
	f.deleted = append(f.deleted, documentID)
	return nil
}

type fakeBlobStore struct {
	blobs  map[string][]byte
	putErr error
	getErr error
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{blobs: map[string][]byte{}}
}

func (f *fakeBlobStore) Put(path string, content []byte) error {
	if f.putErr != nil {
		return f.putErr
	}
	f.blobs[path] = content
	return nil
}

func (f *fakeBlobStore) Get(path string) ([]byte, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	content, ok := f.blobs[path]
	if !ok {
		return nil, interfaces.ErrNotFound
	}
	return content, nil
}

func (f *fakeBlobStore) Exists(path string) bool {
	_, ok := f.blobs[path]
	return ok
}

func (f *fakeBlobStore) Delete(path string) error {
	delete(f.blobs, path)
	return nil
}

type stubOCR struct {
	result *models.ExtractionResult
	err    error
}

func (s *stubOCR) Process(ctx context.Context, content []byte, mimeType string) (*models.ExtractionResult, error) {
	return s.result, s.err
}

type stubClassifier struct {
	docType models.DocumentType
	clauses []models.Clause
	err     error
}

func (s *stubClassifier) ClassifyDocumentType(ctx context.Context, rawText string) (models.DocumentType, error) {
	return s.docType, s.err
}

func (s *stubClassifier) SegmentClauses(ctx context.Context, rawText string) ([]models.Clause, error) {
	return s.clauses, s.err
}

type stubAnalysis struct {
	result *interfaces.AnalysisResult
	err    error
}

func (s *stubAnalysis) Analyze(ctx context.Context, docType models.DocumentType, clauses []models.Clause) (*interfaces.AnalysisResult, error) {
	return s.result, s.err
}

func (s *stubAnalysis) RenderReport(doc *models.Document) ([]byte, error) {
	return nil, errors.New("not implemented")
}

type testFixture struct {
	svc    *Service
	docs   *fakeDocumentStore
	chunks *fakeChunkStore
	blobs  *fakeBlobStore
}

func newFixture(ocr *stubOCR, classifier *stubClassifier, analysis *stubAnalysis) *testFixture {
	docs := newFakeDocumentStore()
	chunks := &fakeChunkStore{}
	blobs := newFakeBlobStore()
	svc := &Service{
		documents:  docs,
		chunks:     chunks,
		blobs:      blobs,
		ocr:        ocr,
		classifier: classifier,
		analysis:   analysis,
		config: &common.UploadConfig{
			MaxSizeBytes: 1024,
			AllowedTypes: []string{"application/pdf", "application/msword"},
		},
		logger: arbor.NewLogger(),
	}
	return &testFixture{svc: svc, docs: docs, chunks: chunks, blobs: blobs}
}

func (f *testFixture) seed(status models.ProcessingStatus, mutate func(*models.Document)) *models.Document {
	doc := &models.Document{
		ID:       "doc_1",
		Status:   status,
		BlobPath: "uploads/doc_1.pdf",
		Metadata: models.DocumentMetadata{FileName: "lease.pdf", MimeType: "application/pdf", UserID: "user_1"},
	}
	if mutate != nil {
		mutate(doc)
	}
	f.docs.docs[doc.ID] = doc
	f.blobs.blobs[doc.BlobPath] = []byte("%PDF-1.4 content")
	return doc
}

func pdfUpload() *interfaces.UploadRequest {
	return &interfaces.UploadRequest{
		Filename:    "lease.PDF",
		ContentType: "application/pdf",
		Content:     []byte("%PDF-1.4 content"),
		UserID:      "user_1",
	}
}

func TestUpload_CreatesUploadedDocument(t *testing.T) {
	f := newFixture(&stubOCR{}, &stubClassifier{}, &stubAnalysis{})

	doc, err := f.svc.Upload(context.Background(), pdfUpload())

	require.NoError(t, err)
	assert.Equal(t, models.StatusUploaded, doc.Status)
	assert.Equal(t, "lease.PDF", doc.Metadata.FileName)
	assert.Equal(t, int64(16), doc.Metadata.FileSize)
	assert.Equal(t, "uploads/"+doc.ID+".pdf", doc.BlobPath)
	assert.True(t, f.blobs.Exists(doc.BlobPath))
}

func TestUpload_RejectsEmptyFile(t *testing.T) {
	f := newFixture(&stubOCR{}, &stubClassifier{}, &stubAnalysis{})

	req := pdfUpload()
	req.Content = nil

	_, err := f.svc.Upload(context.Background(), req)
	assert.ErrorContains(t, err, "empty")
}

func TestUpload_RejectsUnsupportedType(t *testing.T) {
	f := newFixture(&stubOCR{}, &stubClassifier{}, &stubAnalysis{})

	req := pdfUpload()
	req.ContentType = "image/png"

	_, err := f.svc.Upload(context.Background(), req)
	assert.ErrorContains(t, err, "unsupported file type")
}

func TestUpload_RejectsOversizedFile(t *testing.T) {
	f := newFixture(&stubOCR{}, &stubClassifier{}, &stubAnalysis{})

	req := pdfUpload()
	req.Content = make([]byte, 2048)

	_, err := f.svc.Upload(context.Background(), req)
	assert.ErrorContains(t, err, "exceeds")
}

func TestUpload_CleansUpBlobOnSaveFailure(t *testing.T) {
	f := newFixture(&stubOCR{}, &stubClassifier{}, &stubAnalysis{})
	f.docs.saveErr = errors.New("disk full")

	_, err := f.svc.Upload(context.Background(), pdfUpload())

	require.Error(t, err)
	assert.Empty(t, f.blobs.blobs)
}

func TestGet_ForbiddenForOtherUser(t *testing.T) {
	f := newFixture(&stubOCR{}, &stubClassifier{}, &stubAnalysis{})
	f.seed(models.StatusUploaded, nil)

	_, err := f.svc.Get("doc_1", "user_2")
	assert.ErrorIs(t, err, interfaces.ErrForbidden)

	doc, err := f.svc.Get("doc_1", "user_1")
	require.NoError(t, err)
	assert.Equal(t, "doc_1", doc.ID)
}

func TestList_FiltersByOwner(t *testing.T) {
	f := newFixture(&stubOCR{}, &stubClassifier{}, &stubAnalysis{})
	f.docs.docs["doc_1"] = &models.Document{ID: "doc_1", Metadata: models.DocumentMetadata{UserID: "user_1"}}
	f.docs.docs["doc_2"] = &models.Document{ID: "doc_2", Metadata: models.DocumentMetadata{UserID: "user_2"}}

	visible, err := f.svc.List("user_1")

	require.NoError(t, err)
	require.Len(t, visible, 1)
	assert.Equal(t, "doc_1", visible[0].ID)
}

func TestDelete_RemovesRecordChunksAndBlob(t *testing.T) {
	f := newFixture(&stubOCR{}, &stubClassifier{}, &stubAnalysis{})
	f.seed(models.StatusComplete, nil)

	err := f.svc.Delete(context.Background(), "doc_1", "user_1")

	require.NoError(t, err)
	assert.Empty(t, f.docs.docs)
	assert.Empty(t, f.blobs.blobs)
	assert.Equal(t, []string{"doc_1"}, f.chunks.deleted)
}

func TestRunOCR_MovesToOCRComplete(t *testing.T) {
	extraction := &models.ExtractionResult{RawText: "This lease agreement...", Confidence: 0.95}
	f := newFixture(&stubOCR{result: extraction}, &stubClassifier{}, &stubAnalysis{})
	f.seed(models.StatusUploaded, nil)

	doc, err := f.svc.RunOCR(context.Background(), "doc_1", "user_1")

	require.NoError(t, err)
	assert.Equal(t, models.StatusOCRComplete, doc.Status)
	assert.Equal(t, "This lease agreement...", doc.RawText())
}

func TestRunOCR_AllowedFromFailed(t *testing.T) {
	extraction := &models.ExtractionResult{RawText: "recovered text"}
	f := newFixture(&stubOCR{result: extraction}, &stubClassifier{}, &stubAnalysis{})
	f.seed(models.StatusFailed, func(d *models.Document) {
		d.ErrorMessage = "text extraction failed: earlier outage"
	})

	doc, err := f.svc.RunOCR(context.Background(), "doc_1", "user_1")

	require.NoError(t, err)
	assert.Equal(t, models.StatusOCRComplete, doc.Status)
	assert.Empty(t, doc.ErrorMessage)
}

func TestRunOCR_OverwritesExistingExtraction(t *testing.T) {
	extraction := &models.ExtractionResult{RawText: "fresh extraction", Confidence: 0.97}
	f := newFixture(&stubOCR{result: extraction}, &stubClassifier{}, &stubAnalysis{})
	f.seed(models.StatusOCRComplete, func(d *models.Document) {
		d.Extraction = &models.ExtractionResult{RawText: "stale extraction", Confidence: 0.5}
	})

	doc, err := f.svc.RunOCR(context.Background(), "doc_1", "user_1")

	require.NoError(t, err)
	assert.Equal(t, models.StatusOCRComplete, doc.Status)
	assert.Equal(t, "fresh extraction", doc.RawText())
	assert.Equal(t, "fresh extraction", f.docs.docs["doc_1"].RawText())
}

func TestRunOCR_ReRunnableFromCompletedDocument(t *testing.T) {
	extraction := &models.ExtractionResult{RawText: "second pass"}
	f := newFixture(&stubOCR{result: extraction}, &stubClassifier{}, &stubAnalysis{})
	f.seed(models.StatusComplete, nil)

	doc, err := f.svc.RunOCR(context.Background(), "doc_1", "user_1")

	require.NoError(t, err)
	assert.Equal(t, models.StatusOCRComplete, doc.Status)
	assert.Equal(t, "second pass", doc.RawText())
}

func TestRunOCR_RejectsConcurrentClaim(t *testing.T) {
	f := newFixture(&stubOCR{}, &stubClassifier{}, &stubAnalysis{})
	f.seed(models.StatusProcessing, nil)

	_, err := f.svc.RunOCR(context.Background(), "doc_1", "user_1")
	assert.ErrorIs(t, err, interfaces.ErrStatusConflict)
}

func TestRunOCR_FailureRecordsFailedStatus(t *testing.T) {
	f := newFixture(&stubOCR{err: errors.New("provider outage")}, &stubClassifier{}, &stubAnalysis{})
	f.seed(models.StatusUploaded, nil)

	_, err := f.svc.RunOCR(context.Background(), "doc_1", "user_1")

	require.ErrorContains(t, err, "provider outage")
	stored := f.docs.docs["doc_1"]
	assert.Equal(t, models.StatusFailed, stored.Status)
	assert.Contains(t, stored.ErrorMessage, "provider outage")
}

func TestRunClassification_SetsTypeAndClauses(t *testing.T) {
	clauses := []models.Clause{{ID: "clause_1", ClauseType: models.ClauseSecurityDeposit}}
	f := newFixture(&stubOCR{}, &stubClassifier{docType: models.DocTypeRentalAgreement, clauses: clauses}, &stubAnalysis{})
	f.seed(models.StatusOCRComplete, func(d *models.Document) {
		d.Extraction = &models.ExtractionResult{RawText: "This lease agreement..."}
	})

	doc, err := f.svc.RunClassification(context.Background(), "doc_1", "user_1")

	require.NoError(t, err)
	assert.Equal(t, models.StatusClassified, doc.Status)
	assert.Equal(t, models.DocTypeRentalAgreement, doc.DocumentType)
	assert.Len(t, doc.Clauses, 1)
}

func TestRunClassification_FailsWithoutExtractedText(t *testing.T) {
	f := newFixture(&stubOCR{}, &stubClassifier{}, &stubAnalysis{})
	f.seed(models.StatusOCRComplete, nil)

	_, err := f.svc.RunClassification(context.Background(), "doc_1", "user_1")

	require.ErrorContains(t, err, "no extracted text")
	assert.Equal(t, models.StatusFailed, f.docs.docs["doc_1"].Status)
}

func TestRunAnalysis_SetsSummaryAndRisk(t *testing.T) {
	result := &interfaces.AnalysisResult{
		Summary:     "A standard lease with one risky clause.",
		KeyFindings: []string{"Unusual late fee"},
		OverallRisk: models.RiskMedium,
	}
	f := newFixture(&stubOCR{}, &stubClassifier{}, &stubAnalysis{result: result})
	f.seed(models.StatusClassified, func(d *models.Document) {
		d.Clauses = []models.Clause{{ID: "clause_1"}}
	})

	doc, err := f.svc.RunAnalysis(context.Background(), "doc_1", "user_1")

	require.NoError(t, err)
	assert.Equal(t, models.StatusAnalyzed, doc.Status)
	assert.Equal(t, "A standard lease with one risky clause.", doc.Summary)
	assert.Equal(t, models.RiskMedium, doc.OverallRisk)
}

func TestFinalize_RequiresAnalyzed(t *testing.T) {
	f := newFixture(&stubOCR{}, &stubClassifier{}, &stubAnalysis{})
	f.seed(models.StatusAnalyzed, nil)

	doc, err := f.svc.Finalize(context.Background(), "doc_1", "user_1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusComplete, doc.Status)

	_, err = f.svc.Finalize(context.Background(), "doc_1", "user_1")
	assert.ErrorIs(t, err, interfaces.ErrStatusConflict)
}

func TestFileExtension(t *testing.T) {
	assert.Equal(t, "pdf", fileExtension("lease.PDF"))
	assert.Equal(t, "docx", fileExtension("contract.docx"))
	assert.Equal(t, "bin", fileExtension("noextension"))
}
