package badger

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lexiq/internal/common"
	"github.com/ternarybob/lexiq/internal/interfaces"
	"github.com/ternarybob/lexiq/internal/models"
)

func newTestDB(t *testing.T) *BadgerDB {
	t.Helper()
	db, err := NewBadgerDB(arbor.NewLogger(), &common.BadgerConfig{
		Path: filepath.Join(t.TempDir(), "badger"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestDocumentStorage_SaveAndGet(t *testing.T) {
	store := NewDocumentStorage(newTestDB(t), arbor.NewLogger())

	doc := &models.Document{
		ID:     "doc_1",
		Status: models.StatusUploaded,
		Metadata: models.DocumentMetadata{
			FileName: "lease.pdf",
			MimeType: "application/pdf",
		},
	}
	require.NoError(t, store.SaveDocument(doc))
	assert.False(t, doc.CreatedAt.IsZero())

	loaded, err := store.GetDocument("doc_1")
	require.NoError(t, err)
	assert.Equal(t, "lease.pdf", loaded.Metadata.FileName)
	assert.Equal(t, models.StatusUploaded, loaded.Status)
}

func TestDocumentStorage_GetMissing(t *testing.T) {
	store := NewDocumentStorage(newTestDB(t), arbor.NewLogger())

	_, err := store.GetDocument("doc_missing")
	assert.ErrorIs(t, err, interfaces.ErrNotFound)
}

func TestDocumentStorage_Delete(t *testing.T) {
	store := NewDocumentStorage(newTestDB(t), arbor.NewLogger())

	require.NoError(t, store.SaveDocument(&models.Document{ID: "doc_1"}))
	require.NoError(t, store.DeleteDocument("doc_1"))

	_, err := store.GetDocument("doc_1")
	assert.ErrorIs(t, err, interfaces.ErrNotFound)

	assert.NoError(t, store.DeleteDocument("doc_1"))
}

func TestDocumentStorage_ListWithLimitAndOffset(t *testing.T) {
	store := NewDocumentStorage(newTestDB(t), arbor.NewLogger())

	for _, id := range []string{"doc_a", "doc_b", "doc_c"} {
		require.NoError(t, store.SaveDocument(&models.Document{ID: id}))
	}

	all, err := store.ListDocuments(0, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	page, err := store.ListDocuments(2, 1)
	require.NoError(t, err)
	assert.Len(t, page, 2)
}

func TestTransitionStatus_MovesThroughStages(t *testing.T) {
	store := NewDocumentStorage(newTestDB(t), arbor.NewLogger())
	require.NoError(t, store.SaveDocument(&models.Document{ID: "doc_1", Status: models.StatusUploaded}))

	doc, err := store.TransitionStatus("doc_1",
		[]models.ProcessingStatus{models.StatusUploaded}, models.StatusProcessing, nil)
	require.NoError(t, err)
	assert.Equal(t, models.StatusProcessing, doc.Status)

	doc, err = store.TransitionStatus("doc_1",
		[]models.ProcessingStatus{models.StatusProcessing}, models.StatusOCRComplete,
		func(d *models.Document) {
			d.Extraction = &models.ExtractionResult{RawText: "extracted text"}
		})
	require.NoError(t, err)
	assert.Equal(t, models.StatusOCRComplete, doc.Status)
	assert.Equal(t, "extracted text", doc.RawText())

	loaded, err := store.GetDocument("doc_1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusOCRComplete, loaded.Status)
	assert.Equal(t, "extracted text", loaded.RawText())
}

func TestTransitionStatus_ConflictOnWrongStatus(t *testing.T) {
	store := NewDocumentStorage(newTestDB(t), arbor.NewLogger())
	require.NoError(t, store.SaveDocument(&models.Document{ID: "doc_1", Status: models.StatusClassified}))

	_, err := store.TransitionStatus("doc_1",
		[]models.ProcessingStatus{models.StatusUploaded}, models.StatusProcessing, nil)
	assert.ErrorIs(t, err, interfaces.ErrStatusConflict)

	loaded, err := store.GetDocument("doc_1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusClassified, loaded.Status)
}

func TestTransitionStatus_MissingDocument(t *testing.T) {
	store := NewDocumentStorage(newTestDB(t), arbor.NewLogger())

	_, err := store.TransitionStatus("doc_missing",
		[]models.ProcessingStatus{models.StatusUploaded}, models.StatusProcessing, nil)
	assert.ErrorIs(t, err, interfaces.ErrNotFound)
}

func TestTransitionStatus_SingleWinnerPerStage(t *testing.T) {
	store := NewDocumentStorage(newTestDB(t), arbor.NewLogger())
	require.NoError(t, store.SaveDocument(&models.Document{ID: "doc_1", Status: models.StatusUploaded}))

	_, err := store.TransitionStatus("doc_1",
		[]models.ProcessingStatus{models.StatusUploaded}, models.StatusProcessing, nil)
	require.NoError(t, err)

	// A second claim on the same stage loses the swap.
	_, err = store.TransitionStatus("doc_1",
		[]models.ProcessingStatus{models.StatusUploaded}, models.StatusProcessing, nil)
	assert.ErrorIs(t, err, interfaces.ErrStatusConflict)
}
