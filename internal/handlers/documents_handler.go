package handlers

import (
	"net/http"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lexiq/internal/interfaces"
)

// DocumentsHandler serves document listing and deletion.
type DocumentsHandler struct {
	documents interfaces.DocumentService
	logger    arbor.ILogger
}

func NewDocumentsHandler(documents interfaces.DocumentService, logger arbor.ILogger) *DocumentsHandler {
	return &DocumentsHandler{
		documents: documents,
		logger:    logger,
	}
}

// ListHandler returns the documents visible to the caller.
// GET /api/documents
func (h *DocumentsHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	docs, err := h.documents.List(UserID(r))
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to list documents")
		WriteError(w, http.StatusInternalServerError, "Failed to list documents")
		return
	}

	summaries := make([]map[string]interface{}, 0, len(docs))
	for _, doc := range docs {
		summaries = append(summaries, map[string]interface{}{
			"document_id":   doc.ID,
			"file_name":     doc.Metadata.FileName,
			"status":        doc.Status,
			"document_type": doc.DocumentType,
			"overall_risk":  doc.OverallRisk,
			"uploaded_at":   doc.CreatedAt,
		})
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"documents": summaries,
		"total":     len(summaries),
	})
}

// DeleteHandler removes a document, its stored file and its knowledge base.
// DELETE /api/documents/{id}
func (h *DocumentsHandler) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodDelete) {
		return
	}

	id := PathID(r, "/api/documents/")
	if id == "" {
		WriteError(w, http.StatusBadRequest, "Missing document ID")
		return
	}

	if err := h.documents.Delete(r.Context(), id, UserID(r)); err != nil {
		WriteServiceError(w, h.logger, err, "Failed to delete document")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success":     true,
		"document_id": id,
		"message":     "Document deleted",
	})
}
