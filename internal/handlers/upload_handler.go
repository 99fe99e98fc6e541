package handlers

import (
	"io"
	"net/http"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lexiq/internal/interfaces"
)

// uploadFormField is the multipart form field carrying the file.
const uploadFormField = "document"

type UploadHandler struct {
	documents   interfaces.DocumentService
	maxSizeByte int64
	logger      arbor.ILogger
}

func NewUploadHandler(documents interfaces.DocumentService, maxSizeBytes int64, logger arbor.ILogger) *UploadHandler {
	return &UploadHandler{
		documents:   documents,
		maxSizeByte: maxSizeBytes,
		logger:      logger,
	}
}

// UploadHandler accepts a multipart document upload.
// POST /api/upload
func (h *UploadHandler) UploadHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxSizeByte+1)
	if err := r.ParseMultipartForm(h.maxSizeByte); err != nil {
		WriteError(w, http.StatusBadRequest, "Failed to parse multipart upload")
		return
	}

	file, header, err := r.FormFile(uploadFormField)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "Missing 'document' file field")
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "Failed to read uploaded file")
		return
	}

	doc, err := h.documents.Upload(r.Context(), &interfaces.UploadRequest{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Content:     content,
		UserID:      UserID(r),
	})
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success":     true,
		"document_id": doc.ID,
		"message":     "Document uploaded successfully and queued for processing.",
	})
}

// StatusHandler returns the processing status of an uploaded document.
// GET /api/upload/{id}/status
func (h *UploadHandler) StatusHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	id := PathID(r, "/api/upload/")
	if id == "" {
		WriteError(w, http.StatusBadRequest, "Missing document ID")
		return
	}

	doc, err := h.documents.Get(id, UserID(r))
	if err != nil {
		WriteServiceError(w, h.logger, err, "Failed to get upload status")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"document_id":  doc.ID,
		"status":       doc.Status,
		"uploaded_at":  doc.CreatedAt,
		"last_updated": doc.UpdatedAt,
		"file_name":    doc.Metadata.FileName,
	})
}
