package handlers

import (
	"net/http"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lexiq/internal/interfaces"
)

// QAHandler serves question answering, question history and suggested
// questions for a document.
type QAHandler struct {
	documents interfaces.DocumentService
	qa        interfaces.QAService
	logger    arbor.ILogger
}

func NewQAHandler(documents interfaces.DocumentService, qa interfaces.QAService, logger arbor.ILogger) *QAHandler {
	return &QAHandler{
		documents: documents,
		qa:        qa,
		logger:    logger,
	}
}

type qaRequest struct {
	DocumentID string `json:"document_id" validate:"required"`
	Question   string `json:"question" validate:"required,min=3"`
	UserID     string `json:"user_id"`
}

// AskHandler answers a question about a document.
// POST /api/qa
func (h *QAHandler) AskHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req qaRequest
	if !DecodeAndValidate(w, r, &req) {
		return
	}

	userID := UserID(r)
	if userID == "" {
		userID = req.UserID
	}

	doc, err := h.documents.Get(req.DocumentID, userID)
	if err != nil {
		WriteServiceError(w, h.logger, err, "Failed to answer question")
		return
	}

	answer, err := h.qa.Answer(r.Context(), doc, userID, req.Question)
	if err != nil {
		h.logger.Error().Err(err).Str("document_id", doc.ID).Msg("Question answering failed")
		WriteError(w, http.StatusInternalServerError, "Failed to answer question")
		return
	}

	WriteJSON(w, http.StatusOK, answer)
}

// HistoryHandler returns recent answered questions for a document.
// GET /api/qa/history/{id}
func (h *QAHandler) HistoryHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	id := PathID(r, "/api/qa/history/")
	if _, err := h.documents.Get(id, UserID(r)); err != nil {
		WriteServiceError(w, h.logger, err, "Failed to get question history")
		return
	}

	limit := QueryInt(r, "limit", 10)
	history, err := h.qa.History(id, limit)
	if err != nil {
		h.logger.Error().Err(err).Str("document_id", id).Msg("Failed to load question history")
		WriteError(w, http.StatusInternalServerError, "Failed to get question history")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"document_id":     id,
		"history":         history,
		"total_questions": len(history),
	})
}

// SuggestedHandler returns suggested questions for a document.
// GET /api/qa/suggested/{id}
func (h *QAHandler) SuggestedHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	id := PathID(r, "/api/qa/suggested/")
	doc, err := h.documents.Get(id, UserID(r))
	if err != nil {
		WriteServiceError(w, h.logger, err, "Failed to get suggested questions")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"document_id":         doc.ID,
		"document_type":       doc.DocumentType,
		"suggested_questions": h.qa.SuggestedQuestions(doc),
	})
}
