package handlers

import (
	"net/http"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lexiq/internal/interfaces"
)

const defaultSearchLimit = 5

// KnowledgeHandler serves knowledge-base creation, per-document semantic
// search and legal corpus search.
type KnowledgeHandler struct {
	documents interfaces.DocumentService
	knowledge interfaces.KnowledgeService
	corpus    interfaces.CorpusService
	logger    arbor.ILogger
}

func NewKnowledgeHandler(documents interfaces.DocumentService, knowledge interfaces.KnowledgeService, corpus interfaces.CorpusService, logger arbor.ILogger) *KnowledgeHandler {
	return &KnowledgeHandler{
		documents: documents,
		knowledge: knowledge,
		corpus:    corpus,
		logger:    logger,
	}
}

type createKnowledgeBaseRequest struct {
	DocumentID string `json:"document_id" validate:"required"`
}

// CreateHandler builds the semantic knowledge base for a document.
// POST /api/create-knowledge-base
func (h *KnowledgeHandler) CreateHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req createKnowledgeBaseRequest
	if !DecodeAndValidate(w, r, &req) {
		return
	}

	doc, err := h.documents.Get(req.DocumentID, UserID(r))
	if err != nil {
		WriteServiceError(w, h.logger, err, "Failed to create knowledge base")
		return
	}

	count, err := h.knowledge.BuildKnowledgeBase(r.Context(), doc)
	if err != nil {
		h.logger.Error().Err(err).Str("document_id", doc.ID).Msg("Knowledge base creation failed")
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success":              true,
		"document_id":          doc.ID,
		"message":              "Knowledge base created successfully",
		"chunks_created":       count,
		"embeddings_generated": count,
	})
}

// SearchHandler runs a semantic search over one document's knowledge base.
// GET /api/search-knowledge?document_id=...&query=...&limit=...
func (h *KnowledgeHandler) SearchHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	documentID := r.URL.Query().Get("document_id")
	query := r.URL.Query().Get("query")
	if documentID == "" || query == "" {
		WriteError(w, http.StatusBadRequest, "Both 'document_id' and 'query' parameters are required")
		return
	}
	limit := QueryInt(r, "limit", defaultSearchLimit)

	if _, err := h.documents.Get(documentID, UserID(r)); err != nil {
		WriteServiceError(w, h.logger, err, "Failed to search knowledge base")
		return
	}

	scored, err := h.knowledge.Search(r.Context(), documentID, query, limit)
	if err != nil {
		h.logger.Error().Err(err).Str("document_id", documentID).Msg("Knowledge base search failed")
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	results := make([]map[string]interface{}, 0, len(scored))
	for _, hit := range scored {
		results = append(results, map[string]interface{}{
			"chunk_id":   hit.Chunk.ID,
			"text":       hit.Chunk.Text,
			"chunk_type": hit.Chunk.ChunkType,
			"metadata":   hit.Chunk.Metadata,
			"similarity": hit.Similarity,
		})
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"document_id": documentID,
		"query":       query,
		"results":     results,
	})
}

// LegalSearchHandler queries the general legal-knowledge corpus.
// GET /api/legal-knowledge/search?query=...&limit=...
func (h *KnowledgeHandler) LegalSearchHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	query := r.URL.Query().Get("query")
	if query == "" {
		WriteError(w, http.StatusBadRequest, "The 'query' parameter is required")
		return
	}
	limit := QueryInt(r, "limit", 0)

	results, err := h.corpus.Search(r.Context(), query, limit)
	if err != nil {
		h.logger.Error().Err(err).Msg("Legal corpus search failed")
		WriteError(w, http.StatusInternalServerError, "Legal corpus search failed")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"query":   query,
		"results": results,
	})
}
