package handlers

import (
	"fmt"
	"net/http"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lexiq/internal/interfaces"
)

// ProcessingHandler drives the OCR, classification and analysis stages and
// serves their results.
type ProcessingHandler struct {
	documents interfaces.DocumentService
	analysis  interfaces.AnalysisService
	exports   interfaces.BlobStorage
	logger    arbor.ILogger
}

func NewProcessingHandler(documents interfaces.DocumentService, analysis interfaces.AnalysisService, exports interfaces.BlobStorage, logger arbor.ILogger) *ProcessingHandler {
	return &ProcessingHandler{
		documents: documents,
		analysis:  analysis,
		exports:   exports,
		logger:    logger,
	}
}

type processingRequest struct {
	DocumentID string `json:"document_id" validate:"required"`
}

// ProcessOCRHandler runs text extraction on an uploaded document.
// POST /api/process-ocr
func (h *ProcessingHandler) ProcessOCRHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req processingRequest
	if !DecodeAndValidate(w, r, &req) {
		return
	}

	doc, err := h.documents.RunOCR(r.Context(), req.DocumentID, UserID(r))
	if err != nil {
		WriteServiceError(w, h.logger, err, "OCR processing failed")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success":               true,
		"document_id":           doc.ID,
		"message":               "OCR processing completed successfully",
		"extracted_text_length": len(doc.RawText()),
		"pages_processed":       len(doc.Extraction.Pages),
		"tables_found":          len(doc.Extraction.Tables),
	})
}

// OCRResultHandler returns the stored extraction result.
// GET /api/ocr-result/{id}
func (h *ProcessingHandler) OCRResultHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	id := PathID(r, "/api/ocr-result/")
	doc, err := h.documents.Get(id, UserID(r))
	if err != nil {
		WriteServiceError(w, h.logger, err, "Failed to get OCR result")
		return
	}

	if doc.Extraction == nil {
		WriteError(w, http.StatusNotFound, "OCR data not found. Process the document first.")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"document_id":    doc.ID,
		"status":         doc.Status,
		"extracted_data": doc.Extraction,
		"ocr_confidence": doc.Extraction.Confidence,
		"processed_at":   doc.UpdatedAt,
	})
}

// ClassifyHandler classifies the document type and segments clauses.
// POST /api/classify-clauses
func (h *ProcessingHandler) ClassifyHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req processingRequest
	if !DecodeAndValidate(w, r, &req) {
		return
	}

	doc, err := h.documents.RunClassification(r.Context(), req.DocumentID, UserID(r))
	if err != nil {
		WriteServiceError(w, h.logger, err, "Clause classification failed")
		return
	}

	clauseTypes := make([]string, 0, len(doc.Clauses))
	seen := make(map[string]bool, len(doc.Clauses))
	for _, clause := range doc.Clauses {
		ct := string(clause.ClauseType)
		if !seen[ct] {
			seen[ct] = true
			clauseTypes = append(clauseTypes, ct)
		}
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success":       true,
		"document_id":   doc.ID,
		"message":       "Clause classification completed successfully",
		"document_type": doc.DocumentType,
		"clauses_found": len(doc.Clauses),
		"clause_types":  clauseTypes,
	})
}

// AnalyzeHandler runs the document-level risk analysis.
// POST /api/analyze
func (h *ProcessingHandler) AnalyzeHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req processingRequest
	if !DecodeAndValidate(w, r, &req) {
		return
	}

	doc, err := h.documents.RunAnalysis(r.Context(), req.DocumentID, UserID(r))
	if err != nil {
		WriteServiceError(w, h.logger, err, "Document analysis failed")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success":          true,
		"document_id":      doc.ID,
		"message":          "Document analysis completed successfully",
		"overall_risk":     doc.OverallRisk,
		"summary":          doc.Summary,
		"key_findings":     doc.KeyFindings,
		"clauses_analyzed": len(doc.Clauses),
	})
}

// AnalysisHandler returns the full analysis result for a document.
// GET /api/analysis/{id}
func (h *ProcessingHandler) AnalysisHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	id := PathID(r, "/api/analysis/")
	doc, err := h.documents.Get(id, UserID(r))
	if err != nil {
		WriteServiceError(w, h.logger, err, "Failed to get analysis result")
		return
	}

	if doc.Summary == "" && doc.OverallRisk == "" {
		WriteError(w, http.StatusNotFound, "Analysis not complete. Process the document first.")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"document_id":   doc.ID,
		"file_name":     doc.Metadata.FileName,
		"document_type": doc.DocumentType,
		"overall_risk":  doc.OverallRisk,
		"summary":       doc.Summary,
		"key_findings":  doc.KeyFindings,
		"clauses":       doc.Clauses,
		"processed_at":  doc.UpdatedAt,
		"status":        doc.Status,
	})
}

// ExportHandler renders the analysis report as a downloadable PDF.
// GET /api/analysis/{id}/export
func (h *ProcessingHandler) ExportHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	id := PathID(r, "/api/analysis/")
	doc, err := h.documents.Get(id, UserID(r))
	if err != nil {
		WriteServiceError(w, h.logger, err, "Failed to export analysis")
		return
	}

	pdfBytes, err := h.analysis.RenderReport(doc)
	if err != nil {
		WriteServiceError(w, h.logger, err, "Failed to render analysis report")
		return
	}

	filename := fmt.Sprintf("analysis-%s.pdf", doc.ID)
	if err := h.exports.Put(filename, pdfBytes); err != nil {
		h.logger.Warn().Err(err).Str("document_id", doc.ID).Msg("Failed to save export copy")
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	w.Write(pdfBytes)
}
