package server

import (
	"net/http"
	"strings"
)

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// Upload
	mux.HandleFunc("/api/upload", s.app.UploadHandler.UploadHandler)
	mux.HandleFunc("/api/upload/", s.app.UploadHandler.StatusHandler) // GET /{id}/status

	// Documents
	mux.HandleFunc("/api/documents", s.app.DocumentsHandler.ListHandler)
	mux.HandleFunc("/api/documents/", s.app.DocumentsHandler.DeleteHandler) // DELETE /{id}

	// Processing pipeline
	mux.HandleFunc("/api/process-ocr", s.app.ProcessingHandler.ProcessOCRHandler)
	mux.HandleFunc("/api/ocr-result/", s.app.ProcessingHandler.OCRResultHandler)
	mux.HandleFunc("/api/classify-clauses", s.app.ProcessingHandler.ClassifyHandler)
	mux.HandleFunc("/api/analyze", s.app.ProcessingHandler.AnalyzeHandler)
	mux.HandleFunc("/api/analysis/", s.handleAnalysisRoutes) // GET /{id} and /{id}/export

	// Knowledge base and legal corpus
	mux.HandleFunc("/api/create-knowledge-base", s.app.KnowledgeHandler.CreateHandler)
	mux.HandleFunc("/api/search-knowledge", s.app.KnowledgeHandler.SearchHandler)
	mux.HandleFunc("/api/legal-knowledge/search", s.app.KnowledgeHandler.LegalSearchHandler)

	// Question answering
	mux.HandleFunc("/api/qa", s.app.QAHandler.AskHandler)
	mux.HandleFunc("/api/qa/history/", s.app.QAHandler.HistoryHandler)
	mux.HandleFunc("/api/qa/suggested/", s.app.QAHandler.SuggestedHandler)

	// Settings
	mux.HandleFunc("/api/settings/api-keys", s.app.SettingsHandler.APIKeysHandler)

	// System
	mux.HandleFunc("/api/version", s.app.APIHandler.VersionHandler)
	mux.HandleFunc("/api/health", s.app.APIHandler.HealthHandler)

	// 404 handler for unmatched API routes
	mux.HandleFunc("/api/", s.app.APIHandler.NotFoundHandler)

	return mux
}

// handleAnalysisRoutes routes /api/analysis/{id} and /api/analysis/{id}/export
func (s *Server) handleAnalysisRoutes(w http.ResponseWriter, r *http.Request) {
	if strings.HasSuffix(r.URL.Path, "/export") {
		s.app.ProcessingHandler.ExportHandler(w, r)
		return
	}
	s.app.ProcessingHandler.AnalysisHandler(w, r)
}
