package interfaces

import (
	"context"

	"github.com/ternarybob/lexiq/internal/models"
)

// ClassifierService segments a document's extracted text into typed,
// risk-scored clauses and classifies the overall document type.
type ClassifierService interface {
	ClassifyDocumentType(ctx context.Context, rawText string) (models.DocumentType, error)
	SegmentClauses(ctx context.Context, rawText string) ([]models.Clause, error)
}

// AnalysisResult is the document-level risk summary produced after
// classification.
type AnalysisResult struct {
	Summary     string
	KeyFindings []string
	OverallRisk models.RiskLevel
}

// AnalysisService produces the document-level summary, key findings and
// overall risk from classified clauses.
type AnalysisService interface {
	Analyze(ctx context.Context, docType models.DocumentType, clauses []models.Clause) (*AnalysisResult, error)
	RenderReport(doc *models.Document) ([]byte, error)
}

// KnowledgeService builds and searches a document's semantic knowledge base.
type KnowledgeService interface {
	// BuildKnowledgeBase chunks the document, embeds each chunk and persists
	// the result, replacing any previous build. Per-chunk embedding failures
	// are skipped; the call fails only when the document has no text.
	BuildKnowledgeBase(ctx context.Context, doc *models.Document) (int, error)

	// Search embeds the query and returns up to k chunks ordered by
	// descending cosine similarity. Fails when the knowledge base has not
	// been built for the document.
	Search(ctx context.Context, documentID, query string, k int) ([]models.ScoredChunk, error)
}

// CorpusService searches the general legal-knowledge corpus. It is
// stateless and never mixed with per-document vectors.
type CorpusService interface {
	Search(ctx context.Context, query string, limit int) ([]models.CorpusResult, error)
}

// QAService answers natural-language questions about a document using
// retrieval-augmented generation.
type QAService interface {
	Answer(ctx context.Context, doc *models.Document, userID, question string) (*models.QAAnswer, error)
	History(documentID string, limit int) ([]*models.QARecord, error)
	SuggestedQuestions(doc *models.Document) []string
}
