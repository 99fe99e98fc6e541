// Package qa answers natural-language questions about a document by
// combining the document's knowledge base, the general legal corpus and
// the clause summaries into one grounded prompt.
package qa

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lexiq/internal/common"
	"github.com/ternarybob/lexiq/internal/interfaces"
	"github.com/ternarybob/lexiq/internal/models"
	"github.com/ternarybob/lexiq/internal/services/llm"
)

const (
	contextSnippetLimit = 500
	clauseSummaryLimit  = 200
	maxClauseSummaries  = 5

	disclaimer = "\n\n⚠️ This analysis is for educational purposes only and does not constitute legal advice. Please consult with a qualified attorney for legal decisions."
)

// Service answers questions with retrieval-augmented generation. Retrieval
// failures degrade the context rather than failing the question; every
// answered question is appended to the audit log.
type Service struct {
	chat      interfaces.LLMService
	knowledge interfaces.KnowledgeService
	corpus    interfaces.CorpusService
	records   interfaces.QAStorage
	config    *common.QAConfig
	logger    arbor.ILogger
}

// NewService creates a question-answering service
func NewService(chat interfaces.LLMService, knowledge interfaces.KnowledgeService, corpus interfaces.CorpusService, storage interfaces.StorageManager, config *common.QAConfig, logger arbor.ILogger) *Service {
	return &Service{
		chat:      chat,
		knowledge: knowledge,
		corpus:    corpus,
		records:   storage.QAStorage(),
		config:    config,
		logger:    logger,
	}
}

var _ interfaces.QAService = (*Service)(nil)

type answerPayload struct {
	Answer      string  `json:"answer"`
	Confidence  float64 `json:"confidence"`
	Reasoning   string  `json:"reasoning"`
	Limitations string  `json:"limitations"`
}

// Answer resolves one question against the document and persists the result.
func (s *Service) Answer(ctx context.Context, doc *models.Document, userID, question string) (*models.QAAnswer, error) {
	start := time.Now()

	var documentContext []models.ScoredChunk
	if doc.KnowledgeBaseCreated {
		chunks, err := s.knowledge.Search(ctx, doc.ID, question, s.config.DocumentChunks)
		if err != nil {
			s.logger.Warn().Err(err).Str("document_id", doc.ID).Msg("Knowledge base search failed, answering without document context")
		} else {
			documentContext = chunks
		}
	}

	legalContext, err := s.corpus.Search(ctx, question, s.config.CorpusResults)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Legal corpus search failed, answering without legal references")
		legalContext = nil
	}

	contextText, sources := buildContext(documentContext, legalContext, doc.Clauses)
	prompt := buildPrompt(doc.DocumentType, contextText, question)

	answer := s.generateAnswer(ctx, prompt, doc.DocumentType, sources, legalContext)
	answer.Question = question
	answer.ResponseTimeMs = time.Since(start).Milliseconds()

	record := &models.QARecord{
		ID:             common.NewQARecordID(),
		DocumentID:     doc.ID,
		UserID:         userID,
		Question:       question,
		Answer:         answer.Answer,
		Confidence:     answer.Confidence,
		Sources:        answer.Sources,
		ResponseTimeMs: answer.ResponseTimeMs,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.records.AppendRecord(record); err != nil {
		s.logger.Warn().Err(err).Str("document_id", doc.ID).Msg("Failed to persist question record")
	}

	return answer, nil
}

func (s *Service) generateAnswer(ctx context.Context, prompt string, docType models.DocumentType, sources []string, legalContext []models.CorpusResult) *models.QAAnswer {
	response, err := s.chat.Chat(ctx, []interfaces.Message{{Role: "user", Content: prompt}})
	if err != nil {
		s.logger.Warn().Err(err).Msg("Answer generation failed")
		return &models.QAAnswer{
			Answer: fmt.Sprintf("I encountered an issue while analyzing your question. The document appears to be a %s, but I cannot provide a specific answer at this time. Please review the document directly or consult with a legal professional.",
				readableType(docType)) + disclaimer,
			Confidence: 0.2,
			Sources:    []string{},
		}
	}

	var payload answerPayload
	if err := json.Unmarshal([]byte(llm.CleanMarkdownFences(response)), &payload); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to parse answer response")
		return &models.QAAnswer{
			Answer:     "I found some relevant information in your document, but I'm having trouble providing a detailed analysis right now. Please try rephrasing your question or consult the document clauses directly." + disclaimer,
			Confidence: 0.3,
			Sources:    capSources(sources, 3),
		}
	}

	text := payload.Answer
	if text == "" {
		text = "I couldn't find relevant information in the document to answer your question."
	}

	return &models.QAAnswer{
		Answer:     text + disclaimer,
		Confidence: clampConfidence(payload.Confidence),
		Sources:    capSources(sources, s.config.MaxSources),
		Citations:  buildCitations(legalContext),
	}
}

// History returns the most recent answered questions for a document.
func (s *Service) History(documentID string, limit int) ([]*models.QARecord, error) {
	if limit <= 0 || limit > s.config.HistoryLimit {
		limit = s.config.HistoryLimit
	}
	return s.records.GetHistory(documentID, limit)
}

func buildContext(documentContext []models.ScoredChunk, legalContext []models.CorpusResult, clauses []models.Clause) (string, []string) {
	var parts []string
	var sources []string

	if len(documentContext) > 0 {
		parts = append(parts, "=== DOCUMENT CONTEXT ===")
		for i, ctx := range documentContext {
			parts = append(parts, fmt.Sprintf("Context %d: %s...", i+1, truncate(ctx.Chunk.Text, contextSnippetLimit)))
			if ctx.Chunk.ChunkType == models.ChunkClause {
				sources = append(sources, fmt.Sprintf("Clause: %s", clauseTypeFromMetadata(ctx.Chunk.Metadata)))
			} else {
				sources = append(sources, fmt.Sprintf("Document section (similarity: %.2f)", ctx.Similarity))
			}
		}
	}

	if len(legalContext) > 0 {
		parts = append(parts, "\n=== LEGAL REFERENCES ===")
		for i, ref := range legalContext {
			parts = append(parts, fmt.Sprintf("Legal Reference %d: %s", i+1, ref.Snippet))
			sources = append(sources, fmt.Sprintf("Legal: %s", ref.Title))
		}
	}

	if len(clauses) > 0 {
		parts = append(parts, "\n=== DOCUMENT CLAUSES SUMMARY ===")
		for i, clause := range clauses {
			if i >= maxClauseSummaries {
				break
			}
			parts = append(parts, fmt.Sprintf("- %s: %s...", clause.ClauseType, truncate(clause.PlainLanguage, clauseSummaryLimit)))
		}
	}

	return strings.Join(parts, "\n"), sources
}

func buildPrompt(docType models.DocumentType, contextText, question string) string {
	return fmt.Sprintf(`You are a legal document analysis assistant. Answer the user's question based on the provided context from their %s.

IMPORTANT GUIDELINES:
1. Base your answer primarily on the document context provided
2. If the document doesn't contain relevant information, say so clearly
3. Use plain language (Grade 8 reading level)
4. Include specific references to clauses or sections when applicable
5. Always include the disclaimer that this is not legal advice
6. Be helpful but conservative in your interpretation
7. If uncertain, recommend consulting a legal professional

CONTEXT:
%s

USER QUESTION: %s

Provide your response in this JSON format:
{
    "answer": "Your detailed answer here",
    "confidence": 0.85,
    "reasoning": "Brief explanation of how you arrived at this answer",
    "limitations": "Any limitations or uncertainties in your answer"
}

Make sure your confidence score (0.0-1.0) reflects how well the available context addresses the question.`,
		readableType(docType), contextText, question)
}

// buildCitations creates citations from corpus hits only; document chunks
// are surfaced through sources instead.
func buildCitations(legalContext []models.CorpusResult) []models.Citation {
	citations := make([]models.Citation, 0, len(legalContext))
	for _, ref := range legalContext {
		source := ref.Source
		if source == "" {
			source = "Legal Reference"
		}
		reference := ref.Title
		if reference == "" {
			reference = "Unknown Reference"
		}
		citations = append(citations, models.Citation{
			Source:    source,
			Reference: reference,
			URL:       ref.Link,
		})
	}
	return citations
}

func clauseTypeFromMetadata(metadata map[string]interface{}) string {
	if clauseType, ok := metadata["clause_type"].(string); ok && clauseType != "" {
		return clauseType
	}
	return "Unknown"
}

func readableType(docType models.DocumentType) string {
	if docType == "" {
		return "legal document"
	}
	return strings.ReplaceAll(string(docType), "_", " ")
}

func clampConfidence(confidence float64) float64 {
	if confidence < 0.0 {
		return 0.0
	}
	if confidence > 1.0 {
		return 1.0
	}
	return confidence
}

func capSources(sources []string, limit int) []string {
	if sources == nil {
		return []string{}
	}
	if len(sources) > limit {
		return sources[:limit]
	}
	return sources
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
