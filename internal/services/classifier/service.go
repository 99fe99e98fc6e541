package classifier

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lexiq/internal/interfaces"
	"github.com/ternarybob/lexiq/internal/models"
	"github.com/ternarybob/lexiq/internal/services/llm"
)

const (
	documentTypeSampleLimit = 2000
	originalTextLimit       = 2000
	plainLanguageLimit      = 500
	riskReasonLimit         = 300
	maxRecommendations      = 3

	parsedClauseConfidence   = 0.8
	fallbackClauseConfidence = 0.3
)

// Service segments documents into typed, risk-scored clauses using the chat
// model. Model output is never trusted: every enum is coerced to a valid
// value and every text field is bounded.
type Service struct {
	chat   interfaces.LLMService
	logger arbor.ILogger
}

// NewService creates a clause classifier service
func NewService(chat interfaces.LLMService, logger arbor.ILogger) *Service {
	return &Service{chat: chat, logger: logger}
}

var _ interfaces.ClassifierService = (*Service)(nil)

// ClassifyDocumentType classifies the document into one of the known legal
// document categories from its opening text. Any answer outside the taxonomy
// coerces to other.
func (s *Service) ClassifyDocumentType(ctx context.Context, rawText string) (models.DocumentType, error) {
	sample := truncate(rawText, documentTypeSampleLimit)

	categories := make([]string, 0, len(models.DocumentTypes()))
	for _, dt := range models.DocumentTypes() {
		categories = append(categories, "- "+string(dt))
	}

	prompt := fmt.Sprintf(`Analyze this legal document and classify it into one of these categories:
%s

Document text (first %d characters):
%s

Respond with ONLY the category name, nothing else.`, strings.Join(categories, "\n"), documentTypeSampleLimit, sample)

	response, err := s.chat.Chat(ctx, []interfaces.Message{{Role: "user", Content: prompt}})
	if err != nil {
		return "", fmt.Errorf("document type classification failed: %w", err)
	}

	docType := models.ParseDocumentType(strings.ToLower(strings.TrimSpace(response)))

	s.logger.Debug().
		Str("document_type", string(docType)).
		Msg("Document type classified")

	return docType, nil
}

// clausePayload is the model's JSON shape for one identified clause
type clausePayload struct {
	OriginalText    string   `json:"original_text"`
	ClauseType      string   `json:"clause_type"`
	PlainLanguage   string   `json:"plain_language"`
	RiskLevel       string   `json:"risk_level"`
	RiskReason      string   `json:"risk_reason"`
	Recommendations []string `json:"recommendations"`
}

// SegmentClauses asks the model to segment the document into distinct legal
// clauses. A malformed response degrades to a single synthetic clause
// covering the whole document rather than failing the stage.
func (s *Service) SegmentClauses(ctx context.Context, rawText string) ([]models.Clause, error) {
	clauseTypes := make([]string, 0, len(models.ClauseTypes()))
	for _, ct := range models.ClauseTypes() {
		clauseTypes = append(clauseTypes, string(ct))
	}

	prompt := fmt.Sprintf(`You are a legal document analysis expert. Analyze this document and identify distinct legal clauses.

For each clause you identify, provide:
1. The exact text of the clause
2. The clause type from this list: %s
3. A plain-language explanation (Grade 8 reading level, max 120 words)
4. Risk level: high, medium, or low
5. Explanation of why this risk level was assigned
6. 2-3 specific recommendations for the reader

Document text:
%s

Respond in this JSON format:
{
    "clauses": [
        {
            "original_text": "exact clause text here",
            "clause_type": "clause_type_from_list",
            "plain_language": "simple explanation here",
            "risk_level": "high|medium|low",
            "risk_reason": "why this risk level",
            "recommendations": ["recommendation 1", "recommendation 2", "recommendation 3"]
        }
    ]
}

Only include substantive legal clauses, not headers or signatures.`, strings.Join(clauseTypes, ", "), rawText)

	start := time.Now()
	response, err := s.chat.Chat(ctx, []interfaces.Message{{Role: "user", Content: prompt}})
	if err != nil {
		return nil, fmt.Errorf("clause segmentation failed: %w", err)
	}

	var parsed struct {
		Clauses []clausePayload `json:"clauses"`
	}
	if err := json.Unmarshal([]byte(llm.CleanMarkdownFences(response)), &parsed); err != nil {
		s.logger.Warn().
			Err(err).
			Int("response_length", len(response)).
			Msg("Clause segmentation response unparseable, using fallback clause")
		return []models.Clause{fallbackClause(rawText)}, nil
	}

	clauses := make([]models.Clause, 0, len(parsed.Clauses))
	for i, c := range parsed.Clauses {
		clauses = append(clauses, coerceClause(i+1, c))
	}

	s.logger.Info().
		Int("clauses_found", len(clauses)).
		Dur("duration", time.Since(start)).
		Msg("Clause segmentation completed")

	return clauses, nil
}

// coerceClause converts one model payload to a valid Clause: enums default
// on unrecognized values, text fields are truncated to their bounds, and
// recommendations are capped.
func coerceClause(n int, c clausePayload) models.Clause {
	recommendations := c.Recommendations
	if len(recommendations) > maxRecommendations {
		recommendations = recommendations[:maxRecommendations]
	}

	return models.Clause{
		ID:              fmt.Sprintf("clause_%d", n),
		ClauseType:      models.ParseClauseType(c.ClauseType),
		OriginalText:    truncate(c.OriginalText, originalTextLimit),
		PlainLanguage:   truncate(c.PlainLanguage, plainLanguageLimit),
		RiskLevel:       models.ParseRiskLevel(c.RiskLevel),
		RiskReason:      truncate(c.RiskReason, riskReasonLimit),
		Recommendations: recommendations,
		ConfidenceScore: parsedClauseConfidence,
	}
}

// fallbackClause is the single synthetic clause produced when the model's
// segmentation output cannot be parsed.
func fallbackClause(rawText string) models.Clause {
	return models.Clause{
		ID:            "clause_1",
		ClauseType:    models.ClauseOther,
		OriginalText:  truncate(rawText, originalTextLimit),
		PlainLanguage: "This document contains legal terms that require careful review. Please consult with a legal professional for detailed analysis.",
		RiskLevel:     models.RiskMedium,
		RiskReason:    "Unable to automatically parse document structure.",
		Recommendations: []string{
			"Review the entire document carefully",
			"Consult with a qualified attorney",
			"Ask questions about unclear terms",
		},
		ConfidenceScore: fallbackClauseConfidence,
	}
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
