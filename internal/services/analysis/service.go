package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lexiq/internal/interfaces"
	"github.com/ternarybob/lexiq/internal/models"
	"github.com/ternarybob/lexiq/internal/services/llm"
	"github.com/ternarybob/lexiq/internal/services/pdf"
)

// Service produces the document-level risk summary from classified clauses
// and renders exportable analysis reports.
type Service struct {
	chat     interfaces.LLMService
	renderer *pdf.Service
	logger   arbor.ILogger
}

// NewService creates an analysis service
func NewService(chat interfaces.LLMService, renderer *pdf.Service, logger arbor.ILogger) *Service {
	return &Service{chat: chat, renderer: renderer, logger: logger}
}

var _ interfaces.AnalysisService = (*Service)(nil)

// Analyze generates the summary and key findings for the classified clauses
// and computes the overall risk. The LLM call degrades to deterministic
// fallback copy on parse failure; overall risk is always computed locally.
func (s *Service) Analyze(ctx context.Context, docType models.DocumentType, clauses []models.Clause) (*interfaces.AnalysisResult, error) {
	if len(clauses) == 0 {
		return nil, fmt.Errorf("no clauses found in document")
	}

	start := time.Now()
	summary, findings := s.generateSummaryAndFindings(ctx, docType, clauses)
	overallRisk := OverallRisk(clauses)

	s.logger.Info().
		Str("document_type", string(docType)).
		Str("overall_risk", string(overallRisk)).
		Int("clauses_analyzed", len(clauses)).
		Dur("duration", time.Since(start)).
		Msg("Document analysis completed")

	return &interfaces.AnalysisResult{
		Summary:     summary,
		KeyFindings: findings,
		OverallRisk: overallRisk,
	}, nil
}

func (s *Service) generateSummaryAndFindings(ctx context.Context, docType models.DocumentType, clauses []models.Clause) (string, []string) {
	clauseSummaries := make([]string, 0, len(clauses))
	for _, clause := range clauses {
		clauseSummaries = append(clauseSummaries,
			fmt.Sprintf("- %s: %s (Risk: %s)", clause.ClauseType, clause.PlainLanguage, clause.RiskLevel))
	}

	typeLabel := strings.ReplaceAll(string(docType), "_", " ")
	prompt := fmt.Sprintf(`Analyze this %s document and provide:

1. A comprehensive summary (2-3 sentences) of what this document is about and its main purpose
2. 3-5 key findings that highlight the most important things the reader should know

Clause Analysis:
%s

Respond in this JSON format:
{
    "summary": "comprehensive summary here",
    "key_findings": [
        "key finding 1",
        "key finding 2",
        "key finding 3"
    ]
}

Focus on practical implications for the person signing this document.`, typeLabel, strings.Join(clauseSummaries, "\n"))

	response, err := s.chat.Chat(ctx, []interfaces.Message{{Role: "user", Content: prompt}})
	if err == nil {
		var parsed struct {
			Summary     string   `json:"summary"`
			KeyFindings []string `json:"key_findings"`
		}
		if jsonErr := json.Unmarshal([]byte(llm.CleanMarkdownFences(response)), &parsed); jsonErr == nil {
			summary := parsed.Summary
			if summary == "" {
				summary = "This document contains legal terms that require review."
			}
			findings := parsed.KeyFindings
			if len(findings) == 0 {
				findings = []string{"Document requires legal review"}
			}
			return summary, findings
		}
		s.logger.Warn().Int("response_length", len(response)).Msg("Summary response unparseable, using fallback")
	} else {
		s.logger.Warn().Err(err).Msg("Summary generation failed, using fallback")
	}

	return fallbackSummary(typeLabel, clauses)
}

func fallbackSummary(typeLabel string, clauses []models.Clause) (string, []string) {
	minRisk, maxRisk := riskRange(clauses)
	return fmt.Sprintf("This %s contains multiple clauses with varying risk levels that require careful consideration.", typeLabel),
		[]string{
			fmt.Sprintf("Document contains %d distinct clauses", len(clauses)),
			fmt.Sprintf("Risk levels range from %s to %s", minRisk, maxRisk),
			"Professional legal review recommended",
		}
}

var riskScores = map[models.RiskLevel]int{
	models.RiskHigh:   3,
	models.RiskMedium: 2,
	models.RiskLow:    1,
}

// OverallRisk averages the clause risk scores (high 3, medium 2, low 1):
// >= 2.5 is high, >= 1.5 is medium, below that low. No clauses rates medium.
func OverallRisk(clauses []models.Clause) models.RiskLevel {
	if len(clauses) == 0 {
		return models.RiskMedium
	}

	total := 0
	for _, clause := range clauses {
		total += riskScores[clause.RiskLevel]
	}
	average := float64(total) / float64(len(clauses))

	switch {
	case average >= 2.5:
		return models.RiskHigh
	case average >= 1.5:
		return models.RiskMedium
	default:
		return models.RiskLow
	}
}

func riskRange(clauses []models.Clause) (models.RiskLevel, models.RiskLevel) {
	minScore, maxScore := 4, 0
	minRisk, maxRisk := models.RiskMedium, models.RiskMedium
	for _, clause := range clauses {
		score := riskScores[clause.RiskLevel]
		if score < minScore {
			minScore = score
			minRisk = clause.RiskLevel
		}
		if score > maxScore {
			maxScore = score
			maxRisk = clause.RiskLevel
		}
	}
	return minRisk, maxRisk
}

// RenderReport assembles a markdown analysis report for the document and
// renders it to PDF.
func (s *Service) RenderReport(doc *models.Document) ([]byte, error) {
	if doc.Status != models.StatusAnalyzed && doc.Status != models.StatusComplete {
		return nil, fmt.Errorf("document %s has not been analyzed: %w", doc.ID, interfaces.ErrStatusConflict)
	}

	var b strings.Builder
	typeLabel := strings.ReplaceAll(string(doc.DocumentType), "_", " ")

	fmt.Fprintf(&b, "# Legal Document Analysis: %s\n\n", doc.Metadata.FileName)
	fmt.Fprintf(&b, "**Document type:** %s\n\n", typeLabel)
	fmt.Fprintf(&b, "**Overall risk:** %s\n\n", doc.OverallRisk)

	b.WriteString("## Summary\n\n")
	b.WriteString(doc.Summary)
	b.WriteString("\n\n")

	if len(doc.KeyFindings) > 0 {
		b.WriteString("## Key Findings\n\n")
		for _, finding := range doc.KeyFindings {
			fmt.Fprintf(&b, "- %s\n", finding)
		}
		b.WriteString("\n")
	}

	if len(doc.Clauses) > 0 {
		b.WriteString("## Clauses\n\n")
		b.WriteString("| Clause Type | Risk | Plain Language | Recommendations |\n")
		b.WriteString("| --- | --- | --- | --- |\n")
		for _, clause := range doc.Clauses {
			fmt.Fprintf(&b, "| %s | %s | %s | %s |\n",
				tableCell(string(clause.ClauseType)),
				tableCell(string(clause.RiskLevel)),
				tableCell(clause.PlainLanguage),
				tableCell(strings.Join(clause.Recommendations, "; ")))
		}
		b.WriteString("\n")
	}

	b.WriteString("---\n\n")
	b.WriteString("This analysis is for educational purposes only and does not constitute legal advice.\n")

	title := fmt.Sprintf("Analysis - %s", doc.Metadata.FileName)
	return s.renderer.ConvertMarkdownToPDF(b.String(), title)
}

func tableCell(s string) string {
	s = strings.ReplaceAll(s, "|", "/")
	return strings.ReplaceAll(s, "\n", " ")
}
