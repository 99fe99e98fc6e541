package analysis

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lexiq/internal/interfaces"
	"github.com/ternarybob/lexiq/internal/models"
	"github.com/ternarybob/lexiq/internal/services/pdf"
)

type stubChat struct {
	response string
	err      error
}

func (s *stubChat) Embed(ctx context.Context, text string) ([]float32, error) {
	return nil, interfaces.ErrEmbeddingUnsupported
}

func (s *stubChat) Chat(ctx context.Context, messages []interfaces.Message) (string, error) {
	return s.response, s.err
}

func (s *stubChat) HealthCheck(ctx context.Context) error { return nil }

func (s *stubChat) Provider() interfaces.LLMProvider { return interfaces.LLMProviderClaude }

func (s *stubChat) Close() error { return nil }

func clausesWithRisks(risks ...models.RiskLevel) []models.Clause {
	clauses := make([]models.Clause, len(risks))
	for i, r := range risks {
		clauses[i] = models.Clause{
			ID:            "clause_1",
			ClauseType:    models.ClauseObligations,
			PlainLanguage: "plain language",
			RiskLevel:     r,
		}
	}
	return clauses
}

func TestOverallRisk_Thresholds(t *testing.T) {
	tests := []struct {
		name  string
		risks []models.RiskLevel
		want  models.RiskLevel
	}{
		{"all high", []models.RiskLevel{models.RiskHigh, models.RiskHigh}, models.RiskHigh},
		{"all low", []models.RiskLevel{models.RiskLow, models.RiskLow}, models.RiskLow},
		{"all medium", []models.RiskLevel{models.RiskMedium}, models.RiskMedium},
		{"exactly 2.5 averages high", []models.RiskLevel{models.RiskHigh, models.RiskMedium}, models.RiskHigh},
		{"exactly 1.5 averages medium", []models.RiskLevel{models.RiskMedium, models.RiskLow}, models.RiskMedium},
		{"just below 1.5 is low", []models.RiskLevel{models.RiskLow, models.RiskLow, models.RiskMedium}, models.RiskLow},
		{"mixed averages medium", []models.RiskLevel{models.RiskHigh, models.RiskLow}, models.RiskMedium},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, OverallRisk(clausesWithRisks(tt.risks...)))
		})
	}
}

func TestOverallRisk_NoClauses(t *testing.T) {
	assert.Equal(t, models.RiskMedium, OverallRisk(nil))
}

func TestRiskRange(t *testing.T) {
	minRisk, maxRisk := riskRange(clausesWithRisks(models.RiskLow, models.RiskHigh, models.RiskMedium))
	assert.Equal(t, models.RiskLow, minRisk)
	assert.Equal(t, models.RiskHigh, maxRisk)
}

func TestAnalyze_RequiresClauses(t *testing.T) {
	svc := NewService(&stubChat{}, pdf.NewService(arbor.NewLogger()), arbor.NewLogger())

	_, err := svc.Analyze(context.Background(), models.DocTypeRentalAgreement, nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no clauses found")
}

func TestAnalyze_ParsesSummaryResponse(t *testing.T) {
	svc := NewService(&stubChat{response: `{"summary": "A standard lease.", "key_findings": ["Rent is due monthly", "Deposit is refundable"]}`},
		pdf.NewService(arbor.NewLogger()), arbor.NewLogger())

	result, err := svc.Analyze(context.Background(), models.DocTypeRentalAgreement, clausesWithRisks(models.RiskLow))

	require.NoError(t, err)
	assert.Equal(t, "A standard lease.", result.Summary)
	assert.Len(t, result.KeyFindings, 2)
	assert.Equal(t, models.RiskLow, result.OverallRisk)
}

func TestAnalyze_FallbackOnUnparseableResponse(t *testing.T) {
	svc := NewService(&stubChat{response: "not json"}, pdf.NewService(arbor.NewLogger()), arbor.NewLogger())

	result, err := svc.Analyze(context.Background(), models.DocTypeLoanContract, clausesWithRisks(models.RiskHigh, models.RiskHigh))

	require.NoError(t, err)
	assert.Equal(t, "This loan contract contains multiple clauses with varying risk levels that require careful consideration.", result.Summary)
	require.Len(t, result.KeyFindings, 3)
	assert.Equal(t, "Document contains 2 distinct clauses", result.KeyFindings[0])
	assert.Equal(t, "Risk levels range from high to high", result.KeyFindings[1])
	assert.Equal(t, models.RiskHigh, result.OverallRisk)
}

func TestAnalyze_FallbackOnChatError(t *testing.T) {
	svc := NewService(&stubChat{err: errors.New("provider down")}, pdf.NewService(arbor.NewLogger()), arbor.NewLogger())

	result, err := svc.Analyze(context.Background(), models.DocTypeNDA, clausesWithRisks(models.RiskMedium))

	require.NoError(t, err)
	assert.Contains(t, result.Summary, "nda contains multiple clauses")
}

func TestAnalyze_EmptyParsedFieldsGetDefaults(t *testing.T) {
	svc := NewService(&stubChat{response: `{"summary": "", "key_findings": []}`}, pdf.NewService(arbor.NewLogger()), arbor.NewLogger())

	result, err := svc.Analyze(context.Background(), models.DocTypeOther, clausesWithRisks(models.RiskMedium))

	require.NoError(t, err)
	assert.Equal(t, "This document contains legal terms that require review.", result.Summary)
	assert.Equal(t, []string{"Document requires legal review"}, result.KeyFindings)
}

func TestRenderReport_RequiresAnalyzedStatus(t *testing.T) {
	svc := NewService(&stubChat{}, pdf.NewService(arbor.NewLogger()), arbor.NewLogger())

	doc := &models.Document{ID: "doc_1", Status: models.StatusUploaded}
	_, err := svc.RenderReport(doc)

	assert.ErrorIs(t, err, interfaces.ErrStatusConflict)
}

func TestRenderReport_ProducesPDF(t *testing.T) {
	svc := NewService(&stubChat{}, pdf.NewService(arbor.NewLogger()), arbor.NewLogger())

	doc := &models.Document{
		ID:     "doc_1",
		Status: models.StatusAnalyzed,
		Metadata: models.DocumentMetadata{
			FileName: "lease.pdf",
		},
		DocumentType: models.DocTypeRentalAgreement,
		OverallRisk:  models.RiskMedium,
		Summary:      "A standard residential lease.",
		KeyFindings:  []string{"Rent due monthly"},
		Clauses: []models.Clause{
			{ClauseType: models.ClausePaymentTerms, RiskLevel: models.RiskLow, PlainLanguage: "pay rent on the first", Recommendations: []string{"set a reminder"}},
		},
	}

	pdfBytes, err := svc.RenderReport(doc)

	require.NoError(t, err)
	require.NotEmpty(t, pdfBytes)
	assert.Equal(t, "%PDF", string(pdfBytes[:4]))
}
