package knowledge

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/lexiq/internal/models"
)

func TestBuildChunks_FullDocumentOnly(t *testing.T) {
	chunks := BuildChunks("short document text", nil, nil)

	require.Len(t, chunks, 1)
	assert.Equal(t, models.ChunkFullDocument, chunks[0].ChunkType)
	assert.Equal(t, "short document text", chunks[0].Text)
	assert.Equal(t, len("short document text"), chunks[0].Metadata["length"])
}

func TestBuildChunks_FullDocumentTruncated(t *testing.T) {
	raw := strings.Repeat("x", 5000)
	chunks := BuildChunks(raw, nil, nil)

	require.Len(t, chunks, 1)
	assert.Len(t, chunks[0].Text, 2000)
	// Metadata records the untruncated length
	assert.Equal(t, 5000, chunks[0].Metadata["length"])
}

func TestBuildChunks_OnePerClause(t *testing.T) {
	clauses := []models.Clause{
		{ID: "clause_1", ClauseType: models.ClauseTermination, OriginalText: "either party may terminate", PlainLanguage: "you can quit", RiskLevel: models.RiskLow, RiskReason: "standard"},
		{ID: "clause_2", ClauseType: models.ClausePenalties, OriginalText: "late fee of $50", PlainLanguage: "pay on time", RiskLevel: models.RiskHigh, RiskReason: "steep fee"},
	}

	chunks := BuildChunks("doc text", nil, clauses)

	require.Len(t, chunks, 3)
	assert.Equal(t, models.ChunkClause, chunks[1].ChunkType)
	assert.Contains(t, chunks[1].Text, "Clause Type: termination")
	assert.Contains(t, chunks[1].Text, "Original Text: either party may terminate")
	assert.Contains(t, chunks[1].Text, "Risk: low - standard")
	assert.Equal(t, "clause_2", chunks[2].Metadata["clause_id"])
	assert.Equal(t, "high", chunks[2].Metadata["risk_level"])
}

func TestBuildChunks_ParagraphFiltering(t *testing.T) {
	long := strings.Repeat("a", 150)
	short := "too short"
	paragraphs := []models.ExtractedParagraph{
		{Text: long, Page: 1, Confidence: 0.9},
		{Text: short, Page: 1, Confidence: 0.8},
		{Text: long, Page: 2, Confidence: 0.7},
	}

	chunks := BuildChunks("doc", paragraphs, nil)

	// 1 full document + 2 paragraphs over the length threshold
	require.Len(t, chunks, 3)
	assert.Equal(t, models.ChunkParagraph, chunks[1].ChunkType)
	assert.Equal(t, 0, chunks[1].Metadata["paragraph_index"])
	assert.Equal(t, 2, chunks[2].Metadata["paragraph_index"])
	assert.Equal(t, 2, chunks[2].Metadata["page"])
}

func TestBuildChunks_ParagraphCap(t *testing.T) {
	long := strings.Repeat("b", 200)
	paragraphs := make([]models.ExtractedParagraph, 25)
	for i := range paragraphs {
		paragraphs[i] = models.ExtractedParagraph{Text: long, Page: 1, Confidence: 0.9}
	}

	chunks := BuildChunks("doc", paragraphs, nil)

	// Only the first 10 paragraphs are considered
	assert.Len(t, chunks, 11)
}

func TestBuildChunks_BoundaryParagraphLength(t *testing.T) {
	exactly100 := strings.Repeat("c", 100)
	chunks := BuildChunks("doc", []models.ExtractedParagraph{{Text: exactly100}}, nil)

	// 100 chars is not over the threshold
	assert.Len(t, chunks, 1)
}

func TestBuildChunks_TruncationKeepsRunesIntact(t *testing.T) {
	// Place a multi-byte rune across the 2000-byte cut
	raw := strings.Repeat("x", 1999) + strings.Repeat("é", 50)
	chunks := BuildChunks(raw, nil, nil)

	require.Len(t, chunks, 1)
	assert.True(t, utf8.ValidString(chunks[0].Text))
	assert.LessOrEqual(t, len(chunks[0].Text), 2000)
}

func TestTruncate_RuneBoundary(t *testing.T) {
	assert.Equal(t, "héllo", truncate("héllo", 10))
	assert.Equal(t, "a", truncate("aé", 2))
	assert.Equal(t, "aé", truncate("aé", 3))
	assert.True(t, utf8.ValidString(truncate(strings.Repeat("研", 10), 7)))
}
