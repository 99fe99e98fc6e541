package knowledge

import (
	"fmt"
	"unicode/utf8"

	"github.com/ternarybob/lexiq/internal/models"
)

const (
	fullDocumentChunkLimit = 2000
	maxParagraphChunks     = 10
	minParagraphLength     = 100
)

// chunkSpan is the pre-embedding form of a chunk: text plus typed metadata.
type chunkSpan struct {
	Text      string
	ChunkType models.ChunkType
	Metadata  map[string]interface{}
}

// BuildChunks derives the retrieval chunks for a document: one bounded
// full-document chunk, one chunk per classified clause, and up to ten
// substantial paragraph chunks. The output order is deterministic for a
// given document state.
func BuildChunks(rawText string, paragraphs []models.ExtractedParagraph, clauses []models.Clause) []chunkSpan {
	chunks := make([]chunkSpan, 0, 1+len(clauses)+maxParagraphChunks)

	fullText := truncate(rawText, fullDocumentChunkLimit)
	chunks = append(chunks, chunkSpan{
		Text:      fullText,
		ChunkType: models.ChunkFullDocument,
		Metadata: map[string]interface{}{
			"chunk_type": string(models.ChunkFullDocument),
			"length":     len(rawText),
		},
	})

	for _, clause := range clauses {
		text := fmt.Sprintf("Clause Type: %s\n\nOriginal Text: %s\n\nPlain Language: %s\n\nRisk: %s - %s",
			clause.ClauseType, clause.OriginalText, clause.PlainLanguage, clause.RiskLevel, clause.RiskReason)
		chunks = append(chunks, chunkSpan{
			Text:      text,
			ChunkType: models.ChunkClause,
			Metadata: map[string]interface{}{
				"chunk_type":  string(models.ChunkClause),
				"clause_type": string(clause.ClauseType),
				"risk_level":  string(clause.RiskLevel),
				"clause_id":   clause.ID,
			},
		})
	}

	limit := len(paragraphs)
	if limit > maxParagraphChunks {
		limit = maxParagraphChunks
	}
	for i := 0; i < limit; i++ {
		p := paragraphs[i]
		if len(p.Text) <= minParagraphLength {
			continue
		}
		chunks = append(chunks, chunkSpan{
			Text:      p.Text,
			ChunkType: models.ChunkParagraph,
			Metadata: map[string]interface{}{
				"chunk_type":      string(models.ChunkParagraph),
				"paragraph_index": i,
				"page":            p.Page,
				"confidence":      p.Confidence,
			},
		})
	}

	return chunks
}

// truncate bounds s to at most limit bytes, backing off so a multi-byte
// rune is never split.
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
