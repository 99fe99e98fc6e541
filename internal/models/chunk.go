package models

import (
	"fmt"
	"time"
)

// ChunkType identifies what part of a document a retrieval chunk came from.
type ChunkType string

const (
	ChunkFullDocument ChunkType = "full_document"
	ChunkClause       ChunkType = "clause"
	ChunkParagraph    ChunkType = "paragraph"
)

// Chunk is one retrieval unit of a document's knowledge base: a bounded
// text span plus its embedding vector. Chunks are created in one batch per
// knowledge-base build, never mutated, and only replaced by a full rebuild.
type Chunk struct {
	ID         string                 `json:"chunk_id" badgerhold:"key"`
	DocumentID string                 `json:"document_id" badgerhold:"index"`
	Ordinal    int                    `json:"ordinal"`
	Text       string                 `json:"text"`
	ChunkType  ChunkType              `json:"chunk_type"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
	Embedding  []float32              `json:"embedding"`
	CreatedAt  time.Time              `json:"created_at"`
}

// ChunkID builds the composite chunk key for a document and ordinal.
func ChunkID(documentID string, ordinal int) string {
	return fmt.Sprintf("%s_chunk_%d", documentID, ordinal)
}

// ScoredChunk is a chunk paired with its query similarity.
type ScoredChunk struct {
	Chunk      *Chunk  `json:"chunk"`
	Similarity float64 `json:"similarity"`
}
