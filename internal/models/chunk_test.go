package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChunkID(t *testing.T) {
	assert.Equal(t, "doc_abc_chunk_0", ChunkID("doc_abc", 0))
	assert.Equal(t, "doc_abc_chunk_12", ChunkID("doc_abc", 12))
}
