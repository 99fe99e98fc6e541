package models

import (
	"time"
)

// QARecord is one answered question, kept as an append-only audit entry.
// Records are never mutated or deleted by this service.
type QARecord struct {
	ID             string    `json:"id" badgerhold:"key"`
	DocumentID     string    `json:"document_id" badgerhold:"index"`
	UserID         string    `json:"user_id,omitempty"`
	Question       string    `json:"question"`
	Answer         string    `json:"answer"`
	Confidence     float64   `json:"confidence"`
	Sources        []string  `json:"sources"`
	ResponseTimeMs int64     `json:"response_time_ms"`
	CreatedAt      time.Time `json:"created_at"`
}

// QAAnswer is the structured result of one question-answering call.
type QAAnswer struct {
	Question       string     `json:"question"`
	Answer         string     `json:"answer"`
	Confidence     float64    `json:"confidence"`
	Sources        []string   `json:"sources"`
	Citations      []Citation `json:"citations,omitempty"`
	ResponseTimeMs int64      `json:"response_time_ms"`
}

// CorpusResult is one hit from the general legal-knowledge corpus.
type CorpusResult struct {
	Title          string  `json:"title"`
	Snippet        string  `json:"snippet"`
	Link           string  `json:"link"`
	Source         string  `json:"source"`
	RelevanceScore float64 `json:"relevance_score"`
}
