package common

import (
	"github.com/google/uuid"
)

// NewDocumentID generates a unique document ID with the "doc_" prefix
// Format: doc_<uuid>
func NewDocumentID() string {
	return "doc_" + uuid.New().String()
}

// NewQARecordID generates a unique question/answer record ID
func NewQARecordID() string {
	return "qa_" + uuid.New().String()
}
