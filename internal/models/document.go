package models

import (
	"time"
)

// ProcessingStatus tracks a document through the analysis pipeline.
// The happy path is uploaded -> processing -> ocr_complete -> processing ->
// classified -> processing -> analyzed -> complete. Any stage may move the
// document to failed; failed is terminal until a stage is re-run manually.
type ProcessingStatus string

const (
	StatusUploaded    ProcessingStatus = "uploaded"
	StatusProcessing  ProcessingStatus = "processing"
	StatusOCRComplete ProcessingStatus = "ocr_complete"
	StatusClassified  ProcessingStatus = "classified"
	StatusAnalyzed    ProcessingStatus = "analyzed"
	StatusComplete    ProcessingStatus = "complete"
	StatusFailed      ProcessingStatus = "failed"
)

// RiskLevel is the three-tier risk rating applied to clauses and documents.
type RiskLevel string

const (
	RiskHigh   RiskLevel = "high"
	RiskMedium RiskLevel = "medium"
	RiskLow    RiskLevel = "low"
)

// ParseRiskLevel coerces a raw model answer to a valid risk level.
// Unrecognized values default to medium rather than failing the pipeline.
func ParseRiskLevel(s string) RiskLevel {
	switch RiskLevel(s) {
	case RiskHigh, RiskMedium, RiskLow:
		return RiskLevel(s)
	default:
		return RiskMedium
	}
}

// DocumentType classifies the kind of legal document being analyzed.
type DocumentType string

const (
	DocTypeRentalAgreement    DocumentType = "rental_agreement"
	DocTypeLoanContract       DocumentType = "loan_contract"
	DocTypeEmploymentContract DocumentType = "employment_contract"
	DocTypeTermsOfService     DocumentType = "terms_of_service"
	DocTypePrivacyPolicy      DocumentType = "privacy_policy"
	DocTypeNDA                DocumentType = "nda"
	DocTypeOther              DocumentType = "other"
)

// ParseDocumentType coerces a raw model answer to a valid document type,
// defaulting to other.
func ParseDocumentType(s string) DocumentType {
	switch DocumentType(s) {
	case DocTypeRentalAgreement, DocTypeLoanContract, DocTypeEmploymentContract,
		DocTypeTermsOfService, DocTypePrivacyPolicy, DocTypeNDA, DocTypeOther:
		return DocumentType(s)
	default:
		return DocTypeOther
	}
}

// DocumentTypes lists every valid document type, in classification order.
func DocumentTypes() []DocumentType {
	return []DocumentType{
		DocTypeRentalAgreement,
		DocTypeLoanContract,
		DocTypeEmploymentContract,
		DocTypeTermsOfService,
		DocTypePrivacyPolicy,
		DocTypeNDA,
		DocTypeOther,
	}
}

// DocumentMetadata holds upload-time facts about the original file.
type DocumentMetadata struct {
	FileName         string    `json:"file_name"`
	FileSize         int64     `json:"file_size"`
	MimeType         string    `json:"mime_type"`
	UploadTimestamp  time.Time `json:"upload_timestamp"`
	UserID           string    `json:"user_id,omitempty"`
	OriginalLanguage string    `json:"original_language,omitempty"`
}

// ExtractedParagraph is one paragraph from the OCR layout analysis.
type ExtractedParagraph struct {
	Text       string  `json:"text"`
	Page       int     `json:"page"`
	Confidence float64 `json:"confidence"`
}

// ExtractedBlock is one layout block on a page.
type ExtractedBlock struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}

// ExtractedPage is the layout of a single page as returned by OCR.
type ExtractedPage struct {
	PageNumber int                  `json:"page_number"`
	Blocks     []ExtractedBlock     `json:"blocks"`
	Paragraphs []ExtractedParagraph `json:"paragraphs"`
}

// ExtractedTable is a table recovered from the document layout.
type ExtractedTable struct {
	Page int        `json:"page"`
	Rows [][]string `json:"rows"`
}

// ExtractionResult is the full OCR output for a document: raw text plus
// page/paragraph/table structure with per-element confidence.
type ExtractionResult struct {
	RawText    string               `json:"raw_text"`
	Pages      []ExtractedPage      `json:"pages"`
	Paragraphs []ExtractedParagraph `json:"paragraphs"`
	Tables     []ExtractedTable     `json:"tables"`
	Confidence float64              `json:"confidence"`
}

// Document is the store-owned record for one uploaded legal document.
// ProcessingStatus encodes which optional fields are populated: Extraction
// at ocr_complete and later, Clauses at classified and later, Summary and
// OverallRisk at analyzed and later.
type Document struct {
	ID       string           `json:"id" badgerhold:"key"`
	Metadata DocumentMetadata `json:"metadata"`
	BlobPath string           `json:"blob_path"`
	Status   ProcessingStatus `json:"processing_status"`

	Extraction   *ExtractionResult `json:"extraction,omitempty"`
	DocumentType DocumentType      `json:"document_type,omitempty"`
	Clauses      []Clause          `json:"clauses,omitempty"`

	OverallRisk RiskLevel `json:"overall_risk,omitempty"`
	Summary     string    `json:"summary,omitempty"`
	KeyFindings []string  `json:"key_findings,omitempty"`

	KnowledgeBaseCreated bool `json:"knowledge_base_created"`
	EmbeddingsCount      int  `json:"embeddings_count,omitempty"`

	ErrorMessage string `json:"error_message,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RawText returns the extracted plain text, or "" before OCR has run.
func (d *Document) RawText() string {
	if d.Extraction == nil {
		return ""
	}
	return d.Extraction.RawText
}

// OwnedBy reports whether the caller identity may access this document.
// An empty caller identity is anonymous access and is always permitted;
// owner mismatch is the only denial condition.
func (d *Document) OwnedBy(userID string) bool {
	if userID == "" || d.Metadata.UserID == "" {
		return true
	}
	return d.Metadata.UserID == userID
}
