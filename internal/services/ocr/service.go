package ocr

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lexiq/internal/common"
	"github.com/ternarybob/lexiq/internal/interfaces"
	"github.com/ternarybob/lexiq/internal/models"
	"github.com/ternarybob/lexiq/internal/services/llm"
	"google.golang.org/genai"
)

// Service extracts text and layout structure from uploaded documents using
// Gemini multimodal generation. PDFs get a pdfcpu preflight first so corrupt
// files fail fast without an API call.
type Service struct {
	client  *genai.Client
	model   string
	timeout time.Duration
	tempDir string
	logger  arbor.ILogger
}

// NewService creates an OCR service backed by the Gemini API
func NewService(config *common.Config, logger arbor.ILogger) (*Service, error) {
	if config.Gemini.APIKey == "" {
		return nil, fmt.Errorf("Gemini API key is required for OCR (set LEXIQ_GEMINI_API_KEY or gemini.api_key in config)")
	}

	timeout, err := time.ParseDuration(config.Gemini.Timeout)
	if err != nil {
		return nil, fmt.Errorf("invalid timeout duration '%s': %w", config.Gemini.Timeout, err)
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  config.Gemini.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize genai client: %w", err)
	}

	tempDir := filepath.Join(os.TempDir(), "lexiq-ocr")
	os.MkdirAll(tempDir, 0o755)

	return &Service{
		client:  client,
		model:   config.Gemini.Model,
		timeout: timeout,
		tempDir: tempDir,
		logger:  logger,
	}, nil
}

var _ interfaces.OCRService = (*Service)(nil)

// extractionPayload is the model's JSON shape for the extraction result
type extractionPayload struct {
	RawText string `json:"raw_text"`
	Pages   []struct {
		PageNumber int `json:"page_number"`
		Paragraphs []struct {
			Text       string  `json:"text"`
			Confidence float64 `json:"confidence"`
		} `json:"paragraphs"`
	} `json:"pages"`
	Tables []struct {
		Page int        `json:"page"`
		Rows [][]string `json:"rows"`
	} `json:"tables"`
}

const extractionPrompt = `You are a document OCR and layout analysis engine. Extract the full text and structure of the attached document.

Rules:
- raw_text must contain the complete document text in reading order
- Split each page into paragraphs, preserving their order
- Give each paragraph a confidence between 0.0 and 1.0 reflecting extraction certainty
- Capture any tables as arrays of row cells, including the header row
- Do not summarize, correct, or omit any content

Output Format (JSON only, no markdown fences):
{
  "raw_text": "full document text",
  "pages": [
    {
      "page_number": 1,
      "paragraphs": [
        {"text": "paragraph text", "confidence": 0.97}
      ]
    }
  ],
  "tables": [
    {"page": 1, "rows": [["header a", "header b"], ["cell a", "cell b"]]}
  ]
}`

// Process runs extraction on the raw document bytes and returns the
// structured result.
func (s *Service) Process(ctx context.Context, content []byte, mimeType string) (*models.ExtractionResult, error) {
	if len(content) == 0 {
		return nil, fmt.Errorf("document content is empty")
	}

	if mimeType == "application/pdf" {
		if err := s.preflightPDF(content); err != nil {
			return nil, fmt.Errorf("PDF preflight failed: %w", err)
		}
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	s.logger.Debug().
		Int("content_bytes", len(content)).
		Str("mime_type", mimeType).
		Msg("Starting document extraction")

	contents := []*genai.Content{
		{
			Role: genai.RoleUser,
			Parts: []*genai.Part{
				genai.NewPartFromText(extractionPrompt),
				genai.NewPartFromBytes(content, mimeType),
			},
		},
	}

	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(0.0)),
	}

	resp, err := s.client.Models.GenerateContent(timeoutCtx, s.model, contents, config)
	if err != nil {
		return nil, fmt.Errorf("document extraction failed: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return nil, fmt.Errorf("no extraction response from model")
	}

	var payload extractionPayload
	if err := json.Unmarshal([]byte(llm.CleanMarkdownFences(text)), &payload); err != nil {
		return nil, fmt.Errorf("failed to parse extraction response: %w", err)
	}
	if payload.RawText == "" {
		return nil, fmt.Errorf("extraction returned no text")
	}

	result := buildResult(&payload)

	s.logger.Info().
		Int("text_length", len(result.RawText)).
		Int("pages", len(result.Pages)).
		Int("paragraphs", len(result.Paragraphs)).
		Int("tables", len(result.Tables)).
		Dur("duration", time.Since(start)).
		Msg("Document extraction completed")

	return result, nil
}

// preflightPDF validates the PDF structure before spending an API call on it
func (s *Service) preflightPDF(content []byte) error {
	tempFile := filepath.Join(s.tempDir, fmt.Sprintf("preflight_%d_%d.pdf", os.Getpid(), time.Now().UnixNano()))
	if err := os.WriteFile(tempFile, content, 0o644); err != nil {
		return fmt.Errorf("failed to write temp PDF file: %w", err)
	}
	defer os.Remove(tempFile)

	pdfCtx, err := api.ReadContextFile(tempFile)
	if err != nil {
		return fmt.Errorf("unreadable PDF: %w", err)
	}
	if pdfCtx.PageCount == 0 {
		return fmt.Errorf("PDF has no pages")
	}

	s.logger.Debug().Int("page_count", pdfCtx.PageCount).Msg("PDF preflight passed")
	return nil
}

// buildResult converts the model payload into the stored extraction shape,
// flattening per-page paragraphs into the global list and deriving the
// overall confidence from the first block.
func buildResult(payload *extractionPayload) *models.ExtractionResult {
	result := &models.ExtractionResult{
		RawText: payload.RawText,
	}

	for _, page := range payload.Pages {
		pageNumber := page.PageNumber
		extractedPage := models.ExtractedPage{PageNumber: pageNumber}
		for _, p := range page.Paragraphs {
			extractedPage.Blocks = append(extractedPage.Blocks, models.ExtractedBlock{
				Text:       p.Text,
				Confidence: p.Confidence,
			})
			extractedPage.Paragraphs = append(extractedPage.Paragraphs, models.ExtractedParagraph{
				Text:       p.Text,
				Page:       pageNumber,
				Confidence: p.Confidence,
			})
			result.Paragraphs = append(result.Paragraphs, models.ExtractedParagraph{
				Text:       p.Text,
				Page:       pageNumber,
				Confidence: p.Confidence,
			})
		}
		result.Pages = append(result.Pages, extractedPage)
	}

	for _, table := range payload.Tables {
		result.Tables = append(result.Tables, models.ExtractedTable{
			Page: table.Page,
			Rows: table.Rows,
		})
	}

	if len(result.Pages) > 0 && len(result.Pages[0].Blocks) > 0 {
		result.Confidence = result.Pages[0].Blocks[0].Confidence
	}

	return result
}
