package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lexiq/internal/common"
	"github.com/ternarybob/lexiq/internal/interfaces"
	"google.golang.org/genai"
)

// GeminiService implements the LLMService interface using the Google Gemini
// API. It serves both embedding and chat completions; embedding requests
// from other providers are routed here.
type GeminiService struct {
	config    *common.GeminiConfig
	embedDim  int
	logger    arbor.ILogger
	client    *genai.Client
	timeout   time.Duration
}

// convertMessagesToGemini converts []interfaces.Message to Gemini Content
// format, extracting system messages separately for SystemInstruction.
// Returns the user/model messages, the first system message content (if any),
// and an error.
func convertMessagesToGemini(messages []interfaces.Message) ([]*genai.Content, string, error) {
	if len(messages) == 0 {
		return nil, "", fmt.Errorf("messages cannot be empty")
	}

	hasUserMessage := false
	for _, msg := range messages {
		if msg.Role == "user" {
			hasUserMessage = true
			break
		}
	}
	if !hasUserMessage {
		return nil, "", fmt.Errorf("at least one message must have role 'user'")
	}

	contents := make([]*genai.Content, 0, len(messages))
	var systemText string
	for _, msg := range messages {
		if msg.Role == "system" {
			if systemText == "" {
				systemText = msg.Content
			}
			continue
		}

		var geminiRole string
		switch msg.Role {
		case "assistant":
			geminiRole = genai.RoleModel
		case "user":
			geminiRole = genai.RoleUser
		default:
			geminiRole = genai.RoleUser
		}

		part := genai.NewPartFromText(msg.Content)
		contents = append(contents, &genai.Content{
			Role:  geminiRole,
			Parts: []*genai.Part{part},
		})
	}

	return contents, systemText, nil
}

// NewGeminiService creates a new Gemini LLM service instance
func NewGeminiService(config *common.Config, logger arbor.ILogger) (*GeminiService, error) {
	if config.Gemini.APIKey == "" {
		return nil, fmt.Errorf("Gemini API key is required (set LEXIQ_GEMINI_API_KEY or gemini.api_key in config)")
	}

	timeout, err := time.ParseDuration(config.Gemini.Timeout)
	if err != nil {
		return nil, fmt.Errorf("invalid timeout duration '%s': %w", config.Gemini.Timeout, err)
	}

	ctx := context.Background()
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  config.Gemini.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize genai client: %w", err)
	}

	service := &GeminiService{
		config:   &config.Gemini,
		embedDim: config.LLM.EmbedDimension,
		logger:   logger,
		client:   client,
		timeout:  timeout,
	}

	logger.Info().
		Str("chat_model", config.Gemini.Model).
		Str("embed_model", config.Gemini.EmbeddingModel).
		Int("embed_dimension", config.LLM.EmbedDimension).
		Dur("timeout", timeout).
		Msg("Gemini LLM service initialized")

	return service, nil
}

// Embed generates a fixed-dimension embedding vector for the given text
func (s *GeminiService) Embed(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, fmt.Errorf("text cannot be empty for embedding generation")
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	startTime := time.Now()
	s.logger.Debug().
		Int("text_length", len(text)).
		Msg("Starting embedding generation")

	embedding, err := s.generateEmbedding(timeoutCtx, text)
	if err != nil {
		s.logger.Error().
			Err(err).
			Int("text_length", len(text)).
			Msg("Embedding generation failed")
		return nil, fmt.Errorf("embedding generation failed: %w", err)
	}

	s.logger.Debug().
		Int("text_length", len(text)).
		Int("embedding_dim", len(embedding)).
		Dur("duration", time.Since(startTime)).
		Msg("Embedding generation completed")

	return embedding, nil
}

// Chat generates a completion response based on the conversation history
func (s *GeminiService) Chat(ctx context.Context, messages []interfaces.Message) (string, error) {
	if len(messages) == 0 {
		return "", fmt.Errorf("messages cannot be empty for chat completion")
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	startTime := time.Now()
	s.logger.Debug().
		Int("message_count", len(messages)).
		Msg("Starting chat completion")

	response, err := s.generateCompletion(timeoutCtx, messages)
	if err != nil {
		s.logger.Error().
			Err(err).
			Int("message_count", len(messages)).
			Msg("Chat completion failed")
		return "", fmt.Errorf("chat completion failed: %w", err)
	}

	s.logger.Debug().
		Int("message_count", len(messages)).
		Int("response_length", len(response)).
		Dur("duration", time.Since(startTime)).
		Msg("Chat completion completed")

	return response, nil
}

// HealthCheck verifies the service is operational with lightweight probes
// against both models.
func (s *GeminiService) HealthCheck(ctx context.Context) error {
	if s.client == nil {
		return fmt.Errorf("genai client is not initialized")
	}

	if err := s.performEmbeddingHealthCheck(ctx); err != nil {
		return fmt.Errorf("embedding model health check failed: %w", err)
	}

	if err := s.performChatHealthCheck(ctx); err != nil {
		return fmt.Errorf("chat model health check failed: %w", err)
	}

	s.logger.Info().
		Str("chat_model", s.config.Model).
		Str("embed_model", s.config.EmbeddingModel).
		Msg("Gemini LLM service health check passed")

	return nil
}

func (s *GeminiService) performEmbeddingHealthCheck(ctx context.Context) error {
	healthCheckCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	embedding, err := s.generateEmbedding(healthCheckCtx, "health check probe")
	if err != nil {
		return fmt.Errorf("embedding probe failed: %w", err)
	}
	if len(embedding) == 0 {
		return fmt.Errorf("embedding probe returned empty vector")
	}
	return nil
}

func (s *GeminiService) performChatHealthCheck(ctx context.Context) error {
	healthCheckCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	response, err := s.generateCompletion(healthCheckCtx, []interfaces.Message{
		{Role: "user", Content: "ping"},
	})
	if err != nil {
		return fmt.Errorf("chat probe failed: %w", err)
	}
	if len(strings.TrimSpace(response)) == 0 {
		return fmt.Errorf("chat probe returned empty response")
	}
	return nil
}

// Provider returns which hosted model backs this service
func (s *GeminiService) Provider() interfaces.LLMProvider {
	return interfaces.LLMProviderGemini
}

// Close releases client resources
func (s *GeminiService) Close() error {
	s.logger.Info().Msg("Closing Gemini LLM service")

	// genai.Client doesn't require explicit Close
	s.client = nil

	return nil
}

func (s *GeminiService) generateEmbedding(ctx context.Context, text string) ([]float32, error) {
	outputDim := int32(s.embedDim)
	embeddingConfig := &genai.EmbedContentConfig{
		OutputDimensionality: &outputDim,
	}

	result, err := s.client.Models.EmbedContent(ctx, s.config.EmbeddingModel, []*genai.Content{genai.NewContentFromText(text, genai.RoleUser)}, embeddingConfig)
	if err != nil {
		return nil, fmt.Errorf("embedding generation failed: %w", err)
	}

	var embedding []float32
	if result != nil && len(result.Embeddings) > 0 {
		embedding = result.Embeddings[0].Values
	}

	if embedding == nil {
		return nil, fmt.Errorf("no embedding returned from API")
	}

	if len(embedding) != s.embedDim {
		return nil, fmt.Errorf("embedding dimension mismatch: expected %d, got %d", s.embedDim, len(embedding))
	}

	return embedding, nil
}

func (s *GeminiService) generateCompletion(ctx context.Context, messages []interfaces.Message) (string, error) {
	geminiContents, systemText, err := convertMessagesToGemini(messages)
	if err != nil {
		return "", fmt.Errorf("failed to convert messages to Gemini format: %w", err)
	}

	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(s.config.Temperature),
	}
	if systemText != "" {
		config.SystemInstruction = genai.NewContentFromText(systemText, genai.RoleUser)
	}

	resp, err := s.client.Models.GenerateContent(ctx, s.config.Model, geminiContents, config)
	if err != nil {
		return "", fmt.Errorf("chat generation failed: %w", err)
	}

	// Iterate candidates until non-empty text is found
	var response strings.Builder
	if resp != nil && len(resp.Candidates) > 0 {
		for _, candidate := range resp.Candidates {
			for _, part := range candidate.Content.Parts {
				if part.Text != "" {
					response.WriteString(part.Text)
				}
			}
			if response.Len() > 0 {
				break
			}
		}
	}

	if response.Len() == 0 {
		return "", fmt.Errorf("no response generated from chat model")
	}

	return response.String(), nil
}
