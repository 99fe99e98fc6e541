package llm

import (
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lexiq/internal/common"
	"github.com/ternarybob/lexiq/internal/interfaces"
)

// Services bundles the chat and embedding providers. Chat follows the
// configured default provider; embeddings always come from Gemini because
// Claude has no embedding model.
type Services struct {
	Chat  interfaces.LLMService
	Embed interfaces.LLMService
}

// NewLLMServices creates the LLM services based on configuration.
// Gemini is always initialized since it backs embeddings for every provider.
// API keys missing from the environment and config fall back to the
// key/value store.
func NewLLMServices(cfg *common.Config, kv interfaces.KeyValueStorage, logger arbor.ILogger) (*Services, error) {
	provider := interfaces.LLMProvider(cfg.LLM.DefaultProvider)
	if provider != interfaces.LLMProviderGemini && provider != interfaces.LLMProviderClaude {
		return nil, fmt.Errorf("invalid LLM provider '%s': must be 'gemini' or 'claude'", cfg.LLM.DefaultProvider)
	}

	logger.Info().Str("provider", string(provider)).Msg("Initializing LLM services")

	cfg.Gemini.APIKey = common.ResolveAPIKey(kv, common.KeyGeminiAPIKey, cfg.Gemini.APIKey)
	cfg.Claude.APIKey = common.ResolveAPIKey(kv, common.KeyAnthropicAPIKey, cfg.Claude.APIKey)

	gemini, err := NewGeminiService(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini service: %w", err)
	}

	services := &Services{
		Chat:  gemini,
		Embed: gemini,
	}

	if provider == interfaces.LLMProviderClaude {
		claude, err := NewClaudeService(&cfg.Claude, logger)
		if err != nil {
			gemini.Close()
			return nil, fmt.Errorf("failed to create Claude service: %w", err)
		}
		services.Chat = claude
	}

	return services, nil
}

// Close releases both providers
func (s *Services) Close() error {
	if s.Chat != nil && s.Chat != s.Embed {
		s.Chat.Close()
	}
	if s.Embed != nil {
		return s.Embed.Close()
	}
	return nil
}
