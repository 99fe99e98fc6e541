package common

import (
	"github.com/ternarybob/lexiq/internal/interfaces"
)

// API key names in the key/value store.
const (
	KeyGeminiAPIKey    = "gemini_api_key"
	KeyAnthropicAPIKey = "anthropic_api_key"
)

// ResolveAPIKey returns the API key for name. Environment and config file
// values are already merged into configValue at load time and take
// priority; the key/value store is the fallback so keys set through the
// settings API survive restarts without touching config files.
func ResolveAPIKey(kv interfaces.KeyValueStorage, name, configValue string) string {
	if configValue != "" {
		return configValue
	}
	if kv == nil {
		return ""
	}
	value, err := kv.Get(name)
	if err != nil {
		return ""
	}
	return value
}
