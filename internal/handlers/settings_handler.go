package handlers

import (
	"errors"
	"net/http"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lexiq/internal/common"
	"github.com/ternarybob/lexiq/internal/interfaces"
)

// SettingsHandler manages API keys stored in the key/value store. Keys set
// here are used when the environment and config file provide none, and
// survive restarts.
type SettingsHandler struct {
	kv     interfaces.KeyValueStorage
	logger arbor.ILogger
}

func NewSettingsHandler(kv interfaces.KeyValueStorage, logger arbor.ILogger) *SettingsHandler {
	return &SettingsHandler{
		kv:     kv,
		logger: logger,
	}
}

type apiKeyRequest struct {
	Name  string `json:"name" validate:"required,oneof=gemini_api_key anthropic_api_key"`
	Value string `json:"value" validate:"required"`
}

// APIKeysHandler lists stored API keys (masked) or stores one.
// GET /api/settings/api-keys
// POST /api/settings/api-keys
func (h *SettingsHandler) APIKeysHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.listAPIKeys(w, r)
	case http.MethodPost:
		h.setAPIKey(w, r)
	default:
		WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func (h *SettingsHandler) listAPIKeys(w http.ResponseWriter, r *http.Request) {
	keys := make(map[string]string, 2)
	for _, name := range []string{common.KeyGeminiAPIKey, common.KeyAnthropicAPIKey} {
		value, err := h.kv.Get(name)
		if err != nil {
			if !errors.Is(err, interfaces.ErrNotFound) {
				h.logger.Error().Err(err).Str("key", name).Msg("Failed to read stored API key")
			}
			continue
		}
		keys[name] = maskValue(value)
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"api_keys": keys,
	})
}

func (h *SettingsHandler) setAPIKey(w http.ResponseWriter, r *http.Request) {
	var req apiKeyRequest
	if !DecodeAndValidate(w, r, &req) {
		return
	}

	if err := h.kv.Set(req.Name, req.Value); err != nil {
		h.logger.Error().Err(err).Str("key", req.Name).Msg("Failed to store API key")
		WriteError(w, http.StatusInternalServerError, "Failed to store API key")
		return
	}

	h.logger.Info().Str("key", req.Name).Msg("API key stored")
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "API key stored. Restart the service to apply it to running providers.",
	})
}

// maskValue hides stored secrets in list responses.
func maskValue(value string) string {
	if len(value) < 8 {
		return "••••••••"
	}
	return value[:4] + "..." + value[len(value)-4:]
}
