package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lexiq/internal/common"
	"github.com/ternarybob/lexiq/internal/interfaces"
)

type APIHandler struct {
	chat   interfaces.LLMService
	embed  interfaces.LLMService
	logger arbor.ILogger
}

func NewAPIHandler(chat, embed interfaces.LLMService, logger arbor.ILogger) *APIHandler {
	return &APIHandler{
		chat:   chat,
		embed:  embed,
		logger: logger,
	}
}

// VersionHandler returns version information
func (h *APIHandler) VersionHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{
		"version":    common.GetVersion(),
		"build":      common.GetBuild(),
		"git_commit": common.GitCommit,
	})
}

// HealthHandler returns health check status. With ?full=true it also
// probes the configured LLM providers.
func (h *APIHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	response := map[string]interface{}{
		"status": "ok",
	}

	if r.URL.Query().Get("full") == "true" {
		ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
		defer cancel()

		providers := map[string]string{}
		if err := h.chat.HealthCheck(ctx); err != nil {
			providers[string(h.chat.Provider())] = err.Error()
			response["status"] = "degraded"
		} else {
			providers[string(h.chat.Provider())] = "ok"
		}
		if h.embed.Provider() != h.chat.Provider() {
			if err := h.embed.HealthCheck(ctx); err != nil {
				providers[string(h.embed.Provider())] = err.Error()
				response["status"] = "degraded"
			} else {
				providers[string(h.embed.Provider())] = "ok"
			}
		}
		response["providers"] = providers
	}

	WriteJSON(w, http.StatusOK, response)
}

// NotFoundHandler handles 404 errors with JSON response
func (h *APIHandler) NotFoundHandler(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusNotFound, map[string]interface{}{
		"error":   "Not Found",
		"path":    r.URL.Path,
		"message": "The requested endpoint does not exist",
	})
}
