// Package corpus provides search over the general legal-knowledge corpus:
// statutes, regulations and tenant/consumer guidance. The corpus is global
// and stateless; it is never mixed with per-document knowledge bases.
package corpus

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lexiq/internal/common"
	"github.com/ternarybob/lexiq/internal/interfaces"
	"github.com/ternarybob/lexiq/internal/models"
	"golang.org/x/time/rate"
)

const defaultMaxResults = 3

// Service queries a remote corpus endpoint when one is configured and falls
// back to the builtin reference table otherwise (or when the remote call
// fails). Every remote request passes through the rate limiter.
type Service struct {
	baseURL    string
	maxResults int
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     arbor.ILogger
}

// NewService creates a corpus search service from config
func NewService(cfg *common.CorpusConfig, logger arbor.ILogger) (*Service, error) {
	requestTimeout, err := time.ParseDuration(cfg.RequestTimeout)
	if err != nil {
		return nil, fmt.Errorf("invalid corpus request timeout '%s': %w", cfg.RequestTimeout, err)
	}
	rateInterval, err := time.ParseDuration(cfg.RateLimit)
	if err != nil {
		return nil, fmt.Errorf("invalid corpus rate limit '%s': %w", cfg.RateLimit, err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	return &Service{
		baseURL:    cfg.BaseURL,
		maxResults: maxResults,
		httpClient: &http.Client{Timeout: requestTimeout},
		limiter:    rate.NewLimiter(rate.Every(rateInterval), 1),
		logger:     logger,
	}, nil
}

var _ interfaces.CorpusService = (*Service)(nil)

// Search returns corpus entries ranked by relevance to the query. Remote
// failures degrade to the builtin table rather than erroring.
func (s *Service) Search(ctx context.Context, query string, limit int) ([]models.CorpusResult, error) {
	if limit <= 0 || limit > s.maxResults {
		limit = s.maxResults
	}

	if s.baseURL == "" {
		return searchBuiltin(query, limit), nil
	}

	results, err := s.searchRemote(ctx, query, limit)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Corpus endpoint unavailable, using builtin corpus")
		return searchBuiltin(query, limit), nil
	}
	return results, nil
}

func (s *Service) searchRemote(ctx context.Context, query string, limit int) ([]models.CorpusResult, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait failed: %w", err)
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("limit", fmt.Sprintf("%d", limit))
	reqURL := fmt.Sprintf("%s/search?%s", s.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("corpus request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("corpus endpoint returned %d: %s", resp.StatusCode, string(body))
	}

	var payload struct {
		Results []models.CorpusResult `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode corpus response: %w", err)
	}

	if len(payload.Results) > limit {
		payload.Results = payload.Results[:limit]
	}
	return payload.Results, nil
}
