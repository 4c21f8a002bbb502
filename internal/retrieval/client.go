package retrieval

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/brightpath/voice-tutor/internal/config"
	"github.com/brightpath/voice-tutor/internal/observability"
	"github.com/brightpath/voice-tutor/internal/resilience"
)

// Snippet is one ranked course-context passage.
type Snippet struct {
	Text   string  `json:"text"`
	Score  float64 `json:"score"`
	Source string  `json:"source,omitempty"`
}

// Searcher queries the course-context retrieval service.
type Searcher interface {
	Search(ctx context.Context, course, query string, limit int) ([]Snippet, error)
}

type searchResponse struct {
	Results []Snippet `json:"results"`
}

// Client is an HTTP client for the course-context retrieval service,
// protected by a circuit breaker and retry with backoff. Retrieval
// failures are non-fatal to a turn; the caller proceeds without context.
type Client struct {
	baseURL        string
	httpClient     *http.Client
	logger         zerolog.Logger
	circuitBreaker *resilience.CircuitBreaker
	retryConfig    *resilience.RetryConfig
}

// NewClient creates a retrieval client from service configuration.
func NewClient(cfg *config.Config, logger zerolog.Logger) *Client {
	return &Client{
		baseURL: cfg.RetrievalURL,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.RetrievalTimeout) * time.Second,
		},
		logger: logger.With().Str("component", "retrieval").Logger(),
		circuitBreaker: resilience.NewCircuitBreaker(
			"retrieval",
			cfg.CircuitBreakerMaxFailures,
			time.Duration(cfg.CircuitBreakerResetTimeout)*time.Second,
		),
		retryConfig: &resilience.RetryConfig{
			MaxAttempts:       cfg.RetryMaxAttempts,
			InitialBackoff:    time.Duration(cfg.RetryInitialBackoff) * time.Millisecond,
			MaxBackoff:        5 * time.Second,
			BackoffMultiplier: 2.0,
			Jitter:            true,
		},
	}
}

// Search returns up to limit ranked snippets for the query within a course.
func (c *Client) Search(ctx context.Context, course, query string, limit int) ([]Snippet, error) {
	var snippets []Snippet

	start := time.Now()
	err := c.circuitBreaker.Call(func() error {
		return resilience.Retry(func() error {
			results, err := c.doSearch(ctx, course, query, limit)
			if err != nil {
				return err
			}
			snippets = results
			return nil
		}, c.retryConfig, resilience.IsRetryableNetworkError)
	})

	observability.UpdateCircuitBreakerState("retrieval", int(c.circuitBreaker.GetState()))
	if err != nil {
		observability.IncrementCircuitBreakerFailures("retrieval")
		return nil, fmt.Errorf("retrieval search failed: %w", err)
	}
	observability.ObserveRetrievalDuration(time.Since(start).Seconds())

	c.logger.Debug().
		Str("course", course).
		Int("results", len(snippets)).
		Msg("Retrieved course context")

	return snippets, nil
}

func (c *Client) doSearch(ctx context.Context, course, query string, limit int) ([]Snippet, error) {
	params := url.Values{}
	params.Set("course", course)
	params.Set("q", query)
	params.Set("limit", strconv.Itoa(limit))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach retrieval service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("retrieval service returned status %d", resp.StatusCode)
	}

	var decoded searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("failed to decode retrieval response: %w", err)
	}

	if limit > 0 && len(decoded.Results) > limit {
		decoded.Results = decoded.Results[:limit]
	}

	return decoded.Results, nil
}
