// Package rerank provides an HTTP client for a Cohere-compatible rerank API.
package rerank

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/hireloop/talentsearch/internal/domain"
	"github.com/hireloop/talentsearch/internal/metrics"
	usecaserr "github.com/hireloop/talentsearch/internal/usecase/rerank"
)

// Client calls a Cohere-compatible /rerank endpoint.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	model      string
	logger     *zap.Logger
}

// Config holds the rerank provider settings.
type Config struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
	Logger  *zap.Logger
}

// NewClient creates a rerank API client.
func NewClient(cfg *Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		logger:     cfg.Logger,
	}
}

type rerankRequest struct {
	Model     string   `json:"model"`
	Query     string   `json:"query"`
	Documents []string `json:"documents"`
	TopN      int      `json:"top_n,omitempty"`
}

type rerankResponse struct {
	Results []struct {
		Index          int     `json:"index"`
		RelevanceScore float64 `json:"relevance_score"`
	} `json:"results"`
}

// Rerank implements the search usecase Reranker contract. Documents are sent
// in record order; the response indexes are mapped back to record IDs.
func (c *Client) Rerank(ctx context.Context, query string, records []usecaserr.Record, topN int) ([]usecaserr.Ranked, error) {
	docs := make([]string, len(records))
	for i, rec := range records {
		docs[i] = rec.Title + "\n" + rec.Content
	}

	body, err := json.Marshal(rerankRequest{
		Model:     c.model,
		Query:     query,
		Documents: docs,
		TopN:      topN,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal rerank request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/rerank", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build rerank request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	start := time.Now()

	resp, err := c.httpClient.Do(req)

	duration := time.Since(start)

	if err != nil {
		metrics.RerankRequestsTotal.WithLabelValues(c.model, "error").Inc()
		metrics.RerankErrorsTotal.WithLabelValues(c.model, "transport").Inc()
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("rerank request: %v: %w", err, domain.ErrRerankFailed)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.RerankRequestsTotal.WithLabelValues(c.model, "error").Inc()
		metrics.RerankErrorsTotal.WithLabelValues(c.model, fmt.Sprintf("http_%d", resp.StatusCode)).Inc()

		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		wrap := domain.ErrRerankFailed
		if resp.StatusCode == http.StatusTooManyRequests {
			wrap = domain.ErrRateLimited
		}
		return nil, fmt.Errorf("rerank API error %d: %s: %w", resp.StatusCode, string(detail), wrap)
	}

	var parsed rerankResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		metrics.RerankRequestsTotal.WithLabelValues(c.model, "error").Inc()
		metrics.RerankErrorsTotal.WithLabelValues(c.model, "decode").Inc()
		return nil, fmt.Errorf("decode rerank response: %v: %w", err, domain.ErrRerankFailed)
	}

	metrics.RerankRequestsTotal.WithLabelValues(c.model, "success").Inc()
	metrics.RerankRequestDuration.WithLabelValues(c.model).Observe(duration.Seconds())

	ranked := make([]usecaserr.Ranked, 0, len(parsed.Results))
	for _, r := range parsed.Results {
		if r.Index < 0 || r.Index >= len(records) {
			c.logger.Warn("rerank result index out of range",
				zap.Int("index", r.Index),
				zap.Int("documents", len(records)))
			continue
		}
		ranked = append(ranked, usecaserr.Ranked{
			ID:    records[r.Index].ID,
			Score: r.RelevanceScore,
		})
	}

	return ranked, nil
}

// HealthCheck probes the rerank endpoint with a minimal request.
func (c *Client) HealthCheck(ctx context.Context) error {
	_, err := c.Rerank(ctx, "ping", []usecaserr.Record{{ID: "probe", Title: "probe", Content: "probe"}}, 1)
	if err != nil {
		return fmt.Errorf("rerank probe: %w", err)
	}
	return nil
}
