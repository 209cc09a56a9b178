package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hirelens/hirelens/config"
	"github.com/rs/zerolog/log"
)

// ScoringClient talks to the external answer-scoring service. Unconfigured
// deployments get a neutral mock score instead of a hard failure.
type ScoringClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

type scoringRequest struct {
	Question   string `json:"question"`
	Transcript string `json:"transcript"`
}

type scoringResponse struct {
	Score float64 `json:"score"`
}

func NewScoringClient(cfg *config.Config) *ScoringClient {
	return &ScoringClient{
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		baseURL: cfg.Providers.ScoringURL,
		apiKey:  cfg.Providers.ScoringKey,
	}
}

func (c *ScoringClient) Score(ctx context.Context, questionText, transcript string) (float64, error) {
	if !c.IsConfigured() {
		log.Warn().Msg("Scoring provider not configured, returning mock score")
		return 3.0, nil
	}

	bodyBytes, err := json.Marshal(scoringRequest{Question: questionText, Transcript: transcript})
	if err != nil {
		return 0, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/scores", bytes.NewReader(bodyBytes))
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("scoring API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	var result scoringResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return 0, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return result.Score, nil
}

// IsConfigured returns true if the client has valid configuration
func (c *ScoringClient) IsConfigured() bool {
	return c.baseURL != "" && c.apiKey != ""
}
