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

// TranscriptionClient talks to the external speech-to-text service. When no
// provider is configured it falls back to a deterministic mock transcript so
// the pipeline works in development.
type TranscriptionClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

type transcriptionRequest struct {
	MediaRef string `json:"media_ref"`
}

type transcriptionResponse struct {
	Transcript string `json:"transcript"`
}

func NewTranscriptionClient(cfg *config.Config) *TranscriptionClient {
	return &TranscriptionClient{
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
		baseURL: cfg.Providers.TranscriptionURL,
		apiKey:  cfg.Providers.TranscriptionKey,
	}
}

func (c *TranscriptionClient) Transcribe(ctx context.Context, mediaRef string) (string, error) {
	if !c.IsConfigured() {
		log.Warn().Str("mediaRef", mediaRef).Msg("Transcription provider not configured, returning mock transcript")
		return fmt.Sprintf("[mock transcript for %s]", mediaRef), nil
	}

	bodyBytes, err := json.Marshal(transcriptionRequest{MediaRef: mediaRef})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/transcriptions", bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("transcription API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	var result transcriptionResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return result.Transcript, nil
}

// IsConfigured returns true if the client has valid configuration
func (c *TranscriptionClient) IsConfigured() bool {
	return c.baseURL != "" && c.apiKey != ""
}
