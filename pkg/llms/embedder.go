package llms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/lumilabs/lumi/pkg/config"
	"github.com/lumilabs/lumi/pkg/httpclient"
)

// SolarEmbedder produces embeddings via the Upstage embeddings endpoint.
type SolarEmbedder struct {
	config     config.EmbedderConfig
	httpClient *httpclient.Client
}

type embeddingRequest struct {
	Model string `json:"model"`
	Input string `json:"input"`
}

type embeddingResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
	Error *apiError `json:"error,omitempty"`
}

func NewSolarEmbedder(cfg config.EmbedderConfig) *SolarEmbedder {
	return &SolarEmbedder{
		config: cfg,
		httpClient: httpclient.New(
			httpclient.WithHTTPClient(&http.Client{Timeout: 30 * time.Second}),
			httpclient.WithHeaderParser(httpclient.ParseRateLimitHeaders),
		),
	}
}

func (e *SolarEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	requestBody, err := json.Marshal(embeddingRequest{
		Model: e.config.Model,
		Input: text,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", e.config.Host+"/embeddings", bytes.NewReader(requestBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}
	req.GetBody = func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(requestBody)), nil
	}
	req.Header.Set("Content-Type", "application/json")
	if e.config.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+e.config.APIKey)
	}

	resp, err := e.httpClient.Do(req)
	if resp != nil {
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(resp.Body)
			if apiErr := parseErrorResponse(body); apiErr != nil {
				return nil, fmt.Errorf("embedding API error (HTTP %d): %s", resp.StatusCode, apiErr.Message)
			}
			return nil, fmt.Errorf("embedding request failed with HTTP %d", resp.StatusCode)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var response embeddingResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if response.Error != nil {
		return nil, fmt.Errorf("embedding API error: %s", response.Error.Message)
	}
	if len(response.Data) == 0 {
		return nil, fmt.Errorf("no embedding returned")
	}

	return response.Data[0].Embedding, nil
}

func (e *SolarEmbedder) Dimension() int {
	return e.config.Dimension
}
