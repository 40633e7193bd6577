package llms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/lumilabs/lumi/pkg/config"
	"github.com/lumilabs/lumi/pkg/httpclient"
	"github.com/lumilabs/lumi/pkg/observability"
)

// SolarProvider talks to the Upstage Solar chat completions API. The API is
// OpenAI-compatible, so the wire types below follow that schema.
type SolarProvider struct {
	config     config.LLMConfig
	httpClient *httpclient.Client
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []wireMessage   `json:"messages"`
	MaxTokens      *int            `json:"max_tokens,omitempty"`
	Temperature    float64         `json:"temperature"`
	Stream         bool            `json:"stream"`
	Tools          []wireTool      `json:"tools,omitempty"`
	ToolChoice     string          `json:"tool_choice,omitempty"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type wireMessage struct {
	Role       string         `json:"role"`
	Content    string         `json:"content"`
	ToolCalls  []wireToolCall `json:"tool_calls,omitempty"`
	ToolCallID string         `json:"tool_call_id,omitempty"`
}

type wireTool struct {
	Type     string           `json:"type"`
	Function wireToolFunction `json:"function"`
}

type wireToolFunction struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

type wireToolCall struct {
	ID       string           `json:"id"`
	Type     string           `json:"type"`
	Function wireFunctionCall `json:"function"`
}

type wireFunctionCall struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

type responseFormat struct {
	Type       string      `json:"type"`
	JSONSchema *jsonSchema `json:"json_schema,omitempty"`
}

type jsonSchema struct {
	Name   string         `json:"name"`
	Schema map[string]any `json:"schema"`
	Strict bool           `json:"strict,omitempty"`
}

type chatResponse struct {
	Choices []choice  `json:"choices"`
	Usage   usage     `json:"usage"`
	Error   *apiError `json:"error,omitempty"`
}

type choice struct {
	Message      wireMessage `json:"message"`
	FinishReason string      `json:"finish_reason"`
}

type usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

type apiError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    string `json:"code"`
}

// NewSolarProvider creates a provider from configuration.
func NewSolarProvider(cfg config.LLMConfig) *SolarProvider {
	httpClient := httpclient.New(
		httpclient.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
		httpclient.WithMaxRetries(cfg.MaxRetries),
		httpclient.WithHeaderParser(httpclient.ParseRateLimitHeaders),
	)

	return &SolarProvider{
		config:     cfg,
		httpClient: httpClient,
	}
}

func (p *SolarProvider) Generate(ctx context.Context, messages []Message, tools []ToolDefinition) (string, []ToolCall, int, error) {
	request := p.buildRequest(messages, tools)
	return p.complete(ctx, request)
}

func (p *SolarProvider) GenerateStructured(ctx context.Context, messages []Message, output *StructuredOutput) (string, int, error) {
	request := p.buildRequest(messages, nil)

	if output != nil && output.Schema != nil {
		request.ResponseFormat = &responseFormat{
			Type: "json_schema",
			JSONSchema: &jsonSchema{
				Name:   output.Name,
				Schema: output.Schema,
				Strict: true,
			},
		}
	} else {
		request.ResponseFormat = &responseFormat{Type: "json_object"}
	}

	text, _, tokens, err := p.complete(ctx, request)
	return text, tokens, err
}

func (p *SolarProvider) ModelName() string {
	return p.config.Model
}

func (p *SolarProvider) Close() error {
	return nil
}

func (p *SolarProvider) buildRequest(messages []Message, tools []ToolDefinition) chatRequest {
	wireMessages := make([]wireMessage, 0, len(messages))
	for _, msg := range messages {
		wm := wireMessage{
			Role:       string(msg.Role),
			Content:    msg.Content,
			ToolCallID: msg.ToolCallID,
		}

		if len(msg.ToolCalls) > 0 {
			wm.ToolCalls = make([]wireToolCall, len(msg.ToolCalls))
			for i, tc := range msg.ToolCalls {
				argsJSON, _ := json.Marshal(tc.Args)
				wm.ToolCalls[i] = wireToolCall{
					ID:   tc.ID,
					Type: "function",
					Function: wireFunctionCall{
						Name:      tc.Name,
						Arguments: string(argsJSON),
					},
				}
			}
		}

		wireMessages = append(wireMessages, wm)
	}

	request := chatRequest{
		Model:       p.config.Model,
		Messages:    wireMessages,
		Temperature: p.config.Temperature,
	}

	if p.config.MaxTokens > 0 {
		maxTokens := p.config.MaxTokens
		request.MaxTokens = &maxTokens
	}

	if len(tools) > 0 {
		request.Tools = make([]wireTool, len(tools))
		for i, tool := range tools {
			request.Tools[i] = wireTool{
				Type:     "function",
				Function: wireToolFunction(tool),
			}
		}
		request.ToolChoice = "auto"
	}

	return request
}

func (p *SolarProvider) complete(ctx context.Context, request chatRequest) (string, []ToolCall, int, error) {
	start := time.Now()

	response, err := p.makeRequest(ctx, request)
	duration := time.Since(start)

	if metrics := observability.GetGlobalMetrics(); metrics != nil {
		defer func() {
			if response != nil {
				metrics.RecordLLMCall(p.config.Model, duration, response.Usage.TotalTokens, err)
			} else {
				metrics.RecordLLMCall(p.config.Model, duration, 0, err)
			}
		}()
	}

	if err != nil {
		return "", nil, 0, err
	}

	if response.Error != nil {
		err = fmt.Errorf("solar API error: %s", response.Error.Message)
		return "", nil, 0, err
	}

	if len(response.Choices) == 0 {
		err = fmt.Errorf("no response choices returned")
		return "", nil, 0, err
	}

	ch := response.Choices[0]
	tokensUsed := response.Usage.TotalTokens

	var toolCalls []ToolCall
	if len(ch.Message.ToolCalls) > 0 {
		toolCalls, err = parseToolCalls(ch.Message.ToolCalls)
		if err != nil {
			return ch.Message.Content, nil, tokensUsed, err
		}
	}

	return ch.Message.Content, toolCalls, tokensUsed, nil
}

func (p *SolarProvider) makeRequest(ctx context.Context, request chatRequest) (*chatResponse, error) {
	requestBody, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", p.config.Host+"/chat/completions", bytes.NewReader(requestBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}

	req.GetBody = func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(requestBody)), nil
	}

	req.Header.Set("Content-Type", "application/json")
	if p.config.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+p.config.APIKey)
	}

	resp, err := p.httpClient.Do(req)
	if resp != nil {
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(resp.Body)
			if apiErr := parseErrorResponse(body); apiErr != nil {
				return nil, fmt.Errorf("solar API error (HTTP %d): %s", resp.StatusCode, apiErr.Message)
			}
			return nil, fmt.Errorf("solar API request failed with HTTP %d", resp.StatusCode)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var response chatResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	return &response, nil
}

// parseToolCalls converts wire tool calls to the internal form. Some
// providers omit call IDs, so missing ones get generated.
func parseToolCalls(wireCalls []wireToolCall) ([]ToolCall, error) {
	result := make([]ToolCall, len(wireCalls))

	for i, tc := range wireCalls {
		var args map[string]any
		if tc.Function.Arguments != "" {
			if err := json.Unmarshal([]byte(tc.Function.Arguments), &args); err != nil {
				return nil, fmt.Errorf("failed to parse arguments for tool %s: %w", tc.Function.Name, err)
			}
		}

		id := tc.ID
		if id == "" {
			id = "call_" + uuid.NewString()
		}

		result[i] = ToolCall{
			ID:   id,
			Name: tc.Function.Name,
			Args: args,
		}
	}

	return result, nil
}

func parseErrorResponse(body []byte) *apiError {
	if len(body) == 0 {
		return nil
	}
	var errorResp struct {
		Error apiError `json:"error"`
	}
	if err := json.Unmarshal(body, &errorResp); err == nil && errorResp.Error.Message != "" {
		return &errorResp.Error
	}
	return nil
}
