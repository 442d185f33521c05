// Package advisor generates energy-saving recommendations from the
// user's device inventory by calling the OpenAI chat-completions API.
//
// The call is deliberately thin: one fixed system prompt, the device
// list as JSON, and a JSON-object response format so the reply parses
// deterministically. No SDK — the API is a single POST endpoint, and a
// plain net/http client keeps the dependency surface flat (the same way
// the auth package calls the GitHub API directly).
package advisor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/wattwise/wattwise/internal/model"
)

// Client produces recommendation strings for a set of devices.
// Implemented by OpenAI for production and by test fakes in the service
// tests.
type Client interface {
	Recommend(ctx context.Context, devices []model.Device) ([]string, error)
}

// Fallback is served whenever the API is unreachable, misbehaves, or no
// API key is configured. Advice degrading to generic tips beats a
// failing dashboard panel.
var Fallback = []string{
	"Consider turning off devices when not in use",
	"Schedule high-energy appliances during off-peak hours",
	"Monitor and adjust temperature settings regularly",
}

const systemPrompt = "You are an energy efficiency expert. Based on the device usage data provided, " +
	"generate 3 specific, actionable recommendations to reduce energy consumption. " +
	"Return the recommendations in JSON format as an array of strings."

const defaultBaseURL = "https://api.openai.com/v1"

// OpenAI calls the chat-completions endpoint.
type OpenAI struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

var _ Client = (*OpenAI)(nil)

// NewOpenAI creates a client for the given API key and model
// (e.g. "gpt-4o").
func NewOpenAI(apiKey, model string) *OpenAI {
	return &OpenAI{
		apiKey:  apiKey,
		model:   model,
		baseURL: defaultBaseURL,
		// A generative call can take a few seconds; 30s bounds the worst
		// case so a stuck upstream can't pin request handlers forever.
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// NewOpenAIWithBaseURL is like NewOpenAI but targets a custom endpoint.
// Used by tests to point the client at an httptest server.
func NewOpenAIWithBaseURL(apiKey, model, baseURL string) *OpenAI {
	c := NewOpenAI(apiKey, model)
	c.baseURL = baseURL
	return c
}

// Request/response shapes for the chat-completions endpoint. Only the
// fields we send or read — the API tolerates missing optional fields and
// we ignore the rest of its response.

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	ResponseFormat struct {
		Type string `json:"type"`
	} `json:"response_format"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Recommend asks the model for three actionable tips based on the
// device inventory. The device list is passed through as JSON — the
// model sees names, types, statuses, and current usage.
func (c *OpenAI) Recommend(ctx context.Context, devices []model.Device) ([]string, error) {
	deviceJSON, err := json.Marshal(devices)
	if err != nil {
		return nil, fmt.Errorf("advisor: marshaling devices: %w", err)
	}

	reqBody := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: string(deviceJSON)},
		},
	}
	reqBody.ResponseFormat.Type = "json_object"

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("advisor: marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("advisor: building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("advisor: calling chat completions: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("advisor: chat completions returned status %d", resp.StatusCode)
	}

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return nil, fmt.Errorf("advisor: decoding response: %w", err)
	}
	if len(chatResp.Choices) == 0 {
		return nil, fmt.Errorf("advisor: response has no choices")
	}

	// With response_format json_object the content itself is a JSON
	// document; the prompt asks for {"recommendations": [...]}.
	var result struct {
		Recommendations []string `json:"recommendations"`
	}
	if err := json.Unmarshal([]byte(chatResp.Choices[0].Message.Content), &result); err != nil {
		return nil, fmt.Errorf("advisor: parsing recommendations: %w", err)
	}
	if len(result.Recommendations) == 0 {
		return nil, fmt.Errorf("advisor: model returned no recommendations")
	}

	return result.Recommendations, nil
}
