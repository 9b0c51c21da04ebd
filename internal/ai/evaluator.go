// Package ai calls the backend's AI endpoints: answer evaluation and the
// study assistant chat.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/example/elevate/pkg/models"
)

// ErrEvaluation means the scoring service failed or answered with garbage
var ErrEvaluation = errors.New("evaluation service failure")

// TokenSource supplies the bearer token attached to AI calls
type TokenSource interface {
	Token() (string, error)
}

// Client represents a client for the backend AI endpoints
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
}

// New creates a new AI client against the given backend root
func New(baseURL string, tokens TokenSource) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 60 * time.Second},
		tokens:     tokens,
	}
}

// EvaluateRequest carries one question/answer pair to the scoring service.
// The question-set name gives the model grading context.
type EvaluateRequest struct {
	QuestionID      int64               `json:"questionId"`
	QuestionText    string              `json:"questionText"`
	QuestionType    models.QuestionType `json:"questionType"`
	Options         []string            `json:"options,omitempty"`
	ExpectedAnswer  string              `json:"expectedAnswer"`
	QuestionSetName string              `json:"questionSetName"`
	UserAnswer      string              `json:"userAnswer"`
}

// evaluateResponse is the scoring endpoint's response shape
type evaluateResponse struct {
	models.Evaluation
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Evaluate scores one answer. Every failure mode (transport, non-2xx,
// malformed body) comes back wrapped in ErrEvaluation so callers can treat
// it uniformly.
func (c *Client) Evaluate(ctx context.Context, request EvaluateRequest) (*models.Evaluation, error) {
	var response evaluateResponse
	if err := c.post(ctx, "/api/ai/evaluate-answer", request, &response); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEvaluation, err)
	}
	if response.Error != nil {
		return nil, fmt.Errorf("%w: %s", ErrEvaluation, response.Error.Message)
	}

	evaluation := response.Evaluation
	return &evaluation, nil
}

// ChatMessage represents a message in the assistant conversation
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatResponse is the assistant endpoint's response shape
type chatResponse struct {
	Response string `json:"response"`
	Error    *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Chat sends the conversation so far and returns the assistant's reply
func (c *Client) Chat(ctx context.Context, messages []ChatMessage) (string, error) {
	request := map[string]interface{}{"messages": messages}
	var response chatResponse
	if err := c.post(ctx, "/api/ai/chat", request, &response); err != nil {
		return "", err
	}
	if response.Error != nil {
		return "", fmt.Errorf("assistant error: %s", response.Error.Message)
	}
	return response.Response, nil
}

// post sends one JSON request to the AI API and decodes the response
func (c *Client) post(ctx context.Context, path string, body, out interface{}) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewBuffer(data))
	if err != nil {
		return fmt.Errorf("failed to create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if tok, err := c.tokens.Token(); err == nil && tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %v", err)
	}
	return nil
}
