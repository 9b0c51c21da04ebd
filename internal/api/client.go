// Package api is the HTTP client for the Elevate backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/example/elevate/pkg/models"
)

var (
	// ErrTransport means the backend could not be reached or gave no usable response
	ErrTransport = errors.New("transport failure")
	// ErrNotFound means the requested resource does not exist
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized means the backend rejected the bearer token
	ErrUnauthorized = errors.New("unauthorized")
)

// TokenSource supplies the current bearer token, "" when signed out
type TokenSource interface {
	Token() (string, error)
}

// Client talks to the Elevate backend API
type Client struct {
	baseURL        string
	httpClient     *http.Client
	tokens         TokenSource
	onUnauthorized func()
}

// New creates a backend client. baseURL is the server root without a
// trailing slash, e.g. "https://api.elevate.app".
func New(baseURL string, tokens TokenSource) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		tokens:     tokens,
	}
}

// OnUnauthorized registers the hook invoked whenever the backend answers
// 401. The session layer uses it to force a logout.
func (c *Client) OnUnauthorized(fn func()) {
	c.onUnauthorized = fn
}

// errorBody is the backend's error response shape
type errorBody struct {
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

func (e errorBody) text() string {
	if e.Error != "" {
		return e.Error
	}
	return e.Message
}

// do sends one JSON request and decodes the response into out (if non-nil)
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %v", err)
		}
		reader = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	if tok, err := c.tokens.Token(); err == nil && tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		if c.onUnauthorized != nil {
			c.onUnauthorized()
		}
		return fmt.Errorf("%w: session expired", ErrUnauthorized)
	}
	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var eb errorBody
		_ = json.NewDecoder(resp.Body).Decode(&eb)
		if msg := eb.text(); msg != "" {
			return fmt.Errorf("server error (%d): %s", resp.StatusCode, msg)
		}
		return fmt.Errorf("server error (%d)", resp.StatusCode)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("%w: failed to decode response: %v", ErrTransport, err)
		}
	}
	return nil
}

// LoginResponse is what the authentication endpoint returns
type LoginResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Login exchanges credentials for a bearer token
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	request := map[string]string{"email": email, "password": password}
	var response LoginResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", request, &response); err != nil {
		return nil, err
	}
	if response.Token == "" {
		return nil, fmt.Errorf("%w: login response carried no token", ErrTransport)
	}
	return &response, nil
}

// Folders returns all folders for the signed-in user
func (c *Client) Folders(ctx context.Context) ([]models.Folder, error) {
	var folders []models.Folder
	if err := c.do(ctx, http.MethodGet, "/api/folders", nil, &folders); err != nil {
		return nil, err
	}
	return folders, nil
}

// CreateFolder creates a folder and returns it with its assigned ID
func (c *Client) CreateFolder(ctx context.Context, name, description string) (*models.Folder, error) {
	request := map[string]string{"name": name, "description": description}
	var folder models.Folder
	if err := c.do(ctx, http.MethodPost, "/api/folders", request, &folder); err != nil {
		return nil, err
	}
	return &folder, nil
}

// QuestionSets returns all question sets in a folder
func (c *Client) QuestionSets(ctx context.Context, folderID int64) ([]models.QuestionSet, error) {
	var sets []models.QuestionSet
	path := fmt.Sprintf("/api/folders/%d/questionsets", folderID)
	if err := c.do(ctx, http.MethodGet, path, nil, &sets); err != nil {
		return nil, err
	}
	return sets, nil
}

// QuestionSet returns one question set by ID
func (c *Client) QuestionSet(ctx context.Context, id int64) (*models.QuestionSet, error) {
	var set models.QuestionSet
	path := fmt.Sprintf("/api/questionsets/%d", id)
	if err := c.do(ctx, http.MethodGet, path, nil, &set); err != nil {
		return nil, err
	}
	return &set, nil
}

// CreateQuestionSet creates a question set inside a folder
func (c *Client) CreateQuestionSet(ctx context.Context, folderID int64, name string) (*models.QuestionSet, error) {
	request := map[string]interface{}{"folderId": folderID, "name": name}
	var set models.QuestionSet
	if err := c.do(ctx, http.MethodPost, "/api/questionsets", request, &set); err != nil {
		return nil, err
	}
	return &set, nil
}

// Questions returns all questions belonging to a question set
func (c *Client) Questions(ctx context.Context, questionSetID int64) ([]models.Question, error) {
	var questions []models.Question
	path := fmt.Sprintf("/api/questionsets/%d/questions", questionSetID)
	if err := c.do(ctx, http.MethodGet, path, nil, &questions); err != nil {
		return nil, err
	}
	return questions, nil
}

// CreateQuestion adds a question to a question set
func (c *Client) CreateQuestion(ctx context.Context, questionSetID int64, text, answer string) (*models.Question, error) {
	request := map[string]interface{}{"questionSetId": questionSetID, "text": text, "answer": answer}
	var question models.Question
	if err := c.do(ctx, http.MethodPost, "/api/questions", request, &question); err != nil {
		return nil, err
	}
	return &question, nil
}

// SubmitReview persists the outcomes of a completed review session
func (c *Client) SubmitReview(ctx context.Context, submission models.ReviewSubmission) error {
	return c.do(ctx, http.MethodPost, "/api/reviews", submission, nil)
}

// DueReviewCount returns how many questions are currently due for review
func (c *Client) DueReviewCount(ctx context.Context) (int, error) {
	var response struct {
		Count int `json:"count"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/reviews/due", nil, &response); err != nil {
		return 0, err
	}
	return response.Count, nil
}
