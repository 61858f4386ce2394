package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"wiki-quiz/internal/config"
	"wiki-quiz/internal/domain"
	"wiki-quiz/internal/dto"
)

// Client talks to the quiz API on behalf of the terminal player.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a Client for cfg.APIURL. A nil httpClient gets one with the
// configured timeout.
func New(cfg config.ClientConfig, httpClient *http.Client) *Client {
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 90 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.APIURL, "/") + "/api",
		httpClient: httpClient,
	}
}

// apiError is the error body written by the API error handler.
type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
}

func (e *apiError) Error() string {
	return fmt.Sprintf("%d %s: %s", e.Status, e.Code, e.Message)
}

// GenerateQuiz asks the API to build (or return the stored) quiz for articleURL.
func (c *Client) GenerateQuiz(ctx context.Context, articleURL string) (*domain.Quiz, error) {
	var resp dto.QuizDetailResponse
	body := dto.GenerateQuizRequest{URL: articleURL}
	if err := c.do(ctx, "generate quiz", http.MethodPost, "/quizzes/generate", body, &resp); err != nil {
		return nil, err
	}
	return resp.ToDomain(), nil
}

// ListQuizzes returns the stored quiz history, newest first.
func (c *Client) ListQuizzes(ctx context.Context) ([]*domain.QuizSummary, error) {
	var resp []dto.QuizSummaryResponse
	if err := c.do(ctx, "list quizzes", http.MethodGet, "/quizzes", nil, &resp); err != nil {
		return nil, err
	}
	out := make([]*domain.QuizSummary, 0, len(resp))
	for _, s := range resp {
		out = append(out, s.ToDomain())
	}
	return out, nil
}

// GetQuiz fetches a stored quiz. An unknown id yields a QUIZ_NOT_FOUND error.
func (c *Client) GetQuiz(ctx context.Context, id string) (*domain.Quiz, error) {
	var resp dto.QuizDetailResponse
	err := c.do(ctx, "get quiz", http.MethodGet, "/quizzes/"+url.PathEscape(id), nil, &resp)
	if err != nil {
		var apiErr *apiError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
			return nil, domain.NewQuizNotFoundError(id)
		}
		return nil, err
	}
	return resp.ToDomain(), nil
}

// SubmitScore stores the final score of a completed session.
func (c *Client) SubmitScore(ctx context.Context, id string, score int) (*domain.ScoreRecord, error) {
	var resp dto.ScoreResponse
	body := dto.ScoreRequest{Score: &score}
	if err := c.do(ctx, "submit score", http.MethodPost, "/quizzes/"+url.PathEscape(id)+"/score", body, &resp); err != nil {
		return nil, err
	}
	return &domain.ScoreRecord{QuizID: id, LastScore: resp.LastScore, HighScore: resp.HighScore}, nil
}

// do performs one JSON round trip. Every failure is returned as a
// TRANSPORT_ERROR; an error body from the API is kept as its cause.
func (c *Client) do(ctx context.Context, operation, method, path string, in, out interface{}) error {
	var reqBody io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return domain.NewTransportError(operation, err)
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return domain.NewTransportError(operation, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.NewTransportError(operation, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.NewTransportError(operation, fmt.Errorf("failed to read response: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &apiError{Status: resp.StatusCode}
		if jsonErr := json.Unmarshal(raw, apiErr); jsonErr != nil || apiErr.Message == "" {
			apiErr.Message = strings.TrimSpace(string(raw))
		}
		apiErr.Status = resp.StatusCode
		return domain.NewTransportError(operation, apiErr)
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return domain.NewTransportError(operation, fmt.Errorf("failed to decode response: %w", err))
	}
	return nil
}
