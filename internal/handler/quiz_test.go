package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"wiki-quiz/internal/domain"
	"wiki-quiz/internal/dto"
	"wiki-quiz/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	turingURL = "https://en.wikipedia.org/wiki/Alan_Turing"
	quizID    = "01HZY8M4Q6W3V7X2K9J5T0N1BC"
)

type MockQuizService struct {
	mock.Mock
}

func (m *MockQuizService) GenerateQuiz(ctx context.Context, url string) (*dto.QuizDetailResponse, error) {
	args := m.Called(ctx, url)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.QuizDetailResponse), args.Error(1)
}

func (m *MockQuizService) ListQuizzes(ctx context.Context) ([]dto.QuizSummaryResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]dto.QuizSummaryResponse), args.Error(1)
}

func (m *MockQuizService) GetQuiz(ctx context.Context, id string) (*dto.QuizDetailResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.QuizDetailResponse), args.Error(1)
}

func (m *MockQuizService) UpdateScore(ctx context.Context, id string, score int) (*dto.ScoreResponse, error) {
	args := m.Called(ctx, id, score)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ScoreResponse), args.Error(1)
}

func setupApp(svc *MockQuizService) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler()})
	NewQuizHandler(svc, nil).RegisterRoutes(app.Group("/api"))
	return app
}

func detail() *dto.QuizDetailResponse {
	return &dto.QuizDetailResponse{
		ID:    quizID,
		URL:   turingURL,
		Title: "Alan Turing",
		Quiz: []dto.QuestionResponse{{
			Question: "Where did Turing work?",
			Options:  []string{"Bletchley Park", "Oxford"},
			Answer:   "Bletchley Park",
		}},
		Sections:      []string{},
		RelatedTopics: []string{},
	}
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestHealth(t *testing.T) {
	app := setupApp(new(MockQuizService))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/health", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body dto.HealthResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.NotEmpty(t, body.Message)
}

func TestGenerateQuiz(t *testing.T) {
	t.Run("url in body", func(t *testing.T) {
		svc := new(MockQuizService)
		svc.On("GenerateQuiz", mock.Anything, turingURL).Return(detail(), nil).Once()
		app := setupApp(svc)

		resp, err := app.Test(jsonRequest(http.MethodPost, "/api/quizzes/generate", `{"url":"`+turingURL+`"}`), -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body dto.QuizDetailResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, quizID, body.ID)
		require.Len(t, body.Quiz, 1)
		assert.Equal(t, "Bletchley Park", body.Quiz[0].Answer)
		svc.AssertExpectations(t)
	})

	t.Run("url in query", func(t *testing.T) {
		svc := new(MockQuizService)
		svc.On("GenerateQuiz", mock.Anything, turingURL).Return(detail(), nil).Once()
		app := setupApp(svc)

		resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/api/quizzes/generate?url="+turingURL, nil), -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		svc.AssertExpectations(t)
	})

	t.Run("rejects non-wikipedia url", func(t *testing.T) {
		svc := new(MockQuizService)
		app := setupApp(svc)

		resp, err := app.Test(jsonRequest(http.MethodPost, "/api/quizzes/generate", `{"url":"https://example.com/wiki/X"}`))
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		var body middleware.ValidationErrorResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		require.Len(t, body.Errors, 1)
		assert.Equal(t, "url", body.Errors[0].Field)
		svc.AssertNotCalled(t, "GenerateQuiz", mock.Anything, mock.Anything)
	})

	t.Run("missing url", func(t *testing.T) {
		app := setupApp(new(MockQuizService))

		resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/api/quizzes/generate", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("generation failure", func(t *testing.T) {
		svc := new(MockQuizService)
		svc.On("GenerateQuiz", mock.Anything, turingURL).
			Return(nil, domain.NewLLMServiceError(assert.AnError)).Once()
		app := setupApp(svc)

		resp, err := app.Test(jsonRequest(http.MethodPost, "/api/quizzes/generate", `{"url":"`+turingURL+`"}`), -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

		var body middleware.ErrorResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, string(domain.CodeLLMServiceError), body.Code)
	})
}

func TestListQuizzes(t *testing.T) {
	svc := new(MockQuizService)
	svc.On("ListQuizzes", mock.Anything).Return([]dto.QuizSummaryResponse{
		{ID: quizID, Title: "Alan Turing", URL: turingURL, LastScore: 3, HighScore: 5},
	}, nil).Once()
	app := setupApp(svc)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/quizzes", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body []dto.QuizSummaryResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body, 1)
	assert.Equal(t, 5, body[0].HighScore)
}

func TestGetQuiz(t *testing.T) {
	svc := new(MockQuizService)
	svc.On("GetQuiz", mock.Anything, quizID).Return(detail(), nil).Once()
	svc.On("GetQuiz", mock.Anything, "01HZY8M4Q6W3V7X2K9J5T0N1BD").
		Return(nil, domain.NewQuizNotFoundError("01HZY8M4Q6W3V7X2K9J5T0N1BD")).Once()
	app := setupApp(svc)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/quizzes/"+quizID, nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/quizzes/01HZY8M4Q6W3V7X2K9J5T0N1BD", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/quizzes/42", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	svc.AssertExpectations(t)
}

func TestUpdateScore(t *testing.T) {
	t.Run("stores score", func(t *testing.T) {
		svc := new(MockQuizService)
		svc.On("UpdateScore", mock.Anything, quizID, 0).
			Return(&dto.ScoreResponse{Message: "Score updated", LastScore: 0, HighScore: 4}, nil).Once()
		app := setupApp(svc)

		resp, err := app.Test(jsonRequest(http.MethodPost, "/api/quizzes/"+quizID+"/score", `{"score":0}`))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body dto.ScoreResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, 0, body.LastScore)
		assert.Equal(t, 4, body.HighScore)
		svc.AssertExpectations(t)
	})

	t.Run("invalid bodies", func(t *testing.T) {
		for _, body := range []string{`{}`, `{"score":-1}`, `not json`} {
			svc := new(MockQuizService)
			app := setupApp(svc)

			resp, err := app.Test(jsonRequest(http.MethodPost, "/api/quizzes/"+quizID+"/score", body))
			require.NoError(t, err)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode, body)
			svc.AssertNotCalled(t, "UpdateScore", mock.Anything, mock.Anything, mock.Anything)
		}
	})

	t.Run("score above question count", func(t *testing.T) {
		svc := new(MockQuizService)
		svc.On("UpdateScore", mock.Anything, quizID, 9).
			Return(nil, domain.NewInvalidInputError("score exceeds the number of questions")).Once()
		app := setupApp(svc)

		resp, err := app.Test(jsonRequest(http.MethodPost, "/api/quizzes/"+quizID+"/score", `{"score":9}`))
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}
