package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"wiki-quiz/internal/config"
	"wiki-quiz/internal/domain"
	"wiki-quiz/internal/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const quizID = "01HZY8M4Q6W3V7X2K9J5T0N1BC"

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(config.ClientConfig{APIURL: srv.URL + "/", Timeout: 5 * time.Second}, nil)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func detail() dto.QuizDetailResponse {
	return dto.QuizDetailResponse{
		ID:    quizID,
		URL:   "https://en.wikipedia.org/wiki/Alan_Turing",
		Title: "Alan Turing",
		Quiz: []dto.QuestionResponse{{
			Question:    "Where did Turing work?",
			Options:     []string{"Bletchley Park", "Oxford"},
			Answer:      "Bletchley Park",
			Explanation: "He worked at Bletchley Park.",
		}},
		HighScore: 1,
	}
}

func TestGenerateQuiz(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/quizzes/generate", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req dto.GenerateQuizRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "https://en.wikipedia.org/wiki/Alan_Turing", req.URL)
		writeJSON(w, http.StatusOK, detail())
	})

	quiz, err := c.GenerateQuiz(context.Background(), "https://en.wikipedia.org/wiki/Alan_Turing")
	require.NoError(t, err)
	assert.Equal(t, quizID, quiz.ID)
	require.Len(t, quiz.Questions, 1)
	assert.Equal(t, "Bletchley Park", quiz.Questions[0].CorrectAnswer)
	assert.NoError(t, quiz.Validate())
}

func TestGenerateQuiz_ServerError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
			"code": "LLM_SERVICE_ERROR", "message": "Failed to process with LLM service", "status": 503,
		})
	})

	_, err := c.GenerateQuiz(context.Background(), "https://en.wikipedia.org/wiki/Alan_Turing")
	require.Error(t, err)
	assert.True(t, domain.HasCode(err, domain.CodeTransport))
	assert.Contains(t, err.Error(), "LLM_SERVICE_ERROR")
}

func TestListQuizzes(t *testing.T) {
	created := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/quizzes", r.URL.Path)
		writeJSON(w, http.StatusOK, []dto.QuizSummaryResponse{
			{ID: "b", Title: "Newer", CreatedAt: created.Add(time.Hour), HighScore: 4},
			{ID: "a", Title: "Older", CreatedAt: created},
		})
	})

	list, err := c.ListQuizzes(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "b", list[0].ID)
	assert.Equal(t, 4, list[0].HighScore)
	assert.True(t, list[1].CreatedAt.Equal(created))
}

func TestGetQuiz(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/quizzes/"+quizID {
			writeJSON(w, http.StatusOK, detail())
			return
		}
		writeJSON(w, http.StatusNotFound, map[string]interface{}{
			"code": "QUIZ_NOT_FOUND", "message": "Quiz not found", "status": 404,
		})
	})

	quiz, err := c.GetQuiz(context.Background(), quizID)
	require.NoError(t, err)
	assert.Equal(t, 1, quiz.HighScore)

	_, err = c.GetQuiz(context.Background(), "01HZY8M4Q6W3V7X2K9J5T0N1BD")
	assert.True(t, domain.HasCode(err, domain.CodeQuizNotFound))
}

func TestSubmitScore(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/quizzes/"+quizID+"/score", r.URL.Path)
		var req dto.ScoreRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.NotNil(t, req.Score)
		assert.Equal(t, 0, *req.Score)
		writeJSON(w, http.StatusOK, dto.ScoreResponse{Message: "Score updated", LastScore: 0, HighScore: 3})
	})

	rec, err := c.SubmitScore(context.Background(), quizID, 0)
	require.NoError(t, err)
	assert.Equal(t, &domain.ScoreRecord{QuizID: quizID, LastScore: 0, HighScore: 3}, rec)
}

func TestTransportFailures(t *testing.T) {
	t.Run("undecodable body", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("<html>proxy error</html>"))
		})
		_, err := c.ListQuizzes(context.Background())
		assert.True(t, domain.HasCode(err, domain.CodeTransport))
	})

	t.Run("plain text error status", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "bad gateway", http.StatusBadGateway)
		})
		_, err := c.ListQuizzes(context.Background())
		assert.True(t, domain.HasCode(err, domain.CodeTransport))
		assert.Contains(t, err.Error(), "bad gateway")
	})

	t.Run("server unreachable", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		srv.Close()
		c := New(config.ClientConfig{APIURL: srv.URL}, nil)

		_, err := c.GetQuiz(context.Background(), quizID)
		assert.True(t, domain.HasCode(err, domain.CodeTransport))
	})

	t.Run("cancelled context", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, detail())
		})
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := c.GetQuiz(ctx, quizID)
		assert.True(t, domain.HasCode(err, domain.CodeTransport))
		assert.True(t, errors.Is(err, context.Canceled))
	})
}
