package dto

import (
	"time"

	"wiki-quiz/internal/domain"
)

// GenerateQuizRequest represents the body of a generation request
// @Description Wikipedia article to build a quiz from
type GenerateQuizRequest struct {
	URL string `json:"url" validate:"required,wikipedia_url" example:"https://en.wikipedia.org/wiki/Alan_Turing"`
}

// QuestionResponse is one multiple-choice question in canonical option order
type QuestionResponse struct {
	Question    string   `json:"question"`
	Options     []string `json:"options"`
	Answer      string   `json:"answer"`
	Explanation string   `json:"explanation,omitempty"`
	Difficulty  string   `json:"difficulty,omitempty"`
}

// QuizDetailResponse represents a stored quiz in the API response
// @Description Full quiz with questions and scores
type QuizDetailResponse struct {
	ID            string             `json:"id"`
	URL           string             `json:"url"`
	Title         string             `json:"title"`
	Summary       string             `json:"summary"`
	Sections      []string           `json:"sections"`
	Quiz          []QuestionResponse `json:"quiz"`
	RelatedTopics []string           `json:"related_topics"`
	CreatedAt     time.Time          `json:"created_at"`
	LastScore     int                `json:"last_score"`
	HighScore     int                `json:"high_score"`
}

// QuizSummaryResponse is an entry of the quiz history listing
type QuizSummaryResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"created_at"`
	LastScore int       `json:"last_score"`
	HighScore int       `json:"high_score"`
}

// ScoreRequest represents a final score submission
// @Description Score reached in a completed quiz session
type ScoreRequest struct {
	Score *int `json:"score" validate:"required,min=0"`
}

// ScoreResponse is the stored score state after a submission
type ScoreResponse struct {
	Message   string `json:"message"`
	LastScore int    `json:"last_score"`
	HighScore int    `json:"high_score"`
}

// HealthResponse is returned by the health endpoint
type HealthResponse struct {
	Message string `json:"message"`
}

// NewQuizDetailResponse converts a domain quiz for the API.
func NewQuizDetailResponse(q *domain.Quiz) *QuizDetailResponse {
	questions := make([]QuestionResponse, 0, len(q.Questions))
	for _, dq := range q.Questions {
		questions = append(questions, QuestionResponse{
			Question:    dq.Text,
			Options:     dq.Options,
			Answer:      dq.CorrectAnswer,
			Explanation: dq.Explanation,
			Difficulty:  dq.Difficulty,
		})
	}
	return &QuizDetailResponse{
		ID:            q.ID,
		URL:           q.URL,
		Title:         q.Title,
		Summary:       q.Summary,
		Sections:      nonNil(q.Sections),
		Quiz:          questions,
		RelatedTopics: nonNil(q.RelatedTopics),
		CreatedAt:     q.CreatedAt,
		LastScore:     q.LastScore,
		HighScore:     q.HighScore,
	}
}

// ToDomain converts a decoded response back to a playable quiz.
func (r *QuizDetailResponse) ToDomain() *domain.Quiz {
	questions := make([]domain.Question, 0, len(r.Quiz))
	for _, q := range r.Quiz {
		questions = append(questions, domain.Question{
			Text:          q.Question,
			Options:       q.Options,
			CorrectAnswer: q.Answer,
			Explanation:   q.Explanation,
			Difficulty:    q.Difficulty,
		})
	}
	return &domain.Quiz{
		ID:            r.ID,
		URL:           r.URL,
		Title:         r.Title,
		Summary:       r.Summary,
		Sections:      r.Sections,
		Questions:     questions,
		RelatedTopics: r.RelatedTopics,
		LastScore:     r.LastScore,
		HighScore:     r.HighScore,
		CreatedAt:     r.CreatedAt,
	}
}

// NewQuizSummaryResponse converts a listing entry for the API.
func NewQuizSummaryResponse(s *domain.QuizSummary) QuizSummaryResponse {
	return QuizSummaryResponse{
		ID:        s.ID,
		Title:     s.Title,
		URL:       s.URL,
		CreatedAt: s.CreatedAt,
		LastScore: s.LastScore,
		HighScore: s.HighScore,
	}
}

// ToDomain converts a decoded listing entry.
func (r QuizSummaryResponse) ToDomain() *domain.QuizSummary {
	return &domain.QuizSummary{
		ID:        r.ID,
		Title:     r.Title,
		URL:       r.URL,
		LastScore: r.LastScore,
		HighScore: r.HighScore,
		CreatedAt: r.CreatedAt,
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
