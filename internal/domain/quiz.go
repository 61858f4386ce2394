package domain

import (
	"fmt"
	"strings"
	"time"
)

// Question is a single multiple-choice prompt.
type Question struct {
	Text          string
	Options       []string
	CorrectAnswer string
	Explanation   string
	Difficulty    string // easy | medium | hard
}

// Validate checks that the question can be played.
func (q *Question) Validate() error {
	if strings.TrimSpace(q.Text) == "" {
		return NewInvalidQuizError("question text is required")
	}
	if len(q.Options) < 2 {
		return NewInvalidQuizError(fmt.Sprintf("question %q needs at least 2 options", q.Text))
	}
	seen := make(map[string]struct{}, len(q.Options))
	for _, opt := range q.Options {
		if strings.TrimSpace(opt) == "" {
			return NewInvalidQuizError(fmt.Sprintf("question %q has a blank option", q.Text))
		}
		if _, dup := seen[opt]; dup {
			return NewInvalidQuizError(fmt.Sprintf("question %q has duplicate option %q", q.Text, opt))
		}
		seen[opt] = struct{}{}
	}
	if _, ok := seen[q.CorrectAnswer]; !ok {
		return NewInvalidQuizError(fmt.Sprintf("correct answer %q of question %q is not one of its options", q.CorrectAnswer, q.Text))
	}
	return nil
}

// HasOption reports whether value is one of the question's options.
func (q *Question) HasOption(value string) bool {
	for _, opt := range q.Options {
		if opt == value {
			return true
		}
	}
	return false
}

// Quiz represents a generated quiz. Question order is the presentation order.
type Quiz struct {
	ID            string // empty until the quiz has been stored
	URL           string
	Title         string
	Summary       string
	Sections      []string
	Questions     []Question
	RelatedTopics []string
	LastScore     int
	HighScore     int
	CreatedAt     time.Time
}

// NewQuiz creates a new, not yet persisted, Quiz instance
func NewQuiz(url, title string, questions []Question) *Quiz {
	return &Quiz{
		URL:       url,
		Title:     title,
		Questions: questions,
		CreatedAt: time.Now(),
	}
}

// Validate validates the quiz for play
func (q *Quiz) Validate() error {
	if q == nil {
		return NewInvalidQuizError("quiz is missing")
	}
	if len(q.Questions) == 0 {
		return NewInvalidQuizError("quiz has no questions")
	}
	for i := range q.Questions {
		if err := q.Questions[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}

// QuizSummary is a listing entry for a stored quiz.
type QuizSummary struct {
	ID        string
	Title     string
	URL       string
	LastScore int
	HighScore int
	CreatedAt time.Time
}

// ScoreRecord is the stored score state after an update.
type ScoreRecord struct {
	QuizID    string
	LastScore int
	HighScore int
}
