package domain

import "context"

// GeneratedQuiz is the raw output of a generation run, before it is stored.
type GeneratedQuiz struct {
	Questions     []Question
	RelatedTopics []string
}

// QuizGenerationService defines the interface for generating quiz questions.
type QuizGenerationService interface {
	// GenerateQuiz produces multiple-choice questions drawn only from article.
	GenerateQuiz(ctx context.Context, article *Article) (*GeneratedQuiz, error)
}
