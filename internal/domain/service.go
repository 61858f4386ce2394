package domain

import "context"

// QuizRepository defines the interface for quiz persistence
type QuizRepository interface {
	// SaveQuiz persists a new quiz, assigning its ID and CreatedAt
	SaveQuiz(ctx context.Context, quiz *Quiz) error

	// GetQuizByID retrieves a quiz by its ID. It returns nil, nil when absent.
	GetQuizByID(ctx context.Context, id string) (*Quiz, error)

	// GetQuizByURL retrieves the quiz generated from url. It returns nil, nil when absent.
	GetQuizByURL(ctx context.Context, url string) (*Quiz, error)

	// ListQuizzes returns summaries of all stored quizzes, newest first
	ListQuizzes(ctx context.Context) ([]*QuizSummary, error)

	// UpdateScore sets the last score and raises the high score if needed.
	// It returns nil, nil when the quiz does not exist.
	UpdateScore(ctx context.Context, id string, score int) (*ScoreRecord, error)
}

// TransactionManager runs fn inside a database transaction carried by ctx.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// Article is the scraped content of a source document.
type Article struct {
	URL      string
	Title    string
	Summary  string
	Sections []string
	Text     string
}

// ArticleScraper fetches and extracts a source document.
type ArticleScraper interface {
	Scrape(ctx context.Context, url string) (*Article, error)
}
