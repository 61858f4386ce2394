package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"wiki-quiz/internal/domain"
	"wiki-quiz/internal/repository/models"
	"wiki-quiz/internal/util"

	"github.com/jmoiron/sqlx"
)

// Quoted aliases keep column names lower-case on Oracle so they match db tags.
const quizColumns = `
		id "id",
		url "url",
		title "title",
		summary "summary",
		sections "sections",
		quiz_data "quiz_data",
		related_topics "related_topics",
		last_score "last_score",
		high_score "high_score",
		created_at "created_at"`

// QuizDatabaseAdapter implements domain.QuizRepository using sqlx.DB
type QuizDatabaseAdapter struct {
	db *sqlx.DB
}

// NewQuizDatabaseAdapter creates a new instance of QuizDatabaseAdapter
func NewQuizDatabaseAdapter(db *sqlx.DB) domain.QuizRepository {
	return &QuizDatabaseAdapter{db: db}
}

func (a *QuizDatabaseAdapter) executor(ctx context.Context) DBTX {
	return GetExecutor(ctx, a.db)
}

// SaveQuiz implements domain.QuizRepository
func (a *QuizDatabaseAdapter) SaveQuiz(ctx context.Context, quiz *domain.Quiz) error {
	if quiz == nil {
		return fmt.Errorf("cannot save nil quiz")
	}
	modelQuiz := toModelQuiz(quiz)
	modelQuiz.ID = util.NewULID()
	modelQuiz.CreatedAt = time.Now().UTC().Truncate(time.Microsecond)

	exec := a.executor(ctx)
	query := exec.Rebind(`INSERT INTO quizzes (
		id, url, title, summary, sections, quiz_data,
		related_topics, last_score, high_score, created_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)

	_, err := exec.ExecContext(ctx, query,
		modelQuiz.ID,
		modelQuiz.URL,
		modelQuiz.Title,
		modelQuiz.Summary,
		modelQuiz.Sections,
		modelQuiz.QuizData,
		modelQuiz.RelatedTopics,
		modelQuiz.LastScore,
		modelQuiz.HighScore,
		modelQuiz.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save quiz for %s: %w", quiz.URL, err)
	}

	quiz.ID = modelQuiz.ID
	quiz.CreatedAt = modelQuiz.CreatedAt
	return nil
}

// GetQuizByID implements domain.QuizRepository
func (a *QuizDatabaseAdapter) GetQuizByID(ctx context.Context, id string) (*domain.Quiz, error) {
	quiz, err := a.getOne(ctx, "id", id)
	if err != nil {
		return nil, fmt.Errorf("failed to get quiz by ID %s: %w", id, err)
	}
	return quiz, nil
}

// GetQuizByURL implements domain.QuizRepository
func (a *QuizDatabaseAdapter) GetQuizByURL(ctx context.Context, url string) (*domain.Quiz, error) {
	quiz, err := a.getOne(ctx, "url", url)
	if err != nil {
		return nil, fmt.Errorf("failed to get quiz by URL %s: %w", url, err)
	}
	return quiz, nil
}

// getOne loads a single quiz by a unique column; column is never user input.
func (a *QuizDatabaseAdapter) getOne(ctx context.Context, column, value string) (*domain.Quiz, error) {
	exec := a.executor(ctx)
	query := exec.Rebind(`SELECT` + quizColumns + `
	FROM quizzes
	WHERE ` + column + ` = ?`)

	var modelQuiz models.Quiz
	if err := exec.GetContext(ctx, &modelQuiz, query, value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return toDomainQuiz(&modelQuiz), nil
}

// ListQuizzes implements domain.QuizRepository
func (a *QuizDatabaseAdapter) ListQuizzes(ctx context.Context) ([]*domain.QuizSummary, error) {
	query := `SELECT
		id "id",
		title "title",
		url "url",
		last_score "last_score",
		high_score "high_score",
		created_at "created_at"
	FROM quizzes
	ORDER BY created_at DESC, id DESC`

	var rows []models.QuizSummary
	if err := a.executor(ctx).SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to list quizzes: %w", err)
	}

	summaries := make([]*domain.QuizSummary, 0, len(rows))
	for i := range rows {
		summaries = append(summaries, &domain.QuizSummary{
			ID:        rows[i].ID,
			Title:     rows[i].Title,
			URL:       rows[i].URL,
			LastScore: rows[i].LastScore,
			HighScore: rows[i].HighScore,
			CreatedAt: rows[i].CreatedAt,
		})
	}
	return summaries, nil
}

// UpdateScore implements domain.QuizRepository. Callers wanting the update and
// the read-back to be atomic run it inside TransactionManager.WithTransaction.
func (a *QuizDatabaseAdapter) UpdateScore(ctx context.Context, id string, score int) (*domain.ScoreRecord, error) {
	exec := a.executor(ctx)

	update := exec.Rebind(`UPDATE quizzes
	SET last_score = ?,
		high_score = CASE WHEN high_score > ? THEN high_score ELSE ? END
	WHERE id = ?`)
	if _, err := exec.ExecContext(ctx, update, score, score, score, id); err != nil {
		return nil, fmt.Errorf("failed to update score for quiz %s: %w", id, err)
	}

	// Oracle reports 0 rows affected for some updates, so existence is
	// decided by reading the row back.
	var row models.ScoreRow
	query := exec.Rebind(`SELECT last_score "last_score", high_score "high_score" FROM quizzes WHERE id = ?`)
	if err := exec.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read score for quiz %s: %w", id, err)
	}

	return &domain.ScoreRecord{QuizID: id, LastScore: row.LastScore, HighScore: row.HighScore}, nil
}

func toModelQuiz(q *domain.Quiz) *models.Quiz {
	questions := make(models.QuestionList, 0, len(q.Questions))
	for _, dq := range q.Questions {
		questions = append(questions, models.Question{
			Question:    dq.Text,
			Options:     dq.Options,
			Answer:      dq.CorrectAnswer,
			Explanation: dq.Explanation,
			Difficulty:  dq.Difficulty,
		})
	}
	return &models.Quiz{
		ID:            q.ID,
		URL:           q.URL,
		Title:         q.Title,
		Summary:       util.StringToNullString(q.Summary),
		Sections:      models.StringSlice(q.Sections),
		QuizData:      questions,
		RelatedTopics: models.StringSlice(q.RelatedTopics),
		LastScore:     q.LastScore,
		HighScore:     q.HighScore,
		CreatedAt:     q.CreatedAt,
	}
}

func toDomainQuiz(m *models.Quiz) *domain.Quiz {
	questions := make([]domain.Question, 0, len(m.QuizData))
	for _, mq := range m.QuizData {
		questions = append(questions, domain.Question{
			Text:          mq.Question,
			Options:       mq.Options,
			CorrectAnswer: mq.Answer,
			Explanation:   mq.Explanation,
			Difficulty:    mq.Difficulty,
		})
	}
	return &domain.Quiz{
		ID:            m.ID,
		URL:           m.URL,
		Title:         m.Title,
		Summary:       util.NullStringToString(m.Summary),
		Sections:      []string(m.Sections),
		Questions:     questions,
		RelatedTopics: []string(m.RelatedTopics),
		LastScore:     m.LastScore,
		HighScore:     m.HighScore,
		CreatedAt:     m.CreatedAt,
	}
}
