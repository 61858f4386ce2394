package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"wiki-quiz/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var quizRowColumns = []string{
	"id", "url", "title", "summary", "sections", "quiz_data",
	"related_topics", "last_score", "high_score", "created_at",
}

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "sqlmock"), mock
}

func sampleDomainQuiz() *domain.Quiz {
	q := domain.NewQuiz("https://en.wikipedia.org/wiki/Alan_Turing", "Alan Turing", []domain.Question{
		{
			Text:          "Where did Turing work during the war?",
			Options:       []string{"Bletchley Park", "Cambridge", "Manchester", "Princeton"},
			CorrectAnswer: "Bletchley Park",
			Explanation:   "He led Hut 8.",
			Difficulty:    "easy",
		},
	})
	q.Summary = "Alan Turing was an English mathematician."
	q.Sections = []string{"Early life", "Career"}
	q.RelatedTopics = []string{"Enigma", "Turing machine"}
	return q
}

const storedQuizData = `[{"question":"Where did Turing work during the war?","options":["Bletchley Park","Cambridge","Manchester","Princeton"],"answer":"Bletchley Park","explanation":"He led Hut 8.","difficulty":"easy"}]`

func TestQuizDatabaseAdapter_SaveQuiz(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewQuizDatabaseAdapter(db)
	quiz := sampleDomainQuiz()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO quizzes (")).
		WithArgs(
			sqlmock.AnyArg(),
			quiz.URL,
			quiz.Title,
			quiz.Summary,
			`["Early life","Career"]`,
			storedQuizData,
			`["Enigma","Turing machine"]`,
			0, 0,
			sqlmock.AnyArg(),
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.SaveQuiz(context.Background(), quiz))
	assert.Len(t, quiz.ID, 26)
	assert.False(t, quiz.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQuizDatabaseAdapter_SaveQuiz_Error(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewQuizDatabaseAdapter(db)

	mock.ExpectExec("INSERT INTO quizzes").WillReturnError(errors.New("UNIQUE constraint failed: quizzes.url"))

	quiz := sampleDomainQuiz()
	err := repo.SaveQuiz(context.Background(), quiz)
	assert.ErrorContains(t, err, "UNIQUE constraint failed")
	assert.Empty(t, quiz.ID)

	assert.Error(t, repo.SaveQuiz(context.Background(), nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQuizDatabaseAdapter_GetQuizByID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewQuizDatabaseAdapter(db)
	created := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	t.Run("Found", func(t *testing.T) {
		rows := sqlmock.NewRows(quizRowColumns).AddRow(
			"01HQ", "https://en.wikipedia.org/wiki/Alan_Turing", "Alan Turing", nil,
			`["Early life"]`, storedQuizData, `null`, 3, 4, created,
		)
		mock.ExpectQuery(`SELECT .* FROM quizzes\s+WHERE id = \?`).WithArgs("01HQ").WillReturnRows(rows)

		quiz, err := repo.GetQuizByID(context.Background(), "01HQ")
		require.NoError(t, err)
		require.NotNil(t, quiz)
		assert.Equal(t, "01HQ", quiz.ID)
		assert.Empty(t, quiz.Summary)
		assert.Equal(t, []string{"Early life"}, quiz.Sections)
		assert.Empty(t, quiz.RelatedTopics)
		require.Len(t, quiz.Questions, 1)
		assert.Equal(t, "Bletchley Park", quiz.Questions[0].CorrectAnswer)
		assert.Equal(t, 3, quiz.LastScore)
		assert.Equal(t, 4, quiz.HighScore)
		assert.Equal(t, created, quiz.CreatedAt)
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectQuery(`SELECT .* FROM quizzes\s+WHERE id = \?`).WithArgs("missing").
			WillReturnRows(sqlmock.NewRows(quizRowColumns))

		quiz, err := repo.GetQuizByID(context.Background(), "missing")
		assert.NoError(t, err)
		assert.Nil(t, quiz)
	})

	t.Run("DBError", func(t *testing.T) {
		mock.ExpectQuery(`SELECT .* FROM quizzes`).WillReturnError(errors.New("connection reset"))

		_, err := repo.GetQuizByID(context.Background(), "01HQ")
		assert.ErrorContains(t, err, "failed to get quiz by ID 01HQ")
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQuizDatabaseAdapter_GetQuizByURL(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewQuizDatabaseAdapter(db)
	url := "https://en.wikipedia.org/wiki/Alan_Turing"

	rows := sqlmock.NewRows(quizRowColumns).AddRow(
		"01HQ", url, "Alan Turing", "Summary", `[]`, storedQuizData, `["Enigma"]`, 0, 0, time.Now(),
	)
	mock.ExpectQuery(`SELECT .* FROM quizzes\s+WHERE url = \?`).WithArgs(url).WillReturnRows(rows)

	quiz, err := repo.GetQuizByURL(context.Background(), url)
	require.NoError(t, err)
	assert.Equal(t, "Summary", quiz.Summary)
	assert.Equal(t, []string{"Enigma"}, quiz.RelatedTopics)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQuizDatabaseAdapter_ListQuizzes(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewQuizDatabaseAdapter(db)
	now := time.Now()

	rows := sqlmock.NewRows([]string{"id", "title", "url", "last_score", "high_score", "created_at"}).
		AddRow("02", "Newer", "https://en.wikipedia.org/wiki/B", 1, 5, now).
		AddRow("01", "Older", "https://en.wikipedia.org/wiki/A", 0, 0, now.Add(-time.Hour))
	mock.ExpectQuery(`SELECT .* FROM quizzes\s+ORDER BY created_at DESC, id DESC`).WillReturnRows(rows)

	list, err := repo.ListQuizzes(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Newer", list[0].Title)
	assert.Equal(t, 5, list[0].HighScore)
	assert.Equal(t, "01", list[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQuizDatabaseAdapter_UpdateScoreInTransaction(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewQuizDatabaseAdapter(db)
	tm := NewTransactionManagerAdapter(db)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE quizzes\s+SET last_score = \?`).WithArgs(2, 2, 2, "01HQ").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT last_score .* FROM quizzes WHERE id = \?`).WithArgs("01HQ").
		WillReturnRows(sqlmock.NewRows([]string{"last_score", "high_score"}).AddRow(2, 4))
	mock.ExpectCommit()

	var record *domain.ScoreRecord
	err := tm.WithTransaction(context.Background(), func(ctx context.Context) error {
		var err error
		record, err = repo.UpdateScore(ctx, "01HQ", 2)
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, &domain.ScoreRecord{QuizID: "01HQ", LastScore: 2, HighScore: 4}, record)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQuizDatabaseAdapter_UpdateScoreMissingQuiz(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewQuizDatabaseAdapter(db)

	mock.ExpectExec(`UPDATE quizzes`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT last_score`).WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"last_score", "high_score"}))

	record, err := repo.UpdateScore(context.Background(), "missing", 1)
	assert.NoError(t, err)
	assert.Nil(t, record)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionManager_RollbackOnError(t *testing.T) {
	db, mock := newMockDB(t)
	tm := NewTransactionManagerAdapter(db)

	mock.ExpectBegin()
	mock.ExpectRollback()

	boom := errors.New("boom")
	err := tm.WithTransaction(context.Background(), func(ctx context.Context) error {
		assert.NotNil(t, ctx.Value(TransactionContextKey))
		// Nested calls reuse the outer transaction.
		return tm.WithTransaction(ctx, func(context.Context) error { return boom })
	})
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionManager_RollbackOnPanic(t *testing.T) {
	db, mock := newMockDB(t)
	tm := NewTransactionManagerAdapter(db)

	mock.ExpectBegin()
	mock.ExpectRollback()

	assert.Panics(t, func() {
		_ = tm.WithTransaction(context.Background(), func(context.Context) error { panic("kaboom") })
	})
	assert.NoError(t, mock.ExpectationsWereMet())
}
