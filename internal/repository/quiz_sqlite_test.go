package repository

import (
	"context"
	"path/filepath"
	"testing"

	"wiki-quiz/internal/config"
	"wiki-quiz/internal/database"
	"wiki-quiz/internal/domain"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSQLiteDB(t *testing.T) *sqlx.DB {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "quiz.db")
	require.NoError(t, database.RunMigrations(config.DriverSQLite, dsn))
	db, err := database.NewSQLXDB(config.DriverSQLite, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestQuizRepository_SQLiteRoundTrip(t *testing.T) {
	db := newSQLiteDB(t)
	repo := NewQuizDatabaseAdapter(db)
	tm := NewTransactionManagerAdapter(db)
	ctx := context.Background()

	first := sampleDomainQuiz()
	require.NoError(t, repo.SaveQuiz(ctx, first))

	second := sampleDomainQuiz()
	second.URL = "https://en.wikipedia.org/wiki/Ada_Lovelace"
	second.Title = "Ada Lovelace"
	second.Summary = ""
	require.NoError(t, repo.SaveQuiz(ctx, second))

	// Unique url
	dup := sampleDomainQuiz()
	assert.Error(t, repo.SaveQuiz(ctx, dup))

	loaded, err := repo.GetQuizByID(ctx, first.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, first.Questions, loaded.Questions)
	assert.Equal(t, first.Sections, loaded.Sections)
	assert.Equal(t, first.RelatedTopics, loaded.RelatedTopics)
	assert.Equal(t, first.Summary, loaded.Summary)
	assert.True(t, first.CreatedAt.Equal(loaded.CreatedAt))

	byURL, err := repo.GetQuizByURL(ctx, second.URL)
	require.NoError(t, err)
	require.NotNil(t, byURL)
	assert.Equal(t, second.ID, byURL.ID)
	assert.Empty(t, byURL.Summary)

	missing, err := repo.GetQuizByID(ctx, "01ARZ3NDEKTSV4RRFFQ69G5FAV")
	require.NoError(t, err)
	assert.Nil(t, missing)

	list, err := repo.ListQuizzes(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID, "newest first")
	assert.Equal(t, first.ID, list[1].ID)

	updateScore := func(score int) *domain.ScoreRecord {
		var rec *domain.ScoreRecord
		require.NoError(t, tm.WithTransaction(ctx, func(txCtx context.Context) error {
			var err error
			rec, err = repo.UpdateScore(txCtx, first.ID, score)
			return err
		}))
		return rec
	}

	assert.Equal(t, &domain.ScoreRecord{QuizID: first.ID, LastScore: 1, HighScore: 1}, updateScore(1))
	assert.Equal(t, &domain.ScoreRecord{QuizID: first.ID, LastScore: 1, HighScore: 1}, updateScore(1))
	assert.Equal(t, &domain.ScoreRecord{QuizID: first.ID, LastScore: 0, HighScore: 1}, updateScore(0))

	rec, err := repo.UpdateScore(ctx, "01ARZ3NDEKTSV4RRFFQ69G5FAV", 3)
	require.NoError(t, err)
	assert.Nil(t, rec)
}
