package player

import (
	"context"
	"sync"
	"time"

	"wiki-quiz/internal/domain"

	"go.uber.org/zap"
)

// ScoreSubmitter persists a final score.
type ScoreSubmitter interface {
	SubmitScore(ctx context.Context, id string, score int) (*domain.ScoreRecord, error)
}

// AsyncScoreRecorder implements domain.ScoreRecorder by submitting in the
// background. Failures are logged and never reach the session.
type AsyncScoreRecorder struct {
	submitter ScoreSubmitter
	timeout   time.Duration
	logger    *zap.Logger

	wg sync.WaitGroup

	mu      sync.Mutex
	last    *domain.ScoreRecord
	lastErr error
}

// NewAsyncScoreRecorder creates a recorder whose submissions give up after timeout.
func NewAsyncScoreRecorder(submitter ScoreSubmitter, timeout time.Duration, logger *zap.Logger) *AsyncScoreRecorder {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AsyncScoreRecorder{submitter: submitter, timeout: timeout, logger: logger}
}

// RecordScore implements domain.ScoreRecorder. It returns immediately.
func (r *AsyncScoreRecorder) RecordScore(quizID string, score int) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		defer cancel()

		rec, err := r.submitter.SubmitScore(ctx, quizID, score)
		r.mu.Lock()
		r.last, r.lastErr = rec, err
		r.mu.Unlock()

		if err != nil {
			r.logger.Warn("Failed to store score", zap.String("quizID", quizID), zap.Int("score", score), zap.Error(err))
			return
		}
		r.logger.Info("Score stored",
			zap.String("quizID", quizID),
			zap.Int("last_score", rec.LastScore),
			zap.Int("high_score", rec.HighScore))
	}()
}

// Wait blocks until every submission has finished.
func (r *AsyncScoreRecorder) Wait() {
	r.wg.Wait()
}

// Last returns the outcome of the most recently completed submission.
func (r *AsyncScoreRecorder) Last() (*domain.ScoreRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last, r.lastErr
}
