package player

import (
	"context"
	"errors"
	"sync"

	"wiki-quiz/internal/domain"

	"go.uber.org/zap"
)

// ErrStaleResult is returned when a fetch finished after a newer one was
// requested. Its quiz is discarded.
var ErrStaleResult = errors.New("quiz fetch superseded by a newer request")

// QuizSource fetches playable quizzes.
type QuizSource interface {
	GenerateQuiz(ctx context.Context, articleURL string) (*domain.Quiz, error)
	GetQuiz(ctx context.Context, id string) (*domain.Quiz, error)
}

// Player owns the one session shown by the view. All methods are safe for
// concurrent use; session actions are applied one at a time.
type Player struct {
	source QuizSource
	logger *zap.Logger

	mu      sync.Mutex
	session *domain.Session
	// ticket is the latest fetch issued; settled is the latest one that completed.
	ticket  uint64
	settled uint64
}

// New creates a Player. shuffler and recorder are handed to the session.
func New(source QuizSource, shuffler domain.Shuffler, recorder domain.ScoreRecorder, logger *zap.Logger) *Player {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Player{
		source:  source,
		logger:  logger,
		session: domain.NewSession(shuffler, recorder),
	}
}

// Generate fetches (or generates) the quiz for articleURL and starts it.
func (p *Player) Generate(ctx context.Context, articleURL string) error {
	return p.load(ctx, func(ctx context.Context) (*domain.Quiz, error) {
		return p.source.GenerateQuiz(ctx, articleURL)
	})
}

// Retake fetches a stored quiz and starts a fresh pass over it.
func (p *Player) Retake(ctx context.Context, id string) error {
	return p.load(ctx, func(ctx context.Context) (*domain.Quiz, error) {
		return p.source.GetQuiz(ctx, id)
	})
}

// load runs fetch outside the lock. Only the newest fetch may replace the
// session; a failed or invalid fetch leaves the current session as it was.
func (p *Player) load(ctx context.Context, fetch func(context.Context) (*domain.Quiz, error)) error {
	p.mu.Lock()
	p.ticket++
	ticket := p.ticket
	p.mu.Unlock()

	quiz, err := fetch(ctx)

	p.mu.Lock()
	defer p.mu.Unlock()
	if ticket != p.ticket {
		p.logger.Debug("Discarding stale quiz fetch", zap.Uint64("ticket", ticket), zap.Uint64("latest", p.ticket))
		return ErrStaleResult
	}
	p.settled = ticket
	if err != nil {
		p.logger.Warn("Quiz fetch failed", zap.Error(err))
		return err
	}
	if err := quiz.Validate(); err != nil {
		p.logger.Warn("Fetched quiz is not playable", zap.Error(err))
		return err
	}

	p.session.Reset()
	if err := p.session.Start(quiz); err != nil {
		return err
	}
	p.logger.Debug("Quiz started", zap.String("quizID", quiz.ID), zap.Int("questions", len(quiz.Questions)))
	return nil
}

// Loading reports whether the newest fetch is still outstanding.
func (p *Player) Loading() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.settled != p.ticket
}

func (p *Player) Select(option string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.session.SelectOption(option)
}

func (p *Player) Submit() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.session.SubmitAnswer()
}

func (p *Player) Advance() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.session.Advance()
}

// Reset abandons the current session without recording a score.
func (p *Player) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.session.Reset()
}

func (p *Player) Snapshot() domain.SessionSnapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.session.Snapshot()
}
