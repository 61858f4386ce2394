package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"wiki-quiz/internal/cache"
	"wiki-quiz/internal/config"
	"wiki-quiz/internal/domain"
	"wiki-quiz/internal/dto"
	"wiki-quiz/internal/logger"
	"wiki-quiz/internal/metrics"
	"wiki-quiz/internal/validation"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// defaultGenerationTimeout bounds one shared generation when neither the
// scraper nor the LLM timeout is configured.
const defaultGenerationTimeout = 2 * time.Minute

// QuizService defines the interface for quiz-related operations
type QuizService interface {
	GenerateQuiz(ctx context.Context, url string) (*dto.QuizDetailResponse, error)
	ListQuizzes(ctx context.Context) ([]dto.QuizSummaryResponse, error)
	GetQuiz(ctx context.Context, id string) (*dto.QuizDetailResponse, error)
	UpdateScore(ctx context.Context, id string, score int) (*dto.ScoreResponse, error)
}

// quizService implements QuizService
type quizService struct {
	repo      domain.QuizRepository
	tm        domain.TransactionManager
	scraper   domain.ArticleScraper
	generator domain.QuizGenerationService
	cache     domain.Cache // nil disables the detail cache
	cfg       *config.Config
	metrics   *metrics.Metrics
	sfGroup   singleflight.Group
}

// NewQuizService creates a new instance of quizService
func NewQuizService(
	repo domain.QuizRepository,
	tm domain.TransactionManager,
	scraper domain.ArticleScraper,
	generator domain.QuizGenerationService,
	cache domain.Cache,
	cfg *config.Config,
	m *metrics.Metrics,
) QuizService {
	return &quizService{
		repo:      repo,
		tm:        tm,
		scraper:   scraper,
		generator: generator,
		cache:     cache,
		cfg:       cfg,
		metrics:   m,
	}
}

// GenerateQuiz implements QuizService. A quiz already stored for url is
// returned as is; concurrent requests for the same url share one generation.
func (s *quizService) GenerateQuiz(ctx context.Context, url string) (*dto.QuizDetailResponse, error) {
	url = strings.TrimSpace(url)
	if !validation.IsWikipediaURL(url) {
		return nil, domain.NewInvalidURLError(url)
	}

	existing, err := s.repo.GetQuizByURL(ctx, url)
	if err != nil {
		return nil, domain.NewInternalError("Failed to look up quiz", err)
	}
	if existing != nil {
		logger.Get().Info("Returning stored quiz for URL", zap.String("url", url), zap.String("quizID", existing.ID))
		s.metrics.RecordGeneration(metrics.OutcomeCached)
		return dto.NewQuizDetailResponse(existing), nil
	}

	v, err, shared := s.sfGroup.Do(url, func() (interface{}, error) {
		// Callers sharing this generation must not fail when the first one leaves.
		genCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.generationTimeout())
		defer cancel()
		return s.generate(genCtx, url)
	})
	if err != nil {
		s.metrics.RecordGeneration(metrics.OutcomeFailed)
		return nil, err
	}
	if shared {
		logger.Get().Debug("Shared in-flight generation", zap.String("url", url))
	}
	s.metrics.RecordGeneration(metrics.OutcomeGenerated)
	return dto.NewQuizDetailResponse(v.(*domain.Quiz)), nil
}

func (s *quizService) generationTimeout() time.Duration {
	if d := s.cfg.Scraper.Timeout + s.cfg.LLM.Timeout; d > 0 {
		return d
	}
	return defaultGenerationTimeout
}

func (s *quizService) generate(ctx context.Context, url string) (*domain.Quiz, error) {
	l := logger.Get().With(zap.String("url", url))

	article, err := s.scraper.Scrape(ctx, url)
	if err != nil {
		l.Warn("Failed to scrape article", zap.Error(err))
		if _, ok := asDomainError(err); ok {
			return nil, err
		}
		return nil, domain.NewScrapeError(err)
	}

	generated, err := s.generator.GenerateQuiz(ctx, article)
	if err != nil {
		l.Error("Failed to generate quiz", zap.Error(err))
		if _, ok := asDomainError(err); ok {
			return nil, err
		}
		return nil, domain.NewLLMServiceError(err)
	}

	questions := s.playableQuestions(generated.Questions, l)
	if len(questions) == 0 {
		return nil, domain.NewInvalidQuizError("generated quiz has no valid questions")
	}

	quiz := domain.NewQuiz(url, article.Title, questions)
	quiz.Summary = article.Summary
	quiz.Sections = article.Sections
	quiz.RelatedTopics = generated.RelatedTopics

	if err := s.repo.SaveQuiz(ctx, quiz); err != nil {
		// Another process may have stored the same url first.
		if stored, lookupErr := s.repo.GetQuizByURL(ctx, url); lookupErr == nil && stored != nil {
			return stored, nil
		}
		return nil, domain.NewInternalError("Failed to save quiz", err)
	}

	s.cacheQuiz(ctx, quiz)
	l.Info("Generated new quiz", zap.String("quizID", quiz.ID), zap.Int("questions", len(quiz.Questions)))
	return quiz, nil
}

// playableQuestions drops malformed questions and caps the count.
func (s *quizService) playableQuestions(questions []domain.Question, l *zap.Logger) []domain.Question {
	limit := s.cfg.Quiz.NumQuestions
	out := make([]domain.Question, 0, len(questions))
	for i := range questions {
		if err := questions[i].Validate(); err != nil {
			l.Warn("Dropping malformed generated question", zap.Int("index", i), zap.Error(err))
			continue
		}
		out = append(out, questions[i])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

// ListQuizzes implements QuizService
func (s *quizService) ListQuizzes(ctx context.Context) ([]dto.QuizSummaryResponse, error) {
	summaries, err := s.repo.ListQuizzes(ctx)
	if err != nil {
		return nil, domain.NewInternalError("Failed to list quizzes", err)
	}

	out := make([]dto.QuizSummaryResponse, 0, len(summaries))
	for _, summary := range summaries {
		out = append(out, dto.NewQuizSummaryResponse(summary))
	}
	return out, nil
}

// GetQuiz implements QuizService
func (s *quizService) GetQuiz(ctx context.Context, id string) (*dto.QuizDetailResponse, error) {
	if cached := s.cachedQuiz(ctx, id); cached != nil {
		return cached, nil
	}

	quiz, err := s.repo.GetQuizByID(ctx, id)
	if err != nil {
		return nil, domain.NewInternalError("Failed to get quiz", err)
	}
	if quiz == nil {
		return nil, domain.NewQuizNotFoundError(id)
	}

	s.cacheQuiz(ctx, quiz)
	return dto.NewQuizDetailResponse(quiz), nil
}

// UpdateScore implements QuizService. The last score is replaced and the high
// score only ever rises.
func (s *quizService) UpdateScore(ctx context.Context, id string, score int) (*dto.ScoreResponse, error) {
	if score < 0 {
		return nil, domain.NewInvalidInputError("score must not be negative")
	}

	var record *domain.ScoreRecord
	err := s.tm.WithTransaction(ctx, func(txCtx context.Context) error {
		quiz, err := s.repo.GetQuizByID(txCtx, id)
		if err != nil {
			return domain.NewInternalError("Failed to get quiz", err)
		}
		if quiz == nil {
			return domain.NewQuizNotFoundError(id)
		}
		if score > len(quiz.Questions) {
			return domain.NewInvalidInputError("score exceeds the number of questions")
		}

		record, err = s.repo.UpdateScore(txCtx, id, score)
		if err != nil {
			return domain.NewInternalError("Failed to update score", err)
		}
		if record == nil {
			return domain.NewQuizNotFoundError(id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateQuiz(ctx, id)
	s.metrics.RecordScore()
	logger.Get().Info("Score updated",
		zap.String("quizID", id),
		zap.Int("last_score", record.LastScore),
		zap.Int("high_score", record.HighScore))

	return &dto.ScoreResponse{
		Message:   "Score updated",
		LastScore: record.LastScore,
		HighScore: record.HighScore,
	}, nil
}

// cachedQuiz returns the cached detail, or nil on a miss or any cache failure.
func (s *quizService) cachedQuiz(ctx context.Context, id string) *dto.QuizDetailResponse {
	if s.cache == nil {
		return nil
	}
	raw, err := s.cache.Get(ctx, cache.QuizDetailKey(id))
	if err != nil {
		if !errors.Is(err, domain.ErrCacheMiss) {
			logger.Get().Warn("Quiz cache read failed", zap.String("quizID", id), zap.Error(err))
		}
		return nil
	}
	var resp dto.QuizDetailResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		logger.Get().Warn("Discarding undecodable cached quiz", zap.String("quizID", id), zap.Error(err))
		return nil
	}
	return &resp
}

func (s *quizService) cacheQuiz(ctx context.Context, quiz *domain.Quiz) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(dto.NewQuizDetailResponse(quiz))
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, cache.QuizDetailKey(quiz.ID), string(data), s.cfg.Redis.QuizTTL); err != nil {
		logger.Get().Warn("Quiz cache write failed", zap.String("quizID", quiz.ID), zap.Error(err))
	}
}

func (s *quizService) invalidateQuiz(ctx context.Context, id string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, cache.QuizDetailKey(id)); err != nil {
		logger.Get().Warn("Quiz cache invalidation failed", zap.String("quizID", id), zap.Error(err))
	}
}

func asDomainError(err error) (*domain.DomainError, bool) {
	var domainErr *domain.DomainError
	ok := errors.As(err, &domainErr)
	return domainErr, ok
}
