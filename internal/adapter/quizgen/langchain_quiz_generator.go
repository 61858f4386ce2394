package quizgen

import (
	"context"
	"errors"
	"fmt"
	"time"

	"wiki-quiz/internal/domain"

	"github.com/tmc/langchaingo/llms"
	"go.uber.org/zap"
)

// LangchainQuizGenerator implements domain.QuizGenerationService over any
// langchaingo model (Groq through the OpenAI-compatible client, or Ollama).
type LangchainQuizGenerator struct {
	model       llms.Model
	opts        PromptOptions
	temperature float64
	timeout     time.Duration
	logger      *zap.Logger
}

// NewLangchainQuizGenerator creates a new instance of LangchainQuizGenerator.
func NewLangchainQuizGenerator(model llms.Model, opts PromptOptions, temperature float64, timeout time.Duration, logger *zap.Logger) (*LangchainQuizGenerator, error) {
	if model == nil {
		return nil, fmt.Errorf("langchain model cannot be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LangchainQuizGenerator{
		model:       model,
		opts:        opts,
		temperature: temperature,
		timeout:     timeout,
		logger:      logger,
	}, nil
}

// GenerateQuiz prompts the model with the article and parses its reply.
func (g *LangchainQuizGenerator) GenerateQuiz(ctx context.Context, article *domain.Article) (*domain.GeneratedQuiz, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	prompt := systemPrompt + "\n\n" + BuildPrompt(article, g.opts)
	g.logger.Debug("Calling LLM for quiz generation", zap.String("title", article.Title), zap.Int("prompt_chars", len(prompt)))

	raw, err := llms.GenerateFromSinglePrompt(ctx, g.model, prompt, llms.WithTemperature(g.temperature))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			g.logger.Error("LLM request timed out", zap.Error(err))
			return nil, domain.NewLLMServiceError(fmt.Errorf("LLM request timed out: %w", err))
		}
		g.logger.Error("Failed to get response from LLM", zap.Error(err))
		return nil, domain.NewLLMServiceError(fmt.Errorf("LLM call failed: %w", err))
	}

	quiz, err := ParseResponse(raw)
	if err != nil {
		g.logger.Error("Failed to parse LLM quiz response", zap.Error(err), zap.String("raw_response", raw))
		return nil, domain.NewLLMServiceError(err)
	}

	g.logger.Info("Generated quiz from LLM", zap.String("title", article.Title), zap.Int("questions", len(quiz.Questions)))
	return quiz, nil
}

// Static assertion to ensure LangchainQuizGenerator implements QuizGenerationService
var _ domain.QuizGenerationService = (*LangchainQuizGenerator)(nil)
