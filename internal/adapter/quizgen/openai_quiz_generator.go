package quizgen

import (
	"context"
	"fmt"
	"time"

	"wiki-quiz/internal/domain"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// OpenAIQuizGenerator implements domain.QuizGenerationService with the
// OpenAI chat API in JSON mode.
type OpenAIQuizGenerator struct {
	api         *openai.Client
	model       string
	opts        PromptOptions
	temperature float32
	timeout     time.Duration
	logger      *zap.Logger
}

// NewOpenAIQuizGenerator creates a generator for any OpenAI-compatible endpoint.
// An empty baseURL uses the public OpenAI API.
func NewOpenAIQuizGenerator(baseURL, apiKey, model string, opts PromptOptions, temperature float64, timeout time.Duration, logger *zap.Logger) (*OpenAIQuizGenerator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai API key cannot be empty")
	}
	if model == "" {
		return nil, fmt.Errorf("openai model name cannot be empty")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	return &OpenAIQuizGenerator{
		api:         openai.NewClientWithConfig(config),
		model:       model,
		opts:        opts,
		temperature: float32(temperature),
		timeout:     timeout,
		logger:      logger,
	}, nil
}

// GenerateQuiz sends the article prompt and parses the JSON reply.
func (g *OpenAIQuizGenerator) GenerateQuiz(ctx context.Context, article *domain.Article) (*domain.GeneratedQuiz, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	resp, err := g.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: BuildPrompt(article, g.opts)},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Temperature: g.temperature,
	})
	if err != nil {
		g.logger.Error("OpenAI chat completion failed", zap.Error(err))
		return nil, domain.NewLLMServiceError(fmt.Errorf("LLM API call: %w", err))
	}
	if len(resp.Choices) == 0 {
		return nil, domain.NewLLMServiceError(fmt.Errorf("LLM returned no choices"))
	}

	raw := resp.Choices[0].Message.Content
	g.logger.Debug("LLM response", zap.String("raw", raw))

	quiz, err := ParseResponse(raw)
	if err != nil {
		g.logger.Error("Failed to parse LLM quiz response", zap.Error(err))
		return nil, domain.NewLLMServiceError(err)
	}
	return quiz, nil
}

var _ domain.QuizGenerationService = (*OpenAIQuizGenerator)(nil)
