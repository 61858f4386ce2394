package quizgen

import (
	"fmt"

	"wiki-quiz/internal/config"
	"wiki-quiz/internal/domain"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	lcopenai "github.com/tmc/langchaingo/llms/openai"
	"go.uber.org/zap"
)

const (
	groqBaseURL      = "https://api.groq.com/openai/v1"
	ollamaDefaultURL = "http://localhost:11434"
)

// NewFromConfig builds the generator selected by llm.provider.
func NewFromConfig(cfg *config.Config, logger *zap.Logger) (domain.QuizGenerationService, error) {
	opts := PromptOptions{
		NumQuestions:    cfg.Quiz.NumQuestions,
		NumOptions:      cfg.Quiz.NumOptions,
		MaxArticleChars: cfg.Quiz.MaxArticleChars,
	}
	llmCfg := cfg.LLM

	switch llmCfg.Provider {
	case config.ProviderOpenAI:
		gen, err := NewOpenAIQuizGenerator(llmCfg.BaseURL, llmCfg.APIKey, llmCfg.Model, opts, llmCfg.Temperature, llmCfg.Timeout, logger)
		if err != nil {
			return nil, err
		}
		return gen, nil

	case config.ProviderGroq:
		if llmCfg.APIKey == "" {
			return nil, fmt.Errorf("groq API key missing")
		}
		baseURL := llmCfg.BaseURL
		if baseURL == "" {
			baseURL = groqBaseURL
		}
		model, err := lcopenai.New(
			lcopenai.WithToken(llmCfg.APIKey),
			lcopenai.WithBaseURL(baseURL),
			lcopenai.WithModel(llmCfg.Model),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create Groq client: %w", err)
		}
		return newLangchain(model, opts, llmCfg, logger)

	case config.ProviderOllama:
		serverURL := llmCfg.BaseURL
		if serverURL == "" {
			serverURL = ollamaDefaultURL
		}
		model, err := ollama.New(
			ollama.WithServerURL(serverURL),
			ollama.WithModel(llmCfg.Model),
			ollama.WithFormat("json"),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create Ollama client: %w", err)
		}
		return newLangchain(model, opts, llmCfg, logger)

	default:
		return nil, fmt.Errorf("unsupported llm provider %q", llmCfg.Provider)
	}
}

func newLangchain(model llms.Model, opts PromptOptions, llmCfg config.LLMConfig, logger *zap.Logger) (domain.QuizGenerationService, error) {
	gen, err := NewLangchainQuizGenerator(model, opts, llmCfg.Temperature, llmCfg.Timeout, logger)
	if err != nil {
		return nil, err
	}
	return gen, nil
}
