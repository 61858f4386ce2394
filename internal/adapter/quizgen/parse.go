package quizgen

import (
	"encoding/json"
	"fmt"
	"strings"

	"wiki-quiz/internal/domain"
)

type llmQuestion struct {
	Question    string   `json:"question"`
	Options     []string `json:"options"`
	Answer      string   `json:"answer"`
	Explanation string   `json:"explanation"`
	Difficulty  string   `json:"difficulty"`
}

type llmQuizResponse struct {
	Quiz          []llmQuestion `json:"quiz"`
	RelatedTopics []string      `json:"related_topics"`
}

// ParseResponse extracts the quiz JSON object from a raw model reply.
// Reasoning models may wrap the answer in <think> blocks or prose; only the
// outermost {...} is decoded. Questions are returned as the model wrote them.
func ParseResponse(raw string) (*domain.GeneratedQuiz, error) {
	cleaned := stripThinkBlocks(strings.TrimSpace(raw))

	jsonStart := strings.Index(cleaned, "{")
	jsonEnd := strings.LastIndex(cleaned, "}")
	if jsonStart == -1 || jsonEnd <= jsonStart {
		return nil, fmt.Errorf("no JSON object found in LLM response")
	}

	var resp llmQuizResponse
	if err := json.Unmarshal([]byte(cleaned[jsonStart:jsonEnd+1]), &resp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal JSON from LLM: %w", err)
	}
	if len(resp.Quiz) == 0 {
		return nil, fmt.Errorf("LLM response contains no questions")
	}

	out := &domain.GeneratedQuiz{
		Questions:     make([]domain.Question, 0, len(resp.Quiz)),
		RelatedTopics: make([]string, 0, len(resp.RelatedTopics)),
	}
	for _, q := range resp.Quiz {
		options := make([]string, 0, len(q.Options))
		for _, opt := range q.Options {
			options = append(options, strings.TrimSpace(opt))
		}
		out.Questions = append(out.Questions, domain.Question{
			Text:          strings.TrimSpace(q.Question),
			Options:       options,
			CorrectAnswer: strings.TrimSpace(q.Answer),
			Explanation:   strings.TrimSpace(q.Explanation),
			Difficulty:    strings.ToLower(strings.TrimSpace(q.Difficulty)),
		})
	}
	for _, topic := range resp.RelatedTopics {
		if topic = strings.TrimSpace(topic); topic != "" {
			out.RelatedTopics = append(out.RelatedTopics, topic)
		}
	}
	return out, nil
}

func stripThinkBlocks(s string) string {
	for {
		start := strings.Index(s, "<think>")
		if start == -1 {
			return s
		}
		end := strings.Index(s[start:], "</think>")
		if end == -1 {
			return strings.TrimSpace(s[:start])
		}
		s = strings.TrimSpace(s[:start] + s[start+end+len("</think>"):])
	}
}
