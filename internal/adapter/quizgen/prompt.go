package quizgen

import (
	"fmt"
	"strings"

	"wiki-quiz/internal/domain"
)

// PromptOptions controls the shape of the requested quiz.
type PromptOptions struct {
	NumQuestions    int
	NumOptions      int
	MaxArticleChars int
}

const systemPrompt = "You are an expert educator who writes multiple-choice quizzes. " +
	"You answer with a single valid JSON object and nothing else."

// BuildPrompt renders the generation prompt for article. Article text is cut
// to opts.MaxArticleChars characters.
func BuildPrompt(article *domain.Article, opts PromptOptions) string {
	optionSlots := make([]string, opts.NumOptions)
	for i := range optionSlots {
		optionSlots[i] = `""`
	}

	var b strings.Builder
	b.WriteString("Create a quiz ONLY from the Wikipedia article below.\n\n")
	b.WriteString("RULES:\n- Output VALID JSON ONLY\n- No markdown\n- No extra text\n")
	b.WriteString("- The answer must be copied exactly from the options\n- Options within a question must be distinct\n\n")
	fmt.Fprintf(&b, "TITLE:\n%s\n\n", article.Title)
	fmt.Fprintf(&b, "SUMMARY:\n%s\n\n", article.Summary)
	fmt.Fprintf(&b, "SECTIONS:\n%s\n\n", strings.Join(article.Sections, ", "))
	fmt.Fprintf(&b, "CONTENT:\n%s\n\n", truncateRunes(article.Text, opts.MaxArticleChars))
	fmt.Fprintf(&b, "TASK:\nGenerate exactly %d MCQs.\n\n", opts.NumQuestions)
	fmt.Fprintf(&b, "Each question must include:\n- question\n- options (%d)\n- answer\n- explanation\n- difficulty (easy | medium | hard)\n\n", opts.NumOptions)
	b.WriteString("Also include:\n- related_topics (3-5)\n\n")
	b.WriteString("OUTPUT FORMAT:\n")
	fmt.Fprintf(&b, `{
  "quiz": [
    {
      "question": "",
      "options": [%s],
      "answer": "",
      "difficulty": "",
      "explanation": ""
    }
  ],
  "related_topics": []
}
`, strings.Join(optionSlots, ", "))
	return b.String()
}

func truncateRunes(s string, limit int) string {
	if limit <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
