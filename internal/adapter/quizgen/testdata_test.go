package quizgen

import "wiki-quiz/internal/domain"

const validReply = `{
  "quiz": [
    {
      "question": "Who designed Go?",
      "options": ["Google", "Microsoft", "Apple", "Mozilla"],
      "answer": "Google",
      "difficulty": "Easy",
      "explanation": "Go was designed at Google."
    },
    {
      "question": " When was Go designed? ",
      "options": ["2007", "1995", "2015", "1980"],
      "answer": "2007",
      "difficulty": "medium",
      "explanation": "Design began in 2007."
    }
  ],
  "related_topics": ["Rob Pike", "", "Concurrency"]
}`

func sampleArticle() *domain.Article {
	return &domain.Article{
		URL:      "https://en.wikipedia.org/wiki/Go_(programming_language)",
		Title:    "Go (programming language)",
		Summary:  "Go is a statically typed, compiled programming language designed at Google.",
		Sections: []string{"History", "Design"},
		Text:     "Go is a statically typed, compiled programming language designed at Google. Go was designed in 2007.",
	}
}

func defaultOpts() PromptOptions {
	return PromptOptions{NumQuestions: 5, NumOptions: 4, MaxArticleChars: 4000}
}
