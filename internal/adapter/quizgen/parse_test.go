package quizgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseResponse(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "bare JSON", raw: validReply},
		{name: "markdown fence", raw: "```json\n" + validReply + "\n```"},
		{name: "prose around JSON", raw: "Here is your quiz:\n" + validReply + "\nEnjoy!"},
		{name: "think block", raw: "<think>The user wants {a quiz}.</think>\n" + validReply},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			quiz, err := ParseResponse(tt.raw)
			require.NoError(t, err)
			require.Len(t, quiz.Questions, 2)

			first := quiz.Questions[0]
			assert.Equal(t, "Who designed Go?", first.Text)
			assert.Equal(t, []string{"Google", "Microsoft", "Apple", "Mozilla"}, first.Options)
			assert.Equal(t, "Google", first.CorrectAnswer)
			assert.Equal(t, "easy", first.Difficulty)
			assert.Equal(t, "When was Go designed?", quiz.Questions[1].Text)
			assert.Equal(t, []string{"Rob Pike", "Concurrency"}, quiz.RelatedTopics)
		})
	}
}

func TestParseResponse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		errText string
	}{
		{name: "no JSON", raw: "I cannot help with that.", errText: "no JSON object"},
		{name: "broken JSON", raw: `{"quiz": [}`, errText: "failed to unmarshal"},
		{name: "empty quiz", raw: `{"quiz": [], "related_topics": []}`, errText: "no questions"},
		{name: "unterminated think", raw: "<think>" + validReply, errText: "no JSON object"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseResponse(tt.raw)
			assert.ErrorContains(t, err, tt.errText)
		})
	}
}
