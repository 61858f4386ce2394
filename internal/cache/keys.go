package cache

import "strings"

const (
	GlobalKeyPrefix = "wikiquiz"

	QuizServiceName = "quiz"
	QuizDetailType  = "detail"
)

// GenerateCacheKey generates a cache key for a given service, object type, and identifier.
// If paramsKey are provided, they are joined by "_" and appended to the cache key.
func GenerateCacheKey(serviceName, objectType, identifier string, paramsKey ...string) string {
	baseKey := strings.Join([]string{GlobalKeyPrefix, serviceName, objectType, identifier}, ":")
	if len(paramsKey) > 0 {
		return strings.Join([]string{baseKey, strings.Join(paramsKey, "_")}, ":")
	}
	return baseKey
}

// QuizDetailKey is the key under which a stored quiz's detail is cached.
func QuizDetailKey(quizID string) string {
	return GenerateCacheKey(QuizServiceName, QuizDetailType, quizID)
}
