package cache

import "strings"

const (
	GlobalKeyPrefix = "dysscreen"
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

// QuestionsKey holds the cached question list of one quiz type.
func QuestionsKey(quizType string) string {
	return GenerateCacheKey("bank", "questions", quizType)
}

// SecondScreeningKey holds the cached second screening config.
func SecondScreeningKey() string {
	return GenerateCacheKey("bank", "second_screening", "config")
}

func SessionKey(sessionID string) string {
	return GenerateCacheKey("screening", "session", sessionID)
}

// SessionLockKey guards a session against concurrent transitions.
func SessionLockKey(sessionID string) string {
	return SessionKey(sessionID) + ":lock"
}

func AnonymousResultKey(token string) string {
	return GenerateCacheKey("screening", "anonymous_result", token)
}
