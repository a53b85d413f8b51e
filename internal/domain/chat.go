package domain

import "context"

// ChatRole is the author of a chat message.
type ChatRole string

const (
	ChatRoleUser      ChatRole = "user"
	ChatRoleAssistant ChatRole = "assistant"
)

// ChatMessage is one turn of a conversation with the assistant.
type ChatMessage struct {
	Role    ChatRole `json:"role"`
	Content string   `json:"content"`
}

// Assistant answers learners' questions (port implemented by an LLM adapter).
type Assistant interface {
	// Reply returns the next assistant message for history.
	// disability may be empty for general questions.
	Reply(ctx context.Context, disability QuizType, history []ChatMessage) (string, error)
}
