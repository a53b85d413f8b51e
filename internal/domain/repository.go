package domain

import "context"

// Pagination bounds list queries.
type Pagination struct {
	Limit  int
	Offset int
}

// QuestionRepository defines the interface for question bank persistence.
type QuestionRepository interface {
	// ListByType returns the live questions of t ordered by position.
	ListByType(ctx context.Context, t QuizType) ([]Question, error)

	// ListAll returns every live question.
	ListAll(ctx context.Context) ([]Question, error)

	// GetByID returns nil, nil when the question does not exist.
	GetByID(ctx context.Context, t QuizType, id string) (*Question, error)

	Create(ctx context.Context, q *Question) error

	// Update returns a NOT_FOUND error when no live row matched.
	Update(ctx context.Context, q *Question) error

	// Delete soft-deletes a question; NOT_FOUND when no live row matched.
	Delete(ctx context.Context, t QuizType, id string) error

	CountByType(ctx context.Context) (map[QuizType]int, error)
}

// ScreeningConfigRepository persists the single second-screening config.
type ScreeningConfigRepository interface {
	// Get returns nil, nil when no config has been saved yet.
	Get(ctx context.Context) (*SecondScreeningConfig, error)
	Save(ctx context.Context, cfg *SecondScreeningConfig) error
}

// QuizAttemptRepository is an append-only store of submitted attempts.
type QuizAttemptRepository interface {
	Create(ctx context.Context, attempt *QuizAttempt) error

	// GetLatest returns nil, nil when the user never took quiz type t.
	GetLatest(ctx context.Context, userID string, t QuizType) (*QuizAttempt, error)

	// ListByUser returns the user's attempts, newest first.
	ListByUser(ctx context.Context, userID string) ([]QuizAttempt, error)

	// ListAll returns a page of all attempts, newest first, and the total count.
	ListAll(ctx context.Context, page Pagination) ([]QuizAttempt, int, error)

	CountAll(ctx context.Context) (int, error)
}

// UserRepository defines the interface for user data persistence.
type UserRepository interface {
	CreateUser(ctx context.Context, user *User) error
	// GetUserByEmail returns nil, nil when no user matches.
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	// GetUserByID returns nil, nil when no user matches.
	GetUserByID(ctx context.Context, userID string) (*User, error)
	ListUsers(ctx context.Context) ([]User, error)
	CountUsers(ctx context.Context) (int, error)
}

// GameResultRepository persists educational game plays.
type GameResultRepository interface {
	Create(ctx context.Context, result *GameResult) error
	ListByUser(ctx context.Context, userID string, disability QuizType) ([]GameResult, error)
	Leaderboard(ctx context.Context, disability QuizType, activity string, limit int) ([]LeaderboardEntry, error)
}

// DisabilityContentRepository persists learning material.
type DisabilityContentRepository interface {
	// Get returns nil, nil when no content exists for t.
	Get(ctx context.Context, t QuizType) (*DisabilityContent, error)
	Upsert(ctx context.Context, content *DisabilityContent) error
}

// TransactionManager runs fn inside one database transaction.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
