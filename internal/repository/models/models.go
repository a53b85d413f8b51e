package models

import (
	"database/sql"
	"time"

	"dysscreen/internal/domain"
)

// User represents a user in the system.
type User struct {
	ID           string         `db:"ID"`
	Email        string         `db:"EMAIL"`
	FullName     sql.NullString `db:"FULL_NAME"`
	PasswordHash string         `db:"PASSWORD_HASH"`
	Role         string         `db:"USER_ROLE"`
	CreatedAt    time.Time      `db:"CREATED_AT"`
	UpdatedAt    time.Time      `db:"UPDATED_AT"`
}

// Question is a row of the questions table. Options are stored as JSON.
type Question struct {
	ID        string                `db:"ID"`
	QuizType  string                `db:"QUIZ_TYPE"`
	Text      string                `db:"QUESTION_TEXT"`
	Weight    float64               `db:"WEIGHT"`
	Options   JSON[[]domain.Option] `db:"OPTIONS_JSON"`
	SortOrder int                   `db:"SORT_ORDER"`
	CreatedAt time.Time             `db:"CREATED_AT"`
	UpdatedAt time.Time             `db:"UPDATED_AT"`
	DeletedAt sql.NullTime          `db:"DELETED_AT"`
}

// SecondScreeningConfig is the single row (ID = 1) of second_screening_config.
type SecondScreeningConfig struct {
	ID               int                       `db:"ID"`
	ThresholdPercent int                       `db:"THRESHOLD_PERCENT"`
	QuestionIDs      JSON[map[string][]string] `db:"QUESTION_IDS"`
	UpdatedAt        time.Time                 `db:"UPDATED_AT"`
}

// QuizAttempt is an append-only row of quiz_attempts.
type QuizAttempt struct {
	ID          string                       `db:"ID"`
	UserID      string                       `db:"USER_ID"`
	QuizType    string                       `db:"QUIZ_TYPE"`
	Answers     JSON[[]domain.Answer]        `db:"ANSWERS"`
	TotalScore  float64                      `db:"TOTAL_SCORE"`
	MaxScore    float64                      `db:"MAX_SCORE"`
	Percentage  float64                      `db:"PERCENTAGE"`
	Result      JSON[domain.ScreeningResult] `db:"RESULT"`
	SubmittedAt time.Time                    `db:"SUBMITTED_AT"`
}

// GameResult is a row of game_results. Completed uses Oracle's NUMBER(1).
type GameResult struct {
	ID             string         `db:"ID"`
	UserID         string         `db:"USER_ID"`
	DisabilityType string         `db:"DISABILITY_TYPE"`
	ActivityType   string         `db:"ACTIVITY_TYPE"`
	Score          float64        `db:"SCORE"`
	Attempts       sql.NullInt64  `db:"ATTEMPTS"`
	Completed      int            `db:"COMPLETED"`
	Data           sql.NullString `db:"DATA"`
	PlayedAt       time.Time      `db:"PLAYED_AT"`
}

// LeaderboardRow is one ranked user of a leaderboard query.
type LeaderboardRow struct {
	Rank      int            `db:"RNK"`
	UserID    string         `db:"USER_ID"`
	FullName  sql.NullString `db:"FULL_NAME"`
	BestScore float64        `db:"BEST_SCORE"`
	PlayedAt  time.Time      `db:"PLAYED_AT"`
}

// DisabilityContent is a row of disability_content.
type DisabilityContent struct {
	DisabilityType string                  `db:"DISABILITY_TYPE"`
	Title          string                  `db:"TITLE"`
	Description    sql.NullString          `db:"DESCRIPTION"`
	Signs          StringSlice             `db:"SIGNS"`
	Strategies     StringSlice             `db:"STRATEGIES"`
	Resources      JSON[[]domain.Resource] `db:"RESOURCES"`
	UpdatedAt      time.Time               `db:"UPDATED_AT"`
}

// QuizTypeCount is one group of a per-quiz-type count.
type QuizTypeCount struct {
	QuizType string `db:"QUIZ_TYPE"`
	Count    int    `db:"CNT"`
}
