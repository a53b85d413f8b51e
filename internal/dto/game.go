package dto

import (
	"encoding/json"
	"time"
)

// GameResultRequest records one finished play.
// @Description Request body for saving a game result
type GameResultRequest struct {
	DisabilityType string          `json:"disability_type"`
	ActivityType   string          `json:"activity_type"`
	Score          float64         `json:"score"`
	Attempts       *int            `json:"attempts,omitempty"`
	Completed      bool            `json:"completed"`
	Data           json.RawMessage `json:"data,omitempty" swaggertype:"object"`
}

type GameResultResponse struct {
	ID             string          `json:"id"`
	DisabilityType string          `json:"disability_type"`
	ActivityType   string          `json:"activity_type"`
	Score          float64         `json:"score"`
	Attempts       *int            `json:"attempts,omitempty"`
	Completed      bool            `json:"completed"`
	Data           json.RawMessage `json:"data,omitempty" swaggertype:"object"`
	PlayedAt       time.Time       `json:"played_at"`
}

type LeaderboardEntryResponse struct {
	Rank      int       `json:"rank"`
	UserID    string    `json:"user_id"`
	FullName  string    `json:"full_name,omitempty"`
	BestScore float64   `json:"best_score"`
	PlayedAt  time.Time `json:"played_at"`
}

type LeaderboardResponse struct {
	DisabilityType string                     `json:"disability_type"`
	ActivityType   string                     `json:"activity_type"`
	Entries        []LeaderboardEntryResponse `json:"entries"`
}
