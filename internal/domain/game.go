package domain

import (
	"encoding/json"
	"regexp"
	"time"
)

var activityTypePattern = regexp.MustCompile(`^[a-z0-9_-]{1,50}$`)

// GameResult is one finished play of an educational activity.
type GameResult struct {
	ID             string
	UserID         string
	DisabilityType QuizType
	ActivityType   string
	Score          float64
	Attempts       *int
	Completed      bool
	Data           json.RawMessage
	PlayedAt       time.Time
}

// Validate validates the game result
func (g *GameResult) Validate() error {
	var errs ValidationErrors
	if g.UserID == "" {
		errs = append(errs, NewMissingFieldError("user_id"))
	}
	if !g.DisabilityType.IsDisability() {
		errs = append(errs, NewInvalidFormatError("disability_type", string(g.DisabilityType)))
	}
	if !activityTypePattern.MatchString(g.ActivityType) {
		errs = append(errs, NewInvalidFormatError("activity_type", g.ActivityType))
	}
	if g.Score < 0 {
		errs = append(errs, NewValidationError("score", "must not be negative"))
	}
	if g.Attempts != nil && *g.Attempts < 0 {
		errs = append(errs, NewValidationError("attempts", "must not be negative"))
	}
	if len(g.Data) > 0 && !json.Valid(g.Data) {
		errs = append(errs, NewInvalidFormatError("data", "invalid json"))
	}
	return errs.OrNil()
}

// LeaderboardEntry is the best score of one user for an activity.
type LeaderboardEntry struct {
	Rank      int
	UserID    string
	FullName  string
	BestScore float64
	PlayedAt  time.Time
}
