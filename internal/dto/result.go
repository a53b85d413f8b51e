package dto

import (
	"time"

	"dysscreen/internal/domain"
)

// AnswerDTO is the score of the option chosen for one question.
type AnswerDTO struct {
	QuestionID    string  `json:"question_id"`
	QuizType      string  `json:"quiz_type,omitempty"`
	SelectedScore float64 `json:"selected_score"`
}

// SaveQuizResultRequest represents a submitted quiz
// @Description Request body for saving a quiz result
type SaveQuizResultRequest struct {
	QuizType string      `json:"quiz_type"`
	Answers  []AnswerDTO `json:"answers"`
}

// QuizResultResponse is one scored attempt. Transient results carry a
// token instead of an id and are not stored in the database.
// @Description Scored quiz attempt
type QuizResultResponse struct {
	ID                string                 `json:"id,omitempty"`
	Token             string                 `json:"token,omitempty"`
	UserID            string                 `json:"user_id,omitempty"`
	QuizType          string                 `json:"quiz_type"`
	TotalScore        float64                `json:"total_score"`
	MaxScore          float64                `json:"max_score"`
	Percentage        float64                `json:"percentage"`
	DisplayPercentage int                    `json:"display_percentage"`
	Result            domain.ScreeningResult `json:"result"`
	ClosestMatches    []string               `json:"closest_matches,omitempty"`
	Answers           []AnswerDTO            `json:"answers"`
	Transient         bool                   `json:"transient"`
	SubmittedAt       time.Time              `json:"submitted_at"`
}

// LatestResultResponse tells the client whether to offer "skip or retake".
type LatestResultResponse struct {
	Decision           string              `json:"decision"`
	PreviousPercentage float64             `json:"previous_percentage,omitempty"`
	PreviousPassed     bool                `json:"previous_passed,omitempty"`
	PreviousTier       string              `json:"previous_tier,omitempty"`
	Previous           *QuizResultResponse `json:"previous,omitempty"`
	// ReplayedAnswers is aligned with the current question order; nil
	// entries are questions without a usable stored answer.
	ReplayedAnswers []*AnswerDTO `json:"replayed_answers,omitempty"`
	DroppedAnswers  int          `json:"dropped_answers"`
}

type ResultHistoryResponse struct {
	Items []QuizResultResponse `json:"items"`
}

// AdminResultRow adds a human readable verdict to a stored attempt.
type AdminResultRow struct {
	QuizResultResponse
	Verdict string `json:"verdict"`
}

type AdminResultsResponse struct {
	Items  []AdminResultRow `json:"items"`
	Total  int              `json:"total"`
	Limit  int              `json:"limit"`
	Offset int              `json:"offset"`
}

func ToDomainAnswers(answers []AnswerDTO) []domain.Answer {
	out := make([]domain.Answer, len(answers))
	for i, a := range answers {
		out[i] = domain.Answer{
			QuestionID:    a.QuestionID,
			QuizType:      domain.QuizType(a.QuizType),
			SelectedScore: a.SelectedScore,
		}
	}
	return out
}

func NewAnswerDTOs(answers []domain.Answer) []AnswerDTO {
	out := make([]AnswerDTO, len(answers))
	for i, a := range answers {
		out[i] = AnswerDTO{QuestionID: a.QuestionID, QuizType: string(a.QuizType), SelectedScore: a.SelectedScore}
	}
	return out
}

func NewQuizResultResponse(a *domain.QuizAttempt) QuizResultResponse {
	return QuizResultResponse{
		ID:                a.ID,
		UserID:            a.UserID,
		QuizType:          string(a.QuizType),
		TotalScore:        a.TotalScore,
		MaxScore:          a.MaxScore,
		Percentage:        a.Percentage,
		DisplayPercentage: domain.DisplayPercentage(a.Percentage),
		Result:            a.Result,
		Answers:           NewAnswerDTOs(a.Answers),
		SubmittedAt:       a.SubmittedAt,
	}
}
