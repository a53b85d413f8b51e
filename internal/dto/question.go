package dto

import (
	"time"

	"dysscreen/internal/domain"
)

// OptionDTO is one selectable answer of a question.
type OptionDTO struct {
	Value int     `json:"value"`
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// QuestionResponse represents a question in the API response
// @Description Weighted multiple-choice question
type QuestionResponse struct {
	ID       string      `json:"id"`
	QuizType string      `json:"quiz_type"`
	Text     string      `json:"text"`
	Weight   float64     `json:"weight"`
	Options  []OptionDTO `json:"options"`
	Position int         `json:"position"`
}

// QuestionListResponse is the ordered question set of one quiz type.
type QuestionListResponse struct {
	QuizType  string             `json:"quiz_type"`
	MaxScore  float64            `json:"max_score"`
	Questions []QuestionResponse `json:"questions"`
}

// QuestionRequest is the admin create/update body. Weight defaults to 4 only
// when it is absent; options are generated when omitted.
// @Description Request body for creating or updating a question
type QuestionRequest struct {
	QuizType string      `json:"quiz_type"`
	Text     string      `json:"text"`
	Weight   *float64    `json:"weight,omitempty"`
	Options  []OptionDTO `json:"options,omitempty"`
}

// QuestionWeight returns the requested weight, or the default when none was sent.
func (r QuestionRequest) QuestionWeight() float64 {
	if r.Weight == nil {
		return domain.DefaultQuestionWeight
	}
	return *r.Weight
}

// SecondScreeningResponse is the effective second screening set.
type SecondScreeningResponse struct {
	Threshold int `json:"threshold"`
	// Configured is false while the built-in default (all disability questions) is used.
	Configured bool                          `json:"configured"`
	Categories map[string][]QuestionResponse `json:"categories"`
	UpdatedAt  *time.Time                    `json:"updated_at,omitempty"`
}

// SaveSecondScreeningRequest maps a category to the ordered question ids it uses.
// @Description Request body for saving the second screening configuration
type SaveSecondScreeningRequest struct {
	Threshold int                 `json:"threshold"`
	Questions map[string][]string `json:"questions"`
}

func NewQuestionResponse(q domain.Question) QuestionResponse {
	options := make([]OptionDTO, len(q.Options))
	for i, o := range q.Options {
		options[i] = OptionDTO{Value: o.Value, Label: o.Label, Score: o.Score}
	}
	return QuestionResponse{
		ID:       q.ID,
		QuizType: string(q.QuizType),
		Text:     q.Text,
		Weight:   q.Weight,
		Options:  options,
		Position: q.Position,
	}
}

func NewQuestionResponses(qs []domain.Question) []QuestionResponse {
	out := make([]QuestionResponse, len(qs))
	for i, q := range qs {
		out[i] = NewQuestionResponse(q)
	}
	return out
}

// ToDomainOptions converts request options; nil stays nil so that the
// option generator can run.
func ToDomainOptions(options []OptionDTO) []domain.Option {
	if len(options) == 0 {
		return nil
	}
	out := make([]domain.Option, len(options))
	for i, o := range options {
		out[i] = domain.Option{Value: o.Value, Label: o.Label, Score: o.Score}
	}
	return out
}
