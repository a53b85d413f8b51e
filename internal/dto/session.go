package dto

import "dysscreen/internal/screening"

// SessionResponse is the screening session plus the questions of its
// current stage, if the stage asks any.
type SessionResponse struct {
	Session   *screening.Session `json:"session"`
	Questions []QuestionResponse `json:"questions,omitempty"`
	// Threshold is the pass percentage of the current stage.
	Threshold float64 `json:"threshold,omitempty"`
}

// SubmitAnswersRequest carries the answers of one stage.
// @Description Answers submitted for the current screening stage
type SubmitAnswersRequest struct {
	Answers []AnswerDTO `json:"answers"`
}

type ChooseDisabilityRequest struct {
	Disability string `json:"disability"`
}

type ChooseModeRequest struct {
	Mode string `json:"mode"`
}

// StageResultResponse is returned after a stage was scored.
type StageResultResponse struct {
	Session *screening.Session `json:"session"`
	Result  QuizResultResponse `json:"result"`
}
