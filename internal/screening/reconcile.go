package screening

import (
	"time"

	"dysscreen/internal/domain"
)

// DecisionKind tells the caller how to enter a quiz.
type DecisionKind string

const (
	DecisionStartFresh DecisionKind = "start_fresh"
	DecisionShowPrompt DecisionKind = "show_prompt"
)

// PromptDecision is the outcome of reconciling a user's history with a new visit.
// The Previous fields are set only for DecisionShowPrompt.
type PromptDecision struct {
	Kind               DecisionKind
	PreviousPercentage float64
	PreviousPassed     bool
	// PreviousTier is empty for multi-category attempts.
	PreviousTier    domain.Tier
	PreviousAnswers []domain.Answer
	PreviousResult  *domain.ScreeningResult
	SubmittedAt     time.Time
}

// Reconcile decides whether to show a "taken before" prompt.
// forceRetake always wins over any stored attempt.
func Reconcile(latest *domain.QuizAttempt, forceRetake bool) PromptDecision {
	if forceRetake || latest == nil {
		return PromptDecision{Kind: DecisionStartFresh}
	}
	d := PromptDecision{
		Kind:               DecisionShowPrompt,
		PreviousPercentage: latest.Percentage,
		PreviousPassed:     latest.Result.Passed(),
		PreviousAnswers:    append([]domain.Answer(nil), latest.Answers...),
		SubmittedAt:        latest.SubmittedAt,
	}
	result := latest.Result
	d.PreviousResult = &result
	if result.Single != nil {
		d.PreviousTier = result.Single.Tier
	}
	return d
}

// Replay holds stored answers mapped onto the current question set.
type Replay struct {
	// Answers is aligned with the current questions; nil marks an unanswered question.
	Answers []*domain.Answer
	// Dropped counts stored answers whose question no longer exists.
	Dropped int
}

// ReplayAnswers maps the latest attempt's answers onto currentQuestions by
// question id. Answers to removed questions are dropped and counted. An
// answer whose score is no longer offered by the edited question is dropped too.
func ReplayAnswers(latest *domain.QuizAttempt, currentQuestions []domain.Question) Replay {
	r := Replay{Answers: make([]*domain.Answer, len(currentQuestions))}
	if latest == nil {
		return r
	}

	pos := make(map[questionKey]int, len(currentQuestions))
	for i, q := range currentQuestions {
		pos[questionKey{q.QuizType, q.ID}] = i
	}

	for _, a := range latest.Answers {
		qt := a.QuizType
		if qt == "" {
			qt = latest.QuizType
		}
		i, ok := pos[questionKey{qt, a.QuestionID}]
		if !ok || r.Answers[i] != nil {
			r.Dropped++
			continue
		}
		if _, ok := currentQuestions[i].OptionByScore(a.SelectedScore); !ok {
			r.Dropped++
			continue
		}
		ans := a
		ans.QuizType = qt
		r.Answers[i] = &ans
	}
	return r
}

// Filled returns the non-nil replayed answers in question order.
func (r Replay) Filled() []domain.Answer {
	out := make([]domain.Answer, 0, len(r.Answers))
	for _, a := range r.Answers {
		if a != nil {
			out = append(out, *a)
		}
	}
	return out
}
