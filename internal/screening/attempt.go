package screening

import (
	"fmt"

	"dysscreen/internal/domain"
)

// Attempt is one in-progress pass over an ordered question list.
// A question must be answered before moving past it, and an attempt can be
// submitted exactly once.
type Attempt struct {
	quizType   domain.QuizType
	questions  []domain.Question
	selections []*float64
	current    int
	submitted  bool
}

// NewAttempt starts an attempt over questions in the given order.
func NewAttempt(quizType domain.QuizType, questions []domain.Question) *Attempt {
	qs := make([]domain.Question, len(questions))
	copy(qs, questions)
	return &Attempt{
		quizType:   quizType,
		questions:  qs,
		selections: make([]*float64, len(qs)),
	}
}

func (a *Attempt) QuizType() domain.QuizType { return a.quizType }

// Questions returns the questions of the attempt in presentation order.
func (a *Attempt) Questions() []domain.Question {
	out := make([]domain.Question, len(a.questions))
	copy(out, a.questions)
	return out
}

// Index is the zero-based position of the current question.
func (a *Attempt) Index() int { return a.current }

func (a *Attempt) Len() int { return len(a.questions) }

// Current returns the question being answered.
func (a *Attempt) Current() (domain.Question, bool) {
	if a.current >= len(a.questions) {
		return domain.Question{}, false
	}
	return a.questions[a.current], true
}

// Select records the score of the chosen option for the current question.
func (a *Attempt) Select(score float64) error {
	if a.submitted {
		return domain.NewAlreadySubmittedError()
	}
	q, ok := a.Current()
	if !ok {
		return domain.NewInvalidInputError("attempt has no questions")
	}
	if _, ok := q.OptionByScore(score); !ok {
		return domain.NewAnswerQuestionMismatchError(
			fmt.Sprintf("score %v is not an option of question %s", score, q.ID))
	}
	s := score
	a.selections[a.current] = &s
	return nil
}

// Next advances to the following question. It refuses to leave an
// unanswered question.
func (a *Attempt) Next() error {
	if a.submitted {
		return domain.NewAlreadySubmittedError()
	}
	if a.current >= len(a.questions) || a.selections[a.current] == nil {
		return domain.NewIncompleteAnswerError(a.current)
	}
	if a.current == len(a.questions)-1 {
		return domain.NewInvalidInputError("already at the last question")
	}
	a.current++
	return nil
}

// Previous moves back one question, keeping recorded selections.
func (a *Attempt) Previous() error {
	if a.submitted {
		return domain.NewAlreadySubmittedError()
	}
	if a.current > 0 {
		a.current--
	}
	return nil
}

// Complete reports whether every question has a selection.
func (a *Attempt) Complete() bool {
	return a.firstUnanswered() < 0
}

func (a *Attempt) Submitted() bool { return a.submitted }

// Answers returns the answers recorded so far, in question order.
func (a *Attempt) Answers() []domain.Answer {
	answers := make([]domain.Answer, 0, len(a.questions))
	for i, q := range a.questions {
		if a.selections[i] == nil {
			continue
		}
		answers = append(answers, domain.Answer{
			QuestionID:    q.ID,
			QuizType:      q.QuizType,
			SelectedScore: *a.selections[i],
		})
	}
	return answers
}

// Submit closes the attempt and returns its answers. A second call fails
// with ALREADY_SUBMITTED so a result is never persisted twice.
func (a *Attempt) Submit() ([]domain.Answer, error) {
	if a.submitted {
		return nil, domain.NewAlreadySubmittedError()
	}
	if i := a.firstUnanswered(); i >= 0 {
		return nil, domain.NewIncompleteAnswerError(i)
	}
	a.submitted = true
	return a.Answers(), nil
}

// Apply walks the attempt from its first question, selecting the posted
// answer for each question and advancing. Answers for questions outside the
// attempt or answered twice are a mismatch; a gap stops at that index.
func (a *Attempt) Apply(answers []domain.Answer) error {
	if a.submitted {
		return domain.NewAlreadySubmittedError()
	}
	posted := make(map[questionKey]float64, len(answers))
	for _, ans := range answers {
		k, err := a.keyFor(ans)
		if err != nil {
			return err
		}
		if _, dup := posted[k]; dup {
			return domain.NewAnswerQuestionMismatchError(
				fmt.Sprintf("question %s answered more than once", ans.QuestionID))
		}
		posted[k] = ans.SelectedScore
	}

	a.current = 0
	for i, q := range a.questions {
		score, ok := posted[questionKey{q.QuizType, q.ID}]
		if !ok {
			return domain.NewIncompleteAnswerError(i)
		}
		if err := a.Select(score); err != nil {
			return err
		}
		if i < len(a.questions)-1 {
			if err := a.Next(); err != nil {
				return err
			}
		}
	}
	return nil
}

func (a *Attempt) keyFor(ans domain.Answer) (questionKey, error) {
	var found []questionKey
	for _, q := range a.questions {
		if q.ID != ans.QuestionID {
			continue
		}
		if ans.QuizType != "" && q.QuizType != ans.QuizType {
			continue
		}
		found = append(found, questionKey{q.QuizType, q.ID})
	}
	switch len(found) {
	case 1:
		return found[0], nil
	case 0:
		return questionKey{}, domain.NewAnswerQuestionMismatchError(
			fmt.Sprintf("answer references unknown question %s", ans.QuestionID))
	default:
		return questionKey{}, domain.NewAnswerQuestionMismatchError(
			fmt.Sprintf("answer for question %s is ambiguous without a quiz type", ans.QuestionID))
	}
}

func (a *Attempt) firstUnanswered() int {
	for i, s := range a.selections {
		if s == nil {
			return i
		}
	}
	return -1
}
