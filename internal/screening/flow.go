package screening

import (
	"fmt"
	"time"

	"dysscreen/internal/domain"
)

// State is a node of the screening flow.
type State string

const (
	StateStart           State = "start"
	StateQualification   State = "qualification"
	StateNotQualified    State = "not_qualified"
	StateSecondScreening State = "second_screening"
	// StateNoDominantIndicator means no category cleared the threshold; a retake is offered.
	StateNoDominantIndicator State = "no_dominant_indicator"
	StateDisabilityHub       State = "disability_hub"
	StateTest                State = "test"
	StateLearn               State = "learn"
	StateTerminal            State = "terminal"
)

// Terminal reports whether no further transition leaves s.
func (s State) Terminal() bool {
	return s == StateNotQualified || s == StateTerminal
}

// Mode is the activity chosen inside the disability hub.
type Mode string

const (
	ModeTest  Mode = "test"
	ModeLearn Mode = "learn"
)

// Event names a flow transition.
type Event string

const (
	EventStart                 Event = "start"
	EventSubmitQualification   Event = "submit_qualification"
	EventSubmitSecondScreening Event = "submit_second_screening"
	EventRetakeSecondScreening Event = "retake_second_screening"
	EventChooseDisability      Event = "choose_disability"
	EventEnterMode             Event = "enter_mode"
	EventSubmitTest            Event = "submit_test"
	EventFinish                Event = "finish"
)

// Session is the explicit screening context of one user journey.
// It replaces ad hoc client storage of pass flags.
type Session struct {
	ID     string `json:"id"`
	UserID string `json:"user_id,omitempty"`
	State  State  `json:"state"`
	// Disability is set once a hub entry has been chosen.
	Disability            domain.QuizType             `json:"disability,omitempty"`
	QualificationResult   *domain.SingleResult        `json:"qualification_result,omitempty"`
	SecondScreeningResult *domain.MultiCategoryResult `json:"second_screening_result,omitempty"`
	ClosestMatches        []domain.QuizType           `json:"closest_matches,omitempty"`
	TestResult            *domain.SingleResult        `json:"test_result,omitempty"`
	CreatedAt             time.Time                   `json:"created_at"`
	UpdatedAt             time.Time                   `json:"updated_at"`
}

// NewSession creates a session in StateStart. userID may be empty.
func NewSession(id, userID string, now time.Time) *Session {
	return &Session{ID: id, UserID: userID, State: StateStart, CreatedAt: now, UpdatedAt: now}
}

func (s *Session) Anonymous() bool { return s.UserID == "" }

// SaveCommand asks the persistence layer to store a submitted attempt.
type SaveCommand struct {
	UserID   string
	QuizType domain.QuizType
	Answers  []domain.Answer
}

// Outcome is what a submission produced.
type Outcome struct {
	QuizType domain.QuizType
	Answers  []domain.Answer
	Summary  ScoreSummary
	Result   domain.ScreeningResult
	// ClosestMatches is filled only by the explicit fallback step.
	ClosestMatches []domain.QuizType
	Next           State
	// Save is nil for anonymous sessions; Transient is then true.
	Save      *SaveCommand
	Transient bool
}

// Controller drives sessions through the screening flow.
type Controller struct {
	policy Policy
	now    func() time.Time
}

func NewController(policy Policy) *Controller {
	return &Controller{policy: policy, now: time.Now}
}

func (c *Controller) Policy() Policy { return c.policy }

// Start moves a fresh session to the qualification quiz.
func (c *Controller) Start(s *Session) error {
	if err := expect(s, EventStart, StateStart); err != nil {
		return err
	}
	c.move(s, StateQualification)
	return nil
}

// SubmitQualification scores the qualification attempt. Passing opens the
// second screening; failing ends the flow in StateNotQualified.
func (c *Controller) SubmitQualification(s *Session, attempt *Attempt) (*Outcome, error) {
	if err := expect(s, EventSubmitQualification, StateQualification); err != nil {
		return nil, err
	}
	if err := expectQuizType(attempt, domain.QuizTypeQualification); err != nil {
		return nil, err
	}
	answers, err := attempt.Submit()
	if err != nil {
		return nil, err
	}
	summary, result, err := EvaluateSingle(c.policy, domain.QuizTypeQualification, answers, attempt.Questions())
	if err != nil {
		return nil, err
	}

	s.QualificationResult = &result
	next := StateNotQualified
	if result.Passed {
		next = StateSecondScreening
	}
	c.move(s, next)
	return c.outcome(s, domain.QuizTypeQualification, answers, summary, domain.NewSingleScreeningResult(result), next), nil
}

// SubmitSecondScreening scores the multi-category attempt. Any passed
// category opens the disability hub; otherwise the session waits in
// StateNoDominantIndicator. The closest-match fallback runs as its own step
// and never alters the passed categories.
func (c *Controller) SubmitSecondScreening(s *Session, attempt *Attempt, questionsByCategory map[domain.QuizType][]domain.Question, threshold float64) (*Outcome, error) {
	if err := expect(s, EventSubmitSecondScreening, StateSecondScreening); err != nil {
		return nil, err
	}
	if err := expectQuizType(attempt, domain.QuizTypeGeneral); err != nil {
		return nil, err
	}
	answers, err := attempt.Submit()
	if err != nil {
		return nil, err
	}
	summary, result, err := ScoreMultiCategory(answers, questionsByCategory, threshold)
	if err != nil {
		return nil, err
	}

	s.SecondScreeningResult = &result
	s.ClosestMatches = nil
	next := StateDisabilityHub
	if len(result.PassedCategories) == 0 {
		next = StateNoDominantIndicator
		if c.policy.ClosestMatchFallback {
			s.ClosestMatches = ClosestMatches(&result)
		}
	}
	c.move(s, next)

	out := c.outcome(s, domain.QuizTypeGeneral, answers, summary, domain.NewMultiCategoryScreeningResult(result), next)
	out.ClosestMatches = s.ClosestMatches
	return out, nil
}

// RetakeSecondScreening returns to the second screening from its result states.
func (c *Controller) RetakeSecondScreening(s *Session) error {
	if err := expect(s, EventRetakeSecondScreening, StateNoDominantIndicator, StateDisabilityHub); err != nil {
		return err
	}
	s.Disability = ""
	c.move(s, StateSecondScreening)
	return nil
}

// ChooseDisability selects a hub entry. Every disability is reachable from
// the hub, not only the detected ones.
func (c *Controller) ChooseDisability(s *Session, d domain.QuizType) error {
	if err := expect(s, EventChooseDisability, StateDisabilityHub, StateLearn); err != nil {
		return err
	}
	if !d.IsDisability() {
		return domain.NewInvalidInputError(fmt.Sprintf("invalid disability: %q", d))
	}
	s.Disability = d
	c.move(s, StateDisabilityHub)
	return nil
}

// EnterMode starts the test or the learning material of the chosen disability.
func (c *Controller) EnterMode(s *Session, m Mode) error {
	if err := expect(s, EventEnterMode, StateDisabilityHub, StateLearn); err != nil {
		return err
	}
	if s.Disability == "" {
		return domain.NewInvalidTransitionError(string(s.State), string(EventEnterMode)).
			WithContext("reason", "no disability chosen")
	}
	switch m {
	case ModeTest:
		c.move(s, StateTest)
	case ModeLearn:
		if s.State == StateLearn {
			return domain.NewInvalidTransitionError(string(s.State), string(EventEnterMode))
		}
		c.move(s, StateLearn)
	default:
		return domain.NewInvalidInputError(fmt.Sprintf("invalid mode: %q", m))
	}
	return nil
}

// SubmitTest scores the disability test and ends the flow.
func (c *Controller) SubmitTest(s *Session, attempt *Attempt) (*Outcome, error) {
	if err := expect(s, EventSubmitTest, StateTest); err != nil {
		return nil, err
	}
	if err := expectQuizType(attempt, s.Disability); err != nil {
		return nil, err
	}
	answers, err := attempt.Submit()
	if err != nil {
		return nil, err
	}
	summary, result, err := EvaluateSingle(c.policy, s.Disability, answers, attempt.Questions())
	if err != nil {
		return nil, err
	}

	s.TestResult = &result
	c.move(s, StateTerminal)
	return c.outcome(s, s.Disability, answers, summary, domain.NewSingleScreeningResult(result), StateTerminal), nil
}

// Finish closes a learning visit.
func (c *Controller) Finish(s *Session) error {
	if err := expect(s, EventFinish, StateLearn); err != nil {
		return err
	}
	c.move(s, StateTerminal)
	return nil
}

func (c *Controller) outcome(s *Session, t domain.QuizType, answers []domain.Answer, summary ScoreSummary, result domain.ScreeningResult, next State) *Outcome {
	out := &Outcome{
		QuizType: t,
		Answers:  answers,
		Summary:  summary,
		Result:   result,
		Next:     next,
	}
	if s.Anonymous() {
		out.Transient = true
		return out
	}
	out.Save = &SaveCommand{UserID: s.UserID, QuizType: t, Answers: answers}
	return out
}

func (c *Controller) move(s *Session, to State) {
	s.State = to
	s.UpdatedAt = c.now()
}

func expect(s *Session, ev Event, allowed ...State) error {
	if s == nil {
		return domain.NewInvalidInputError("session is required")
	}
	for _, st := range allowed {
		if s.State == st {
			return nil
		}
	}
	return domain.NewInvalidTransitionError(string(s.State), string(ev))
}

func expectQuizType(a *Attempt, t domain.QuizType) error {
	if a == nil {
		return domain.NewInvalidInputError("attempt is required")
	}
	if a.QuizType() != t {
		return domain.NewInvalidInputError(
			fmt.Sprintf("attempt is for quiz type %s, expected %s", a.QuizType(), t))
	}
	return nil
}
