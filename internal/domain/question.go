package domain

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// QuizType identifies a question bank.
type QuizType string

const (
	QuizTypeQualification QuizType = "qualification"
	QuizTypeDyslexia      QuizType = "dyslexia"
	QuizTypeDysgraphia    QuizType = "dysgraphia"
	QuizTypeDyscalculia   QuizType = "dyscalculia"
	// QuizTypeGeneral is the general pool; second screening attempts are stored under it.
	QuizTypeGeneral QuizType = "general"
)

// DefaultQuestionWeight is the total marks of a legacy fixed-option question.
const DefaultQuestionWeight = 4.0

const scoreEpsilon = 1e-9

// AllQuizTypes lists every known quiz type in display order.
var AllQuizTypes = []QuizType{
	QuizTypeQualification,
	QuizTypeDyslexia,
	QuizTypeDysgraphia,
	QuizTypeDyscalculia,
	QuizTypeGeneral,
}

// DisabilityTypes lists the screened learning disabilities.
var DisabilityTypes = []QuizType{
	QuizTypeDyslexia,
	QuizTypeDysgraphia,
	QuizTypeDyscalculia,
}

// ParseQuizType normalises s and returns NOT_FOUND for unknown types.
func ParseQuizType(s string) (QuizType, error) {
	t := QuizType(strings.ToLower(strings.TrimSpace(s)))
	if !t.Known() {
		return "", NewNotFoundError(fmt.Sprintf("unknown quiz type: %q", s))
	}
	return t, nil
}

// ParseDisabilityType accepts only dyslexia, dysgraphia and dyscalculia.
func ParseDisabilityType(s string) (QuizType, error) {
	t, err := ParseQuizType(s)
	if err != nil {
		return "", err
	}
	if !t.IsDisability() {
		return "", NewNotFoundError(fmt.Sprintf("invalid disability: %q", s))
	}
	return t, nil
}

func (t QuizType) Known() bool {
	for _, k := range AllQuizTypes {
		if t == k {
			return true
		}
	}
	return false
}

func (t QuizType) IsDisability() bool {
	for _, k := range DisabilityTypes {
		if t == k {
			return true
		}
	}
	return false
}

func (t QuizType) String() string {
	return string(t)
}

// Option is one selectable answer of a question.
type Option struct {
	Value int     `json:"value"`
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Question is a weighted multiple-choice question.
type Question struct {
	ID        string
	QuizType  QuizType
	Text      string
	Weight    float64
	Options   []Option
	Position  int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewQuestion creates a question with generated options when none are given.
func NewQuestion(quizType QuizType, text string, weight float64, options []Option) *Question {
	if len(options) == 0 && weight > 0 {
		options = GenerateOptions(weight)
	}
	now := time.Now()
	return &Question{
		QuizType:  quizType,
		Text:      text,
		Weight:    weight,
		Options:   options,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Validate checks every question invariant and reports all violations at once.
func (q *Question) Validate() error {
	var errs ValidationErrors

	if q.QuizType == "" {
		errs = append(errs, NewMissingFieldError("quiz_type"))
	} else if !q.QuizType.Known() {
		errs = append(errs, NewInvalidFormatError("quiz_type", string(q.QuizType)))
	}
	if strings.TrimSpace(q.Text) == "" {
		errs = append(errs, NewMissingFieldError("text"))
	}
	if !(q.Weight > 0) || math.IsInf(q.Weight, 0) {
		errs = append(errs, NewValidationError("weight", "must be a positive number"))
	}
	if len(q.Options) == 0 {
		errs = append(errs, NewValidationError("options", "at least one option is required"))
		return errs.OrNil()
	}

	for i, opt := range q.Options {
		field := fmt.Sprintf("options[%d]", i)
		if strings.TrimSpace(opt.Label) == "" {
			errs = append(errs, NewMissingFieldError(field+".label"))
		}
		if opt.Score < 0 || math.IsNaN(opt.Score) {
			errs = append(errs, NewValidationError(field+".score", "must not be negative"))
		}
		if i == 0 {
			continue
		}
		prev := q.Options[i-1]
		if opt.Value <= prev.Value {
			errs = append(errs, NewValidationError(field+".value", "ordinal values must be strictly increasing"))
		}
		if opt.Score < prev.Score {
			errs = append(errs, NewValidationError(field+".score", "scores must not decrease as the ordinal increases"))
		}
	}

	if q.Weight > 0 && !scoresEqual(q.MaxOptionScore(), q.Weight) {
		errs = append(errs, ValidationError{
			Field:   "options",
			Code:    CodeValidation,
			Message: fmt.Sprintf("highest option score must equal the weight %v", q.Weight),
			Value:   q.MaxOptionScore(),
		})
	}

	return errs.OrNil()
}

// MaxOptionScore returns the highest score any option awards.
func (q *Question) MaxOptionScore() float64 {
	max := 0.0
	for i, opt := range q.Options {
		if i == 0 || opt.Score > max {
			max = opt.Score
		}
	}
	return max
}

// OptionByScore returns the option awarding score, if any.
func (q *Question) OptionByScore(score float64) (Option, bool) {
	for _, opt := range q.Options {
		if scoresEqual(opt.Score, score) {
			return opt, true
		}
	}
	return Option{}, false
}

var generatedOptionLabels = []string{"Never", "Sometimes", "Often", "Always"}

// GenerateOptions builds the Never..Always scale for weight.
// Never scores 0 and Always scores the full weight; scores are rounded to two decimals.
func GenerateOptions(weight float64) []Option {
	steps := float64(len(generatedOptionLabels) - 1)
	options := make([]Option, len(generatedOptionLabels))
	for i, label := range generatedOptionLabels {
		score := 0.0
		if i > 0 {
			score = math.Round(weight*float64(i)/steps*100) / 100
		}
		options[i] = Option{Value: i + 1, Label: label, Score: score}
	}
	// Rounding must never move the ceiling away from the weight.
	options[len(options)-1].Score = weight
	return options
}

func scoresEqual(a, b float64) bool {
	return math.Abs(a-b) <= scoreEpsilon
}
