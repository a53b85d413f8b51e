package domain

import (
	"math"
	"sort"
	"time"
)

// Answer records the score of the option chosen for one question.
type Answer struct {
	QuestionID string   `json:"question_id"`
	QuizType   QuizType `json:"quiz_type"`
	// SelectedScore is the score of the chosen option, not its ordinal.
	SelectedScore float64 `json:"selected_score"`
}

// Tier is a severity classification derived from a percentage.
type Tier string

const (
	TierLow      Tier = "Low"
	TierModerate Tier = "Moderate"
	TierHigh     Tier = "High"
)

// ResultKind tags the variant held by a ScreeningResult.
type ResultKind string

const (
	ResultKindSingle        ResultKind = "single"
	ResultKindMultiCategory ResultKind = "multi_category"
)

// ResultKindFor returns the result variant a quiz type produces.
func ResultKindFor(t QuizType) ResultKind {
	if t == QuizTypeGeneral {
		return ResultKindMultiCategory
	}
	return ResultKindSingle
}

// SingleResult is the outcome of a single-category quiz.
type SingleResult struct {
	Percentage float64 `json:"percentage"`
	Passed     bool    `json:"passed"`
	Tier       Tier    `json:"tier"`
}

// MultiCategoryResult is the outcome of the second screening.
type MultiCategoryResult struct {
	PerCategoryPercentage map[QuizType]float64 `json:"per_category_percentage"`
	PassedCategories      []QuizType           `json:"passed_categories"`
	Threshold             float64              `json:"threshold"`
}

// Categories returns the scored categories in a stable order.
func (r *MultiCategoryResult) Categories() []QuizType {
	cats := make([]QuizType, 0, len(r.PerCategoryPercentage))
	for c := range r.PerCategoryPercentage {
		cats = append(cats, c)
	}
	sort.Slice(cats, func(i, j int) bool { return cats[i] < cats[j] })
	return cats
}

// Detected reports whether c cleared the threshold.
func (r *MultiCategoryResult) Detected(c QuizType) bool {
	for _, p := range r.PassedCategories {
		if p == c {
			return true
		}
	}
	return false
}

// ScreeningResult is a tagged variant: exactly one of Single or MultiCategory is set.
type ScreeningResult struct {
	Kind          ResultKind           `json:"kind"`
	Single        *SingleResult        `json:"single,omitempty"`
	MultiCategory *MultiCategoryResult `json:"multi_category,omitempty"`
}

func NewSingleScreeningResult(r SingleResult) ScreeningResult {
	return ScreeningResult{Kind: ResultKindSingle, Single: &r}
}

func NewMultiCategoryScreeningResult(r MultiCategoryResult) ScreeningResult {
	return ScreeningResult{Kind: ResultKindMultiCategory, MultiCategory: &r}
}

// Passed is true for a passed single quiz or at least one detected category.
func (r ScreeningResult) Passed() bool {
	switch r.Kind {
	case ResultKindSingle:
		return r.Single != nil && r.Single.Passed
	case ResultKindMultiCategory:
		return r.MultiCategory != nil && len(r.MultiCategory.PassedCategories) > 0
	default:
		return false
	}
}

// QuizAttempt is an immutable completed submission.
type QuizAttempt struct {
	ID string
	// UserID is empty for anonymous attempts.
	UserID      string
	QuizType    QuizType
	Answers     []Answer
	TotalScore  float64
	MaxScore    float64
	Percentage  float64
	Result      ScreeningResult
	SubmittedAt time.Time
}

// Anonymous reports whether the attempt has no owner.
func (a *QuizAttempt) Anonymous() bool {
	return a.UserID == ""
}

// DisplayPercentage rounds p for presentation. Comparisons must use p itself.
func DisplayPercentage(p float64) int {
	return int(math.Round(p))
}
