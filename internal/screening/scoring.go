package screening

import (
	"fmt"
	"sort"

	"dysscreen/internal/domain"
)

// ScoreSummary is the raw outcome of scoring a set of answers.
type ScoreSummary struct {
	TotalScore float64 `json:"total_score"`
	MaxScore   float64 `json:"max_score"`
	// Percentage is unrounded; round only for display.
	Percentage float64 `json:"percentage"`
}

type questionKey struct {
	quizType domain.QuizType
	id       string
}

// questionIndex resolves answers to questions, using the answer's quiz type
// to disambiguate ids shared across quiz types.
type questionIndex struct {
	byKey map[questionKey]*domain.Question
	byID  map[string][]*domain.Question
}

func newQuestionIndex(questions []domain.Question) *questionIndex {
	idx := &questionIndex{
		byKey: make(map[questionKey]*domain.Question, len(questions)),
		byID:  make(map[string][]*domain.Question, len(questions)),
	}
	for i := range questions {
		q := &questions[i]
		idx.byKey[questionKey{q.QuizType, q.ID}] = q
		idx.byID[q.ID] = append(idx.byID[q.ID], q)
	}
	return idx
}

func (idx *questionIndex) resolve(a domain.Answer) (*domain.Question, error) {
	if a.QuizType != "" {
		q, ok := idx.byKey[questionKey{a.QuizType, a.QuestionID}]
		if !ok {
			return nil, domain.NewAnswerQuestionMismatchError(
				fmt.Sprintf("answer references unknown question %s/%s", a.QuizType, a.QuestionID))
		}
		return q, nil
	}
	matches := idx.byID[a.QuestionID]
	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return nil, domain.NewAnswerQuestionMismatchError(
			fmt.Sprintf("answer references unknown question %s", a.QuestionID))
	default:
		return nil, domain.NewAnswerQuestionMismatchError(
			fmt.Sprintf("answer for question %s is ambiguous without a quiz type", a.QuestionID))
	}
}

// matchAnswers pairs every answer with exactly one question and checks the
// selected score is offered by that question.
func matchAnswers(answers []domain.Answer, idx *questionIndex) (map[*domain.Question]float64, error) {
	selected := make(map[*domain.Question]float64, len(answers))
	for _, a := range answers {
		q, err := idx.resolve(a)
		if err != nil {
			return nil, err
		}
		if _, dup := selected[q]; dup {
			return nil, domain.NewAnswerQuestionMismatchError(
				fmt.Sprintf("question %s/%s answered more than once", q.QuizType, q.ID))
		}
		if _, ok := q.OptionByScore(a.SelectedScore); !ok {
			return nil, domain.NewAnswerQuestionMismatchError(
				fmt.Sprintf("score %v is not an option of question %s/%s", a.SelectedScore, q.QuizType, q.ID)).
				WithContext("question_id", q.ID)
		}
		selected[q] = a.SelectedScore
	}
	return selected, nil
}

func summarize(questions []domain.Question, selected map[*domain.Question]float64) ScoreSummary {
	var s ScoreSummary
	for i := range questions {
		q := &questions[i]
		s.MaxScore += q.Weight
		s.TotalScore += selected[q]
	}
	s.Percentage = Percentage(s.TotalScore, s.MaxScore)
	return s
}

// Percentage returns 100*total/max, defined as 0 when max is 0.
func Percentage(total, max float64) float64 {
	if max == 0 {
		return 0
	}
	return 100 * total / max
}

// Score sums the selected scores against the question weights.
// The ceiling is the sum of weights, not of the best option scores.
func Score(answers []domain.Answer, questions []domain.Question) (ScoreSummary, error) {
	selected, err := matchAnswers(answers, newQuestionIndex(questions))
	if err != nil {
		return ScoreSummary{}, err
	}
	return summarize(questions, selected), nil
}

// ClassifyTier maps a percentage onto Low/Moderate/High. Both cuts are exclusive.
func ClassifyTier(percentage float64, cuts TierCuts) domain.Tier {
	switch {
	case percentage > cuts.High:
		return domain.TierHigh
	case percentage > cuts.Moderate:
		return domain.TierModerate
	default:
		return domain.TierLow
	}
}

// Passed applies an inclusive pass threshold to an unrounded percentage.
func Passed(percentage, threshold float64) bool {
	return percentage >= threshold
}

// EvaluateSingle scores a single-category quiz and classifies it under policy.
func EvaluateSingle(policy Policy, quizType domain.QuizType, answers []domain.Answer, questions []domain.Question) (ScoreSummary, domain.SingleResult, error) {
	if domain.ResultKindFor(quizType) != domain.ResultKindSingle {
		return ScoreSummary{}, domain.SingleResult{}, domain.NewInvalidInputError(
			fmt.Sprintf("quiz type %s is not a single-category quiz", quizType))
	}
	threshold, err := policy.PassThreshold(quizType)
	if err != nil {
		return ScoreSummary{}, domain.SingleResult{}, err
	}
	summary, err := Score(answers, questions)
	if err != nil {
		return ScoreSummary{}, domain.SingleResult{}, err
	}
	return summary, domain.SingleResult{
		Percentage: summary.Percentage,
		Passed:     Passed(summary.Percentage, threshold),
		Tier:       ClassifyTier(summary.Percentage, policy.Cuts),
	}, nil
}

// ScoreMultiCategory scores each category against its own questions only and
// collects every category at or above threshold. Ties are all kept.
func ScoreMultiCategory(answers []domain.Answer, questionsByCategory map[domain.QuizType][]domain.Question, threshold float64) (ScoreSummary, domain.MultiCategoryResult, error) {
	var all []domain.Question
	for _, cat := range sortedCategories(questionsByCategory) {
		for _, q := range questionsByCategory[cat] {
			if q.QuizType != cat {
				return ScoreSummary{}, domain.MultiCategoryResult{}, domain.NewDataIntegrityError(
					fmt.Sprintf("question %s/%s listed under category %s", q.QuizType, q.ID, cat))
			}
			all = append(all, q)
		}
	}

	selected, err := matchAnswers(answers, newQuestionIndex(all))
	if err != nil {
		return ScoreSummary{}, domain.MultiCategoryResult{}, err
	}

	result := domain.MultiCategoryResult{
		PerCategoryPercentage: make(map[domain.QuizType]float64, len(questionsByCategory)),
		PassedCategories:      []domain.QuizType{},
		Threshold:             threshold,
	}

	// selected is keyed by pointers into all, laid out in sorted category order.
	offset := 0
	for _, cat := range sortedCategories(questionsByCategory) {
		n := len(questionsByCategory[cat])
		s := summarize(all[offset:offset+n], selected)
		offset += n
		result.PerCategoryPercentage[cat] = s.Percentage
		if Passed(s.Percentage, threshold) {
			result.PassedCategories = append(result.PassedCategories, cat)
		}
	}
	sortByPercentage(result.PassedCategories, result.PerCategoryPercentage)

	return summarize(all, selected), result, nil
}

// ClosestMatches returns every category sharing the highest percentage.
// It never mutates r and returns nil when nothing scored above zero.
func ClosestMatches(r *domain.MultiCategoryResult) []domain.QuizType {
	if r == nil {
		return nil
	}
	best := 0.0
	for _, p := range r.PerCategoryPercentage {
		if p > best {
			best = p
		}
	}
	if best == 0 {
		return nil
	}
	var matches []domain.QuizType
	for _, cat := range r.Categories() {
		if r.PerCategoryPercentage[cat] == best {
			matches = append(matches, cat)
		}
	}
	return matches
}

func sortedCategories(m map[domain.QuizType][]domain.Question) []domain.QuizType {
	cats := make([]domain.QuizType, 0, len(m))
	for c := range m {
		cats = append(cats, c)
	}
	sort.Slice(cats, func(i, j int) bool { return cats[i] < cats[j] })
	return cats
}

func sortByPercentage(cats []domain.QuizType, pct map[domain.QuizType]float64) {
	sort.SliceStable(cats, func(i, j int) bool {
		if pct[cats[i]] != pct[cats[j]] {
			return pct[cats[i]] > pct[cats[j]]
		}
		return cats[i] < cats[j]
	})
}
