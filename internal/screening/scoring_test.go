package screening

import (
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dysscreen/internal/domain"
)

func makeQuestions(t domain.QuizType, weights ...float64) []domain.Question {
	qs := make([]domain.Question, len(weights))
	for i, w := range weights {
		q := domain.NewQuestion(t, fmt.Sprintf("%s question %d", t, i+1), w, nil)
		q.ID = fmt.Sprintf("%s-%d", t, i+1)
		q.Position = i
		qs[i] = *q
	}
	return qs
}

func answersWith(qs []domain.Question, pick func(q domain.Question) float64) []domain.Answer {
	answers := make([]domain.Answer, len(qs))
	for i, q := range qs {
		answers[i] = domain.Answer{QuestionID: q.ID, QuizType: q.QuizType, SelectedScore: pick(q)}
	}
	return answers
}

func maxPick(q domain.Question) float64 { return q.MaxOptionScore() }
func minPick(q domain.Question) float64 { return q.Options[0].Score }

func assertCode(t *testing.T, err error, code domain.ErrorCode) {
	t.Helper()
	var de *domain.DomainError
	require.True(t, errors.As(err, &de), "expected DomainError, got %v", err)
	assert.Equal(t, code, de.Code)
}

func TestScore_AllMaximumIsHundred(t *testing.T) {
	weightSets := [][]float64{{4}, {4, 4, 4}, {1, 2.5, 10}, {0.3, 0.3, 0.4, 7}}
	for _, ws := range weightSets {
		qs := makeQuestions(domain.QuizTypeDyslexia, ws...)
		s, err := Score(answersWith(qs, maxPick), qs)
		require.NoError(t, err)
		assert.InDelta(t, 100.0, s.Percentage, 1e-9, "weights %v", ws)
	}
}

func TestScore_AllMinimumIsZero(t *testing.T) {
	qs := makeQuestions(domain.QuizTypeDysgraphia, 4, 2, 6)
	s, err := Score(answersWith(qs, minPick), qs)
	require.NoError(t, err)
	assert.Equal(t, 0.0, s.Percentage)
	assert.Equal(t, 12.0, s.MaxScore)
}

func TestScore_OrderInvariant(t *testing.T) {
	qs := makeQuestions(domain.QuizTypeDyscalculia, 4, 3, 5, 2, 1)
	answers := answersWith(qs, func(q domain.Question) float64 { return q.Options[2].Score })
	want, err := Score(answers, qs)
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 10; i++ {
		shuffled := append([]domain.Answer(nil), answers...)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		got, err := Score(shuffled, qs)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestScore_MaxIsSumOfWeights(t *testing.T) {
	q := domain.Question{
		ID: "q1", QuizType: domain.QuizTypeDyslexia, Text: "t", Weight: 10,
		Options: []domain.Option{{Value: 1, Label: "No", Score: 0}, {Value: 2, Label: "Yes", Score: 5}},
	}
	s, err := Score([]domain.Answer{{QuestionID: "q1", SelectedScore: 5}}, []domain.Question{q})
	require.NoError(t, err)
	assert.Equal(t, 10.0, s.MaxScore)
	assert.Equal(t, 50.0, s.Percentage)
}

func TestScore_ZeroQuestions(t *testing.T) {
	s, err := Score(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, ScoreSummary{}, s)
}

func TestScore_UnansweredCountsAsZero(t *testing.T) {
	qs := makeQuestions(domain.QuizTypeDyslexia, 4, 4)
	s, err := Score([]domain.Answer{{QuestionID: qs[0].ID, SelectedScore: 4}}, qs)
	require.NoError(t, err)
	assert.Equal(t, 50.0, s.Percentage)
}

func TestScore_Mismatch(t *testing.T) {
	qs := makeQuestions(domain.QuizTypeDyslexia, 4, 4)

	tests := []struct {
		name    string
		answers []domain.Answer
	}{
		{"unknown question", []domain.Answer{{QuestionID: "nope", SelectedScore: 4}}},
		{"wrong quiz type", []domain.Answer{{QuestionID: qs[0].ID, QuizType: domain.QuizTypeDyscalculia, SelectedScore: 4}}},
		{"duplicate answer", []domain.Answer{{QuestionID: qs[0].ID, SelectedScore: 4}, {QuestionID: qs[0].ID, SelectedScore: 0}}},
		{"score not offered", []domain.Answer{{QuestionID: qs[0].ID, SelectedScore: 3.5}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Score(tt.answers, qs)
			assertCode(t, err, domain.CodeAnswerQuestionMismatch)
		})
	}
}

func TestScore_AmbiguousIDNeedsQuizType(t *testing.T) {
	qs := append(makeQuestions(domain.QuizTypeDyslexia, 4), makeQuestions(domain.QuizTypeDysgraphia, 4)...)
	qs[1].ID = qs[0].ID

	_, err := Score([]domain.Answer{{QuestionID: qs[0].ID, SelectedScore: 4}}, qs)
	assertCode(t, err, domain.CodeAnswerQuestionMismatch)

	s, err := Score([]domain.Answer{{QuestionID: qs[0].ID, QuizType: domain.QuizTypeDysgraphia, SelectedScore: 4}}, qs)
	require.NoError(t, err)
	assert.Equal(t, 50.0, s.Percentage)
}

func TestClassifyTier(t *testing.T) {
	cuts := TierCuts{High: 70, Moderate: 40}
	tests := []struct {
		p    float64
		want domain.Tier
	}{
		{0, domain.TierLow},
		{40, domain.TierLow},
		{40.0001, domain.TierModerate},
		{69.6, domain.TierModerate},
		{69.999, domain.TierModerate},
		{70, domain.TierModerate},
		{70.0001, domain.TierHigh},
		{100, domain.TierHigh},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyTier(tt.p, cuts), "percentage %v", tt.p)
	}
}

func TestClassifyTier_UsesUnroundedValue(t *testing.T) {
	p := 69.6
	assert.Equal(t, 70, domain.DisplayPercentage(p))
	assert.Equal(t, domain.TierModerate, ClassifyTier(p, DefaultPolicy().Cuts))
}

func TestPassed_Inclusive(t *testing.T) {
	assert.True(t, Passed(60, 60))
	assert.False(t, Passed(59.9999, 60))
}

func TestEvaluateSingle_QualificationScenario(t *testing.T) {
	qs := makeQuestions(domain.QuizTypeQualification, 4, 4, 4, 4, 4)
	// 4 + 4 + 4 + 0 + 0 = 12 of 20
	answers := answersWith(qs, maxPick)
	answers[3].SelectedScore = 0
	answers[4].SelectedScore = 0

	summary, result, err := EvaluateSingle(DefaultPolicy(), domain.QuizTypeQualification, answers, qs)
	require.NoError(t, err)
	assert.Equal(t, 12.0, summary.TotalScore)
	assert.Equal(t, 20.0, summary.MaxScore)
	assert.Equal(t, 60.0, result.Percentage)
	assert.True(t, result.Passed)
	assert.Equal(t, domain.TierModerate, result.Tier)
}

func TestEvaluateSingle_Errors(t *testing.T) {
	qs := makeQuestions(domain.QuizTypeDyslexia, 4)

	_, _, err := EvaluateSingle(DefaultPolicy(), domain.QuizTypeGeneral, nil, qs)
	assertCode(t, err, domain.CodeInvalidInput)

	p := DefaultPolicy()
	delete(p.PassThresholds, domain.QuizTypeDyslexia)
	_, _, err = EvaluateSingle(p, domain.QuizTypeDyslexia, nil, qs)
	assertCode(t, err, domain.CodeInternal)
}

// linearQuestions builds weight-4 questions whose options score 0..4.
func linearQuestions(t domain.QuizType, n int) []domain.Question {
	qs := makeQuestions(t, make([]float64, n)...)
	for i := range qs {
		qs[i].Weight = 4
		qs[i].Options = []domain.Option{
			{Value: 1, Label: "Never", Score: 0},
			{Value: 2, Label: "Rarely", Score: 1},
			{Value: 3, Label: "Sometimes", Score: 2},
			{Value: 4, Label: "Often", Score: 3},
			{Value: 5, Label: "Always", Score: 4},
		}
	}
	return qs
}

func scored(qs []domain.Question, scores ...float64) []domain.Answer {
	answers := make([]domain.Answer, len(scores))
	for i, s := range scores {
		answers[i] = domain.Answer{QuestionID: qs[i].ID, QuizType: qs[i].QuizType, SelectedScore: s}
	}
	return answers
}

func TestScoreMultiCategory_Scenario(t *testing.T) {
	byCat := map[domain.QuizType][]domain.Question{
		domain.QuizTypeDyslexia:   linearQuestions(domain.QuizTypeDyslexia, 5),
		domain.QuizTypeDysgraphia: linearQuestions(domain.QuizTypeDysgraphia, 5),
	}
	answers := append(
		scored(byCat[domain.QuizTypeDyslexia], 4, 4, 4, 4, 2),
		scored(byCat[domain.QuizTypeDysgraphia], 4, 4, 2, 0, 0)...,
	)

	summary, result, err := ScoreMultiCategory(answers, byCat, 60)
	require.NoError(t, err)
	assert.Equal(t, 90.0, result.PerCategoryPercentage[domain.QuizTypeDyslexia])
	assert.Equal(t, 50.0, result.PerCategoryPercentage[domain.QuizTypeDysgraphia])
	assert.Equal(t, []domain.QuizType{domain.QuizTypeDyslexia}, result.PassedCategories)
	assert.Equal(t, 60.0, result.Threshold)
	assert.Equal(t, 40.0, summary.MaxScore)
	assert.Equal(t, 28.0, summary.TotalScore)
}

func TestScoreMultiCategory_TiesKeptAndOrdered(t *testing.T) {
	byCat := map[domain.QuizType][]domain.Question{
		domain.QuizTypeDyslexia:    makeQuestions(domain.QuizTypeDyslexia, 4),
		domain.QuizTypeDysgraphia:  makeQuestions(domain.QuizTypeDysgraphia, 4),
		domain.QuizTypeDyscalculia: makeQuestions(domain.QuizTypeDyscalculia, 4, 4),
	}
	var answers []domain.Answer
	answers = append(answers, answersWith(byCat[domain.QuizTypeDyslexia], maxPick)...)
	answers = append(answers, answersWith(byCat[domain.QuizTypeDysgraphia], maxPick)...)
	answers = append(answers, domain.Answer{QuestionID: byCat[domain.QuizTypeDyscalculia][0].ID, QuizType: domain.QuizTypeDyscalculia, SelectedScore: 4})

	_, result, err := ScoreMultiCategory(answers, byCat, 50)
	require.NoError(t, err)
	assert.Equal(t, []domain.QuizType{domain.QuizTypeDysgraphia, domain.QuizTypeDyslexia, domain.QuizTypeDyscalculia}, result.PassedCategories)
}

func TestScoreMultiCategory_EmptyCategoryIsZero(t *testing.T) {
	byCat := map[domain.QuizType][]domain.Question{domain.QuizTypeDyslexia: nil}
	_, result, err := ScoreMultiCategory(nil, byCat, 60)
	require.NoError(t, err)
	assert.Equal(t, 0.0, result.PerCategoryPercentage[domain.QuizTypeDyslexia])
	assert.Empty(t, result.PassedCategories)
}

func TestScoreMultiCategory_MisfiledQuestion(t *testing.T) {
	byCat := map[domain.QuizType][]domain.Question{
		domain.QuizTypeDyslexia: makeQuestions(domain.QuizTypeDyscalculia, 4),
	}
	_, _, err := ScoreMultiCategory(nil, byCat, 60)
	assertCode(t, err, domain.CodeDataIntegrity)
}

func TestClosestMatches(t *testing.T) {
	r := &domain.MultiCategoryResult{
		PerCategoryPercentage: map[domain.QuizType]float64{
			domain.QuizTypeDyslexia:    45,
			domain.QuizTypeDysgraphia:  45,
			domain.QuizTypeDyscalculia: 20,
		},
		PassedCategories: []domain.QuizType{},
		Threshold:        60,
	}
	got := ClosestMatches(r)
	assert.Equal(t, []domain.QuizType{domain.QuizTypeDysgraphia, domain.QuizTypeDyslexia}, got)
	assert.Empty(t, r.PassedCategories, "fallback must not touch passed categories")

	zero := &domain.MultiCategoryResult{PerCategoryPercentage: map[domain.QuizType]float64{domain.QuizTypeDyslexia: 0}}
	assert.Nil(t, ClosestMatches(zero))
	assert.Nil(t, ClosestMatches(nil))
}

func TestPolicy_Validate(t *testing.T) {
	require.NoError(t, DefaultPolicy().Validate())

	p := DefaultPolicy()
	p.Cuts = TierCuts{High: 40, Moderate: 70}
	p.PassThresholds[domain.QuizTypeDyslexia] = 120
	err := p.Validate()
	var verrs domain.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.Len(t, verrs, 2)
}
