package seedmodels

import (
	"fmt"

	"dysscreen/internal/domain"
)

// SeedOption defines one answer option in the JSON seed file.
type SeedOption struct {
	Value int     `json:"value"`
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// SeedQuestion defines a question; options are generated from the weight
// when omitted.
type SeedQuestion struct {
	Text    string       `json:"text"`
	Weight  *float64     `json:"weight,omitempty"`
	Options []SeedOption `json:"options,omitempty"`
}

// SeedQuestionBank groups the questions of one quiz type in display order.
type SeedQuestionBank struct {
	QuizType  string         `json:"quiz_type"`
	Questions []SeedQuestion `json:"questions"`
}

// SeedSecondScreening picks the first QuestionsPerCategory questions of
// every disability for the initial second screening configuration.
type SeedSecondScreening struct {
	Threshold            int `json:"threshold"`
	QuestionsPerCategory int `json:"questions_per_category"`
}

// SeedContent defines the learning material of one disability.
type SeedContent struct {
	DisabilityType string            `json:"disability_type"`
	Title          string            `json:"title"`
	Description    string            `json:"description"`
	Signs          []string          `json:"signs"`
	Strategies     []string          `json:"strategies"`
	Resources      []domain.Resource `json:"resources"`
}

// SeedData is the root of the JSON seed file.
type SeedData struct {
	QuestionBanks     []SeedQuestionBank  `json:"question_banks"`
	SecondScreening   SeedSecondScreening `json:"second_screening"`
	DisabilityContent []SeedContent       `json:"disability_content"`
}

// ToDomain converts the bank into unsaved questions.
func (b SeedQuestionBank) ToDomain() (domain.QuizType, []domain.Question, error) {
	t, err := domain.ParseQuizType(b.QuizType)
	if err != nil {
		return "", nil, fmt.Errorf("question bank: %w", err)
	}
	qs := make([]domain.Question, len(b.Questions))
	for i, sq := range b.Questions {
		var options []domain.Option
		for _, o := range sq.Options {
			options = append(options, domain.Option{Value: o.Value, Label: o.Label, Score: o.Score})
		}
		weight := domain.DefaultQuestionWeight
		if sq.Weight != nil {
			weight = *sq.Weight
		}
		qs[i] = *domain.NewQuestion(t, sq.Text, weight, options)
	}
	return t, qs, nil
}

func (c SeedContent) ToDomain() (*domain.DisabilityContent, error) {
	t, err := domain.ParseDisabilityType(c.DisabilityType)
	if err != nil {
		return nil, fmt.Errorf("disability content: %w", err)
	}
	content := &domain.DisabilityContent{
		DisabilityType: t,
		Title:          c.Title,
		Description:    c.Description,
		Signs:          c.Signs,
		Strategies:     c.Strategies,
		Resources:      c.Resources,
	}
	if err := content.Validate(); err != nil {
		return nil, err
	}
	return content, nil
}
