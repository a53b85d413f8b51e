package domain

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// SecondScreeningConfig selects the questions and threshold of the second screening.
type SecondScreeningConfig struct {
	ThresholdPercent    int
	SelectedQuestionIDs map[QuizType][]string
	UpdatedAt           time.Time
}

// Categories returns the configured categories in a stable order.
func (c *SecondScreeningConfig) Categories() []QuizType {
	cats := make([]QuizType, 0, len(c.SelectedQuestionIDs))
	for cat := range c.SelectedQuestionIDs {
		cats = append(cats, cat)
	}
	sort.Slice(cats, func(i, j int) bool { return cats[i] < cats[j] })
	return cats
}

// Validate checks the shape of the config. Existence of the referenced
// questions is checked against the bank separately.
func (c *SecondScreeningConfig) Validate() error {
	var errs ValidationErrors

	if c.ThresholdPercent < 0 || c.ThresholdPercent > 100 {
		errs = append(errs, NewOutOfRangeError("threshold", c.ThresholdPercent, 0, 100))
	}

	for _, cat := range c.Categories() {
		field := fmt.Sprintf("questions.%s", cat)
		if !cat.IsDisability() {
			errs = append(errs, NewValidationError(field, "category must be dyslexia, dysgraphia or dyscalculia"))
			continue
		}
		seen := make(map[string]struct{}, len(c.SelectedQuestionIDs[cat]))
		for i, id := range c.SelectedQuestionIDs[cat] {
			if strings.TrimSpace(id) == "" {
				errs = append(errs, NewMissingFieldError(fmt.Sprintf("%s[%d]", field, i)))
				continue
			}
			if _, dup := seen[id]; dup {
				errs = append(errs, NewValidationError(fmt.Sprintf("%s[%d]", field, i), "duplicate question id "+id))
			}
			seen[id] = struct{}{}
		}
	}

	return errs.OrNil()
}
