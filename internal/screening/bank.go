package screening

import (
	"fmt"
	"sort"
	"strings"

	"dysscreen/internal/domain"
)

// Bank is a read-only snapshot of the question bank.
type Bank struct {
	byType map[domain.QuizType][]domain.Question
}

// NewBank groups questions by quiz type, ordered by position then id.
func NewBank(questions []domain.Question) *Bank {
	b := &Bank{byType: make(map[domain.QuizType][]domain.Question)}
	for _, q := range questions {
		b.byType[q.QuizType] = append(b.byType[q.QuizType], q)
	}
	for t := range b.byType {
		qs := b.byType[t]
		sort.SliceStable(qs, func(i, j int) bool {
			if qs[i].Position != qs[j].Position {
				return qs[i].Position < qs[j].Position
			}
			return qs[i].ID < qs[j].ID
		})
	}
	return b
}

// GetQuestions returns the ordered questions of t. An unknown quiz type is
// NOT_FOUND; a known type without questions yields an empty slice.
func (b *Bank) GetQuestions(t domain.QuizType) ([]domain.Question, error) {
	if !t.Known() {
		return nil, domain.NewNotFoundError(fmt.Sprintf("unknown quiz type: %q", t))
	}
	qs := b.byType[t]
	out := make([]domain.Question, len(qs))
	copy(out, qs)
	return out, nil
}

// Lookup finds a question of t by id.
func (b *Bank) Lookup(t domain.QuizType, id string) (domain.Question, bool) {
	for _, q := range b.byType[t] {
		if q.ID == id {
			return q, true
		}
	}
	return domain.Question{}, false
}

// ResolveSecondScreening maps the configured question ids onto bank questions.
// Ids the bank does not hold are a DATA_INTEGRITY failure, never skipped.
func (b *Bank) ResolveSecondScreening(cfg *domain.SecondScreeningConfig) (map[domain.QuizType][]domain.Question, error) {
	if cfg == nil {
		return nil, domain.NewDataIntegrityError("second screening is not configured")
	}
	resolved := make(map[domain.QuizType][]domain.Question, len(cfg.SelectedQuestionIDs))
	var missing []string
	for _, cat := range cfg.Categories() {
		for _, id := range cfg.SelectedQuestionIDs[cat] {
			q, ok := b.Lookup(cat, id)
			if !ok {
				missing = append(missing, string(cat)+"/"+id)
				continue
			}
			resolved[cat] = append(resolved[cat], q)
		}
	}
	if len(missing) > 0 {
		return nil, domain.NewDataIntegrityError(
			"second screening references missing questions: " + strings.Join(missing, ", ")).
			WithContext("missing", missing)
	}
	return resolved, nil
}

// ValidateQuestion normalises a question submitted for insertion and checks
// its invariants. Missing options are generated from the weight; the weight
// itself is taken as given, so zero is reported.
func ValidateQuestion(q domain.Question) (domain.Question, error) {
	q.Text = strings.TrimSpace(q.Text)
	if len(q.Options) == 0 && q.Weight > 0 {
		q.Options = domain.GenerateOptions(q.Weight)
	}
	if err := q.Validate(); err != nil {
		return domain.Question{}, err
	}
	return q, nil
}
