package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"dysscreen/internal/domain"
	"dysscreen/internal/repository/models"
	"dysscreen/internal/util"

	"github.com/jmoiron/sqlx"
)

const questionColumns = `id, quiz_type, question_text, weight, options_json, sort_order, created_at, updated_at, deleted_at`

type sqlxQuestionRepository struct {
	db *sqlx.DB
}

// NewSQLXQuestionRepository creates a question bank repository.
func NewSQLXQuestionRepository(db *sqlx.DB) domain.QuestionRepository {
	return &sqlxQuestionRepository{db: db}
}

func toDomainQuestion(m *models.Question) *domain.Question {
	if m == nil {
		return nil
	}
	return &domain.Question{
		ID:        m.ID,
		QuizType:  domain.QuizType(m.QuizType),
		Text:      m.Text,
		Weight:    m.Weight,
		Options:   m.Options.V,
		Position:  m.SortOrder,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func fromDomainQuestion(q *domain.Question) *models.Question {
	if q == nil {
		return nil
	}
	return &models.Question{
		ID:        q.ID,
		QuizType:  string(q.QuizType),
		Text:      q.Text,
		Weight:    q.Weight,
		Options:   models.NewJSON(q.Options),
		SortOrder: q.Position,
		CreatedAt: q.CreatedAt,
		UpdatedAt: q.UpdatedAt,
	}
}

func toDomainQuestions(rows []models.Question) []domain.Question {
	out := make([]domain.Question, 0, len(rows))
	for i := range rows {
		out = append(out, *toDomainQuestion(&rows[i]))
	}
	return out
}

func (r *sqlxQuestionRepository) ListByType(ctx context.Context, t domain.QuizType) ([]domain.Question, error) {
	var rows []models.Question
	query := `SELECT ` + questionColumns + ` FROM questions
	          WHERE quiz_type = :1 AND deleted_at IS NULL
	          ORDER BY sort_order, id`
	if err := GetExecutor(ctx, r.db).SelectContext(ctx, &rows, query, string(t)); err != nil {
		return nil, fmt.Errorf("failed to list questions for %s: %w", t, err)
	}
	return toDomainQuestions(rows), nil
}

func (r *sqlxQuestionRepository) ListAll(ctx context.Context) ([]domain.Question, error) {
	var rows []models.Question
	query := `SELECT ` + questionColumns + ` FROM questions
	          WHERE deleted_at IS NULL
	          ORDER BY quiz_type, sort_order, id`
	if err := GetExecutor(ctx, r.db).SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}
	return toDomainQuestions(rows), nil
}

// GetByID returns nil, nil for not found.
func (r *sqlxQuestionRepository) GetByID(ctx context.Context, t domain.QuizType, id string) (*domain.Question, error) {
	var row models.Question
	query := `SELECT ` + questionColumns + ` FROM questions
	          WHERE quiz_type = :1 AND id = :2 AND deleted_at IS NULL`
	if err := GetExecutor(ctx, r.db).GetContext(ctx, &row, query, string(t), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get question %s/%s: %w", t, id, err)
	}
	return toDomainQuestion(&row), nil
}

// Create appends q to the end of its quiz type. ID, position and timestamps
// are assigned here and written back to q.
func (r *sqlxQuestionRepository) Create(ctx context.Context, q *domain.Question) error {
	exec := GetExecutor(ctx, r.db)

	var next int
	posQuery := `SELECT NVL(MAX(sort_order), -1) + 1 FROM questions WHERE quiz_type = :1 AND deleted_at IS NULL`
	if err := exec.GetContext(ctx, &next, posQuery, string(q.QuizType)); err != nil {
		return fmt.Errorf("failed to compute question position: %w", err)
	}

	if q.ID == "" {
		q.ID = util.NewULID()
	}
	now := time.Now()
	q.Position = next
	q.CreatedAt = now
	q.UpdatedAt = now
	m := fromDomainQuestion(q)

	query := `INSERT INTO questions (id, quiz_type, question_text, weight, options_json, sort_order, created_at, updated_at)
	          VALUES (:1, :2, :3, :4, :5, :6, :7, :8)`
	_, err := exec.ExecContext(ctx, query,
		m.ID, m.QuizType, m.Text, m.Weight, m.Options, m.SortOrder, m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.NewConflictError(fmt.Sprintf("question %s/%s already exists", q.QuizType, q.ID))
		}
		return fmt.Errorf("failed to create question: %w", err)
	}
	return nil
}

// Update rewrites text, weight and options. The position is kept.
func (r *sqlxQuestionRepository) Update(ctx context.Context, q *domain.Question) error {
	q.UpdatedAt = time.Now()
	m := fromDomainQuestion(q)

	query := `UPDATE questions SET question_text = :1, weight = :2, options_json = :3, updated_at = :4
	          WHERE quiz_type = :5 AND id = :6 AND deleted_at IS NULL`
	result, err := GetExecutor(ctx, r.db).ExecContext(ctx, query,
		m.Text, m.Weight, m.Options, m.UpdatedAt, m.QuizType, m.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update question: %w", err)
	}
	return expectOneRow(result, fmt.Sprintf("question %s/%s not found", q.QuizType, q.ID))
}

// Delete soft-deletes the question so stored attempts keep their references.
func (r *sqlxQuestionRepository) Delete(ctx context.Context, t domain.QuizType, id string) error {
	query := `UPDATE questions SET deleted_at = :1 WHERE quiz_type = :2 AND id = :3 AND deleted_at IS NULL`
	result, err := GetExecutor(ctx, r.db).ExecContext(ctx, query, time.Now(), string(t), id)
	if err != nil {
		return fmt.Errorf("failed to delete question: %w", err)
	}
	return expectOneRow(result, fmt.Sprintf("question %s/%s not found", t, id))
}

func (r *sqlxQuestionRepository) CountByType(ctx context.Context) (map[domain.QuizType]int, error) {
	var rows []models.QuizTypeCount
	query := `SELECT quiz_type, COUNT(*) AS cnt FROM questions WHERE deleted_at IS NULL GROUP BY quiz_type`
	if err := GetExecutor(ctx, r.db).SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to count questions: %w", err)
	}
	counts := make(map[domain.QuizType]int, len(rows))
	for _, row := range rows {
		counts[domain.QuizType(row.QuizType)] = row.Count
	}
	return counts, nil
}

func expectOneRow(result sql.Result, notFound string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return domain.NewNotFoundError(notFound)
	}
	return nil
}
