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

const attemptColumns = `id, user_id, quiz_type, answers, total_score, max_score, percentage, result, submitted_at`

// sqlxQuizAttemptRepository implements domain.QuizAttemptRepository using sqlx.
// Attempts are never updated or deleted.
type sqlxQuizAttemptRepository struct {
	db *sqlx.DB
}

func NewSQLXQuizAttemptRepository(db *sqlx.DB) domain.QuizAttemptRepository {
	return &sqlxQuizAttemptRepository{db: db}
}

func toDomainQuizAttempt(m *models.QuizAttempt) *domain.QuizAttempt {
	if m == nil {
		return nil
	}
	answers := m.Answers.V
	if answers == nil {
		answers = []domain.Answer{}
	}
	return &domain.QuizAttempt{
		ID:          m.ID,
		UserID:      m.UserID,
		QuizType:    domain.QuizType(m.QuizType),
		Answers:     answers,
		TotalScore:  m.TotalScore,
		MaxScore:    m.MaxScore,
		Percentage:  m.Percentage,
		Result:      m.Result.V,
		SubmittedAt: m.SubmittedAt,
	}
}

func fromDomainQuizAttempt(a *domain.QuizAttempt) *models.QuizAttempt {
	if a == nil {
		return nil
	}
	return &models.QuizAttempt{
		ID:          a.ID,
		UserID:      a.UserID,
		QuizType:    string(a.QuizType),
		Answers:     models.NewJSON(a.Answers),
		TotalScore:  a.TotalScore,
		MaxScore:    a.MaxScore,
		Percentage:  a.Percentage,
		Result:      models.NewJSON(a.Result),
		SubmittedAt: a.SubmittedAt,
	}
}

func toDomainQuizAttempts(rows []models.QuizAttempt) []domain.QuizAttempt {
	out := make([]domain.QuizAttempt, 0, len(rows))
	for i := range rows {
		out = append(out, *toDomainQuizAttempt(&rows[i]))
	}
	return out
}

// Create inserts a new attempt. Anonymous attempts are rejected.
func (r *sqlxQuizAttemptRepository) Create(ctx context.Context, attempt *domain.QuizAttempt) error {
	if attempt.Anonymous() {
		return domain.NewInvalidInputError("anonymous attempts are not persisted")
	}
	if attempt.ID == "" {
		attempt.ID = util.NewULID()
	}
	if attempt.SubmittedAt.IsZero() {
		attempt.SubmittedAt = time.Now()
	}
	m := fromDomainQuizAttempt(attempt)

	query := `INSERT INTO quiz_attempts (` + attemptColumns + `)
	          VALUES (:1, :2, :3, :4, :5, :6, :7, :8, :9)`
	_, err := GetExecutor(ctx, r.db).ExecContext(ctx, query,
		m.ID, m.UserID, m.QuizType, m.Answers, m.TotalScore, m.MaxScore, m.Percentage, m.Result, m.SubmittedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create quiz attempt: %w", err)
	}
	return nil
}

// GetLatest returns nil, nil when the user has no attempt of type t.
func (r *sqlxQuizAttemptRepository) GetLatest(ctx context.Context, userID string, t domain.QuizType) (*domain.QuizAttempt, error) {
	var row models.QuizAttempt
	query := `SELECT ` + attemptColumns + ` FROM quiz_attempts
	          WHERE user_id = :1 AND quiz_type = :2
	          ORDER BY submitted_at DESC, id DESC
	          FETCH FIRST 1 ROWS ONLY`
	if err := GetExecutor(ctx, r.db).GetContext(ctx, &row, query, userID, string(t)); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get latest quiz attempt: %w", err)
	}
	return toDomainQuizAttempt(&row), nil
}

func (r *sqlxQuizAttemptRepository) ListByUser(ctx context.Context, userID string) ([]domain.QuizAttempt, error) {
	var rows []models.QuizAttempt
	query := `SELECT ` + attemptColumns + ` FROM quiz_attempts
	          WHERE user_id = :1
	          ORDER BY submitted_at DESC, id DESC`
	if err := GetExecutor(ctx, r.db).SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list quiz attempts: %w", err)
	}
	return toDomainQuizAttempts(rows), nil
}

// ListAll pages through every attempt, newest first, using ROW_NUMBER.
func (r *sqlxQuizAttemptRepository) ListAll(ctx context.Context, page domain.Pagination) ([]domain.QuizAttempt, int, error) {
	limit, offset := pageBounds(page.Limit, page.Offset)
	exec := GetExecutor(ctx, r.db)

	innerQuery := `SELECT ` + attemptColumns + `, ROW_NUMBER() OVER (ORDER BY submitted_at DESC, id DESC) AS rn FROM quiz_attempts`
	resultsQuery := fmt.Sprintf(`SELECT `+attemptColumns+` FROM (%s) WHERE rn > :1 AND rn <= :2 ORDER BY rn`, innerQuery)

	var rows []models.QuizAttempt
	if err := exec.SelectContext(ctx, &rows, resultsQuery, offset, offset+limit); err != nil {
		return nil, 0, fmt.Errorf("failed to list all quiz attempts: %w", err)
	}

	var total int
	if err := exec.GetContext(ctx, &total, `SELECT COUNT(*) FROM quiz_attempts`); err != nil {
		return nil, 0, fmt.Errorf("failed to count quiz attempts: %w", err)
	}

	return toDomainQuizAttempts(rows), total, nil
}

// CountAll counts every stored attempt.
func (r *sqlxQuizAttemptRepository) CountAll(ctx context.Context) (int, error) {
	var total int
	if err := GetExecutor(ctx, r.db).GetContext(ctx, &total, `SELECT COUNT(*) FROM quiz_attempts`); err != nil {
		return 0, fmt.Errorf("failed to count quiz attempts: %w", err)
	}
	return total, nil
}
