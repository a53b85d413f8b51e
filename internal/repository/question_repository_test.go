package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"dysscreen/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var questionRowColumns = []string{"ID", "QUIZ_TYPE", "QUESTION_TEXT", "WEIGHT", "OPTIONS_JSON", "SORT_ORDER", "CREATED_AT", "UPDATED_AT", "DELETED_AT"}

const fourOptionsJSON = `[{"value":1,"label":"Never","score":0},{"value":2,"label":"Sometimes","score":1.33},{"value":3,"label":"Often","score":2.67},{"value":4,"label":"Always","score":4}]`

func TestSQLXQuestionRepository_ListByType(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewSQLXQuestionRepository(db)
	now := time.Now()

	rows := sqlmock.NewRows(questionRowColumns).
		AddRow("q1", "dyslexia", "Do letters swap places?", 4.0, fourOptionsJSON, 0, now, now, nil).
		AddRow("q2", "dyslexia", "Is reading aloud hard?", 4.0, []byte(fourOptionsJSON), 1, now, now, nil)
	mock.ExpectQuery(`SELECT .* FROM questions\s+WHERE quiz_type = :1 AND deleted_at IS NULL\s+ORDER BY sort_order, id`).
		WithArgs("dyslexia").
		WillReturnRows(rows)

	questions, err := repo.ListByType(context.Background(), domain.QuizTypeDyslexia)
	require.NoError(t, err)
	require.Len(t, questions, 2)
	assert.Equal(t, "q1", questions[0].ID)
	assert.Equal(t, domain.QuizTypeDyslexia, questions[0].QuizType)
	assert.Equal(t, 1, questions[1].Position)
	require.Len(t, questions[0].Options, 4)
	assert.Equal(t, 2.67, questions[0].Options[2].Score)
	assert.NoError(t, questions[1].Validate())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLXQuestionRepository_ListByType_Empty(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewSQLXQuestionRepository(db)

	mock.ExpectQuery(`SELECT .* FROM questions`).
		WithArgs("dyscalculia").
		WillReturnRows(sqlmock.NewRows(questionRowColumns))

	questions, err := repo.ListByType(context.Background(), domain.QuizTypeDyscalculia)
	require.NoError(t, err)
	assert.NotNil(t, questions)
	assert.Empty(t, questions)
}

func TestSQLXQuestionRepository_GetByID_NotFound(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewSQLXQuestionRepository(db)

	mock.ExpectQuery(`SELECT .* FROM questions\s+WHERE quiz_type = :1 AND id = :2`).
		WithArgs("dyslexia", "missing").
		WillReturnRows(sqlmock.NewRows(questionRowColumns))

	q, err := repo.GetByID(context.Background(), domain.QuizTypeDyslexia, "missing")
	assert.NoError(t, err)
	assert.Nil(t, q)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLXQuestionRepository_Create_AppendsAtEnd(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewSQLXQuestionRepository(db)

	mock.ExpectQuery(`SELECT NVL\(MAX\(sort_order\), -1\) \+ 1 FROM questions WHERE quiz_type = :1`).
		WithArgs("dysgraphia").
		WillReturnRows(sqlmock.NewRows([]string{"NEXT"}).AddRow(3))
	mock.ExpectExec(`INSERT INTO questions \(id, quiz_type, question_text, weight, options_json, sort_order, created_at, updated_at\)`).
		WithArgs(sqlmock.AnyArg(), "dysgraphia", "Is handwriting slow?", 4.0, fourOptionsJSON, 3, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	q := domain.NewQuestion(domain.QuizTypeDysgraphia, "Is handwriting slow?", 4, nil)
	err := repo.Create(context.Background(), q)
	require.NoError(t, err)
	assert.NotEmpty(t, q.ID)
	assert.Equal(t, 3, q.Position)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLXQuestionRepository_Create_PositionError(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewSQLXQuestionRepository(db)

	mock.ExpectQuery(`SELECT NVL`).WillReturnError(errors.New("ORA-03113: end-of-file on communication channel"))

	err := repo.Create(context.Background(), domain.NewQuestion(domain.QuizTypeDyslexia, "x", 4, nil))
	assert.ErrorContains(t, err, "failed to compute question position")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLXQuestionRepository_Update(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewSQLXQuestionRepository(db)

	q := domain.NewQuestion(domain.QuizTypeDyslexia, "Edited", 4, nil)
	q.ID = "q1"

	mock.ExpectExec(`UPDATE questions SET question_text = :1, weight = :2, options_json = :3, updated_at = :4`).
		WithArgs("Edited", 4.0, fourOptionsJSON, sqlmock.AnyArg(), "dyslexia", "q1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Update(context.Background(), q))

	mock.ExpectExec(`UPDATE questions SET question_text`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	err := repo.Update(context.Background(), q)
	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.CodeNotFound, domainErr.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLXQuestionRepository_Delete_IsSoft(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewSQLXQuestionRepository(db)

	mock.ExpectExec(`UPDATE questions SET deleted_at = :1 WHERE quiz_type = :2 AND id = :3 AND deleted_at IS NULL`).
		WithArgs(sqlmock.AnyArg(), "dyslexia", "q1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Delete(context.Background(), domain.QuizTypeDyslexia, "q1"))

	mock.ExpectExec(`UPDATE questions SET deleted_at`).
		WithArgs(sqlmock.AnyArg(), "dyslexia", "q1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	err := repo.Delete(context.Background(), domain.QuizTypeDyslexia, "q1")
	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.CodeNotFound, domainErr.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLXQuestionRepository_CountByType(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewSQLXQuestionRepository(db)

	mock.ExpectQuery(`SELECT quiz_type, COUNT\(\*\) AS cnt FROM questions`).
		WillReturnRows(sqlmock.NewRows([]string{"QUIZ_TYPE", "CNT"}).
			AddRow("qualification", 10).
			AddRow("dyslexia", 12))

	counts, err := repo.CountByType(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[domain.QuizType]int{
		domain.QuizTypeQualification: 10,
		domain.QuizTypeDyslexia:      12,
	}, counts)
}
