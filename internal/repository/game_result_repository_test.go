package repository

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"dysscreen/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var gameRowColumns = []string{"ID", "USER_ID", "DISABILITY_TYPE", "ACTIVITY_TYPE", "SCORE", "ATTEMPTS", "COMPLETED", "DATA", "PLAYED_AT"}

func TestSQLXGameResultRepository_Create(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewSQLXGameResultRepository(db)

	attempts := 3
	g := &domain.GameResult{
		UserID:         "user1",
		DisabilityType: domain.QuizTypeDyscalculia,
		ActivityType:   "number_match",
		Score:          80,
		Attempts:       &attempts,
		Completed:      true,
		Data:           json.RawMessage(`{"level":2}`),
	}

	mock.ExpectExec(`INSERT INTO game_results \(id, user_id, disability_type, activity_type, score, attempts, completed, data, played_at\)`).
		WithArgs(sqlmock.AnyArg(), "user1", "dyscalculia", "number_match", 80.0, int64(3), 1, `{"level":2}`, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Create(context.Background(), g))
	assert.NotEmpty(t, g.ID)
	assert.False(t, g.PlayedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLXGameResultRepository_Create_OptionalFields(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewSQLXGameResultRepository(db)

	mock.ExpectExec(`INSERT INTO game_results`).
		WithArgs(sqlmock.AnyArg(), "user1", "dyslexia", "rhymes", 10.0, nil, 0, nil, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Create(context.Background(), &domain.GameResult{
		UserID:         "user1",
		DisabilityType: domain.QuizTypeDyslexia,
		ActivityType:   "rhymes",
		Score:          10,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLXGameResultRepository_ListByUser(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewSQLXGameResultRepository(db)
	now := time.Now()

	mock.ExpectQuery(`FROM game_results\s+WHERE user_id = :1 AND disability_type = :2`).
		WithArgs("user1", "dyslexia").
		WillReturnRows(sqlmock.NewRows(gameRowColumns).
			AddRow("g2", "user1", "dyslexia", "rhymes", 90.0, 2, 1, `{"words":5}`, now).
			AddRow("g1", "user1", "dyslexia", "rhymes", 40.0, nil, 0, nil, now.Add(-time.Hour)))

	results, err := repo.ListByUser(context.Background(), "user1", domain.QuizTypeDyslexia)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.True(t, results[0].Completed)
	require.NotNil(t, results[0].Attempts)
	assert.Equal(t, 2, *results[0].Attempts)
	assert.JSONEq(t, `{"words":5}`, string(results[0].Data))
	assert.False(t, results[1].Completed)
	assert.Nil(t, results[1].Attempts)
	assert.Nil(t, results[1].Data)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLXGameResultRepository_Leaderboard(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewSQLXGameResultRepository(db)
	now := time.Now()

	mock.ExpectQuery(`PARTITION BY g.user_id ORDER BY g.score DESC`).
		WithArgs("dyscalculia", "number_match", 10).
		WillReturnRows(sqlmock.NewRows([]string{"RNK", "USER_ID", "FULL_NAME", "BEST_SCORE", "PLAYED_AT"}).
			AddRow(1, "user2", "Ada", 95.0, now).
			AddRow(2, "user1", nil, 80.0, now))

	entries, err := repo.Leaderboard(context.Background(), domain.QuizTypeDyscalculia, "number_match", 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, "Ada", entries[0].FullName)
	assert.Equal(t, "", entries[1].FullName)
	assert.Equal(t, 80.0, entries[1].BestScore)
	assert.NoError(t, mock.ExpectationsWereMet())
}
