package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"dysscreen/internal/domain"
	"dysscreen/internal/repository/models"
	"dysscreen/internal/util"

	"github.com/jmoiron/sqlx"
)

const gameResultColumns = `id, user_id, disability_type, activity_type, score, attempts, completed, data, played_at`

type sqlxGameResultRepository struct {
	db *sqlx.DB
}

func NewSQLXGameResultRepository(db *sqlx.DB) domain.GameResultRepository {
	return &sqlxGameResultRepository{db: db}
}

func toDomainGameResult(m *models.GameResult) *domain.GameResult {
	g := &domain.GameResult{
		ID:             m.ID,
		UserID:         m.UserID,
		DisabilityType: domain.QuizType(m.DisabilityType),
		ActivityType:   m.ActivityType,
		Score:          m.Score,
		Attempts:       util.NullInt64ToIntPtr(m.Attempts),
		Completed:      m.Completed != 0,
		PlayedAt:       m.PlayedAt,
	}
	if m.Data.Valid && m.Data.String != "" {
		g.Data = json.RawMessage(m.Data.String)
	}
	return g
}

func (r *sqlxGameResultRepository) Create(ctx context.Context, g *domain.GameResult) error {
	if g.ID == "" {
		g.ID = util.NewULID()
	}
	if g.PlayedAt.IsZero() {
		g.PlayedAt = time.Now()
	}

	query := `INSERT INTO game_results (` + gameResultColumns + `) VALUES (:1, :2, :3, :4, :5, :6, :7, :8, :9)`
	_, err := GetExecutor(ctx, r.db).ExecContext(ctx, query,
		g.ID,
		g.UserID,
		string(g.DisabilityType),
		g.ActivityType,
		g.Score,
		util.IntPtrToNullInt64(g.Attempts),
		util.BoolToNumber(g.Completed),
		util.StringToNullString(string(g.Data)),
		g.PlayedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create game result: %w", err)
	}
	return nil
}

// ListByUser returns the user's plays for one disability, newest first.
func (r *sqlxGameResultRepository) ListByUser(ctx context.Context, userID string, disability domain.QuizType) ([]domain.GameResult, error) {
	var rows []models.GameResult
	query := `SELECT ` + gameResultColumns + ` FROM game_results
	          WHERE user_id = :1 AND disability_type = :2
	          ORDER BY played_at DESC`
	if err := GetExecutor(ctx, r.db).SelectContext(ctx, &rows, query, userID, string(disability)); err != nil {
		return nil, fmt.Errorf("failed to list game results: %w", err)
	}
	out := make([]domain.GameResult, 0, len(rows))
	for i := range rows {
		out = append(out, *toDomainGameResult(&rows[i]))
	}
	return out, nil
}

// Leaderboard ranks users by their best score for one activity. Ties on
// score are broken by who reached it first.
func (r *sqlxGameResultRepository) Leaderboard(ctx context.Context, disability domain.QuizType, activity string, limit int) ([]domain.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	query := `SELECT rnk, user_id, full_name, best_score, played_at FROM (
	            SELECT b.user_id, u.full_name, b.score AS best_score, b.played_at,
	                   ROW_NUMBER() OVER (ORDER BY b.score DESC, b.played_at ASC) AS rnk
	            FROM (
	              SELECT g.user_id, g.score, g.played_at,
	                     ROW_NUMBER() OVER (PARTITION BY g.user_id ORDER BY g.score DESC, g.played_at ASC) AS user_rn
	              FROM game_results g
	              WHERE g.disability_type = :1 AND g.activity_type = :2
	            ) b
	            JOIN users u ON u.id = b.user_id
	            WHERE b.user_rn = 1
	          ) WHERE rnk <= :3
	          ORDER BY rnk`

	var rows []models.LeaderboardRow
	if err := GetExecutor(ctx, r.db).SelectContext(ctx, &rows, query, string(disability), activity, limit); err != nil {
		return nil, fmt.Errorf("failed to load leaderboard: %w", err)
	}
	entries := make([]domain.LeaderboardEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, domain.LeaderboardEntry{
			Rank:      row.Rank,
			UserID:    row.UserID,
			FullName:  row.FullName.String,
			BestScore: row.BestScore,
			PlayedAt:  row.PlayedAt,
		})
	}
	return entries, nil
}
