package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"dysscreen/internal/domain"
	"dysscreen/internal/repository/models"

	"github.com/jmoiron/sqlx"
)

// secondScreeningConfigID is the key of the only config row.
const secondScreeningConfigID = 1

type sqlxScreeningConfigRepository struct {
	db *sqlx.DB
}

func NewSQLXScreeningConfigRepository(db *sqlx.DB) domain.ScreeningConfigRepository {
	return &sqlxScreeningConfigRepository{db: db}
}

func toDomainScreeningConfig(m *models.SecondScreeningConfig) *domain.SecondScreeningConfig {
	ids := make(map[domain.QuizType][]string, len(m.QuestionIDs.V))
	for cat, list := range m.QuestionIDs.V {
		ids[domain.QuizType(cat)] = list
	}
	return &domain.SecondScreeningConfig{
		ThresholdPercent:    m.ThresholdPercent,
		SelectedQuestionIDs: ids,
		UpdatedAt:           m.UpdatedAt,
	}
}

// Get returns nil, nil when the admin never saved a config.
func (r *sqlxScreeningConfigRepository) Get(ctx context.Context) (*domain.SecondScreeningConfig, error) {
	var row models.SecondScreeningConfig
	query := `SELECT id, threshold_percent, question_ids, updated_at FROM second_screening_config WHERE id = :1`
	if err := GetExecutor(ctx, r.db).GetContext(ctx, &row, query, secondScreeningConfigID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get second screening config: %w", err)
	}
	return toDomainScreeningConfig(&row), nil
}

// Save replaces the config row.
func (r *sqlxScreeningConfigRepository) Save(ctx context.Context, cfg *domain.SecondScreeningConfig) error {
	ids := make(map[string][]string, len(cfg.SelectedQuestionIDs))
	for cat, list := range cfg.SelectedQuestionIDs {
		ids[string(cat)] = list
	}
	cfg.UpdatedAt = time.Now()

	query := `MERGE INTO second_screening_config c
	          USING (SELECT :1 AS id FROM dual) s ON (c.id = s.id)
	          WHEN MATCHED THEN UPDATE SET c.threshold_percent = :2, c.question_ids = :3, c.updated_at = :4
	          WHEN NOT MATCHED THEN INSERT (id, threshold_percent, question_ids, updated_at) VALUES (:5, :6, :7, :8)`
	questionIDs := models.NewJSON(ids)
	_, err := GetExecutor(ctx, r.db).ExecContext(ctx, query,
		secondScreeningConfigID, cfg.ThresholdPercent, questionIDs, cfg.UpdatedAt,
		secondScreeningConfigID, cfg.ThresholdPercent, questionIDs, cfg.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save second screening config: %w", err)
	}
	return nil
}
