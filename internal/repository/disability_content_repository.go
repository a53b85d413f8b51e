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

type sqlxDisabilityContentRepository struct {
	db *sqlx.DB
}

func NewSQLXDisabilityContentRepository(db *sqlx.DB) domain.DisabilityContentRepository {
	return &sqlxDisabilityContentRepository{db: db}
}

// Get returns nil, nil when no content was seeded for t.
func (r *sqlxDisabilityContentRepository) Get(ctx context.Context, t domain.QuizType) (*domain.DisabilityContent, error) {
	var row models.DisabilityContent
	query := `SELECT disability_type, title, description, signs, strategies, resources, updated_at
	          FROM disability_content WHERE disability_type = :1`
	if err := GetExecutor(ctx, r.db).GetContext(ctx, &row, query, string(t)); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get disability content: %w", err)
	}
	resources := row.Resources.V
	if resources == nil {
		resources = []domain.Resource{}
	}
	return &domain.DisabilityContent{
		DisabilityType: domain.QuizType(row.DisabilityType),
		Title:          row.Title,
		Description:    row.Description.String,
		Signs:          row.Signs,
		Strategies:     row.Strategies,
		Resources:      resources,
		UpdatedAt:      row.UpdatedAt,
	}, nil
}

func (r *sqlxDisabilityContentRepository) Upsert(ctx context.Context, c *domain.DisabilityContent) error {
	c.UpdatedAt = time.Now()
	signs := models.StringSlice(c.Signs)
	strategies := models.StringSlice(c.Strategies)
	resources := models.NewJSON(c.Resources)
	description := util.StringToNullString(c.Description)

	query := `MERGE INTO disability_content d
	          USING (SELECT :1 AS disability_type FROM dual) s ON (d.disability_type = s.disability_type)
	          WHEN MATCHED THEN UPDATE SET d.title = :2, d.description = :3, d.signs = :4, d.strategies = :5, d.resources = :6, d.updated_at = :7
	          WHEN NOT MATCHED THEN INSERT (disability_type, title, description, signs, strategies, resources, updated_at)
	               VALUES (:8, :9, :10, :11, :12, :13, :14)`
	_, err := GetExecutor(ctx, r.db).ExecContext(ctx, query,
		string(c.DisabilityType),
		c.Title, description, signs, strategies, resources, c.UpdatedAt,
		string(c.DisabilityType), c.Title, description, signs, strategies, resources, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert disability content: %w", err)
	}
	return nil
}
