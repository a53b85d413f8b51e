package service

import (
	"context"
	"fmt"
	"time"

	"dysscreen/internal/domain"
	"dysscreen/internal/dto"
	"dysscreen/internal/logger"

	"go.uber.org/zap"
)

// ContentService serves the learning material of each disability.
type ContentService interface {
	Get(ctx context.Context, disability string) (*dto.DisabilityContentResponse, error)
	Update(ctx context.Context, disability string, req dto.DisabilityContentRequest) (*dto.DisabilityContentResponse, error)
}

type contentService struct {
	repo    domain.DisabilityContentRepository
	timeout time.Duration
}

func NewContentService(repo domain.DisabilityContentRepository, timeout time.Duration) ContentService {
	return &contentService{repo: repo, timeout: timeout}
}

func (s *contentService) Get(ctx context.Context, disability string) (*dto.DisabilityContentResponse, error) {
	d, err := domain.ParseDisabilityType(disability)
	if err != nil {
		return nil, err
	}
	ctx, cancel := bounded(ctx, s.timeout)
	defer cancel()
	content, err := s.repo.Get(ctx, d)
	if err != nil {
		return nil, persistenceError("load disability content", err)
	}
	if content == nil {
		return nil, domain.NewNotFoundError(fmt.Sprintf("no content for %s", d))
	}
	return newContentResponse(content), nil
}

func (s *contentService) Update(ctx context.Context, disability string, req dto.DisabilityContentRequest) (*dto.DisabilityContentResponse, error) {
	content := &domain.DisabilityContent{
		DisabilityType: domain.QuizType(disability),
		Title:          req.Title,
		Description:    req.Description,
		Signs:          req.Signs,
		Strategies:     req.Strategies,
		Resources:      req.Resources,
	}
	if err := content.Validate(); err != nil {
		return nil, err
	}
	ctx, cancel := bounded(ctx, s.timeout)
	defer cancel()
	if err := s.repo.Upsert(ctx, content); err != nil {
		return nil, persistenceError("save disability content", err)
	}
	logger.Get().Info("disability content updated", zap.String("disability", disability))
	return newContentResponse(content), nil
}

func newContentResponse(c *domain.DisabilityContent) *dto.DisabilityContentResponse {
	return &dto.DisabilityContentResponse{
		DisabilityType: string(c.DisabilityType),
		Title:          c.Title,
		Description:    c.Description,
		Signs:          nonNil(c.Signs),
		Strategies:     nonNil(c.Strategies),
		Resources:      c.Resources,
		UpdatedAt:      c.UpdatedAt,
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
