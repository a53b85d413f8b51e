package service

import (
	"context"
	"time"

	"dysscreen/internal/domain"
	"dysscreen/internal/dto"
	"dysscreen/internal/logger"
	"dysscreen/internal/util"

	"go.uber.org/zap"
)

const (
	defaultLeaderboardSize = 10
	maxLeaderboardSize     = 100
)

// GameService records plays of the educational games.
type GameService interface {
	SaveResult(ctx context.Context, userID string, req dto.GameResultRequest) (*dto.GameResultResponse, error)
	ListResults(ctx context.Context, userID, disability string) ([]dto.GameResultResponse, error)
	Leaderboard(ctx context.Context, disability, activity string, limit int) (*dto.LeaderboardResponse, error)
}

type gameService struct {
	repo    domain.GameResultRepository
	timeout time.Duration
}

func NewGameService(repo domain.GameResultRepository, timeout time.Duration) GameService {
	return &gameService{repo: repo, timeout: timeout}
}

func (s *gameService) SaveResult(ctx context.Context, userID string, req dto.GameResultRequest) (*dto.GameResultResponse, error) {
	result := &domain.GameResult{
		ID:             util.NewULID(),
		UserID:         userID,
		DisabilityType: domain.QuizType(req.DisabilityType),
		ActivityType:   req.ActivityType,
		Score:          req.Score,
		Attempts:       req.Attempts,
		Completed:      req.Completed,
		Data:           req.Data,
		PlayedAt:       time.Now().UTC(),
	}
	if err := result.Validate(); err != nil {
		return nil, err
	}

	ctx, cancel := bounded(ctx, s.timeout)
	defer cancel()
	if err := s.repo.Create(ctx, result); err != nil {
		return nil, persistenceError("save game result", err)
	}
	logger.Get().Debug("game result saved",
		zap.String("userID", userID),
		zap.String("activity", result.ActivityType),
		zap.Float64("score", result.Score))
	resp := newGameResultResponse(result)
	return &resp, nil
}

func (s *gameService) ListResults(ctx context.Context, userID, disability string) ([]dto.GameResultResponse, error) {
	d, err := domain.ParseDisabilityType(disability)
	if err != nil {
		return nil, err
	}
	ctx, cancel := bounded(ctx, s.timeout)
	defer cancel()
	results, err := s.repo.ListByUser(ctx, userID, d)
	if err != nil {
		return nil, persistenceError("list game results", err)
	}
	out := make([]dto.GameResultResponse, len(results))
	for i := range results {
		out[i] = newGameResultResponse(&results[i])
	}
	return out, nil
}

func (s *gameService) Leaderboard(ctx context.Context, disability, activity string, limit int) (*dto.LeaderboardResponse, error) {
	d, err := domain.ParseDisabilityType(disability)
	if err != nil {
		return nil, err
	}
	if activity == "" {
		return nil, domain.ValidationErrors{domain.NewMissingFieldError("activity")}
	}
	switch {
	case limit <= 0:
		limit = defaultLeaderboardSize
	case limit > maxLeaderboardSize:
		limit = maxLeaderboardSize
	}

	ctx, cancel := bounded(ctx, s.timeout)
	defer cancel()
	entries, err := s.repo.Leaderboard(ctx, d, activity, limit)
	if err != nil {
		return nil, persistenceError("load leaderboard", err)
	}
	resp := &dto.LeaderboardResponse{
		DisabilityType: string(d),
		ActivityType:   activity,
		Entries:        make([]dto.LeaderboardEntryResponse, len(entries)),
	}
	for i, e := range entries {
		resp.Entries[i] = dto.LeaderboardEntryResponse{
			Rank:      e.Rank,
			UserID:    e.UserID,
			FullName:  e.FullName,
			BestScore: e.BestScore,
			PlayedAt:  e.PlayedAt,
		}
	}
	return resp, nil
}

func newGameResultResponse(g *domain.GameResult) dto.GameResultResponse {
	return dto.GameResultResponse{
		ID:             g.ID,
		DisabilityType: string(g.DisabilityType),
		ActivityType:   g.ActivityType,
		Score:          g.Score,
		Attempts:       g.Attempts,
		Completed:      g.Completed,
		Data:           g.Data,
		PlayedAt:       g.PlayedAt,
	}
}
