package handler_test

import (
	"context"
	"errors"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dysscreen/internal/domain"
	"dysscreen/internal/dto"
)

func TestGameRoutes(t *testing.T) {
	s := newTestServer()
	s.games.SaveResultFunc = func(ctx context.Context, userID string, req dto.GameResultRequest) (*dto.GameResultResponse, error) {
		assert.Equal(t, "user-1", userID)
		return &dto.GameResultResponse{ID: "g1", DisabilityType: req.DisabilityType, ActivityType: req.ActivityType, Score: req.Score}, nil
	}
	s.games.ListResultsFunc = func(ctx context.Context, userID, disability string) ([]dto.GameResultResponse, error) {
		return []dto.GameResultResponse{{ID: "g1", DisabilityType: disability}}, nil
	}
	s.games.LeaderboardFunc = func(ctx context.Context, disability, activity string, limit int) (*dto.LeaderboardResponse, error) {
		assert.Equal(t, 5, limit)
		return &dto.LeaderboardResponse{
			DisabilityType: disability,
			ActivityType:   activity,
			Entries:        []dto.LeaderboardEntryResponse{{Rank: 1, UserID: "u9", BestScore: 98}},
		}, nil
	}

	req := dto.GameResultRequest{DisabilityType: "dyslexia", ActivityType: "letter-match", Score: 12, Completed: true}
	status, _ := s.do(t, fiber.MethodPost, "/api/game-results", "", req)
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, body := s.do(t, fiber.MethodPost, "/api/game-results", "user-token", req)
	require.Equal(t, fiber.StatusCreated, status)
	assert.Equal(t, "letter-match", decode[dto.GameResultResponse](t, body).ActivityType)

	status, body = s.do(t, fiber.MethodGet, "/api/game-results/dyslexia", "user-token", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Len(t, decode[[]dto.GameResultResponse](t, body), 1)

	status, body = s.do(t, fiber.MethodGet, "/api/leaderboard/dyslexia/letter-match?limit=5", "", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, 98.0, decode[dto.LeaderboardResponse](t, body).Entries[0].BestScore)

	status, _ = s.do(t, fiber.MethodGet, "/api/leaderboard/dyslexia/letter-match?limit=1000", "", nil)
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestContentRoutes(t *testing.T) {
	s := newTestServer()
	s.content.GetFunc = func(ctx context.Context, disability string) (*dto.DisabilityContentResponse, error) {
		if disability != "dyscalculia" {
			return nil, domain.NewNotFoundError("invalid disability")
		}
		return &dto.DisabilityContentResponse{DisabilityType: disability, Title: "Dyscalculia"}, nil
	}
	s.content.UpdateFunc = func(ctx context.Context, disability string, req dto.DisabilityContentRequest) (*dto.DisabilityContentResponse, error) {
		return &dto.DisabilityContentResponse{DisabilityType: disability, Title: req.Title, Signs: req.Signs}, nil
	}

	status, body := s.do(t, fiber.MethodGet, "/api/disability/dyscalculia", "", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "Dyscalculia", decode[dto.DisabilityContentResponse](t, body).Title)

	status, _ = s.do(t, fiber.MethodGet, "/api/disability/general", "", nil)
	assert.Equal(t, fiber.StatusNotFound, status)

	update := dto.DisabilityContentRequest{Title: "Dyslexia", Signs: []string{"Slow reading"}}
	status, _ = s.do(t, fiber.MethodPut, "/api/admin/disability/dyslexia", "user-token", update)
	assert.Equal(t, fiber.StatusForbidden, status)

	status, body = s.do(t, fiber.MethodPut, "/api/admin/disability/dyslexia", "admin-token", update)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, []string{"Slow reading"}, decode[dto.DisabilityContentResponse](t, body).Signs)
}

func TestChat(t *testing.T) {
	s := newTestServer()
	s.chat.ReplyFunc = func(ctx context.Context, req dto.ChatRequest) (*dto.ChatResponse, error) {
		if req.Disability == "offline" {
			return nil, domain.NewLLMServiceError(errors.New("connection refused"))
		}
		return &dto.ChatResponse{Message: domain.ChatMessage{Role: "assistant", Content: "Try a reading ruler."}}, nil
	}
	req := dto.ChatRequest{Disability: "dyslexia", Messages: []domain.ChatMessage{{Role: "user", Content: "Any tips?"}}}

	status, body := s.do(t, fiber.MethodPost, "/api/chat", "", req)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "Try a reading ruler.", decode[dto.ChatResponse](t, body).Message.Content)

	req.Disability = "offline"
	status, body = s.do(t, fiber.MethodPost, "/api/chat", "", req)
	assert.Equal(t, fiber.StatusServiceUnavailable, status)
	assert.Equal(t, string(domain.CodeLLMServiceError), errorCode(t, body))
}

func TestHealth(t *testing.T) {
	s := newTestServer()
	healthy := true
	s.health.CheckFunc = func(ctx context.Context) *dto.HealthResponse {
		if healthy {
			return &dto.HealthResponse{Status: "ok", Services: map[string]string{"database": "up", "redis": "up"}}
		}
		return &dto.HealthResponse{Status: "degraded", Services: map[string]string{"database": "down", "redis": "up"}}
	}

	status, body := s.do(t, fiber.MethodGet, "/api/health", "", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "ok", decode[dto.HealthResponse](t, body).Status)

	healthy = false
	status, body = s.do(t, fiber.MethodGet, "/api/health", "", nil)
	assert.Equal(t, fiber.StatusServiceUnavailable, status)
	assert.Equal(t, "down", decode[dto.HealthResponse](t, body).Services["database"])
}
