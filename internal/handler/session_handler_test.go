package handler_test

import (
	"context"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dysscreen/internal/domain"
	"dysscreen/internal/dto"
	"dysscreen/internal/screening"
)

const sessionID = "01HSESSION0000000000000000"

func TestCreateSession(t *testing.T) {
	s := newTestServer()
	s.sessions.CreateFunc = func(ctx context.Context, userID string) (*dto.SessionResponse, error) {
		return &dto.SessionResponse{
			Session:   &screening.Session{ID: sessionID, UserID: userID, State: screening.StateQualification},
			Questions: []dto.QuestionResponse{{ID: "q1"}},
			Threshold: 60,
		}, nil
	}

	status, body := s.do(t, fiber.MethodPost, "/api/sessions", "user-token", nil)
	require.Equal(t, fiber.StatusCreated, status)
	resp := decode[dto.SessionResponse](t, body)
	assert.Equal(t, "user-1", resp.Session.UserID)
	assert.Equal(t, screening.StateQualification, resp.Session.State)
	assert.Equal(t, 60.0, resp.Threshold)

	status, body = s.do(t, fiber.MethodPost, "/api/sessions", "", nil)
	require.Equal(t, fiber.StatusCreated, status)
	assert.Empty(t, decode[dto.SessionResponse](t, body).Session.UserID)
}

func TestSubmitStages(t *testing.T) {
	tests := []struct {
		path  string
		stage screening.State
	}{
		{"/qualification", screening.StateQualification},
		{"/second-screening", screening.StateSecondScreening},
		{"/test", screening.StateTest},
	}
	for _, tt := range tests {
		t.Run(string(tt.stage), func(t *testing.T) {
			s := newTestServer()
			s.sessions.SubmitAnswersFunc = func(ctx context.Context, id, userID string, stage screening.State, req dto.SubmitAnswersRequest) (*dto.StageResultResponse, error) {
				assert.Equal(t, sessionID, id)
				assert.Equal(t, "user-1", userID)
				assert.Equal(t, tt.stage, stage)
				assert.Len(t, req.Answers, 2)
				return &dto.StageResultResponse{
					Session: &screening.Session{ID: id, State: screening.StateDisabilityHub},
					Result:  dto.QuizResultResponse{Percentage: 80},
				}, nil
			}

			status, body := s.do(t, fiber.MethodPost, "/api/sessions/"+sessionID+tt.path, "user-token",
				dto.SubmitAnswersRequest{Answers: []dto.AnswerDTO{{QuestionID: "q1", SelectedScore: 4}, {QuestionID: "q2", SelectedScore: 0}}})
			require.Equal(t, fiber.StatusOK, status)
			assert.Equal(t, 80.0, decode[dto.StageResultResponse](t, body).Result.Percentage)
		})
	}
}

func TestSubmitStage_Rejected(t *testing.T) {
	s := newTestServer()
	s.sessions.SubmitAnswersFunc = func(ctx context.Context, id, userID string, stage screening.State, req dto.SubmitAnswersRequest) (*dto.StageResultResponse, error) {
		switch id {
		case "wrong-stage":
			return nil, domain.NewInvalidTransitionError("qualification", "submit_test")
		case "foreign":
			return nil, domain.NewForbiddenError("session belongs to another user")
		}
		return nil, domain.NewIncompleteAnswerError(0)
	}

	status, body := s.do(t, fiber.MethodPost, "/api/sessions/wrong-stage/test", "", dto.SubmitAnswersRequest{})
	assert.Equal(t, fiber.StatusConflict, status)
	assert.Equal(t, string(domain.CodeInvalidTransition), errorCode(t, body))

	status, _ = s.do(t, fiber.MethodPost, "/api/sessions/foreign/qualification", "user-token", dto.SubmitAnswersRequest{})
	assert.Equal(t, fiber.StatusForbidden, status)

	status, _ = s.do(t, fiber.MethodPost, "/api/sessions/"+sessionID+"/qualification", "", dto.SubmitAnswersRequest{})
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)
}

func TestHubNavigation(t *testing.T) {
	s := newTestServer()
	hub := func(state screening.State, disability domain.QuizType) *dto.SessionResponse {
		return &dto.SessionResponse{Session: &screening.Session{ID: sessionID, State: state, Disability: disability}}
	}
	s.sessions.ChooseDisabilityFunc = func(ctx context.Context, id, userID string, req dto.ChooseDisabilityRequest) (*dto.SessionResponse, error) {
		return hub(screening.StateDisabilityHub, domain.QuizType(req.Disability)), nil
	}
	s.sessions.EnterModeFunc = func(ctx context.Context, id, userID string, req dto.ChooseModeRequest) (*dto.SessionResponse, error) {
		if req.Mode != "learn" && req.Mode != "test" {
			return nil, domain.NewInvalidInputError("unknown mode")
		}
		return hub(screening.State(req.Mode), domain.QuizTypeDysgraphia), nil
	}
	s.sessions.FinishFunc = func(ctx context.Context, id, userID string) (*dto.SessionResponse, error) {
		return hub(screening.StateTerminal, domain.QuizTypeDysgraphia), nil
	}
	s.sessions.RetakeFunc = func(ctx context.Context, id, userID string) (*dto.SessionResponse, error) {
		return hub(screening.StateSecondScreening, ""), nil
	}
	base := "/api/sessions/" + sessionID

	status, body := s.do(t, fiber.MethodPost, base+"/disability", "", dto.ChooseDisabilityRequest{Disability: "dysgraphia"})
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, domain.QuizTypeDysgraphia, decode[dto.SessionResponse](t, body).Session.Disability)

	status, body = s.do(t, fiber.MethodPost, base+"/mode", "", dto.ChooseModeRequest{Mode: "learn"})
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, screening.StateLearn, decode[dto.SessionResponse](t, body).Session.State)

	status, _ = s.do(t, fiber.MethodPost, base+"/mode", "", dto.ChooseModeRequest{Mode: "play"})
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, body = s.do(t, fiber.MethodPost, base+"/finish", "", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, screening.StateTerminal, decode[dto.SessionResponse](t, body).Session.State)

	status, body = s.do(t, fiber.MethodPost, base+"/retake", "", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, screening.StateSecondScreening, decode[dto.SessionResponse](t, body).Session.State)
}

func TestGetAndDeleteSession(t *testing.T) {
	s := newTestServer()
	s.sessions.GetFunc = func(ctx context.Context, id, userID string) (*dto.SessionResponse, error) {
		if id != sessionID {
			return nil, domain.NewNotFoundError("session not found or expired")
		}
		return &dto.SessionResponse{Session: &screening.Session{ID: id, State: screening.StateNoDominantIndicator}}, nil
	}
	deleted := ""
	s.sessions.DeleteFunc = func(ctx context.Context, id, userID string) error {
		deleted = id
		return nil
	}

	status, body := s.do(t, fiber.MethodGet, "/api/sessions/"+sessionID, "", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, screening.StateNoDominantIndicator, decode[dto.SessionResponse](t, body).Session.State)

	status, _ = s.do(t, fiber.MethodGet, "/api/sessions/01HOTHER0000000000000000000", "", nil)
	assert.Equal(t, fiber.StatusNotFound, status)

	status, _ = s.do(t, fiber.MethodDelete, "/api/sessions/"+sessionID, "", nil)
	assert.Equal(t, fiber.StatusNoContent, status)
	assert.Equal(t, sessionID, deleted)
}
