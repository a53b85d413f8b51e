package handler_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"dysscreen/internal/handler"
	"dysscreen/internal/middleware"
)

type testServer struct {
	app       *fiber.App
	auth      *MockAuthService
	users     *MockUserService
	questions *MockQuestionService
	configs   *MockScreeningConfigService
	results   *MockResultService
	sessions  *MockSessionService
	games     *MockGameService
	content   *MockContentService
	chat      *MockChatService
	admin     *MockAdminService
	health    *MockHealthService
}

func newTestServer() *testServer {
	s := &testServer{
		auth:      &MockAuthService{},
		users:     &MockUserService{},
		questions: &MockQuestionService{},
		configs:   &MockScreeningConfigService{},
		results:   &MockResultService{},
		sessions:  &MockSessionService{},
		games:     &MockGameService{},
		content:   &MockContentService{},
		chat:      &MockChatService{},
		admin:     &MockAdminService{},
		health:    &MockHealthService{},
	}
	s.app = fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler()})
	handler.RegisterRoutes(s.app, handler.Handlers{
		Auth:     handler.NewAuthHandler(s.auth),
		User:     handler.NewUserHandler(s.users),
		Question: handler.NewQuestionHandler(s.questions, s.configs),
		Result:   handler.NewResultHandler(s.results),
		Session:  handler.NewSessionHandler(s.sessions),
		Game:     handler.NewGameHandler(s.games),
		Content:  handler.NewContentHandler(s.content, s.chat),
		Admin:    handler.NewAdminHandler(s.admin, s.results, s.users),
		Health:   handler.NewHealthHandler(s.health),
	}, s.auth)
	return s
}

// do sends body (marshalled when not nil) with an optional bearer token and
// returns the status and the raw response body.
func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) (int, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, ok := body.(string)
		if !ok {
			b, err := json.Marshal(body)
			require.NoError(t, err)
			raw = string(b)
		}
		reader = bytes.NewReader([]byte(raw))
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, out
}

func decode[T any](t *testing.T, body []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(body, &v), string(body))
	return v
}

func errorCode(t *testing.T, body []byte) string {
	t.Helper()
	return decode[middleware.ErrorResponse](t, body).Code
}

