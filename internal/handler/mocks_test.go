package handler_test

import (
	"context"

	"dysscreen/internal/domain"
	"dysscreen/internal/dto"
	"dysscreen/internal/screening"
	"dysscreen/internal/service"
)

// --- Manual Mocks ---

type MockAuthService struct {
	RegisterFunc    func(ctx context.Context, req dto.RegisterRequest) (*dto.TokenResponse, error)
	LoginFunc       func(ctx context.Context, req dto.LoginRequest) (*dto.TokenResponse, error)
	ValidateJWTFunc func(ctx context.Context, tokenString string) (*dto.AuthClaims, error)
}

func (m *MockAuthService) Register(ctx context.Context, req dto.RegisterRequest) (*dto.TokenResponse, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, req)
	}
	panic("MockAuthService.RegisterFunc not implemented")
}
func (m *MockAuthService) Login(ctx context.Context, req dto.LoginRequest) (*dto.TokenResponse, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, req)
	}
	panic("MockAuthService.LoginFunc not implemented")
}
func (m *MockAuthService) CreateJWT(user *domain.User) (string, error) {
	panic("MockAuthService.CreateJWT not implemented")
}

// ValidateJWT accepts "user-token" and "admin-token" unless overridden.
func (m *MockAuthService) ValidateJWT(ctx context.Context, tokenString string) (*dto.AuthClaims, error) {
	if m.ValidateJWTFunc != nil {
		return m.ValidateJWTFunc(ctx, tokenString)
	}
	switch tokenString {
	case "user-token":
		return &dto.AuthClaims{UserID: "user-1", Role: string(domain.RoleUser)}, nil
	case "admin-token":
		return &dto.AuthClaims{UserID: "admin-1", Role: string(domain.RoleAdmin)}, nil
	}
	return nil, service.ErrInvalidJWTToken
}

type MockUserService struct {
	GetUserProfileFunc func(ctx context.Context, userID string) (*dto.UserProfileResponse, error)
	ListUsersFunc      func(ctx context.Context) ([]dto.UserProfileResponse, error)
}

func (m *MockUserService) GetUserProfile(ctx context.Context, userID string) (*dto.UserProfileResponse, error) {
	if m.GetUserProfileFunc != nil {
		return m.GetUserProfileFunc(ctx, userID)
	}
	panic("MockUserService.GetUserProfileFunc not implemented")
}
func (m *MockUserService) ListUsers(ctx context.Context) ([]dto.UserProfileResponse, error) {
	if m.ListUsersFunc != nil {
		return m.ListUsersFunc(ctx)
	}
	panic("MockUserService.ListUsersFunc not implemented")
}

type MockQuestionService struct {
	GetQuestionsFunc   func(ctx context.Context, quizType string) (*dto.QuestionListResponse, error)
	ListAllFunc        func(ctx context.Context) ([]dto.QuestionResponse, error)
	CreateQuestionFunc func(ctx context.Context, req dto.QuestionRequest) (*dto.QuestionResponse, error)
	UpdateQuestionFunc func(ctx context.Context, quizType, id string, req dto.QuestionRequest) (*dto.QuestionResponse, error)
	DeleteQuestionFunc func(ctx context.Context, quizType, id string) error
}

func (m *MockQuestionService) GetQuestions(ctx context.Context, quizType string) (*dto.QuestionListResponse, error) {
	if m.GetQuestionsFunc != nil {
		return m.GetQuestionsFunc(ctx, quizType)
	}
	panic("MockQuestionService.GetQuestionsFunc not implemented")
}
func (m *MockQuestionService) Questions(ctx context.Context, t domain.QuizType) ([]domain.Question, error) {
	panic("MockQuestionService.Questions not implemented")
}
func (m *MockQuestionService) ListAll(ctx context.Context) ([]dto.QuestionResponse, error) {
	if m.ListAllFunc != nil {
		return m.ListAllFunc(ctx)
	}
	panic("MockQuestionService.ListAllFunc not implemented")
}
func (m *MockQuestionService) CreateQuestion(ctx context.Context, req dto.QuestionRequest) (*dto.QuestionResponse, error) {
	if m.CreateQuestionFunc != nil {
		return m.CreateQuestionFunc(ctx, req)
	}
	panic("MockQuestionService.CreateQuestionFunc not implemented")
}
func (m *MockQuestionService) UpdateQuestion(ctx context.Context, quizType, id string, req dto.QuestionRequest) (*dto.QuestionResponse, error) {
	if m.UpdateQuestionFunc != nil {
		return m.UpdateQuestionFunc(ctx, quizType, id, req)
	}
	panic("MockQuestionService.UpdateQuestionFunc not implemented")
}
func (m *MockQuestionService) DeleteQuestion(ctx context.Context, quizType, id string) error {
	if m.DeleteQuestionFunc != nil {
		return m.DeleteQuestionFunc(ctx, quizType, id)
	}
	panic("MockQuestionService.DeleteQuestionFunc not implemented")
}
func (m *MockQuestionService) CountByType(ctx context.Context) (map[domain.QuizType]int, error) {
	panic("MockQuestionService.CountByType not implemented")
}
func (m *MockQuestionService) ImportQuestions(ctx context.Context, qs []domain.Question) (int, error) {
	panic("MockQuestionService.ImportQuestions not implemented")
}

type MockScreeningConfigService struct {
	GetSecondScreeningFunc  func(ctx context.Context) (*dto.SecondScreeningResponse, error)
	SaveSecondScreeningFunc func(ctx context.Context, req dto.SaveSecondScreeningRequest) (*dto.SecondScreeningResponse, error)
}

func (m *MockScreeningConfigService) GetSecondScreening(ctx context.Context) (*dto.SecondScreeningResponse, error) {
	if m.GetSecondScreeningFunc != nil {
		return m.GetSecondScreeningFunc(ctx)
	}
	panic("MockScreeningConfigService.GetSecondScreeningFunc not implemented")
}
func (m *MockScreeningConfigService) SecondScreeningSet(ctx context.Context) (*service.SecondScreeningSet, error) {
	panic("MockScreeningConfigService.SecondScreeningSet not implemented")
}
func (m *MockScreeningConfigService) SaveSecondScreening(ctx context.Context, req dto.SaveSecondScreeningRequest) (*dto.SecondScreeningResponse, error) {
	if m.SaveSecondScreeningFunc != nil {
		return m.SaveSecondScreeningFunc(ctx, req)
	}
	panic("MockScreeningConfigService.SaveSecondScreeningFunc not implemented")
}

type MockResultService struct {
	SaveQuizResultFunc func(ctx context.Context, userID string, req dto.SaveQuizResultRequest) (*dto.QuizResultResponse, error)
	GetLatestFunc      func(ctx context.Context, userID, quizType string, forceRetake bool) (*dto.LatestResultResponse, error)
	GetHistoryFunc     func(ctx context.Context, userID string) (*dto.ResultHistoryResponse, error)
	GetAnonymousFunc   func(ctx context.Context, token string) (*dto.QuizResultResponse, error)
	ListAllFunc        func(ctx context.Context, page dto.Pagination) (*dto.AdminResultsResponse, error)
}

func (m *MockResultService) SaveQuizResult(ctx context.Context, userID string, req dto.SaveQuizResultRequest) (*dto.QuizResultResponse, error) {
	if m.SaveQuizResultFunc != nil {
		return m.SaveQuizResultFunc(ctx, userID, req)
	}
	panic("MockResultService.SaveQuizResultFunc not implemented")
}
func (m *MockResultService) Persist(ctx context.Context, out *screening.Outcome) (*dto.QuizResultResponse, error) {
	panic("MockResultService.Persist not implemented")
}
func (m *MockResultService) GetLatest(ctx context.Context, userID, quizType string, forceRetake bool) (*dto.LatestResultResponse, error) {
	if m.GetLatestFunc != nil {
		return m.GetLatestFunc(ctx, userID, quizType, forceRetake)
	}
	panic("MockResultService.GetLatestFunc not implemented")
}
func (m *MockResultService) GetHistory(ctx context.Context, userID string) (*dto.ResultHistoryResponse, error) {
	if m.GetHistoryFunc != nil {
		return m.GetHistoryFunc(ctx, userID)
	}
	panic("MockResultService.GetHistoryFunc not implemented")
}
func (m *MockResultService) GetAnonymous(ctx context.Context, token string) (*dto.QuizResultResponse, error) {
	if m.GetAnonymousFunc != nil {
		return m.GetAnonymousFunc(ctx, token)
	}
	panic("MockResultService.GetAnonymousFunc not implemented")
}
func (m *MockResultService) ListAll(ctx context.Context, page dto.Pagination) (*dto.AdminResultsResponse, error) {
	if m.ListAllFunc != nil {
		return m.ListAllFunc(ctx, page)
	}
	panic("MockResultService.ListAllFunc not implemented")
}

type MockSessionService struct {
	CreateFunc           func(ctx context.Context, userID string) (*dto.SessionResponse, error)
	GetFunc              func(ctx context.Context, sessionID, userID string) (*dto.SessionResponse, error)
	SubmitAnswersFunc    func(ctx context.Context, sessionID, userID string, stage screening.State, req dto.SubmitAnswersRequest) (*dto.StageResultResponse, error)
	RetakeFunc           func(ctx context.Context, sessionID, userID string) (*dto.SessionResponse, error)
	ChooseDisabilityFunc func(ctx context.Context, sessionID, userID string, req dto.ChooseDisabilityRequest) (*dto.SessionResponse, error)
	EnterModeFunc        func(ctx context.Context, sessionID, userID string, req dto.ChooseModeRequest) (*dto.SessionResponse, error)
	FinishFunc           func(ctx context.Context, sessionID, userID string) (*dto.SessionResponse, error)
	DeleteFunc           func(ctx context.Context, sessionID, userID string) error
}

func (m *MockSessionService) Create(ctx context.Context, userID string) (*dto.SessionResponse, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, userID)
	}
	panic("MockSessionService.CreateFunc not implemented")
}
func (m *MockSessionService) Get(ctx context.Context, sessionID, userID string) (*dto.SessionResponse, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, sessionID, userID)
	}
	panic("MockSessionService.GetFunc not implemented")
}
func (m *MockSessionService) SubmitAnswers(ctx context.Context, sessionID, userID string, stage screening.State, req dto.SubmitAnswersRequest) (*dto.StageResultResponse, error) {
	if m.SubmitAnswersFunc != nil {
		return m.SubmitAnswersFunc(ctx, sessionID, userID, stage, req)
	}
	panic("MockSessionService.SubmitAnswersFunc not implemented")
}
func (m *MockSessionService) RetakeSecondScreening(ctx context.Context, sessionID, userID string) (*dto.SessionResponse, error) {
	if m.RetakeFunc != nil {
		return m.RetakeFunc(ctx, sessionID, userID)
	}
	panic("MockSessionService.RetakeFunc not implemented")
}
func (m *MockSessionService) ChooseDisability(ctx context.Context, sessionID, userID string, req dto.ChooseDisabilityRequest) (*dto.SessionResponse, error) {
	if m.ChooseDisabilityFunc != nil {
		return m.ChooseDisabilityFunc(ctx, sessionID, userID, req)
	}
	panic("MockSessionService.ChooseDisabilityFunc not implemented")
}
func (m *MockSessionService) EnterMode(ctx context.Context, sessionID, userID string, req dto.ChooseModeRequest) (*dto.SessionResponse, error) {
	if m.EnterModeFunc != nil {
		return m.EnterModeFunc(ctx, sessionID, userID, req)
	}
	panic("MockSessionService.EnterModeFunc not implemented")
}
func (m *MockSessionService) Finish(ctx context.Context, sessionID, userID string) (*dto.SessionResponse, error) {
	if m.FinishFunc != nil {
		return m.FinishFunc(ctx, sessionID, userID)
	}
	panic("MockSessionService.FinishFunc not implemented")
}
func (m *MockSessionService) Delete(ctx context.Context, sessionID, userID string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, sessionID, userID)
	}
	panic("MockSessionService.DeleteFunc not implemented")
}

type MockGameService struct {
	SaveResultFunc  func(ctx context.Context, userID string, req dto.GameResultRequest) (*dto.GameResultResponse, error)
	ListResultsFunc func(ctx context.Context, userID, disability string) ([]dto.GameResultResponse, error)
	LeaderboardFunc func(ctx context.Context, disability, activity string, limit int) (*dto.LeaderboardResponse, error)
}

func (m *MockGameService) SaveResult(ctx context.Context, userID string, req dto.GameResultRequest) (*dto.GameResultResponse, error) {
	if m.SaveResultFunc != nil {
		return m.SaveResultFunc(ctx, userID, req)
	}
	panic("MockGameService.SaveResultFunc not implemented")
}
func (m *MockGameService) ListResults(ctx context.Context, userID, disability string) ([]dto.GameResultResponse, error) {
	if m.ListResultsFunc != nil {
		return m.ListResultsFunc(ctx, userID, disability)
	}
	panic("MockGameService.ListResultsFunc not implemented")
}
func (m *MockGameService) Leaderboard(ctx context.Context, disability, activity string, limit int) (*dto.LeaderboardResponse, error) {
	if m.LeaderboardFunc != nil {
		return m.LeaderboardFunc(ctx, disability, activity, limit)
	}
	panic("MockGameService.LeaderboardFunc not implemented")
}

type MockContentService struct {
	GetFunc    func(ctx context.Context, disability string) (*dto.DisabilityContentResponse, error)
	UpdateFunc func(ctx context.Context, disability string, req dto.DisabilityContentRequest) (*dto.DisabilityContentResponse, error)
}

func (m *MockContentService) Get(ctx context.Context, disability string) (*dto.DisabilityContentResponse, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, disability)
	}
	panic("MockContentService.GetFunc not implemented")
}
func (m *MockContentService) Update(ctx context.Context, disability string, req dto.DisabilityContentRequest) (*dto.DisabilityContentResponse, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, disability, req)
	}
	panic("MockContentService.UpdateFunc not implemented")
}

type MockChatService struct {
	ReplyFunc func(ctx context.Context, req dto.ChatRequest) (*dto.ChatResponse, error)
}

func (m *MockChatService) Reply(ctx context.Context, req dto.ChatRequest) (*dto.ChatResponse, error) {
	if m.ReplyFunc != nil {
		return m.ReplyFunc(ctx, req)
	}
	panic("MockChatService.ReplyFunc not implemented")
}

type MockAdminService struct {
	OverviewFunc func(ctx context.Context) (*dto.AdminOverviewResponse, error)
}

func (m *MockAdminService) Overview(ctx context.Context) (*dto.AdminOverviewResponse, error) {
	if m.OverviewFunc != nil {
		return m.OverviewFunc(ctx)
	}
	panic("MockAdminService.OverviewFunc not implemented")
}

type MockHealthService struct {
	CheckFunc func(ctx context.Context) *dto.HealthResponse
}

func (m *MockHealthService) Check(ctx context.Context) *dto.HealthResponse {
	if m.CheckFunc != nil {
		return m.CheckFunc(ctx)
	}
	panic("MockHealthService.CheckFunc not implemented")
}
