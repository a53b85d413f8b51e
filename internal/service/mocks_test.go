package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"dysscreen/internal/domain"
	"dysscreen/internal/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- MockQuestionRepository ---
type MockQuestionRepository struct {
	mock.Mock
}

func (m *MockQuestionRepository) ListByType(ctx context.Context, t domain.QuizType) ([]domain.Question, error) {
	args := m.Called(ctx, t)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Question), args.Error(1)
}

func (m *MockQuestionRepository) ListAll(ctx context.Context) ([]domain.Question, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Question), args.Error(1)
}

func (m *MockQuestionRepository) GetByID(ctx context.Context, t domain.QuizType, id string) (*domain.Question, error) {
	args := m.Called(ctx, t, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Question), args.Error(1)
}

func (m *MockQuestionRepository) Create(ctx context.Context, q *domain.Question) error {
	return m.Called(ctx, q).Error(0)
}

func (m *MockQuestionRepository) Update(ctx context.Context, q *domain.Question) error {
	return m.Called(ctx, q).Error(0)
}

func (m *MockQuestionRepository) Delete(ctx context.Context, t domain.QuizType, id string) error {
	return m.Called(ctx, t, id).Error(0)
}

func (m *MockQuestionRepository) CountByType(ctx context.Context) (map[domain.QuizType]int, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[domain.QuizType]int), args.Error(1)
}

// --- MockScreeningConfigRepository ---
type MockScreeningConfigRepository struct {
	mock.Mock
}

func (m *MockScreeningConfigRepository) Get(ctx context.Context) (*domain.SecondScreeningConfig, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SecondScreeningConfig), args.Error(1)
}

func (m *MockScreeningConfigRepository) Save(ctx context.Context, cfg *domain.SecondScreeningConfig) error {
	return m.Called(ctx, cfg).Error(0)
}

// --- MockQuizAttemptRepository ---
type MockQuizAttemptRepository struct {
	mock.Mock
}

func (m *MockQuizAttemptRepository) Create(ctx context.Context, attempt *domain.QuizAttempt) error {
	return m.Called(ctx, attempt).Error(0)
}

func (m *MockQuizAttemptRepository) GetLatest(ctx context.Context, userID string, t domain.QuizType) (*domain.QuizAttempt, error) {
	args := m.Called(ctx, userID, t)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.QuizAttempt), args.Error(1)
}

func (m *MockQuizAttemptRepository) ListByUser(ctx context.Context, userID string) ([]domain.QuizAttempt, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.QuizAttempt), args.Error(1)
}

func (m *MockQuizAttemptRepository) ListAll(ctx context.Context, page domain.Pagination) ([]domain.QuizAttempt, int, error) {
	args := m.Called(ctx, page)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.QuizAttempt), args.Int(1), args.Error(2)
}

func (m *MockQuizAttemptRepository) CountAll(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

// --- MockUserRepository ---
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) CreateUser(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) ListUsers(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *MockUserRepository) CountUsers(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

// --- MockGameResultRepository ---
type MockGameResultRepository struct {
	mock.Mock
}

func (m *MockGameResultRepository) Create(ctx context.Context, result *domain.GameResult) error {
	return m.Called(ctx, result).Error(0)
}

func (m *MockGameResultRepository) ListByUser(ctx context.Context, userID string, disability domain.QuizType) ([]domain.GameResult, error) {
	args := m.Called(ctx, userID, disability)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.GameResult), args.Error(1)
}

func (m *MockGameResultRepository) Leaderboard(ctx context.Context, disability domain.QuizType, activity string, limit int) ([]domain.LeaderboardEntry, error) {
	args := m.Called(ctx, disability, activity, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LeaderboardEntry), args.Error(1)
}

// --- MockDisabilityContentRepository ---
type MockDisabilityContentRepository struct {
	mock.Mock
}

func (m *MockDisabilityContentRepository) Get(ctx context.Context, t domain.QuizType) (*domain.DisabilityContent, error) {
	args := m.Called(ctx, t)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DisabilityContent), args.Error(1)
}

func (m *MockDisabilityContentRepository) Upsert(ctx context.Context, content *domain.DisabilityContent) error {
	return m.Called(ctx, content).Error(0)
}

// --- MockTransactionManager ---
type MockTransactionManager struct {
	mock.Mock
}

// WithTransaction runs fn directly unless an error was configured.
func (m *MockTransactionManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	args := m.Called(ctx)
	if err := args.Error(0); err != nil {
		return err
	}
	return fn(ctx)
}

// --- MockAssistant ---
type MockAssistant struct {
	mock.Mock
}

func (m *MockAssistant) Reply(ctx context.Context, disability domain.QuizType, history []domain.ChatMessage) (string, error) {
	args := m.Called(ctx, disability, history)
	return args.String(0), args.Error(1)
}

// fakeCache is an in-memory domain.Cache. Setting err makes every call fail.
type fakeCache struct {
	mu    sync.Mutex
	items map[string]string
	ttls  map[string]time.Duration
	err   error
	// unbounded counts calls made with a context that carries no deadline.
	unbounded int
}

func newFakeCache() *fakeCache {
	return &fakeCache{items: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (c *fakeCache) Get(ctx context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.observe(ctx)
	if c.err != nil {
		return "", c.err
	}
	v, ok := c.items[key]
	if !ok {
		return "", domain.ErrCacheMiss
	}
	return v, nil
}

func (c *fakeCache) Set(ctx context.Context, key string, value string, expiration time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.observe(ctx)
	if c.err != nil {
		return c.err
	}
	c.items[key] = value
	c.ttls[key] = expiration
	return nil
}

func (c *fakeCache) SetNX(ctx context.Context, key string, value string, expiration time.Duration) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.observe(ctx)
	if c.err != nil {
		return false, c.err
	}
	if _, ok := c.items[key]; ok {
		return false, nil
	}
	c.items[key] = value
	c.ttls[key] = expiration
	return true, nil
}

func (c *fakeCache) Delete(ctx context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.observe(ctx)
	if c.err != nil {
		return c.err
	}
	for _, k := range keys {
		delete(c.items, k)
		delete(c.ttls, k)
	}
	return nil
}

func (c *fakeCache) Ping(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

func (c *fakeCache) observe(ctx context.Context) {
	if _, ok := ctx.Deadline(); !ok {
		c.unbounded++
	}
}

func (c *fakeCache) unboundedCalls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.unbounded
}

func (c *fakeCache) has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.items[key]
	return ok
}

// bankQuestions builds n valid questions of t with generated options
// scored 0, 1, 2 and 3.
func bankQuestions(t domain.QuizType, n int) []domain.Question {
	qs := make([]domain.Question, n)
	for i := range qs {
		q := domain.NewQuestion(t, fmt.Sprintf("%s question %d", t, i+1), 3, nil)
		q.ID = fmt.Sprintf("%s-%d", t, i+1)
		q.Position = i
		qs[i] = *q
	}
	return qs
}

func answersFor(qs []domain.Question, scores ...float64) []dto.AnswerDTO {
	out := make([]dto.AnswerDTO, len(scores))
	for i, s := range scores {
		out[i] = dto.AnswerDTO{QuestionID: qs[i].ID, QuizType: string(qs[i].QuizType), SelectedScore: s}
	}
	return out
}

func assertCode(t *testing.T, err error, code domain.ErrorCode) {
	t.Helper()
	var de *domain.DomainError
	require.True(t, errors.As(err, &de), "expected DomainError, got %v", err)
	assert.Equal(t, code, de.Code)
}

func assertValidation(t *testing.T, err error, field string) {
	t.Helper()
	var errs domain.ValidationErrors
	require.True(t, errors.As(err, &errs), "expected ValidationErrors, got %v", err)
	for _, e := range errs {
		if e.Field == field {
			return
		}
	}
	t.Fatalf("no validation error for %q in %v", field, errs)
}
