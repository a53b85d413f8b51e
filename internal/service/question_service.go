package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dysscreen/internal/adapter"
	"dysscreen/internal/cache"
	"dysscreen/internal/domain"
	"dysscreen/internal/dto"
	"dysscreen/internal/logger"
	"dysscreen/internal/screening"

	"go.uber.org/zap"
)

// QuestionService serves the question bank and its admin operations.
type QuestionService interface {
	// GetQuestions returns the ordered questions of quizType for display.
	GetQuestions(ctx context.Context, quizType string) (*dto.QuestionListResponse, error)
	// Questions is the cached domain view used by scoring.
	Questions(ctx context.Context, t domain.QuizType) ([]domain.Question, error)
	ListAll(ctx context.Context) ([]dto.QuestionResponse, error)
	CreateQuestion(ctx context.Context, req dto.QuestionRequest) (*dto.QuestionResponse, error)
	UpdateQuestion(ctx context.Context, quizType, id string, req dto.QuestionRequest) (*dto.QuestionResponse, error)
	DeleteQuestion(ctx context.Context, quizType, id string) error
	CountByType(ctx context.Context) (map[domain.QuizType]int, error)
	// ImportQuestions validates and appends qs in one transaction.
	ImportQuestions(ctx context.Context, qs []domain.Question) (int, error)
}

type questionService struct {
	repo    domain.QuestionRepository
	tm      domain.TransactionManager
	cache   domain.Cache
	ttl     time.Duration
	timeout time.Duration
}

// NewQuestionService creates a question service. cache may be nil.
func NewQuestionService(repo domain.QuestionRepository, tm domain.TransactionManager, c domain.Cache, ttl, timeout time.Duration) QuestionService {
	return &questionService{repo: repo, tm: tm, cache: c, ttl: ttl, timeout: timeout}
}

func (s *questionService) GetQuestions(ctx context.Context, quizType string) (*dto.QuestionListResponse, error) {
	t, err := domain.ParseQuizType(quizType)
	if err != nil {
		return nil, err
	}
	qs, err := s.Questions(ctx, t)
	if err != nil {
		return nil, err
	}
	bank := screening.NewBank(qs)
	ordered, err := bank.GetQuestions(t)
	if err != nil {
		return nil, err
	}
	summary, err := screening.Score(nil, ordered)
	if err != nil {
		return nil, err
	}
	return &dto.QuestionListResponse{
		QuizType:  string(t),
		MaxScore:  summary.MaxScore,
		Questions: dto.NewQuestionResponses(ordered),
	}, nil
}

func (s *questionService) Questions(ctx context.Context, t domain.QuizType) ([]domain.Question, error) {
	key := cache.QuestionsKey(string(t))
	if s.cache != nil {
		var cached []domain.Question
		cacheCtx, cancel := bounded(ctx, s.timeout)
		err := adapter.GetJSON(cacheCtx, s.cache, key, &cached)
		cancel()
		switch {
		case err == nil:
			return cached, nil
		case !errors.Is(err, domain.ErrCacheMiss):
			logger.Get().Warn("question cache read failed", zap.String("key", key), zap.Error(err))
		}
	}

	ctx, cancel := bounded(ctx, s.timeout)
	defer cancel()
	qs, err := s.repo.ListByType(ctx, t)
	if err != nil {
		return nil, persistenceError("load questions", err)
	}

	if s.cache != nil {
		if err := adapter.SetJSON(ctx, s.cache, key, qs, s.ttl); err != nil {
			logger.Get().Warn("question cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return qs, nil
}

func (s *questionService) ListAll(ctx context.Context) ([]dto.QuestionResponse, error) {
	ctx, cancel := bounded(ctx, s.timeout)
	defer cancel()
	qs, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, persistenceError("list questions", err)
	}
	return dto.NewQuestionResponses(qs), nil
}

func (s *questionService) CreateQuestion(ctx context.Context, req dto.QuestionRequest) (*dto.QuestionResponse, error) {
	t, err := domain.ParseQuizType(req.QuizType)
	if err != nil {
		return nil, domain.ValidationErrors{domain.NewInvalidFormatError("quiz_type", req.QuizType)}
	}
	q, err := screening.ValidateQuestion(domain.Question{
		QuizType: t,
		Text:     req.Text,
		Weight:   req.QuestionWeight(),
		Options:  dto.ToDomainOptions(req.Options),
	})
	if err != nil {
		return nil, err
	}

	ctx, cancel := bounded(ctx, s.timeout)
	defer cancel()
	if err := s.repo.Create(ctx, &q); err != nil {
		return nil, persistenceError("create question", err)
	}
	s.invalidate(ctx, t)

	logger.Get().Info("question created", zap.String("quiz_type", string(t)), zap.String("id", q.ID))
	resp := dto.NewQuestionResponse(q)
	return &resp, nil
}

// UpdateQuestion rewrites text, weight and options. The id and position are
// stable across edits.
func (s *questionService) UpdateQuestion(ctx context.Context, quizType, id string, req dto.QuestionRequest) (*dto.QuestionResponse, error) {
	t, err := domain.ParseQuizType(quizType)
	if err != nil {
		return nil, err
	}
	if req.QuizType != "" && domain.QuizType(req.QuizType) != t {
		return nil, domain.NewInvalidInputError("quiz_type of a question cannot be changed")
	}

	ctx, cancel := bounded(ctx, s.timeout)
	defer cancel()
	existing, err := s.repo.GetByID(ctx, t, id)
	if err != nil {
		return nil, persistenceError("get question", err)
	}
	if existing == nil {
		return nil, domain.NewNotFoundError(fmt.Sprintf("question %s/%s not found", t, id))
	}

	q, err := screening.ValidateQuestion(domain.Question{
		ID:        existing.ID,
		QuizType:  t,
		Text:      req.Text,
		Weight:    req.QuestionWeight(),
		Options:   dto.ToDomainOptions(req.Options),
		Position:  existing.Position,
		CreatedAt: existing.CreatedAt,
	})
	if err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, &q); err != nil {
		return nil, persistenceError("update question", err)
	}
	s.invalidate(ctx, t)

	resp := dto.NewQuestionResponse(q)
	return &resp, nil
}

func (s *questionService) DeleteQuestion(ctx context.Context, quizType, id string) error {
	t, err := domain.ParseQuizType(quizType)
	if err != nil {
		return err
	}
	ctx, cancel := bounded(ctx, s.timeout)
	defer cancel()
	if err := s.repo.Delete(ctx, t, id); err != nil {
		return persistenceError("delete question", err)
	}
	s.invalidate(ctx, t)
	logger.Get().Info("question deleted", zap.String("quiz_type", string(t)), zap.String("id", id))
	return nil
}

func (s *questionService) CountByType(ctx context.Context) (map[domain.QuizType]int, error) {
	ctx, cancel := bounded(ctx, s.timeout)
	defer cancel()
	counts, err := s.repo.CountByType(ctx)
	if err != nil {
		return nil, persistenceError("count questions", err)
	}
	return counts, nil
}

func (s *questionService) ImportQuestions(ctx context.Context, qs []domain.Question) (int, error) {
	valid := make([]domain.Question, 0, len(qs))
	var errs domain.ValidationErrors
	for i, q := range qs {
		v, err := screening.ValidateQuestion(q)
		if err != nil {
			var vErrs domain.ValidationErrors
			if errors.As(err, &vErrs) {
				for _, e := range vErrs {
					e.Field = fmt.Sprintf("questions[%d].%s", i, e.Field)
					errs = append(errs, e)
				}
				continue
			}
			return 0, err
		}
		valid = append(valid, v)
	}
	if err := errs.OrNil(); err != nil {
		return 0, err
	}

	touched := make(map[domain.QuizType]struct{})
	err := s.tm.WithTransaction(ctx, func(txCtx context.Context) error {
		for i := range valid {
			if err := s.repo.Create(txCtx, &valid[i]); err != nil {
				return err
			}
			touched[valid[i].QuizType] = struct{}{}
		}
		return nil
	})
	if err != nil {
		return 0, persistenceError("import questions", err)
	}
	for t := range touched {
		s.invalidate(ctx, t)
	}
	return len(valid), nil
}

func (s *questionService) invalidate(ctx context.Context, t domain.QuizType) {
	if s.cache == nil {
		return
	}
	ctx, cancel := bounded(ctx, s.timeout)
	defer cancel()
	if err := s.cache.Delete(ctx, cache.QuestionsKey(string(t))); err != nil {
		logger.Get().Warn("question cache invalidation failed", zap.String("quiz_type", string(t)), zap.Error(err))
	}
}
