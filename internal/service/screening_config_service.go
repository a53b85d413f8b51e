package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"dysscreen/internal/adapter"
	"dysscreen/internal/cache"
	"dysscreen/internal/domain"
	"dysscreen/internal/dto"
	"dysscreen/internal/logger"
	"dysscreen/internal/screening"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// SecondScreeningSet is the resolved question set of the second screening.
type SecondScreeningSet struct {
	Threshold  int
	Questions  map[domain.QuizType][]domain.Question
	Configured bool
	UpdatedAt  *time.Time
}

// Flatten returns the questions category by category in a stable order.
func (s *SecondScreeningSet) Flatten() []domain.Question {
	var out []domain.Question
	for _, cat := range domain.DisabilityTypes {
		out = append(out, s.Questions[cat]...)
	}
	return out
}

// ScreeningConfigService owns the second screening configuration.
type ScreeningConfigService interface {
	GetSecondScreening(ctx context.Context) (*dto.SecondScreeningResponse, error)
	SecondScreeningSet(ctx context.Context) (*SecondScreeningSet, error)
	SaveSecondScreening(ctx context.Context, req dto.SaveSecondScreeningRequest) (*dto.SecondScreeningResponse, error)
}

type screeningConfigService struct {
	repo             domain.ScreeningConfigRepository
	questions        QuestionService
	cache            domain.Cache
	ttl              time.Duration
	defaultThreshold int
	timeout          time.Duration
}

func NewScreeningConfigService(repo domain.ScreeningConfigRepository, questions QuestionService, c domain.Cache, ttl time.Duration, defaultThreshold int, timeout time.Duration) ScreeningConfigService {
	return &screeningConfigService{
		repo:             repo,
		questions:        questions,
		cache:            c,
		ttl:              ttl,
		defaultThreshold: defaultThreshold,
		timeout:          timeout,
	}
}

func (s *screeningConfigService) GetSecondScreening(ctx context.Context) (*dto.SecondScreeningResponse, error) {
	set, err := s.SecondScreeningSet(ctx)
	if err != nil {
		return nil, err
	}
	return newSecondScreeningResponse(set), nil
}

// SecondScreeningSet resolves the saved config against the current bank.
// Without a saved config every disability question is used with the
// default threshold.
func (s *screeningConfigService) SecondScreeningSet(ctx context.Context) (*SecondScreeningSet, error) {
	cfg, err := s.loadConfig(ctx)
	if err != nil {
		return nil, err
	}

	banks, err := s.loadDisabilityQuestions(ctx)
	if err != nil {
		return nil, err
	}

	if cfg == nil {
		return &SecondScreeningSet{Threshold: s.defaultThreshold, Questions: banks}, nil
	}

	var all []domain.Question
	for _, cat := range domain.DisabilityTypes {
		all = append(all, banks[cat]...)
	}
	resolved, err := screening.NewBank(all).ResolveSecondScreening(cfg)
	if err != nil {
		logger.Get().Error("second screening config does not match the bank", zap.Error(err))
		return nil, err
	}
	updated := cfg.UpdatedAt
	return &SecondScreeningSet{
		Threshold:  cfg.ThresholdPercent,
		Questions:  resolved,
		Configured: true,
		UpdatedAt:  &updated,
	}, nil
}

func (s *screeningConfigService) SaveSecondScreening(ctx context.Context, req dto.SaveSecondScreeningRequest) (*dto.SecondScreeningResponse, error) {
	cfg := &domain.SecondScreeningConfig{
		ThresholdPercent:    req.Threshold,
		SelectedQuestionIDs: make(map[domain.QuizType][]string, len(req.Questions)),
	}
	for cat, ids := range req.Questions {
		cfg.SelectedQuestionIDs[domain.QuizType(cat)] = ids
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	banks, err := s.loadDisabilityQuestions(ctx)
	if err != nil {
		return nil, err
	}
	var all []domain.Question
	for _, cat := range domain.DisabilityTypes {
		all = append(all, banks[cat]...)
	}
	bank := screening.NewBank(all)
	var errs domain.ValidationErrors
	for _, cat := range cfg.Categories() {
		for i, id := range cfg.SelectedQuestionIDs[cat] {
			if _, ok := bank.Lookup(cat, id); !ok {
				errs = append(errs, domain.NewValidationError(
					fmt.Sprintf("questions.%s[%d]", cat, i), "unknown question id "+id))
			}
		}
	}
	if err := errs.OrNil(); err != nil {
		return nil, err
	}

	saveCtx, cancel := bounded(ctx, s.timeout)
	defer cancel()
	if err := s.repo.Save(saveCtx, cfg); err != nil {
		return nil, persistenceError("save second screening config", err)
	}
	if s.cache != nil {
		if err := s.cache.Delete(saveCtx, cache.SecondScreeningKey()); err != nil {
			logger.Get().Warn("second screening cache invalidation failed", zap.Error(err))
		}
	}
	logger.Get().Info("second screening config saved", zap.Int("threshold", cfg.ThresholdPercent))

	resolved, err := bank.ResolveSecondScreening(cfg)
	if err != nil {
		return nil, err
	}
	updated := cfg.UpdatedAt
	return newSecondScreeningResponse(&SecondScreeningSet{
		Threshold:  cfg.ThresholdPercent,
		Questions:  resolved,
		Configured: true,
		UpdatedAt:  &updated,
	}), nil
}

func (s *screeningConfigService) loadConfig(ctx context.Context) (*domain.SecondScreeningConfig, error) {
	key := cache.SecondScreeningKey()
	if s.cache != nil {
		var cached domain.SecondScreeningConfig
		cacheCtx, cancel := bounded(ctx, s.timeout)
		err := adapter.GetJSON(cacheCtx, s.cache, key, &cached)
		cancel()
		switch {
		case err == nil:
			return &cached, nil
		case !errors.Is(err, domain.ErrCacheMiss):
			logger.Get().Warn("second screening cache read failed", zap.Error(err))
		}
	}

	repoCtx, cancel := bounded(ctx, s.timeout)
	defer cancel()
	cfg, err := s.repo.Get(repoCtx)
	if err != nil {
		return nil, persistenceError("load second screening config", err)
	}
	if cfg != nil && s.cache != nil {
		if err := adapter.SetJSON(repoCtx, s.cache, key, cfg, s.ttl); err != nil {
			logger.Get().Warn("second screening cache write failed", zap.Error(err))
		}
	}
	return cfg, nil
}

func (s *screeningConfigService) loadDisabilityQuestions(ctx context.Context) (map[domain.QuizType][]domain.Question, error) {
	var mu sync.Mutex
	banks := make(map[domain.QuizType][]domain.Question, len(domain.DisabilityTypes))

	g, gctx := errgroup.WithContext(ctx)
	for _, cat := range domain.DisabilityTypes {
		cat := cat
		g.Go(func() error {
			qs, err := s.questions.Questions(gctx, cat)
			if err != nil {
				return err
			}
			mu.Lock()
			banks[cat] = qs
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return banks, nil
}

func newSecondScreeningResponse(set *SecondScreeningSet) *dto.SecondScreeningResponse {
	cats := make(map[string][]dto.QuestionResponse, len(set.Questions))
	for cat, qs := range set.Questions {
		cats[string(cat)] = dto.NewQuestionResponses(qs)
	}
	return &dto.SecondScreeningResponse{
		Threshold:  set.Threshold,
		Configured: set.Configured,
		Categories: cats,
		UpdatedAt:  set.UpdatedAt,
	}
}
