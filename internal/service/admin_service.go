package service

import (
	"context"
	"errors"
	"time"

	"dysscreen/internal/domain"
	"dysscreen/internal/dto"

	"golang.org/x/sync/errgroup"
)

// AdminService aggregates figures for the admin dashboard.
type AdminService interface {
	Overview(ctx context.Context) (*dto.AdminOverviewResponse, error)
}

type adminService struct {
	users     domain.UserRepository
	attempts  domain.QuizAttemptRepository
	questions QuestionService
	configs   ScreeningConfigService
	timeout   time.Duration
}

func NewAdminService(users domain.UserRepository, attempts domain.QuizAttemptRepository, questions QuestionService, configs ScreeningConfigService, timeout time.Duration) AdminService {
	return &adminService{users: users, attempts: attempts, questions: questions, configs: configs, timeout: timeout}
}

// Overview loads every figure concurrently. A second screening config that
// no longer resolves is reported, not returned as an error.
func (s *adminService) Overview(ctx context.Context) (*dto.AdminOverviewResponse, error) {
	resp := &dto.AdminOverviewResponse{QuestionsPerType: make(map[string]int)}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		c, cancel := bounded(gctx, s.timeout)
		defer cancel()
		n, err := s.users.CountUsers(c)
		if err != nil {
			return persistenceError("count users", err)
		}
		resp.Users = n
		return nil
	})
	g.Go(func() error {
		c, cancel := bounded(gctx, s.timeout)
		defer cancel()
		n, err := s.attempts.CountAll(c)
		if err != nil {
			return persistenceError("count attempts", err)
		}
		resp.Attempts = n
		return nil
	})
	var counts map[domain.QuizType]int
	g.Go(func() error {
		var err error
		counts, err = s.questions.CountByType(gctx)
		return err
	})
	var resolveErr error
	g.Go(func() error {
		_, err := s.configs.SecondScreeningSet(gctx)
		var domainErr *domain.DomainError
		if err != nil && errors.As(err, &domainErr) && domainErr.Code == domain.CodeDataIntegrity {
			resolveErr = err
			return nil
		}
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, t := range domain.AllQuizTypes {
		if t == domain.QuizTypeGeneral {
			continue
		}
		resp.QuestionsPerType[string(t)] = counts[t]
	}
	resp.SecondScreeningOK = resolveErr == nil
	if resolveErr != nil {
		resp.SecondScreeningIssue = resolveErr.Error()
	}
	return resp, nil
}
