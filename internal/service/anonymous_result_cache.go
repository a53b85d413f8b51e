package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"dysscreen/internal/cache"
	"dysscreen/internal/domain"
	"dysscreen/internal/dto"
	"dysscreen/internal/logger"
	"dysscreen/internal/util"

	"go.uber.org/zap"
)

// ErrAnonymousResultNotFound is returned when a transient result expired or never existed.
var ErrAnonymousResultNotFound = domain.NewNotFoundError("anonymous result not found or expired")

// AnonymousResultCacheService keeps results of anonymous attempts for a
// limited time. They are never written to the database.
type AnonymousResultCacheService interface {
	// Put stores result under a fresh token and returns the token.
	Put(ctx context.Context, result *dto.QuizResultResponse) (string, error)
	Get(ctx context.Context, token string) (*dto.QuizResultResponse, error)
}

type anonymousResultCacheServiceImpl struct {
	cache   domain.Cache
	ttl     time.Duration
	timeout time.Duration
}

// NewAnonymousResultCacheService falls back to a no-op store when cache is nil.
func NewAnonymousResultCacheService(c domain.Cache, ttl, timeout time.Duration) AnonymousResultCacheService {
	if c == nil {
		logger.Get().Warn("AnonymousResultCacheService initialized with nil cache. Anonymous results will not be retrievable.")
		return &noopAnonymousResultCacheService{}
	}
	return &anonymousResultCacheServiceImpl{cache: c, ttl: ttl, timeout: timeout}
}

func (s *anonymousResultCacheServiceImpl) Put(ctx context.Context, result *dto.QuizResultResponse) (string, error) {
	if result == nil {
		return "", domain.NewInvalidInputError("cannot cache nil result")
	}

	token := util.NewULID()
	result.Token = token
	result.Transient = true

	dataBytes, err := json.Marshal(result)
	if err != nil {
		return "", domain.NewInternalError("failed to marshal result for caching", err)
	}

	key := cache.AnonymousResultKey(token)
	ctx, cancel := bounded(ctx, s.timeout)
	defer cancel()
	if err := s.cache.Set(ctx, key, string(dataBytes), s.ttl); err != nil {
		logger.Get().Error("Failed to cache anonymous result", zap.Error(err), zap.String("key", key))
		return "", domain.NewNetworkFailureError(fmt.Sprintf("failed to store anonymous result %s", token), err)
	}
	logger.Get().Debug("Cached anonymous result", zap.String("key", key), zap.Duration("ttl", s.ttl))
	return token, nil
}

func (s *anonymousResultCacheServiceImpl) Get(ctx context.Context, token string) (*dto.QuizResultResponse, error) {
	if !util.IsULID(token) {
		return nil, domain.ValidationErrors{domain.NewInvalidFormatError("token", token)}
	}
	key := cache.AnonymousResultKey(token)
	ctx, cancel := bounded(ctx, s.timeout)
	defer cancel()
	dataString, err := s.cache.Get(ctx, key)
	if err != nil {
		if errors.Is(err, domain.ErrCacheMiss) {
			return nil, ErrAnonymousResultNotFound
		}
		logger.Get().Error("Failed to get anonymous result from cache", zap.Error(err), zap.String("key", key))
		return nil, domain.NewNetworkFailureError(fmt.Sprintf("failed to read anonymous result %s", token), err)
	}
	if dataString == "" {
		return nil, ErrAnonymousResultNotFound
	}

	var result dto.QuizResultResponse
	if err := json.Unmarshal([]byte(dataString), &result); err != nil {
		logger.Get().Error("Failed to unmarshal anonymous result", zap.Error(err), zap.String("key", key))
		return nil, domain.NewInternalError("failed to decode cached anonymous result", err)
	}
	return &result, nil
}

type noopAnonymousResultCacheService struct{}

func (s *noopAnonymousResultCacheService) Put(ctx context.Context, result *dto.QuizResultResponse) (string, error) {
	if result == nil {
		return "", domain.NewInvalidInputError("cannot cache nil result")
	}
	result.Transient = true
	return "", nil
}

func (s *noopAnonymousResultCacheService) Get(ctx context.Context, token string) (*dto.QuizResultResponse, error) {
	return nil, ErrAnonymousResultNotFound
}
