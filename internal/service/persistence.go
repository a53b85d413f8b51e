package service

import (
	"context"
	"errors"
	"time"

	"dysscreen/internal/domain"
	"dysscreen/internal/logger"

	"go.uber.org/zap"
)

// bounded derives a context limited by d. A non-positive d only adds cancellation.
func bounded(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

// persistenceError normalises a repository or cache failure. Domain and
// validation errors pass through; timeouts and driver failures become a
// retryable NETWORK_FAILURE. Nothing is retried here.
func persistenceError(op string, err error) error {
	if err == nil {
		return nil
	}
	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) {
		return err
	}
	var validationErrs domain.ValidationErrors
	if errors.As(err, &validationErrs) {
		return err
	}
	logger.Get().Error("persistence call failed",
		zap.String("operation", op),
		zap.Bool("timeout", errors.Is(err, context.DeadlineExceeded)),
		zap.Error(err))
	return domain.NewNetworkFailureError(op+" failed", err)
}
