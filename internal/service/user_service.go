package service

import (
	"context"
	"fmt"
	"time"

	"dysscreen/internal/domain"
	"dysscreen/internal/dto"
)

// UserService defines the interface for user-related operations.
type UserService interface {
	GetUserProfile(ctx context.Context, userID string) (*dto.UserProfileResponse, error)
	// ListUsers returns every account for the admin view.
	ListUsers(ctx context.Context) ([]dto.UserProfileResponse, error)
}

type userServiceImpl struct {
	userRepo domain.UserRepository
	timeout  time.Duration
}

// NewUserService creates a new instance of UserService.
func NewUserService(userRepo domain.UserRepository, timeout time.Duration) UserService {
	return &userServiceImpl{userRepo: userRepo, timeout: timeout}
}

// GetUserProfile retrieves a user's profile information.
func (s *userServiceImpl) GetUserProfile(ctx context.Context, userID string) (*dto.UserProfileResponse, error) {
	ctx, cancel := bounded(ctx, s.timeout)
	defer cancel()
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, persistenceError("get user", err)
	}
	if user == nil {
		return nil, domain.NewNotFoundError(fmt.Sprintf("user %s not found", userID))
	}
	profile := newUserProfile(user)
	return &profile, nil
}

func (s *userServiceImpl) ListUsers(ctx context.Context) ([]dto.UserProfileResponse, error) {
	ctx, cancel := bounded(ctx, s.timeout)
	defer cancel()
	users, err := s.userRepo.ListUsers(ctx)
	if err != nil {
		return nil, persistenceError("list users", err)
	}
	out := make([]dto.UserProfileResponse, len(users))
	for i := range users {
		out[i] = newUserProfile(&users[i])
	}
	return out, nil
}
