package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"dysscreen/internal/config"
	"dysscreen/internal/domain"
	"dysscreen/internal/dto"
	"dysscreen/internal/logger"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	tokenTypeBearer   = "Bearer"
	minPasswordLength = 8
	// bcrypt ignores input beyond 72 bytes.
	maxPasswordLength = 72
)

var (
	ErrInvalidJWTToken    = domain.NewUnauthorizedError("invalid or expired token")
	ErrInvalidCredentials = domain.NewUnauthorizedError("invalid email or password")
)

// AuthService defines the interface for authentication operations.
type AuthService interface {
	Register(ctx context.Context, req dto.RegisterRequest) (*dto.TokenResponse, error)
	Login(ctx context.Context, req dto.LoginRequest) (*dto.TokenResponse, error)
	CreateJWT(user *domain.User) (string, error)
	ValidateJWT(ctx context.Context, tokenString string) (*dto.AuthClaims, error)
}

type authServiceImpl struct {
	userRepo  domain.UserRepository
	jwtConfig config.JWTConfig
	timeout   time.Duration
	cost      int
}

// NewAuthService creates a new instance of AuthService.
func NewAuthService(userRepo domain.UserRepository, jwtConfig config.JWTConfig, timeout time.Duration) (AuthService, error) {
	if jwtConfig.SecretKey == "" {
		return nil, errors.New("jwt secret key is not configured")
	}
	if jwtConfig.AccessTTL <= 0 {
		return nil, errors.New("jwt access ttl must be positive")
	}
	return &authServiceImpl{
		userRepo:  userRepo,
		jwtConfig: jwtConfig,
		timeout:   timeout,
		cost:      bcrypt.DefaultCost,
	}, nil
}

func (s *authServiceImpl) Register(ctx context.Context, req dto.RegisterRequest) (*dto.TokenResponse, error) {
	user := domain.NewUser(req.Email, req.FullName)
	var errs domain.ValidationErrors
	if err := user.Validate(); err != nil {
		var vErrs domain.ValidationErrors
		if !errors.As(err, &vErrs) {
			return nil, err
		}
		errs = append(errs, vErrs...)
	}
	if n := len(req.Password); n < minPasswordLength || n > maxPasswordLength {
		errs = append(errs, domain.NewOutOfRangeError("password.length", n, minPasswordLength, maxPasswordLength))
	}
	if err := errs.OrNil(); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost)
	if err != nil {
		return nil, domain.NewInternalError("failed to hash password", err)
	}
	user.PasswordHash = string(hash)

	ctx, cancel := bounded(ctx, s.timeout)
	defer cancel()
	if err := s.userRepo.CreateUser(ctx, user); err != nil {
		return nil, persistenceError("create user", err)
	}
	logger.Get().Info("user registered", zap.String("userID", user.ID))
	return s.issue(user)
}

func (s *authServiceImpl) Login(ctx context.Context, req dto.LoginRequest) (*dto.TokenResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		return nil, ErrInvalidCredentials
	}

	ctx, cancel := bounded(ctx, s.timeout)
	defer cancel()
	user, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, persistenceError("get user by email", err)
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		logger.Get().Info("login rejected", zap.String("userID", user.ID))
		return nil, ErrInvalidCredentials
	}
	return s.issue(user)
}

func (s *authServiceImpl) issue(user *domain.User) (*dto.TokenResponse, error) {
	token, err := s.CreateJWT(user)
	if err != nil {
		return nil, domain.NewInternalError("failed to sign access token", err)
	}
	return &dto.TokenResponse{
		AccessToken: token,
		TokenType:   tokenTypeBearer,
		ExpiresIn:   int64(s.jwtConfig.AccessTTL.Seconds()),
		User:        newUserProfile(user),
	}, nil
}

func (s *authServiceImpl) CreateJWT(user *domain.User) (string, error) {
	now := time.Now()
	claims := dto.AuthClaims{
		UserID: user.ID,
		Role:   string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.jwtConfig.AccessTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Subject:   user.ID,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtConfig.SecretKey))
}

func (s *authServiceImpl) ValidateJWT(ctx context.Context, tokenString string) (*dto.AuthClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &dto.AuthClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtConfig.SecretKey), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			logger.Get().Debug("JWT token expired", zap.Error(err))
		} else {
			logger.Get().Warn("JWT validation failed", zap.Error(err))
		}
		return nil, ErrInvalidJWTToken
	}

	claims, ok := token.Claims.(*dto.AuthClaims)
	if !ok || !token.Valid || claims.UserID == "" {
		return nil, ErrInvalidJWTToken
	}
	return claims, nil
}

func newUserProfile(u *domain.User) dto.UserProfileResponse {
	return dto.UserProfileResponse{
		ID:        u.ID,
		Email:     u.Email,
		FullName:  u.FullName,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
	}
}
