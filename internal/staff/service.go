package staff

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/vialuxe/transfer-booking/pkg/common"
	"github.com/vialuxe/transfer-booking/pkg/config"
	"github.com/vialuxe/transfer-booking/pkg/logger"
	"github.com/vialuxe/transfer-booking/pkg/middleware"
)

// UserSource looks up staff accounts for authentication
type UserSource interface {
	GetByEmail(ctx context.Context, email string) (*User, error)
}

// Service handles staff authentication
type Service struct {
	users UserSource
	jwt   config.JWTConfig
	now   func() time.Time
}

// NewService creates a new staff service
func NewService(users UserSource, jwtCfg config.JWTConfig) *Service {
	return &Service{users: users, jwt: jwtCfg, now: time.Now}
}

// Login verifies credentials and issues a signed token. Unknown accounts and
// wrong passwords return the same error so the response does not leak which
// emails exist.
func (s *Service) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, common.NewUnauthorizedError("invalid email or password")
		}
		logger.WithContext(ctx).Error("Failed to look up staff user", zap.Error(err))
		return nil, common.NewInternalServerError("login failed")
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return nil, common.NewUnauthorizedError("invalid email or password")
	}

	expiresAt := s.now().Add(time.Duration(s.jwt.Expiration) * time.Hour)
	claims := &middleware.StaffClaims{
		StaffID: user.ID.String(),
		Email:   user.Email,
		Role:    user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(s.now()),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.jwt.Secret))
	if err != nil {
		logger.WithContext(ctx).Error("Failed to sign staff token", zap.Error(err))
		return nil, common.NewInternalServerError("login failed")
	}

	return &LoginResponse{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

// HashPassword hashes a password for storage
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
