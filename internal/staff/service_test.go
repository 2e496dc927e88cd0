package staff

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vialuxe/transfer-booking/pkg/common"
	"github.com/vialuxe/transfer-booking/pkg/config"
	"github.com/vialuxe/transfer-booking/pkg/middleware"
)

type fakeUserSource struct {
	user *User
	err  error
}

func (f *fakeUserSource) GetByEmail(_ context.Context, _ string) (*User, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.user, nil
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{Secret: "test-secret", Expiration: 24}
}

func activeUser(t *testing.T, password string) *User {
	t.Helper()
	hash, err := HashPassword(password)
	require.NoError(t, err)
	return &User{
		ID:           uuid.New(),
		Email:        "staff@example.com",
		PasswordHash: hash,
		FirstName:    "Nina",
		LastName:     "Ops",
		Role:         RoleManager,
		IsActive:     true,
	}
}

func TestLogin_Success(t *testing.T) {
	user := activeUser(t, "correct horse")
	svc := NewService(&fakeUserSource{user: user}, testJWTConfig())
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	resp, err := svc.Login(context.Background(), &LoginRequest{Email: user.Email, Password: "correct horse"})
	require.NoError(t, err)
	assert.Equal(t, now.Add(24*time.Hour), resp.ExpiresAt)
	assert.Equal(t, user.ID, resp.User.ID)

	claims := &middleware.StaffClaims{}
	token, err := jwt.ParseWithClaims(resp.Token, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	}, jwt.WithTimeFunc(func() time.Time { return now }))
	require.NoError(t, err)
	require.True(t, token.Valid)
	assert.Equal(t, user.ID.String(), claims.StaffID)
	assert.Equal(t, RoleManager, claims.Role)
}

func TestLogin_WrongPassword(t *testing.T) {
	user := activeUser(t, "correct horse")
	svc := NewService(&fakeUserSource{user: user}, testJWTConfig())

	_, err := svc.Login(context.Background(), &LoginRequest{Email: user.Email, Password: "battery staple"})
	require.Error(t, err)

	appErr, ok := err.(*common.AppError)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, appErr.Code)
}

func TestLogin_UnknownEmailLooksLikeWrongPassword(t *testing.T) {
	svc := NewService(&fakeUserSource{err: ErrNotFound}, testJWTConfig())

	_, err := svc.Login(context.Background(), &LoginRequest{Email: "ghost@example.com", Password: "anything"})
	require.Error(t, err)

	appErr, ok := err.(*common.AppError)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, appErr.Code)
	assert.Equal(t, "invalid email or password", appErr.Message)
}

func TestLogin_LookupFailure(t *testing.T) {
	svc := NewService(&fakeUserSource{err: errors.New("connection refused")}, testJWTConfig())

	_, err := svc.Login(context.Background(), &LoginRequest{Email: "staff@example.com", Password: "x"})
	require.Error(t, err)

	appErr, ok := err.(*common.AppError)
	require.True(t, ok)
	assert.Equal(t, http.StatusInternalServerError, appErr.Code)
}
