package service_test

import (
	"testing"

	"go-bookstore-api/internal/model"
	"go-bookstore-api/internal/service"
	"go-bookstore-api/pkg/jwt"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogin_IssuesTokenWithRole(t *testing.T) {
	env := newTestEnv(t)
	identity := env.seedUser(t, "admin@test.local", model.RoleAdmin)
	auth := service.NewAuthService(env.userRepo)

	resp, err := auth.Login("admin@test.local", "secret123")
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)

	claims, err := jwt.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, identity.UserID, claims.UserID)
	assert.Equal(t, model.RoleAdmin, claims.Role)
	assert.Equal(t, "admin@test.local", resp.User.Email)
}

func TestLogin_WrongPassword(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "clerk@test.local", model.RoleStaff)
	auth := service.NewAuthService(env.userRepo)

	_, err := auth.Login("clerk@test.local", "wrong")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestLogin_InactiveUser(t *testing.T) {
	env := newTestEnv(t)
	identity := env.seedUser(t, "gone@test.local", model.RoleStaff)
	require.NoError(t, env.userRepo.Deactivate(identity.UserID))
	auth := service.NewAuthService(env.userRepo)

	_, err := auth.Login("gone@test.local", "secret123")
	assert.ErrorIs(t, err, service.ErrUserInactive)
}

func TestChangePassword(t *testing.T) {
	env := newTestEnv(t)
	identity := env.seedUser(t, "clerk@test.local", model.RoleStaff)
	auth := service.NewAuthService(env.userRepo)

	err := auth.ChangePassword(identity, "nope", "newsecret")
	assert.ErrorIs(t, err, service.ErrWrongPassword)

	require.NoError(t, auth.ChangePassword(identity, "secret123", "newsecret"))

	_, err = auth.Login("clerk@test.local", "secret123")
	assert.Error(t, err)
	_, err = auth.Login("clerk@test.local", "newsecret")
	assert.NoError(t, err)
}
