package service

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wattwise/wattwise/internal/apperror"
	"github.com/wattwise/wattwise/internal/auth"
	"github.com/wattwise/wattwise/internal/repository/memory"
)

func newTestAuthService(t *testing.T) (*AuthService, *memory.Store) {
	t.Helper()

	store := memory.New()
	tokens, err := auth.NewTokenService("test-secret-at-least-16-chars")
	require.NoError(t, err)

	// MinCost keeps the bcrypt work factor out of the test runtime.
	passwords := auth.NewPasswordServiceForTest(4)

	svc := NewAuthService(store.Users(), tokens, passwords, slog.Default())
	return svc, store
}

func TestAuthService_RegisterAndLogin(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	result, err := svc.Register(ctx, "alice", "correct horse battery")
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, "alice", result.User.Username)
	assert.Equal(t, 0, result.User.EnergyPoints)
	assert.Equal(t, 1, result.User.Level)

	login, err := svc.Login(ctx, "alice", "correct horse battery")
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, login.User.ID)
	assert.NotEmpty(t, login.Token)
}

func TestAuthService_RegisterValidation(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		username string
		password string
	}{
		{"username too short", "ab", "long enough password"},
		{"username too long", "this-username-is-way-too-long-for-us", "long enough password"},
		{"password too short", "alice", "short"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tt.username, tt.password)
			assert.ErrorIs(t, err, apperror.ErrValidation)
		})
	}
}

func TestAuthService_RegisterDuplicateUsername(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "long enough password")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "alice", "another fine password")
	assert.ErrorIs(t, err, apperror.ErrConflict)
}

func TestAuthService_LoginDoesNotLeakWhichFieldFailed(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "long enough password")
	require.NoError(t, err)

	_, badUser := svc.Login(ctx, "nobody", "long enough password")
	_, badPass := svc.Login(ctx, "alice", "wrong password entirely")

	require.ErrorIs(t, badUser, apperror.ErrUnauthorized)
	require.ErrorIs(t, badPass, apperror.ErrUnauthorized)

	var appErrUser, appErrPass *apperror.AppError
	require.True(t, errors.As(badUser, &appErrUser))
	require.True(t, errors.As(badPass, &appErrPass))
	assert.Equal(t, appErrUser.Message, appErrPass.Message)
}

func TestAuthService_LoginWithGitHub(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	gh := &auth.GitHubUser{ID: 42, Login: "octocat"}

	first, err := svc.LoginWithGitHub(ctx, gh)
	require.NoError(t, err)
	assert.Equal(t, "octocat", first.User.Username)
	assert.NotEmpty(t, first.Token)

	// Second login with the same GitHub identity reuses the account.
	second, err := svc.LoginWithGitHub(ctx, gh)
	require.NoError(t, err)
	assert.Equal(t, first.User.ID, second.User.ID)

	// A password login against a GitHub-provisioned account never works.
	_, err = svc.Login(ctx, "octocat", "")
	assert.ErrorIs(t, err, apperror.ErrValidation)
	_, err = svc.Login(ctx, "octocat", "anything at all")
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)
}

func TestAuthService_LoginWithGitHub_UsernameTaken(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "octocat", "long enough password")
	require.NoError(t, err)

	result, err := svc.LoginWithGitHub(ctx, &auth.GitHubUser{ID: 42, Login: "octocat"})
	require.NoError(t, err)
	assert.Equal(t, "octocat-42", result.User.Username)
}
