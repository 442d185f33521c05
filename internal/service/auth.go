package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/wattwise/wattwise/internal/apperror"
	"github.com/wattwise/wattwise/internal/auth"
	"github.com/wattwise/wattwise/internal/model"
	"github.com/wattwise/wattwise/internal/repository"
)

const (
	MinUsernameLength = 3
	MaxUsernameLength = 32
	MinPasswordLength = 8
)

// AuthService handles account registration and login.
//
//	AuthHandler (HTTP) → AuthService (rules) → UserRepository (DB)
//	                   ↘ TokenService (JWT), PasswordService (bcrypt)
//
// Username/password is the primary flow; GitHub OAuth is an optional
// secondary one that provisions an account from the GitHub identity.
type AuthService struct {
	users     repository.UserRepository
	tokens    *auth.TokenService
	passwords *auth.PasswordService
	logger    *slog.Logger
}

func NewAuthService(
	users repository.UserRepository,
	tokens *auth.TokenService,
	passwords *auth.PasswordService,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		passwords: passwords,
		logger:    logger,
	}
}

// AuthResult bundles the user record and the issued JWT so the handler
// can set the session cookie and respond in one step.
type AuthResult struct {
	User  *model.User
	Token string
}

// Register creates a new account and logs it in. New users start at
// 0 energy points, level 1 (the repository seeds those).
func (s *AuthService) Register(ctx context.Context, username, password string) (*AuthResult, error) {
	username = strings.TrimSpace(username)
	if len(username) < MinUsernameLength || len(username) > MaxUsernameLength {
		return nil, apperror.ValidationFailed("username",
			fmt.Sprintf("username must be between %d and %d characters", MinUsernameLength, MaxUsernameLength))
	}
	if len(password) < MinPasswordLength {
		return nil, apperror.ValidationFailed("password",
			fmt.Sprintf("password must be at least %d characters", MinPasswordLength))
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return nil, apperror.ValidationFailed("password", err.Error())
	}

	user := &model.User{
		Username:     username,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		// Conflict (username taken) passes through untouched so the
		// handler can answer 409 with a useful message.
		return nil, err
	}

	s.logger.Info("user registered",
		slog.String("userID", user.ID),
		slog.String("username", user.Username),
	)

	return s.issueToken(user)
}

// Login verifies credentials and issues a session token.
//
// A wrong username and a wrong password produce the same Unauthorized
// error: the response must not reveal which half was wrong, or it
// becomes a username oracle.
func (s *AuthService) Login(ctx context.Context, username, password string) (*AuthResult, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, apperror.ValidationFailed("username", "username and password are required")
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.Unauthorized("invalid username or password")
		}
		return nil, fmt.Errorf("looking up user %q: %w", username, err)
	}

	if err := s.passwords.Verify(user.PasswordHash, password); err != nil {
		return nil, apperror.Unauthorized("invalid username or password")
	}

	s.logger.Info("user logged in", slog.String("userID", user.ID))

	return s.issueToken(user)
}

// LoginWithGitHub handles the OAuth callback: find the account for this
// GitHub identity, provisioning one on first login, then issue a token.
//
// GitHub-provisioned accounts have an empty password hash, which can
// never verify, so they cannot be logged into with a password.
func (s *AuthService) LoginWithGitHub(ctx context.Context, ghUser *auth.GitHubUser) (*AuthResult, error) {
	if ghUser == nil {
		return nil, fmt.Errorf("github user must not be nil")
	}

	user, err := s.users.GetByGitHubID(ctx, ghUser.ID)
	if err != nil {
		if !errors.Is(err, apperror.ErrNotFound) {
			return nil, fmt.Errorf("looking up github user %d: %w", ghUser.ID, err)
		}

		// First login — provision an account named after the GitHub
		// login, falling back to a suffixed name if it's taken locally.
		user = &model.User{
			Username: ghUser.Login,
			GitHubID: ghUser.ID,
		}
		if err := s.users.Create(ctx, user); err != nil {
			if !errors.Is(err, apperror.ErrConflict) {
				return nil, fmt.Errorf("provisioning github user: %w", err)
			}
			user.Username = ghUser.Login + "-" + strconv.FormatInt(ghUser.ID, 10)
			if err := s.users.Create(ctx, user); err != nil {
				return nil, fmt.Errorf("provisioning github user: %w", err)
			}
		}

		s.logger.Info("user provisioned via GitHub",
			slog.String("userID", user.ID),
			slog.String("username", user.Username),
		)
	}

	return s.issueToken(user)
}

// GetUserByID returns the user for the given internal ID. Used by the
// /api/user handler after the middleware has validated the session.
func (s *AuthService) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	if id == "" {
		return nil, apperror.ValidationFailed("id", "user ID is required")
	}
	return s.users.GetByID(ctx, id)
}

func (s *AuthService) issueToken(user *model.User) (*AuthResult, error) {
	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return nil, fmt.Errorf("generating token for user %s: %w", user.ID, err)
	}
	return &AuthResult{User: user, Token: token}, nil
}
