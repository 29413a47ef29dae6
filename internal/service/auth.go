package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sakif/quiz-arena/internal/apperror"
	"github.com/sakif/quiz-arena/internal/auth"
	"github.com/sakif/quiz-arena/internal/catalog"
	"github.com/sakif/quiz-arena/internal/model"
	"github.com/sakif/quiz-arena/internal/repository"
)

// errBadCredentials is returned for every login failure so a caller cannot
// tell an unknown username from a wrong password.
var errBadCredentials = apperror.Unauthorized("invalid username or password")

// Credentials is the signup and login payload. Handlers fill it from a JSON
// body or from form fields.
type Credentials struct {
	Username string `json:"username" validate:"required,alphanum,min=3,max=31"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

// AuthResult bundles the user and a freshly signed JWT so the handler can
// set the cookie and respond in one step.
type AuthResult struct {
	User  *model.User
	Token string
}

// AuthService owns account lifecycle: signup, login (password or GitHub),
// lookup and deletion.
//
//	AuthHandler → AuthService → repository.Store
//	                          ↘ TokenService (JWT), PasswordService (bcrypt)
type AuthService struct {
	store     repository.Store
	catalog   *catalog.Catalog
	tokens    *auth.TokenService
	passwords *auth.PasswordService
	logger    *slog.Logger
}

func NewAuthService(
	store repository.Store,
	cat *catalog.Catalog,
	tokens *auth.TokenService,
	passwords *auth.PasswordService,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		store:     store,
		catalog:   cat,
		tokens:    tokens,
		passwords: passwords,
		logger:    logger,
	}
}

// Signup creates a password account.
//
// The user row, the zeroed stats row, one achievement entry per catalog id
// and the hint inventory are written in one transaction: a user either has
// all of them or does not exist.
func (s *AuthService) Signup(ctx context.Context, in Credentials) (*AuthResult, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	// max=72 counts characters; bcrypt's limit is in bytes.
	if len(in.Password) > auth.MaxPasswordBytes {
		return nil, apperror.ValidationFailed("password", "password must be at most 72 bytes")
	}

	hash, err := s.passwords.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("service/auth: hashing password: %w", err)
	}

	user := &model.User{Username: in.Username, PasswordHash: hash}
	if err := s.createWithRecords(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user signed up",
		slog.String("userID", user.ID),
		slog.String("username", user.Username),
	)
	return s.issue(user)
}

// Login checks a username and password.
//
// GitHub-only accounts have no password hash and can never log in here.
func (s *AuthService) Login(ctx context.Context, in Credentials) (*AuthResult, error) {
	if in.Username == "" || in.Password == "" {
		return nil, errBadCredentials
	}

	user, err := s.store.GetUserByUsername(ctx, in.Username)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, errBadCredentials
		}
		return nil, fmt.Errorf("service/auth: looking up %q: %w", in.Username, err)
	}
	if user.PasswordHash == "" {
		return nil, errBadCredentials
	}

	if err := s.passwords.Verify(user.PasswordHash, in.Password); err != nil {
		if errors.Is(err, auth.ErrInvalidPassword) {
			s.logger.Warn("failed login", slog.String("username", in.Username))
			return nil, errBadCredentials
		}
		return nil, fmt.Errorf("service/auth: verifying password: %w", err)
	}

	s.logger.Info("user logged in", slog.String("userID", user.ID))
	return s.issue(user)
}

// LoginGitHub finishes the OAuth callback. A known GitHub ID logs in; an
// unknown one creates an account named after the GitHub login, seeded like
// a password signup. If that username is already taken the result is a
// Conflict.
func (s *AuthService) LoginGitHub(ctx context.Context, gh *auth.GitHubUser) (*AuthResult, error) {
	if gh == nil || gh.ID == 0 {
		return nil, errors.New("service/auth: GitHub user must not be empty")
	}

	user, err := s.store.GetUserByGitHubID(ctx, gh.ID)
	switch {
	case err == nil:
		s.logger.Info("user logged in via GitHub", slog.String("userID", user.ID))
		return s.issue(user)
	case !errors.Is(err, apperror.ErrNotFound):
		return nil, fmt.Errorf("service/auth: looking up GitHub user %d: %w", gh.ID, err)
	}

	ghID := gh.ID
	user = &model.User{Username: gh.Login, GitHubID: &ghID}
	if err := s.createWithRecords(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user signed up via GitHub",
		slog.String("userID", user.ID),
		slog.String("username", user.Username),
	)
	return s.issue(user)
}

// GetUser returns the account for an authenticated user ID.
func (s *AuthService) GetUser(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service/auth: fetching user %s: %w", userID, err)
	}
	return user, nil
}

// DeleteAccount removes the user together with stats, achievements and hints.
func (s *AuthService) DeleteAccount(ctx context.Context, userID string) error {
	if err := s.store.DeleteUser(ctx, userID); err != nil {
		return fmt.Errorf("service/auth: deleting user %s: %w", userID, err)
	}
	s.logger.Info("account deleted", slog.String("userID", userID))
	return nil
}

func (s *AuthService) createWithRecords(ctx context.Context, user *model.User) error {
	err := s.store.InTx(ctx, func(tx repository.Tx) error {
		if err := tx.CreateUser(ctx, user); err != nil {
			return err
		}
		return tx.SeedUserRecords(ctx, user.ID,
			s.catalog.NewAchievementProgress(),
			s.catalog.NewHintInventory(),
		)
	})
	if err != nil {
		return fmt.Errorf("service/auth: creating user %q: %w", user.Username, err)
	}
	return nil
}

func (s *AuthService) issue(user *model.User) (*AuthResult, error) {
	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return nil, fmt.Errorf("service/auth: generating token for %s: %w", user.ID, err)
	}
	return &AuthResult{User: user, Token: token}, nil
}
