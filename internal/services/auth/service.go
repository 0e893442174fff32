package auth

import (
	"context"
	"errors"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/jpmelanson/turnbase/internal/dependencies/clock"
	"github.com/jpmelanson/turnbase/internal/dependencies/random"
	"github.com/jpmelanson/turnbase/internal/model"
	"github.com/jpmelanson/turnbase/internal/storage"
	"github.com/jpmelanson/turnbase/internal/token"
)

// Errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUsernameTaken      = errors.New("username already taken")
)

// Service handles registration and login, issuing signed credentials
type Service struct {
	storage storage.Storage
	issuer  *token.Issuer
	clock   clock.Clock
	random  random.Random
	logger  *slog.Logger
}

// New creates a new auth service
func New(storage storage.Storage, issuer *token.Issuer, clk clock.Clock, rnd random.Random, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		issuer:  issuer,
		clock:   clk,
		random:  rnd,
		logger:  logger.With(slog.String("component", "auth")),
	}
}

// Register creates a user account and returns a signed credential
func (s *Service) Register(ctx context.Context, username, password string) (string, error) {
	if username == "" || password == "" {
		return "", model.ErrInvalidArgument
	}

	// Check if username exists
	_, err := s.storage.GetUserByUsername(ctx, username)
	if err == nil {
		return "", ErrUsernameTaken
	}
	if !errors.Is(err, model.ErrUserNotFound) {
		return "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	user := &model.User{
		ID:           model.UserID(s.random.ID("u_")),
		Username:     username,
		PasswordHash: string(hash),
		Role:         model.RoleUser,
		CreatedAt:    s.clock.Now(),
	}

	if err := s.storage.SaveUser(ctx, user); err != nil {
		return "", err
	}

	s.logger.Info("user registered",
		slog.String("user_id", string(user.ID)),
		slog.String("username", username))

	return s.issuer.Issue(user)
}

// Login verifies a username/password pair and returns a signed credential
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.storage.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	s.logger.Info("user logged in", slog.String("user_id", string(user.ID)))

	return s.issuer.Issue(user)
}

// GetUser retrieves a user by ID
func (s *Service) GetUser(ctx context.Context, id model.UserID) (*model.User, error) {
	return s.storage.GetUser(ctx, id)
}
