package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/jpmelanson/turnbase/internal/dependencies/mocks"
	"github.com/jpmelanson/turnbase/internal/model"
	"github.com/jpmelanson/turnbase/internal/storage/memory"
	"github.com/jpmelanson/turnbase/internal/testutil"
	"github.com/jpmelanson/turnbase/internal/token"
)

type ServiceSuite struct {
	suite.Suite
	storage  *memory.Storage
	clock    *mocks.MockClock
	random   *mocks.MockRandom
	verifier *token.Verifier
	service  *Service
	ctx      context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	secret := []byte("test-secret")
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.random = mocks.NewMockRandom()
	s.verifier = token.NewVerifier(secret)
	s.service = New(s.storage, token.NewIssuer(secret, s.clock, 0), s.clock, s.random, testutil.NopLogger())
	s.ctx = context.Background()
}

// Register tests

func (s *ServiceSuite) TestRegisterSucceeds() {
	s.random.QueueID("u_alice")

	credential, err := s.service.Register(s.ctx, "alice", "hunter2")
	s.Require().NoError(err)
	s.Require().NotEmpty(credential)

	identity, err := s.verifier.Verify(credential)
	s.Require().NoError(err)
	s.Equal(model.UserID("u_alice"), identity.UserID)
	s.Equal("alice", identity.Username)
	s.Equal(model.RoleUser, identity.Role)
}

func (s *ServiceSuite) TestRegisterStoresUser() {
	s.random.QueueID("u_alice")

	_, err := s.service.Register(s.ctx, "alice", "hunter2")
	s.Require().NoError(err)

	user, err := s.storage.GetUserByUsername(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(model.UserID("u_alice"), user.ID)
	s.Equal(s.clock.CurrentTime, user.CreatedAt)
	s.NotEqual("hunter2", user.PasswordHash)
}

func (s *ServiceSuite) TestRegisterDuplicateUsernameRejected() {
	_, err := s.service.Register(s.ctx, "alice", "hunter2")
	s.Require().NoError(err)

	_, err = s.service.Register(s.ctx, "alice", "other-password")
	s.ErrorIs(err, ErrUsernameTaken)
}

func (s *ServiceSuite) TestRegisterRejectsEmptyFields() {
	_, err := s.service.Register(s.ctx, "", "hunter2")
	s.ErrorIs(err, model.ErrInvalidArgument)

	_, err = s.service.Register(s.ctx, "alice", "")
	s.ErrorIs(err, model.ErrInvalidArgument)
}

// Login tests

func (s *ServiceSuite) TestLoginSucceeds() {
	s.random.QueueID("u_alice")
	_, err := s.service.Register(s.ctx, "alice", "hunter2")
	s.Require().NoError(err)

	credential, err := s.service.Login(s.ctx, "alice", "hunter2")
	s.Require().NoError(err)

	identity, err := s.verifier.Verify(credential)
	s.Require().NoError(err)
	s.Equal(model.UserID("u_alice"), identity.UserID)
}

func (s *ServiceSuite) TestLoginWrongPassword() {
	_, err := s.service.Register(s.ctx, "alice", "hunter2")
	s.Require().NoError(err)

	_, err = s.service.Login(s.ctx, "alice", "wrong")
	s.ErrorIs(err, ErrInvalidCredentials)
}

func (s *ServiceSuite) TestLoginUnknownUsername() {
	// Unknown user and wrong password are indistinguishable to callers
	_, err := s.service.Login(s.ctx, "nobody", "hunter2")
	s.ErrorIs(err, ErrInvalidCredentials)
}

// GetUser tests

func (s *ServiceSuite) TestGetUser() {
	s.random.QueueID("u_alice")
	_, err := s.service.Register(s.ctx, "alice", "hunter2")
	s.Require().NoError(err)

	user, err := s.service.GetUser(s.ctx, "u_alice")
	s.Require().NoError(err)
	s.Equal("alice", user.Username)
}

func (s *ServiceSuite) TestGetUserNotFound() {
	_, err := s.service.GetUser(s.ctx, "u_nobody")
	s.ErrorIs(err, model.ErrUserNotFound)
}
