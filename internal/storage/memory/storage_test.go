package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/jpmelanson/turnbase/internal/model"
)

type StorageSuite struct {
	suite.Suite
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.storage = New()
	s.ctx = context.Background()
}

// User tests

func (s *StorageSuite) TestSaveAndGetUser() {
	user := &model.User{
		ID:           "u_alice",
		Username:     "alice",
		PasswordHash: "hash",
		Role:         model.RoleUser,
		CreatedAt:    time.Now(),
	}

	err := s.storage.SaveUser(s.ctx, user)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetUser(s.ctx, "u_alice")
	s.Require().NoError(err)
	s.Equal(user.ID, retrieved.ID)
	s.Equal(user.Username, retrieved.Username)
}

func (s *StorageSuite) TestGetUserNotFound() {
	_, err := s.storage.GetUser(s.ctx, "u_nobody")
	s.ErrorIs(err, model.ErrUserNotFound)
}

func (s *StorageSuite) TestGetUserByUsername() {
	user := &model.User{ID: "u_alice", Username: "alice"}
	_ = s.storage.SaveUser(s.ctx, user)

	retrieved, err := s.storage.GetUserByUsername(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(model.UserID("u_alice"), retrieved.ID)
}

func (s *StorageSuite) TestGetUserByUsernameNotFound() {
	_, err := s.storage.GetUserByUsername(s.ctx, "nobody")
	s.ErrorIs(err, model.ErrUserNotFound)
}

// Game tests

func (s *StorageSuite) TestSaveAndGetGame() {
	game := &model.Game{
		ID:              "g_1",
		BoardState:      "state",
		Players:         []model.UserID{"u_alice", "u_bob"},
		CurrentPlayerID: "u_alice",
		Status:          model.GameStatusPending,
		CreatedAt:       time.Now(),
	}

	err := s.storage.SaveGame(s.ctx, game)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetGame(s.ctx, "g_1")
	s.Require().NoError(err)
	s.Equal(game.ID, retrieved.ID)
	s.Equal(game.Players, retrieved.Players)
	s.Equal(game.CurrentPlayerID, retrieved.CurrentPlayerID)
}

func (s *StorageSuite) TestGetGameNotFound() {
	_, err := s.storage.GetGame(s.ctx, "g_nope")
	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *StorageSuite) TestListGamesEmpty() {
	games, err := s.storage.ListGames(s.ctx)
	s.Require().NoError(err)
	s.Empty(games)
}

func (s *StorageSuite) TestListGamesOrderedByCreation() {
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	_ = s.storage.SaveGame(s.ctx, &model.Game{ID: "g_b", CreatedAt: base.Add(time.Minute)})
	_ = s.storage.SaveGame(s.ctx, &model.Game{ID: "g_a", CreatedAt: base})
	_ = s.storage.SaveGame(s.ctx, &model.Game{ID: "g_c", CreatedAt: base.Add(time.Minute)})

	games, err := s.storage.ListGames(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(games, 3)
	s.Equal(model.GameID("g_a"), games[0].ID)
	// Ties break on ID
	s.Equal(model.GameID("g_b"), games[1].ID)
	s.Equal(model.GameID("g_c"), games[2].ID)
}

func (s *StorageSuite) TestDeleteGame() {
	_ = s.storage.SaveGame(s.ctx, &model.Game{ID: "g_1"})

	err := s.storage.DeleteGame(s.ctx, "g_1")
	s.Require().NoError(err)

	_, err = s.storage.GetGame(s.ctx, "g_1")
	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *StorageSuite) TestSaveGameOverwrites() {
	_ = s.storage.SaveGame(s.ctx, &model.Game{ID: "g_1", BoardState: "v1"})
	_ = s.storage.SaveGame(s.ctx, &model.Game{ID: "g_1", BoardState: "v2"})

	game, err := s.storage.GetGame(s.ctx, "g_1")
	s.Require().NoError(err)
	s.Equal("v2", game.BoardState)
}
