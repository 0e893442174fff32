package game

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/jpmelanson/turnbase/internal/broadcast"
	"github.com/jpmelanson/turnbase/internal/dependencies/mocks"
	"github.com/jpmelanson/turnbase/internal/model"
	"github.com/jpmelanson/turnbase/internal/storage/memory"
	"github.com/jpmelanson/turnbase/internal/testutil"
)

type CoordinatorSuite struct {
	suite.Suite
	storage     *memory.Storage
	registry    *broadcast.Registry
	clock       *mocks.MockClock
	random      *mocks.MockRandom
	coordinator *Coordinator
	ctx         context.Context
}

func TestCoordinatorSuite(t *testing.T) {
	suite.Run(t, new(CoordinatorSuite))
}

func (s *CoordinatorSuite) SetupTest() {
	s.storage = memory.New()
	s.registry = broadcast.NewRegistry(testutil.NopLogger())
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.random = mocks.NewMockRandom()
	s.coordinator = s.newCoordinator(TurnPolicyRotate)
	s.ctx = context.Background()
}

func (s *CoordinatorSuite) newCoordinator(policy TurnPolicy) *Coordinator {
	return NewCoordinator(s.storage, s.registry, policy, s.clock, s.random, testutil.NopLogger())
}

func (s *CoordinatorSuite) identity(id model.UserID) *model.Identity {
	return &model.Identity{UserID: id, Username: string(id), Role: model.RoleUser}
}

// CreateGame tests

func (s *CoordinatorSuite) TestCreateGameSucceeds() {
	s.random.QueueID("g_abc123")

	game, err := s.coordinator.CreateGame(s.ctx, s.identity("u_alice"))
	s.Require().NoError(err)

	s.Equal(model.GameID("g_abc123"), game.ID)
	s.Equal("", game.BoardState)
	s.Equal([]model.UserID{"u_alice"}, game.Players)
	s.Equal(model.UserID("u_alice"), game.CurrentPlayerID)
	s.Equal(model.GameStatusPending, game.Status)
	s.Equal(s.clock.CurrentTime, game.CreatedAt)
	s.Equal(s.clock.CurrentTime, game.UpdatedAt)
}

func (s *CoordinatorSuite) TestCreateGamePersists() {
	s.random.QueueID("g_abc123")

	created, err := s.coordinator.CreateGame(s.ctx, s.identity("u_alice"))
	s.Require().NoError(err)

	got, err := s.coordinator.GetGame(s.ctx, created.ID)
	s.Require().NoError(err)
	s.Equal(created.ID, got.ID)
}

func (s *CoordinatorSuite) TestCreateGameRequiresIdentity() {
	_, err := s.coordinator.CreateGame(s.ctx, nil)
	s.ErrorIs(err, model.ErrAuthRequired)
}

// MakeMove tests

func (s *CoordinatorSuite) seedGame(players ...model.UserID) *model.Game {
	game := &model.Game{
		ID:              "g_test",
		BoardState:      "",
		Players:         players,
		CurrentPlayerID: players[0],
		Status:          model.GameStatusPending,
		CreatedAt:       s.clock.CurrentTime,
		UpdatedAt:       s.clock.CurrentTime,
	}
	s.Require().NoError(s.storage.SaveGame(s.ctx, game))
	return game
}

func (s *CoordinatorSuite) TestMakeMoveByTurnHolderSucceeds() {
	s.seedGame("u_alice", "u_bob")
	s.clock.Advance(time.Minute)

	game, err := s.coordinator.MakeMove(s.ctx, "g_test", s.identity("u_alice"), "board-v1")
	s.Require().NoError(err)

	s.Equal("board-v1", game.BoardState)
	s.Equal(s.clock.CurrentTime, game.UpdatedAt)
}

func (s *CoordinatorSuite) TestMakeMoveByNonTurnHolderRejected() {
	s.seedGame("u_alice", "u_bob")

	_, err := s.coordinator.MakeMove(s.ctx, "g_test", s.identity("u_bob"), "board-v1")
	s.ErrorIs(err, model.ErrNotYourTurn)

	// Rejected move left no trace
	game, err := s.coordinator.GetGame(s.ctx, "g_test")
	s.Require().NoError(err)
	s.Equal("", game.BoardState)
	s.Equal(model.UserID("u_alice"), game.CurrentPlayerID)
}

func (s *CoordinatorSuite) TestMakeMoveByNonPlayerRejected() {
	s.seedGame("u_alice", "u_bob")

	_, err := s.coordinator.MakeMove(s.ctx, "g_test", s.identity("u_mallory"), "board-v1")
	s.ErrorIs(err, model.ErrNotYourTurn)
}

func (s *CoordinatorSuite) TestMakeMoveRequiresIdentity() {
	s.seedGame("u_alice")

	_, err := s.coordinator.MakeMove(s.ctx, "g_test", nil, "board-v1")
	s.ErrorIs(err, model.ErrAuthRequired)
}

func (s *CoordinatorSuite) TestMakeMoveRequiresGameID() {
	_, err := s.coordinator.MakeMove(s.ctx, "", s.identity("u_alice"), "board-v1")
	s.ErrorIs(err, model.ErrInvalidArgument)
}

func (s *CoordinatorSuite) TestMakeMoveOnMissingGame() {
	_, err := s.coordinator.MakeMove(s.ctx, "g_nope", s.identity("u_alice"), "board-v1")
	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *CoordinatorSuite) TestRotatePolicyAdvancesTurn() {
	s.seedGame("u_alice", "u_bob", "u_carol")

	game, err := s.coordinator.MakeMove(s.ctx, "g_test", s.identity("u_alice"), "v1")
	s.Require().NoError(err)
	s.Equal(model.UserID("u_bob"), game.CurrentPlayerID)

	game, err = s.coordinator.MakeMove(s.ctx, "g_test", s.identity("u_bob"), "v2")
	s.Require().NoError(err)
	s.Equal(model.UserID("u_carol"), game.CurrentPlayerID)

	// Wraps around after the last player
	game, err = s.coordinator.MakeMove(s.ctx, "g_test", s.identity("u_carol"), "v3")
	s.Require().NoError(err)
	s.Equal(model.UserID("u_alice"), game.CurrentPlayerID)
}

func (s *CoordinatorSuite) TestRotatePolicySinglePlayerKeepsTurn() {
	s.seedGame("u_alice")

	game, err := s.coordinator.MakeMove(s.ctx, "g_test", s.identity("u_alice"), "v1")
	s.Require().NoError(err)
	s.Equal(model.UserID("u_alice"), game.CurrentPlayerID)
}

func (s *CoordinatorSuite) TestHoldPolicyKeepsTurn() {
	coordinator := s.newCoordinator(TurnPolicyHold)
	s.seedGame("u_alice", "u_bob")

	game, err := coordinator.MakeMove(s.ctx, "g_test", s.identity("u_alice"), "v1")
	s.Require().NoError(err)
	s.Equal(model.UserID("u_alice"), game.CurrentPlayerID)

	// The same player may move again
	game, err = coordinator.MakeMove(s.ctx, "g_test", s.identity("u_alice"), "v2")
	s.Require().NoError(err)
	s.Equal("v2", game.BoardState)

	_, err = coordinator.MakeMove(s.ctx, "g_test", s.identity("u_bob"), "v3")
	s.ErrorIs(err, model.ErrNotYourTurn)
}

func (s *CoordinatorSuite) TestInvalidPolicyDefaultsToRotate() {
	coordinator := s.newCoordinator("bogus")
	s.seedGame("u_alice", "u_bob")

	game, err := coordinator.MakeMove(s.ctx, "g_test", s.identity("u_alice"), "v1")
	s.Require().NoError(err)
	s.Equal(model.UserID("u_bob"), game.CurrentPlayerID)
}

func (s *CoordinatorSuite) TestMakeMovePublishesExactlyOnce() {
	s.seedGame("u_alice", "u_bob")

	sub, err := s.registry.Subscribe("g_test", "watcher")
	s.Require().NoError(err)
	defer s.registry.Unsubscribe(sub)

	_, err = s.coordinator.MakeMove(s.ctx, "g_test", s.identity("u_alice"), "v1")
	s.Require().NoError(err)

	update := <-sub.C()
	s.Equal("v1", update.BoardState)
	s.Equal(model.UserID("u_bob"), update.CurrentPlayerID)

	select {
	case extra := <-sub.C():
		s.Failf("unexpected update", "got %+v", extra)
	default:
	}
}

func (s *CoordinatorSuite) TestRejectedMoveDoesNotPublish() {
	s.seedGame("u_alice", "u_bob")

	sub, err := s.registry.Subscribe("g_test", "watcher")
	s.Require().NoError(err)
	defer s.registry.Unsubscribe(sub)

	_, err = s.coordinator.MakeMove(s.ctx, "g_test", s.identity("u_bob"), "v1")
	s.ErrorIs(err, model.ErrNotYourTurn)

	select {
	case extra := <-sub.C():
		s.Failf("unexpected update", "got %+v", extra)
	default:
	}
}

func (s *CoordinatorSuite) TestConcurrentMovesExactlyOneAccepted() {
	// Under the hold policy every racer submits as the same turn holder,
	// so without per-game serialization multiple moves could win.
	coordinator := s.newCoordinator(TurnPolicyHold)
	s.seedGame("u_alice", "u_bob")

	const racers = 16
	var wg sync.WaitGroup

	start := make(chan struct{})
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			_, err := coordinator.MakeMove(s.ctx, "g_test", s.identity("u_alice"), fmt.Sprintf("v%d", i))
			s.NoError(err)
		}(i)
	}
	close(start)
	wg.Wait()

	// Hold policy accepts them all, but each read-check-write ran alone:
	// the stored board is one of the submitted values, never torn.
	game, err := coordinator.GetGame(s.ctx, "g_test")
	s.Require().NoError(err)
	s.Regexp(`^v\d+$`, game.BoardState)
	s.Equal(model.UserID("u_alice"), game.CurrentPlayerID)
}

func (s *CoordinatorSuite) TestConcurrentMovesRotateAcceptsOne() {
	s.seedGame("u_alice", "u_bob")

	const racers = 16
	var wg sync.WaitGroup
	accepted := make(chan string, racers)

	start := make(chan struct{})
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			board := fmt.Sprintf("v%d", i)
			if _, err := s.coordinator.MakeMove(s.ctx, "g_test", s.identity("u_alice"), board); err == nil {
				accepted <- board
			}
		}(i)
	}
	close(start)
	wg.Wait()
	close(accepted)

	var wins []string
	for board := range accepted {
		wins = append(wins, board)
	}
	s.Require().Len(wins, 1)

	game, err := s.coordinator.GetGame(s.ctx, "g_test")
	s.Require().NoError(err)
	s.Equal(wins[0], game.BoardState)
	s.Equal(model.UserID("u_bob"), game.CurrentPlayerID)
}

// ListGames tests

func (s *CoordinatorSuite) TestListGamesEmpty() {
	games, err := s.coordinator.ListGames(s.ctx)
	s.Require().NoError(err)
	s.Empty(games)
}

func (s *CoordinatorSuite) TestListGamesReturnsAll() {
	s.random.QueueID("g_1", "g_2")
	_, err := s.coordinator.CreateGame(s.ctx, s.identity("u_alice"))
	s.Require().NoError(err)
	s.clock.Advance(time.Second)
	_, err = s.coordinator.CreateGame(s.ctx, s.identity("u_bob"))
	s.Require().NoError(err)

	games, err := s.coordinator.ListGames(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(games, 2)
	s.Equal(model.GameID("g_1"), games[0].ID)
	s.Equal(model.GameID("g_2"), games[1].ID)
}
