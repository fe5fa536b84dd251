package postgres

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/ringside/blackjack-api/internal/core/domain"
)

func TestTotalsRow_NoGames(t *testing.T) {
	totals := totalsRow{}.toDomain()
	assert.Zero(t, totals.TotalGames)
	assert.Zero(t, totals.HighestScore)
	assert.Nil(t, totals.FirstGame)
	assert.Nil(t, totals.LastGame)
}

func TestTotalsRow_WithGames(t *testing.T) {
	first := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	last := first.Add(48 * time.Hour)
	totals := totalsRow{
		TotalGames:   3,
		Wins:         2,
		Losses:       1,
		HighestScore: sql.NullInt64{Int64: 21, Valid: true},
		FirstGame:    sql.NullTime{Time: first, Valid: true},
		LastGame:     sql.NullTime{Time: last, Valid: true},
	}.toDomain()

	assert.Equal(t, 21, totals.HighestScore)
	require.NotNil(t, totals.FirstGame)
	assert.True(t, first.Equal(*totals.FirstGame))
	assert.True(t, last.Equal(*totals.LastGame))
}

func TestGameModel_RoundTrip(t *testing.T) {
	rec := &domain.GameRecord{
		UserID:      4,
		PlayerHand:  domain.Hand{{Suit: domain.Hearts, Rank: domain.Ace}, {Suit: domain.Spades, Rank: domain.King}},
		DealerHand:  domain.Hand{{Suit: domain.Clubs, Rank: domain.Ten}, {Suit: domain.Diamonds, Rank: domain.Nine}},
		Result:      domain.ResultWin,
		PlayerScore: 21,
		DealerScore: 19,
	}
	m, err := newGameModel(rec)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"suit":"♥","rank":"A"},{"suit":"♠","rank":"K"}]`, string(m.PlayerHand))

	back, err := m.toDomain()
	require.NoError(t, err)
	assert.Equal(t, rec.PlayerHand, back.PlayerHand)
	assert.Equal(t, rec.DealerHand, back.DealerHand)
}

// RepositorySuite runs against a real Postgres when TEST_DATABASE_URL is set.
type RepositorySuite struct {
	suite.Suite
	ctx   context.Context
	users *UserRepository
	games *GameRepository
}

func TestRepositorySuite(t *testing.T) {
	if os.Getenv("TEST_DATABASE_URL") == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	suite.Run(t, new(RepositorySuite))
}

func (s *RepositorySuite) SetupTest() {
	s.ctx = context.Background()
	db, err := Connect(s.ctx, Config{DSN: os.Getenv("TEST_DATABASE_URL")}, zerolog.Nop())
	s.Require().NoError(err)
	s.Require().NoError(db.Exec("DROP TABLE IF EXISTS game_history, users").Error)
	s.Require().NoError(Migrate(db))
	s.T().Cleanup(func() { _ = Close(db) })

	s.users = NewUserRepository(db)
	s.games = NewGameRepository(db)
}

func (s *RepositorySuite) newUser(email string) *domain.User {
	u := &domain.User{FirstName: "Ada", LastName: "Byron", Email: email, PasswordHash: "x"}
	s.Require().NoError(s.users.Create(s.ctx, u))
	return u
}

func (s *RepositorySuite) TestUsers() {
	u := s.newUser("ada@example.com")
	s.NotZero(u.ID)

	s.ErrorIs(s.users.Create(s.ctx, &domain.User{Email: "ada@example.com"}), domain.ErrUserExists)

	byEmail, err := s.users.FindByEmail(s.ctx, "ada@example.com")
	s.Require().NoError(err)
	s.Equal(u.ID, byEmail.ID)

	byID, err := s.users.FindByID(s.ctx, u.ID)
	s.Require().NoError(err)
	s.Equal("Byron", byID.LastName)

	_, err = s.users.FindByID(s.ctx, u.ID+100)
	s.ErrorIs(err, domain.ErrUserNotFound)
}

func (s *RepositorySuite) TestGames() {
	u := s.newUser("grace@example.com")
	other := s.newUser("alan@example.com")
	base := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)

	save := func(userID int64, result domain.Result, ps, ds int, at time.Time) {
		rec := &domain.GameRecord{
			UserID:      userID,
			PlayerHand:  domain.Hand{{Suit: domain.Spades, Rank: domain.Ten}},
			DealerHand:  domain.Hand{{Suit: domain.Clubs, Rank: domain.Ten}},
			Result:      result,
			PlayerScore: ps,
			DealerScore: ds,
			PlayedAt:    at,
		}
		s.Require().NoError(s.games.Create(s.ctx, rec))
		s.NotZero(rec.ID)
	}
	save(u.ID, domain.ResultWin, 20, 18, base)
	save(u.ID, domain.ResultLose, 17, 19, base.Add(time.Hour))
	save(u.ID, domain.ResultPush, 21, 21, base.Add(2*time.Hour))
	save(other.ID, domain.ResultWin, 19, 22, base)

	recent, err := s.games.ListRecent(s.ctx, u.ID, 2)
	s.Require().NoError(err)
	s.Require().Len(recent, 2)
	s.Equal(domain.ResultPush, recent[0].Result)
	s.Equal(domain.ResultLose, recent[1].Result)

	totals, err := s.games.Totals(s.ctx, u.ID)
	s.Require().NoError(err)
	s.Equal(int64(3), totals.TotalGames)
	s.Equal(int64(1), totals.Wins)
	s.Equal(int64(58), totals.SumPlayerScore)
	s.Equal(21, totals.HighestScore)
	s.True(base.Equal(*totals.FirstGame))

	empty, err := s.games.Totals(s.ctx, u.ID+100)
	s.Require().NoError(err)
	s.Zero(empty.TotalGames)
	s.Nil(empty.LastGame)
}
