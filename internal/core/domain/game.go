package domain

import (
	"fmt"
	"math"
	"time"
)

// GameRecord is a finished round persisted for a user. Records are never
// updated or deleted.
type GameRecord struct {
	ID          int64
	UserID      int64
	PlayerHand  Hand
	DealerHand  Hand
	Result      Result
	PlayerScore int
	DealerScore int
	PlayedAt    time.Time
}

// Validate checks that the record describes a plausible finished round, that
// both scores were computed from the hands they claim to score and that the
// result is the one those scores settle to.
func (g *GameRecord) Validate() error {
	if len(g.PlayerHand) == 0 || len(g.DealerHand) == 0 {
		return fmt.Errorf("%w: playerHand and dealerHand are required", ErrInvalidRecord)
	}
	if !g.Result.Valid() {
		return fmt.Errorf("%w: result must be one of win, lose, push", ErrInvalidRecord)
	}
	for name, h := range map[string]Hand{"playerHand": g.PlayerHand, "dealerHand": g.DealerHand} {
		for i, c := range h {
			if !c.Valid() {
				return fmt.Errorf("%w: %s[%d] is not a playing card", ErrInvalidRecord, name, i)
			}
		}
	}
	if got := Score(g.PlayerHand); got != g.PlayerScore {
		return fmt.Errorf("%w: playerScore %d does not match playerHand (%d)", ErrInvalidRecord, g.PlayerScore, got)
	}
	if got := Score(g.DealerHand); got != g.DealerScore {
		return fmt.Errorf("%w: dealerScore %d does not match dealerHand (%d)", ErrInvalidRecord, g.DealerScore, got)
	}
	if want := settleRecord(g.PlayerScore, g.DealerScore); g.Result != want {
		return fmt.Errorf("%w: result %s does not follow from scores %d vs %d (want %s)",
			ErrInvalidRecord, g.Result, g.PlayerScore, g.DealerScore, want)
	}
	return nil
}

// settleRecord is Settle plus the player bust, which loses before the dealer
// plays.
func settleRecord(playerScore, dealerScore int) Result {
	if playerScore > BlackjackTotal {
		return ResultLose
	}
	return Settle(playerScore, dealerScore)
}

// GameTotals are the raw aggregates the history store computes per user.
type GameTotals struct {
	TotalGames     int64
	Wins           int64
	Losses         int64
	Pushes         int64
	SumPlayerScore int64
	SumDealerScore int64
	HighestScore   int
	FirstGame      *time.Time
	LastGame       *time.Time
}

// Stats is the lifetime record shown to a player.
type Stats struct {
	TotalGames     int64      `json:"totalGames"`
	Wins           int64      `json:"wins"`
	Losses         int64      `json:"losses"`
	Pushes         int64      `json:"pushes"`
	WinPercentage  float64    `json:"winPercentage"`
	AvgPlayerScore float64    `json:"avgPlayerScore"`
	HighestScore   int        `json:"highestScore"`
	AvgDealerScore float64    `json:"avgDealerScore"`
	FirstGame      *time.Time `json:"firstGame"`
	LastGame       *time.Time `json:"lastGame"`
}

// NewStats derives percentages and averages, rounded to one decimal.
func NewStats(t GameTotals) Stats {
	s := Stats{
		TotalGames:   t.TotalGames,
		Wins:         t.Wins,
		Losses:       t.Losses,
		Pushes:       t.Pushes,
		HighestScore: t.HighestScore,
		FirstGame:    t.FirstGame,
		LastGame:     t.LastGame,
	}
	if t.TotalGames == 0 {
		return s
	}
	n := float64(t.TotalGames)
	s.WinPercentage = round1(float64(t.Wins) / n * 100)
	s.AvgPlayerScore = round1(float64(t.SumPlayerScore) / n)
	s.AvgDealerScore = round1(float64(t.SumDealerScore) / n)
	return s
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
