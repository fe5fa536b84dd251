package domain

import "fmt"

// Result is the outcome of a finished round, from the player's side.
type Result string

const (
	ResultWin  Result = "win"
	ResultLose Result = "lose"
	ResultPush Result = "push"
)

// Valid reports whether r is a terminal outcome.
func (r Result) Valid() bool {
	return r == ResultWin || r == ResultLose || r == ResultPush
}

// DealerStandsOn is the total at which the dealer stops drawing, soft 17 included.
const DealerStandsOn = 17

// Round is the full state of a single blackjack round. Between requests it
// lives with the client; every action rebuilds it with RestoreRound.
type Round struct {
	Deck       Deck
	PlayerHand Hand
	DealerHand Hand
	GameOver   bool
	Result     Result
}

// Deal shuffles a fresh deck and deals player, player, dealer, dealer.
func Deal(rng Random) (*Round, error) {
	deck := NewDeck()
	deck.Shuffle(rng)

	r := &Round{Deck: deck}
	for _, h := range []*Hand{&r.PlayerHand, &r.PlayerHand, &r.DealerHand, &r.DealerHand} {
		c, err := r.Deck.Draw()
		if err != nil {
			return nil, err
		}
		*h = append(*h, c)
	}
	return r, nil
}

// RestoreRound rebuilds an open round from client-held state. The deck and
// both hands together must hold each of the 52 cards exactly once, the
// dealer must not have drawn yet, and the player must not already be bust.
// The inputs are copied.
func RestoreRound(deck Deck, player, dealer Hand) (*Round, error) {
	if deck == nil || player == nil || dealer == nil {
		return nil, fmt.Errorf("%w: deck, playerHand and dealerHand are required", ErrInvalidState)
	}
	if len(player) < 2 {
		return nil, fmt.Errorf("%w: playerHand must hold at least 2 cards", ErrInvalidState)
	}
	if len(dealer) != 2 {
		return nil, fmt.Errorf("%w: dealerHand must hold exactly 2 cards", ErrInvalidState)
	}
	if err := ValidateCards("deck", deck); err != nil {
		return nil, err
	}
	if err := ValidateCards("playerHand", player); err != nil {
		return nil, err
	}
	if err := ValidateCards("dealerHand", dealer); err != nil {
		return nil, err
	}

	seen := make(map[Card]struct{}, DeckSize)
	for _, pile := range [][]Card{deck, player, dealer} {
		for _, c := range pile {
			if _, dup := seen[c]; dup {
				return nil, fmt.Errorf("%w: card %s appears more than once", ErrInvalidState, c)
			}
			seen[c] = struct{}{}
		}
	}
	if len(seen) != DeckSize {
		return nil, fmt.Errorf("%w: deck and hands hold %d cards, want %d", ErrInvalidState, len(seen), DeckSize)
	}
	if IsBust(player) {
		return nil, ErrRoundOver
	}

	return &Round{
		Deck:       append(Deck(nil), deck...),
		PlayerHand: append(Hand(nil), player...),
		DealerHand: append(Hand(nil), dealer...),
	}, nil
}

// PlayerScore is the current value of the player's hand.
func (r *Round) PlayerScore() int { return Score(r.PlayerHand) }

// DealerScore is the current value of the dealer's full hand.
func (r *Round) DealerScore() int { return Score(r.DealerHand) }

// Natural reports a two-card 21 for the player.
func (r *Round) Natural() bool {
	return len(r.PlayerHand) == 2 && r.PlayerScore() == BlackjackTotal
}

// Hit draws one card for the player. A bust ends the round as a loss.
func (r *Round) Hit() error {
	if r.GameOver {
		return ErrRoundOver
	}
	c, err := r.Deck.Draw()
	if err != nil {
		return err
	}
	r.PlayerHand = append(r.PlayerHand, c)

	if IsBust(r.PlayerHand) {
		r.GameOver = true
		r.Result = ResultLose
	}
	return nil
}

// Stand plays out the dealer and settles the round.
func (r *Round) Stand() error {
	if r.GameOver {
		return ErrRoundOver
	}
	for r.DealerScore() < DealerStandsOn {
		c, err := r.Deck.Draw()
		if err != nil {
			return err
		}
		r.DealerHand = append(r.DealerHand, c)
	}

	r.GameOver = true
	r.Result = Settle(r.PlayerScore(), r.DealerScore())
	return nil
}

// Settle compares final totals for a player who did not bust.
func Settle(playerScore, dealerScore int) Result {
	switch {
	case dealerScore > BlackjackTotal:
		return ResultWin
	case playerScore > dealerScore:
		return ResultWin
	case playerScore < dealerScore:
		return ResultLose
	default:
		return ResultPush
	}
}
