package domain

import (
	"fmt"
	"strconv"
)

// Suit is one of the four card suits.
type Suit string

const (
	Spades   Suit = "♠"
	Hearts   Suit = "♥"
	Diamonds Suit = "♦"
	Clubs    Suit = "♣"
)

// Rank is the face of a card.
type Rank string

const (
	Ace   Rank = "A"
	Two   Rank = "2"
	Three Rank = "3"
	Four  Rank = "4"
	Five  Rank = "5"
	Six   Rank = "6"
	Seven Rank = "7"
	Eight Rank = "8"
	Nine  Rank = "9"
	Ten   Rank = "10"
	Jack  Rank = "J"
	Queen Rank = "Q"
	King  Rank = "K"
)

// Suits and Ranks are listed in deck-construction order.
var (
	Suits = []Suit{Spades, Hearts, Diamonds, Clubs}
	Ranks = []Rank{Ace, Two, Three, Four, Five, Six, Seven, Eight, Nine, Ten, Jack, Queen, King}
)

// HiddenCard stands in for the dealer's hole card while a round is open.
var HiddenCard = Card{Suit: "?", Rank: "?"}

// Card is an immutable playing card.
type Card struct {
	Suit Suit `json:"suit" bson:"suit"`
	Rank Rank `json:"rank" bson:"rank"`
}

func (c Card) String() string {
	return string(c.Rank) + string(c.Suit)
}

// Valid reports whether c is one of the 52 real cards. HiddenCard is not.
func (c Card) Valid() bool {
	return validSuit(c.Suit) && validRank(c.Rank)
}

// Value is the provisional blackjack value of the card; aces count 11.
func (c Card) Value() int {
	switch c.Rank {
	case Ace:
		return 11
	case Jack, Queen, King:
		return 10
	default:
		n, err := strconv.Atoi(string(c.Rank))
		if err != nil {
			return 0
		}
		return n
	}
}

func validSuit(s Suit) bool {
	for _, v := range Suits {
		if v == s {
			return true
		}
	}
	return false
}

func validRank(r Rank) bool {
	for _, v := range Ranks {
		if v == r {
			return true
		}
	}
	return false
}

// ValidateCards checks every card in cards, naming the first offender.
func ValidateCards(field string, cards []Card) error {
	for i, c := range cards {
		if !c.Valid() {
			return fmt.Errorf("%w: %s[%d] is not a playing card (%q of %q)", ErrInvalidState, field, i, c.Rank, c.Suit)
		}
	}
	return nil
}
