package domain

// DeckSize is the number of cards in a full deck.
const DeckSize = 52

// Random is the source the shuffle draws from.
type Random interface {
	// Intn returns a value in [0, n).
	Intn(n int) int
}

// Deck is an ordered pile of cards. Draw takes from the end.
type Deck []Card

// NewDeck returns the 52 cards in construction order: suits outer, ranks inner.
func NewDeck() Deck {
	d := make(Deck, 0, DeckSize)
	for _, s := range Suits {
		for _, r := range Ranks {
			d = append(d, Card{Suit: s, Rank: r})
		}
	}
	return d
}

// Shuffle permutes the deck in place with Fisher-Yates.
func (d Deck) Shuffle(rng Random) {
	for i := len(d) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		d[i], d[j] = d[j], d[i]
	}
}

// Draw removes and returns the last card.
func (d *Deck) Draw() (Card, error) {
	n := len(*d)
	if n == 0 {
		return Card{}, ErrEmptyDeck
	}
	c := (*d)[n-1]
	*d = (*d)[:n-1]
	return c, nil
}
