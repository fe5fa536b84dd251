package domain

// BlackjackTotal is the best possible hand value.
const BlackjackTotal = 21

// Hand is the ordered set of cards held by the player or the dealer.
type Hand []Card

// Score returns the best total for the hand: the highest value <= 21
// reachable by counting aces as 1, or the smallest overshoot when every
// reading busts.
func Score(h Hand) int {
	total, _ := score(h)
	return total
}

// IsSoft reports whether at least one ace is still counted as 11.
func IsSoft(h Hand) bool {
	_, soft := score(h)
	return soft > 0
}

// IsBust reports whether the hand exceeds 21.
func IsBust(h Hand) bool {
	return Score(h) > BlackjackTotal
}

func score(h Hand) (total, softAces int) {
	for _, c := range h {
		if c.Rank == Ace {
			softAces++
		}
		total += c.Value()
	}
	for total > BlackjackTotal && softAces > 0 {
		total -= 10
		softAces--
	}
	return total, softAces
}
