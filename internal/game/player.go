package game

import (
	"fmt"
	"strings"
)

const (
	BlackjackScore  = 21
	DealerStandsAt  = 17
	softAceAdjuster = 10
)

type Player struct {
	Name string `json:"name"`
	Hand []Card `json:"hand"`
}

// NewPlayer creates a player with an empty hand
func NewPlayer(name string) *Player {
	return &Player{Name: name, Hand: []Card{}}
}

// Draw takes one card from the deck into the hand.
// The hand is left untouched if the deck is empty.
func (p *Player) Draw(deck *Deck) error {
	card, err := deck.DrawCard()
	if err != nil {
		return err
	}
	p.Hand = append(p.Hand, card)
	return nil
}

// HandValue returns the current hand total with aces softened as needed
func (p *Player) HandValue() int {
	return CalculateHandScore(p.Hand)
}

func (p *Player) IsBusted() bool {
	return p.HandValue() > BlackjackScore
}

// IsBlackjack reports a natural: exactly two cards worth 21
func (p *Player) IsBlackjack() bool {
	return len(p.Hand) == 2 && p.HandValue() == BlackjackScore
}

// ShowHand renders every card in the hand and its total
func (p *Player) ShowHand() string {
	cards := make([]string, len(p.Hand))
	for i, card := range p.Hand {
		cards[i] = card.String()
	}
	return fmt.Sprintf("%s's hand: %s (Value: %d)", p.Name, strings.Join(cards, ", "), p.HandValue())
}

// ShowFirstCard renders only the face-up card of the hand
func (p *Player) ShowFirstCard() string {
	if len(p.Hand) == 0 {
		return fmt.Sprintf("%s shows: nothing", p.Name)
	}
	return fmt.Sprintf("%s shows: %s", p.Name, p.Hand[0])
}

// CalculateHandScore calculates the score of a hand, accounting for aces
func CalculateHandScore(hand []Card) int {
	score := 0
	aces := 0

	// First pass: calculate score treating aces as 11
	for _, card := range hand {
		if card.IsAce() {
			aces++
		}
		score += card.Value()
	}

	// Second pass: convert aces from 11 to 1 as needed to avoid busting
	for aces > 0 && score > BlackjackScore {
		score -= softAceAdjuster
		aces--
	}

	return score
}
