package game

import (
	"errors"
	"math/rand"
	"time"
)

// ErrEmptyDeck is returned when drawing from a deck with no cards left
var ErrEmptyDeck = errors.New("deck is empty")

type Deck struct {
	Cards []Card
}

// NewDeck creates a standard 52-card deck shuffled with r.
// A nil r uses a time-seeded source.
func NewDeck(r *rand.Rand) *Deck {
	deck := &Deck{Cards: make([]Card, 0, len(Suits)*len(Ranks))}

	for _, suit := range Suits {
		for _, rank := range Ranks {
			deck.Cards = append(deck.Cards, Card{Suit: suit, Rank: rank})
		}
	}

	deck.Shuffle(r)
	return deck
}

// NewDeckFromCards builds an unshuffled deck whose first card is drawn first
func NewDeckFromCards(cards ...Card) *Deck {
	deck := &Deck{Cards: make([]Card, len(cards))}
	for i, card := range cards {
		deck.Cards[len(cards)-1-i] = card
	}
	return deck
}

// Shuffle randomizes the order of cards in the deck
func (d *Deck) Shuffle(r *rand.Rand) {
	if r == nil {
		r = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	// Fisher-Yates shuffle algorithm
	for i := len(d.Cards) - 1; i > 0; i-- {
		j := r.Intn(i + 1)
		d.Cards[i], d.Cards[j] = d.Cards[j], d.Cards[i]
	}
}

// DrawCard removes and returns the top card, which is the last one in Cards
func (d *Deck) DrawCard() (Card, error) {
	if len(d.Cards) == 0 {
		return Card{}, ErrEmptyDeck
	}

	card := d.Cards[len(d.Cards)-1]
	d.Cards = d.Cards[:len(d.Cards)-1]
	return card, nil
}

// RemainingCards returns the number of cards left in the deck
func (d *Deck) RemainingCards() int {
	return len(d.Cards)
}
