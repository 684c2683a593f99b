package game

import (
	"fmt"
	"strconv"
)

type Suit string
type Rank string

const (
	Hearts   Suit = "Hearts"
	Diamonds Suit = "Diamonds"
	Clubs    Suit = "Clubs"
	Spades   Suit = "Spades"
)

const (
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
	Ace   Rank = "A"
)

var (
	Suits = []Suit{Hearts, Diamonds, Clubs, Spades}
	Ranks = []Rank{Two, Three, Four, Five, Six, Seven, Eight, Nine, Ten, Jack, Queen, King, Ace}
)

type Card struct {
	Suit Suit `json:"suit"`
	Rank Rank `json:"rank"`
}

// Value returns the blackjack value of the card
func (c Card) Value() int {
	switch c.Rank {
	case Ace:
		return 11 // CalculateHandScore may count it as 1
	case Jack, Queen, King:
		return 10
	}

	v, err := strconv.Atoi(string(c.Rank))
	if err != nil {
		return 0
	}
	return v
}

func (c Card) IsAce() bool {
	return c.Rank == Ace
}

func (c Card) String() string {
	return fmt.Sprintf("%s of %s", c.Rank, c.Suit)
}
