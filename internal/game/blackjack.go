package game

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
)

type GameStatus string

const (
	Dealing    GameStatus = "dealing"    // Initial two cards each
	PlayerTurn GameStatus = "playerTurn" // Waiting on hit/stand decisions
	DealerTurn GameStatus = "dealerTurn" // Dealer draws to 17
	Completed  GameStatus = "completed"  // Outcome decided
)

type Outcome string

const (
	PlayerBust Outcome = "playerBust"
	DealerBust Outcome = "dealerBust"
	PlayerWins Outcome = "playerWins"
	DealerWins Outcome = "dealerWins"
	Tie        Outcome = "tie"
)

// Message returns the line printed when the round ends with o
func (o Outcome) Message() string {
	switch o {
	case PlayerBust:
		return "You busted! Dealer wins."
	case DealerBust:
		return "Dealer busts! You win."
	case PlayerWins:
		return "You win!"
	case DealerWins:
		return "Dealer wins."
	case Tie:
		return "It's a tie!"
	default:
		return ""
	}
}

// PlayerWon reports whether the human player took the round
func (o Outcome) PlayerWon() bool {
	return o == DealerBust || o == PlayerWins
}

const (
	PlayerName = "Player"
	DealerName = "Dealer"

	hitPrompt = "Do you want to hit or stand? (h/s): "
	hitAction = "h"
)

// Result summarizes a finished round
type Result struct {
	RoundID     string    `json:"roundId"`
	PlayerHand  []Card    `json:"playerHand"`
	DealerHand  []Card    `json:"dealerHand"`
	PlayerValue int       `json:"playerValue"`
	DealerValue int       `json:"dealerValue"`
	Outcome     Outcome   `json:"outcome"`
	PlayedAt    time.Time `json:"playedAt"`
}

// BlackjackGame runs a single round between the player and the dealer
type BlackjackGame struct {
	ID      string
	Deck    *Deck
	Player  *Player
	Dealer  *Player
	Status  GameStatus
	Outcome Outcome

	in  *bufio.Reader
	out io.Writer
}

// NewBlackjackGame creates a round reading decisions from in and writing the table to out
func NewBlackjackGame(deck *Deck, in io.Reader, out io.Writer) *BlackjackGame {
	return &BlackjackGame{
		ID:     uuid.New().String(),
		Deck:   deck,
		Player: NewPlayer(PlayerName),
		Dealer: NewPlayer(DealerName),
		Status: Dealing,
		in:     bufio.NewReader(in),
		out:    out,
	}
}

// Play runs the round to completion.
// Running out of cards aborts the round with an error wrapping ErrEmptyDeck.
func (g *BlackjackGame) Play() (*Result, error) {
	if err := g.dealInitialCards(); err != nil {
		return nil, err
	}

	if err := g.playerTurn(); err != nil {
		return nil, err
	}

	if g.Player.IsBusted() {
		return g.finish(PlayerBust)
	}

	if err := g.dealerTurn(); err != nil {
		return nil, err
	}

	if err := g.println(g.Dealer.ShowHand()); err != nil {
		return nil, err
	}

	return g.finish(g.DetermineOutcome())
}

// dealInitialCards deals two cards each, alternating player and dealer
func (g *BlackjackGame) dealInitialCards() error {
	g.Status = Dealing

	for i := 0; i < 2; i++ {
		if err := g.Player.Draw(g.Deck); err != nil {
			return fmt.Errorf("dealing player: %w", err)
		}
		if err := g.Dealer.Draw(g.Deck); err != nil {
			return fmt.Errorf("dealing dealer: %w", err)
		}
	}

	log.Printf("Round %s dealt, %d cards left", g.ID, g.Deck.RemainingCards())

	if err := g.println(g.Player.ShowHand()); err != nil {
		return err
	}
	// Dealer's second card stays face down
	return g.println(g.Dealer.ShowFirstCard())
}

// playerTurn prompts until the player stands or reaches 21 or more
func (g *BlackjackGame) playerTurn() error {
	g.Status = PlayerTurn

	for g.Player.HandValue() < BlackjackScore {
		hit, err := g.askHit()
		if err != nil {
			return err
		}
		if !hit {
			log.Printf("Round %s: player stands on %d", g.ID, g.Player.HandValue())
			break
		}

		if err := g.Player.Draw(g.Deck); err != nil {
			return fmt.Errorf("player hit: %w", err)
		}
		if err := g.println(g.Player.ShowHand()); err != nil {
			return err
		}
	}

	return nil
}

// askHit prompts once. Anything other than "h", including end of input, stands.
func (g *BlackjackGame) askHit() (bool, error) {
	if _, err := io.WriteString(g.out, hitPrompt); err != nil {
		return false, err
	}

	line, err := g.in.ReadString('\n')
	if err != nil && line == "" {
		if err != io.EOF {
			log.Printf("Round %s: reading input: %v", g.ID, err)
		}
		// Keep the next output line off the prompt line
		return false, g.println("")
	}

	return strings.ToLower(strings.TrimSpace(line)) == hitAction, nil
}

// dealerTurn draws for the dealer until the hand is worth at least 17
func (g *BlackjackGame) dealerTurn() error {
	g.Status = DealerTurn

	for g.Dealer.HandValue() < DealerStandsAt {
		if err := g.Dealer.Draw(g.Deck); err != nil {
			return fmt.Errorf("dealer hit: %w", err)
		}
	}

	log.Printf("Round %s: dealer stands on %d with %d cards", g.ID, g.Dealer.HandValue(), len(g.Dealer.Hand))
	return nil
}

// DetermineOutcome compares hands once the dealer has played
func (g *BlackjackGame) DetermineOutcome() Outcome {
	playerScore := g.Player.HandValue()
	dealerScore := g.Dealer.HandValue()

	switch {
	case g.Player.IsBusted():
		return PlayerBust
	case dealerScore > BlackjackScore:
		return DealerBust
	case playerScore > dealerScore:
		return PlayerWins
	case playerScore < dealerScore:
		return DealerWins
	default:
		return Tie
	}
}

func (g *BlackjackGame) finish(outcome Outcome) (*Result, error) {
	g.Outcome = outcome
	g.Status = Completed

	if err := g.println(outcome.Message()); err != nil {
		return nil, err
	}

	if g.Player.IsBlackjack() {
		log.Printf("Round %s: player had blackjack", g.ID)
	}
	log.Printf("Round %s completed: %s (%d vs %d)", g.ID, outcome, g.Player.HandValue(), g.Dealer.HandValue())

	return g.Result(), nil
}

// Result returns the round summary; it is only meaningful once Completed
func (g *BlackjackGame) Result() *Result {
	return &Result{
		RoundID:     g.ID,
		PlayerHand:  append([]Card(nil), g.Player.Hand...),
		DealerHand:  append([]Card(nil), g.Dealer.Hand...),
		PlayerValue: g.Player.HandValue(),
		DealerValue: g.Dealer.HandValue(),
		Outcome:     g.Outcome,
		PlayedAt:    time.Now(),
	}
}

func (g *BlackjackGame) println(line string) error {
	_, err := fmt.Fprintln(g.out, line)
	return err
}
