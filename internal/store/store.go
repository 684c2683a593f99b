package store

import (
	"errors"

	"github.com/calvinwijaya/blackjack/internal/db"
	"github.com/calvinwijaya/blackjack/internal/game"
)

// ErrResultNotFound is returned when no round with the given ID was recorded
var ErrResultNotFound = errors.New("round result not found")

// Store defines the interface for finished round results
type Store interface {
	// SaveResult records the outcome of a finished round
	SaveResult(r *game.Result) error

	// GetResult retrieves a round result by round ID
	GetResult(id string) (*game.Result, error)

	// GetAllResults returns all recorded rounds, newest first
	GetAllResults() ([]*game.Result, error)

	// GetStats summarizes who won the recorded rounds
	GetStats() (*db.Stats, error)
}
