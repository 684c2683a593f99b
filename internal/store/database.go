package store

import (
	"errors"

	"github.com/calvinwijaya/blackjack/internal/db"
	"github.com/calvinwijaya/blackjack/internal/game"
)

// DatabaseStore is a database implementation of result storage
type DatabaseStore struct {
	db *db.Database
}

// NewDatabaseStore creates a new database store
func NewDatabaseStore(database *db.Database) *DatabaseStore {
	return &DatabaseStore{
		db: database,
	}
}

// SaveResult saves a round result to the database
func (s *DatabaseStore) SaveResult(r *game.Result) error {
	return s.db.SaveResult(r)
}

// GetResult retrieves a round result by ID
func (s *DatabaseStore) GetResult(id string) (*game.Result, error) {
	r, err := s.db.GetResult(id)
	if errors.Is(err, db.ErrNotFound) {
		return nil, ErrResultNotFound
	}
	return r, err
}

// GetAllResults returns all results in the database
func (s *DatabaseStore) GetAllResults() ([]*game.Result, error) {
	return s.db.GetAllResults()
}

// GetStats returns win/loss/tie counts from the database
func (s *DatabaseStore) GetStats() (*db.Stats, error) {
	return s.db.GetStats()
}
