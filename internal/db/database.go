package db

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/calvinwijaya/blackjack/internal/game"
	_ "github.com/mattn/go-sqlite3"
)

// ErrNotFound is returned when a round is not in the database
var ErrNotFound = errors.New("round not found")

type Database struct {
	db *sql.DB
}

// Stats aggregates every recorded round
type Stats struct {
	RoundsPlayed int       `json:"roundsPlayed"`
	PlayerWins   int       `json:"playerWins"`
	DealerWins   int       `json:"dealerWins"`
	Ties         int       `json:"ties"`
	LastPlayed   time.Time `json:"lastPlayed"`
}

// NewDatabase opens (or creates) the SQLite result log at path
func NewDatabase(path string) (*Database, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("error connecting to the database: %w", err)
	}

	// SQLite allows a single writer
	db.SetMaxOpenConns(1)

	if err := initTables(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Database{db: db}, nil
}

// initTables creates the necessary tables if they don't exist
func initTables(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS rounds (
			id TEXT PRIMARY KEY,
			outcome TEXT NOT NULL,
			player_value INTEGER NOT NULL,
			dealer_value INTEGER NOT NULL,
			player_hand TEXT NOT NULL,
			dealer_hand TEXT NOT NULL,
			played_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("error creating rounds table: %w", err)
	}

	return nil
}

// Close closes the database connection
func (d *Database) Close() error {
	return d.db.Close()
}

// SaveResult stores a finished round
func (d *Database) SaveResult(r *game.Result) error {
	playerHand, err := json.Marshal(r.PlayerHand)
	if err != nil {
		return err
	}
	dealerHand, err := json.Marshal(r.DealerHand)
	if err != nil {
		return err
	}

	_, err = d.db.Exec(`
		INSERT INTO rounds (id, outcome, player_value, dealer_value, player_hand, dealer_hand, played_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE
		SET outcome = excluded.outcome, player_value = excluded.player_value, dealer_value = excluded.dealer_value,
			player_hand = excluded.player_hand, dealer_hand = excluded.dealer_hand, played_at = excluded.played_at
	`,
		r.RoundID, string(r.Outcome), r.PlayerValue, r.DealerValue, string(playerHand), string(dealerHand), r.PlayedAt.UTC())
	if err != nil {
		return fmt.Errorf("error saving round %s: %w", r.RoundID, err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanResult(row rowScanner) (*game.Result, error) {
	var r game.Result
	var outcome, playerHand, dealerHand string

	if err := row.Scan(&r.RoundID, &outcome, &r.PlayerValue, &r.DealerValue, &playerHand, &dealerHand, &r.PlayedAt); err != nil {
		return nil, err
	}

	r.Outcome = game.Outcome(outcome)
	if err := json.Unmarshal([]byte(playerHand), &r.PlayerHand); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(dealerHand), &r.DealerHand); err != nil {
		return nil, err
	}

	return &r, nil
}

// GetResult retrieves a round by ID
func (d *Database) GetResult(id string) (*game.Result, error) {
	row := d.db.QueryRow(`
		SELECT id, outcome, player_value, dealer_value, player_hand, dealer_hand, played_at
		FROM rounds WHERE id = ?
	`, id)

	r, err := scanResult(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return r, err
}

// GetAllResults returns all rounds, newest first
func (d *Database) GetAllResults() ([]*game.Result, error) {
	rows, err := d.db.Query(`
		SELECT id, outcome, player_value, dealer_value, player_hand, dealer_hand, played_at
		FROM rounds ORDER BY played_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []*game.Result
	for rows.Next() {
		r, err := scanResult(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, r)
	}

	return results, rows.Err()
}

// GetStats counts rounds by who won
func (d *Database) GetStats() (*Stats, error) {
	var stats Stats

	rows, err := d.db.Query("SELECT outcome, COUNT(*) FROM rounds GROUP BY outcome")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var outcome string
		var count int
		if err := rows.Scan(&outcome, &count); err != nil {
			return nil, err
		}

		switch game.Outcome(outcome) {
		case game.PlayerWins, game.DealerBust:
			stats.PlayerWins += count
		case game.DealerWins, game.PlayerBust:
			stats.DealerWins += count
		case game.Tie:
			stats.Ties += count
		default:
			log.Printf("Skipping %d rounds with unknown outcome %q", count, outcome)
			continue
		}
		stats.RoundsPlayed += count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if stats.RoundsPlayed > 0 {
		var last sql.NullString
		// MAX() loses the column type, so parse it back
		if err := d.db.QueryRow("SELECT MAX(played_at) FROM rounds").Scan(&last); err != nil {
			return nil, err
		}
		if last.Valid {
			stats.LastPlayed = parseTimestamp(last.String)
		}
	}

	return &stats, nil
}

var timestampFormats = []string{
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02T15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
}

func parseTimestamp(s string) time.Time {
	for _, layout := range timestampFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
