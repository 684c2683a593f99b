package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/calvinwijaya/blackjack/internal/db"
	"github.com/calvinwijaya/blackjack/internal/game"
	"github.com/calvinwijaya/blackjack/internal/store"
)

// newDeck builds the shoe for a round; replaced in tests
var newDeck = func(seed int64) *game.Deck {
	return game.NewDeck(rand.New(rand.NewSource(seed)))
}

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		log.SetOutput(os.Stderr)
		log.Fatalf("Error: %v", err)
	}
}

// run plays one round, or reports on recorded rounds when asked to
func run(args []string, in io.Reader, out, errOut io.Writer) error {
	fs := flag.NewFlagSet("blackjack", flag.ContinueOnError)
	fs.SetOutput(errOut)

	// Parse command line flags
	var (
		seed      = fs.Int64("seed", 0, "Shuffle seed (0 uses the current time)")
		dbPath    = fs.String("db", "", "Optional SQLite file recording finished round summaries only (hands and outcome, never game state)")
		showStats = fs.Bool("stats", false, "Print win/loss/tie totals from -db and exit")
		history   = fs.Int("history", 0, "List the N most recent rounds from -db and exit")
		roundID   = fs.String("round", "", "Show the hands of one recorded round from -db and exit")
		verbose   = fs.Bool("v", false, "Log diagnostics to stderr")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *verbose {
		log.SetOutput(errOut)
	} else {
		log.SetOutput(io.Discard)
	}

	reporting := *showStats || *history > 0 || *roundID != ""
	if reporting && *dbPath == "" {
		return errors.New("-stats, -history and -round require -db")
	}

	var resultStore store.Store
	if *dbPath != "" {
		// Create data directory if it doesn't exist
		if err := os.MkdirAll(filepath.Dir(*dbPath), 0755); err != nil {
			return fmt.Errorf("failed to create data directory: %w", err)
		}

		database, err := db.NewDatabase(*dbPath)
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		defer database.Close()
		log.Println("Database initialized successfully")

		resultStore = store.NewDatabaseStore(database)
	}

	switch {
	case *showStats:
		return printStats(out, resultStore)
	case *history > 0:
		return printHistory(out, resultStore, *history)
	case *roundID != "":
		return printRound(out, resultStore, *roundID)
	}

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}
	log.Printf("Shuffling with seed %d", *seed)

	g := game.NewBlackjackGame(newDeck(*seed), in, out)
	result, err := g.Play()
	if err != nil {
		return fmt.Errorf("round aborted: %w", err)
	}

	if resultStore == nil {
		return nil
	}
	if err := resultStore.SaveResult(result); err != nil {
		return fmt.Errorf("failed to record round %s: %w", result.RoundID, err)
	}
	log.Printf("Recorded round %s", result.RoundID)
	return nil
}

func printStats(w io.Writer, s store.Store) error {
	stats, err := s.GetStats()
	if err != nil {
		return fmt.Errorf("failed to read stats: %w", err)
	}

	lines := []string{
		fmt.Sprintf("Rounds played: %d", stats.RoundsPlayed),
		fmt.Sprintf("Player wins: %d", stats.PlayerWins),
		fmt.Sprintf("Dealer wins: %d", stats.DealerWins),
		fmt.Sprintf("Ties: %d", stats.Ties),
	}
	if !stats.LastPlayed.IsZero() {
		lines = append(lines, "Last played: "+stats.LastPlayed.Local().Format(time.RFC1123))
	}
	return writeLines(w, lines...)
}

func printHistory(w io.Writer, s store.Store, limit int) error {
	results, err := s.GetAllResults()
	if err != nil {
		return fmt.Errorf("failed to read history: %w", err)
	}

	if len(results) == 0 {
		return writeLines(w, "No rounds recorded.")
	}
	if len(results) > limit {
		results = results[:limit]
	}

	lines := make([]string, len(results))
	for i, r := range results {
		lines[i] = fmt.Sprintf("%s  %s  Player %d, Dealer %d  %s",
			r.RoundID, r.PlayedAt.Local().Format("2006-01-02 15:04"), r.PlayerValue, r.DealerValue, r.Outcome.Message())
	}
	return writeLines(w, lines...)
}

func printRound(w io.Writer, s store.Store, id string) error {
	r, err := s.GetResult(id)
	if err != nil {
		return fmt.Errorf("failed to read round %s: %w", id, err)
	}

	player := &game.Player{Name: game.PlayerName, Hand: r.PlayerHand}
	dealer := &game.Player{Name: game.DealerName, Hand: r.DealerHand}

	return writeLines(w,
		fmt.Sprintf("Round %s, played %s", r.RoundID, r.PlayedAt.Local().Format(time.RFC1123)),
		player.ShowHand(),
		dealer.ShowHand(),
		r.Outcome.Message(),
	)
}

// writeLines stops at the first failed write
func writeLines(w io.Writer, lines ...string) error {
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
