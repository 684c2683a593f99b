package main

import (
	"bytes"
	"errors"
	"flag"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/calvinwijaya/blackjack/internal/db"
	"github.com/calvinwijaya/blackjack/internal/game"
	"github.com/calvinwijaya/blackjack/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

// runCLI runs with every prompt answered by end of input, so the player stands
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := run(args, strings.NewReader(""), &out, io.Discard)
	return out.String(), err
}

func openDatabase(t *testing.T, path string) *db.Database {
	t.Helper()
	database, err := db.NewDatabase(path)
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return database
}

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) {
	return 0, errors.New("write failed")
}

func TestRun_SameSeedSameRound(t *testing.T) {
	first, err := runCLI(t, "-seed", "7")
	require.NoError(t, err)
	second, err := runCLI(t, "-seed", "7")
	require.NoError(t, err)

	assert.Contains(t, first, "Player's hand: ")
	assert.Contains(t, first, "Dealer shows: ")
	assert.Equal(t, first, second)
}

func TestRun_WithoutFlagsWritesNoFiles(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(wd) })

	_, err = runCLI(t)
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRun_RecordsRoundInDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "blackjack.db")

	_, err := runCLI(t, "-db", path, "-seed", "3")
	require.NoError(t, err)

	stats, err := openDatabase(t, path).GetStats()
	require.NoError(t, err)
	assert.Equal(t, 1, stats.RoundsPlayed)
	assert.Equal(t, 1, stats.PlayerWins+stats.DealerWins+stats.Ties)
}

func TestRun_HistoryAndRoundReadBackRecordedRounds(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blackjack.db")

	for _, seed := range []string{"1", "2"} {
		_, err := runCLI(t, "-db", path, "-seed", seed)
		require.NoError(t, err)
	}

	out, err := runCLI(t, "-db", path, "-history", "1")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 1)

	roundID := strings.Fields(lines[0])[0]
	out, err = runCLI(t, "-db", path, "-round", roundID)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "Round "+roundID+", played "))
	assert.Contains(t, out, "\nPlayer's hand: ")
	assert.Contains(t, out, "\nDealer's hand: ")

	out, err = runCLI(t, "-db", path, "-stats")
	require.NoError(t, err)
	assert.Contains(t, out, "Rounds played: 2\n")
}

func TestRun_UnknownRound(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blackjack.db")

	_, err := runCLI(t, "-db", path, "-round", "missing")
	assert.ErrorIs(t, err, store.ErrResultNotFound)
}

func TestRun_ReportsRequireDatabase(t *testing.T) {
	for _, args := range [][]string{{"-stats"}, {"-history", "3"}, {"-round", "abc"}} {
		out, err := runCLI(t, args...)
		assert.Error(t, err, "args %v", args)
		assert.Empty(t, out, "args %v", args)
	}
}

func TestRun_EmptyDeckAbortsRound(t *testing.T) {
	orig := newDeck
	newDeck = func(int64) *game.Deck {
		return game.NewDeckFromCards(
			game.Card{Suit: game.Spades, Rank: game.Ten},
			game.Card{Suit: game.Clubs, Rank: game.Two},
			game.Card{Suit: game.Hearts, Rank: game.Nine},
		)
	}
	t.Cleanup(func() { newDeck = orig })

	path := filepath.Join(t.TempDir(), "blackjack.db")
	_, err := runCLI(t, "-db", path)
	require.Error(t, err)
	assert.ErrorIs(t, err, game.ErrEmptyDeck)
	assert.True(t, strings.HasPrefix(err.Error(), "round aborted: "))

	stats, err := openDatabase(t, path).GetStats()
	require.NoError(t, err)
	assert.Equal(t, 0, stats.RoundsPlayed)
}

func TestPrintStats_Empty(t *testing.T) {
	s := store.NewDatabaseStore(openDatabase(t, filepath.Join(t.TempDir(), "stats.db")))

	var out bytes.Buffer
	require.NoError(t, printStats(&out, s))
	assert.Equal(t, "Rounds played: 0\nPlayer wins: 0\nDealer wins: 0\nTies: 0\n", out.String())
}

func TestPrintStats_AfterRound(t *testing.T) {
	s := store.NewDatabaseStore(openDatabase(t, filepath.Join(t.TempDir(), "stats.db")))
	require.NoError(t, s.SaveResult(&game.Result{
		RoundID:  "r1",
		Outcome:  game.DealerBust,
		PlayedAt: time.Now(),
	}))

	var out bytes.Buffer
	require.NoError(t, printStats(&out, s))
	assert.Contains(t, out.String(), "Rounds played: 1\nPlayer wins: 1\n")
	assert.Contains(t, out.String(), "Last played: ")
}

func TestPrintStats_ReturnsWriteError(t *testing.T) {
	s := store.NewDatabaseStore(openDatabase(t, filepath.Join(t.TempDir(), "stats.db")))

	err := printStats(failingWriter{}, s)
	assert.EqualError(t, err, "write failed")
}

func TestPrintHistory_NoRounds(t *testing.T) {
	s := store.NewDatabaseStore(openDatabase(t, filepath.Join(t.TempDir(), "history.db")))

	var out bytes.Buffer
	require.NoError(t, printHistory(&out, s, 5))
	assert.Equal(t, "No rounds recorded.\n", out.String())
}

func TestRun_HelpDescribesDatabaseContents(t *testing.T) {
	var errOut bytes.Buffer
	err := run([]string{"-h"}, strings.NewReader(""), io.Discard, &errOut)

	assert.ErrorIs(t, err, flag.ErrHelp)
	assert.Contains(t, errOut.String(), "round summaries only")
}
