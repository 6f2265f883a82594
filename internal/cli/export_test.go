package cli

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Balthazzahr/scry-daemon/internal/domain"
)

func TestWriteCSV(t *testing.T) {
	goingFirst := true
	matches := []domain.MatchRecord{
		{
			Date: "2026-01-15 10:12:30", Result: domain.ResultWin,
			DeckName: "Brawl: Kenrith, the Returned King", DeckColors: []string{"W", "U", "B", "R", "G"},
			Opponent: "Villain#54321", OpponentCommander: "Atraxa, Grand Unifier",
			OpponentColors: []string{"W", "U", "B", "G"},
			Format:         "Brawl", Event: "Play_Brawl_Bo1",
			Turns: 9, DurationSeconds: 745, Mulligans: 1,
			GoingFirst: &goingFirst, WinCondition: "Game Win", MatchID: "MID-1",
		},
		{
			Date: "2026-01-15 11:00:00", Result: domain.ResultLoss,
			DeckName: "Izzet Phoenix", Opponent: "Other#1", Format: "Standard",
		},
	}

	path := filepath.Join(t.TempDir(), "matches.csv")
	require.NoError(t, writeCSV(path, matches))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "date", rows[0][0])
	assert.Equal(t, "match_id", rows[0][len(rows[0])-1])

	assert.Equal(t, "win", rows[1][1])
	assert.Equal(t, "WUBRG", rows[1][3])
	assert.Equal(t, "Atraxa, Grand Unifier", rows[1][5])
	assert.Equal(t, "745", rows[1][10])
	assert.Equal(t, "true", rows[1][13])

	// Unset optional fields come out empty, not zero-valued guesses.
	assert.Equal(t, "loss", rows[2][1])
	assert.Equal(t, "", rows[2][13])
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "n/a", formatDuration(0))
	assert.Equal(t, "12m 34s", formatDuration(754))
}
