package cli

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Balthazzahr/scry-daemon/internal/domain"
	"github.com/Balthazzahr/scry-daemon/internal/store"
)

// ExportCmd exports match history to a JSON or CSV file
type ExportCmd struct {
	Out string `arg:"" help:"Destination file; format follows the extension (.json or .csv)"`
}

// Run executes the export command
func (c *ExportCmd) Run(globals *Globals) error {
	st := store.New(globals.Config.StateFile(), globals.Logger)
	matches := st.Load().Matches

	switch strings.ToLower(filepath.Ext(c.Out)) {
	case ".json":
		data, err := json.MarshalIndent(matches, "", "  ")
		if err != nil {
			return err
		}
		if err := os.WriteFile(c.Out, data, 0o644); err != nil {
			return err
		}
	case ".csv":
		if err := writeCSV(c.Out, matches); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unsupported export format %q (use .json or .csv)", filepath.Ext(c.Out))
	}

	fmt.Fprintf(globals.Stdout, "Exported %d matches to %s\n", len(matches), c.Out)
	return nil
}

func writeCSV(path string, matches []domain.MatchRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	w := csv.NewWriter(f)
	header := []string{
		"date", "result", "deck", "deck_colors", "opponent", "opponent_commander",
		"opponent_colors", "format", "event", "turns", "duration_seconds",
		"mulligans", "opponent_mulligans", "going_first", "win_condition", "match_id",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, m := range matches {
		goingFirst := ""
		if m.GoingFirst != nil {
			goingFirst = strconv.FormatBool(*m.GoingFirst)
		}
		row := []string{
			m.Date,
			string(m.Result),
			m.DeckName,
			strings.Join(m.DeckColors, ""),
			m.Opponent,
			m.OpponentCommander,
			strings.Join(m.OpponentColors, ""),
			m.Format,
			m.Event,
			strconv.Itoa(m.Turns),
			strconv.Itoa(m.DurationSeconds),
			strconv.Itoa(m.Mulligans),
			strconv.Itoa(m.OpponentMulligans),
			goingFirst,
			m.WinCondition,
			m.MatchID,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}
