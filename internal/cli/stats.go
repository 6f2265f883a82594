package cli

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/olekukonko/tablewriter"

	"github.com/Balthazzahr/scry-daemon/internal/domain"
	"github.com/Balthazzahr/scry-daemon/internal/store"
)

// StatsCmd shows recorded match statistics
type StatsCmd struct {
	Limit int `default:"10" help:"How many recent matches to list"`
}

// Run executes the stats command
func (c *StatsCmd) Run(globals *Globals) error {
	st := store.New(globals.Config.StateFile(), globals.Logger)
	state := st.Load()
	matches := state.Matches
	if len(matches) == 0 {
		fmt.Fprintln(globals.Stdout, "No matches recorded yet. Run 'scryd monitor' and play a match.")
		return nil
	}

	title := func(s string) string { return s }
	if f, ok := globals.Stdout.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		style := lipgloss.NewStyle().Bold(true)
		title = func(s string) string { return style.Render(s) }
	}

	now := time.Now()
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).Unix()
	seasonStart := domain.SeasonStart(now).Unix()

	fmt.Fprintln(globals.Stdout, title("Record"))
	overview := tablewriter.NewTable(globals.Stdout)
	overview.Header("Window", "Wins", "Losses", "Rate")
	for _, window := range []struct {
		Name  string
		Since int64
	}{
		{"Today", todayStart},
		{"Season", seasonStart},
		{"All-Time", 0},
	} {
		wins, losses := domain.WinLoss(matches, window.Since)
		overview.Append([]string{
			window.Name, strconv.Itoa(wins), strconv.Itoa(losses), domain.FormatRate(wins, losses),
		})
	}
	overview.Render()

	fmt.Fprintln(globals.Stdout)
	fmt.Fprintln(globals.Stdout, title("Decks"))
	decks := tablewriter.NewTable(globals.Stdout)
	decks.Header("Deck", "Wins", "Losses", "Rate")
	for _, name := range deckNames(matches) {
		wins, losses := domain.DeckWinLoss(matches, name)
		decks.Append([]string{
			name, strconv.Itoa(wins), strconv.Itoa(losses), domain.FormatRate(wins, losses),
		})
	}
	decks.Render()

	fmt.Fprintln(globals.Stdout)
	fmt.Fprintln(globals.Stdout, title("Recent matches"))
	recent := tablewriter.NewTable(globals.Stdout)
	recent.Header("Date", "Result", "Deck", "Opponent", "Format", "Turns", "Duration")
	limit := c.Limit
	if limit <= 0 || limit > len(matches) {
		limit = len(matches)
	}
	for i := len(matches) - 1; i >= len(matches)-limit; i-- {
		m := matches[i]
		opponent := m.Opponent
		if !domain.IsGenericName(m.OpponentCommander) {
			opponent += " (" + m.OpponentCommander + ")"
		}
		recent.Append([]string{
			m.Date, string(m.Result), m.DeckName, opponent, m.Format,
			strconv.Itoa(m.Turns), formatDuration(m.DurationSeconds),
		})
	}
	recent.Render()

	return nil
}

// deckNames returns the deck labels in history ordered by games played.
func deckNames(matches []domain.MatchRecord) []string {
	counts := make(map[string]int)
	var names []string
	for _, m := range matches {
		if _, ok := counts[m.DeckName]; !ok {
			names = append(names, m.DeckName)
		}
		counts[m.DeckName]++
	}
	sort.SliceStable(names, func(i, j int) bool {
		return counts[names[i]] > counts[names[j]]
	})
	return names
}

func formatDuration(seconds int) string {
	if seconds <= 0 {
		return "n/a"
	}
	return fmt.Sprintf("%dm %ds", seconds/60, seconds%60)
}
