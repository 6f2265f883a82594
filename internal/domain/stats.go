package domain

import (
	"fmt"
	"time"
)

// setReleases anchors "season" stats to the most recent set release date.
var setReleases = []struct {
	Code string
	Date string
}{
	{"MKM", "2024-02-06"},
	{"OTJ", "2024-04-16"},
	{"MH3", "2024-06-11"},
	{"BLB", "2024-07-30"},
	{"DSK", "2024-09-24"},
	{"FDN", "2024-11-12"},
	{"DFT", "2025-02-11"},
	{"TBD", "2025-04-08"},
}

// SeasonStart returns the timestamp of the most recent set release before now.
func SeasonStart(now time.Time) time.Time {
	last := time.Date(2020, 1, 1, 0, 0, 0, 0, time.Local)
	for _, rel := range setReleases {
		t, err := time.ParseInLocation("2006-01-02", rel.Date, time.Local)
		if err != nil {
			continue
		}
		if !t.After(now) {
			last = t
		}
	}
	return last
}

// WinLoss tallies wins and losses recorded at or after since.
func WinLoss(matches []MatchRecord, since int64) (wins, losses int) {
	for _, m := range matches {
		if m.Timestamp < since {
			continue
		}
		switch m.Result {
		case ResultWin:
			wins++
		case ResultLoss:
			losses++
		}
	}
	return wins, losses
}

// DeckWinLoss tallies wins and losses for a named deck across all history.
func DeckWinLoss(matches []MatchRecord, deckName string) (wins, losses int) {
	for _, m := range matches {
		if m.DeckName != deckName {
			continue
		}
		switch m.Result {
		case ResultWin:
			wins++
		case ResultLoss:
			losses++
		}
	}
	return wins, losses
}

// FormatRate renders a "3W-1L (75%)" style record.
func FormatRate(wins, losses int) string {
	total := wins + losses
	rate := 0.0
	if total > 0 {
		rate = float64(wins) / float64(total) * 100
	}
	return fmt.Sprintf("%dW-%dL (%.0f%%)", wins, losses, rate)
}
