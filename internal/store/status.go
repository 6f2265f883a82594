package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Balthazzahr/scry-daemon/internal/domain"
)

// Snapshot is the compact status document consumed by the waybar widget.
type Snapshot struct {
	Text    string `json:"text"`
	Tooltip string `json:"tooltip"`
	Class   string `json:"class"`
	Markup  string `json:"markup"`
	Alt     string `json:"alt"`
}

// Status classes form a small fixed vocabulary.
const (
	ClassWaiting = "waiting"
	ClassActive  = "active"
	ClassWin     = "win"
	ClassLoss    = "loss"
)

// resultFlashWindow is how long the win/loss flourish stays on the bar
// after a match ends.
const resultFlashWindow = 3 * time.Second

// Mana font glyphs and display colors, keyed by WUBRG letter.
var manaGlyphs = map[string][2]string{
	"W": {"", "#f8f1d1"},
	"U": {"", "#1ca3ec"},
	"B": {"", "#bababa"},
	"R": {"", "#fb4d42"},
	"G": {"", "#1d9145"},
	"C": {"", "#bababa"},
}

const idleGlyph = "<span font='Mana' size='140%' foreground='#fb4d42'></span>"

// StatusInput carries everything the publisher needs to render a snapshot.
type StatusInput struct {
	State       *domain.MatchState
	History     []domain.MatchRecord
	LastResult  domain.Result
	LastGameEnd time.Time
	Now         time.Time
}

// Publisher writes the status snapshot file.
type Publisher struct {
	path   string
	logger *zap.Logger
}

// NewPublisher creates a publisher targeting path.
func NewPublisher(path string, logger *zap.Logger) *Publisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Publisher{path: path, logger: logger}
}

// Publish renders and writes the snapshot. Failures are logged, never
// returned: the status bar is advisory.
func (p *Publisher) Publish(in StatusInput) {
	snap := Render(in)
	data, err := json.Marshal(snap)
	if err != nil {
		p.logger.Warn("could not encode status snapshot", zap.Error(err))
		return
	}
	if err := os.MkdirAll(filepath.Dir(p.path), 0o755); err != nil {
		p.logger.Warn("could not create status dir", zap.Error(err))
		return
	}
	tmp := p.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		p.logger.Warn("could not write status snapshot", zap.Error(err))
		return
	}
	if err := os.Rename(tmp, p.path); err != nil {
		p.logger.Warn("could not replace status snapshot", zap.Error(err))
	}
}

// Render builds a snapshot from the current evidence. Pure; tested directly.
func Render(in StatusInput) Snapshot {
	st := in.State
	now := in.Now
	if now.IsZero() {
		now = time.Now()
	}

	icon := idleGlyph
	if st.Active {
		if pips := manaSpans(st.DeckColors, "140%"); pips != "" {
			icon = pips
		}
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	wToday, lToday := domain.WinLoss(in.History, today.Unix())
	dWins, dLosses := domain.DeckWinLoss(in.History, st.DeckName)

	class := ClassWaiting
	var text string
	flash := in.LastResult != "" && now.Sub(in.LastGameEnd) < resultFlashWindow
	switch {
	case flash && in.LastResult == domain.ResultWin:
		class = ClassWin
		text = wrap(icon, "Victory!")
	case flash && in.LastResult == domain.ResultLoss:
		class = ClassLoss
		text = wrap(icon, "Defeat")
	case st.Active:
		class = ClassActive
		switch {
		case len(st.DeckColors) == 0 && st.HeroCommander != "Unknown":
			text = wrap(icon, fmt.Sprintf("Brawl: %s [%s]", st.HeroCommander, domain.FormatRate(dWins, dLosses)))
		case len(st.DeckColors) == 0:
			text = wrap(icon, "Connecting to game...")
		default:
			text = wrap(icon, fmt.Sprintf("%s [%s]", st.DeckName, domain.FormatRate(dWins, dLosses)))
		}
	default:
		text = wrap(icon, "MTGArena | Today: "+domain.FormatRate(wToday, lToday))
	}

	alt := "waiting"
	if st.Active {
		alt = "active"
	}

	return Snapshot{
		Text:    text,
		Tooltip: renderTooltip(in, now, dWins, dLosses, wToday, lToday),
		Class:   class,
		Markup:  "pango",
		Alt:     alt,
	}
}

func wrap(icon, text string) string {
	return fmt.Sprintf("<span rise='-3000'>%s</span> <span rise='000'>%s</span>", icon, text)
}

func manaSpans(colors []string, size string) string {
	var b strings.Builder
	for _, c := range colors {
		if g, ok := manaGlyphs[c]; ok {
			fmt.Fprintf(&b, "<span font='Mana' size='%s' foreground='%s'>%s</span>", size, g[1], g[0])
		}
	}
	return b.String()
}

func renderTooltip(in StatusInput, now time.Time, dWins, dLosses, wToday, lToday int) string {
	const width = 40
	st := in.State

	var lines []string
	lines = append(lines,
		"<span foreground='#ff9800'><b>SCRY DAEMON</b></span>",
		"<span foreground='#ff9800'>"+strings.Repeat("━", width)+"</span>")

	recent := in.LastResult != "" && now.Sub(in.LastGameEnd) < 15*time.Second
	if st.Active || recent {
		heading := "RECENT MATCH"
		if st.Active {
			heading = "ACTIVE MATCH"
		}
		lines = append(lines, fmt.Sprintf("<span foreground='#64b5f6'><b>%s</b></span>", heading))

		roundInfo := ""
		if st.MaxTurns > 0 {
			roundInfo = fmt.Sprintf(" | <span foreground='#f0f0f0'>Round %d (Turn %d)</span>", (st.MaxTurns+1)/2, st.MaxTurns)
		}
		lines = append(lines, fmt.Sprintf("  <span foreground='#aaaaaa'>Format:</span> <span foreground='#f0f0f0'>%s</span>%s", st.Format, roundInfo))

		heroLife, oppLife := lifePair(st)
		lines = append(lines, "",
			fmt.Sprintf("  <span font='Mana' size='120%%'>%s</span> <span foreground='#f0f0f0'><b>You</b> (%d)</span>", manaSpans(st.DeckColors, "120%"), heroLife))
		if st.HeroCommander != "Unknown" {
			lines = append(lines, fmt.Sprintf("    <span foreground='#aaaaaa'>%s</span>", st.HeroCommander))
		}
		lines = append(lines, "  <span foreground='#aaaaaa'>vs</span>",
			fmt.Sprintf("  <span font='Mana' size='120%%'>%s</span> <span foreground='#f0f0f0'><b>%s</b> (%d)</span>", manaSpans(st.OpponentColors, "120%"), st.OpponentName, oppLife))
		if st.OpponentCommander != "Unknown" {
			lines = append(lines, fmt.Sprintf("    <span foreground='#aaaaaa'>%s</span>", st.OpponentCommander))
		}
		if st.Mulligans > 0 || st.OpponentMulligans > 0 {
			lines = append(lines, "",
				fmt.Sprintf("  <span foreground='#aaaaaa'>Mulligans:</span> <span foreground='#f0f0f0'>You %d - Opp %d</span>", st.Mulligans, st.OpponentMulligans))
		}
		lines = append(lines, "", "<span foreground='#aaaaaa'>"+strings.Repeat("─", width)+"</span>")
	}

	wSeason, lSeason := domain.WinLoss(in.History, domain.SeasonStart(now).Unix())
	wTotal, lTotal := domain.WinLoss(in.History, 0)

	lines = append(lines, "<span foreground='#64b5f6'><b>STATISTICS</b></span>",
		statRow("Current Deck", dWins, dLosses),
		statRow("Today", wToday, lToday),
		statRow("Season", wSeason, lSeason),
		statRow("All-Time", wTotal, lTotal),
		"",
		"<span foreground='#aaaaaa'>"+strings.Repeat("┈", width)+"</span>")

	return "<span size='13000'>" + strings.Join(lines, "\n") + "</span>"
}

func statRow(label string, wins, losses int) string {
	total := wins + losses
	rate := 0.0
	if total > 0 {
		rate = float64(wins) / float64(total) * 100
	}
	color := "#e57373"
	if rate >= 50 {
		color = "#81c784"
	}
	return fmt.Sprintf("  <span foreground='#aaaaaa'>%-12s</span> <span foreground='#f0f0f0'>%dW-%dL</span> (<span foreground='%s'>%.0f%%</span>)",
		label, wins, losses, color, rate)
}

// lifePair picks the local and opposing life totals, defaulting to the
// Brawl starting total when nothing has been observed yet.
func lifePair(st *domain.MatchState) (hero, opp int) {
	hero, opp = 25, 25
	if v, ok := st.LifeTotals[st.SeatID]; ok {
		hero = v
	}
	seats := make([]int, 0, len(st.LifeTotals))
	for s := range st.LifeTotals {
		seats = append(seats, s)
	}
	sort.Ints(seats)
	for _, s := range seats {
		if s != st.SeatID {
			opp = st.LifeTotals[s]
			break
		}
	}
	return hero, opp
}
