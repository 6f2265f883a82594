package domain

import "time"

// Result is the computed outcome of a finished match.
type Result string

const (
	ResultWin     Result = "win"
	ResultLoss    Result = "loss"
	ResultUnknown Result = "unknown"
)

// Rank describes the player's ladder position at the time of a match.
type Rank struct {
	Class string `json:"class,omitempty"`
	Tier  int    `json:"tier,omitempty"`
	Step  int    `json:"step,omitempty"`
}

// RankChange records a ladder movement observed during a match.
type RankChange struct {
	From Rank `json:"from"`
	To   Rank `json:"to"`
}

// MatchState is the single mutable record describing the in-progress match.
// Exactly one instance exists at a time; it is created on reset, mutated by
// the event handlers, and consumed on finalize.
type MatchState struct {
	MatchID      string
	SeatID       int // 0 = unresolved; Arena seats are 1 and 2
	TeamID       int // 0 = unresolved; may differ from SeatID
	OpponentName string

	DeckName       string
	DeckColors     []string
	OpponentColors []string

	HeroCommander       string
	HeroCommanderID     int
	OpponentCommander   string
	OpponentCommanderID int

	EventID string
	Format  string
	Variant string

	Active    bool
	StartTime time.Time
	EndTime   time.Time

	Mulligans         int
	OpponentMulligans int
	OpeningHandSize   int
	MaxTurns          int
	GoingFirst        *bool // nil until the first turn attribution resolves

	LifeTotals        map[int]int
	CardsSeen         []int
	OpponentCardsSeen []int

	Rank         Rank
	RankChange   *RankChange
	WinCondition string

	LastMulliganDecision string
	LastLoggedOppMulls   *int
}

// NewMatchState returns a fresh state carrying forward the last known deck
// label. Everything else starts unresolved; the log has to prove it.
func NewMatchState(lastDeckName string) *MatchState {
	if lastDeckName == "" {
		lastDeckName = "Unknown"
	}
	return &MatchState{
		OpponentName:      "Unknown",
		DeckName:          lastDeckName,
		HeroCommander:     "Unknown",
		OpponentCommander: "Unknown",
		Format:            "Unknown",
		LifeTotals:        make(map[int]int),
	}
}

// OpponentSeat returns the seat opposite the resolved local seat, or 0 when
// the local seat is still unknown.
func (m *MatchState) OpponentSeat() int {
	switch m.SeatID {
	case 1:
		return 2
	case 2:
		return 1
	default:
		return 0
	}
}

// MatchRecord is the immutable snapshot appended to history exactly once per
// real match.
type MatchRecord struct {
	Timestamp           int64       `json:"timestamp"`
	Date                string      `json:"date"`
	Result              Result      `json:"result"`
	Opponent            string      `json:"opponent"`
	OpponentCommander   string      `json:"opponent_commander,omitempty"`
	HeroCommander       string      `json:"hero_commander,omitempty"`
	OpponentCommanderID int         `json:"opponent_commander_id,omitempty"`
	HeroCommanderID     int         `json:"hero_commander_id,omitempty"`
	CardsSeen           []int       `json:"cards_seen,omitempty"`
	OpponentCardsSeen   []int       `json:"opponent_cards_seen,omitempty"`
	OpponentColors      []string    `json:"opponent_colors"`
	DeckName            string      `json:"deck_name"`
	DeckColors          []string    `json:"deck_colors"`
	Event               string      `json:"event,omitempty"`
	Format              string      `json:"format"`
	DurationSeconds     int         `json:"duration_seconds"`
	Turns               int         `json:"turns"`
	Mulligans           int         `json:"mulligans"`
	OpponentMulligans   int         `json:"opponent_mulligans"`
	OpeningHandSize     int         `json:"opening_hand_size,omitempty"`
	GoingFirst          *bool       `json:"going_first,omitempty"`
	WinCondition        string      `json:"win_condition,omitempty"`
	Rank                *Rank       `json:"rank,omitempty"`
	RankChange          *RankChange `json:"rank_change,omitempty"`
	MatchID             string      `json:"match_id,omitempty"`
}

// Identity is the durable cross-session record of the local player. Updated
// opportunistically, never deleted.
type Identity struct {
	PlayerID   string `json:"playerId,omitempty"`
	ScreenName string `json:"screenName,omitempty"`
}

// BaseName strips the #1234 discriminator Arena appends to screen names.
func (i Identity) BaseName() string {
	for idx := 0; idx < len(i.ScreenName); idx++ {
		if i.ScreenName[idx] == '#' {
			return i.ScreenName[:idx]
		}
	}
	return i.ScreenName
}

// Matches reports whether a participant name from the log refers to the
// local player, tolerating the optional discriminator suffix.
func (i Identity) Matches(name string) bool {
	if name == "" || i.ScreenName == "" {
		return false
	}
	return name == i.ScreenName || name == i.BaseName()
}

// State is the durable container round-tripped through the store.
type State struct {
	Matches         []MatchRecord `json:"matches"`
	HeroIdentity    Identity      `json:"hero_identity"`
	LastGameEndTime int64         `json:"last_game_end_time"`
	LastUpdated     string        `json:"last_updated,omitempty"`
	LogPath         string        `json:"log_path,omitempty"`
}
