// Package match reconstructs one coherent record per Arena match from the
// partial, duplicated, and occasionally contradictory evidence in the log.
package match

import (
	"sort"
	"strings"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"

	"github.com/Balthazzahr/scry-daemon/internal/cards"
	"github.com/Balthazzahr/scry-daemon/internal/domain"
	"github.com/Balthazzahr/scry-daemon/internal/frame"
	"github.com/Balthazzahr/scry-daemon/internal/router"
	"github.com/Balthazzahr/scry-daemon/internal/store"
)

const (
	// gameEndDebounce ignores repeated end-of-game signals near the first.
	gameEndDebounce = 20 * time.Second
	// statusRefreshInterval is the idle republish cadence for the bar.
	statusRefreshInterval = 15 * time.Second
	// staleThreshold abandons a match found in history replay whose last
	// activity is too old. Applies only at startup, never while tailing.
	staleThreshold = 10 * time.Minute

	msgDedupCap = 1000
)

// Deps are the collaborators injected into a Tracker.
type Deps struct {
	Resolver cards.Resolver
	Store    *store.Store
	Status   *store.Publisher
	Clock    clock.Clock
	Logger   *zap.Logger
	LogPath  string
}

// Tracker is the session state machine. It owns the single mutable
// MatchState, the frame extractor, and the router; ProcessLine drives all of
// it synchronously from the tailing loop.
type Tracker struct {
	logger   *zap.Logger
	clk      clock.Clock
	resolver cards.Resolver
	store    *store.Store
	status   *store.Publisher
	logPath  string

	extractor *frame.Extractor
	router    *router.Router

	state    *domain.MatchState
	history  []domain.MatchRecord
	identity domain.Identity

	lastDeckName   string
	lastDeckColors []string

	currentLogTime    time.Time
	lastGameEnd       time.Time
	lastResult        domain.Result
	lastStatusRefresh time.Time

	processedMatches map[string]struct{}
	msgIDs           *router.Dedup
	instanceToGrp    map[int]int

	matchStartPrinted  bool
	recording          bool
	warnedDetailedLogs bool
	currentVariant     string

	sessionWins   int
	sessionLosses int
	sessionGames  int
}

// NewTracker builds a tracker seeded from previously persisted state.
func NewTracker(initial domain.State, deps Deps) *Tracker {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Clock == nil {
		deps.Clock = clock.New()
	}

	t := &Tracker{
		logger:           deps.Logger,
		clk:              deps.Clock,
		resolver:         deps.Resolver,
		store:            deps.Store,
		status:           deps.Status,
		logPath:          deps.LogPath,
		extractor:        frame.NewExtractor(),
		history:          initial.Matches,
		identity:         initial.HeroIdentity,
		lastDeckName:     "Unknown",
		processedMatches: make(map[string]struct{}),
		msgIDs:           router.NewDedup(msgDedupCap),
		instanceToGrp:    make(map[int]int),
		recording:        true,
	}
	if initial.LastGameEndTime > 0 {
		t.lastGameEnd = time.Unix(initial.LastGameEndTime, 0)
	}

	// Carry the last known deck label forward, but only a specific one.
	if len(t.history) > 0 {
		last := t.history[len(t.history)-1]
		if !domain.IsGenericName(last.DeckName) {
			t.lastDeckName = last.DeckName
			t.lastDeckColors = append([]string(nil), last.DeckColors...)
		}
	}

	t.state = domain.NewMatchState("Unknown")

	t.router = router.New(deps.Logger)
	t.registerHandlers()
	return t
}

// ProcessLine feeds one complete log line through extraction, routing, and
// the periodic status refresh. It is the only entry point while tailing.
func (t *Tracker) ProcessLine(line string) {
	if name := ExtractDisplayName(line); name != "" && t.identity.ScreenName != name {
		t.identity.ScreenName = name
		t.logger.Info("identity confirmed", zap.String("screenName", name))
	}

	if ts, ok := ExtractTimestamp(line); ok {
		t.currentLogTime = ts
	}

	if !t.warnedDetailedLogs && strings.Contains(line, "DETAILED LOGS: DISABLED") {
		t.warnedDetailedLogs = true
		t.logger.Warn("detailed logs are disabled in the Arena client; enable Plugin Support under Account settings")
	}

	hint := ExtractEventHint(line)
	if f, ok := t.extractor.Consume(line); ok {
		t.router.Route(f, hint)
	}

	if now := t.clk.Now(); now.Sub(t.lastStatusRefresh) > statusRefreshInterval {
		t.lastStatusRefresh = now
		t.publishStatus()
	}
}

// SetRecording toggles whether finalized matches are appended to history.
// Off during the startup replay so stale matches are not re-recorded.
func (t *Tracker) SetRecording(on bool) { t.recording = on }

// CheckStale deactivates a match reconstructed from history replay when its
// last log activity is older than the staleness threshold.
func (t *Tracker) CheckStale() {
	if t.state.Active && t.clk.Now().Sub(t.currentLogTime) > staleThreshold {
		t.logger.Info("stale match detected in history replay, returning to lobby")
		t.state.Active = false
		t.publishStatus()
	}
}

// State returns the current mutable match state. Callers must not retain it
// across lines.
func (t *Tracker) State() *domain.MatchState { return t.state }

// History returns the accumulated match records.
func (t *Tracker) History() []domain.MatchRecord { return t.history }

// Identity returns the local player's identity.
func (t *Tracker) Identity() domain.Identity { return t.identity }

// SessionStats returns the wins, losses, and games recorded this process.
func (t *Tracker) SessionStats() (wins, losses, games int) {
	return t.sessionWins, t.sessionLosses, t.sessionGames
}

// Flush persists history and identity. Called on shutdown and after every
// session boundary.
func (t *Tracker) Flush() error {
	return t.saveState()
}

// ResetStats wipes accumulated history.
func (t *Tracker) ResetStats() error {
	t.logger.Info("resetting statistics")
	t.history = nil
	t.processedMatches = make(map[string]struct{})
	t.sessionWins, t.sessionLosses, t.sessionGames = 0, 0, 0
	return t.saveState()
}

// PublishStatus forces a status snapshot write.
func (t *Tracker) PublishStatus() { t.publishStatus() }

func (t *Tracker) publishStatus() {
	if t.status == nil {
		return
	}
	t.status.Publish(store.StatusInput{
		State:       t.state,
		History:     t.history,
		LastResult:  t.lastResult,
		LastGameEnd: t.lastGameEnd,
		Now:         t.clk.Now(),
	})
}

func (t *Tracker) saveState() error {
	if t.store == nil {
		return nil
	}
	st := domain.State{
		Matches:      t.history,
		HeroIdentity: t.identity,
		LogPath:      t.logPath,
	}
	if !t.lastGameEnd.IsZero() {
		st.LastGameEndTime = t.lastGameEnd.Unix()
	}
	if err := t.store.Save(st); err != nil {
		t.logger.Error("could not save state", zap.Error(err))
		return err
	}
	t.publishStatus()
	t.logger.Info("state saved", zap.Int("matches", len(t.history)))
	return nil
}

// resetCurrentMatch starts a fresh state for a new match, carrying only the
// last known deck label forward.
func (t *Tracker) resetCurrentMatch() {
	t.state = domain.NewMatchState(t.lastDeckName)
	if !t.currentLogTime.IsZero() {
		t.state.StartTime = t.currentLogTime
	}
	t.currentVariant = ""
	t.matchStartPrinted = false
	t.instanceToGrp = make(map[int]int)
	t.msgIDs.Clear()
}

func (t *Tracker) setActive(active bool) {
	if t.state.Active == active {
		return
	}
	t.state.Active = active
	if active {
		t.logger.Info("game session active")
	} else {
		t.logger.Info("game session inactive")
	}
	t.publishStatus()
}

// updateDeckName applies the label rule: a generic candidate never
// overwrites a specific current label; a specific candidate always wins and
// is persisted immediately.
func (t *Tracker) updateDeckName(name string) {
	if name == "" || name == "Unknown" {
		return
	}

	// With a known commander, rewrite generic candidates as a Brawl label.
	if t.state.HeroCommander != "Unknown" && domain.IsGenericName(name) {
		name = "Brawl: " + t.state.HeroCommander
	}

	current := t.state.DeckName
	if domain.IsGenericName(name) && !domain.IsGenericName(current) {
		return
	}
	if name == current {
		return
	}

	t.logger.Info("deck identified", zap.String("deck", name))
	t.state.DeckName = name
	t.lastDeckName = name
	t.publishStatus()
	if t.state.Active {
		_ = t.saveState()
	}
}

// updateFormat re-derives the format label from the current variant and
// event id evidence.
func (t *Tracker) updateFormat() {
	if f := classifyFormat(t.currentVariant, t.state.EventID); f != "" {
		t.state.Format = f
	}
}

func (t *Tracker) printMatchStart() {
	eventName := domain.FormatEventName(t.state.EventID)
	display := t.state.Format
	if eventName != display && eventName != "Unknown Event" {
		display = t.state.Format + " (" + eventName + ")"
	}

	fields := []zap.Field{
		zap.String("format", display),
		zap.String("player", t.identity.ScreenName),
		zap.Strings("deckColors", t.state.DeckColors),
		zap.String("opponent", t.state.OpponentName),
		zap.Strings("opponentColors", t.state.OpponentColors),
	}
	if t.state.OpponentCommander != "Unknown" {
		fields = append(fields, zap.String("opponentCommander", t.state.OpponentCommander))
	}
	if t.state.GoingFirst != nil {
		fields = append(fields, zap.Bool("onThePlay", *t.state.GoingFirst))
	}
	t.logger.Info("match started", fields...)
	t.matchStartPrinted = true
}

// identifyCommander applies a commander candidate to the owning side.
// Sticky: once a side's commander is a specific name, later candidates are
// ignored. A candidate matching the already-known hero commander may correct
// the hero seat instead.
func (t *Tracker) identifyCommander(grpID, ownerSeat int) {
	card := t.resolver.Resolve(grpID)
	name := card.Name
	changed := false

	isHero := false
	switch {
	case !domain.IsGenericName(t.state.HeroCommander) && t.state.HeroCommander == name:
		if t.state.SeatID != ownerSeat && ownerSeat != 0 {
			t.logger.Info("correcting hero seat from commander ownership",
				zap.Int("seat", ownerSeat), zap.String("commander", name))
			t.state.SeatID = ownerSeat
			changed = true
		}
		isHero = true
	case t.state.SeatID != 0:
		isHero = ownerSeat == t.state.SeatID
	}

	if isHero {
		if domain.IsGenericName(t.state.HeroCommander) {
			t.state.HeroCommanderID = grpID
			t.state.HeroCommander = name

			identity := card.ColorIdentity
			if len(identity) == 0 {
				if byName, ok := t.resolver.ResolveByName(name); ok {
					identity = byName.ColorIdentity
				}
			}
			if len(identity) > 0 {
				t.state.DeckColors, _ = domain.MergeColors(t.state.DeckColors, identity...)
				t.lastDeckColors = t.state.DeckColors
			}
			if domain.IsGenericName(t.state.DeckName) {
				t.updateDeckName("Brawl: " + name)
			}
			t.logger.Info("hero commander identified",
				zap.String("commander", name), zap.Strings("colors", t.state.DeckColors))
			t.publishStatus()
			changed = true
		}
	} else {
		if domain.IsGenericName(t.state.OpponentCommander) {
			t.state.OpponentCommanderID = grpID
			t.state.OpponentCommander = name

			identity := card.ColorIdentity
			if len(identity) == 0 {
				if byName, ok := t.resolver.ResolveByName(name); ok {
					identity = byName.ColorIdentity
				}
			}
			t.state.OpponentColors, _ = domain.MergeColors(t.state.OpponentColors, identity...)
			t.logger.Info("opponent commander identified",
				zap.String("commander", name), zap.Strings("colors", t.state.OpponentColors))
			t.publishStatus()
			changed = true
		}
	}

	if changed {
		_ = t.saveState()
	}
}

// extractDeckColors derives a color identity from a submitted deck list.
func (t *Tracker) extractDeckColors(deck frameValue) []string {
	if !deck.Exists() {
		return nil
	}
	set := make(map[string]struct{})

	mainDeck := deck.Get("mainDeck")
	if !mainDeck.Exists() {
		mainDeck = deck.Get("MainDeck")
	}
	mainDeck.ForEach(func(_, card frameValue) bool {
		grpID := card.Get("grpId")
		if !grpID.Exists() {
			grpID = card.Get("cardId")
		}
		if grpID.Exists() {
			info := t.resolver.Resolve(int(grpID.Int()))
			for _, c := range info.ColorIdentity {
				set[c] = struct{}{}
			}
			if len(info.ColorIdentity) == 0 {
				for _, c := range info.Colors {
					set[c] = struct{}{}
				}
			}
		}

		colors := card.Get("colors")
		if !colors.Exists() {
			colors = card.Get("color")
		}
		colors.ForEach(func(_, cv frameValue) bool {
			addColorValue(set, cv)
			return true
		})
		return true
	})

	commandZone := deck.Get("CommandZone")
	if !commandZone.Exists() {
		commandZone = deck.Get("commandZone")
	}
	commandZone.ForEach(func(_, entry frameValue) bool {
		id := commandZoneCardID(entry)
		if id != 0 {
			info := t.resolver.Resolve(id)
			for _, c := range info.ColorIdentity {
				set[c] = struct{}{}
			}
		}
		return true
	})

	out := make([]string, 0, len(set))
	for c := range set {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}
