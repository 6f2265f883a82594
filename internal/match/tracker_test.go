package match

import (
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Balthazzahr/scry-daemon/internal/cards"
	"github.com/Balthazzahr/scry-daemon/internal/domain"
)

// stubResolver serves a fixed card table without touching disk or network.
type stubResolver struct {
	table map[int]cards.Card
}

func (s *stubResolver) Resolve(id int) cards.Card {
	if c, ok := s.table[id]; ok {
		return c
	}
	return cards.Placeholder(id)
}

func (s *stubResolver) ResolveByName(name string) (cards.Card, bool) {
	for _, c := range s.table {
		if c.Name == name {
			return c, true
		}
	}
	return cards.Card{}, false
}

func (s *stubResolver) Remember(int, string) {}
func (s *stubResolver) FlushCache() error    { return nil }

func newTestResolver() *stubResolver {
	return &stubResolver{table: map[int]cards.Card{
		555: {ID: 555, Name: "Atraxa, Grand Unifier", TypeLine: "Legendary Creature - Phyrexian Angel",
			ColorIdentity: []string{"W", "U", "B", "G"}, IsLegendary: true, IsCommander: true},
		600: {ID: 600, Name: "Kenrith, the Returned King", TypeLine: "Legendary Creature - Human Noble",
			ColorIdentity: []string{"W", "U", "B", "R", "G"}, IsLegendary: true, IsCommander: true},
		777: {ID: 777, Name: "Ghalta, Primal Hunger", TypeLine: "Legendary Creature - Elder Dinosaur",
			ColorIdentity: []string{"G"}, IsLegendary: true, IsCommander: true},
		12: {ID: 12, Name: "Lightning Strike", TypeLine: "Instant", ColorIdentity: []string{"R"}},
	}}
}

func newTestTracker(t *testing.T, initial domain.State) (*Tracker, *clock.Mock) {
	t.Helper()
	mock := clock.NewMock()
	mock.Set(time.Date(2026, 1, 15, 10, 0, 0, 0, time.Local))
	return NewTracker(initial, Deps{
		Resolver: newTestResolver(),
		Clock:    mock,
	}), mock
}

// feed delivers a timestamp line followed by a payload line, the way the
// client interleaves them.
func feed(tr *Tracker, ts, payload string) {
	tr.ProcessLine("[UnityCrossThreadLogger]" + ts)
	tr.ProcessLine(payload)
}

const (
	authLine = `{"authenticateResponse":{"clientId":"HERO-123","screenName":"Hero#11111"}}`

	matchCreatedLine = `{"matchCreated":{"matchId":"MID-1","eventId":"Play_Brawl_Bo1","teams":[` +
		`{"id":1,"players":[{"systemSeatId":1,"userId":"HERO-123","playerName":"Hero#11111"}]},` +
		`{"id":2,"players":[{"systemSeatId":2,"userId":"OPP-1","playerName":"Villain#54321","deckSummary":{"commanderCards":[555]}}]}]}}`

	winLine = `{"greToClientEvent":{"greToClientMessages":[{"type":"GREMessageType_GameStateMessage","msgId":30,"systemSeatIds":[1],` +
		`"gameStateMessage":{"type":"GameStateType_Diff","gameInfo":{"stage":"GameStage_GameOver",` +
		`"results":[{"scope":"MatchScope_Match","result":"ResultType_WinLoss","winningTeamId":1,"winningReason":"WinCondition_Game"}]}}}]}}`
)

func TestFullMatchRecordsWin(t *testing.T) {
	tr, _ := newTestTracker(t, domain.State{})

	feed(tr, "1/15/2026 10:00:00 AM", authLine)
	assert.Equal(t, "Hero#11111", tr.Identity().ScreenName)

	feed(tr, "1/15/2026 10:00:05 AM", matchCreatedLine)
	st := tr.State()
	assert.True(t, st.Active)
	assert.Equal(t, "MID-1", st.MatchID)
	assert.Equal(t, "Play_Brawl_Bo1", st.EventID)
	assert.Equal(t, "Brawl", st.Format)
	assert.Equal(t, 1, st.SeatID)
	assert.Equal(t, 1, st.TeamID)
	assert.Equal(t, "Villain#54321", st.OpponentName)
	assert.Equal(t, "Atraxa, Grand Unifier", st.OpponentCommander)
	assert.ElementsMatch(t, []string{"W", "U", "B", "G"}, st.OpponentColors)

	feed(tr, "1/15/2026 10:00:30 AM",
		`{"greToClientEvent":{"greToClientMessages":[{"type":"GREMessageType_GameStateMessage","msgId":21,"systemSeatIds":[1],`+
			`"gameStateMessage":{"type":"GameStateType_Full","turnInfo":{"turnNumber":1,"activePlayer":1},"gameInfo":{"variant":"GameVariant_Brawl"}}}]}}`)
	require.NotNil(t, tr.State().GoingFirst)
	assert.True(t, *tr.State().GoingFirst)
	assert.Equal(t, 1, tr.State().MaxTurns)

	feed(tr, "1/15/2026 10:05:00 AM",
		`{"greToClientEvent":{"greToClientMessages":[{"type":"GREMessageType_GameStateMessage","msgId":22,"systemSeatIds":[1],`+
			`"gameStateMessage":{"type":"GameStateType_Diff","turnInfo":{"turnNumber":5,"activePlayer":2}}}]}}`)
	assert.Equal(t, 5, tr.State().MaxTurns)
	assert.True(t, *tr.State().GoingFirst)

	feed(tr, "1/15/2026 10:06:00 AM",
		`{"greToClientEvent":{"greToClientMessages":[{"type":"GREMessageType_MulliganReq","msgId":23,"systemSeatIds":[2],`+
			`"mulliganReq":{"systemSeatId":2,"mulliganCount":1}}]}}`)
	assert.Equal(t, 1, tr.State().OpponentMulligans)

	feed(tr, "1/15/2026 10:06:10 AM",
		`{"greToClientEvent":{"greToClientMessages":[{"type":"GREMessageType_MulliganReq","msgId":24,"systemSeatIds":[1],`+
			`"mulliganReq":{"systemSeatId":1,"mulliganCount":1}}]}}`)
	assert.Equal(t, 1, tr.State().Mulligans)

	feed(tr, "1/15/2026 10:12:30 AM", winLine)

	hist := tr.History()
	require.Len(t, hist, 1)
	rec := hist[0]
	assert.Equal(t, domain.ResultWin, rec.Result)
	assert.Equal(t, "Villain#54321", rec.Opponent)
	assert.Equal(t, "Atraxa, Grand Unifier", rec.OpponentCommander)
	assert.Equal(t, "Play_Brawl_Bo1", rec.Event)
	assert.Equal(t, "Brawl", rec.Format)
	assert.Equal(t, 5, rec.Turns)
	assert.Equal(t, 1, rec.Mulligans)
	assert.Equal(t, 1, rec.OpponentMulligans)
	assert.Equal(t, 745, rec.DurationSeconds)
	assert.Equal(t, "Game Win", rec.WinCondition)
	assert.Equal(t, "MID-1", rec.MatchID)
	require.NotNil(t, rec.GoingFirst)
	assert.True(t, *rec.GoingFirst)

	wins, losses, games := tr.SessionStats()
	assert.Equal(t, 1, wins)
	assert.Equal(t, 0, losses)
	assert.Equal(t, 1, games)

	// Finalizing returns the tracker to the lobby state.
	assert.False(t, tr.State().Active)
	assert.Equal(t, "", tr.State().MatchID)
}

func TestRepeatedEndSignalsRecordOnce(t *testing.T) {
	tr, _ := newTestTracker(t, domain.State{})

	feed(tr, "1/15/2026 10:00:00 AM", authLine)
	feed(tr, "1/15/2026 10:00:05 AM", matchCreatedLine)
	feed(tr, "1/15/2026 10:12:30 AM", winLine)
	require.Len(t, tr.History(), 1)

	// The log re-emits the end signal in several payload shapes within a
	// few seconds; the debounce absorbs them.
	dup := `{"greToClientEvent":{"greToClientMessages":[{"type":"GREMessageType_GameStateMessage","msgId":31,"systemSeatIds":[1],` +
		`"gameStateMessage":{"gameInfo":{"results":[{"winningTeamId":1}]}}}]}}`
	feed(tr, "1/15/2026 10:12:35 AM", dup)
	feed(tr, "1/15/2026 10:12:44 AM", dup)

	assert.Len(t, tr.History(), 1)
	_, _, games := tr.SessionStats()
	assert.Equal(t, 1, games)
}

func TestReplayedMatchIsNotRecordedTwice(t *testing.T) {
	tr, _ := newTestTracker(t, domain.State{})

	feed(tr, "1/15/2026 10:00:00 AM", authLine)
	feed(tr, "1/15/2026 10:00:05 AM", matchCreatedLine)
	feed(tr, "1/15/2026 10:12:30 AM", winLine)
	require.Len(t, tr.History(), 1)

	// A reconnect replays the whole match, end signal included, well past
	// the debounce window. The processed-match set catches it.
	feed(tr, "1/15/2026 10:13:30 AM", matchCreatedLine)
	feed(tr, "1/15/2026 10:13:35 AM", winLine)

	assert.Len(t, tr.History(), 1)
	_, _, games := tr.SessionStats()
	assert.Equal(t, 1, games)
	assert.False(t, tr.State().Active)
}

func TestUnresolvedSideIsNotRecorded(t *testing.T) {
	tr, _ := newTestTracker(t, domain.State{})

	// An end signal with no team evidence at all. Guessing the side here
	// would poison the statistics.
	feed(tr, "1/15/2026 10:12:30 AM", winLine)

	assert.Empty(t, tr.History())
	wins, losses, games := tr.SessionStats()
	assert.Equal(t, 0, wins)
	assert.Equal(t, 0, losses)
	assert.Equal(t, 1, games)
}

func TestRecordingGateSkipsReplayedHistory(t *testing.T) {
	tr, _ := newTestTracker(t, domain.State{})
	tr.SetRecording(false)

	feed(tr, "1/15/2026 10:00:00 AM", authLine)
	feed(tr, "1/15/2026 10:00:05 AM", matchCreatedLine)
	feed(tr, "1/15/2026 10:12:30 AM", winLine)

	assert.Empty(t, tr.History())
	_, _, games := tr.SessionStats()
	assert.Equal(t, 0, games)

	// Back to live tailing: the replayed match stays recorded-once even if
	// its end signal shows up again.
	tr.SetRecording(true)
	feed(tr, "1/15/2026 10:13:30 AM", matchCreatedLine)
	feed(tr, "1/15/2026 10:13:35 AM", winLine)
	assert.Empty(t, tr.History())
}

func TestDuplicateMsgIDIsIgnored(t *testing.T) {
	tr, _ := newTestTracker(t, domain.State{})

	line := `{"greToClientEvent":{"greToClientMessages":[{"type":"GREMessageType_GameStateMessage","msgId":40,"systemSeatIds":[1],` +
		`"gameStateMessage":{"turnInfo":{"turnNumber":5,"activePlayer":1}}}]}}`
	feed(tr, "1/15/2026 10:00:00 AM", line)
	assert.Equal(t, 5, tr.State().MaxTurns)

	replayed := `{"greToClientEvent":{"greToClientMessages":[{"type":"GREMessageType_GameStateMessage","msgId":40,"systemSeatIds":[1],` +
		`"gameStateMessage":{"turnInfo":{"turnNumber":9,"activePlayer":1}}}]}}`
	feed(tr, "1/15/2026 10:00:10 AM", replayed)
	assert.Equal(t, 5, tr.State().MaxTurns)
}

func TestGameRoomStateAssignsSeatsByName(t *testing.T) {
	tr, _ := newTestTracker(t, domain.State{})

	feed(tr, "1/15/2026 10:00:00 AM", authLine)
	feed(tr, "1/15/2026 10:00:05 AM",
		`{"matchGameRoomStateChangedEvent":{"matchId":"MID-2","gameRoomInfo":{"stateType":"MatchGameRoomStateType_Playing",`+
			`"gameRoomConfig":{"eventId":"Ranked_Brawl","reservedPlayers":[`+
			`{"playerName":"Hero#11111","systemSeatId":1,"teamId":1},`+
			`{"playerName":"Villain#54321","systemSeatId":2,"teamId":2}]}}}}`)

	st := tr.State()
	assert.Equal(t, "MID-2", st.MatchID)
	assert.Equal(t, 1, st.SeatID)
	assert.Equal(t, 1, st.TeamID)
	assert.Equal(t, "Villain#54321", st.OpponentName)
	assert.Equal(t, "Ranked_Brawl", st.EventID)
	assert.Equal(t, "Brawl", st.Format)
}

func TestCommanderIsSticky(t *testing.T) {
	tr, _ := newTestTracker(t, domain.State{})
	tr.state.SeatID = 1

	tr.identifyCommander(555, 2)
	assert.Equal(t, "Atraxa, Grand Unifier", tr.state.OpponentCommander)
	assert.ElementsMatch(t, []string{"W", "U", "B", "G"}, tr.state.OpponentColors)

	// A later candidate never displaces the first identification.
	tr.identifyCommander(777, 2)
	assert.Equal(t, "Atraxa, Grand Unifier", tr.state.OpponentCommander)
	assert.Equal(t, 555, tr.state.OpponentCommanderID)
}

func TestKnownCommanderCorrectsHeroSeat(t *testing.T) {
	tr, _ := newTestTracker(t, domain.State{})
	tr.state.SeatID = 1

	tr.identifyCommander(600, 1)
	assert.Equal(t, "Kenrith, the Returned King", tr.state.HeroCommander)
	assert.ElementsMatch(t, []string{"W", "U", "B", "R", "G"}, tr.state.DeckColors)
	assert.Equal(t, "Brawl: Kenrith, the Returned King", tr.state.DeckName)

	// The same commander showing up under the other seat means the initial
	// seat guess was wrong.
	tr.identifyCommander(600, 2)
	assert.Equal(t, 2, tr.state.SeatID)
	assert.Equal(t, "Kenrith, the Returned King", tr.state.HeroCommander)
}

func TestDeckNameNeverRegressesToGeneric(t *testing.T) {
	tr, _ := newTestTracker(t, domain.State{})

	tr.updateDeckName("Izzet Phoenix")
	assert.Equal(t, "Izzet Phoenix", tr.state.DeckName)

	tr.updateDeckName("Default Deck")
	assert.Equal(t, "Izzet Phoenix", tr.state.DeckName)

	tr.updateDeckName("New Brew")
	assert.Equal(t, "New Brew", tr.state.DeckName)
}

func TestGenericDeckNameRewrittenWithCommander(t *testing.T) {
	tr, _ := newTestTracker(t, domain.State{})
	tr.state.HeroCommander = "Ghalta, Primal Hunger"

	tr.updateDeckName("Brawl Deck")
	assert.Equal(t, "Brawl: Ghalta, Primal Hunger", tr.state.DeckName)
}

func TestLastDeckNameCarriesAcrossSessions(t *testing.T) {
	tr, _ := newTestTracker(t, domain.State{
		Matches: []domain.MatchRecord{
			{DeckName: "Izzet Phoenix", DeckColors: []string{"U", "R"}},
		},
	})
	assert.Equal(t, "Izzet Phoenix", tr.State().DeckName)

	// A generic label from history is not worth carrying.
	tr2, _ := newTestTracker(t, domain.State{
		Matches: []domain.MatchRecord{{DeckName: "Default Deck"}},
	})
	assert.Equal(t, "Unknown", tr2.State().DeckName)
}

func TestCheckStaleDeactivatesOldMatch(t *testing.T) {
	tr, mock := newTestTracker(t, domain.State{})

	feed(tr, "1/15/2026 10:00:05 AM", authLine)
	feed(tr, "1/15/2026 10:00:05 AM", matchCreatedLine)
	require.True(t, tr.State().Active)

	mock.Set(time.Date(2026, 1, 15, 10, 5, 0, 0, time.Local))
	tr.CheckStale()
	assert.True(t, tr.State().Active)

	mock.Set(time.Date(2026, 1, 15, 10, 30, 0, 0, time.Local))
	tr.CheckStale()
	assert.False(t, tr.State().Active)
}

func TestLossAgainstOpponentTeam(t *testing.T) {
	tr, _ := newTestTracker(t, domain.State{})

	feed(tr, "1/15/2026 10:00:00 AM", authLine)
	feed(tr, "1/15/2026 10:00:05 AM", matchCreatedLine)
	feed(tr, "1/15/2026 10:10:00 AM",
		`{"greToClientEvent":{"greToClientMessages":[{"type":"GREMessageType_GameStateMessage","msgId":50,"systemSeatIds":[1],`+
			`"gameStateMessage":{"gameInfo":{"results":[{"scope":"MatchScope_Match","winningTeamId":2,"winningReason":"WinCondition_Game"}]}}}]}}`)

	hist := tr.History()
	require.Len(t, hist, 1)
	assert.Equal(t, domain.ResultLoss, hist[0].Result)

	wins, losses, _ := tr.SessionStats()
	assert.Equal(t, 0, wins)
	assert.Equal(t, 1, losses)
}

func TestLifeTotalsTrackedThroughWin(t *testing.T) {
	tr, _ := newTestTracker(t, domain.State{})

	feed(tr, "1/15/2026 10:00:00 AM", authLine)
	feed(tr, "1/15/2026 10:00:05 AM", matchCreatedLine)

	feed(tr, "1/15/2026 10:00:30 AM",
		`{"greToClientEvent":{"greToClientMessages":[{"type":"GREMessageType_GameStateMessage","msgId":60,"systemSeatIds":[1],`+
			`"gameStateMessage":{"type":"GameStateType_Full","gameObjects":[`+
			`{"type":"GameObjectType_Player","systemSeatId":1,"lifeTotal":25},`+
			`{"type":"GameObjectType_Player","systemSeatId":2,"lifeTotal":25}]}}]}}`)
	assert.Equal(t, map[int]int{1: 25, 2: 25}, tr.State().LifeTotals)

	feed(tr, "1/15/2026 10:03:00 AM",
		`{"greToClientEvent":{"greToClientMessages":[{"type":"GREMessageType_GameStateMessage","msgId":61,"systemSeatIds":[1],`+
			`"gameStateMessage":{"type":"GameStateType_Diff","gameObjects":[`+
			`{"type":"GameObjectType_Player","systemSeatId":1,"lifeTotal":24}]}}]}}`)
	assert.Equal(t, 24, tr.State().LifeTotals[1])
	assert.Equal(t, 25, tr.State().LifeTotals[2])

	feed(tr, "1/15/2026 10:12:30 AM", winLine)

	hist := tr.History()
	require.Len(t, hist, 1)
	assert.Equal(t, domain.ResultWin, hist[0].Result)
	assert.Equal(t, "Villain#54321", hist[0].Opponent)
	assert.Empty(t, tr.State().LifeTotals)
}

func TestOpeningHandSizeRecorded(t *testing.T) {
	tr, _ := newTestTracker(t, domain.State{})

	feed(tr, "1/15/2026 10:00:00 AM", authLine)
	feed(tr, "1/15/2026 10:00:05 AM", matchCreatedLine)

	feed(tr, "1/15/2026 10:00:40 AM",
		`{"greToClientEvent":{"greToClientMessages":[{"type":"GREMessageType_IntermissionReq","msgId":26,"systemSeatIds":[1],`+
			`"intermissionReq":{"prompt":{"promptId":32,"promptText":"MULLIGAN_PROMPT"},`+
			`"result":{"handCards":[101,102,103,104,105,106,107]}}}]}}`)
	assert.Equal(t, 7, tr.State().OpeningHandSize)

	// Intermissions with other prompts carry hand lists too; only the
	// mulligan one fixes the opening hand.
	feed(tr, "1/15/2026 10:01:00 AM",
		`{"greToClientEvent":{"greToClientMessages":[{"type":"GREMessageType_IntermissionReq","msgId":27,"systemSeatIds":[1],`+
			`"intermissionReq":{"prompt":{"promptId":33,"promptText":"SIDEBOARD_PROMPT"},`+
			`"result":{"handCards":[101,102]}}}]}}`)
	assert.Equal(t, 7, tr.State().OpeningHandSize)

	feed(tr, "1/15/2026 10:12:30 AM", winLine)

	hist := tr.History()
	require.Len(t, hist, 1)
	assert.Equal(t, 7, hist[0].OpeningHandSize)
}

func TestResetStatsClearsHistory(t *testing.T) {
	tr, _ := newTestTracker(t, domain.State{
		Matches: []domain.MatchRecord{{DeckName: "Izzet Phoenix", Result: domain.ResultWin}},
	})
	require.Len(t, tr.History(), 1)

	require.NoError(t, tr.ResetStats())
	assert.Empty(t, tr.History())
}
