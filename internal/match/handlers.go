package match

import (
	"strings"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/Balthazzahr/scry-daemon/internal/cards"
	"github.com/Balthazzahr/scry-daemon/internal/domain"
	"github.com/Balthazzahr/scry-daemon/internal/frame"
)

// Keys that must appear as direct top-level fields to match; these words
// show up incidentally inside unrelated nested payloads.
var strictKeys = map[string]bool{
	"CourseDeckSummary":      true,
	"DeckUpsertDeckV2":       true,
	"EventSetDeckV2":         true,
	"EventSetDeck":           true,
	"DeckGetDeckSummariesV2": true,
	"DeckGetDeckDetailsV2":   true,
}

func (t *Tracker) registerHandlers() {
	reg := func(key string, h func(frame.Frame) error) {
		t.router.Register(key, strictKeys[key], h)
	}

	reg("authenticateResponse", t.handleAuth)
	reg("deckSubmit", t.handleDeckSubmit)
	reg("matchCreated", t.handleGre)
	reg("matchGameRoomStateChangedEvent", t.handleGre)
	reg("ConnectResp", t.handleConnect)
	reg("MulliganReq", t.handleGre)
	reg("mulliganResp", t.handleMulliganResp)
	reg("ClientMessageType_MulliganResp", t.handleMulliganResp)
	reg("IntermissionReq", t.handleGre)
	reg("turnInfo", t.handleGre)
	reg("GameStateMessage", t.handleGameState)
	reg("winningTeamId", t.handleGre)
	reg("rankUpdate", t.handleRankUpdate)
	reg("RankUpdated", t.handleRankUpdate)
	reg("ClientToGreMessage", t.handleClientMessage)
	reg("GreToClientEvent", t.handleGre)
	reg("greToClientMessages", t.handleGreMessages)
	reg("Client.SceneChange", t.handleSceneChange)
	reg("PlayerInventory.GetPlayerCards", t.handlePlayerCards)
	reg("DeckUpsertDeckV2", t.handleDeckV2)
	reg("EventSetDeckV2", t.handleDeckV2)
	reg("EventSetDeck", t.handleDeckV2)
	reg("Deck.SetDeck", t.handleDeckV2)
	reg("EventGetCoursesV2", t.handleCourseDeck)
	reg("DeckGetDeckSummariesV2", t.handleDeckSummaries)
	reg("DeckGetDeckDetailsV2", t.handleDeckDetails)
	reg("CourseDeckSummary", t.handleCourseDeck)
}

// handleGre forwards the whole frame into the GRE message pipeline.
func (t *Tracker) handleGre(f frame.Frame) error {
	t.handleGreMessage(f.Root())
	return nil
}

func (t *Tracker) handleAuth(f frame.Frame) error {
	auth := f.Find("authenticateResponse")
	if !auth.Exists() {
		return nil
	}
	if id := auth.Get("clientId"); id.Exists() {
		t.identity.PlayerID = id.String()
	}
	if name := auth.Get("screenName"); name.Exists() {
		t.identity.ScreenName = name.String()
	}
	t.logger.Info("connected to Arena", zap.String("screenName", t.identity.ScreenName))
	return nil
}

func (t *Tracker) handleDeckSubmit(f frame.Frame) error {
	ds := f.Find("deckSubmit")
	if !ds.Exists() {
		return nil
	}
	name := ds.Get("deckName").String()
	if name == "" || name == t.state.DeckName {
		return nil
	}
	// A submitted deck name is authoritative; it bypasses the generic rule.
	t.state.DeckName = name
	t.lastDeckName = name

	deck := ds.Get("deck")
	if deck.Exists() {
		colors := t.extractDeckColors(deck)
		t.state.DeckColors = colors
		t.lastDeckColors = colors

		total := 0
		deck.Get("mainDeck").ForEach(func(_, card frameValue) bool {
			total += int(card.Get("quantity").Int())
			id := int(card.Get("grpId").Int())
			if id != 0 {
				t.resolver.Remember(id, "")
			}
			return true
		})
		t.logger.Info("using deck",
			zap.String("deck", name),
			zap.String("colors", domain.FormatColors(colors)),
			zap.Int("cards", total))
	}
	return nil
}

func (t *Tracker) handleConnect(f frame.Frame) error {
	t.handleGreMessage(f.Root())
	t.publishStatus()
	return nil
}

func (t *Tracker) handleMulliganResp(f frame.Frame) error {
	resp := f.Find("mulliganResp")
	if resp.Exists() {
		decision := resp.Get("decision").String()
		if decision != t.state.LastMulliganDecision {
			t.state.LastMulliganDecision = decision
			switch decision {
			case "MulliganOption_Mulligan":
				t.state.Mulligans++
				t.logger.Info("you mulliganed", zap.Int("total", t.state.Mulligans))
			case "MulliganOption_AcceptHand":
				t.logger.Info("you kept your hand")
			}
		}
	}
	t.handleGreMessage(f.Root())
	return nil
}

func (t *Tracker) handleGameState(f frame.Frame) error {
	gsm := f.Find("gameStateMessage")
	if gsm.Exists() {
		// If game states are flowing, a match is in progress.
		if !t.state.Active && len(gsm.Get("gameObjects").Array()) > 0 {
			t.setActive(true)
		}
		if gameInfo := gsm.Get("gameInfo"); gameInfo.Exists() {
			if variant := gameInfo.Get("variant").String(); variant != "" && variant != t.currentVariant {
				t.currentVariant = variant
				t.state.Variant = variant
				old := t.state.Format
				t.updateFormat()
				if t.state.Format != "Unknown" && t.state.Format != old {
					t.logger.Info("format detected", zap.String("format", t.state.Format))
				}
			}
		}
	}
	t.handleGreMessage(f.Root())
	return nil
}

func (t *Tracker) handleRankUpdate(f frame.Frame) error {
	ru := f.Find("rankUpdate")
	if !ru.Exists() {
		ru = f.Find("RankUpdated")
	}
	if !ru.Exists() {
		return nil
	}

	oldClass := ru.Get("oldClass").String()
	oldLevel := int(ru.Get("oldLevel").Int())
	newClass := firstOf(ru, "newClass", "updatedRankClass").String()
	newLevel := int(firstOf(ru, "newLevel", "updatedRankLevel").Int())

	t.state.Rank = domain.Rank{
		Class: newClass,
		Tier:  newLevel,
		Step:  int(ru.Get("newStep").Int()),
	}

	if oldClass != newClass || oldLevel != newLevel {
		t.logger.Info("rank changed",
			zap.String("from", oldClass), zap.Int("fromTier", oldLevel),
			zap.String("to", newClass), zap.Int("toTier", newLevel))
		t.state.RankChange = &domain.RankChange{
			From: domain.Rank{Class: oldClass, Tier: oldLevel},
			To:   domain.Rank{Class: newClass, Tier: newLevel},
		}
	}
	return nil
}

func (t *Tracker) handleClientMessage(f frame.Frame) error {
	msg := f.Field("clientToGreMessage")
	if !msg.Exists() {
		msg = f.Root()
	}
	if msg.Get("type").String() != "ClientMessageType_PerformAction" {
		return nil
	}
	action := msg.Get("payload").Get("performAction")
	switch {
	case action.Get("activate").Exists():
		t.logger.Debug("ability activated")
	case action.Get("mulligan").Exists():
		t.state.Mulligans++
		t.logger.Info("you took a mulligan", zap.Int("total", t.state.Mulligans))
	case action.Get("concede").Exists():
		t.logger.Info("you conceded the game")
	}
	return nil
}

func (t *Tracker) handleGreMessages(f frame.Frame) error {
	f.Field("greToClientMessages").ForEach(func(_, sub frameValue) bool {
		t.handleGreMessage(sub)
		return true
	})
	return nil
}

// Scenes that mean the player left the match for the client UI.
var lobbyScenes = map[string]bool{
	"Home": true, "DeckListViewer": true, "Store": true,
	"Collection": true, "Social": true, "Lobby": true,
}

func (t *Tracker) handleSceneChange(f frame.Frame) error {
	scene := f.Field("Client.SceneChange")
	if !scene.Exists() {
		scene = f.Root()
	}
	to := scene.Get("toSceneName").String()
	if lobbyScenes[to] && t.state.Active {
		t.logger.Info("scene change to lobby", zap.String("scene", to))
		t.setActive(false)
	}
	return nil
}

func (t *Tracker) handlePlayerCards(f frame.Frame) error {
	list := f.Find("cards")
	if !list.IsArray() {
		return nil
	}
	list.ForEach(func(_, card frameValue) bool {
		if id := int(card.Get("grpId").Int()); id != 0 {
			t.resolver.Remember(id, card.Get("name").String())
		}
		return true
	})
	return t.resolver.FlushCache()
}

func (t *Tracker) handleDeckV2(f frame.Frame) error {
	payload := f.Root()

	// The request field is often the real payload re-encoded as a string.
	if req := payload.Get("request"); req.Type == gjson.String && strings.HasPrefix(req.String(), "{") {
		if parsed := gjson.Parse(req.String()); parsed.IsObject() {
			payload = parsed
		}
	}

	summary := payload.Get("Summary")
	if !summary.Exists() {
		summary = f.Find("Summary")
	}
	deck := payload.Get("Deck")
	if !deck.Exists() {
		deck = f.Find("Deck")
	}

	if name := summary.Get("Name").String(); name != "" {
		t.updateDeckName(name)
	}

	if deck.Exists() {
		t.applyCommandZone(deck)
		if colors := t.extractDeckColors(deck); len(colors) > 0 {
			t.state.DeckColors = colors
			t.lastDeckColors = colors
		}
	}

	t.publishStatus()
	return nil
}

// applyCommandZone reads a deck's command zone as hero commander evidence.
// Deck submissions are the player's own, so this sets the hero side
// directly and lets the commander's identity replace the color set.
func (t *Tracker) applyCommandZone(deck frameValue) {
	commandZone := deck.Get("CommandZone")
	if !commandZone.Exists() {
		commandZone = deck.Get("commandZone")
	}
	entries := commandZone.Array()
	if len(entries) == 0 {
		return
	}
	grpID := commandZoneCardID(entries[0])
	if grpID == 0 {
		return
	}

	t.state.HeroCommanderID = grpID
	info := t.resolver.Resolve(grpID)
	if t.state.HeroCommander != info.Name {
		t.state.HeroCommander = info.Name
		t.logger.Info("hero commander identified from deck",
			zap.String("commander", info.Name))
	}

	identity := t.commanderIdentity(info)
	if len(identity) > 0 {
		t.state.DeckColors = append([]string(nil), identity...)
		t.lastDeckColors = t.state.DeckColors
	}

	if domain.IsGenericName(t.state.DeckName) {
		t.updateDeckName("Brawl: " + info.Name)
	}
}

// commanderIdentity returns a commander's color identity, falling back to a
// name lookup when the id-based record has none.
func (t *Tracker) commanderIdentity(info cards.Card) []string {
	if len(info.ColorIdentity) > 0 {
		return info.ColorIdentity
	}
	if byName, ok := t.resolver.ResolveByName(info.Name); ok {
		return byName.ColorIdentity
	}
	return nil
}

func (t *Tracker) handleCourseDeck(f frame.Frame) error {
	if courses := f.Field("Courses"); courses.IsArray() {
		target := t.state.EventID
		stop := false
		courses.ForEach(func(_, course frameValue) bool {
			if stop {
				return false
			}
			isTarget := target != "" && course.Get("CourseId").String() == target

			if name := course.Get("CourseDeckSummary").Get("Name").String(); name != "" {
				t.updateDeckName(name)
			}
			if deck := course.Get("CourseDeck"); deck.Exists() {
				t.applyCommandZone(deck)
				if len(t.state.DeckColors) == 0 {
					if colors := t.extractDeckColors(deck); len(colors) > 0 {
						t.state.DeckColors = colors
					}
				}
			}

			stop = isTarget
			return true
		})
	}

	summary := f.Field("CourseDeckSummary")
	if !summary.Exists() {
		summary = f.Find("CourseDeckSummary")
	}
	if name := summary.Get("Name").String(); name != "" {
		t.updateDeckName(name)
	}
	return nil
}

func (t *Tracker) handleDeckSummaries(f frame.Frame) error {
	summaries := f.Find("Summaries")
	if !summaries.IsArray() {
		return nil
	}
	summaries.ForEach(func(_, deck frameValue) bool {
		if name := deck.Get("Name").String(); name != "" {
			t.logger.Debug("deck summary seen",
				zap.String("deck", name), zap.String("deckId", deck.Get("DeckId").String()))
		}
		return true
	})
	return nil
}

func (t *Tracker) handleDeckDetails(f frame.Frame) error {
	deck := f.Find("deck")
	if !deck.Exists() {
		return nil
	}

	count := 0
	deck.Get("mainDeck").ForEach(func(_, card frameValue) bool {
		id := int(card.Get("grpId").Int())
		name := card.Get("cardName").String()
		if id != 0 && name != "" {
			t.resolver.Remember(id, name)
			count++
		}
		return true
	})

	if entries := deck.Get("commandZone").Array(); len(entries) > 0 {
		if grpID := commandZoneCardID(entries[0]); grpID != 0 {
			info := t.resolver.Resolve(grpID)
			t.state.HeroCommander = info.Name
			if len(info.ColorIdentity) > 0 {
				t.state.DeckColors = append([]string(nil), info.ColorIdentity...)
				t.lastDeckColors = t.state.DeckColors
			}
		}
	}

	t.logger.Info("card cache updated from deck details", zap.Int("cards", count))
	return t.resolver.FlushCache()
}
