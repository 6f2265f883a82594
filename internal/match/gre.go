package match

import (
	"strings"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/Balthazzahr/scry-daemon/internal/domain"
	"github.com/Balthazzahr/scry-daemon/internal/frame"
)

// handleGreMessage is the entry point for anything that may carry GRE
// protocol traffic. Envelopes bundle sub-messages under greToClientEvent;
// sub-messages inherit the envelope's seat header when they lack their own.
func (t *Tracker) handleGreMessage(msg frameValue) {
	if msg.Type == gjson.String {
		s := strings.TrimSpace(msg.String())
		if strings.HasPrefix(s, "{") {
			if parsed := gjson.Parse(s); parsed.IsObject() {
				t.handleGreMessage(parsed)
			}
		}
		return
	}
	if !msg.IsObject() {
		return
	}

	if ev := msg.Get("greToClientEvent"); ev.Exists() {
		seats := seatIDs(msg)
		ev.Get("greToClientMessages").ForEach(func(_, sub frameValue) bool {
			t.greSubMessage(sub, seats)
			return true
		})
		return
	}
	t.greSubMessage(msg, nil)
}

func (t *Tracker) greSubMessage(msg frameValue, inheritedSeats []int) {
	if !msg.IsObject() {
		return
	}
	if msg.Get("greToClientEvent").Exists() {
		t.handleGreMessage(msg)
		return
	}

	// The client re-logs GRE messages on reconnect; msgId is the only
	// stable identity they carry.
	if id := msg.Get("msgId"); id.Exists() {
		if t.msgIDs.Seen(id.Raw) {
			return
		}
		t.msgIDs.Add(id.Raw)
	}

	seats := seatIDs(msg)
	if len(seats) == 0 {
		seats = inheritedSeats
	}

	if t.state.StartTime.IsZero() && !t.currentLogTime.IsZero() {
		t.state.StartTime = t.currentLogTime
	}

	if t.state.SeatID == 0 {
		// A message addressed to exactly one seat is addressed to us.
		if len(seats) == 1 && seats[0] != 0 {
			t.state.SeatID = seats[0]
		}
		if seat := frame.FindIn(msg, "systemSeatId"); seat.Exists() && int(seat.Int()) != 0 {
			t.state.SeatID = int(seat.Int())
			if t.state.TeamID == 0 {
				t.state.TeamID = t.state.SeatID
			}
		}
	}

	if t.identity.ScreenName == "" {
		if name := frame.FindIn(msg, "screenName"); name.String() != "" {
			t.identity.ScreenName = name.String()
			t.logger.Info("identity discovered from log", zap.String("screenName", name.String()))
		}
	}

	msgType := msg.Get("type").String()
	if msgType == "" {
		msgType = inferGreType(msg)
	}

	switch {
	case strings.Contains(msgType, "ConnectResp"):
		t.handleConnectResp(msg, seats)
	case strings.Contains(msgType, "MatchCreated"):
		t.handleMatchCreated(msg)
	case strings.Contains(msgType, "MatchGameRoomStateChanged"):
		t.handleGameRoomStateChanged(msg)
	case strings.Contains(msgType, "GameStateMessage"):
		t.handleGameStateMessage(msg)
	case strings.Contains(msgType, "MulliganReq"):
		t.handleMulliganReq(msg)
	case strings.Contains(msgType, "IntermissionReq"):
		t.handleIntermissionReq(msg)
	}

	if ti := frame.FindIn(msg, "turnInfo"); ti.Exists() {
		t.applyTurnInfo(ti)
	}

	t.maybeFinalize(msg)
}

func inferGreType(msg frameValue) string {
	switch {
	case msg.Get("matchCreated").Exists() || msg.Get("MatchCreated").Exists():
		return "MatchCreated"
	case msg.Get("matchGameRoomStateChangedEvent").Exists():
		return "MatchGameRoomStateChanged"
	case msg.Get("connectResp").Exists() || msg.Get("ConnectResp").Exists():
		return "ConnectResp"
	case msg.Get("mulliganReq").Exists() || msg.Get("MulliganReq").Exists():
		return "MulliganReq"
	case msg.Get("intermissionReq").Exists() || msg.Get("IntermissionReq").Exists():
		return "IntermissionReq"
	case msg.Get("gameStateMessage").Exists() || msg.Get("GameStateMessage").Exists():
		return "GameStateMessage"
	case msg.Get("actionsAvailableReq").Exists():
		return "ActionsAvailableReq"
	}
	return ""
}

func (t *Tracker) handleConnectResp(msg frameValue, seats []int) {
	cr := firstOf(msg, "connectResp", "ConnectResp")

	if t.state.StartTime.IsZero() && !t.currentLogTime.IsZero() {
		t.state.StartTime = t.currentLogTime
	}

	if seat := cr.Get("systemSeatId"); seat.Exists() {
		t.state.SeatID = int(seat.Int())
		t.setActive(true)

		if starting := cr.Get("settings").Get("startingTeamId"); starting.Exists() {
			gf := int(starting.Int()) == t.state.SeatID
			t.state.GoingFirst = &gf
		}
	}

	// The connect response can carry full deck lists. The seat header tells
	// whose: addressed solely to our seat means our deck, otherwise it is
	// the opponent's or a broadcast.
	cr.Get("deckMessage").Get("commanderCards").ForEach(func(_, v frameValue) bool {
		grpID := int(v.Int())
		if grpID == 0 {
			return true
		}
		if len(seats) == 1 && seats[0] == t.state.SeatID {
			card := t.resolver.Resolve(grpID)
			t.state.HeroCommanderID = grpID
			t.state.HeroCommander = card.Name
		} else {
			oppSeat := 2
			if t.state.SeatID == 2 {
				oppSeat = 1
			}
			t.identifyCommander(grpID, oppSeat)
		}
		return true
	})
}

func (t *Tracker) handleMatchCreated(msg frameValue) {
	t.resetCurrentMatch()
	mc := firstOf(msg, "matchCreated", "MatchCreated")

	t.state.MatchID = mc.Get("matchId").String()
	t.state.EventID = mc.Get("eventId").String()
	if t.state.EventID == "" {
		t.state.EventID = "Unknown"
	}
	t.setActive(true)
	t.updateFormat()

	name := mc.Get("deckSummary").Get("Name").String()
	if name == "" {
		name = mc.Get("deckName").String()
	}
	t.updateDeckName(name)

	t.publishStatus()
	_ = t.saveState()

	if t.state.StartTime.IsZero() && !t.currentLogTime.IsZero() {
		t.state.StartTime = t.currentLogTime
	}

	mc.Get("teams").ForEach(func(_, team frameValue) bool {
		teamID := int(team.Get("id").Int())
		team.Get("players").ForEach(func(_, p frameValue) bool {
			seat := int(p.Get("systemSeatId").Int())

			isMe := false
			switch {
			case t.state.SeatID != 0:
				isMe = seat == t.state.SeatID
			case t.identity.PlayerID != "":
				if p.Get("userId").String() == t.identity.PlayerID {
					isMe = true
					t.state.SeatID = seat
				}
			}

			if isMe {
				t.state.TeamID = teamID
			} else {
				if name := p.Get("playerName").String(); name != "" {
					t.state.OpponentName = name
				}
				if seat != 0 {
					p.Get("deckSummary").Get("commanderCards").ForEach(func(_, c frameValue) bool {
						if grpID := int(c.Int()); grpID != 0 {
							t.identifyCommander(grpID, seat)
						}
						return true
					})
				}
			}
			return true
		})
		return true
	})

	if t.state.OpponentName == "Sparky" && t.state.EventID == "Unknown" {
		t.state.EventID = "Practice"
		t.updateFormat()
	}

	if !t.matchStartPrinted {
		t.printMatchStart()
	}
}

func (t *Tracker) handleGameRoomStateChanged(msg frameValue) {
	room := msg.Get("matchGameRoomStateChangedEvent")
	info := room.Get("gameRoomInfo")
	cfg := info.Get("gameRoomConfig")

	if mid := room.Get("matchId").String(); mid != "" {
		t.state.MatchID = mid
	}

	cfg.Get("reservedPlayers").ForEach(func(_, p frameValue) bool {
		name := p.Get("playerName").String()
		if name == "" {
			name = "Unknown"
		}
		if t.identity.Matches(name) {
			if seat := int(p.Get("systemSeatId").Int()); seat != 0 {
				t.state.SeatID = seat
				if teamID := int(p.Get("teamId").Int()); teamID != 0 {
					t.state.TeamID = teamID
				}
			}
		} else {
			t.state.OpponentName = name
		}
		return true
	})

	stateType := info.Get("stateType").String()

	eventID := cfg.Get("eventId").String()
	if eventID == "" {
		eventID = cfg.Get("matchType").String()
	}
	if eventID == "" && t.state.OpponentName == "Sparky" {
		eventID = "Practice"
	}
	if eventID == "" && stateType != "" &&
		!strings.Contains(stateType, "Playing") && !strings.Contains(stateType, "MatchCompleted") {
		eventID = stateType
	}
	if eventID != "" {
		t.state.EventID = eventID
		t.updateFormat()
	}

	if t.state.StartTime.IsZero() && !t.currentLogTime.IsZero() {
		t.state.StartTime = t.currentLogTime
	}

	if !t.matchStartPrinted && t.state.OpponentName != "Unknown" &&
		!strings.Contains(stateType, "MatchCompleted") {
		t.printMatchStart()
	}
}

func (t *Tracker) handleGameStateMessage(msg frameValue) {
	gs := firstOf(msg, "gameStateMessage", "GameStateMessage")
	gameObjects := gs.Get("gameObjects")

	gameObjects.ForEach(func(_, obj frameValue) bool {
		iid := int(obj.Get("instanceId").Int())
		gid := int(obj.Get("grpId").Int())
		if iid != 0 && gid != 0 {
			t.instanceToGrp[iid] = gid
		}
		return true
	})

	gameObjects.ForEach(func(_, obj frameValue) bool {
		typ := obj.Get("type").String()
		if typ != "GameObjectType_Card" && typ != "GameObjectType_Token" {
			return true
		}
		gid := int(obj.Get("grpId").Int())
		owner := obj.Get("ownerSeatId")
		if gid == 0 || !owner.Exists() {
			return true
		}
		if int(owner.Int()) == t.state.SeatID {
			t.state.CardsSeen = appendUnique(t.state.CardsSeen, gid)
		} else {
			t.state.OpponentCardsSeen = appendUnique(t.state.OpponentCardsSeen, gid)
		}
		return true
	})

	t.trackLifeTotals(gameObjects)
	t.applyDesignations(gs)
	t.scanCommandZones(gameObjects)
	t.scanCastActions(gs, msg)
	t.trackObjectColors(gameObjects)
	t.syncCommanderColors()
}

func (t *Tracker) trackLifeTotals(gameObjects frameValue) {
	gameObjects.ForEach(func(_, obj frameValue) bool {
		life := obj.Get("lifeTotal")
		isPlayer := obj.Get("type").String() == "GameObjectType_Player" ||
			(obj.Get("systemSeatId").Exists() && life.Exists())
		if !isPlayer || !life.Exists() {
			return true
		}
		seat := int(obj.Get("systemSeatId").Int())
		if seat == 0 {
			seat = int(obj.Get("controllerSeatId").Int())
		}
		if seat == 0 {
			return true
		}

		cur := int(life.Int())
		if prev, ok := t.state.LifeTotals[seat]; ok && prev != cur {
			who := "opponent"
			if seat == t.state.SeatID {
				who = "you"
			}
			t.logger.Info("life total changed",
				zap.String("player", who), zap.Int("from", prev), zap.Int("to", cur))
		}
		t.state.LifeTotals[seat] = cur
		return true
	})
}

// applyDesignations reads Designation annotations, which carry authoritative
// commander and color identity assignments per seat.
func (t *Tracker) applyDesignations(gs frameValue) {
	apply := func(_, anno frameValue) bool {
		designation := false
		anno.Get("type").ForEach(func(_, tp frameValue) bool {
			if strings.Contains(tp.String(), "AnnotationType_Designation") {
				designation = true
			}
			return true
		})
		if !designation {
			return true
		}

		var colorDetail, grpDetail frameValue
		anno.Get("details").ForEach(func(_, d frameValue) bool {
			switch d.Get("key").String() {
			case "ColorIdentity":
				colorDetail = d
			case "grpid":
				grpDetail = d
			}
			return true
		})

		affected := anno.Get("affectedIds").Array()
		if len(affected) == 0 {
			return true
		}
		target := int(affected[0].Int())
		if target != 1 && target != 2 && target != t.state.SeatID {
			return true
		}

		if vals := grpDetail.Get("valueInt32").Array(); len(vals) > 0 {
			t.identifyCommander(int(vals[0].Int()), target)
		}

		var mapped []string
		colorDetail.Get("valueInt32").ForEach(func(_, v frameValue) bool {
			if c, ok := domain.ColorFromInt(int(v.Int())); ok {
				mapped = append(mapped, c)
			}
			return true
		})
		if len(mapped) > 0 {
			if target == t.state.SeatID {
				if colors, changed := domain.MergeColors(t.state.DeckColors, mapped...); changed {
					t.state.DeckColors = colors
					t.lastDeckColors = colors
				}
			} else {
				t.state.OpponentColors, _ = domain.MergeColors(t.state.OpponentColors, mapped...)
			}
		}
		return true
	}

	gs.Get("annotations").ForEach(apply)
	gs.Get("persistentAnnotations").ForEach(apply)
}

// scanCommandZones treats command zone occupancy as commander evidence.
func (t *Tracker) scanCommandZones(gameObjects frameValue) {
	isBrawl := t.state.Format == "Brawl" || t.currentVariant == "GameVariant_Brawl"

	gameObjects.ForEach(func(_, obj frameValue) bool {
		inAnchor := isAnchorZone(int(obj.Get("zoneId").Int())) ||
			obj.Get("type").String() == "GameObjectType_Commander"
		if !inAnchor {
			return true
		}
		owner := obj.Get("ownerSeatId")
		gid := int(obj.Get("grpId").Int())
		if !owner.Exists() || gid == 0 {
			return true
		}
		if commanderConfidence(t.resolver.Resolve(gid), true, isBrawl) >= ConfidenceWeak {
			t.identifyCommander(gid, int(owner.Int()))
		}
		return true
	})
}

// scanCastActions catches commanders that first surface as castable actions.
// Action entries carry no zone, so only strong candidates count, and an
// already identified opponent commander is never revisited.
func (t *Tracker) scanCastActions(gs, msg frameValue) {
	gs.Get("actions").ForEach(func(_, entry frameValue) bool {
		act := entry.Get("action")
		if act.Get("actionType").String() != "ActionType_Cast" {
			return true
		}
		owner := int(entry.Get("seatId").Int())
		gid := int(act.Get("grpId").Int())
		if gid == 0 {
			gid = t.instanceToGrp[int(act.Get("instanceId").Int())]
		}
		if gid == 0 {
			gid = t.instanceToGrp[int(act.Get("sourceId").Int())]
		}
		if owner == 0 || gid == 0 {
			return true
		}
		if owner != t.state.SeatID && !domain.IsGenericName(t.state.OpponentCommander) {
			return true
		}
		if commanderConfidence(t.resolver.Resolve(gid), false, false) == ConfidenceStrong {
			t.identifyCommander(gid, owner)
		}
		return true
	})

	msg.Get("actionsAvailableReq").Get("actions").ForEach(func(_, act frameValue) bool {
		if act.Get("actionType").String() != "ActionType_Cast" {
			return true
		}
		if !domain.IsGenericName(t.state.HeroCommander) {
			return true
		}
		gid := int(act.Get("grpId").Int())
		if gid == 0 {
			gid = t.instanceToGrp[int(act.Get("instanceId").Int())]
		}
		if gid == 0 {
			return true
		}
		if commanderConfidence(t.resolver.Resolve(gid), false, false) == ConfidenceStrong {
			t.identifyCommander(gid, t.state.SeatID)
		}
		return true
	})
}

// trackObjectColors accumulates deck colors from every card either side
// reveals. A known hero commander pins our identity instead, so stray
// objects cannot creep colors in.
func (t *Tracker) trackObjectColors(gameObjects frameValue) {
	if t.state.SeatID == 0 {
		return
	}

	gameObjects.ForEach(func(_, obj frameValue) bool {
		typ := obj.Get("type").String()
		if typ != "GameObjectType_Card" && typ != "GameObjectType_Token" {
			return true
		}
		owner := obj.Get("ownerSeatId")
		if !owner.Exists() {
			owner = obj.Get("controllerSeatId")
		}
		if !owner.Exists() {
			return true
		}
		target := int(owner.Int())

		found := make(map[string]struct{})
		gid := int(obj.Get("grpId").Int())
		if gid != 0 {
			for _, c := range t.resolver.Resolve(gid).ColorIdentity {
				found[c] = struct{}{}
			}
		}
		colors := obj.Get("color")
		if !colors.Exists() {
			colors = obj.Get("colors")
		}
		colors.ForEach(func(_, cv frameValue) bool {
			addColorValue(found, cv)
			return true
		})
		for _, c := range domain.ColorsFromManaCost(obj.Get("manaCost").String()) {
			found[c] = struct{}{}
		}

		if target == t.state.SeatID {
			if t.state.HeroCommander != "Unknown" {
				found = make(map[string]struct{})
				if t.state.HeroCommanderID != 0 {
					for _, c := range t.resolver.Resolve(t.state.HeroCommanderID).ColorIdentity {
						found[c] = struct{}{}
					}
				}
			}
			if colors, changed := domain.MergeColors(t.state.DeckColors, colorList(found)...); changed {
				t.state.DeckColors = colors
				t.lastDeckColors = colors
				t.logger.Info("deck colors updated", zap.String("colors", domain.FormatColors(colors)))
			}
			if gid != 0 {
				t.state.CardsSeen = appendUnique(t.state.CardsSeen, gid)
			}
		} else {
			if colors, changed := domain.MergeColors(t.state.OpponentColors, colorList(found)...); changed {
				t.state.OpponentColors = colors
				t.logger.Info("opponent colors updated", zap.String("colors", domain.FormatColors(colors)))
			}
			if gid != 0 {
				t.state.OpponentCardsSeen = appendUnique(t.state.OpponentCardsSeen, gid)
			}
		}
		return true
	})
}

// syncCommanderColors folds each known commander's color identity into its
// side's color set.
func (t *Tracker) syncCommanderColors() {
	if !domain.IsGenericName(t.state.HeroCommander) {
		if info, ok := t.resolver.ResolveByName(t.state.HeroCommander); ok {
			if colors, changed := domain.MergeColors(t.state.DeckColors, info.ColorIdentity...); changed {
				t.state.DeckColors = colors
				t.lastDeckColors = colors
				t.logger.Info("deck colors synced with commander",
					zap.String("colors", domain.FormatColors(colors)))
			}
		}
	}
	if !domain.IsGenericName(t.state.OpponentCommander) {
		if info, ok := t.resolver.ResolveByName(t.state.OpponentCommander); ok {
			if colors, changed := domain.MergeColors(t.state.OpponentColors, info.ColorIdentity...); changed {
				t.state.OpponentColors = colors
				t.logger.Info("opponent colors synced with commander",
					zap.String("colors", domain.FormatColors(colors)))
			}
		}
	}
}

func (t *Tracker) handleMulliganReq(msg frameValue) {
	req := firstOf(msg, "mulliganReq", "MulliganReq")
	seat := req.Get("systemSeatId")
	count := int(req.Get("mulliganCount").Int())

	switch {
	case int(seat.Int()) == t.state.SeatID:
		t.state.Mulligans = count
		if count > 0 {
			t.logger.Info("you are on a mulligan",
				zap.Int("count", count), zap.Int("handSize", 7-count))
		}
	case seat.Exists():
		if t.state.LastLoggedOppMulls == nil || *t.state.LastLoggedOppMulls != count {
			t.state.OpponentMulligans = count
			logged := count
			t.state.LastLoggedOppMulls = &logged
			if count > 0 {
				t.logger.Info("opponent is on a mulligan", zap.Int("count", count))
			} else if t.state.Active {
				t.logger.Info("opponent kept their hand")
			}
		}
	}
}

func (t *Tracker) handleIntermissionReq(msg frameValue) {
	in := firstOf(msg, "intermissionReq", "IntermissionReq")
	prompt := in.Get("prompt")
	if !prompt.Exists() || !strings.Contains(prompt.Raw, "MULLIGAN") {
		return
	}
	hand := in.Get("result").Get("handCards").Array()
	if len(hand) > 0 {
		t.state.OpeningHandSize = len(hand)
		t.logger.Info("opening hand kept", zap.Int("cards", len(hand)))
	}
}

func (t *Tracker) applyTurnInfo(ti frameValue) {
	turn := int(ti.Get("turnNumber").Int())

	if turn == 1 && t.state.GoingFirst == nil {
		if active := ti.Get("activePlayer"); active.Exists() && t.state.SeatID != 0 {
			gf := int(active.Int()) == t.state.SeatID
			t.state.GoingFirst = &gf
		}
	}

	if turn > t.state.MaxTurns {
		t.state.MaxTurns = turn
	}
}

// maybeFinalize closes out the match when an end-of-game signal appears
// anywhere in the message. The log repeats this signal across several
// payload shapes; the debounce window and the processed set keep a real
// match down to one record.
func (t *Tracker) maybeFinalize(msg frameValue) {
	win := frame.FindIn(msg, "winningTeamId")
	if !win.Exists() {
		return
	}

	if !t.lastGameEnd.IsZero() && !t.currentLogTime.IsZero() &&
		t.currentLogTime.Sub(t.lastGameEnd) < gameEndDebounce {
		return
	}

	if !t.state.Active {
		t.setActive(true)
	}

	matchID := t.state.MatchID
	if matchID != "" && matchID != "Unknown" {
		if _, done := t.processedMatches[matchID]; done {
			t.logger.Info("match already recorded", zap.String("matchId", matchID))
			t.setActive(false)
			return
		}
		t.processedMatches[matchID] = struct{}{}
	}

	if t.recording {
		t.sessionGames++
		t.state.EndTime = t.currentLogTime

		duration := 0
		if !t.state.StartTime.IsZero() && t.currentLogTime.After(t.state.StartTime) {
			duration = int(t.currentLogTime.Sub(t.state.StartTime).Seconds())
		}

		if reason := frame.FindIn(msg, "winningReason"); reason.Exists() {
			t.state.WinCondition = winConditionLabel(reason.String())
		}

		winningTeam := int(win.Int())
		if t.state.TeamID != 0 {
			result := domain.ResultLoss
			if winningTeam == t.state.TeamID {
				result = domain.ResultWin
				t.sessionWins++
			} else {
				t.sessionLosses++
			}
			t.lastResult = result

			fields := []zap.Field{
				zap.String("opponent", t.state.OpponentName),
				zap.Int("durationSeconds", duration),
				zap.Int("turns", t.state.MaxTurns),
			}
			if !domain.IsGenericName(t.state.OpponentCommander) {
				fields = append(fields, zap.String("opponentCommander", t.state.OpponentCommander))
			}
			if t.state.WinCondition != "" {
				fields = append(fields, zap.String("winCondition", t.state.WinCondition))
			}
			if result == domain.ResultWin {
				t.logger.Info("victory", fields...)
			} else {
				t.logger.Info("defeat", fields...)
			}

			t.history = append(t.history, t.buildRecord(result, duration))
		} else {
			// Side never resolved; a guess here poisons the statistics.
			t.logger.Info("game ended with unresolved side, not recording",
				zap.Int("winningTeam", winningTeam))
		}

		t.logger.Info("session record",
			zap.Int("wins", t.sessionWins),
			zap.Int("losses", t.sessionLosses),
			zap.Int("played", t.sessionGames))

		_ = t.saveState()
		if !t.currentLogTime.IsZero() {
			t.lastGameEnd = t.currentLogTime
		} else {
			t.lastGameEnd = t.clk.Now()
		}
	}

	t.resetCurrentMatch()
	t.publishStatus()
}

func (t *Tracker) buildRecord(result domain.Result, duration int) domain.MatchRecord {
	rec := domain.MatchRecord{
		Timestamp:           t.currentLogTime.Unix(),
		Date:                t.currentLogTime.Format("2006-01-02 15:04:05"),
		Result:              result,
		Opponent:            t.state.OpponentName,
		OpponentCommander:   t.state.OpponentCommander,
		HeroCommander:       t.state.HeroCommander,
		OpponentCommanderID: t.state.OpponentCommanderID,
		HeroCommanderID:     t.state.HeroCommanderID,
		CardsSeen:           append([]int(nil), t.state.CardsSeen...),
		OpponentCardsSeen:   append([]int(nil), t.state.OpponentCardsSeen...),
		OpponentColors:      append([]string(nil), t.state.OpponentColors...),
		DeckName:            t.state.DeckName,
		DeckColors:          append([]string(nil), t.state.DeckColors...),
		Event:               t.state.EventID,
		Format:              t.state.Format,
		DurationSeconds:     duration,
		Turns:               t.state.MaxTurns,
		Mulligans:           t.state.Mulligans,
		OpponentMulligans:   t.state.OpponentMulligans,
		OpeningHandSize:     t.state.OpeningHandSize,
		GoingFirst:          t.state.GoingFirst,
		WinCondition:        t.state.WinCondition,
		RankChange:          t.state.RankChange,
		MatchID:             t.state.MatchID,
	}
	if t.state.Rank.Class != "" {
		rank := t.state.Rank
		rec.Rank = &rank
	}
	return rec
}

func appendUnique(list []int, v int) []int {
	for _, x := range list {
		if x == v {
			return list
		}
	}
	return append(list, v)
}

func colorList(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for c := range set {
		out = append(out, c)
	}
	return out
}
