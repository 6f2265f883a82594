package match

import (
	"strings"

	"github.com/Balthazzahr/scry-daemon/internal/cards"
)

// Confidence tiers a heuristic's candidate. The tracker applies candidates
// through these pure functions so the sticky and monotonic invariants stay
// centrally enforced.
type Confidence int

const (
	ConfidenceNone Confidence = iota
	ConfidenceWeak
	ConfidenceStrong
)

// Zones 26 and 29 are the command zones; anything a seat owns there is a
// commander candidate in Brawl.
func isAnchorZone(zoneID int) bool {
	return zoneID == 26 || zoneID == 29
}

// commanderConfidence rates a card as a commander candidate. Strong requires
// the resolver to flag it commander-eligible (or a legendary creature or
// planeswalker type line); weak covers anything legendary sitting in a
// command zone, or any command-zone occupant in a Brawl match.
func commanderConfidence(card cards.Card, inAnchorZone, isBrawl bool) Confidence {
	if card.IsCommander {
		return ConfidenceStrong
	}
	if card.IsLegendary &&
		(strings.Contains(card.TypeLine, "Creature") || strings.Contains(card.TypeLine, "Planeswalker")) {
		return ConfidenceStrong
	}
	if inAnchorZone && (card.IsLegendary || isBrawl) {
		return ConfidenceWeak
	}
	return ConfidenceNone
}

// classifyFormat derives a format label from the game variant, falling back
// to pattern-matching the event id. Returns "" when nothing matched.
func classifyFormat(variant, eventID string) string {
	switch variant {
	case "GameVariant_Brawl":
		return "Brawl"
	case "GameVariant_Standard":
		return "Standard"
	case "GameVariant_Historic":
		return "Historic"
	case "GameVariant_Traditional":
		return "Traditional"
	}

	if eventID == "" || eventID == "Unknown" {
		return ""
	}
	eid := strings.ReplaceAll(eventID, "_", " ")

	switch {
	case strings.Contains(eid, "Draft"):
		return "Draft"
	case strings.Contains(eid, "Sealed"):
		return "Sealed"
	case strings.Contains(eid, "Cube"):
		return "Cube"
	case strings.Contains(eid, "JumpIn") || strings.Contains(eid, "Jump In"):
		return "Jump In"
	case strings.Contains(eid, "StarterDeck") || strings.Contains(eid, "Starter Deck"):
		return "Starter Deck"
	case strings.Contains(eid, "Brawl") || strings.Contains(eid, "Commander") || strings.Contains(eid, "AIBotMatch"):
		switch {
		case strings.Contains(eid, "Historic"):
			return "Historic Brawl"
		case strings.Contains(eid, "Standard"):
			return "Standard Brawl"
		case strings.Contains(eid, "AIBotMatch"):
			return "Bot Match"
		default:
			return "Brawl"
		}
	case strings.Contains(eid, "Timeless"):
		return "Timeless"
	case strings.Contains(eid, "Historic"):
		return "Historic"
	case strings.Contains(eid, "Explorer"):
		return "Explorer"
	case strings.Contains(eid, "Alchemy"):
		return "Alchemy"
	case strings.Contains(eid, "Standard"):
		return "Standard"
	case strings.Contains(eid, "Pauper"):
		return "Pauper"
	case strings.Contains(eid, "Artisan"):
		return "Artisan"
	case strings.Contains(eid, "Momir"):
		return "Momir"
	case strings.Contains(eid, "Gladiator"):
		return "Gladiator"
	case strings.Contains(eid, "MidWeekMagic") || strings.Contains(eid, "MWM"):
		return "MidWeek Magic"
	case strings.Contains(eid, "Festival"):
		return "Festival"
	case strings.Contains(eid, "Practice") || strings.Contains(eid, "Sparky"):
		return "Bot Match"
	}
	// Unrecognized but non-empty event ids are better than "Unknown".
	return eventID
}

// winConditionLabel maps the Arena win reason enum to readable text.
func winConditionLabel(reason string) string {
	switch reason {
	case "WinCondition_Game":
		return "Game Win"
	case "WinCondition_Concede":
		return "Opponent Conceded"
	case "WinCondition_Timeout":
		return "Opponent Timeout"
	default:
		return reason
	}
}
