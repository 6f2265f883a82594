package domain

import "strings"

// Placeholder labels the client emits before the real deck name is known.
var genericDeckNames = map[string]struct{}{
	"":                {},
	"Unknown":         {},
	"Default Deck":    {},
	"Anvil Mid Range": {},
	"New Deck":        {},
	"Imported Deck":   {},
	"Standard Deck":   {},
	"Brawl Deck":      {},
	"Unknown Card":    {},
}

// IsGenericName reports whether a deck or card label is a placeholder.
// Generic labels are treated as "not yet known" and must never overwrite a
// specific one.
func IsGenericName(name string) bool {
	if _, ok := genericDeckNames[name]; ok {
		return true
	}
	if strings.Contains(name, "Brawl: Card#") || strings.Contains(name, "Unknown Card") {
		return true
	}
	return strings.HasPrefix(name, "Card#")
}

// FormatEventName converts internal event ids to human readable text.
func FormatEventName(eventID string) string {
	if eventID == "" {
		return "Unknown Event"
	}
	name := strings.ReplaceAll(eventID, "Play_", "")
	name = strings.ReplaceAll(name, "Ranked_", "Ranked ")
	name = strings.ReplaceAll(name, "Constructed_", "")
	name = strings.ReplaceAll(name, "Bo1", "BO1")
	name = strings.ReplaceAll(name, "Bo3", "BO3")
	name = strings.ReplaceAll(name, "_", " ")
	return strings.TrimSpace(name)
}
