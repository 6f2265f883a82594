// Package cards resolves opaque Arena card ids (GRPIDs) to metadata through
// a cache file, the client's embedded card database, and Scryfall, in that
// order of preference.
package cards

import (
	"fmt"
	"strings"

	"github.com/Balthazzahr/scry-daemon/internal/domain"
)

// Card is the resolved metadata for one Arena GRPID.
type Card struct {
	ID            int      `json:"id"`
	Name          string   `json:"name"`
	Set           string   `json:"set,omitempty"`
	ManaCost      string   `json:"mana_cost,omitempty"`
	TypeLine      string   `json:"type_line,omitempty"`
	Colors        []string `json:"colors,omitempty"`
	ColorIdentity []string `json:"color_identity,omitempty"`
	ImageURL      string   `json:"image_url,omitempty"`
	ScryfallURI   string   `json:"scryfall_uri,omitempty"`
	IsLegendary   bool     `json:"is_legendary,omitempty"`
	IsCommander   bool     `json:"is_commander,omitempty"`
	NotFound      bool     `json:"not_found,omitempty"`
}

// Placeholder is the deterministic fallback for ids nothing could resolve.
func Placeholder(id int) Card {
	return Card{ID: id, Name: fmt.Sprintf("Card#%d", id)}
}

// Resolved reports whether the card carries a real name rather than a
// placeholder or not-found marker.
func (c Card) Resolved() bool {
	if c.Name == "" || c.NotFound {
		return false
	}
	return !domain.IsGenericName(c.Name) && !strings.Contains(c.Name, "Unknown Card")
}

// normalize backfills derived fields on cache entries written by older
// versions: commander eligibility from the type line, and color identity
// from mana cost pips when nothing better is known.
func normalize(c Card) Card {
	if !c.IsLegendary && strings.Contains(c.TypeLine, "Legendary") {
		c.IsLegendary = true
	}
	if !c.IsCommander && c.IsLegendary {
		if strings.Contains(c.TypeLine, "Creature") || strings.Contains(c.TypeLine, "Planeswalker") {
			c.IsCommander = true
		}
	}
	if len(c.ColorIdentity) == 0 && c.ManaCost != "" {
		var identity []string
		for _, sym := range []string{"W", "U", "B", "R", "G"} {
			if strings.Contains(c.ManaCost, sym) {
				identity = append(identity, sym)
			}
		}
		c.ColorIdentity = identity
	}
	return c
}
