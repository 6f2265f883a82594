package domain

import (
	"sort"
	"strings"
)

// Arena encodes colors either as small integers or as enum-style strings
// depending on which subsystem produced the payload.
var intColorMap = map[int]string{
	1: "W", 2: "U", 3: "B", 4: "R", 5: "G",
}

var strColorMap = map[string]string{
	"CardColor_White": "W", "ManaColor_White": "W",
	"CardColor_Blue": "U", "ManaColor_Blue": "U",
	"CardColor_Black": "B", "ManaColor_Black": "B",
	"CardColor_Red": "R", "ManaColor_Red": "R",
	"CardColor_Green": "G", "ManaColor_Green": "G",
}

// ColorFromInt maps an Arena integer color id to a WUBRG letter.
func ColorFromInt(id int) (string, bool) {
	c, ok := intColorMap[id]
	return c, ok
}

// ColorFromString maps an Arena color enum string to a WUBRG letter.
func ColorFromString(s string) (string, bool) {
	c, ok := strColorMap[s]
	return c, ok
}

// ColorsFromManaCost derives color letters from mana cost pip notation
// ("oW", "oU", ...) as a last-resort fallback.
func ColorsFromManaCost(cost string) []string {
	lower := strings.ToLower(cost)
	var colors []string
	for _, pair := range [][2]string{{"ow", "W"}, {"ou", "U"}, {"ob", "B"}, {"or", "R"}, {"og", "G"}} {
		if strings.Contains(lower, pair[0]) {
			colors = append(colors, pair[1])
		}
	}
	return colors
}

// MergeColors adds the given letters to set, keeping it sorted and
// duplicate-free. Returns the merged set and whether anything was added.
// Color accumulation is monotonic within a match.
func MergeColors(set []string, add ...string) ([]string, bool) {
	changed := false
	for _, c := range add {
		found := false
		for _, have := range set {
			if have == c {
				found = true
				break
			}
		}
		if !found {
			set = append(set, c)
			changed = true
		}
	}
	if changed {
		sort.Strings(set)
	}
	return set, changed
}

// FormatColors renders a color set for human output.
func FormatColors(colors []string) string {
	switch len(colors) {
	case 0:
		return "Colorless"
	case 1:
		names := map[string]string{"W": "White", "U": "Blue", "B": "Black", "R": "Red", "G": "Green"}
		if n, ok := names[colors[0]]; ok {
			return n
		}
		return colors[0]
	case 2:
		return strings.Join(colors, "")
	default:
		return strings.Join(colors, "") + " (Multicolor)"
	}
}
