package match

import (
	"github.com/tidwall/gjson"

	"github.com/Balthazzahr/scry-daemon/internal/domain"
)

// frameValue is the generic tree node handlers walk. None of the Arena keys
// accessed via Get contain path metacharacters except "Client.SceneChange",
// which goes through frame.Field instead.
type frameValue = gjson.Result

// addColorValue folds one color scalar (integer id or enum string) into set.
func addColorValue(set map[string]struct{}, v frameValue) {
	switch v.Type {
	case gjson.Number:
		if c, ok := domain.ColorFromInt(int(v.Int())); ok {
			set[c] = struct{}{}
		}
	case gjson.String:
		if c, ok := domain.ColorFromString(v.String()); ok {
			set[c] = struct{}{}
		}
	}
}

// commandZoneCardID reads a command zone entry, which is either a bare id or
// an object carrying cardId/grpId.
func commandZoneCardID(entry frameValue) int {
	if entry.IsObject() {
		if id := entry.Get("cardId"); id.Exists() {
			return int(id.Int())
		}
		if id := entry.Get("grpId"); id.Exists() {
			return int(id.Int())
		}
		return 0
	}
	return int(entry.Int())
}

// seatIDs reads the systemSeatIds header list.
func seatIDs(msg frameValue) []int {
	var out []int
	msg.Get("systemSeatIds").ForEach(func(_, v frameValue) bool {
		out = append(out, int(v.Int()))
		return true
	})
	return out
}

// firstOf returns the first existing field among names, else the node itself.
func firstOf(msg frameValue, names ...string) frameValue {
	for _, n := range names {
		if v := msg.Get(n); v.Exists() {
			return v
		}
	}
	return msg
}
