// Package frame reassembles structured JSON payloads embedded in the Arena
// log stream and exposes them as searchable trees.
package frame

import (
	"strings"

	"github.com/tidwall/gjson"
)

// Frame is a fully reassembled payload. The underlying tree is a gjson
// value: a tagged union of object, array, and scalar nodes.
type Frame struct {
	root gjson.Result
}

// Parse wraps a raw JSON document in a Frame. Intended for tests and replay;
// live frames come from the Extractor.
func Parse(raw string) Frame {
	return Frame{root: gjson.Parse(raw)}
}

// Root returns the underlying tree.
func (f Frame) Root() gjson.Result { return f.root }

// Raw returns the frame's raw JSON text.
func (f Frame) Raw() string { return f.root.Raw }

// Field returns the value of a direct top-level field. Unlike gjson paths,
// the key is matched literally, so dotted keys like "Client.SceneChange"
// resolve correctly.
func (f Frame) Field(key string) gjson.Result {
	return fieldOf(f.root, key)
}

// HasField reports whether key is a direct top-level field name. This is the
// strict matching mode: nested or incidental occurrences do not count.
func (f Frame) HasField(key string) bool {
	return fieldOf(f.root, key).Exists()
}

// Contains reports whether key appears anywhere in the frame: as a field
// name at any depth, inside arrays, or as a substring of a string scalar.
// String scalars match by substring because the producer sometimes
// re-encodes nested payloads as escaped strings.
func (f Frame) Contains(key string) bool {
	return contains(f.root, key)
}

// Find recursively locates the value for key anywhere in the frame,
// descending through objects, arrays, and string scalars that are themselves
// JSON documents. Returns a non-existent Result when the key is absent.
func (f Frame) Find(key string) gjson.Result {
	return FindIn(f.root, key)
}

func fieldOf(v gjson.Result, key string) gjson.Result {
	var out gjson.Result
	if !v.IsObject() {
		return out
	}
	v.ForEach(func(k, val gjson.Result) bool {
		if k.String() == key {
			out = val
			return false
		}
		return true
	})
	return out
}

func contains(v gjson.Result, key string) bool {
	switch {
	case v.IsObject():
		found := false
		v.ForEach(func(k, val gjson.Result) bool {
			if k.String() == key || contains(val, key) {
				found = true
				return false
			}
			return true
		})
		return found
	case v.IsArray():
		found := false
		v.ForEach(func(_, item gjson.Result) bool {
			if contains(item, key) {
				found = true
				return false
			}
			return true
		})
		return found
	case v.Type == gjson.String:
		return strings.Contains(v.String(), key)
	default:
		return false
	}
}

// FindIn is Find generalized to any subtree, so handlers can continue a
// search below a node they have already located.
func FindIn(v gjson.Result, key string) gjson.Result {
	var out gjson.Result
	switch {
	case v.IsObject():
		if direct := fieldOf(v, key); direct.Exists() {
			return direct
		}
		v.ForEach(func(_, val gjson.Result) bool {
			if val.Type == gjson.String {
				if nested, ok := reparse(val.String()); ok {
					if res := FindIn(nested, key); res.Exists() {
						out = res
						return false
					}
				}
			}
			if res := FindIn(val, key); res.Exists() {
				out = res
				return false
			}
			return true
		})
	case v.IsArray():
		v.ForEach(func(_, item gjson.Result) bool {
			if res := FindIn(item, key); res.Exists() {
				out = res
				return false
			}
			return true
		})
	}
	return out
}

// reparse decodes a string scalar that carries an embedded JSON document.
func reparse(s string) (gjson.Result, bool) {
	if len(s) < 2 {
		return gjson.Result{}, false
	}
	if s[0] != '{' && s[0] != '[' {
		return gjson.Result{}, false
	}
	if !gjson.Valid(s) {
		return gjson.Result{}, false
	}
	return gjson.Parse(s), true
}
