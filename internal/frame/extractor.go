package frame

import (
	"strings"

	"github.com/tidwall/gjson"
)

// Extractor accumulates log lines into complete JSON payloads. It holds at
// most one in-flight payload and must be fed lines strictly in order.
type Extractor struct {
	buf    strings.Builder
	depth  int
	inJSON bool
}

// NewExtractor returns an empty extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Consume appends a line to the in-flight payload and returns a complete
// Frame once the brace balance closes. A payload that fails to parse is
// discarded; the buffer is reset either way so a malformed payload can never
// wedge the extractor.
func (e *Extractor) Consume(line string) (Frame, bool) {
	stripped := strings.TrimSpace(line)

	if !e.inJSON && !strings.Contains(stripped, "{") {
		return Frame{}, false
	}

	e.buf.WriteString(stripped)
	e.depth += strings.Count(stripped, "{") - strings.Count(stripped, "}")
	e.inJSON = true

	if e.depth > 0 || e.buf.Len() == 0 {
		return Frame{}, false
	}

	raw := e.buf.String()
	e.Reset()
	return tryParse(raw)
}

// Pending reports whether a payload is mid-assembly.
func (e *Extractor) Pending() bool { return e.inJSON }

// Reset discards any in-flight payload.
func (e *Extractor) Reset() {
	e.buf.Reset()
	e.depth = 0
	e.inJSON = false
}

func tryParse(raw string) (Frame, bool) {
	start := strings.Index(raw, "{")
	if start == -1 {
		return Frame{}, false
	}
	doc := raw[start:]

	if gjson.Valid(doc) {
		return Frame{root: gjson.Parse(doc)}, true
	}

	// The producer occasionally appends trailing garbage after the payload.
	// Retry with the text up to the last close brace before giving up.
	if last := strings.LastIndex(doc, "}"); last != -1 {
		trimmed := doc[:last+1]
		if gjson.Valid(trimmed) {
			return Frame{root: gjson.Parse(trimmed)}, true
		}
	}
	return Frame{}, false
}
