package match

import (
	"regexp"
	"time"
)

// Arena log lines carry either a US-style or an ISO timestamp, and event
// names appear in a logger prefix before the payload.
var (
	usTimestampRe  = regexp.MustCompile(`(\d{1,2}/\d{1,2}/\d{4} \d{1,2}:\d{2}:\d{2} (?:AM|PM))`)
	isoTimestampRe = regexp.MustCompile(`(\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2})`)
	loggerHintRe   = regexp.MustCompile(`\[UnityCrossThreadLogger\](?:==>|<==)?\s*([a-zA-Z0-9._]+)`)
	arrowHintRe    = regexp.MustCompile(`(?:==>|<==)\s*([a-zA-Z0-9._]+)`)
	displayNameRe  = regexp.MustCompile(`Display Name: ([^#\s]+#[0-9]+)`)
)

// ExtractTimestamp parses a wall-clock timestamp out of a log line. The
// second return is false when no recognized format is present.
func ExtractTimestamp(line string) (time.Time, bool) {
	if m := usTimestampRe.FindStringSubmatch(line); m != nil {
		if t, err := time.ParseInLocation("1/2/2006 3:04:05 PM", m[1], time.Local); err == nil {
			return t, true
		}
	}
	if m := isoTimestampRe.FindStringSubmatch(line); m != nil {
		if t, err := time.ParseInLocation("2006-01-02 15:04:05", m[1], time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ExtractEventHint recovers the event name from the logger prefix preceding
// a payload, e.g. "[UnityCrossThreadLogger]==> EventSetDeckV2".
func ExtractEventHint(line string) string {
	if m := loggerHintRe.FindStringSubmatch(line); m != nil {
		return m[1]
	}
	if m := arrowHintRe.FindStringSubmatch(line); m != nil {
		return m[1]
	}
	return ""
}

// ExtractDisplayName picks the local player's screen name out of the
// client's plain-text identity line.
func ExtractDisplayName(line string) string {
	if m := displayNameRe.FindStringSubmatch(line); m != nil {
		return m[1]
	}
	return ""
}
