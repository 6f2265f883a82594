package router

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Balthazzahr/scry-daemon/internal/frame"
)

func TestRouteStrictVsLoose(t *testing.T) {
	r := New(nil)

	var strictHits, looseHits int
	r.Register("CourseDeckSummary", true, func(frame.Frame) error {
		strictHits++
		return nil
	})
	r.Register("winningTeamId", false, func(frame.Frame) error {
		looseHits++
		return nil
	})

	// Nested occurrence: loose matches, strict does not.
	r.Route(frame.Parse(`{"payload": {"CourseDeckSummary": {}, "winningTeamId": 1}}`), "")
	assert.Equal(t, 0, strictHits)
	assert.Equal(t, 1, looseHits)

	// Top level: both match.
	r.Route(frame.Parse(`{"CourseDeckSummary": {}, "winningTeamId": 1}`), "")
	assert.Equal(t, 1, strictHits)
	assert.Equal(t, 2, looseHits)
}

func TestRouteHintRunsFirst(t *testing.T) {
	r := New(nil)

	var order []string
	r.Register("aaa", false, func(frame.Frame) error {
		order = append(order, "aaa")
		return nil
	})
	r.Register("bbb", false, func(frame.Frame) error {
		order = append(order, "bbb")
		return nil
	})

	// The hinted handler short-circuits the keyword pass on success.
	r.Route(frame.Parse(`{"aaa": 1, "bbb": 2}`), "bbb")
	assert.Equal(t, []string{"bbb"}, order)
}

func TestRouteHintFailureFallsThrough(t *testing.T) {
	r := New(nil)

	var hits int
	r.Register("key", false, func(frame.Frame) error {
		hits++
		if hits == 1 {
			return errors.New("first call fails")
		}
		return nil
	})

	r.Route(frame.Parse(`{"key": 1}`), "key")
	assert.Equal(t, 2, hits, "hint failure should fall through to the keyword pass")
}

func TestRouteHandlerErrorDoesNotStarveOthers(t *testing.T) {
	r := New(nil)

	var second bool
	r.Register("first", false, func(frame.Frame) error {
		return errors.New("boom")
	})
	r.Register("second", false, func(frame.Frame) error {
		second = true
		return nil
	})

	r.Route(frame.Parse(`{"first": 1, "second": 2}`), "")
	assert.True(t, second)
}

func TestRouteHandlerPanicIsContained(t *testing.T) {
	r := New(nil)

	var after bool
	r.Register("boom", false, func(frame.Frame) error {
		panic("handler bug")
	})
	r.Register("after", false, func(frame.Frame) error {
		after = true
		return nil
	})

	assert.NotPanics(t, func() {
		r.Route(frame.Parse(`{"boom": 1, "after": 2}`), "")
	})
	assert.True(t, after)
}
