package frame

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsumeSingleLine(t *testing.T) {
	e := NewExtractor()

	f, ok := e.Consume(`{"greeting": "hello"}`)
	require.True(t, ok)
	assert.Equal(t, "hello", f.Root().Get("greeting").String())
	assert.False(t, e.Pending())
}

func TestConsumeSpansLines(t *testing.T) {
	e := NewExtractor()

	_, ok := e.Consume(`{"outer": {`)
	assert.False(t, ok)
	assert.True(t, e.Pending())

	_, ok = e.Consume(`"inner": 42`)
	assert.False(t, ok)

	f, ok := e.Consume(`}}`)
	require.True(t, ok)
	assert.Equal(t, int64(42), f.Root().Get("outer").Get("inner").Int())
	assert.False(t, e.Pending())
}

func TestConsumeTrimsLeadingNoise(t *testing.T) {
	e := NewExtractor()

	f, ok := e.Consume(`[UnityCrossThreadLogger]==> Event_Handler {"payload": 1}`)
	require.True(t, ok)
	assert.Equal(t, int64(1), f.Root().Get("payload").Int())
}

func TestConsumeTrailingGarbageFallback(t *testing.T) {
	e := NewExtractor()

	// Balanced braces but trailing text after the payload; the parser
	// retries up to the last close brace.
	f, ok := e.Consume(`{"a": "{"} trailing }`)
	require.False(t, ok)
	_ = f

	e.Reset()
	f, ok = e.Consume(`{"a": 1} 17:22:03`)
	require.True(t, ok)
	assert.Equal(t, int64(1), f.Root().Get("a").Int())
}

func TestConsumeMalformedResets(t *testing.T) {
	e := NewExtractor()

	_, ok := e.Consume(`{"broken": `)
	assert.False(t, ok)

	// Unbalanced close resets the buffer rather than wedging it.
	_, ok = e.Consume(`]]}`)
	assert.False(t, ok)
	assert.False(t, e.Pending())

	f, ok := e.Consume(`{"next": true}`)
	require.True(t, ok)
	assert.True(t, f.Root().Get("next").Bool())
}

func TestConsumeIgnoresPlainText(t *testing.T) {
	e := NewExtractor()

	_, ok := e.Consume("DETAILED LOGS: DISABLED")
	assert.False(t, ok)
	assert.False(t, e.Pending())
}
