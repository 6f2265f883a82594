package cards

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheLoadMissingFileIsEmpty(t *testing.T) {
	c := NewCache(filepath.Join(t.TempDir(), "card_cache.json"), nil)

	require.NoError(t, c.Load())
	assert.Equal(t, 0, c.Len())
}

func TestCacheLoadCorruptFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "card_cache.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	c := NewCache(path, nil)
	require.NoError(t, c.Load())
	assert.Equal(t, 0, c.Len())
}

func TestCacheRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "card_cache.json")

	c := NewCache(path, nil)
	c.Put(Card{ID: 86573, Name: "Atraxa, Grand Unifier", TypeLine: "Legendary Creature"})
	c.Put(Card{ID: 12345, Name: "Lightning Strike"})
	require.NoError(t, c.Save())

	assert.NoFileExists(t, path+".tmp")

	reloaded := NewCache(path, nil)
	require.NoError(t, reloaded.Load())
	assert.Equal(t, 2, reloaded.Len())

	card, ok := reloaded.Get(86573)
	require.True(t, ok)
	assert.Equal(t, 86573, card.ID)
	assert.Equal(t, "Atraxa, Grand Unifier", card.Name)
}

func TestCacheIgnoresZeroID(t *testing.T) {
	c := NewCache(filepath.Join(t.TempDir(), "card_cache.json"), nil)
	c.Put(Card{Name: "No ID"})
	assert.Equal(t, 0, c.Len())
}

func TestCacheFindByName(t *testing.T) {
	c := NewCache(filepath.Join(t.TempDir(), "card_cache.json"), nil)
	c.Put(Card{ID: 7, Name: "Sol Ring"})

	card, ok := c.FindByName("Sol Ring")
	require.True(t, ok)
	assert.Equal(t, 7, card.ID)

	_, ok = c.FindByName("Mana Crypt")
	assert.False(t, ok)

	_, ok = c.FindByName("")
	assert.False(t, ok)
}
