package cards

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"go.uber.org/zap"
)

// Cache is the on-disk card metadata cache, keyed by GRPID. It is loaded
// once at startup and flushed whenever a newly resolved card is added.
type Cache struct {
	path    string
	entries map[int]Card
	logger  *zap.Logger
}

// NewCache creates a cache backed by path. Call Load before first use.
func NewCache(path string, logger *zap.Logger) *Cache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cache{
		path:    path,
		entries: make(map[int]Card),
		logger:  logger,
	}
}

// Load reads the cache file. A missing file is an empty cache, not an error.
func (c *Cache) Load() error {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read card cache: %w", err)
	}

	raw := make(map[string]Card)
	if err := json.Unmarshal(data, &raw); err != nil {
		c.logger.Warn("card cache unreadable, starting empty", zap.Error(err))
		return nil
	}
	for k, v := range raw {
		id, err := strconv.Atoi(k)
		if err != nil {
			continue
		}
		v.ID = id
		c.entries[id] = v
	}
	c.logger.Info("loaded card cache", zap.Int("cards", len(c.entries)))
	return nil
}

// Save writes the cache atomically (write-then-rename).
func (c *Cache) Save() error {
	raw := make(map[string]Card, len(c.entries))
	for id, card := range c.entries {
		raw[strconv.Itoa(id)] = card
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("encode card cache: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}
	tmp := c.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write card cache: %w", err)
	}
	return os.Rename(tmp, c.path)
}

// Get returns the cached entry for id when one exists.
func (c *Cache) Get(id int) (Card, bool) {
	card, ok := c.entries[id]
	return card, ok
}

// Put stores an entry. It does not flush; callers decide when a Save is
// worth the write.
func (c *Cache) Put(card Card) {
	if card.ID == 0 {
		return
	}
	c.entries[card.ID] = card
}

// FindByName scans the cache for a card with an exactly matching name.
func (c *Cache) FindByName(name string) (Card, bool) {
	if name == "" {
		return Card{}, false
	}
	for _, card := range c.entries {
		if card.Name == name {
			return card, true
		}
	}
	return Card{}, false
}

// Len returns the number of cached entries.
func (c *Cache) Len() int { return len(c.entries) }
