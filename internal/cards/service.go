package cards

import (
	"go.uber.org/zap"
)

// Resolver is the lookup boundary the match tracker depends on. Resolve must
// be safe to call with an unknown id; it returns a deterministic placeholder
// rather than failing.
type Resolver interface {
	Resolve(id int) Card
	ResolveByName(name string) (Card, bool)
	// Remember warms the cache with a partial entry observed in the log
	// stream (deck lists carry names the resolver may never see otherwise).
	Remember(id int, name string)
	// FlushCache persists the cache after a batch of Remember calls.
	FlushCache() error
}

// Service chains cache, local database, and Scryfall, caching the first
// non-empty result for future calls.
type Service struct {
	cache  *Cache
	db     *LocalDB
	scry   *ScryfallClient
	logger *zap.Logger
}

// NewService wires the resolution chain. db and scry may be nil, degrading
// to whatever remains.
func NewService(cache *Cache, db *LocalDB, scry *ScryfallClient, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{cache: cache, db: db, scry: scry, logger: logger}
}

// Resolve returns metadata for a GRPID, never an error.
func (s *Service) Resolve(id int) Card {
	if entry, ok := s.cache.Get(id); ok && entry.Resolved() {
		return normalize(entry)
	}

	var card Card
	var found bool
	if s.db != nil {
		card, found = s.db.Lookup(id)
	}

	// Scryfall fills gaps the local database leaves: image URLs and cards
	// the installed client predates.
	if s.scry != nil && (!found || card.ImageURL == "") {
		var remote Card
		var err error
		if found && card.Resolved() {
			remote, err = s.scry.ByName(id, card.Name)
			if err != nil {
				remote, err = s.scry.ByArenaID(id)
			}
		} else {
			remote, err = s.scry.ByArenaID(id)
		}
		if err != nil {
			s.logger.Debug("scryfall lookup failed", zap.Int("grpId", id), zap.Error(err))
		} else if found {
			card = merge(card, remote)
		} else {
			card = remote
			found = true
		}
	}

	if !found || card.Name == "" {
		return Placeholder(id)
	}

	card.ID = id
	card = normalize(card)
	s.cache.Put(card)
	if card.Resolved() {
		if err := s.cache.Save(); err != nil {
			s.logger.Warn("could not save card cache", zap.Error(err))
		}
	}
	return card
}

// ResolveByName looks a card up by exact name in the cache. Used when only a
// name survived and the id is gone.
func (s *Service) ResolveByName(name string) (Card, bool) {
	card, ok := s.cache.FindByName(name)
	if !ok {
		return Card{}, false
	}
	return normalize(card), true
}

// Remember records a name seen in a deck list without triggering the full
// resolution chain. Entries that already resolved are left alone.
func (s *Service) Remember(id int, name string) {
	if id <= 0 || name == "" {
		return
	}
	if existing, ok := s.cache.Get(id); ok && existing.Resolved() {
		return
	}
	s.cache.Put(Card{ID: id, Name: name})
}

// FlushCache writes the cache to disk after a batch of Remember calls.
func (s *Service) FlushCache() error {
	return s.cache.Save()
}

// merge overlays remote metadata on a local result, keeping the local id and
// name which are authoritative for Arena.
func merge(local, remote Card) Card {
	id, name := local.ID, local.Name
	out := remote
	out.ID = id
	if name != "" {
		out.Name = name
	}
	if out.Set == "" {
		out.Set = local.Set
	}
	if len(out.ColorIdentity) == 0 {
		out.ColorIdentity = local.ColorIdentity
	}
	if out.TypeLine == "" {
		out.TypeLine = local.TypeLine
	}
	return out
}
