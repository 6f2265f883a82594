// Package store owns the durable state file and the live status snapshot.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/Balthazzahr/scry-daemon/internal/domain"
)

// Store round-trips the persistent state to a JSON file. Save uses
// write-then-rename so an interrupted flush never corrupts prior state.
type Store struct {
	path   string
	logger *zap.Logger
}

// New creates a store backed by path.
func New(path string, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{path: path, logger: logger}
}

// Path returns the backing file path.
func (s *Store) Path() string { return s.path }

// Load reads the state file. A missing or unreadable file yields an empty
// state; history is too valuable to let a bad read wipe it, so unreadable
// files are logged and left in place.
func (s *Store) Load() domain.State {
	empty := domain.State{Matches: []domain.MatchRecord{}}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("could not read state file", zap.Error(err))
		}
		return empty
	}

	var st domain.State
	if err := json.Unmarshal(data, &st); err != nil {
		s.logger.Warn("state file unreadable, starting empty", zap.Error(err))
		return empty
	}
	if st.Matches == nil {
		st.Matches = []domain.MatchRecord{}
	}
	s.logger.Info("loaded state", zap.Int("matches", len(st.Matches)))
	return st
}

// Save writes the state atomically.
func (s *Store) Save(st domain.State) error {
	st.LastUpdated = time.Now().Format(time.RFC3339)

	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write state: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace state: %w", err)
	}
	return nil
}
