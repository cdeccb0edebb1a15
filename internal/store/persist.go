package store

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"tarsterm/internal/model/chat"
	"tarsterm/internal/model/settings"
)

// persistedState is the subset of store state that survives a restart:
// the saved sessions, the lifetime counters and the personality scalars.
// Live transcript, connection state and panel toggles deliberately reset.
type persistedState struct {
	Sessions      []chat.Session       `json:"sessions"`
	TotalMessages int                  `json:"totalMessages"`
	TotalSessions int                  `json:"totalSessions"`
	Personality   settings.Personality `json:"personality"`
}

// Load reads the state file, if one is configured and present. A missing file
// is a fresh start, not an error.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.statePath == "" {
		return nil
	}

	raw, err := os.ReadFile(s.statePath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return errors.Wrap(err, "read state file")
	}

	var state persistedState
	if err := json.Unmarshal(raw, &state); err != nil {
		return errors.Wrap(err, "decode state file")
	}

	s.sessions = state.Sessions
	s.totalMessages = state.TotalMessages
	s.totalSessions = state.TotalSessions
	s.personality = state.Personality.Clamp()
	return nil
}

// saveLocked writes the persisted subset. Failures are logged, never fatal;
// the conversation continues in memory.
func (s *Store) saveLocked() {
	if s.statePath == "" {
		return
	}

	state := persistedState{
		Sessions:      s.sessions,
		TotalMessages: s.totalMessages,
		TotalSessions: s.totalSessions,
		Personality:   s.personality,
	}

	raw, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		s.logger.Warn("encode state failed", zap.Error(err))
		return
	}

	if err := os.MkdirAll(filepath.Dir(s.statePath), 0o755); err != nil {
		s.logger.Warn("create state dir failed", zap.Error(err))
		return
	}
	if err := os.WriteFile(s.statePath, raw, 0o600); err != nil {
		s.logger.Warn("write state failed", zap.Error(err))
	}
}

// Save flushes the persisted subset on demand, e.g. at shutdown.
func (s *Store) Save() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stashCurrentLocked()
	s.saveLocked()
}
