package store

import (
	"encoding/json"
	"time"

	"github.com/pkg/errors"

	"tarsterm/internal/model/chat"
	"tarsterm/internal/model/settings"
)

// currentExport is the downloadable form of the live conversation.
type currentExport struct {
	ExportedAt time.Time            `json:"exportedAt"`
	Messages   []chat.Message       `json:"messages"`
	Settings   settings.Personality `json:"settings"`
}

// ExportCurrent serializes the live transcript plus active settings.
func (s *Store) ExportCurrent() ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := currentExport{
		ExportedAt: time.Now().UTC(),
		Messages:   append([]chat.Message(nil), s.messages...),
		Settings:   s.personality,
	}
	raw, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "export current chat")
	}
	return raw, nil
}

// ExportSessions serializes the full saved session list, with the live
// conversation folded in first.
func (s *Store) ExportSessions() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stashCurrentLocked()
	raw, err := json.MarshalIndent(s.sessions, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "export sessions")
	}
	return raw, nil
}
