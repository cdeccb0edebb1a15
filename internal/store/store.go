package store

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"tarsterm/internal/model/chat"
	"tarsterm/internal/model/settings"
)

var ErrSessionNotFound = errors.New("session not found")

// Store holds the live transcript, the saved session list, personality
// settings, lifetime counters and the panel toggles. It is a process-wide
// singleton injected into the client and the view. Mutations are atomic
// behind the mutex; multi-step sequences such as save-then-load never release
// it in between, so an in-flight message cannot be lost between the save and
// the swap.
type Store struct {
	mu sync.RWMutex

	currentID   string
	currentName string
	createdAt   time.Time
	messages    []chat.Message

	sessions []chat.Session

	personality   settings.Personality
	totalMessages int
	totalSessions int

	status      chat.Status
	historyOpen bool

	statePath string
	namePick  NamePicker
	logger    *zap.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithStatePath enables persistence to the given JSON file.
func WithStatePath(path string) Option {
	return func(s *Store) { s.statePath = path }
}

// WithNamePicker swaps the session-name randomness, for deterministic tests.
func WithNamePicker(pick NamePicker) Option {
	return func(s *Store) { s.namePick = pick }
}

// New returns an empty store with default settings. Pass the previously
// persisted state back in with Load.
func New(logger *zap.Logger, opts ...Option) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{
		personality: settings.Default(),
		status:      chat.StatusIdle,
		namePick:    defaultNamePicker,
		logger:      logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddMessage appends a user or assistant turn with a fresh id and timestamp.
func (s *Store) AddMessage(role chat.Role, content string) chat.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.appendLocked(chat.Message{Role: role, Content: content})
}

// AddAssistantMessage appends a completed assistant turn carrying response
// metadata.
func (s *Store) AddAssistantMessage(content string, confidence int, source string) chat.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.appendLocked(chat.Message{
		Role:       chat.RoleAssistant,
		Content:    content,
		Confidence: confidence,
		Source:     source,
	})
}

// BeginStreamingMessage appends the empty assistant message that chunk frames
// will fill. It is always the last element of the transcript.
func (s *Store) BeginStreamingMessage() chat.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.appendLocked(chat.Message{Role: chat.RoleAssistant, IsStreaming: true})
}

func (s *Store) appendLocked(msg chat.Message) chat.Message {
	msg.ID = uuid.NewString()
	msg.Timestamp = time.Now().UTC()
	s.messages = append(s.messages, msg)
	s.totalMessages++
	s.saveLocked()
	return msg
}

// UpdateLastMessage replaces the trailing message's content and streaming
// flag in place. The caller only invokes this while that message is the
// designated streaming message. No-op on an empty transcript.
func (s *Store) UpdateLastMessage(content string, isStreaming bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.messages) == 0 {
		return
	}
	last := &s.messages[len(s.messages)-1]
	last.Content = content
	last.IsStreaming = isStreaming
}

// Messages returns a copy of the live transcript.
func (s *Store) Messages() []chat.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	copied := make([]chat.Message, len(s.messages))
	copy(copied, s.messages)
	return copied
}

// CreateNewSession saves the current conversation into the session list, then
// starts a fresh one. A blank name gets a generated readable one.
func (s *Store) CreateNewSession(name string) chat.Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stashCurrentLocked()

	if name == "" {
		name = RandomSessionName(s.namePick)
	}
	now := time.Now().UTC()
	s.currentID = newSessionID()
	s.currentName = name
	s.createdAt = now
	s.messages = nil
	s.totalSessions++
	s.saveLocked()

	return chat.Session{ID: s.currentID, Name: name, CreatedAt: now, UpdatedAt: now}
}

// LoadSession saves the current conversation, then replaces it with the named
// session's transcript. The history panel closes on success.
func (s *Store) LoadSession(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var target *chat.Session
	for i := range s.sessions {
		if s.sessions[i].ID == id {
			target = &s.sessions[i]
			break
		}
	}
	if target == nil {
		return ErrSessionNotFound
	}

	s.stashCurrentLocked()

	s.currentID = target.ID
	s.currentName = target.Name
	s.createdAt = target.CreatedAt
	s.messages = append([]chat.Message(nil), target.Messages...)
	s.historyOpen = false
	s.saveLocked()
	return nil
}

// DeleteSession removes a session from the list. Deleting the current session
// also clears the live transcript.
func (s *Store) DeleteSession(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.sessions[:0]
	for _, sess := range s.sessions {
		if sess.ID != id {
			kept = append(kept, sess)
		}
	}
	s.sessions = kept

	if s.currentID == id {
		s.currentID = ""
		s.currentName = ""
		s.messages = nil
	}
	s.saveLocked()
}

// RenameSession renames a saved session, or the current one. Blank names are
// ignored.
func (s *Store) RenameSession(id, name string) {
	if name == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.currentID == id {
		s.currentName = name
	}
	for i := range s.sessions {
		if s.sessions[i].ID == id {
			s.sessions[i].Name = name
			s.sessions[i].UpdatedAt = time.Now().UTC()
		}
	}
	s.saveLocked()
}

// Sessions returns a copy of the saved session list.
func (s *Store) Sessions() []chat.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	copied := make([]chat.Session, len(s.sessions))
	copy(copied, s.sessions)
	return copied
}

// CurrentSession describes the live conversation, if any.
func (s *Store) CurrentSession() (chat.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.currentID == "" {
		return chat.Session{}, false
	}
	return chat.Session{
		ID:        s.currentID,
		Name:      s.currentName,
		Messages:  append([]chat.Message(nil), s.messages...),
		CreatedAt: s.createdAt,
		UpdatedAt: time.Now().UTC(),
	}, true
}

// stashCurrentLocked upserts the live conversation into the session list.
// Conversations that never got a session id or never saw a message are not
// worth keeping.
func (s *Store) stashCurrentLocked() {
	if s.currentID == "" || len(s.messages) == 0 {
		return
	}

	snapshot := chat.Session{
		ID:        s.currentID,
		Name:      s.currentName,
		Messages:  append([]chat.Message(nil), s.messages...),
		CreatedAt: s.createdAt,
		UpdatedAt: time.Now().UTC(),
	}

	for i := range s.sessions {
		if s.sessions[i].ID == snapshot.ID {
			s.sessions[i] = snapshot
			return
		}
	}
	s.sessions = append(s.sessions, snapshot)
}

// EnsureSession lazily creates a session when the first message arrives
// without one.
func (s *Store) EnsureSession() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.currentID != "" {
		return
	}
	s.currentID = newSessionID()
	s.currentName = RandomSessionName(s.namePick)
	s.createdAt = time.Now().UTC()
	s.totalSessions++
	s.saveLocked()
}

// Personality returns the active settings.
func (s *Store) Personality() settings.Personality {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.personality
}

// UpdatePersonality replaces the settings, clamped to [0,100].
func (s *Store) UpdatePersonality(p settings.Personality) settings.Personality {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.personality = p.Clamp()
	s.saveLocked()
	return s.personality
}

// Status reports the chat status shown in the UI.
func (s *Store) Status() chat.Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// SetStatus records the chat status.
func (s *Store) SetStatus(status chat.Status) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = status
}

// HistoryOpen reports whether the history panel is showing.
func (s *Store) HistoryOpen() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.historyOpen
}

// ToggleHistory flips the history panel.
func (s *Store) ToggleHistory() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.historyOpen = !s.historyOpen
}

// Totals returns the lifetime message and session counters.
func (s *Store) Totals() (messages, sessions int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.totalMessages, s.totalSessions
}
