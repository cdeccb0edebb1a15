package chat

// Status mirrors what the assistant is currently doing. The view layer and
// the mood engine both key off it.
type Status string

const (
	StatusIdle      Status = "idle"
	StatusListening Status = "listening"
	StatusThinking  Status = "thinking"
	StatusSpeaking  Status = "speaking"
)
