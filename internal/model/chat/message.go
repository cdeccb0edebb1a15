package chat

import "time"

// Role identifies the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single turn in a conversation transcript.
//
// While IsStreaming is true the content is replaced wholesale as chunks
// arrive; once streaming ends the message is never mutated again.
type Message struct {
	ID          string    `json:"id"`
	Role        Role      `json:"role"`
	Content     string    `json:"content"`
	Timestamp   time.Time `json:"timestamp"`
	IsStreaming bool      `json:"isStreaming"`
	Confidence  int       `json:"confidence,omitempty"`
	Source      string    `json:"source,omitempty"`
}
