package client

// Frame is one discrete message unit on the chat socket. The backend tags
// each frame with a type; unknown or malformed frames are dropped.
type Frame struct {
	Type         string `json:"type"`
	Content      string `json:"content,omitempty"`
	FullResponse string `json:"full_response,omitempty"`
}

const (
	frameGreeting = "greeting"
	frameStart    = "start"
	frameChunk    = "chunk"
	frameEnd      = "end"
	frameResponse = "response"
)

// outboundFrame asks the backend for a reply, streamed or not.
type outboundFrame struct {
	Message string `json:"message"`
	Stream  bool   `json:"stream"`
}
