// Package llm provides the completion capability used by the agent loop.
package llm

import "context"

// Message roles
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatClient interface for LLM interactions (allows mocking in tests)
type ChatClient interface {
	Chat(ctx context.Context, messages []Message) (*Response, error)
}

// StreamingChatClient extends ChatClient with streaming support
type StreamingChatClient interface {
	ChatClient
	ChatStream(ctx context.Context, messages []Message, streamFunc func(chunk string)) (*Response, error)
}

// Message represents a chat message
type Message struct {
	Role    string `json:"role"` // system, user, assistant
	Content string `json:"content"`
}

// Response from the LLM
type Response struct {
	Content string
}
