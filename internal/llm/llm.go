// Package llm defines the chat-completion port used by the answer generator.
package llm

import (
	"context"
	"errors"
)

// Roles recognised by chat models.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ErrRateLimited is returned when the provider rejects a call for rate or quota reasons.
var ErrRateLimited = errors.New("language model rate limit or quota exceeded")

// Message is a role-tagged chat message.
type Message struct {
	Role    string
	Content string
}

// Options tune a single completion.
type Options struct {
	Temperature float64
	MaxTokens   int
}

// ChatModel turns a conversation into a single text completion.
type ChatModel interface {
	Chat(ctx context.Context, messages []Message, opts Options) (string, error)
}
