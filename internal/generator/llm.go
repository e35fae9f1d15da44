package generator

import "context"

// LLMClient abstracts the chat-completion endpoint so generation logic can
// be tested against a scripted implementation.
type LLMClient interface {
	// Complete sends a system/user message pair and returns the first
	// choice's message content verbatim.
	Complete(ctx context.Context, system, user string) (string, error)
}
