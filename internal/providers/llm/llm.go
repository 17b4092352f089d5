package llm

import "context"

type Turn struct {
	Role    string // "user" | "assistant"
	Content string
}

type Provider interface {
	// StreamChat sends one user message on top of the running history and
	// returns a stream of incremental text chunks.
	StreamChat(ctx context.Context, system string, history []Turn, userMsg string) (chunks <-chan string, errs <-chan error)
	Close() error
}
