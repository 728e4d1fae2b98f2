package ports

import "context"

// Completer produces a JSON-mode text completion for a prompt.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}
