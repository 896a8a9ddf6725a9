package ports

import "context"

// TextGenerator defines the contract for a generative-text backend.
// Any model that accepts a prompt and returns text can implement it.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}
