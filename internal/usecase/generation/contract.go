package generation

import "context"

// ModelClient is a single-turn generative model invocation.
type ModelClient interface {
	Complete(ctx context.Context, prompt string) (string, error)
}
