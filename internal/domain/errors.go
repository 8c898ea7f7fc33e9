package domain

import "errors"

var (
	// ErrInvalidArgument signals malformed caller input (empty id or text,
	// non-positive top-k, bad chunk parameters). Always surfaced.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrStoreUnavailable signals an unreachable document store backend.
	ErrStoreUnavailable = errors.New("document store unavailable")
	// ErrGenerationUnavailable signals an unreachable or misconfigured
	// generative model.
	ErrGenerationUnavailable = errors.New("generation unavailable")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
)
