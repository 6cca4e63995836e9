package ragErrors

import (
	"fmt"
	"time"
)

// LoadError - a source file could not be read or decoded.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// ConfigError - an invalid chunking method or size/overlap relationship.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return "invalid configuration: " + e.Reason
}

// ProviderError - an embedding or chat remote call failed (auth, quota,
// malformed request). Providers never retry; that is the caller's call.
type ProviderError struct {
	Provider string
	Op       string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Provider, e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// RateLimitError - an HTTP 429 equivalent from the index or a provider.
// RetryAfter carries the provider-supplied backoff when present.
type RateLimitError struct {
	RetryAfter time.Duration
	Err        error
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limited (retry after %s): %v", e.RetryAfter, e.Err)
}

func (e *RateLimitError) Unwrap() error { return e.Err }

// ParseError - the model output was missing the required delimiters.
type ParseError struct {
	Raw string
}

func (e *ParseError) Error() string {
	return "model output missing THOUGHT/RESPONSE delimiters"
}

// IndexNotFoundError - a search or upsert hit an absent index. Recoverable
// by recreating the index.
type IndexNotFoundError struct {
	Index string
}

func (e *IndexNotFoundError) Error() string {
	return "index not found: " + e.Index
}
