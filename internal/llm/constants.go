// In file: internal/llm/constants.go
package llm

import "time"

// This file centralizes constants shared by the provider clients to avoid
// redeclaration errors.
const (
	defaultTimeout    = 30 * time.Second
	maxRetries        = 3
	initialRetryDelay = 1 * time.Second

	// A suggestion is a single operation name; anything longer is waste.
	suggestionMaxTokens = 32
)
