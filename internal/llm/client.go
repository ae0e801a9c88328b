// In file: internal/llm/client.go

// Package llm contains the clients for the language-model capability the
// suggestion resolver consults. The resolver only ever needs one short
// completion back, so the interface is deliberately narrow; transport-level
// retry policy lives inside the clients, not in the resolver.
package llm

import "context"

// SuggestionClient is the universal interface every provider client
// implements. It is the testability seam: tests substitute a deterministic
// stub where production wires a real provider.
type SuggestionClient interface {
	// Suggest sends the system prompt and the user's free-text query to the
	// model and returns its plain-text reply. An error means the capability
	// could not be reached or did not answer, not that the answer was
	// unusable; judging the answer is the resolver's job.
	Suggest(ctx context.Context, systemPrompt, query string) (string, error)
}
