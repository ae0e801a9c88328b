// In file: internal/suggest/resolver.go

// Package suggest maps free-text user intent to a registered operation name
// by consulting the language-model capability, validating whatever comes back
// against the registry. The resolver never guesses: an unusable answer is an
// explicit unresolved outcome, and an unreachable model is reported as a
// distinct unavailable outcome so callers can tell "the model said something
// useless" from "the model could not be reached".
package suggest

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"
	"unicode"

	"calc-gateway/internal/api"
	"calc-gateway/internal/calc"
	"calc-gateway/internal/llm"
)

const systemPromptTemplate = "You are a calculator assistant. The user will describe a calculation in plain language. " +
	"Reply with exactly one of the following operation names and nothing else: %s."

// Resolution is a successful outcome: the resolved operation name plus the
// model's raw reply, which the caller may surface as an explanation.
type Resolution struct {
	Operation string
	Reply     string
	Cached    bool
}

// Resolver implements the suggestion protocol. Cache and stats are optional
// collaborators; a nil cache disables caching and a nil stats recorder
// disables bookkeeping, which is how tests and redis-less deployments run.
type Resolver struct {
	registry *calc.Registry
	client   llm.SuggestionClient
	cache    *Cache
	stats    *Stats
	timeout  time.Duration
}

func NewResolver(registry *calc.Registry, client llm.SuggestionClient, cache *Cache, stats *Stats, timeout time.Duration) *Resolver {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Resolver{
		registry: registry,
		client:   client,
		cache:    cache,
		stats:    stats,
		timeout:  timeout,
	}
}

// Resolve maps query to a registered operation name.
//
// Failure kinds: suggestion_unavailable when the model cannot be reached or
// times out, unresolved_suggestion when it answers but the answer does not
// name exactly one registered operation. No retries happen here; transport
// retry policy belongs to the client.
func (r *Resolver) Resolve(ctx context.Context, query string) (*Resolution, error) {
	names := r.registry.Names()

	if cached, ok := r.cacheLookup(ctx, query, names); ok {
		return &Resolution{Operation: cached, Reply: cached, Cached: true}, nil
	}

	prompt := fmt.Sprintf(systemPromptTemplate, strings.Join(names, ", "))

	callCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	start := time.Now()
	reply, err := r.client.Suggest(callCtx, prompt, query)
	if err != nil {
		r.recordFailure(ctx)
		return nil, api.WrapError(api.KindSuggestionUnavailable, err, "suggestion service unreachable: %v", err)
	}
	r.recordSuccess(ctx, time.Since(start))

	name, ok := matchOperation(reply, names)
	if !ok {
		return nil, api.NewError(api.KindUnresolvedSuggestion, "could not map model reply %q to a registered operation", strings.TrimSpace(reply))
	}

	r.cacheStore(ctx, query, names, name)
	return &Resolution{Operation: name, Reply: reply}, nil
}

// matchOperation decides which registered name, if any, a model reply means.
// Exact membership after normalization wins; otherwise the reply is scanned
// word by word and accepted only when exactly one registered name occurs.
// A reply naming zero or several operations is unusable.
func matchOperation(reply string, names []string) (string, bool) {
	normalized := normalizeReply(reply)
	if normalized == "" {
		return "", false
	}

	registered := make(map[string]bool, len(names))
	for _, name := range names {
		registered[strings.ToLower(name)] = true
	}

	if registered[normalized] {
		return normalized, true
	}

	words := strings.FieldsFunc(normalized, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_'
	})
	seen := make(map[string]bool)
	for _, word := range words {
		if registered[word] {
			seen[word] = true
		}
	}
	if len(seen) != 1 {
		return "", false
	}
	for name := range seen {
		return name, true
	}
	return "", false
}

// normalizeReply trims whitespace and surrounding punctuation and case-folds.
func normalizeReply(reply string) string {
	trimmed := strings.TrimSpace(reply)
	trimmed = strings.TrimFunc(trimmed, func(r rune) bool {
		return unicode.IsPunct(r) || unicode.IsSymbol(r)
	})
	return strings.ToLower(trimmed)
}

// --- optional collaborators ---

func (r *Resolver) cacheLookup(ctx context.Context, query string, names []string) (string, bool) {
	if r.cache == nil {
		return "", false
	}
	return r.cache.Get(ctx, cachePayload(query, names))
}

func (r *Resolver) cacheStore(ctx context.Context, query string, names []string, name string) {
	if r.cache == nil {
		return
	}
	// Only successful resolutions are cached; a cached failure would mask a
	// later, possibly better answer.
	r.cache.Set(ctx, cachePayload(query, names), name)
}

// cachePayload keys the cache on both the query and the allowed names, so
// registering a new operation never serves a resolution computed against the
// old name set.
func cachePayload(query string, names []string) string {
	return query + "|" + strings.Join(names, ",")
}

func (r *Resolver) recordSuccess(ctx context.Context, latency time.Duration) {
	if r.stats == nil {
		return
	}
	if err := r.stats.RecordSuccess(ctx, latency); err != nil {
		log.Printf("WARNING: Failed to record suggestion success: %v", err)
	}
}

func (r *Resolver) recordFailure(ctx context.Context) {
	if r.stats == nil {
		return
	}
	if err := r.stats.RecordFailure(ctx); err != nil {
		log.Printf("WARNING: Failed to record suggestion failure: %v", err)
	}
}
