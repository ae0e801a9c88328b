// In file: internal/suggest/resolver_test.go
package suggest

import (
	"context"
	"errors"
	"testing"
	"time"

	"calc-gateway/internal/api"
	"calc-gateway/internal/calc"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubClient is the deterministic stand-in for the model capability.
type stubClient struct {
	reply      string
	err        error
	lastPrompt string
	lastQuery  string
	calls      int
}

func (s *stubClient) Suggest(ctx context.Context, systemPrompt, query string) (string, error) {
	s.calls++
	s.lastPrompt = systemPrompt
	s.lastQuery = query
	return s.reply, s.err
}

func newTestResolver(t *testing.T, client *stubClient) *Resolver {
	t.Helper()
	registry := calc.NewRegistry()
	for _, op := range calc.Builtins() {
		require.NoError(t, registry.Register(op))
	}
	return NewResolver(registry, client, nil, nil, time.Second)
}

func TestResolveExactName(t *testing.T) {
	client := &stubClient{reply: "add"}
	resolver := newTestResolver(t, client)

	res, err := resolver.Resolve(context.Background(), "what is 2 plus 3")
	require.NoError(t, err)
	assert.Equal(t, "add", res.Operation)
	assert.False(t, res.Cached)
	assert.Equal(t, 1, client.calls)
}

func TestResolvePromptEnumeratesOperations(t *testing.T) {
	client := &stubClient{reply: "divide"}
	resolver := newTestResolver(t, client)

	_, err := resolver.Resolve(context.Background(), "split the bill")
	require.NoError(t, err)

	for _, name := range []string{"add", "subtract", "multiply", "divide"} {
		assert.Contains(t, client.lastPrompt, name)
	}
	assert.Equal(t, "split the bill", client.lastQuery)
}

func TestResolveNormalizesCasingAndPunctuation(t *testing.T) {
	cases := map[string]string{
		"  Add.  ":     "add",
		"MULTIPLY":     "multiply",
		"\"subtract\"": "subtract",
		"Divide!":      "divide",
	}
	for reply, want := range cases {
		resolver := newTestResolver(t, &stubClient{reply: reply})
		res, err := resolver.Resolve(context.Background(), "q")
		require.NoError(t, err, "reply %q", reply)
		assert.Equal(t, want, res.Operation, "reply %q", reply)
	}
}

func TestResolveScansVerboseReplyForSingleName(t *testing.T) {
	client := &stubClient{reply: "You should add the two numbers together."}
	resolver := newTestResolver(t, client)

	res, err := resolver.Resolve(context.Background(), "combine 2 and 3")
	require.NoError(t, err)
	assert.Equal(t, "add", res.Operation)
	assert.Equal(t, client.reply, res.Reply)
}

func TestResolveUnregisteredNameIsUnresolved(t *testing.T) {
	client := &stubClient{reply: "fly_me_to_the_moon"}
	resolver := newTestResolver(t, client)

	_, err := resolver.Resolve(context.Background(), "q")
	kind, ok := api.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, api.KindUnresolvedSuggestion, kind)
}

func TestResolveEmptyReplyIsUnresolved(t *testing.T) {
	for _, reply := range []string{"", "   ", "..."} {
		resolver := newTestResolver(t, &stubClient{reply: reply})
		_, err := resolver.Resolve(context.Background(), "q")
		kind, ok := api.KindOf(err)
		require.True(t, ok, "reply %q", reply)
		assert.Equal(t, api.KindUnresolvedSuggestion, kind, "reply %q", reply)
	}
}

func TestResolveAmbiguousReplyIsUnresolved(t *testing.T) {
	client := &stubClient{reply: "either add or subtract would work"}
	resolver := newTestResolver(t, client)

	_, err := resolver.Resolve(context.Background(), "q")
	kind, ok := api.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, api.KindUnresolvedSuggestion, kind)
}

func TestResolveClientErrorIsUnavailable(t *testing.T) {
	client := &stubClient{err: errors.New("connection refused")}
	resolver := newTestResolver(t, client)

	_, err := resolver.Resolve(context.Background(), "q")
	kind, ok := api.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, api.KindSuggestionUnavailable, kind)

	// The two failure modes must stay distinguishable.
	assert.NotEqual(t, api.KindUnresolvedSuggestion, kind)
}

func TestResolveNoInternalRetries(t *testing.T) {
	client := &stubClient{err: errors.New("boom")}
	resolver := newTestResolver(t, client)

	_, _ = resolver.Resolve(context.Background(), "q")
	assert.Equal(t, 1, client.calls, "the resolver must not retry; retry policy belongs to the client")
}

func TestMatchOperation(t *testing.T) {
	names := []string{"add", "subtract", "multiply", "divide"}

	tests := []struct {
		reply string
		want  string
		ok    bool
	}{
		{"add", "add", true},
		{"Add", "add", true},
		{"the answer is: multiply", "multiply", true},
		{"madden", "", false}, // substring of a word is not a word match
		{"add and divide", "", false},
		{"", "", false},
	}
	for _, tc := range tests {
		got, ok := matchOperation(tc.reply, names)
		assert.Equal(t, tc.ok, ok, "reply %q", tc.reply)
		assert.Equal(t, tc.want, got, "reply %q", tc.reply)
	}
}
