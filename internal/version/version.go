// In file: internal/version/version.go

// Package version centralizes the versioning of the gateway's cached logic.
//
// Including these version strings in cache keys automatically invalidates
// stale entries whenever the underlying logic changes: bump PromptLogic when
// the suggestion prompt template changes and every previously cached
// resolution stops matching, forcing fresh answers from the model.
package version

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// ComponentVersions holds the version strings for the logical parts of the
// gateway whose output gets cached. Increment manually before deploying a
// change to the component.
var ComponentVersions = struct {
	// PromptLogic covers the suggestion prompt template and the reply
	// normalization rules in the resolver.
	PromptLogic string
}{
	PromptLogic: "v1.0",
}

// GenerateVersionedCacheKey creates a consistent, version-aware cache key.
// The payload is hashed so keys stay fixed-length regardless of query size.
//
// Example output: "calcsuggest:a1b2c3d4...:pv1.0"
func GenerateVersionedCacheKey(prefix, payload string) string {
	hasher := sha256.New()
	hasher.Write([]byte(payload))
	payloadHash := hex.EncodeToString(hasher.Sum(nil))
	return fmt.Sprintf("%s:%s:p%s", prefix, payloadHash, ComponentVersions.PromptLogic)
}
