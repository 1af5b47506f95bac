// ABOUTME: Content-hash identity keys for documents without a remote id
// ABOUTME: Hashes the leading content so the same text round-trips locally

package hash

import (
	"crypto/sha256"
	"encoding/hex"
)

// contentPrefixLen is how much leading content contributes to the identity
// key. Enough to distinguish documents, short enough to stay cheap on every
// load.
const contentPrefixLen = 500

// ContentKey derives a stable identity key from document content. Used as
// the local mirror key for unauthenticated or offline sessions, so the same
// content yields the same annotations within the same browser.
func ContentKey(content string) string {
	if len(content) > contentPrefixLen {
		content = content[:contentPrefixLen]
	}
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}
