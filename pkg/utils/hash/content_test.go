// ABOUTME: Tests for content-hash identity keys
// ABOUTME: Stability, prefix truncation, and divergence on different content

package hash

import (
	"strings"
	"testing"
)

func TestContentKey_Stable(t *testing.T) {
	a := ContentKey("<p>same content</p>")
	b := ContentKey("<p>same content</p>")
	if a != b {
		t.Error("identical content produced different keys")
	}
	if len(a) != 64 {
		t.Errorf("key length = %d, want 64 hex chars", len(a))
	}
}

func TestContentKey_DiffersForDifferentContent(t *testing.T) {
	if ContentKey("<p>one</p>") == ContentKey("<p>two</p>") {
		t.Error("different content produced the same key")
	}
}

func TestContentKey_OnlyPrefixContributes(t *testing.T) {
	prefix := strings.Repeat("a", 500)
	a := ContentKey(prefix + "tail one")
	b := ContentKey(prefix + "completely different tail")
	if a != b {
		t.Error("content beyond the prefix changed the key")
	}

	// A difference inside the prefix must still register.
	c := ContentKey("b" + prefix[1:] + "tail one")
	if a == c {
		t.Error("prefix difference did not change the key")
	}
}
