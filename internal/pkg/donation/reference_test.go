package donation

import (
	"strings"
	"testing"
)

func TestGenerateReferenceFormat(t *testing.T) {
	ref := GenerateReference()
	if !strings.HasPrefix(ref, referencePrefix) {
		t.Fatalf("reference %q missing prefix %q", ref, referencePrefix)
	}
	// prefix + 14-digit timestamp + 8-char random fragment
	if len(ref) != len(referencePrefix)+14+8 {
		t.Fatalf("reference %q has unexpected length %d", ref, len(ref))
	}
}

func TestGenerateReferenceUniqueness(t *testing.T) {
	const n = 10000
	seen := make(map[string]struct{}, n)
	for i := 0; i < n; i++ {
		ref := GenerateReference()
		if _, dup := seen[ref]; dup {
			t.Fatalf("duplicate reference generated after %d iterations: %s", i, ref)
		}
		seen[ref] = struct{}{}
	}
}
