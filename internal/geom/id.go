package geom

import (
	"fmt"

	"go.jetify.com/typeid/v2"
)

// Identifier prefixes.
const (
	PrefixEdge  = "edge"
	PrefixWire  = "wire"
	PrefixFace  = "face"
	PrefixSolid = "solid"
	PrefixModel = "model"
)

// NewID returns a new time-ordered identifier with the given prefix.
func NewID(prefix string) string {
	id := typeid.MustGenerate(prefix)
	return id.String()
}

// ValidateID checks that id is a well formed identifier with the expected prefix.
func ValidateID(id, expectedPrefix string) error {
	parsed, err := typeid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid id %q: %w", id, err)
	}
	if parsed.Prefix() != expectedPrefix {
		return fmt.Errorf("expected prefix %q but got %q in id %q", expectedPrefix, parsed.Prefix(), id)
	}
	return nil
}

// PairKey returns the key of the unordered pair (a, b): the smaller
// identifier comes first, so PairKey(a, b) == PairKey(b, a).
func PairKey(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return a + ":" + b
}
