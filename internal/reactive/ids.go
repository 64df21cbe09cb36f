package reactive

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

// IDGenerator generates subscription identifiers.
// Implemented by UUIDv7Generator (production) and SequenceGenerator (tests).
type IDGenerator interface {
	Generate() string
}

// UUIDv7Generator generates time-sortable UUIDv7 identifiers, which keeps
// subscription ids ordered by creation time in logs.
//
// Thread-safety: UUIDv7Generator is stateless and safe for concurrent use.
type UUIDv7Generator struct{}

// Generate creates a new UUIDv7 and returns it as a hyphenated string.
//
// Panics if UUID generation fails (should never happen in practice).
func (g UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

// SequenceGenerator returns "<prefix>-1", "<prefix>-2", ... for
// deterministic tests and golden traces.
type SequenceGenerator struct {
	prefix string
	n      atomic.Int64
}

// NewSequenceGenerator creates a generator with the given prefix.
// An empty prefix defaults to "sub".
func NewSequenceGenerator(prefix string) *SequenceGenerator {
	if prefix == "" {
		prefix = "sub"
	}
	return &SequenceGenerator{prefix: prefix}
}

// Generate returns the next identifier in sequence.
func (g *SequenceGenerator) Generate() string {
	return fmt.Sprintf("%s-%d", g.prefix, g.n.Add(1))
}
