package core

import (
	"strconv"
	"sync/atomic"

	"github.com/google/uuid"
)

// IDGenerator hands out identifiers for new expenses.
type IDGenerator interface {
	NewID() string
}

// UUIDGenerator produces random (version 4) UUID strings.
type UUIDGenerator struct{}

func (UUIDGenerator) NewID() string {
	return uuid.NewString()
}

// SequenceGenerator produces "<prefix>-1", "<prefix>-2", ... and is safe
// for concurrent use. Intended for tests and fixtures.
type SequenceGenerator struct {
	Prefix string
	next   atomic.Int64
}

func NewSequenceGenerator(prefix string) *SequenceGenerator {
	return &SequenceGenerator{Prefix: prefix}
}

func (g *SequenceGenerator) NewID() string {
	n := g.next.Add(1)
	if g.Prefix == "" {
		return strconv.FormatInt(n, 10)
	}
	return g.Prefix + "-" + strconv.FormatInt(n, 10)
}
