// Package idgen hands out opaque identifiers for chats and messages.
package idgen

import (
	"strconv"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Generator produces identifiers that are unique for the life of the process.
type Generator interface {
	NewID() string
}

// Func adapts a plain function to Generator.
type Func func() string

func (f Func) NewID() string { return f() }

// UUIDGenerator issues time-ordered UUIDv7 values behind an optional prefix.
type UUIDGenerator struct {
	prefix   string
	newV7    func() (uuid.UUID, error)
	now      func() time.Time
	fallback atomic.Uint64
}

// New returns a generator whose ids look like "<prefix><uuid>".
func New(prefix string) *UUIDGenerator {
	return &UUIDGenerator{prefix: prefix, newV7: uuid.NewV7, now: time.Now}
}

// NewID never panics. If the random source fails, the id becomes
// "<prefix>x<unix-nanos hex>-<counter>" instead of a UUID.
func (g *UUIDGenerator) NewID() string {
	id, err := g.newV7()
	if err != nil {
		return g.prefix + "x" + strconv.FormatInt(g.now().UnixNano(), 16) + "-" + strconv.FormatUint(g.fallback.Add(1), 10)
	}
	return g.prefix + id.String()
}

// Sequence returns a deterministic generator ("<prefix>1", "<prefix>2", ...).
// It is meant for tests and local tooling.
func Sequence(prefix string) Generator {
	var n atomic.Uint64
	return Func(func() string {
		return prefix + strconv.FormatUint(n.Add(1), 10)
	})
}
