package testutil

import (
	"reflect"
	"sync"
	"sync/atomic"

	"dto-services/internal/shape"
)

// CountingInspector wraps a shape.Inspector and counts Inspect calls per
// entity type.
type CountingInspector struct {
	*shape.Inspector

	mu     sync.Mutex
	counts map[reflect.Type]int
	total  atomic.Int64
}

// NewCountingInspector wraps a fresh shape.Inspector.
func NewCountingInspector(opts ...shape.Option) *CountingInspector {
	return &CountingInspector{
		Inspector: shape.NewInspector(opts...),
		counts:    make(map[reflect.Type]int),
	}
}

// Inspect counts the call and delegates.
func (c *CountingInspector) Inspect(t reflect.Type) (*shape.Shape, error) {
	c.total.Add(1)

	c.mu.Lock()
	c.counts[t]++
	c.mu.Unlock()

	return c.Inspector.Inspect(t)
}

// Count returns how many times t was inspected.
func (c *CountingInspector) Count(t reflect.Type) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.counts[t]
}

// Total returns the number of Inspect calls.
func (c *CountingInspector) Total() int {
	return int(c.total.Load())
}
