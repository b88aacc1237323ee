// ABOUTME: Segment ID generation injected into parsers and sessions
// ABOUTME: Per-owner monotonic counter combined with a millisecond timestamp
package core

import (
	"fmt"
	"sync/atomic"
	"time"
)

// IDGenerator hands out segment IDs that are never reused by the same generator
type IDGenerator interface {
	NextID() string
}

// SequenceIDs produces IDs of the form seg_<n>_<unixMillis>
type SequenceIDs struct {
	counter atomic.Uint64
	clock   func() time.Time
}

// NewSequenceIDs creates a generator; a nil clock uses time.Now
func NewSequenceIDs(clock func() time.Time) *SequenceIDs {
	if clock == nil {
		clock = time.Now
	}
	return &SequenceIDs{clock: clock}
}

// NextID returns the next ID in the sequence
func (g *SequenceIDs) NextID() string {
	n := g.counter.Add(1)
	return fmt.Sprintf("seg_%d_%d", n, g.clock().UnixMilli())
}
