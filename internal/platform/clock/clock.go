// Package clock supplies logical time to the registry.
//
// Logical time is a block height: a counter that only moves forward and is
// advanced by the host, never by the registry.
package clock

import (
	"math"
	"sync/atomic"

	dErrors "agencyreg/pkg/domain-errors"
	"agencyreg/pkg/platform/sentinel"
)

// BlockClock is a monotonic block-height counter safe for concurrent use.
// Readers only see Height; Advance belongs to the host.
type BlockClock struct {
	height atomic.Uint64
}

// NewBlockClock starts a clock at genesis.
func NewBlockClock(genesis uint64) *BlockClock {
	c := &BlockClock{}
	c.height.Store(genesis)
	return c
}

func (c *BlockClock) Height() uint64 {
	return c.height.Load()
}

// Advance moves the clock forward by n blocks and returns the new height.
// Advancing by zero is a no-op. An advance past math.MaxUint64 is refused
// and leaves the clock where it was.
func (c *BlockClock) Advance(n uint64) (uint64, error) {
	for {
		current := c.height.Load()
		if n > math.MaxUint64-current {
			return current, dErrors.Wrap(sentinel.ErrInvalidState, dErrors.CodeInvariantViolation, "block height would overflow")
		}
		if c.height.CompareAndSwap(current, current+n) {
			return current + n, nil
		}
	}
}
