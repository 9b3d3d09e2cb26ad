package pipeline

import "sync/atomic"

// clock is the process-wide logical clock behind every modification
// timestamp. Comparing two timestamps taken from it decides staleness.
var clock atomic.Uint64

// NextMTime returns the next tick of the global modification clock. Ticks
// are strictly increasing across the whole process, so timestamps taken from
// different objects are directly comparable.
func NextMTime() uint64 {
	return clock.Add(1)
}
