// Package core defines the fundamental types and interfaces for vagus.
package core

import (
	"context"
	"errors"
	"time"
)

// ErrNoStream indicates discovery found no compatible sensor stream.
var ErrNoStream = errors.New("no compatible sensor stream found")

// ErrPullTimeout indicates a sample pull returned nothing within its timeout.
var ErrPullTimeout = errors.New("sensor sample pull timed out")

// Rand is the randomness seam for the state update model.
// *math/rand.Rand satisfies it; tests inject fixed draws.
type Rand interface {
	// NormFloat64 returns a standard-normal draw.
	NormFloat64() float64
	// Float64 returns a uniform draw in [0, 1).
	Float64() float64
}

// Source discovers live sensor streams by property.
// Discovery is a single bounded attempt; absence of a stream is reported
// as ErrNoStream, never as a fatal fault.
type Source interface {
	Discover(ctx context.Context, property, value string, timeout time.Duration) (Stream, error)
}

// Stream is a bound live sensor stream yielding scalar samples on demand.
// A pull that produces no sample within the timeout returns ErrPullTimeout.
type Stream interface {
	Pull(ctx context.Context, timeout time.Duration) (float64, error)
	Close() error
}
