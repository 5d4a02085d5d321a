package kernel

import "errors"

var (
	// ErrDegenerate is returned when the requested geometry would collapse
	// (zero length, zero radius, open or non-planar boundary, flat box).
	ErrDegenerate = errors.New("degenerate geometry")

	// ErrDisconnected is returned when edges do not form a single chain.
	ErrDisconnected = errors.New("edges are not connected")

	// ErrUnsupported is returned for shapes the kernel cannot process.
	ErrUnsupported = errors.New("unsupported shape")
)
