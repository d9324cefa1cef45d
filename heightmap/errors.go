package heightmap

import "errors"

var (
	// ErrOutOfRange is returned when a linear index falls outside the grid.
	ErrOutOfRange = errors.New("heightmap: position out of range")

	// ErrInvalidOffset is returned for zero, negative or NaN offsets.
	ErrInvalidOffset = errors.New("heightmap: offset must be positive")
)
