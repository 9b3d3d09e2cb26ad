package pipeline

import "errors"

var (
	// ErrRegionOutOfBounds is returned when a requested region has no
	// overlap at all with the largest possible region, so not even the
	// clamping policy can satisfy it.
	ErrRegionOutOfBounds = errors.New("requested region is outside the largest possible region")

	// ErrIncompatibleGeometry is returned when region state is copied
	// between two data objects of different dimensionality.
	ErrIncompatibleGeometry = errors.New("incompatible data object geometry")
)
