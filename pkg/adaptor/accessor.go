// Package adaptor lets a pipeline stage present a transformed view of
// another image's pixels without copying them. An Accessor converts single
// elements between the stored (internal) and presented (external)
// representation; an Adaptor wraps an image plus an accessor and rewrites
// every pixel access through the conversion while delegating all region and
// geometry state to the wrapped image.
package adaptor

import (
	"math"

	"ndimage/pkg/image"
)

// Accessor converts single elements between an image's stored representation
// and the representation presented to consumers. Implementations operate on
// element values only, never on region or geometry state, and have no side
// effects beyond the output slot.
//
// Stateless accessors are pure function pairs; stateful accessors (for
// example a shift/scale pair) are held by value and copied on assignment,
// never shared.
type Accessor[I, E image.Pixel] interface {
	// Get converts a stored value to the presented representation.
	Get(internal I) E

	// Set writes a presented value through to a stored slot.
	Set(internal *I, value E)
}

// CastAccessor presents stored values through ordinary numeric conversion in
// both directions. Narrowing follows Go's usual conversion semantics; no
// extra range checking is performed.
type CastAccessor[I, E image.Pixel] struct{}

// Get converts the stored value to the external type.
func (CastAccessor[I, E]) Get(internal I) E { return E(internal) }

// Set converts the external value to the internal type and stores it.
func (CastAccessor[I, E]) Set(internal *I, value E) { *internal = I(value) }

// ShiftScaleAccessor presents stored values as value*Scale + Shift. It is a
// stateful, invertible accessor: Set applies the inverse mapping, so a
// SetPixel followed by GetPixel round-trips up to floating point precision.
// Scale must be non-zero.
type ShiftScaleAccessor struct {
	Shift float64
	Scale float64
}

// Get applies the forward mapping to a stored value.
func (a ShiftScaleAccessor) Get(internal float64) float64 {
	return internal*a.Scale + a.Shift
}

// Set stores the value that would present as the given external value.
func (a ShiftScaleAccessor) Set(internal *float64, value float64) {
	*internal = (value - a.Shift) / a.Scale
}

// AcosAccessor presents stored values through math.Acos, with numeric casts
// on both sides. The underlying function is not practically invertible for
// writing, so Set applies the same forward function rather than an inverse:
// a Set/Get round trip is not the identity. Use it for read-only views.
type AcosAccessor[I, E image.Pixel] struct{}

// Get returns the arc cosine of the stored value.
func (AcosAccessor[I, E]) Get(internal I) E {
	return E(math.Acos(float64(internal)))
}

// Set stores the arc cosine of the given value.
func (AcosAccessor[I, E]) Set(internal *I, value E) {
	*internal = I(math.Acos(float64(value)))
}
