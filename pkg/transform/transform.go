// Package transform provides composable geometric mappings attached to
// pipeline stages as pluggable strategy objects, for example the mapping a
// resampling filter applies between output and input space. Points, vectors
// and covariant vectors are plain float64 slices of the transform's
// dimensionality.
package transform

import "errors"

// ErrNonInvertibleTransform is returned by transform families whose back
// transform is undefined for the current parameters. The translation family
// never returns it.
var ErrNonInvertibleTransform = errors.New("transform is not invertible")

// GeometricTransform maps points and directions between two spaces of the
// same dimensionality. Implementations are value-parameterized strategy
// objects; richer families than translation may be non-invertible, which is
// why the back transform and Inverse can fail.
type GeometricTransform interface {
	// Dim returns the dimensionality of the space the transform acts on.
	Dim() int

	// TransformPoint maps a position.
	TransformPoint(p []float64) []float64

	// TransformVector maps a direction. Directions are unaffected by the
	// translational part of a transform.
	TransformVector(v []float64) []float64

	// TransformCovariantVector maps a covector (for example a gradient).
	TransformCovariantVector(v []float64) []float64

	// BackTransformPoint maps a position through the inverse, failing
	// with ErrNonInvertibleTransform when no inverse exists.
	BackTransformPoint(p []float64) ([]float64, error)

	// Inverse returns a new transform mapping the other way, failing with
	// ErrNonInvertibleTransform when no inverse exists.
	Inverse() (GeometricTransform, error)
}
