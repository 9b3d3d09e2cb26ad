package transform

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// TranslationTransform shifts positions by a fixed offset vector. It exists
// alongside the general affine family because a pure translation is much
// cheaper to apply and is always invertible.
type TranslationTransform struct {
	offset []float64
}

// NewTranslation creates the identity translation of the given
// dimensionality.
func NewTranslation(dim int) *TranslationTransform {
	return &TranslationTransform{offset: make([]float64, dim)}
}

// NewTranslationWithOffset creates a translation by the given offset. The
// offset is copied.
func NewTranslationWithOffset(offset []float64) *TranslationTransform {
	return &TranslationTransform{offset: append([]float64(nil), offset...)}
}

// Dim returns the dimensionality of the space the translation acts on.
func (t *TranslationTransform) Dim() int { return len(t.offset) }

// GetOffset returns a copy of the translation offset.
func (t *TranslationTransform) GetOffset() []float64 {
	return append([]float64(nil), t.offset...)
}

// SetOffset replaces the translation offset. The offset is copied.
func (t *TranslationTransform) SetOffset(offset []float64) {
	t.offset = append([]float64(nil), offset...)
}

// Compose folds another translation into this one. For pure translations
// composition is commutative, so pre- and post-composition give the same
// offset; the flag is accepted for interface compatibility with transform
// families where the order matters.
func (t *TranslationTransform) Compose(other *TranslationTransform, pre bool) {
	_ = pre
	floats.Add(t.offset, other.offset)
}

// Translate folds an additional offset into the transform. The pre flag is
// accepted for compatibility with non-commutative families.
func (t *TranslationTransform) Translate(offset []float64, pre bool) {
	_ = pre
	floats.Add(t.offset, offset)
}

// TransformPoint returns the position shifted by the offset.
func (t *TranslationTransform) TransformPoint(p []float64) []float64 {
	out := make([]float64, len(p))
	floats.AddTo(out, p, t.offset)
	return out
}

// TransformVector returns the direction unchanged: a translation acts on
// positions, not directions.
func (t *TranslationTransform) TransformVector(v []float64) []float64 {
	return append([]float64(nil), v...)
}

// TransformCovariantVector returns the covector unchanged.
func (t *TranslationTransform) TransformCovariantVector(v []float64) []float64 {
	return append([]float64(nil), v...)
}

// BackTransformPoint returns the position shifted back by the offset. A
// translation is always invertible, so the error is always nil.
func (t *TranslationTransform) BackTransformPoint(p []float64) ([]float64, error) {
	out := make([]float64, len(p))
	floats.SubTo(out, p, t.offset)
	return out, nil
}

// BackTransformVector returns the direction unchanged.
func (t *TranslationTransform) BackTransformVector(v []float64) []float64 {
	return append([]float64(nil), v...)
}

// Inverse returns the translation by the negated offset. It never fails for
// this family.
func (t *TranslationTransform) Inverse() (GeometricTransform, error) {
	inv := NewTranslationWithOffset(t.offset)
	floats.Scale(-1, inv.offset)
	return inv, nil
}

// Jacobian returns the derivative of the mapping at a point: the identity
// matrix, independent of position, for a pure translation.
func (t *TranslationTransform) Jacobian(p []float64) *mat.Dense {
	_ = p
	dim := t.Dim()
	j := mat.NewDense(dim, dim, nil)
	for d := 0; d < dim; d++ {
		j.Set(d, d, 1)
	}
	return j
}
