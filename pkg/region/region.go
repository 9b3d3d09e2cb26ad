// Package region provides the rectangular index-range type used to describe
// subsets of an N-dimensional grid. A region is a start index plus a size,
// and is the unit the pipeline uses to express what part of a dataset is
// wanted, buffered, or theoretically available.
package region

import (
	"errors"
	"fmt"
	"iter"
)

// ErrInvalidRegion is returned when a region is constructed from a negative
// size or from start/size vectors of different dimensionality.
var ErrInvalidRegion = errors.New("invalid region")

// Index is a position on the N-dimensional grid.
type Index []int

// Size is an extent on the N-dimensional grid, one count per dimension.
type Size []int

// Clone returns an independent copy of the index.
func (i Index) Clone() Index {
	out := make(Index, len(i))
	copy(out, i)
	return out
}

// Equal reports whether two indices match componentwise.
func (i Index) Equal(other Index) bool {
	if len(i) != len(other) {
		return false
	}
	for d := range i {
		if i[d] != other[d] {
			return false
		}
	}
	return true
}

// Clone returns an independent copy of the size.
func (s Size) Clone() Size {
	out := make(Size, len(s))
	copy(out, s)
	return out
}

// Equal reports whether two sizes match componentwise.
func (s Size) Equal(other Size) bool {
	if len(s) != len(other) {
		return false
	}
	for d := range s {
		if s[d] != other[d] {
			return false
		}
	}
	return true
}

// Region is a rectangular index range: a start index and a size per
// dimension. Region values are immutable; all operations return new values,
// so regions can be copied and shared freely.
type Region struct {
	start Index
	size  Size
}

// New builds a region from a start index and a size.
//
// Parameters:
//   - start: the lowest index of the region in each dimension
//   - size: the number of grid positions covered in each dimension
//
// Returns:
//   - The region, or ErrInvalidRegion if start and size have different
//     lengths or any size component is negative.
func New(start Index, size Size) (Region, error) {
	if len(start) != len(size) {
		return Region{}, fmt.Errorf("%w: start has %d dimensions, size has %d",
			ErrInvalidRegion, len(start), len(size))
	}
	for d, n := range size {
		if n < 0 {
			return Region{}, fmt.Errorf("%w: negative size %d in dimension %d",
				ErrInvalidRegion, n, d)
		}
	}
	return Region{start: start.Clone(), size: size.Clone()}, nil
}

// Zero returns the empty region of the given dimensionality, starting at the
// origin with zero size in every dimension.
func Zero(dim int) Region {
	return Region{start: make(Index, dim), size: make(Size, dim)}
}

// Dim returns the dimensionality of the region.
func (r Region) Dim() int {
	return len(r.size)
}

// Start returns a copy of the region's start index.
func (r Region) Start() Index {
	return r.start.Clone()
}

// Size returns a copy of the region's size.
func (r Region) Size() Size {
	return r.size.Clone()
}

// UpperIndex returns the highest index still inside the region. It is only
// meaningful for non-empty regions.
func (r Region) UpperIndex() Index {
	out := make(Index, len(r.start))
	for d := range out {
		out[d] = r.start[d] + r.size[d] - 1
	}
	return out
}

// IsEmpty reports whether the region covers no grid positions, i.e. whether
// any size component is zero.
func (r Region) IsEmpty() bool {
	if len(r.size) == 0 {
		return true
	}
	for _, n := range r.size {
		if n == 0 {
			return true
		}
	}
	return false
}

// NumPixels returns the total number of grid positions covered by the region.
func (r Region) NumPixels() int {
	if len(r.size) == 0 {
		return 0
	}
	n := 1
	for _, s := range r.size {
		n *= s
	}
	return n
}

// Equal reports whether two regions have the same start and size
// componentwise.
func (r Region) Equal(other Region) bool {
	return r.start.Equal(other.start) && r.size.Equal(other.size)
}

// ContainsIndex reports whether the given index lies inside the region.
func (r Region) ContainsIndex(idx Index) bool {
	if len(idx) != len(r.start) {
		return false
	}
	for d := range idx {
		if idx[d] < r.start[d] || idx[d] >= r.start[d]+r.size[d] {
			return false
		}
	}
	return true
}

// Contains reports whether every index of other lies inside r. An empty
// other region is contained in any region of the same dimensionality.
func (r Region) Contains(other Region) bool {
	if other.Dim() != r.Dim() {
		return false
	}
	if other.IsEmpty() {
		return true
	}
	return r.ContainsIndex(other.start) && r.ContainsIndex(other.UpperIndex())
}

// Intersection returns the overlap of two regions and whether a non-empty
// overlap exists. When the regions do not overlap (or have different
// dimensionality) the second return value is false and the returned region
// is empty.
func (r Region) Intersection(other Region) (Region, bool) {
	if other.Dim() != r.Dim() {
		return Zero(r.Dim()), false
	}
	start := make(Index, r.Dim())
	size := make(Size, r.Dim())
	for d := range start {
		lo := max(r.start[d], other.start[d])
		hi := min(r.start[d]+r.size[d], other.start[d]+other.size[d])
		if hi <= lo {
			return Zero(r.Dim()), false
		}
		start[d] = lo
		size[d] = hi - lo
	}
	return Region{start: start, size: size}, true
}

// Crop clamps the region to fit inside bounds, returning the cropped region
// and whether anything of the region survived the crop.
func (r Region) Crop(bounds Region) (Region, bool) {
	return r.Intersection(bounds)
}

// Iter iterates over every index inside the region in storage order, with
// the first dimension varying fastest.
//
// The yielded index is reused between iterations; callers that retain it
// past the current step must Clone it first.
func (r Region) Iter() iter.Seq[Index] {
	return func(yield func(Index) bool) {
		if r.IsEmpty() {
			return
		}
		idx := r.start.Clone()
		for {
			if !yield(idx) {
				return
			}
			d := 0
			for {
				idx[d]++
				if idx[d] < r.start[d]+r.size[d] {
					break
				}
				idx[d] = r.start[d]
				d++
				if d == r.Dim() {
					return
				}
			}
		}
	}
}

// String formats the region for error messages and debug output.
func (r Region) String() string {
	return fmt.Sprintf("start=%v size=%v", []int(r.start), []int(r.size))
}
