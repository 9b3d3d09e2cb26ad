// Package image provides the dense N-dimensional array data object the
// pipeline operates on. An Image owns a flat pixel buffer covering its
// buffered region, an offset table for linear addressing, and physical
// geometry (spacing and origin) on top of the region bookkeeping it inherits
// from the pipeline package.
package image

import (
	"golang.org/x/exp/constraints"

	"ndimage/pkg/pipeline"
	"ndimage/pkg/region"
)

// Pixel is the set of element types an Image can store.
type Pixel interface {
	constraints.Integer | constraints.Float
}

// PixelContainer holds the flat pixel storage of an image. Containers can be
// shared between images (see Graft), in which case writes through one image
// are visible through the other.
type PixelContainer[T Pixel] struct {
	data []T
}

// NewPixelContainer allocates storage for n pixels.
func NewPixelContainer[T Pixel](n int) *PixelContainer[T] {
	return &PixelContainer[T]{data: make([]T, n)}
}

// Reserve resizes the storage to exactly n pixels, reallocating only when
// the current capacity differs.
func (c *PixelContainer[T]) Reserve(n int) {
	if len(c.data) != n {
		c.data = make([]T, n)
	}
}

// Len returns the number of stored pixels.
func (c *PixelContainer[T]) Len() int { return len(c.data) }

// Data returns the backing slice. Mutations through it are visible to every
// image sharing the container.
func (c *PixelContainer[T]) Data() []T { return c.data }

// At returns the pixel at linear offset i.
func (c *PixelContainer[T]) At(i int) T { return c.data[i] }

// SetAt stores v at linear offset i.
func (c *PixelContainer[T]) SetAt(i int, v T) { c.data[i] = v }

// Ref returns the address of the pixel at linear offset i, for accessors
// that write through a stored slot.
func (c *PixelContainer[T]) Ref(i int) *T { return &c.data[i] }

// Image is a data object backed by a dense buffer. Pixels are stored in
// storage order with the first dimension varying fastest; the buffer covers
// exactly the buffered region after Allocate.
type Image[T Pixel] struct {
	*pipeline.DataObjectBase

	spacing []float64
	origin  []float64

	container   *PixelContainer[T]
	offsetTable []int
}

// New creates an empty image of the given dimensionality with unit spacing
// and zero origin. Set the regions and call Allocate before accessing
// pixels.
func New[T Pixel](dim int) *Image[T] {
	img := &Image[T]{
		DataObjectBase: pipeline.NewDataObjectBase(dim),
		spacing:        make([]float64, dim),
		origin:         make([]float64, dim),
		container:      NewPixelContainer[T](0),
		offsetTable:    make([]int, dim+1),
	}
	for d := range img.spacing {
		img.spacing[d] = 1
	}
	img.SetOwner(img)
	return img
}

// GetSpacing returns a copy of the physical distance between samples in each
// dimension.
func (img *Image[T]) GetSpacing() []float64 {
	out := make([]float64, len(img.spacing))
	copy(out, img.spacing)
	return out
}

// SetSpacing sets the physical distance between samples in each dimension.
func (img *Image[T]) SetSpacing(spacing []float64) {
	if floatsEqual(img.spacing, spacing) {
		return
	}
	img.spacing = append([]float64(nil), spacing...)
	img.Modified()
}

// GetOrigin returns a copy of the physical coordinates of the zero index.
func (img *Image[T]) GetOrigin() []float64 {
	out := make([]float64, len(img.origin))
	copy(out, img.origin)
	return out
}

// SetOrigin sets the physical coordinates of the zero index.
func (img *Image[T]) SetOrigin(origin []float64) {
	if floatsEqual(img.origin, origin) {
		return
	}
	img.origin = append([]float64(nil), origin...)
	img.Modified()
}

// Allocate sizes the pixel buffer to the buffered region and rebuilds the
// offset table. The buffered region must be set beforehand; prior contents
// are discarded when the size changes.
func (img *Image[T]) Allocate() {
	buffered := img.GetBufferedRegion()
	img.computeOffsetTable(buffered)
	img.container.Reserve(buffered.NumPixels())
	img.DataHasBeenGenerated()
}

func (img *Image[T]) computeOffsetTable(r region.Region) {
	size := r.Size()
	stride := 1
	for d := 0; d < r.Dim(); d++ {
		img.offsetTable[d] = stride
		stride *= size[d]
	}
	img.offsetTable[r.Dim()] = stride
}

// OffsetTable returns the per-dimension strides of the buffer, with the
// total pixel count in the last slot.
func (img *Image[T]) OffsetTable() []int {
	out := make([]int, len(img.offsetTable))
	copy(out, img.offsetTable)
	return out
}

// ComputeOffset converts a multi-dimensional index into a linear offset into
// the buffer. The index must lie inside the buffered region.
func (img *Image[T]) ComputeOffset(idx region.Index) int {
	start := img.GetBufferedRegion().Start()
	off := 0
	for d := range start {
		off += (idx[d] - start[d]) * img.offsetTable[d]
	}
	return off
}

// ComputeIndex converts a linear buffer offset back into a
// multi-dimensional index inside the buffered region.
func (img *Image[T]) ComputeIndex(offset int) region.Index {
	start := img.GetBufferedRegion().Start()
	idx := make(region.Index, img.Dim())
	for d := img.Dim() - 1; d >= 0; d-- {
		idx[d] = start[d] + offset/img.offsetTable[d]
		offset %= img.offsetTable[d]
	}
	return idx
}

// GetPixel returns the stored value at the given index.
func (img *Image[T]) GetPixel(idx region.Index) T {
	return img.container.At(img.ComputeOffset(idx))
}

// SetPixel stores a value at the given index. Per-pixel writes do not bump
// the modification time; call Modified once after bulk edits.
func (img *Image[T]) SetPixel(idx region.Index, v T) {
	img.container.SetAt(img.ComputeOffset(idx), v)
}

// PixelRef returns the address of the stored slot at the given index, so an
// accessor can write through it.
func (img *Image[T]) PixelRef(idx region.Index) *T {
	return img.container.Ref(img.ComputeOffset(idx))
}

// FillBuffer sets every buffered pixel to v.
func (img *Image[T]) FillBuffer(v T) {
	data := img.container.Data()
	for i := range data {
		data[i] = v
	}
}

// BufferPointer returns the flat pixel storage in storage order.
func (img *Image[T]) BufferPointer() []T {
	return img.container.Data()
}

// GetPixelContainer returns the image's pixel container.
func (img *Image[T]) GetPixelContainer() *PixelContainer[T] {
	return img.container
}

// SetPixelContainer swaps in a different container. The data object is not
// marked modified; the caller decides whether the change is observable.
func (img *Image[T]) SetPixelContainer(c *PixelContainer[T]) {
	img.container = c
}

// CopyInformation copies largest possible region, spacing and origin from
// another data object. Spacing and origin transfer only when the source
// carries them.
func (img *Image[T]) CopyInformation(src pipeline.DataObject) error {
	if err := img.DataObjectBase.CopyInformation(src); err != nil {
		return err
	}
	if sp, ok := src.(interface {
		GetSpacing() []float64
		GetOrigin() []float64
	}); ok {
		img.SetSpacing(sp.GetSpacing())
		img.SetOrigin(sp.GetOrigin())
	}
	return nil
}

// Graft takes over another image's geometry, regions and pixel container
// without copying pixel values. Afterwards both images share one buffer but
// remain distinct data objects with independent region and timestamp state.
func (img *Image[T]) Graft(other *Image[T]) error {
	if err := img.CopyInformation(other); err != nil {
		return err
	}
	img.SetBufferedRegion(other.GetBufferedRegion())
	img.SetRequestedRegion(other.GetRequestedRegion())
	copy(img.offsetTable, other.offsetTable)
	img.container = other.container
	img.DataHasBeenGenerated()
	return nil
}

// ReleaseData frees the pixel buffer in addition to the base bookkeeping.
func (img *Image[T]) ReleaseData() {
	img.DataObjectBase.ReleaseData()
	img.container = NewPixelContainer[T](0)
}

// Initialize restores the image to its initial state: empty regions, no
// buffer, released.
func (img *Image[T]) Initialize() {
	img.DataObjectBase.Initialize()
	img.container = NewPixelContainer[T](0)
	for d := range img.offsetTable {
		img.offsetTable[d] = 0
	}
}

func floatsEqual(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
