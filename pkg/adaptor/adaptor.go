package adaptor

import (
	"ndimage/pkg/image"
	"ndimage/pkg/pipeline"
	"ndimage/pkg/region"
)

// Adaptor is a data object without bulk storage of its own: it wraps an
// image and an accessor, delegates every region, geometry and pipeline
// operation to the wrapped image, and rewrites every pixel access through
// the accessor. The wrapped image stays alive for as long as the adaptor
// holds it.
//
// Because the adaptor has no independent buffer, Modified and the timestamp
// queries delegate too; the wrapped image's geometric truth is the adaptor's
// geometric truth.
type Adaptor[I, E image.Pixel] struct {
	img *image.Image[I]
	acc Accessor[I, E]
}

// New wraps an image with an accessor.
func New[I, E image.Pixel](img *image.Image[I], acc Accessor[I, E]) *Adaptor[I, E] {
	return &Adaptor[I, E]{img: img, acc: acc}
}

// SetImage retargets the adaptor at a different image without touching the
// accessor. This is the cheap way to present the same transformed view of
// different underlying data.
func (a *Adaptor[I, E]) SetImage(img *image.Image[I]) { a.img = img }

// GetImage returns the wrapped image.
func (a *Adaptor[I, E]) GetImage() *image.Image[I] { return a.img }

// GetPixelAccessor returns the accessor currently presenting the pixels.
func (a *Adaptor[I, E]) GetPixelAccessor() Accessor[I, E] { return a.acc }

// SetPixelAccessor swaps the conversion applied to every pixel access.
func (a *Adaptor[I, E]) SetPixelAccessor(acc Accessor[I, E]) { a.acc = acc }

// GetPixel reads the stored value and presents it through the accessor.
func (a *Adaptor[I, E]) GetPixel(idx region.Index) E {
	return a.acc.Get(a.img.GetPixel(idx))
}

// SetPixel writes a presented value through the accessor into the wrapped
// image's stored slot.
func (a *Adaptor[I, E]) SetPixel(idx region.Index, v E) {
	a.acc.Set(a.img.PixelRef(idx), v)
}

// Graft copies the other adaptor's wrapped geometry and region state and
// shares its pixel container. The two wrapped images remain distinct data
// objects over one buffer.
func (a *Adaptor[I, E]) Graft(other *Adaptor[I, E]) error {
	return a.img.Graft(other.img)
}

// BufferPointer returns the wrapped image's stored buffer, in the internal
// representation.
func (a *Adaptor[I, E]) BufferPointer() []I { return a.img.BufferPointer() }

// OffsetTable returns the wrapped image's linear addressing table.
func (a *Adaptor[I, E]) OffsetTable() []int { return a.img.OffsetTable() }

// ComputeIndex delegates linear-offset-to-index conversion to the wrapped
// image.
func (a *Adaptor[I, E]) ComputeIndex(offset int) region.Index {
	return a.img.ComputeIndex(offset)
}

// ComputeOffset delegates index-to-linear-offset conversion to the wrapped
// image.
func (a *Adaptor[I, E]) ComputeOffset(idx region.Index) int {
	return a.img.ComputeOffset(idx)
}

// The remaining methods are the full pipeline.DataObject contract, each a
// pure delegation to the wrapped image.

func (a *Adaptor[I, E]) Dim() int { return a.img.Dim() }

func (a *Adaptor[I, E]) GetLargestPossibleRegion() region.Region {
	return a.img.GetLargestPossibleRegion()
}

func (a *Adaptor[I, E]) GetBufferedRegion() region.Region { return a.img.GetBufferedRegion() }

func (a *Adaptor[I, E]) GetRequestedRegion() region.Region { return a.img.GetRequestedRegion() }

func (a *Adaptor[I, E]) SetLargestPossibleRegion(r region.Region) {
	a.img.SetLargestPossibleRegion(r)
}

func (a *Adaptor[I, E]) SetBufferedRegion(r region.Region) { a.img.SetBufferedRegion(r) }

func (a *Adaptor[I, E]) SetRequestedRegion(r region.Region) { a.img.SetRequestedRegion(r) }

func (a *Adaptor[I, E]) SetRequestedRegionFrom(other pipeline.DataObject) error {
	return a.img.SetRequestedRegionFrom(other)
}

func (a *Adaptor[I, E]) SetRequestedRegionToLargestPossibleRegion() {
	a.img.SetRequestedRegionToLargestPossibleRegion()
}

func (a *Adaptor[I, E]) VerifyRequestedRegion() bool { return a.img.VerifyRequestedRegion() }

func (a *Adaptor[I, E]) GetMTime() uint64 { return a.img.GetMTime() }

func (a *Adaptor[I, E]) Modified() { a.img.Modified() }

func (a *Adaptor[I, E]) GetPipelineMTime() uint64 { return a.img.GetPipelineMTime() }

func (a *Adaptor[I, E]) SetPipelineMTime(t uint64) { a.img.SetPipelineMTime(t) }

func (a *Adaptor[I, E]) GetUpdateMTime() uint64 { return a.img.GetUpdateMTime() }

func (a *Adaptor[I, E]) DataHasBeenGenerated() { a.img.DataHasBeenGenerated() }

func (a *Adaptor[I, E]) SetReleaseDataFlag(on bool) { a.img.SetReleaseDataFlag(on) }

func (a *Adaptor[I, E]) GetReleaseDataFlag() bool { return a.img.GetReleaseDataFlag() }

func (a *Adaptor[I, E]) GetDataReleased() bool { return a.img.GetDataReleased() }

func (a *Adaptor[I, E]) ReleaseData() { a.img.ReleaseData() }

func (a *Adaptor[I, E]) Initialize() { a.img.Initialize() }

func (a *Adaptor[I, E]) CopyInformation(src pipeline.DataObject) error {
	return a.img.CopyInformation(src)
}

func (a *Adaptor[I, E]) GetSource() pipeline.Source { return a.img.GetSource() }

func (a *Adaptor[I, E]) SetSource(s pipeline.Source) { a.img.SetSource(s) }

func (a *Adaptor[I, E]) GetSpacing() []float64 { return a.img.GetSpacing() }

func (a *Adaptor[I, E]) SetSpacing(spacing []float64) { a.img.SetSpacing(spacing) }

func (a *Adaptor[I, E]) GetOrigin() []float64 { return a.img.GetOrigin() }

func (a *Adaptor[I, E]) SetOrigin(origin []float64) { a.img.SetOrigin(origin) }

func (a *Adaptor[I, E]) Allocate() { a.img.Allocate() }

func (a *Adaptor[I, E]) Update() error { return a.img.Update() }

func (a *Adaptor[I, E]) UpdateOutputInformation() error { return a.img.UpdateOutputInformation() }

func (a *Adaptor[I, E]) PropagateRequestedRegion() error {
	return a.img.PropagateRequestedRegion()
}

func (a *Adaptor[I, E]) UpdateOutputData() error { return a.img.UpdateOutputData() }
