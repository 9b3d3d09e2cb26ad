package filter

import (
	"math"

	"ndimage/pkg/region"
	"ndimage/pkg/transform"
)

// ResampleImageFilter evaluates its input on a new grid. The output geometry
// (size, start index, spacing, origin) is configured independently of the
// input; each output index is mapped to physical space, pushed through the
// attached geometric transform into input space, and looked up with
// nearest-neighbor interpolation. Positions falling outside the input buffer
// produce the default pixel value.
type ResampleImageFilter struct {
	*ImageSource

	xform            transform.GeometricTransform
	size             region.Size
	outputStartIndex region.Index
	outputSpacing    []float64
	outputOrigin     []float64
	defaultValue     float64
}

// NewResample creates a resampling filter with an identity translation, zero
// extent, unit spacing and zero origin. Set the size before updating.
func NewResample(dim int) *ResampleImageFilter {
	f := &ResampleImageFilter{
		ImageSource:      NewImageSource(dim),
		xform:            transform.NewTranslation(dim),
		size:             make(region.Size, dim),
		outputStartIndex: make(region.Index, dim),
		outputSpacing:    make([]float64, dim),
		outputOrigin:     make([]float64, dim),
	}
	for d := 0; d < dim; d++ {
		f.outputSpacing[d] = 1
	}
	f.SetHooks(f)
	return f
}

// SetTransform swaps the geometric mapping from output space to input space.
func (f *ResampleImageFilter) SetTransform(t transform.GeometricTransform) {
	f.xform = t
	f.Modified()
}

// GetTransform returns the attached geometric mapping.
func (f *ResampleImageFilter) GetTransform() transform.GeometricTransform {
	return f.xform
}

// SetSize sets the extent of the output grid.
func (f *ResampleImageFilter) SetSize(size region.Size) {
	if f.size.Equal(size) {
		return
	}
	f.size = size.Clone()
	f.Modified()
}

// SetOutputStartIndex sets the start index of the output grid.
func (f *ResampleImageFilter) SetOutputStartIndex(idx region.Index) {
	if f.outputStartIndex.Equal(idx) {
		return
	}
	f.outputStartIndex = idx.Clone()
	f.Modified()
}

// SetOutputSpacing sets the physical sample distance of the output grid.
func (f *ResampleImageFilter) SetOutputSpacing(spacing []float64) {
	f.outputSpacing = append([]float64(nil), spacing...)
	f.Modified()
}

// SetOutputOrigin sets the physical position of the output zero index.
func (f *ResampleImageFilter) SetOutputOrigin(origin []float64) {
	f.outputOrigin = append([]float64(nil), origin...)
	f.Modified()
}

// SetDefaultPixelValue sets the value used for positions mapping outside the
// input.
func (f *ResampleImageFilter) SetDefaultPixelValue(v float64) {
	if f.defaultValue == v {
		return
	}
	f.defaultValue = v
	f.Modified()
}

// GenerateOutputInformation defines the output geometry entirely from the
// filter's parameters; the input geometry only matters during lookup.
func (f *ResampleImageFilter) GenerateOutputInformation() error {
	lpr, err := region.New(f.outputStartIndex, f.size)
	if err != nil {
		return err
	}
	out := f.GetOutput()
	out.SetLargestPossibleRegion(lpr)
	out.SetSpacing(f.outputSpacing)
	out.SetOrigin(f.outputOrigin)
	return nil
}

// GenerateInputRequestedRegion asks for the whole input. Which input pixels
// an output region touches depends on the transform, so the requirement is
// conservatively the largest possible region.
func (f *ResampleImageFilter) GenerateInputRequestedRegion() error {
	in := f.GetInput(0)
	if in == nil {
		return nil
	}
	in.SetRequestedRegionToLargestPossibleRegion()
	return nil
}

// GenerateData maps every output index through the transform and samples the
// input with nearest-neighbor lookup.
func (f *ResampleImageFilter) GenerateData() error {
	in := f.GetInputSource()
	out := f.AllocateOutput()

	dim := out.Dim()
	inSpacing := make([]float64, dim)
	inOrigin := make([]float64, dim)
	for d := 0; d < dim; d++ {
		inSpacing[d] = 1
	}
	if sp, ok := in.(interface {
		GetSpacing() []float64
		GetOrigin() []float64
	}); ok {
		inSpacing = sp.GetSpacing()
		inOrigin = sp.GetOrigin()
	}

	inBuffered := in.GetBufferedRegion()
	buffered := out.GetBufferedRegion()
	total := buffered.NumPixels()
	done := 0
	phys := make([]float64, dim)
	nearest := make(region.Index, dim)
	for idx := range buffered.Iter() {
		for d := 0; d < dim; d++ {
			phys[d] = f.outputOrigin[d] + float64(idx[d])*f.outputSpacing[d]
		}
		mapped := f.xform.TransformPoint(phys)
		for d := 0; d < dim; d++ {
			nearest[d] = int(math.Round((mapped[d] - inOrigin[d]) / inSpacing[d]))
		}
		if inBuffered.ContainsIndex(nearest) {
			out.SetPixel(idx, in.GetPixel(nearest))
		} else {
			out.SetPixel(idx, f.defaultValue)
		}
		done++
	}
	f.UpdateProgress(done, total, "resampling finished")
	return nil
}
