// Package filter provides the producer stages that drive the update
// protocol: a base for filters with one dense float64 output, a synthetic
// head source, a pointwise shift/scale filter, a statistics filter and a
// geometric resampling filter. Filters consume any data object exposing
// float64 pixels, so adaptors plug in as inputs the same as images.
package filter

import (
	"ndimage/pkg/image"
	"ndimage/pkg/pipeline"
	"ndimage/pkg/region"
)

// PixelSource is what a filter needs from its input: the full data object
// contract plus read access to pixels presented as float64. Both
// *image.Image[float64] and adaptors with a float64 external type satisfy
// it.
type PixelSource interface {
	pipeline.DataObject
	GetPixel(region.Index) float64
}

// ImageSource is the base for filters producing a single dense float64
// image. It owns the output object and wires it back to the filter.
type ImageSource struct {
	*pipeline.ProcessObject
}

// NewImageSource creates a producer with one freshly created output image of
// the given dimensionality.
func NewImageSource(dim int) *ImageSource {
	s := &ImageSource{ProcessObject: pipeline.NewProcessObject()}
	s.SetNthOutput(0, image.New[float64](dim))
	return s
}

// GetOutput returns the filter's output image.
func (s *ImageSource) GetOutput() *image.Image[float64] {
	return s.GetOutputObject(0).(*image.Image[float64])
}

// AllocateOutput sizes the output buffer to the requested region. Filters
// call it at the top of GenerateData, after which the buffered region covers
// the requested region.
func (s *ImageSource) AllocateOutput() *image.Image[float64] {
	out := s.GetOutput()
	out.SetBufferedRegion(out.GetRequestedRegion())
	out.Allocate()
	return out
}

// SetInput wires the primary input.
func (s *ImageSource) SetInput(in PixelSource) {
	s.SetNthInput(0, in)
}

// GetInputSource returns the primary input, or nil when unset.
func (s *ImageSource) GetInputSource() PixelSource {
	in := s.GetInput(0)
	if in == nil {
		return nil
	}
	return in.(PixelSource)
}
