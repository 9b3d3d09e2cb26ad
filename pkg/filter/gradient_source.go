package filter

import (
	"ndimage/pkg/region"
)

// GradientImageSource is a head producer generating a deterministic linear
// ramp: the pixel at an index is the dot product of the index with the
// per-dimension step. Its configured size, spacing and origin define the
// dataset geometry for the whole downstream chain, and it computes only the
// region requested of it.
type GradientImageSource struct {
	*ImageSource

	size    region.Size
	spacing []float64
	origin  []float64
	steps   []float64
}

// NewGradientImageSource creates a ramp source of the given dimensionality
// with zero extent, unit spacing and unit steps. Set the size before
// updating.
func NewGradientImageSource(dim int) *GradientImageSource {
	s := &GradientImageSource{
		ImageSource: NewImageSource(dim),
		size:        make(region.Size, dim),
		spacing:     make([]float64, dim),
		origin:      make([]float64, dim),
		steps:       make([]float64, dim),
	}
	for d := 0; d < dim; d++ {
		s.spacing[d] = 1
		s.steps[d] = 1
	}
	s.SetHooks(s)
	return s
}

// SetSize sets the extent of the generated dataset, one count per
// dimension.
func (s *GradientImageSource) SetSize(size region.Size) {
	if s.size.Equal(size) {
		return
	}
	s.size = size.Clone()
	s.Modified()
}

// SetSpacing sets the physical distance between samples.
func (s *GradientImageSource) SetSpacing(spacing []float64) {
	s.spacing = append([]float64(nil), spacing...)
	s.Modified()
}

// SetOrigin sets the physical position of the zero index.
func (s *GradientImageSource) SetOrigin(origin []float64) {
	s.origin = append([]float64(nil), origin...)
	s.Modified()
}

// SetSteps sets the per-dimension ramp increment.
func (s *GradientImageSource) SetSteps(steps []float64) {
	s.steps = append([]float64(nil), steps...)
	s.Modified()
}

// GenerateOutputInformation defines the output geometry from the configured
// size, spacing and origin. The largest possible region always starts at the
// origin index.
func (s *GradientImageSource) GenerateOutputInformation() error {
	lpr, err := region.New(make(region.Index, len(s.size)), s.size)
	if err != nil {
		return err
	}
	out := s.GetOutput()
	out.SetLargestPossibleRegion(lpr)
	out.SetSpacing(s.spacing)
	out.SetOrigin(s.origin)
	return nil
}

// GenerateData fills the requested region with the ramp.
func (s *GradientImageSource) GenerateData() error {
	out := s.AllocateOutput()
	buffered := out.GetBufferedRegion()
	total := buffered.NumPixels()
	done := 0
	for idx := range buffered.Iter() {
		v := 0.0
		for d := range idx {
			v += float64(idx[d]) * s.steps[d]
		}
		out.SetPixel(idx, v)
		done++
	}
	s.UpdateProgress(done, total, "gradient ramp generated")
	return nil
}
