package filter

// ShiftScaleImageFilter computes out = in*Scale + Shift pointwise over the
// requested region. It requires exactly the output's requested region from
// its input (the protocol default), so it is the simplest demonstration of
// minimal demand-driven recomputation.
type ShiftScaleImageFilter struct {
	*ImageSource

	shift float64
	scale float64
}

// NewShiftScale creates the filter with shift 0 and scale 1.
func NewShiftScale(dim int) *ShiftScaleImageFilter {
	f := &ShiftScaleImageFilter{
		ImageSource: NewImageSource(dim),
		scale:       1,
	}
	f.SetHooks(f)
	return f
}

// SetShift sets the additive term.
func (f *ShiftScaleImageFilter) SetShift(shift float64) {
	if f.shift == shift {
		return
	}
	f.shift = shift
	f.Modified()
}

// GetShift returns the additive term.
func (f *ShiftScaleImageFilter) GetShift() float64 { return f.shift }

// SetScale sets the multiplicative term.
func (f *ShiftScaleImageFilter) SetScale(scale float64) {
	if f.scale == scale {
		return
	}
	f.scale = scale
	f.Modified()
}

// GetScale returns the multiplicative term.
func (f *ShiftScaleImageFilter) GetScale() float64 { return f.scale }

// GenerateData applies the pointwise mapping over the requested region.
func (f *ShiftScaleImageFilter) GenerateData() error {
	in := f.GetInputSource()
	out := f.AllocateOutput()
	buffered := out.GetBufferedRegion()
	total := buffered.NumPixels()
	done := 0
	for idx := range buffered.Iter() {
		out.SetPixel(idx, in.GetPixel(idx)*f.scale+f.shift)
		done++
	}
	f.UpdateProgress(done, total, "shift/scale applied")
	return nil
}
