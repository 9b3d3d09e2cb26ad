package filter

import (
	"errors"
	"math"
	"testing"

	"ndimage/pkg/adaptor"
	"ndimage/pkg/image"
	"ndimage/pkg/pipeline"
	"ndimage/pkg/region"
	"ndimage/pkg/transform"
)

func mustRegion(t *testing.T, start region.Index, size region.Size) region.Region {
	t.Helper()
	r, err := region.New(start, size)
	if err != nil {
		t.Fatalf("Failed to build region: %v", err)
	}
	return r
}

// countGenerations installs a progress callback counting how many times the
// filter actually computed
func countGenerations(p interface {
	SetProgressCallback(pipeline.ProgressCallback)
}) *int {
	n := new(int)
	p.SetProgressCallback(func(completed, total int, message string) {
		if completed == total {
			*n++
		}
	})
	return n
}

// TestGradientSourceComputesOnlyTheRequestedRegion verifies the head
// producer honors demand: the buffer covers exactly the requested region and
// holds the ramp values
func TestGradientSourceComputesOnlyTheRequestedRegion(t *testing.T) {
	src := NewGradientImageSource(2)
	src.SetSize(region.Size{8, 8})

	out := src.GetOutput()
	want := mustRegion(t, region.Index{2, 2}, region.Size{4, 4})
	out.SetRequestedRegion(want)

	if err := out.Update(); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	if !out.GetBufferedRegion().Equal(want) {
		t.Errorf("Expected buffered region %v, got %v", want, out.GetBufferedRegion())
	}
	if got := out.GetPixel(region.Index{3, 4}); got != 7 {
		t.Errorf("Expected ramp value 7 at (3,4), got %v", got)
	}
}

// TestChainSatisfiesRegionInvariants runs source -> shift/scale and checks
// the §-style invariants every data object must satisfy after an update
func TestChainSatisfiesRegionInvariants(t *testing.T) {
	src := NewGradientImageSource(2)
	src.SetSize(region.Size{16, 16})

	ss := NewShiftScale(2)
	ss.SetInput(src.GetOutput())
	ss.SetShift(1)
	ss.SetScale(2)

	out := ss.GetOutput()
	out.SetRequestedRegion(mustRegion(t, region.Index{4, 4}, region.Size{8, 8}))

	if err := out.Update(); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	for _, obj := range []pipeline.DataObject{src.GetOutput(), out} {
		if !obj.GetBufferedRegion().Contains(obj.GetRequestedRegion()) {
			t.Errorf("Expected buffered %v to contain requested %v",
				obj.GetBufferedRegion(), obj.GetRequestedRegion())
		}
		if !obj.GetLargestPossibleRegion().Contains(obj.GetBufferedRegion()) {
			t.Errorf("Expected largest possible %v to contain buffered %v",
				obj.GetLargestPossibleRegion(), obj.GetBufferedRegion())
		}
	}

	// out = in*2 + 1 where in = x + y
	if got := out.GetPixel(region.Index{5, 6}); got != 23 {
		t.Errorf("Expected (5+6)*2+1=23, got %v", got)
	}
}

// TestSecondUpdateRecomputesNothing verifies pipeline idempotence across a
// two-stage chain
func TestSecondUpdateRecomputesNothing(t *testing.T) {
	src := NewGradientImageSource(2)
	src.SetSize(region.Size{8, 8})
	ss := NewShiftScale(2)
	ss.SetInput(src.GetOutput())

	srcRuns := countGenerations(src)
	ssRuns := countGenerations(ss)

	out := ss.GetOutput()
	if err := out.Update(); err != nil {
		t.Fatalf("First update failed: %v", err)
	}
	if err := out.Update(); err != nil {
		t.Fatalf("Second update failed: %v", err)
	}

	if *srcRuns != 1 || *ssRuns != 1 {
		t.Errorf("Expected one generation per stage across two updates, got %d and %d",
			*srcRuns, *ssRuns)
	}
}

// TestParameterChangeRecomputesOnlyDownstream verifies minimal
// recomputation: changing the shift re-runs the shift/scale stage but not
// the source
func TestParameterChangeRecomputesOnlyDownstream(t *testing.T) {
	src := NewGradientImageSource(2)
	src.SetSize(region.Size{8, 8})
	ss := NewShiftScale(2)
	ss.SetInput(src.GetOutput())

	srcRuns := countGenerations(src)
	ssRuns := countGenerations(ss)

	out := ss.GetOutput()
	if err := out.Update(); err != nil {
		t.Fatalf("First update failed: %v", err)
	}

	ss.SetShift(5)
	if err := out.Update(); err != nil {
		t.Fatalf("Second update failed: %v", err)
	}

	if *srcRuns != 1 {
		t.Errorf("Expected the source not to recompute, got %d generations", *srcRuns)
	}
	if *ssRuns != 2 {
		t.Errorf("Expected the shift/scale stage to recompute, got %d generations", *ssRuns)
	}
	if got := out.GetPixel(region.Index{1, 1}); got != 7 {
		t.Errorf("Expected 1+1+5=7 after the parameter change, got %v", got)
	}
}

// TestOutOfBoundsRequestAbortsTheChain verifies a request with no overlap
// with the dataset surfaces RegionOutOfBounds to the caller
func TestOutOfBoundsRequestAbortsTheChain(t *testing.T) {
	src := NewGradientImageSource(2)
	src.SetSize(region.Size{8, 8})
	ss := NewShiftScale(2)
	ss.SetInput(src.GetOutput())

	out := ss.GetOutput()
	out.SetRequestedRegion(mustRegion(t, region.Index{20, 20}, region.Size{5, 5}))

	err := out.Update()
	if !errors.Is(err, pipeline.ErrRegionOutOfBounds) {
		t.Fatalf("Expected ErrRegionOutOfBounds, got %v", err)
	}
}

// TestBoundaryRequestIsClamped verifies the clamp policy through a real
// filter chain: the overhanging part of the request is dropped, the rest is
// computed
func TestBoundaryRequestIsClamped(t *testing.T) {
	src := NewGradientImageSource(2)
	src.SetSize(region.Size{10, 10})
	ss := NewShiftScale(2)
	ss.SetInput(src.GetOutput())

	out := ss.GetOutput()
	out.SetRequestedRegion(mustRegion(t, region.Index{5, 5}, region.Size{10, 10}))

	if err := out.Update(); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	want := mustRegion(t, region.Index{5, 5}, region.Size{5, 5})
	if !out.GetRequestedRegion().Equal(want) {
		t.Errorf("Expected requested region clamped to %v, got %v", want, out.GetRequestedRegion())
	}
	if !out.GetBufferedRegion().Contains(want) {
		t.Errorf("Expected the clamped request to be computed")
	}
}

// TestResampleAppliesTheTranslation verifies each output pixel is looked up
// at the translated position, with the default value outside the input
func TestResampleAppliesTheTranslation(t *testing.T) {
	src := NewGradientImageSource(2)
	src.SetSize(region.Size{8, 8})
	src.SetSteps([]float64{1, 10})

	rs := NewResample(2)
	rs.SetInput(src.GetOutput())
	rs.SetSize(region.Size{8, 8})
	rs.SetTransform(transform.NewTranslationWithOffset([]float64{2, 3}))
	rs.SetDefaultPixelValue(-1)

	out := rs.GetOutput()
	if err := out.Update(); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	// out(x,y) samples in(x+2, y+3) where in = x + 10y
	if got := out.GetPixel(region.Index{0, 0}); got != 32 {
		t.Errorf("Expected in(2,3)=32 at the origin, got %v", got)
	}
	if got := out.GetPixel(region.Index{5, 4}); got != 77 {
		t.Errorf("Expected in(7,7)=77 at (5,4), got %v", got)
	}
	// (6,6) maps to (8,9), outside the 8x8 input
	if got := out.GetPixel(region.Index{6, 6}); got != -1 {
		t.Errorf("Expected the default value outside the input, got %v", got)
	}
}

// TestResampleSwappingTheTransformRecomputes verifies the transform is a
// swappable strategy: retargeting it invalidates the output
func TestResampleSwappingTheTransformRecomputes(t *testing.T) {
	src := NewGradientImageSource(2)
	src.SetSize(region.Size{8, 8})

	rs := NewResample(2)
	rs.SetInput(src.GetOutput())
	rs.SetSize(region.Size{8, 8})

	out := rs.GetOutput()
	if err := out.Update(); err != nil {
		t.Fatalf("First update failed: %v", err)
	}
	identity := out.GetPixel(region.Index{1, 1})

	rs.SetTransform(transform.NewTranslationWithOffset([]float64{3, 3}))
	if err := out.Update(); err != nil {
		t.Fatalf("Second update failed: %v", err)
	}
	if got := out.GetPixel(region.Index{1, 1}); got == identity {
		t.Errorf("Expected the output to change after swapping the transform")
	}
}

// TestStatisticsOverTheRequestedRegion verifies the gonum-backed statistics
// on a known ramp: values 0..15 over a 4x4 grid
func TestStatisticsOverTheRequestedRegion(t *testing.T) {
	src := NewGradientImageSource(2)
	src.SetSize(region.Size{4, 4})
	src.SetSteps([]float64{1, 4})

	st := NewStatistics(2)
	st.SetInput(src.GetOutput())

	if err := st.GetOutput().Update(); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	if st.GetMin() != 0 {
		t.Errorf("Expected min 0, got %v", st.GetMin())
	}
	if st.GetMax() != 15 {
		t.Errorf("Expected max 15, got %v", st.GetMax())
	}
	if st.GetSum() != 120 {
		t.Errorf("Expected sum 120, got %v", st.GetSum())
	}
	if st.GetMean() != 7.5 {
		t.Errorf("Expected mean 7.5, got %v", st.GetMean())
	}
	// unbiased sample variance of 0..15 is 340/15
	if math.Abs(st.GetVariance()-340.0/15.0) > 1e-9 {
		t.Errorf("Expected variance %v, got %v", 340.0/15.0, st.GetVariance())
	}
	if math.Abs(st.GetSigma()-math.Sqrt(340.0/15.0)) > 1e-9 {
		t.Errorf("Expected sigma %v, got %v", math.Sqrt(340.0/15.0), st.GetSigma())
	}
}

// TestAdaptorFeedsAFilter verifies the decorator use-case: a filter
// consuming an adaptor sees the accessor-transformed values, with the
// requested region propagating through the adaptor to the wrapped image
func TestAdaptorFeedsAFilter(t *testing.T) {
	full := mustRegion(t, region.Index{0, 0}, region.Size{6, 6})
	img := image.New[float64](2)
	img.SetLargestPossibleRegion(full)
	img.SetBufferedRegion(full)
	img.Allocate()
	for idx := range full.Iter() {
		img.SetPixel(idx, float64(idx[0]))
	}
	img.Modified()

	view := adaptor.New[float64, float64](img, adaptor.ShiftScaleAccessor{Shift: 100, Scale: 1})

	ss := NewShiftScale(2)
	ss.SetInput(view)

	out := ss.GetOutput()
	sub := mustRegion(t, region.Index{1, 1}, region.Size{3, 3})
	out.SetRequestedRegion(sub)

	if err := out.Update(); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	// the filter sees x+100 through the adaptor
	if got := out.GetPixel(region.Index{2, 2}); got != 102 {
		t.Errorf("Expected 102 through the adaptor, got %v", got)
	}
	// the demand reached the wrapped image
	if !img.GetRequestedRegion().Equal(sub) {
		t.Errorf("Expected the wrapped image's requested region %v, got %v",
			sub, img.GetRequestedRegion())
	}
}
