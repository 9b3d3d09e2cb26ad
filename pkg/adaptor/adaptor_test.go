package adaptor

import (
	"math"
	"testing"

	"ndimage/pkg/image"
	"ndimage/pkg/region"
)

func mustRegion(t *testing.T, start region.Index, size region.Size) region.Region {
	t.Helper()
	r, err := region.New(start, size)
	if err != nil {
		t.Fatalf("Failed to build region: %v", err)
	}
	return r
}

func newTestImage(t *testing.T, r region.Region) *image.Image[float64] {
	t.Helper()
	img := image.New[float64](r.Dim())
	img.SetLargestPossibleRegion(r)
	img.SetBufferedRegion(r)
	img.SetRequestedRegion(r)
	img.Allocate()
	return img
}

// TestRegionDelegation verifies the adaptor never diverges from the wrapped
// image's region state: setting through the adaptor is visible through the
// image and vice versa
func TestRegionDelegation(t *testing.T) {
	img := image.New[float64](2)
	a := New[float64, float64](img, CastAccessor[float64, float64]{})

	r := mustRegion(t, region.Index{0, 0}, region.Size{8, 8})
	a.SetLargestPossibleRegion(r)

	if !a.GetLargestPossibleRegion().Equal(r) {
		t.Errorf("Expected the adaptor to report the region it stored")
	}
	if !img.GetLargestPossibleRegion().Equal(r) {
		t.Errorf("Expected the wrapped image to hold the region set through the adaptor")
	}

	sub := mustRegion(t, region.Index{2, 2}, region.Size{4, 4})
	img.SetRequestedRegion(sub)
	if !a.GetRequestedRegion().Equal(sub) {
		t.Errorf("Expected the adaptor to see the region set through the image")
	}
}

// TestModifiedDelegates verifies Modified on the adaptor marks the wrapped
// image modified, since the adaptor has no independent buffer to track
func TestModifiedDelegates(t *testing.T) {
	img := image.New[float64](2)
	a := New[float64, float64](img, CastAccessor[float64, float64]{})

	before := img.GetMTime()
	a.Modified()
	if img.GetMTime() <= before {
		t.Errorf("Expected Modified on the adaptor to advance the image's timestamp")
	}
	if a.GetMTime() != img.GetMTime() {
		t.Errorf("Expected the adaptor and image to share one timestamp")
	}
}

// TestShiftScaleRoundTrip verifies an invertible accessor round-trips a
// value through SetPixel and GetPixel up to floating point precision
func TestShiftScaleRoundTrip(t *testing.T) {
	img := newTestImage(t, mustRegion(t, region.Index{0, 0}, region.Size{4, 4}))
	a := New[float64, float64](img, ShiftScaleAccessor{Shift: 10, Scale: 2})

	idx := region.Index{1, 3}
	a.SetPixel(idx, 37.5)

	if got := a.GetPixel(idx); math.Abs(got-37.5) > 1e-12 {
		t.Errorf("Expected round trip to return 37.5, got %v", got)
	}
	// the stored value is the internal representation
	if got := img.GetPixel(idx); math.Abs(got-13.75) > 1e-12 {
		t.Errorf("Expected stored value 13.75, got %v", got)
	}
}

// TestCastAccessorPresentsConvertedValues verifies numeric conversion on
// both sides of the accessor
func TestCastAccessorPresentsConvertedValues(t *testing.T) {
	r := mustRegion(t, region.Index{0, 0}, region.Size{2, 2})
	img := image.New[int16](2)
	img.SetLargestPossibleRegion(r)
	img.SetBufferedRegion(r)
	img.Allocate()

	a := New[int16, float64](img, CastAccessor[int16, float64]{})

	a.SetPixel(region.Index{0, 0}, 3.9)
	if got := img.GetPixel(region.Index{0, 0}); got != 3 {
		t.Errorf("Expected the stored int16 to be truncated to 3, got %d", got)
	}
	if got := a.GetPixel(region.Index{0, 0}); got != 3.0 {
		t.Errorf("Expected the presented value 3.0, got %v", got)
	}
}

// TestAcosAccessorPresentsTheFunction verifies the read path applies the
// function to the stored value
func TestAcosAccessorPresentsTheFunction(t *testing.T) {
	img := newTestImage(t, mustRegion(t, region.Index{0, 0}, region.Size{2, 2}))
	img.SetPixel(region.Index{0, 0}, 0.5)

	a := New[float64, float64](img, AcosAccessor[float64, float64]{})

	want := math.Acos(0.5)
	if got := a.GetPixel(region.Index{0, 0}); math.Abs(got-want) > 1e-12 {
		t.Errorf("Expected acos(0.5)=%v, got %v", want, got)
	}
}

// TestSetPixelAccessorSwapsThePresentation verifies runtime reconfiguration
// of the presented transform without touching the stored data
func TestSetPixelAccessorSwapsThePresentation(t *testing.T) {
	img := newTestImage(t, mustRegion(t, region.Index{0, 0}, region.Size{2, 2}))
	img.SetPixel(region.Index{1, 1}, 5)

	a := New[float64, float64](img, ShiftScaleAccessor{Shift: 0, Scale: 10})
	if got := a.GetPixel(region.Index{1, 1}); got != 50 {
		t.Errorf("Expected 50 through the first accessor, got %v", got)
	}

	a.SetPixelAccessor(ShiftScaleAccessor{Shift: 1, Scale: 1})
	if got := a.GetPixel(region.Index{1, 1}); got != 6 {
		t.Errorf("Expected 6 through the swapped accessor, got %v", got)
	}
	if got := img.GetPixel(region.Index{1, 1}); got != 5 {
		t.Errorf("Expected the stored value untouched by the accessor swap, got %v", got)
	}
}

// TestSetImageRetargetsTheAdaptor verifies the adaptor can present a
// different underlying image without reallocation
func TestSetImageRetargetsTheAdaptor(t *testing.T) {
	r := mustRegion(t, region.Index{0, 0}, region.Size{2, 2})
	first := newTestImage(t, r)
	first.FillBuffer(1)
	second := newTestImage(t, r)
	second.FillBuffer(2)

	a := New[float64, float64](first, CastAccessor[float64, float64]{})
	if got := a.GetPixel(region.Index{0, 0}); got != 1 {
		t.Errorf("Expected 1 from the first image, got %v", got)
	}

	a.SetImage(second)
	if got := a.GetPixel(region.Index{0, 0}); got != 2 {
		t.Errorf("Expected 2 after retargeting, got %v", got)
	}
	if a.GetImage() != second {
		t.Errorf("Expected GetImage to return the retargeted image")
	}
}

// TestGraftThroughAdaptors verifies grafting shares the pixel container but
// keeps the wrapped images' region state distinct
func TestGraftThroughAdaptors(t *testing.T) {
	r := mustRegion(t, region.Index{0, 0}, region.Size{4, 4})
	donorImg := newTestImage(t, r)
	donorImg.FillBuffer(3)
	donor := New[float64, float64](donorImg, CastAccessor[float64, float64]{})

	graftedImg := image.New[float64](2)
	grafted := New[float64, float64](graftedImg, CastAccessor[float64, float64]{})

	if err := grafted.Graft(donor); err != nil {
		t.Fatalf("Graft failed: %v", err)
	}

	grafted.SetPixel(region.Index{1, 1}, 8)
	if got := donor.GetPixel(region.Index{1, 1}); got != 8 {
		t.Errorf("Expected the donor to see writes through the graft, got %v", got)
	}

	sub := mustRegion(t, region.Index{0, 0}, region.Size{2, 2})
	grafted.SetRequestedRegion(sub)
	if donor.GetRequestedRegion().Equal(sub) {
		t.Errorf("Expected the donor's requested region to stay independent")
	}
}
