package filter

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// StatisticsImageFilter passes its input through unchanged while computing
// minimum, maximum, sum, mean, variance and standard deviation over the
// requested region. The statistics are valid after a successful Update.
type StatisticsImageFilter struct {
	*ImageSource

	min      float64
	max      float64
	sum      float64
	mean     float64
	variance float64
	sigma    float64
}

// NewStatistics creates the filter.
func NewStatistics(dim int) *StatisticsImageFilter {
	f := &StatisticsImageFilter{ImageSource: NewImageSource(dim)}
	f.SetHooks(f)
	return f
}

// GetMin returns the smallest value seen in the last update.
func (f *StatisticsImageFilter) GetMin() float64 { return f.min }

// GetMax returns the largest value seen in the last update.
func (f *StatisticsImageFilter) GetMax() float64 { return f.max }

// GetSum returns the sum of all values in the last update.
func (f *StatisticsImageFilter) GetSum() float64 { return f.sum }

// GetMean returns the mean of the last update.
func (f *StatisticsImageFilter) GetMean() float64 { return f.mean }

// GetVariance returns the unbiased sample variance of the last update.
func (f *StatisticsImageFilter) GetVariance() float64 { return f.variance }

// GetSigma returns the standard deviation of the last update.
func (f *StatisticsImageFilter) GetSigma() float64 { return f.sigma }

// GenerateData copies the requested region through and accumulates the
// statistics with gonum.
func (f *StatisticsImageFilter) GenerateData() error {
	in := f.GetInputSource()
	out := f.AllocateOutput()
	buffered := out.GetBufferedRegion()

	values := make([]float64, 0, buffered.NumPixels())
	for idx := range buffered.Iter() {
		v := in.GetPixel(idx)
		out.SetPixel(idx, v)
		values = append(values, v)
	}

	if len(values) == 0 {
		f.min, f.max, f.sum, f.mean, f.variance, f.sigma = 0, 0, 0, 0, 0, 0
		return nil
	}
	f.min = floats.Min(values)
	f.max = floats.Max(values)
	f.sum = floats.Sum(values)
	f.mean = stat.Mean(values, nil)
	f.variance = stat.Variance(values, nil)
	f.sigma = math.Sqrt(f.variance)
	f.UpdateProgress(len(values), len(values), "statistics computed")
	return nil
}
