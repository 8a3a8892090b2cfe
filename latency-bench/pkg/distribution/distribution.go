// =============================================================================
// pkg/distribution/distribution.go - Histogram, CDF and CCDF
// =============================================================================
//
// This package turns a sequence of numeric samples into bucketed distribution
// data and renders it as plain text.
//
// BUCKETING:
//
//	The range [minval, maxval) is split into numBuckets equal-width buckets.
//	A value v lands in bucket floor((v - minval) * numBuckets / (maxval - minval)).
//	v == maxval would land in bucket numBuckets, so it is folded into the last
//	bucket instead.
//
// RANGE ERRORS:
//
//	The caller must supply a range that covers every value. A minval above the
//	smallest value or a maxval below the largest fails with *RangeError; values
//	are never clamped into range.
//
// =============================================================================

package distribution

import (
	"fmt"
	"math"

	"github.com/aclements/go-moremath/stats"
)

// =============================================================================
// Types
// =============================================================================

// Kind identifies which transform produced a Distribution.
type Kind string

const (
	KindHistogram Kind = "histogram"
	KindCDF       Kind = "cdf"
	KindCCDF      Kind = "ccdf"
)

// Distribution is bucketed distribution data.
//
// For histograms MinVal/MaxVal are in the units of the input values.
// For CDF and CCDF they are in bucket-index space: [0, len(Buckets)].
type Distribution struct {
	Kind    Kind
	Buckets []int
	MinVal  float64
	MaxVal  float64
}

// Total returns the sum of all bucket counts.
func (d Distribution) Total() int {
	total := 0
	for _, c := range d.Buckets {
		total += c
	}
	return total
}

// RangeError reports histogram parameters that are inconsistent with the data.
type RangeError struct {
	Reason string
}

func (e *RangeError) Error() string {
	return "distribution range error: " + e.Reason
}

func rangeErrorf(format string, args ...interface{}) *RangeError {
	return &RangeError{Reason: fmt.Sprintf(format, args...)}
}

// =============================================================================
// Builders
// =============================================================================

// BuildHistogram counts values into numBuckets equal-width buckets over [minval, maxval].
func BuildHistogram(values []float64, minval, maxval float64, numBuckets int) (Distribution, error) {
	if numBuckets <= 0 {
		return Distribution{}, rangeErrorf("bucket count must be positive, got %d", numBuckets)
	}
	if !isFinite(minval) || !isFinite(maxval) {
		return Distribution{}, rangeErrorf("range bounds must be finite, got [%v, %v]", minval, maxval)
	}
	if maxval < minval {
		return Distribution{}, rangeErrorf("maxval %v is less than minval %v", maxval, minval)
	}

	if len(values) > 0 {
		for _, v := range values {
			if math.IsNaN(v) {
				return Distribution{}, rangeErrorf("values contain NaN")
			}
		}
		trueMin, trueMax := Bounds(values)
		if minval > trueMin {
			return Distribution{}, rangeErrorf("minval %v exceeds smallest value %v", minval, trueMin)
		}
		if maxval < trueMax {
			return Distribution{}, rangeErrorf("maxval %v is less than largest value %v", maxval, trueMax)
		}
	}

	width := maxval - minval
	if !isFinite(width) {
		return Distribution{}, rangeErrorf("range [%v, %v] is too wide to bucket", minval, maxval)
	}
	buckets := make([]int, numBuckets)
	for _, v := range values {
		var idx int
		if width == 0 {
			// Every value equals minval == maxval.
			idx = numBuckets
		} else {
			idx = int(math.Floor((v - minval) * float64(numBuckets) / width))
		}
		if idx < 0 || idx > numBuckets {
			return Distribution{}, rangeErrorf("value %v maps to bucket %d outside [0, %d]", v, idx, numBuckets)
		}
		if idx == numBuckets {
			idx = numBuckets - 1
		}
		buckets[idx]++
	}

	return Distribution{
		Kind:    KindHistogram,
		Buckets: buckets,
		MinVal:  minval,
		MaxVal:  maxval,
	}, nil
}

// BuildCDF returns the inclusive running total of the histogram bucket counts.
// The last bucket equals len(values).
func BuildCDF(values []float64, minval, maxval float64, numBuckets int) (Distribution, error) {
	hist, err := BuildHistogram(values, minval, maxval, numBuckets)
	if err != nil {
		return Distribution{}, err
	}
	return Distribution{
		Kind:    KindCDF,
		Buckets: prefixSums(hist.Buckets),
		MinVal:  0,
		MaxVal:  float64(numBuckets),
	}, nil
}

// BuildCCDF returns max(CDF) - CDF[i] for each bucket: the number of values
// beyond bucket i.
func BuildCCDF(values []float64, minval, maxval float64, numBuckets int) (Distribution, error) {
	hist, err := BuildHistogram(values, minval, maxval, numBuckets)
	if err != nil {
		return Distribution{}, err
	}

	sums := prefixSums(hist.Buckets)
	peak := 0
	for _, s := range sums {
		if s > peak {
			peak = s
		}
	}
	for i := range sums {
		sums[i] = peak - sums[i]
	}

	return Distribution{
		Kind:    KindCCDF,
		Buckets: sums,
		MinVal:  0,
		MaxVal:  float64(numBuckets),
	}, nil
}

// Build dispatches to the builder for kind.
func Build(kind Kind, values []float64, minval, maxval float64, numBuckets int) (Distribution, error) {
	switch kind {
	case KindHistogram:
		return BuildHistogram(values, minval, maxval, numBuckets)
	case KindCDF:
		return BuildCDF(values, minval, maxval, numBuckets)
	case KindCCDF:
		return BuildCCDF(values, minval, maxval, numBuckets)
	default:
		return Distribution{}, fmt.Errorf("unknown distribution kind %q", kind)
	}
}

// Bounds returns the smallest and largest of values, or 0, 0 when empty.
func Bounds(values []float64) (lo, hi float64) {
	if len(values) == 0 {
		return 0, 0
	}
	return stats.Sample{Xs: values}.Bounds()
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func prefixSums(counts []int) []int {
	sums := make([]int, len(counts))
	running := 0
	for i, c := range counts {
		running += c
		sums[i] = running
	}
	return sums
}
