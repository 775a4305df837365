package metrics

import (
	"fmt"
	"time"
)

// CounterOpts describes a counter family.
type CounterOpts struct {
	Name Name
	Help string
}

// GaugeOpts describes a gauge family.
type GaugeOpts struct {
	Name Name
	Help string
}

// HistogramOpts describes a histogram family. A nil or empty Buckets slice
// falls back to DefaultBuckets.
type HistogramOpts struct {
	Name    Name
	Help    string
	Buckets []float64
}

// SummaryOpts describes a summary family. Empty Objectives fall back to
// DefaultObjectives.
type SummaryOpts struct {
	Name       Name
	Help       string
	Objectives Objectives
	MaxAge     time.Duration
	AgeBuckets uint32
}

// DefaultBuckets provides default histogram buckets
var DefaultBuckets = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}

// ExponentialBuckets creates exponential histogram buckets
func ExponentialBuckets(start, factor float64, count int) []float64 {
	if count <= 0 {
		return nil
	}
	buckets := make([]float64, count)
	for i := range buckets {
		buckets[i] = start
		start *= factor
	}
	return buckets
}

// LinearBuckets creates linear histogram buckets
func LinearBuckets(start, width float64, count int) []float64 {
	if count <= 0 {
		return nil
	}
	buckets := make([]float64, count)
	for i := range buckets {
		buckets[i] = start
		start += width
	}
	return buckets
}

// ValidateBuckets checks that histogram buckets are sorted in strictly
// increasing order.
func ValidateBuckets(buckets []float64) error {
	for i, bucket := range buckets {
		if i > 0 && bucket <= buckets[i-1] {
			return &ValidationError{
				Field: "buckets",
				Value: buckets,
				Err:   fmt.Errorf("%w: buckets must be sorted in increasing order", ErrInvalidBuckets),
			}
		}
	}
	return nil
}
