// Package stats maintains streaming summary statistics over per-iteration
// throughput samples.
package stats

import (
	"errors"
	"math"
)

var (
	// ErrInvalidSample is returned for NaN or infinite samples.
	ErrInvalidSample = errors.New("sample is not a finite number")

	// ErrNoSamples is returned when reading statistics before the first
	// update.
	ErrNoSamples = errors.New("no samples accumulated")
)

// Running accumulates samples one at a time with Welford's single-pass
// variance update, so correct partial statistics are available after every
// update without retaining the sample history. The zero value is ready to
// use; one accumulator serves one configuration's iteration loop.
type Running struct {
	n    int64
	mean float64
	m2   float64 // running sum of squared deviations
	min  float64
	max  float64
}

// Update folds one sample into the accumulator. Non-finite samples are
// rejected and leave the accumulated state unchanged.
func (s *Running) Update(x float64) error {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return ErrInvalidSample
	}

	s.n++
	if s.n == 1 {
		s.min, s.max = x, x
	} else {
		if x < s.min {
			s.min = x
		}
		if x > s.max {
			s.max = x
		}
	}

	delta := x - s.mean
	s.mean += delta / float64(s.n)
	s.m2 += delta * (x - s.mean)
	return nil
}

// Count returns the number of accumulated samples.
func (s *Running) Count() int64 { return s.n }

func (s *Running) Mean() (float64, error) {
	if s.n == 0 {
		return 0, ErrNoSamples
	}
	return s.mean, nil
}

// Variance returns the sample variance (n-1 denominator). By convention it
// is 0 for a single sample, where variance is undefined.
func (s *Running) Variance() (float64, error) {
	if s.n == 0 {
		return 0, ErrNoSamples
	}
	if s.n == 1 {
		return 0, nil
	}
	return s.m2 / float64(s.n-1), nil
}

func (s *Running) Stddev() (float64, error) {
	v, err := s.Variance()
	if err != nil {
		return 0, err
	}
	return math.Sqrt(v), nil
}

// CI95 returns the half-width of the 95% confidence interval for the mean,
// 1.96*stddev/sqrt(n). This is the normal approximation, not a
// t-distribution, and understates uncertainty for small n.
func (s *Running) CI95() (float64, error) {
	sd, err := s.Stddev()
	if err != nil {
		return 0, err
	}
	return 1.96 * sd / math.Sqrt(float64(s.n)), nil
}

func (s *Running) Min() (float64, error) {
	if s.n == 0 {
		return 0, ErrNoSamples
	}
	return s.min, nil
}

func (s *Running) Max() (float64, error) {
	if s.n == 0 {
		return 0, ErrNoSamples
	}
	return s.max, nil
}
