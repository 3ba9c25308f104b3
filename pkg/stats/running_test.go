package stats

import (
	"errors"
	"math"
	"testing"
)

func mustUpdate(t *testing.T, s *Running, xs ...float64) {
	t.Helper()
	for _, x := range xs {
		if err := s.Update(x); err != nil {
			t.Fatalf("Update(%v): %v", x, err)
		}
	}
}

func approx(got, want, tol float64) bool {
	return math.Abs(got-want) <= tol
}

func TestRunningFixedSequence(t *testing.T) {
	var s Running
	mustUpdate(t, &s, 10.0, 20.0, 30.0)

	if s.Count() != 3 {
		t.Fatalf("count = %d, want 3", s.Count())
	}
	mean, err := s.Mean()
	if err != nil || mean != 20.0 {
		t.Errorf("mean = %v (%v), want 20.0", mean, err)
	}
	sd, err := s.Stddev()
	if err != nil || !approx(sd, 10.0, 1e-9) {
		t.Errorf("stddev = %v (%v), want 10.0", sd, err)
	}
	ci, err := s.CI95()
	if err != nil || !approx(ci, 11.3161, 1e-3) {
		t.Errorf("ci95 = %v (%v), want ~11.32", ci, err)
	}
	min, _ := s.Min()
	max, _ := s.Max()
	if min != 10.0 || max != 30.0 {
		t.Errorf("min/max = %v/%v, want 10/30", min, max)
	}
}

func TestRunningSingleSample(t *testing.T) {
	var s Running
	mustUpdate(t, &s, 42.0)

	mean, err := s.Mean()
	if err != nil || mean != 42.0 {
		t.Errorf("mean = %v (%v), want 42.0", mean, err)
	}
	sd, err := s.Stddev()
	if err != nil || sd != 0.0 {
		t.Errorf("stddev = %v (%v), want 0", sd, err)
	}
	ci, err := s.CI95()
	if err != nil || ci != 0.0 {
		t.Errorf("ci95 = %v (%v), want 0", ci, err)
	}
	min, _ := s.Min()
	max, _ := s.Max()
	if min != 42.0 || max != 42.0 {
		t.Errorf("min/max = %v/%v, want 42/42", min, max)
	}
}

func TestRunningRejectsNonFinite(t *testing.T) {
	var s Running
	mustUpdate(t, &s, 10.0, 20.0)

	for _, bad := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		if err := s.Update(bad); !errors.Is(err, ErrInvalidSample) {
			t.Errorf("Update(%v) = %v, want ErrInvalidSample", bad, err)
		}
	}

	// prior state must be untouched
	if s.Count() != 2 {
		t.Fatalf("count = %d after rejected samples, want 2", s.Count())
	}
	mean, _ := s.Mean()
	if mean != 15.0 {
		t.Errorf("mean = %v after rejected samples, want 15.0", mean)
	}
}

func TestRunningEmpty(t *testing.T) {
	var s Running

	if _, err := s.Mean(); !errors.Is(err, ErrNoSamples) {
		t.Errorf("Mean on empty = %v, want ErrNoSamples", err)
	}
	if _, err := s.Stddev(); !errors.Is(err, ErrNoSamples) {
		t.Errorf("Stddev on empty = %v, want ErrNoSamples", err)
	}
	if _, err := s.CI95(); !errors.Is(err, ErrNoSamples) {
		t.Errorf("CI95 on empty = %v, want ErrNoSamples", err)
	}
	if _, err := s.Min(); !errors.Is(err, ErrNoSamples) {
		t.Errorf("Min on empty = %v, want ErrNoSamples", err)
	}
	if _, err := s.Max(); !errors.Is(err, ErrNoSamples) {
		t.Errorf("Max on empty = %v, want ErrNoSamples", err)
	}
}

func TestRunningMatchesTwoPass(t *testing.T) {
	// Welford must agree with the naive two-pass computation on
	// closely-clustered values, which is exactly where sum-of-squares
	// formulations lose precision.
	samples := []float64{1e9 + 4, 1e9 + 7, 1e9 + 13, 1e9 + 16}

	var s Running
	mustUpdate(t, &s, samples...)

	var sum float64
	for _, x := range samples {
		sum += x
	}
	wantMean := sum / float64(len(samples))
	var sq float64
	for _, x := range samples {
		sq += (x - wantMean) * (x - wantMean)
	}
	wantVar := sq / float64(len(samples)-1)

	mean, _ := s.Mean()
	if !approx(mean, wantMean, 1e-3) {
		t.Errorf("mean = %v, want %v", mean, wantMean)
	}
	v, _ := s.Variance()
	if !approx(v, wantVar, 1e-3) {
		t.Errorf("variance = %v, want %v", v, wantVar)
	}
}
