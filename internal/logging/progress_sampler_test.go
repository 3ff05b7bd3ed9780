package logging

import "testing"

func TestNewProgressSamplerStep(t *testing.T) {
	for _, tt := range []struct {
		step, want int
	}{{0, 10}, {-3, 10}, {250, 10}, {25, 25}, {1, 1}} {
		if got := NewProgressSampler(tt.step).step; got != tt.want {
			t.Fatalf("NewProgressSampler(%d).step = %d, want %d", tt.step, got, tt.want)
		}
	}
}

func TestProgressSamplerObserve(t *testing.T) {
	s := NewProgressSampler(10)
	steps := []struct {
		fraction float64
		want     bool
	}{
		{0, true},
		{0.04, false},
		{0.1, true},
		{0.19, false},
		{0.3, true},
		{0.3, false},
		{0.29, false},
		{1, true},
		{1.2, false},
		{-1, false},
	}
	for _, step := range steps {
		if got := s.Observe(step.fraction); got != step.want {
			t.Fatalf("Observe(%v) = %v, want %v", step.fraction, got, step.want)
		}
	}
}

func TestProgressSamplerNilAndReset(t *testing.T) {
	var nilSampler *ProgressSampler
	if !nilSampler.Observe(0.5) {
		t.Fatal("nil sampler should always log")
	}
	nilSampler.Reset()

	s := NewProgressSampler(10)
	s.Observe(0.5)
	if s.Observe(0.55) {
		t.Fatal("same step logged twice")
	}
	s.Reset()
	if !s.Observe(0.5) {
		t.Fatal("should log after reset")
	}
}
