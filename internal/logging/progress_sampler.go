package logging

// ProgressSampler thins a stream of completion fractions down to one log
// line per step of whole percentage points.
type ProgressSampler struct {
	step int
	last int
}

// NewProgressSampler returns a sampler that fires every step percent. Steps
// outside 1..100 fall back to 10.
func NewProgressSampler(step int) *ProgressSampler {
	if step < 1 || step > 100 {
		step = 10
	}
	return &ProgressSampler{step: step, last: -1}
}

// Observe reports whether fraction reached a step not yet logged. A nil
// sampler logs everything; negative fractions never log.
func (s *ProgressSampler) Observe(fraction float64) bool {
	if s == nil {
		return true
	}
	if fraction < 0 {
		return false
	}
	percent := int(fraction*100 + 1e-6)
	if percent > 100 {
		percent = 100
	}
	mark := percent / s.step * s.step
	if mark <= s.last {
		return false
	}
	s.last = mark
	return true
}

// Reset forgets the last logged step.
func (s *ProgressSampler) Reset() {
	if s != nil {
		s.last = -1
	}
}
