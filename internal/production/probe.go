package production

import (
	"context"
	"sync"

	"slidecast/internal/timeline"
)

// memoProber caches durations per path for the lifetime of one Producer.
// Assets are immutable while a capsule is being produced.
type memoProber struct {
	inner timeline.DurationProber
	mu    sync.Mutex
	seen  map[string]float64
}

func newMemoProber(inner timeline.DurationProber) *memoProber {
	return &memoProber{inner: inner, seen: make(map[string]float64)}
}

func (m *memoProber) Duration(ctx context.Context, path string) (float64, error) {
	m.mu.Lock()
	if d, ok := m.seen[path]; ok {
		m.mu.Unlock()
		return d, nil
	}
	m.mu.Unlock()

	d, err := m.inner.Duration(ctx, path)
	if err != nil {
		return 0, err
	}
	m.mu.Lock()
	m.seen[path] = d
	m.mu.Unlock()
	return d, nil
}
