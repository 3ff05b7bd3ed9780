package ffmpeg

import (
	"fmt"
	"io"
	"log/slog"
	"sync"

	"slidecast/internal/logging"
)

// Tracker aggregates frame counts across the jobs of one build into a
// completion fraction.
type Tracker struct {
	mu        sync.Mutex
	out       io.Writer
	total     float64
	completed int64
	last      float64
	listeners []func(float64)
	logger    *slog.Logger
	sampler   *logging.ProgressSampler
}

// TrackerOption customizes a Tracker.
type TrackerOption func(*Tracker)

// WithListener registers a callback invoked with every emitted value.
func WithListener(fn func(float64)) TrackerOption {
	return func(t *Tracker) {
		if fn != nil {
			t.listeners = append(t.listeners, fn)
		}
	}
}

// WithProgressLogger logs progress at 10% steps.
func WithProgressLogger(logger *slog.Logger) TrackerOption {
	return func(t *Tracker) {
		if logger != nil {
			t.logger = logger
			t.sampler = logging.NewProgressSampler(10)
		}
	}
}

// NewTracker writes progress lines to out. A nil out discards them.
func NewTracker(out io.Writer, opts ...TrackerOption) *Tracker {
	if out == nil {
		out = io.Discard
	}
	t := &Tracker{out: out, last: -1}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// SetTotal starts a build expected to render frames frames. Counters of a
// previous build are reset.
func (t *Tracker) SetTotal(frames float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.total = frames
	t.completed = 0
	t.last = -1
	if t.sampler != nil {
		t.sampler.Reset()
	}
}

// Observe reports the frame counter of the running job.
func (t *Tracker) Observe(frame int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.emit(t.fraction(t.completed + frame))
}

// Complete folds the final frame count of a finished job into the total.
func (t *Tracker) Complete(frames int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.completed += frames
}

// Skip reports progress for a unit that was served from the cache.
func (t *Tracker) Skip() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.emit(t.fraction(t.completed))
}

// Finish reports completion.
func (t *Tracker) Finish() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.emit(1)
}

// Value returns the last emitted fraction, or 0 before the first emission.
func (t *Tracker) Value() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.last < 0 {
		return 0
	}
	return t.last
}

func (t *Tracker) fraction(frames int64) float64 {
	if t.total <= 0 {
		return 0
	}
	v := float64(frames) / t.total
	return min(1, max(0, v))
}

// emit must be called with mu held. Values below the last emitted one are
// dropped so the stream never goes backwards.
func (t *Tracker) emit(v float64) {
	if v < t.last {
		return
	}
	t.last = v
	fmt.Fprintf(t.out, "%.2f\n", v)
	for _, fn := range t.listeners {
		fn(v)
	}
	if t.logger != nil && t.sampler.Observe(v) {
		t.logger.Info("render progress",
			logging.String(logging.FieldEventType, "render_progress"),
			logging.Float64("fraction", v),
			logging.Int64("frames_completed", t.completed),
		)
	}
}
