package timeline

import (
	"context"
	"fmt"
	"math"

	"slidecast/internal/services"
	"slidecast/internal/structure"
)

// DurationProber reports the playback length of an asset in seconds.
type DurationProber interface {
	Duration(ctx context.Context, path string) (float64, error)
}

// AssetLocator maps an extra clip to its path on disk.
type AssetLocator func(slide structure.Slide) string

// Resolver computes segment, slide and interval timing.
type Resolver struct {
	DefaultSlideDuration float64
	Prober               DurationProber
	ExtraPath            AssetLocator
}

// Interval is one play or pause span of an extra clip. ClipOffset is the
// position inside the clip, SegmentOffset the position inside the segment.
type Interval struct {
	Kind          structure.EventType
	ClipOffset    float64
	Duration      float64
	SegmentOffset float64
}

// SegmentDuration returns the rendered length of a segment.
func (r Resolver) SegmentDuration(ctx context.Context, seg structure.Segment) (float64, error) {
	if seg.Record == nil {
		total := 0.0
		for i := range seg.Slides {
			d, err := r.SlideDuration(ctx, seg, i)
			if err != nil {
				return 0, err
			}
			total += d
		}
		return total, nil
	}
	if len(seg.Events) == 0 {
		return 0, services.Wrap(services.ErrUnsupportedConfiguration, "timeline", "segment duration", "recorded segment has no events", nil)
	}
	start, end := seg.Events[0], seg.Events[len(seg.Events)-1]
	return float64(end.Time-start.Time) / 1000, nil
}

// SlideDuration returns how long slide i stays on screen.
func (r Resolver) SlideDuration(ctx context.Context, seg structure.Segment, i int) (float64, error) {
	if i < 0 || i >= len(seg.Slides) {
		return 0, fmt.Errorf("slide index %d out of range [0,%d)", i, len(seg.Slides))
	}
	slide := seg.Slides[i]
	if seg.Record == nil {
		if !slide.HasExtra() {
			return r.DefaultSlideDuration, nil
		}
		if r.Prober == nil || r.ExtraPath == nil {
			return 0, fmt.Errorf("slide %d: no duration prober configured for extra clip", i)
		}
		return r.Prober.Duration(ctx, r.ExtraPath(slide))
	}
	steps := StepEvents(seg.Events)
	if i+1 >= len(steps) {
		return 0, services.Wrap(services.ErrUnsupportedConfiguration, "timeline", "slide duration",
			fmt.Sprintf("slide %d has no closing step event", i), nil)
	}
	return float64(steps[i+1].Time-steps[i].Time) / 1000, nil
}

// SlideDelay returns the time from segment start to the first frame of
// slide i. Passing len(Slides) yields the segment's end.
func (r Resolver) SlideDelay(ctx context.Context, seg structure.Segment, i int) (float64, error) {
	delay := 0.0
	for j := 0; j < i; j++ {
		d, err := r.SlideDuration(ctx, seg, j)
		if err != nil {
			return 0, err
		}
		delay += d
	}
	return delay, nil
}

// CapsuleDuration sums the duration of every segment.
func (r Resolver) CapsuleDuration(ctx context.Context, capsule structure.Capsule) (float64, error) {
	total := 0.0
	for i, seg := range capsule.Structure {
		d, err := r.SegmentDuration(ctx, seg)
		if err != nil {
			return 0, fmt.Errorf("segment %d: %w", i, err)
		}
		total += d
	}
	return total, nil
}

// ExtraIntervals pairs the play/pause events of slide i into intervals. A
// synthetic pause at the slide's end closes the last interval. Intervals
// that round to zero length are dropped.
func ExtraIntervals(seg structure.Segment, i int) ([]Interval, error) {
	events := ExtraEvents(seg, i)
	if len(events) == 0 {
		return nil, nil
	}
	steps := StepEvents(seg.Events)
	if i+1 >= len(steps) {
		return nil, services.Wrap(services.ErrUnsupportedConfiguration, "timeline", "extra intervals",
			fmt.Sprintf("slide %d has no closing step event", i), nil)
	}
	origin := seg.Events[0].Time
	events = append(events, structure.Event{
		Type: structure.EventPause,
		Time: steps[i+1].Time,
	})
	intervals := make([]Interval, 0, len(events)-1)
	for j := 0; j < len(events)-1; j++ {
		current, next := events[j], events[j+1]
		var clip int64
		if current.ExtraTime != nil {
			clip = *current.ExtraTime
		}
		duration := Round3(float64(next.Time-current.Time) / 1000)
		if duration <= 0 {
			// trim and -t read a zero duration as unbounded.
			continue
		}
		intervals = append(intervals, Interval{
			Kind:          current.Type,
			ClipOffset:    Round3(float64(clip) / 1000),
			Duration:      duration,
			SegmentOffset: float64(current.Time-origin) / 1000,
		})
	}
	return intervals, nil
}

// StepEvents returns the events that delimit slides.
func StepEvents(events []structure.Event) []structure.Event {
	steps := make([]structure.Event, 0, len(events))
	for _, e := range events {
		if e.IsStep() {
			steps = append(steps, e)
		}
	}
	return steps
}

// ExtraEvents returns the play/pause events recorded while slide i was
// shown. Record-less segments have none.
func ExtraEvents(seg structure.Segment, i int) []structure.Event {
	if seg.Record == nil || len(seg.Events) < 2 {
		return nil
	}
	inner := seg.Events[1 : len(seg.Events)-1]
	partition := 0
	var out []structure.Event
	for _, e := range inner {
		if e.Type == structure.EventNextSlide {
			partition++
			continue
		}
		if partition == i && e.IsExtraControl() {
			out = append(out, e)
		}
	}
	return out
}

// Round3 rounds to millisecond precision.
func Round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
