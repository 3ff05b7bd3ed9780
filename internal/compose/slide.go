package compose

import (
	"context"
	"fmt"

	"slidecast/internal/filtergraph"
	"slidecast/internal/structure"
	"slidecast/internal/timeline"
)

// Slide declares slide i as a looped still held for its duration and
// overlays its extra clip when present.
func (c Composer) Slide(ctx context.Context, g graph, seg structure.Segment, i int) (graph, handle, error) {
	slide := seg.Slides[i]
	duration, err := c.Timeline.SlideDuration(ctx, seg, i)
	if err != nil {
		return g, handle{}, err
	}
	g, idx := g.AddInput(filtergraph.Input{
		Path:     c.Assets.Slide(slide.UUID),
		Loop:     true,
		Duration: duration,
	})
	g, out := g.Apply([]handle{filtergraph.InputPad(idx, filtergraph.Video)},
		filtergraph.New("setsar", filtergraph.Str("sar", "1")))
	if !slide.HasExtra() {
		return g, out, nil
	}

	g, extra, err := c.Extra(ctx, g, seg, i)
	if err != nil {
		return g, handle{}, err
	}
	if extra.IsZero() {
		return g, out, nil
	}
	g, out = g.Apply([]handle{out, extra}, filtergraph.New("overlay", filtergraph.Int("", 0), filtergraph.Int("", 0)))
	return g, out, nil
}

// Extra composes the extra clip of slide i. Without a recording, or
// without play/pause events, the clip plays once untrimmed. Otherwise it is
// cut into the recorded play intervals, with pauses held on a still frame.
// When every recorded interval is empty the returned handle is zero and
// nothing is overlaid.
func (c Composer) Extra(ctx context.Context, g graph, seg structure.Segment, i int) (graph, handle, error) {
	slide := seg.Slides[i]
	if !slide.HasExtra() {
		return g, handle{}, fmt.Errorf("slide %d has no extra", i)
	}
	path := c.Assets.Extra(*slide.Extra)

	var intervals []timeline.Interval
	if seg.Record != nil && len(timeline.ExtraEvents(seg, i)) > 0 {
		var err error
		intervals, err = timeline.ExtraIntervals(seg, i)
		if err != nil {
			return g, handle{}, err
		}
		if len(intervals) == 0 {
			return g, handle{}, nil
		}
	}
	if len(intervals) == 0 {
		delay, err := c.Timeline.SlideDelay(ctx, seg, i)
		if err != nil {
			return g, handle{}, err
		}
		g, idx := g.AddInput(filtergraph.Input{Path: path})
		g, audio := delayAudio(g, filtergraph.InputPad(idx, filtergraph.Audio), delay)
		return g.QueueAudio(audio), filtergraph.InputPad(idx, filtergraph.Video), nil
	}

	played := 0
	for _, iv := range intervals {
		if iv.Kind == structure.EventPlay {
			played++
		}
	}
	var videos, audios []handle
	if played > 0 {
		var idx int
		g, idx = g.AddInput(filtergraph.Input{Path: path})
		video := filtergraph.InputPad(idx, filtergraph.Video)
		audio := filtergraph.InputPad(idx, filtergraph.Audio)
		if played > 1 {
			g, videos = g.AddFilter([]handle{video}, filtergraph.Chain{filtergraph.New("split", filtergraph.Int("", played))}, played)
			g, audios = g.AddFilter([]handle{audio}, filtergraph.Chain{filtergraph.New("asplit", filtergraph.Int("", played))}, played)
		} else {
			videos, audios = []handle{video}, []handle{audio}
		}
	}

	pieces := make([]handle, 0, len(intervals))
	next := 0
	for _, iv := range intervals {
		switch iv.Kind {
		case structure.EventPlay:
			var piece, audio handle
			g, piece = g.Apply([]handle{videos[next]},
				filtergraph.New("trim", filtergraph.Float("start", iv.ClipOffset), filtergraph.Float("duration", iv.Duration)),
				filtergraph.New("setpts", filtergraph.Str("", "PTS-STARTPTS")))
			g, audio = g.Apply([]handle{audios[next]},
				filtergraph.New("atrim", filtergraph.Float("start", iv.ClipOffset), filtergraph.Float("duration", iv.Duration)))
			g, audio = delayAudio(g, audio, iv.SegmentOffset)
			g = g.QueueAudio(audio)
			pieces = append(pieces, piece)
			next++
		case structure.EventPause:
			if c.Frames == nil {
				return g, handle{}, fmt.Errorf("slide %d: no frame extractor configured", i)
			}
			frame, err := c.Frames.ExtractFrame(ctx, path, iv.ClipOffset)
			if err != nil {
				return g, handle{}, err
			}
			g = g.AddScratch(frame)
			var idx int
			g, idx = g.AddInput(filtergraph.Input{Path: frame, Loop: true, Duration: iv.Duration})
			pieces = append(pieces, filtergraph.InputPad(idx, filtergraph.Video))
		default:
			return g, handle{}, unsupportedEvent(iv.Kind)
		}
	}

	if len(pieces) == 1 {
		return g, pieces[0], nil
	}
	g, out := g.Apply(pieces, filtergraph.New("concat", filtergraph.Int("n", len(pieces))))
	return g, out, nil
}

// delayAudio shifts an audio stream by seconds; a zero delay is a no-op.
func delayAudio(g graph, h handle, seconds float64) (graph, handle) {
	if seconds == 0 {
		return g, h
	}
	return g.Apply([]handle{h}, filtergraph.New("adelay",
		filtergraph.Int("delays", int(1000*seconds)), filtergraph.Int("all", 1)))
}
