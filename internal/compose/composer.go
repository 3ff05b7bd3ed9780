package compose

import (
	"context"
	"fmt"

	"slidecast/internal/filtergraph"
	"slidecast/internal/services"
	"slidecast/internal/structure"
	"slidecast/internal/timeline"
)

// Composer builds render jobs for one capsule.
type Composer struct {
	Settings Settings
	Assets   AssetPaths
	Timeline timeline.Resolver
	Frames   FrameExtractor
}

type (
	graph  = filtergraph.Graph
	handle = filtergraph.Handle
)

// Segment builds the render job of segment seg writing to output.
func (c Composer) Segment(ctx context.Context, seg structure.Segment, output string) (filtergraph.Job, error) {
	duration, err := c.Timeline.SegmentDuration(ctx, seg)
	if err != nil {
		return filtergraph.Job{}, err
	}

	g, silence := graph{}.AddInput(filtergraph.Input{
		Format:   "lavfi",
		Duration: duration,
		Path:     fmt.Sprintf("anullsrc=channel_layout=stereo:sample_rate=%d", c.Settings.AudioRate),
	})
	g = g.QueueAudio(filtergraph.InputPad(silence, filtergraph.Audio))

	slides := make([]handle, 0, len(seg.Slides))
	for i := range seg.Slides {
		var out handle
		g, out, err = c.Slide(ctx, g, seg, i)
		if err != nil {
			return filtergraph.Job{}, fmt.Errorf("slide %d: %w", i, err)
		}
		slides = append(slides, out)
	}

	video := slides[0]
	if len(slides) > 1 {
		g, video = g.Apply(slides, filtergraph.New("concat",
			filtergraph.Int("n", len(slides)), filtergraph.Int("v", 1), filtergraph.Int("a", 0)))
	}

	if seg.Record != nil {
		if seg.Record.HasPointer() {
			var pointer handle
			g, pointer = c.Pointer(g, seg)
			g, video = g.Apply([]handle{video, pointer}, filtergraph.New("overlay"))
		}

		var record handle
		var visible bool
		g, record, visible, err = c.Record(g, seg)
		if err != nil {
			return filtergraph.Job{}, err
		}
		if visible {
			x, y, err := c.RecordPosition(seg)
			if err != nil {
				return filtergraph.Job{}, err
			}
			g, video = g.Apply([]handle{video, record}, filtergraph.New("overlay",
				filtergraph.Int("", x), filtergraph.Int("", y)))
		}
	}

	g, audio, err := AudioMix(g)
	if err != nil {
		return filtergraph.Job{}, err
	}
	return filtergraph.Job{
		Graph:    g,
		Video:    video,
		Audio:    audio,
		Output:   output,
		Encoding: c.Settings.Encoding,
	}, nil
}

// Capsule builds the job that joins produced segment files and mixes in
// the soundtrack.
func (c Composer) Capsule(ctx context.Context, capsule structure.Capsule, segments []string, output string) (filtergraph.Job, error) {
	if len(segments) == 0 {
		return filtergraph.Job{}, services.Wrap(services.ErrUnsupportedConfiguration, "compose", "capsule", "no segments to join", nil)
	}
	var g graph
	pads := make([]handle, 0, 2*len(segments))
	for _, path := range segments {
		var idx int
		g, idx = g.AddInput(filtergraph.Input{Path: path})
		pads = append(pads, filtergraph.InputPad(idx, filtergraph.Video), filtergraph.InputPad(idx, filtergraph.Audio))
	}

	var video handle
	if len(segments) > 1 {
		var outs []handle
		g, outs = g.AddFilter(pads, filtergraph.Chain{filtergraph.New("concat",
			filtergraph.Int("n", len(segments)), filtergraph.Int("v", 1), filtergraph.Int("a", 1))}, 2)
		video = outs[0]
		g = g.QueueAudio(outs[1])
	} else {
		video = pads[0]
		g = g.QueueAudio(pads[1])
	}

	if track := capsule.SoundTrack; track != nil {
		capsuleDuration, err := c.Timeline.CapsuleDuration(ctx, capsule)
		if err != nil {
			return filtergraph.Job{}, err
		}
		path := c.Assets.SoundTrack(track.UUID)
		if c.Timeline.Prober == nil {
			return filtergraph.Job{}, fmt.Errorf("soundtrack: no duration prober configured")
		}
		trackDuration, err := c.Timeline.Prober.Duration(ctx, path)
		if err != nil {
			return filtergraph.Job{}, err
		}
		var music handle
		g, music, err = c.Soundtrack(g, path, track.Volume, trackDuration, capsuleDuration)
		if err != nil {
			return filtergraph.Job{}, err
		}
		g = g.QueueAudio(music)
	}

	g, audio, err := AudioMix(g)
	if err != nil {
		return filtergraph.Job{}, err
	}
	return filtergraph.Job{
		Graph:    g,
		Video:    video,
		Audio:    audio,
		Output:   output,
		Encoding: c.Settings.Encoding,
	}, nil
}

// AudioMix mixes every queued audio stream. A single stream is returned
// unchanged.
func AudioMix(g graph) (graph, handle, error) {
	queued := g.AudioQueue()
	switch len(queued) {
	case 0:
		return g, handle{}, fmt.Errorf("no audio stream queued")
	case 1:
		return g, queued[0], nil
	}
	g, out := g.Apply(queued, filtergraph.New("amix", filtergraph.Int("inputs", len(queued))))
	return g, out, nil
}
