package compose

import (
	"fmt"

	"slidecast/internal/filtergraph"
	"slidecast/internal/timeline"
)

// Soundtrack loops the track under the whole capsule: it fades the track
// in and out, repeats it RepeatCount times, fades out before the capsule
// ends and trims to the capsule duration. Only a volume strictly between
// 0 and 1 attenuates the track; any other value plays it at full level.
func (c Composer) Soundtrack(g graph, path string, volume, trackDuration, capsuleDuration float64) (graph, handle, error) {
	if trackDuration <= 0 {
		return g, handle{}, fmt.Errorf("soundtrack %s has no duration", path)
	}
	fade := c.Settings.SoundtrackFade
	total := timeline.Round3(capsuleDuration)

	g, idx := g.AddInput(filtergraph.Input{Path: path})
	g, out := g.Apply([]handle{filtergraph.InputPad(idx, filtergraph.Audio)},
		afade("in", 0, fade),
		afade("out", timeline.Round3(trackDuration-fade), fade))

	if v := timeline.Round3(volume); v > 0 && v < 1 {
		g, out = g.Apply([]handle{out}, filtergraph.New("volume", filtergraph.Float("", v)))
	}

	repeats := RepeatCount(total, trackDuration)
	g, copies := g.AddFilter([]handle{out}, filtergraph.Chain{filtergraph.New("asplit", filtergraph.Int("", repeats))}, repeats)
	g, out = g.Apply(copies, filtergraph.New("concat",
		filtergraph.Int("n", repeats), filtergraph.Int("v", 0), filtergraph.Int("a", 1)))
	g, out = g.Apply([]handle{out}, afade("out", timeline.Round3(total-fade), fade))
	g, out = g.Apply([]handle{out}, filtergraph.New("atrim", filtergraph.Float("", 0), filtergraph.Float("", total)))
	return g, out, nil
}

// RepeatCount returns how many back-to-back copies of a track cover a
// capsule.
func RepeatCount(capsuleDuration, trackDuration float64) int {
	return int(capsuleDuration/trackDuration) + 1
}

func afade(kind string, start, duration float64) filtergraph.Filter {
	return filtergraph.New("afade",
		filtergraph.Str("t", kind), filtergraph.Float("st", start), filtergraph.Float("d", duration))
}
