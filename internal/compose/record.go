package compose

import (
	"fmt"

	"slidecast/internal/filtergraph"
	"slidecast/internal/services"
	"slidecast/internal/structure"
	"slidecast/internal/timeline"
)

// Record declares the segment recording and always queues its audio. The
// returned bool is false when the recording contributes no video.
func (c Composer) Record(g graph, seg structure.Segment) (graph, handle, bool, error) {
	if seg.Record == nil {
		return g, handle{}, false, fmt.Errorf("segment has no record")
	}
	g, idx := g.AddInput(filtergraph.Input{Path: c.Assets.Record(seg.Record.UUID)})
	g = g.QueueAudio(filtergraph.InputPad(idx, filtergraph.Audio))
	if !seg.HasRecordVideo() {
		return g, handle{}, false, nil
	}

	width, _, err := c.OverlaySize(seg)
	if err != nil {
		return g, handle{}, false, err
	}
	var opacity float64
	switch w := seg.Webcam().(type) {
	case structure.Pip:
		opacity = w.Opacity
	case structure.Fullscreen:
		opacity = w.Opacity
	}

	g, out := g.Apply([]handle{filtergraph.InputPad(idx, filtergraph.Video)},
		filtergraph.New("scale", filtergraph.Int("", width), filtergraph.Int("", -1)))
	if opacity = timeline.Round3(opacity); opacity < 1 {
		g, out = g.Apply([]handle{out},
			filtergraph.New("format", filtergraph.Str("", "rgba")),
			filtergraph.New("colorchannelmixer", filtergraph.Float("aa", opacity)))
	}
	return g, out, true, nil
}

// OverlaySize returns the scaled record size on the canvas. Pip uses the
// configured width; fullscreen fits the record's aspect ratio inside the
// canvas.
func (c Composer) OverlaySize(seg structure.Segment) (int, int, error) {
	if seg.Record == nil || seg.Record.Size == nil {
		return 0, 0, fmt.Errorf("record has no video size")
	}
	size := *seg.Record.Size
	ratio := size.Ratio()
	switch w := seg.Webcam().(type) {
	case structure.Pip:
		return w.Size.Width, int(float64(size.Height) * float64(w.Size.Width) / float64(size.Width)), nil
	case structure.Fullscreen:
		canvas := float64(c.Settings.Width) / float64(c.Settings.Height)
		if ratio > canvas {
			return c.Settings.Width, int(float64(c.Settings.Width) / ratio), nil
		}
		return int(float64(c.Settings.Height) * ratio), c.Settings.Height, nil
	default:
		return 0, 0, unsupportedWebcam(w)
	}
}

// RecordPosition returns the overlay origin of the record video.
func (c Composer) RecordPosition(seg structure.Segment) (int, int, error) {
	if seg.Record == nil || seg.Record.Size == nil {
		return 0, 0, fmt.Errorf("record has no video size")
	}
	size := *seg.Record.Size
	switch w := seg.Webcam().(type) {
	case structure.Pip:
		scale := float64(w.Size.Width) / float64(size.Width)
		x, y := float64(w.Position.X), float64(w.Position.Y)
		if w.Anchor.MirrorsX() {
			x = float64(c.Settings.Width) - float64(size.Width)*scale - x
		}
		if w.Anchor.MirrorsY() {
			y = float64(c.Settings.Height) - float64(size.Height)*scale - y
		}
		return int(x), int(y), nil
	case structure.Fullscreen:
		width, height, err := c.OverlaySize(seg)
		if err != nil {
			return 0, 0, err
		}
		return floorDiv(c.Settings.Width-width, 2), floorDiv(c.Settings.Height-height, 2), nil
	default:
		return 0, 0, unsupportedWebcam(w)
	}
}

// Pointer declares the pointer clip and keys out its background color.
func (c Composer) Pointer(g graph, seg structure.Segment) (graph, handle) {
	g, idx := g.AddInput(filtergraph.Input{Path: c.Assets.Pointer(*seg.Record.PointerUUID)})
	return g.Apply([]handle{filtergraph.InputPad(idx, filtergraph.Video)}, filtergraph.New("colorkey",
		filtergraph.Str("", "0x"+c.Settings.PointerColor),
		filtergraph.Float("", c.Settings.PointerSimilarity),
		filtergraph.Float("", c.Settings.PointerBlend)))
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func unsupportedWebcam(w structure.Webcam) error {
	return services.Wrap(services.ErrUnsupportedConfiguration, "compose", "record",
		fmt.Sprintf("unknown webcam variant %T", w), nil)
}

func unsupportedEvent(kind structure.EventType) error {
	return services.Wrap(services.ErrUnsupportedConfiguration, "compose", "extra",
		fmt.Sprintf("unknown event type %q", kind), nil)
}
