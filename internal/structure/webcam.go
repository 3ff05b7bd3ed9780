package structure

import (
	"encoding/json"
	"fmt"

	"slidecast/internal/services"
)

// WebcamKind names a webcam variant on the wire.
type WebcamKind string

const (
	KindDisabled   WebcamKind = "disabled"
	KindPip        WebcamKind = "pip"
	KindFullscreen WebcamKind = "fullscreen"
)

// Webcam is implemented by Disabled, Pip and Fullscreen only.
type Webcam interface {
	Kind() WebcamKind
	isWebcam()
}

// Disabled hides the recording video; its audio is still mixed.
type Disabled struct{}

func (Disabled) Kind() WebcamKind { return KindDisabled }
func (Disabled) isWebcam()        {}

// Anchor selects the canvas corner a pip position is measured from.
type Anchor string

const (
	AnchorTopLeft     Anchor = "top_left"
	AnchorTopRight    Anchor = "top_right"
	AnchorBottomLeft  Anchor = "bottom_left"
	AnchorBottomRight Anchor = "bottom_right"
)

func (a *Anchor) UnmarshalText(text []byte) error {
	switch candidate := Anchor(text); candidate {
	case AnchorTopLeft, AnchorTopRight, AnchorBottomLeft, AnchorBottomRight:
		*a = candidate
		return nil
	}
	return services.Wrap(services.ErrUnsupportedConfiguration, "structure", "decode webcam",
		fmt.Sprintf("unknown anchor %q", string(text)), nil)
}

// MirrorsX reports whether x is measured from the right edge.
func (a Anchor) MirrorsX() bool {
	return a == AnchorTopRight || a == AnchorBottomRight
}

// MirrorsY reports whether y is measured from the bottom edge.
func (a Anchor) MirrorsY() bool {
	return a == AnchorBottomLeft || a == AnchorBottomRight
}

// Pip overlays the recording as a scaled picture-in-picture.
type Pip struct {
	Anchor   Anchor    `json:"anchor"`
	Opacity  float64   `json:"opacity" validate:"gte=0,lte=1"`
	Position Position  `json:"position"`
	Size     FrameSize `json:"size"`
	KeyColor *string   `json:"keycolor"`
}

func (Pip) Kind() WebcamKind { return KindPip }
func (Pip) isWebcam()        {}

// Fullscreen letterboxes the recording over the whole canvas.
type Fullscreen struct {
	Opacity  float64 `json:"opacity" validate:"gte=0,lte=1"`
	KeyColor *string `json:"keycolor"`
}

func (Fullscreen) Kind() WebcamKind { return KindFullscreen }
func (Fullscreen) isWebcam()        {}

// DefaultWebcam returns the settings applied when a segment carries none.
func DefaultWebcam() Webcam {
	return defaultPip()
}

func defaultPip() Pip {
	return Pip{
		Anchor:   AnchorBottomLeft,
		Opacity:  1,
		Position: Position{X: 4, Y: 4},
		Size:     FrameSize{Width: 533, Height: 400},
	}
}

// WebcamSettings is the JSON envelope for a Webcam, keyed by "type".
type WebcamSettings struct {
	Webcam Webcam
}

func (w WebcamSettings) MarshalJSON() ([]byte, error) {
	switch v := w.Webcam.(type) {
	case nil:
		return []byte("null"), nil
	case Disabled:
		return json.Marshal(struct {
			Type WebcamKind `json:"type"`
		}{KindDisabled})
	case Pip:
		return json.Marshal(struct {
			Type WebcamKind `json:"type"`
			Pip
		}{KindPip, v})
	case Fullscreen:
		return json.Marshal(struct {
			Type WebcamKind `json:"type"`
			Fullscreen
		}{KindFullscreen, v})
	default:
		return nil, fmt.Errorf("unsupported webcam variant %T", v)
	}
}

func (w *WebcamSettings) UnmarshalJSON(data []byte) error {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return err
	}
	switch WebcamKind(head.Type) {
	case KindDisabled:
		w.Webcam = Disabled{}
	case KindPip:
		pip := defaultPip()
		if err := json.Unmarshal(data, &pip); err != nil {
			return err
		}
		w.Webcam = pip
	case KindFullscreen:
		full := Fullscreen{Opacity: 1}
		if err := json.Unmarshal(data, &full); err != nil {
			return err
		}
		w.Webcam = full
	default:
		return services.Wrap(services.ErrUnsupportedConfiguration, "structure", "decode webcam",
			fmt.Sprintf("unknown webcam type %q", head.Type), nil)
	}
	return nil
}
