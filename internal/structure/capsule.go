package structure

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"slidecast/internal/textutil"
)

// Capsule is the root structure document.
type Capsule struct {
	Structure    []Segment   `json:"structure" validate:"min=1,dive"`
	SoundTrack   *SoundTrack `json:"soundtrack"`
	ProducedHash *string     `json:"produced_hash"`
}

// UnmarshalJSON accepts the legacy "sound_track" key alongside "soundtrack".
func (c *Capsule) UnmarshalJSON(data []byte) error {
	type plain Capsule
	var wire struct {
		plain
		LegacySoundTrack *SoundTrack `json:"sound_track"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	*c = Capsule(wire.plain)
	if c.SoundTrack == nil && wire.LegacySoundTrack != nil {
		c.SoundTrack = wire.LegacySoundTrack
	}
	return nil
}

// Segment is a group of slides rendered as one produced file.
type Segment struct {
	Record         *Record         `json:"record"`
	Slides         []Slide         `json:"slides" validate:"min=1,dive"`
	Events         []Event         `json:"events"`
	WebcamSettings *WebcamSettings `json:"webcam_settings" validate:"-"`
	Fade           Fade            `json:"fade"`
	ProducedHash   *string         `json:"produced_hash"`
}

// Webcam returns the segment's webcam variant, falling back to the default
// picture-in-picture settings when none were recorded.
func (s Segment) Webcam() Webcam {
	if s.WebcamSettings == nil || s.WebcamSettings.Webcam == nil {
		return DefaultWebcam()
	}
	return s.WebcamSettings.Webcam
}

// HasRecordVideo reports whether the recording contributes a video overlay.
func (s Segment) HasRecordVideo() bool {
	if s.Record == nil || s.Record.Size == nil {
		return false
	}
	return s.Webcam().Kind() != KindDisabled
}

// Slide is one still image, optionally paired with an extra clip.
type Slide struct {
	UUID   uuid.UUID  `json:"uuid" validate:"required"`
	Extra  *uuid.UUID `json:"extra"`
	Prompt string     `json:"prompt"`
}

// HasExtra reports whether the slide carries a supplementary clip.
func (s Slide) HasExtra() bool {
	return s.Extra != nil
}

// Sentences returns the prompt split into one sentence per line.
func (s Slide) Sentences() []string {
	return textutil.SplitSentences(s.Prompt)
}

// Record references the presenter recording of a segment. A nil Size marks
// an audio-only recording.
type Record struct {
	UUID        uuid.UUID  `json:"uuid" validate:"required"`
	PointerUUID *uuid.UUID `json:"pointer_uuid"`
	Size        *FrameSize `json:"size"`
}

// HasPointer reports whether a pointer overlay clip was captured.
func (r Record) HasPointer() bool {
	return r.PointerUUID != nil
}

// SoundTrack is the background music mixed under the whole capsule.
type SoundTrack struct {
	UUID   uuid.UUID `json:"uuid" validate:"required"`
	Name   string    `json:"name"`
	Volume float64   `json:"volume" validate:"gte=0,lte=1"`
}

// Fade carries optional fade durations. The renderer does not apply them;
// they are kept so the document round-trips and participates in hashing.
type Fade struct {
	VFadeIn  *int `json:"vfadein"`
	VFadeOut *int `json:"vfadeout"`
	AFadeIn  *int `json:"afadein"`
	AFadeOut *int `json:"afadeout"`
}

// FrameSize is a width/height pair encoded as a two-element JSON array.
type FrameSize struct {
	Width  int `validate:"gt=0"`
	Height int `validate:"gt=0"`
}

// Ratio returns width divided by height.
func (f FrameSize) Ratio() float64 {
	if f.Height == 0 {
		return 0
	}
	return float64(f.Width) / float64(f.Height)
}

func (f FrameSize) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]int{f.Width, f.Height})
}

func (f *FrameSize) UnmarshalJSON(data []byte) error {
	var pair [2]int
	if err := decodePair(data, &pair); err != nil {
		return fmt.Errorf("size: %w", err)
	}
	f.Width, f.Height = pair[0], pair[1]
	return nil
}

// Position is an x/y offset encoded as a two-element JSON array.
type Position struct {
	X int
	Y int
}

func (p Position) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]int{p.X, p.Y})
}

func (p *Position) UnmarshalJSON(data []byte) error {
	var pair [2]int
	if err := decodePair(data, &pair); err != nil {
		return fmt.Errorf("position: %w", err)
	}
	p.X, p.Y = pair[0], pair[1]
	return nil
}

func decodePair(data []byte, out *[2]int) error {
	var values []int
	if err := json.Unmarshal(data, &values); err != nil {
		return err
	}
	if len(values) != 2 {
		return fmt.Errorf("expected 2 values, got %d", len(values))
	}
	out[0], out[1] = values[0], values[1]
	return nil
}
