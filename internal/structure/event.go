package structure

import (
	"fmt"

	"slidecast/internal/services"
)

// EventType tags an Event.
type EventType string

const (
	EventStart        EventType = "start"
	EventEnd          EventType = "end"
	EventNextSlide    EventType = "next_slide"
	EventNextSentence EventType = "next_sentence"
	EventPlay         EventType = "play"
	EventPause        EventType = "pause"
)

func (t EventType) valid() bool {
	switch t {
	case EventStart, EventEnd, EventNextSlide, EventNextSentence, EventPlay, EventPause:
		return true
	}
	return false
}

// UnmarshalText rejects event types the renderer does not understand.
func (t *EventType) UnmarshalText(text []byte) error {
	candidate := EventType(text)
	if !candidate.valid() {
		return services.Wrap(services.ErrUnsupportedConfiguration, "structure", "decode event",
			fmt.Sprintf("unknown event type %q", string(text)), nil)
	}
	*t = candidate
	return nil
}

// Event is a timestamped marker in a segment's recording. Time is in
// milliseconds since the recording started; ExtraTime is the position
// inside the slide's extra clip for play and pause events.
type Event struct {
	Type      EventType `json:"ty"`
	Time      int64     `json:"time"`
	ExtraTime *int64    `json:"extra_time,omitempty"`
}

// IsStep reports whether the event delimits slides.
func (e Event) IsStep() bool {
	return e.Type == EventStart || e.Type == EventNextSlide || e.Type == EventEnd
}

// IsExtraControl reports whether the event drives the extra clip.
func (e Event) IsExtraControl() bool {
	return e.Type == EventPlay || e.Type == EventPause
}
