package structure

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"slidecast/internal/services"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(field reflect.StructField) string {
			name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			if name == "" {
				return strings.ToLower(field.Name)
			}
			return name
		})
	})
	return validate
}

// Validate checks field constraints and the event-stream invariants of
// every segment. Violations are reported as ErrUnsupportedConfiguration.
func (c Capsule) Validate() error {
	if len(c.Structure) == 0 {
		return unsupported("capsule", "structure has no segments")
	}
	if err := validatorInstance().Struct(c); err != nil {
		return unsupported("capsule", describeValidation(err))
	}
	for i, seg := range c.Structure {
		if err := seg.Validate(); err != nil {
			return fmt.Errorf("segment %d: %w", i, err)
		}
	}
	return nil
}

// Validate checks a single segment, including its webcam variant.
func (s Segment) Validate() error {
	if err := validatorInstance().Struct(s); err != nil {
		return unsupported("segment", describeValidation(err))
	}
	switch w := s.Webcam().(type) {
	case Disabled:
	case Pip, Fullscreen:
		if err := validatorInstance().Struct(w); err != nil {
			return unsupported("webcam", describeValidation(err))
		}
	default:
		return unsupported("webcam", fmt.Sprintf("unknown webcam variant %T", w))
	}
	if s.Record == nil {
		return nil
	}
	return validateEvents(s.Events, len(s.Slides))
}

func validateEvents(events []Event, slides int) error {
	if len(events) == 0 {
		return unsupported("events", "recorded segment has no events")
	}
	first, last := events[0], events[len(events)-1]
	if first.Type != EventStart {
		return unsupported("events", fmt.Sprintf("first event is %q, want %q", first.Type, EventStart))
	}
	if last.Type != EventEnd {
		return unsupported("events", fmt.Sprintf("last event is %q, want %q", last.Type, EventEnd))
	}
	if last.Time <= first.Time {
		return unsupported("events", "end event does not follow start event")
	}
	nextSlides := 0
	previous := first.Time
	for i, event := range events[1 : len(events)-1] {
		index := i + 1
		switch event.Type {
		case EventStart, EventEnd:
			return unsupported("events", fmt.Sprintf("event %d: unexpected %q inside the recording", index, event.Type))
		case EventNextSlide:
			nextSlides++
		case EventPlay, EventPause:
			if event.ExtraTime == nil {
				return unsupported("events", fmt.Sprintf("event %d: %q is missing extra_time", index, event.Type))
			}
			if *event.ExtraTime < 0 {
				return unsupported("events", fmt.Sprintf("event %d: negative extra_time", index))
			}
		case EventNextSentence:
		default:
			return unsupported("events", fmt.Sprintf("event %d: unknown type %q", index, event.Type))
		}
		if event.Time <= first.Time || event.Time >= last.Time {
			return unsupported("events", fmt.Sprintf("event %d at %dms is outside the recording", index, event.Time))
		}
		if event.Time < previous {
			return unsupported("events", fmt.Sprintf("event %d at %dms goes back in time", index, event.Time))
		}
		previous = event.Time
	}
	if nextSlides != slides-1 {
		return unsupported("events", fmt.Sprintf("%d next_slide events for %d slides", nextSlides, slides))
	}
	return nil
}

func describeValidation(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		rule := fe.Tag()
		if fe.Param() != "" {
			rule += "=" + fe.Param()
		}
		parts = append(parts, fmt.Sprintf("%s failed %s", fe.Namespace(), rule))
	}
	return strings.Join(parts, "; ")
}

func unsupported(operation, message string) error {
	return services.Wrap(services.ErrUnsupportedConfiguration, "structure", operation, message, nil)
}
