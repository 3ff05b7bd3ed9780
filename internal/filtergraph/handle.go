package filtergraph

import (
	"fmt"
	"strconv"
)

// Stream selects the media type of an input pad.
type Stream string

const (
	Video Stream = "v"
	Audio Stream = "a"
)

// Handle names a stream inside a filter program.
type Handle struct {
	input  int
	stream Stream
	label  int
	pad    bool
}

// InputPad returns the handle for a stream of a declared input.
func InputPad(index int, stream Stream) Handle {
	return Handle{input: index, stream: stream, pad: true}
}

// IsZero reports whether h was never assigned.
func (h Handle) IsZero() bool {
	return h == Handle{}
}

// String renders the label without brackets.
func (h Handle) String() string {
	if h.pad {
		return fmt.Sprintf("%d:%s", h.input, h.stream)
	}
	return "s" + strconv.Itoa(h.label)
}

// Ref renders the bracketed form used inside filter statements.
func (h Handle) Ref() string {
	return "[" + h.String() + "]"
}

// MapArg renders the handle for -map: input pads are passed bare and
// filter outputs keep their brackets.
func (h Handle) MapArg() string {
	if h.pad {
		return h.String()
	}
	return h.Ref()
}
