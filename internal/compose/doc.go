// Package compose turns a structure segment or capsule into a render job.
//
// Each composition step takes a filtergraph.Graph value and returns the
// extended graph together with the stream it produced. Steps never mutate
// their input graph, so the slide, extra, record and pointer builders can
// be exercised one at a time in tests.
//
// Segment builds the job for one group of slides: a silence base track,
// the slides (with their extra clips), the pointer and record overlays and
// the audio mix. Capsule concatenates produced segments and mixes in the
// soundtrack.
package compose
