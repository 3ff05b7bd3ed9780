package main

import (
	"slidecast/internal/ffmpeg"
	"slidecast/internal/timeline"
)

// Tests replace these to render and probe without external tools. Nil
// selects the real ffmpeg and ffprobe binaries.
var (
	renderExecutor ffmpeg.Executor
	durationProber timeline.DurationProber
)
