package ffprobe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Result is the decoded `-show_format -show_streams` document of one asset.
type Result struct {
	Streams []Stream `json:"streams"`
	Format  Format   `json:"format"`
	raw     []byte
}

type Stream struct {
	Index        int    `json:"index"`
	CodecName    string `json:"codec_name"`
	CodecType    string `json:"codec_type"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	AvgFrameRate string `json:"avg_frame_rate"`
	SampleRate   string `json:"sample_rate"`
	Channels     int    `json:"channels"`
}

type Format struct {
	FormatName string `json:"format_name"`
	Duration   string `json:"duration"`
	Size       string `json:"size"`
	BitRate    string `json:"bit_rate"`
}

// Inspect probes path and keeps the raw payload for --raw output.
func (p *Prober) Inspect(ctx context.Context, path string) (Result, error) {
	if strings.TrimSpace(path) == "" {
		return Result{}, errors.New("ffprobe inspect: empty path")
	}
	out, err := p.run(ctx, "-v", "error", "-hide_banner", "-show_format", "-show_streams", "-of", "json", "--", path)
	if err != nil {
		return Result{}, fmt.Errorf("ffprobe inspect %s: %w", path, err)
	}
	result := Result{raw: out}
	if err := json.Unmarshal(out, &result); err != nil {
		return Result{}, fmt.Errorf("ffprobe inspect %s: decode: %w", path, err)
	}
	return result, nil
}

func (r Result) RawJSON() []byte { return append([]byte(nil), r.raw...) }

// Video returns the first video stream. Still images report one too.
func (r Result) Video() (Stream, bool) {
	for _, s := range r.Streams {
		if s.CodecType == "video" {
			return s, true
		}
	}
	return Stream{}, false
}

// HasAudio reports whether any audio stream is present. Recordings and
// extras without one get a silent track during composition.
func (r Result) HasAudio() bool {
	for _, s := range r.Streams {
		if s.CodecType == "audio" {
			return true
		}
	}
	return false
}

// Seconds is the container duration; ok is false when ffprobe reported none.
func (r Result) Seconds() (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(r.Format.Duration), 64)
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}

// Bytes and BitsPerSecond return 0 for missing or malformed fields.
func (r Result) Bytes() uint64         { return parseCount(r.Format.Size) }
func (r Result) BitsPerSecond() uint64 { return parseCount(r.Format.BitRate) }

func parseCount(s string) uint64 {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0
	}
	return v
}
