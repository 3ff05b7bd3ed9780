package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

type Paths struct {
	// DataDir holds one directory per capsule: assets/, produced/, tmp/.
	DataDir string `toml:"data_dir"`
}

// Render contains canvas, codec, and composition constants used when
// building ffmpeg jobs.
type Render struct {
	Width                int     `toml:"width"`
	Height               int     `toml:"height"`
	FrameRate            int     `toml:"frame_rate"`
	VideoCodec           string  `toml:"video_codec"`
	PixelFormat          string  `toml:"pixel_format"`
	AudioCodec           string  `toml:"audio_codec"`
	AudioRate            int     `toml:"audio_rate"`
	AudioBitrate         string  `toml:"audio_bitrate"`
	DefaultSlideDuration float64 `toml:"default_slide_duration"`
	SoundtrackFade       float64 `toml:"soundtrack_fade"`
	PointerColor         string  `toml:"pointer_color"`
	PointerSimilarity    float64 `toml:"pointer_similarity"`
	PointerBlend         float64 `toml:"pointer_blend"`
	TimeoutSeconds       int     `toml:"timeout_seconds"`
}

// Binaries names the external tools. Empty fields fall back to PATH lookup.
type Binaries struct {
	FFmpeg  string `toml:"ffmpeg"`
	FFprobe string `toml:"ffprobe"`
}

type Cache struct {
	Lock            bool `toml:"lock"`
	PruneSuperseded bool `toml:"prune_superseded"`
}

// Logging always targets stderr; stdout carries progress.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for slidecast.
//
// Configuration sections by subsystem:
//   - Paths: the capsule data root
//   - Render: canvas size, frame rate, codecs, and composition constants
//   - Binaries: ffmpeg and ffprobe executables
//   - Cache: production lock and superseded output pruning
//   - Logging: log format and level
type Config struct {
	Paths    Paths    `toml:"paths"`
	Render   Render   `toml:"render"`
	Binaries Binaries `toml:"binaries"`
	Cache    Cache    `toml:"cache"`
	Logging  Logging  `toml:"logging"`
}

// EnsureDirectories creates the data root when one is configured.
func (c *Config) EnsureDirectories() error {
	dir := strings.TrimSpace(c.Paths.DataDir)
	if dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create data dir %q: %w", dir, err)
	}
	return nil
}

func (c *Config) FFmpegBinary() string  { return orDefault(c.Binaries.FFmpeg, defaultFFmpegBinary) }
func (c *Config) FFprobeBinary() string { return orDefault(c.Binaries.FFprobe, defaultFFprobeBinary) }

// RenderTimeout bounds a single ffmpeg invocation; zero means unbounded.
func (c *Config) RenderTimeout() time.Duration {
	if c.Render.TimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(c.Render.TimeoutSeconds) * time.Second
}

func orDefault(value, fallback string) string {
	if v := strings.TrimSpace(value); v != "" {
		return v
	}
	return fallback
}
