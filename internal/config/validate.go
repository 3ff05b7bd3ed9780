package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateRender(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if c.Paths.DataDir == "" {
		return errors.New("paths.data_dir must be set")
	}
	return nil
}

func (c *Config) validateRender() error {
	r := c.Render
	if err := ensurePositiveMap(map[string]int{
		"render.width":      r.Width,
		"render.height":     r.Height,
		"render.frame_rate": r.FrameRate,
		"render.audio_rate": r.AudioRate,
	}); err != nil {
		return err
	}
	for key, value := range map[string]string{
		"render.video_codec":   r.VideoCodec,
		"render.pixel_format":  r.PixelFormat,
		"render.audio_codec":   r.AudioCodec,
		"render.audio_bitrate": r.AudioBitrate,
	} {
		if value == "" {
			return fmt.Errorf("%s must be set", key)
		}
	}
	if r.DefaultSlideDuration <= 0 {
		return errors.New("render.default_slide_duration must be positive")
	}
	if r.SoundtrackFade < 0 {
		return errors.New("render.soundtrack_fade must not be negative")
	}
	if !isHexColor(r.PointerColor) {
		return errors.New("render.pointer_color must be a 6-digit hex color")
	}
	if r.PointerSimilarity <= 0 || r.PointerSimilarity > 1 {
		return errors.New("render.pointer_similarity must be in (0, 1]")
	}
	if r.PointerBlend < 0 || r.PointerBlend > 1 {
		return errors.New("render.pointer_blend must be between 0 and 1")
	}
	if r.TimeoutSeconds < 0 {
		return errors.New("render.timeout_seconds must not be negative")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}

func isHexColor(value string) bool {
	if len(value) != 6 {
		return false
	}
	for _, r := range value {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'f':
		default:
			return false
		}
	}
	return true
}
