package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeBinaries()
	c.normalizeRender()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	if value, ok := os.LookupEnv("SLIDECAST_DATA_DIR"); ok && strings.TrimSpace(value) != "" {
		c.Paths.DataDir = value
	}
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	var err error
	if c.Paths.DataDir, err = expandPath(strings.TrimSpace(c.Paths.DataDir)); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeBinaries() {
	if value, ok := os.LookupEnv("SLIDECAST_FFMPEG"); ok && strings.TrimSpace(value) != "" {
		c.Binaries.FFmpeg = value
	}
	if value, ok := os.LookupEnv("SLIDECAST_FFPROBE"); ok && strings.TrimSpace(value) != "" {
		c.Binaries.FFprobe = value
	}
	c.Binaries.FFmpeg = strings.TrimSpace(c.Binaries.FFmpeg)
	if c.Binaries.FFmpeg == "" {
		c.Binaries.FFmpeg = defaultFFmpegBinary
	}
	c.Binaries.FFprobe = strings.TrimSpace(c.Binaries.FFprobe)
	if c.Binaries.FFprobe == "" {
		c.Binaries.FFprobe = defaultFFprobeBinary
	}
}

func (c *Config) normalizeRender() {
	r := &c.Render
	r.VideoCodec = strings.TrimSpace(r.VideoCodec)
	r.PixelFormat = strings.TrimSpace(r.PixelFormat)
	r.AudioCodec = strings.TrimSpace(r.AudioCodec)
	r.AudioBitrate = strings.TrimSpace(r.AudioBitrate)
	r.PointerColor = strings.ToLower(strings.TrimPrefix(strings.TrimPrefix(strings.TrimSpace(r.PointerColor), "#"), "0x"))
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
