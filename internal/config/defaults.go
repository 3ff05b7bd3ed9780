package config

const (
	defaultConfigPath           = "~/.config/slidecast/config.toml"
	defaultDataDir              = "~/.local/share/slidecast/data"
	defaultWidth                = 1920
	defaultHeight               = 1080
	defaultFrameRate            = 30
	defaultVideoCodec           = "libx264"
	defaultPixelFormat          = "yuv420p"
	defaultAudioCodec           = "aac"
	defaultAudioRate            = 48000
	defaultAudioBitrate         = "160k"
	defaultSlideDuration        = 3.0
	defaultSoundtrackFade       = 3.0
	defaultPointerColor         = "000000"
	defaultPointerSimilarity    = 0.4
	defaultPointerBlend         = 0.1
	defaultFFmpegBinary         = "ffmpeg"
	defaultFFprobeBinary        = "ffprobe"
	defaultLogFormat            = "console"
	defaultLogLevel             = "info"
	defaultCacheLock            = true
	defaultCachePruneSuperseded = true
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
		},
		Render: Render{
			Width:                defaultWidth,
			Height:               defaultHeight,
			FrameRate:            defaultFrameRate,
			VideoCodec:           defaultVideoCodec,
			PixelFormat:          defaultPixelFormat,
			AudioCodec:           defaultAudioCodec,
			AudioRate:            defaultAudioRate,
			AudioBitrate:         defaultAudioBitrate,
			DefaultSlideDuration: defaultSlideDuration,
			SoundtrackFade:       defaultSoundtrackFade,
			PointerColor:         defaultPointerColor,
			PointerSimilarity:    defaultPointerSimilarity,
			PointerBlend:         defaultPointerBlend,
		},
		Binaries: Binaries{
			FFmpeg:  defaultFFmpegBinary,
			FFprobe: defaultFFprobeBinary,
		},
		Cache: Cache{
			Lock:            defaultCacheLock,
			PruneSuperseded: defaultCachePruneSuperseded,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
