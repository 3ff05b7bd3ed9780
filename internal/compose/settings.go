package compose

import (
	"context"

	"github.com/google/uuid"

	"slidecast/internal/config"
	"slidecast/internal/filtergraph"
)

// Settings holds the canvas and encoding constants used by every job.
type Settings struct {
	Width             int
	Height            int
	AudioRate         int
	SoundtrackFade    float64
	PointerColor      string
	PointerSimilarity float64
	PointerBlend      float64
	Encoding          filtergraph.Encoding
}

// SettingsFromConfig derives composition settings from configuration.
func SettingsFromConfig(cfg *config.Config) Settings {
	r := cfg.Render
	return Settings{
		Width:             r.Width,
		Height:            r.Height,
		AudioRate:         r.AudioRate,
		SoundtrackFade:    r.SoundtrackFade,
		PointerColor:      r.PointerColor,
		PointerSimilarity: r.PointerSimilarity,
		PointerBlend:      r.PointerBlend,
		Encoding: filtergraph.Encoding{
			VideoCodec:   r.VideoCodec,
			PixelFormat:  r.PixelFormat,
			FrameRate:    r.FrameRate,
			AudioCodec:   r.AudioCodec,
			AudioRate:    r.AudioRate,
			AudioBitrate: r.AudioBitrate,
			FastStart:    true,
		},
	}
}

// AssetPaths locates capsule assets on disk.
type AssetPaths interface {
	Slide(id uuid.UUID) string
	Extra(id uuid.UUID) string
	Record(id uuid.UUID) string
	Pointer(id uuid.UUID) string
	SoundTrack(id uuid.UUID) string
}

// FrameExtractor writes a single still frame of clip at seconds and returns
// the path of the image. The caller owns the returned file.
type FrameExtractor interface {
	ExtractFrame(ctx context.Context, clip string, seconds float64) (string, error)
}
