package production

import (
	"context"

	"slidecast/internal/ffmpeg"
	"slidecast/internal/fileutil"
	"slidecast/internal/prodcache"
)

// scratchFrames extracts still frames into the capsule tmp directory and
// remembers them so a failed composition can clean up after itself. On a
// successful composition the frames travel with the job and are removed by
// the runner.
type scratchFrames struct {
	store   prodcache.Store
	runner  *ffmpeg.Runner
	created []string
}

func (f *scratchFrames) ExtractFrame(ctx context.Context, clip string, seconds float64) (string, error) {
	dest := f.store.ScratchPath("webp")
	f.created = append(f.created, dest)
	if err := f.runner.ExtractFrame(ctx, clip, seconds, dest); err != nil {
		return "", err
	}
	return dest, nil
}

func (f *scratchFrames) discard() error {
	return fileutil.RemoveFiles(f.created...)
}
