package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"slidecast/internal/config"
)

// ConfigOption adjusts the config built by NewConfig. base is the per-test
// temp directory that also holds the data dir.
type ConfigOption func(t testing.TB, base string, cfg *config.Config)

// NewConfig returns defaults with the data dir at <tmp>/data. The directory
// itself is not created.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	for _, opt := range opts {
		opt(t, base, &cfg)
	}
	return &cfg
}

func WithoutLock() ConfigOption {
	return func(_ testing.TB, _ string, cfg *config.Config) { cfg.Cache.Lock = false }
}

func WithKeepSuperseded() ConfigOption {
	return func(_ testing.TB, _ string, cfg *config.Config) { cfg.Cache.PruneSuperseded = false }
}

// WithStubbedBinaries points the ffmpeg and ffprobe settings at shell
// scripts that exit 0, so tool checks pass without a real install.
func WithStubbedBinaries() ConfigOption {
	return func(t testing.TB, base string, cfg *config.Config) {
		t.Helper()

		bin := filepath.Join(base, "bin")
		if err := os.MkdirAll(bin, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", bin, err)
		}
		stub := func(name string) string {
			path := filepath.Join(bin, name)
			if err := os.WriteFile(path, []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
				t.Fatalf("write stub %s: %v", name, err)
			}
			return path
		}
		cfg.Binaries.FFmpeg = stub("ffmpeg")
		cfg.Binaries.FFprobe = stub("ffprobe")
	}
}

// BaseDir is the temp directory behind a NewConfig config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.DataDir)
}
