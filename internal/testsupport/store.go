package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"

	"slidecast/internal/config"
	"slidecast/internal/prodcache"
	"slidecast/internal/structure"
)

// MustStore returns the layout of capsuleID under the config data directory
// with its produced and scratch directories created.
func MustStore(t testing.TB, cfg *config.Config, capsuleID string) prodcache.Store {
	t.Helper()

	store, err := prodcache.NewStore(cfg.Paths.DataDir, capsuleID)
	if err != nil {
		t.Fatalf("prodcache.NewStore: %v", err)
	}
	if err := store.EnsureDirectories(); err != nil {
		t.Fatalf("store.EnsureDirectories: %v", err)
	}
	return store
}

// SlideCapsule builds a capsule of record-less segments, one per prompt,
// each holding a single slide without extra.
func SlideCapsule(t testing.TB, prompts ...string) *structure.Capsule {
	t.Helper()

	if len(prompts) == 0 {
		prompts = []string{""}
	}
	capsule := &structure.Capsule{}
	for _, prompt := range prompts {
		capsule.Structure = append(capsule.Structure, structure.Segment{
			Slides: []structure.Slide{{UUID: uuid.New(), Prompt: prompt}},
		})
	}
	if err := capsule.Validate(); err != nil {
		t.Fatalf("capsule.Validate: %v", err)
	}
	return capsule
}

// WriteAssets creates placeholder files for every asset the capsule
// references.
func WriteAssets(t testing.TB, store prodcache.Store, capsule *structure.Capsule) {
	t.Helper()

	for _, seg := range capsule.Structure {
		for _, slide := range seg.Slides {
			placeholder(t, store.Slide(slide.UUID))
			if slide.Extra != nil {
				placeholder(t, store.Extra(*slide.Extra))
			}
		}
		if seg.Record != nil {
			placeholder(t, store.Record(seg.Record.UUID))
			if seg.Record.PointerUUID != nil {
				placeholder(t, store.Pointer(*seg.Record.PointerUUID))
			}
		}
	}
	if capsule.SoundTrack != nil {
		placeholder(t, store.SoundTrack(capsule.SoundTrack.UUID))
	}
}

func placeholder(t testing.TB, path string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte("asset:"+filepath.Base(path)), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
