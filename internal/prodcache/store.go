package prodcache

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"slidecast/internal/services"
	"slidecast/internal/textutil"
)

const (
	assetsDir   = "assets"
	producedDir = "produced"
	tmpDir      = "tmp"
	lockName    = ".lock"
	capsuleName = "capsule.mp4"
)

// Store is the directory layout of one capsule:
//
//	{data_dir}/{capsule_id}/assets/    source assets, read-only
//	{data_dir}/{capsule_id}/produced/  <hash>.mp4 per segment, capsule.mp4
//	{data_dir}/{capsule_id}/tmp/       scratch files and the lock
type Store struct {
	root string
}

// NewStore returns the layout for capsuleID under dataDir.
func NewStore(dataDir, capsuleID string) (Store, error) {
	if strings.TrimSpace(dataDir) == "" {
		return Store{}, services.Wrap(services.ErrConfiguration, "prodcache", "store", "data directory is empty", nil)
	}
	if !textutil.IsSafePathSegment(capsuleID) {
		return Store{}, services.Wrap(services.ErrValidation, "prodcache", "store",
			fmt.Sprintf("invalid capsule id %q", capsuleID), nil)
	}
	return Store{root: filepath.Join(dataDir, capsuleID)}, nil
}

// Root returns the capsule directory.
func (s Store) Root() string { return s.root }

// Assets returns the asset directory.
func (s Store) Assets() string { return filepath.Join(s.root, assetsDir) }

// Produced returns the produced-output directory.
func (s Store) Produced() string { return filepath.Join(s.root, producedDir) }

// Tmp returns the scratch directory.
func (s Store) Tmp() string { return filepath.Join(s.root, tmpDir) }

// EnsureDirectories creates the produced and scratch directories.
func (s Store) EnsureDirectories() error {
	for _, dir := range []string{s.Produced(), s.Tmp()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	return nil
}

// SegmentOutput returns the produced file for a segment hash.
func (s Store) SegmentOutput(hash string) string {
	return filepath.Join(s.Produced(), hash+".mp4")
}

// CapsuleOutput returns the produced capsule file.
func (s Store) CapsuleOutput() string {
	return filepath.Join(s.Produced(), capsuleName)
}

// ScratchPath returns a fresh file name in the scratch directory.
func (s Store) ScratchPath(ext string) string {
	ext = strings.TrimPrefix(ext, ".")
	return filepath.Join(s.Tmp(), uuid.NewString()+"."+ext)
}

// Slide, Extra, Record, Pointer and SoundTrack locate assets by id.
func (s Store) Slide(id uuid.UUID) string      { return s.asset(id, "webp") }
func (s Store) Extra(id uuid.UUID) string      { return s.asset(id, "mp4") }
func (s Store) Record(id uuid.UUID) string     { return s.asset(id, "webm") }
func (s Store) Pointer(id uuid.UUID) string    { return s.asset(id, "webm") }
func (s Store) SoundTrack(id uuid.UUID) string { return s.asset(id, "m4a") }

func (s Store) asset(id uuid.UUID, ext string) string {
	return filepath.Join(s.Assets(), id.String()+"."+ext)
}

// Prune removes the output of a superseded segment hash. It reports
// whether a file was removed.
func (s Store) Prune(old *string, fresh string) (bool, error) {
	if old == nil || *old == fresh || !IsDigest(*old) {
		return false, nil
	}
	err := os.Remove(s.SegmentOutput(*old))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, fmt.Errorf("prune %s: %w", *old, err)
	}
}

// OutputInfo reports whether a produced file exists and its size.
func (s Store) OutputInfo(path string) (int64, bool) {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return 0, false
	}
	return info.Size(), true
}

// Lock is a held production lock.
type Lock struct {
	lock *flock.Flock
}

// Lock acquires the capsule production lock without blocking. A capsule
// already being produced yields ErrLocked.
func (s Store) Lock() (*Lock, error) {
	if err := os.MkdirAll(s.Tmp(), 0o755); err != nil {
		return nil, fmt.Errorf("create %s: %w", s.Tmp(), err)
	}
	lock := flock.New(filepath.Join(s.Tmp(), lockName))
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, services.Wrap(services.ErrLocked, "prodcache", "lock",
			fmt.Sprintf("capsule %s is already being produced", filepath.Base(s.root)), nil)
	}
	return &Lock{lock: lock}, nil
}

// Release drops the lock. It is safe to call on a nil Lock.
func (l *Lock) Release() error {
	if l == nil || l.lock == nil {
		return nil
	}
	return l.lock.Unlock()
}
