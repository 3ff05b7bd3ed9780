package preflight

import (
	"fmt"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"golang.org/x/sys/unix"

	"slidecast/internal/config"
	"slidecast/internal/deps"
	"slidecast/internal/prodcache"
	"slidecast/internal/services"
	"slidecast/internal/structure"
)

// MinFreeBytes is the free space below which a data directory is reported
// as failing. Rendered segments of a long capsule easily reach hundreds of
// megabytes.
const MinFreeBytes uint64 = 1 << 30

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckFreeSpace verifies that the filesystem holding path has at least
// minBytes available to unprivileged users.
func CheckFreeSpace(name, path string, minBytes uint64) Result {
	var stat unix.Statfs_t
	if err := unix.Statfs(path, &stat); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: statfs: %v)", path, err)}
	}
	free := stat.Bavail * uint64(stat.Bsize)
	detail := fmt.Sprintf("%s free on %s", humanize.IBytes(free), path)
	if free < minBytes {
		return Result{Name: name, Detail: fmt.Sprintf("%s (need %s)", detail, humanize.IBytes(minBytes))}
	}
	return Result{Name: name, Passed: true, Detail: detail}
}

// CheckSystemDeps evaluates the external tools for the given config. Both
// the produce commands and the check command use this list.
func CheckSystemDeps(cfg *config.Config) []deps.Status {
	return deps.CheckBinaries(deps.Requirements(cfg.FFmpegBinary(), cfg.FFprobeBinary()))
}

// MissingAssets lists the asset files referenced by capsule that are not
// present in the store, in document order.
func MissingAssets(store prodcache.Store, capsule structure.Capsule) []string {
	var missing []string
	seen := make(map[string]bool)
	check := func(path string) {
		if seen[path] {
			return
		}
		seen[path] = true
		if info, err := os.Stat(path); err != nil || info.IsDir() {
			missing = append(missing, path)
		}
	}
	for _, seg := range capsule.Structure {
		for _, slide := range seg.Slides {
			check(store.Slide(slide.UUID))
			if slide.Extra != nil {
				check(store.Extra(*slide.Extra))
			}
		}
		if seg.Record != nil {
			check(store.Record(seg.Record.UUID))
			if seg.Record.PointerUUID != nil {
				check(store.Pointer(*seg.Record.PointerUUID))
			}
		}
	}
	if capsule.SoundTrack != nil {
		check(store.SoundTrack(capsule.SoundTrack.UUID))
	}
	return missing
}

// CheckAssets fails with a validation error when any referenced asset is
// missing.
func CheckAssets(store prodcache.Store, capsule structure.Capsule) error {
	missing := MissingAssets(store, capsule)
	if len(missing) == 0 {
		return nil
	}
	shown := missing
	if len(shown) > 3 {
		shown = shown[:3]
	}
	msg := fmt.Sprintf("%d missing asset(s): %s", len(missing), strings.Join(shown, ", "))
	if len(missing) > len(shown) {
		msg += ", ..."
	}
	return services.Wrap(services.ErrValidation, "preflight", "assets", msg, nil)
}
