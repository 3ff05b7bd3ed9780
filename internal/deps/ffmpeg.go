package deps

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// ResolveFFprobe returns the ffprobe command to run alongside ffmpegCommand.
//
// Static ffmpeg builds ship ffprobe in the same directory. When ffprobe is
// left at its bare default and ffmpeg resolves to a file with an executable
// ffprobe next to it, that sibling is preferred so both tools come from the
// same build. An explicitly configured ffprobe is returned unchanged.
func ResolveFFprobe(ffmpegCommand, ffprobeCommand string) string {
	probe := strings.TrimSpace(ffprobeCommand)
	if probe == "" {
		probe = "ffprobe"
	}
	if probe != "ffprobe" {
		return probe
	}
	ffmpeg := strings.TrimSpace(ffmpegCommand)
	if ffmpeg == "" || !strings.ContainsRune(ffmpeg, filepath.Separator) {
		return probe
	}
	resolved, err := exec.LookPath(ffmpeg)
	if err != nil {
		return probe
	}
	candidate := filepath.Join(filepath.Dir(resolved), executableName("ffprobe"))
	if info, err := os.Stat(candidate); err == nil && isExecutable(info) {
		return candidate
	}
	return probe
}

// Requirements lists the tools a render needs.
func Requirements(ffmpegCommand, ffprobeCommand string) []Requirement {
	return []Requirement{
		{
			Name:    "FFmpeg",
			Command: ffmpegCommand,
			Purpose: "Renders segments and capsules",
		},
		{
			Name:    "FFprobe",
			Command: ResolveFFprobe(ffmpegCommand, ffprobeCommand),
			Purpose: "Probes asset durations and frame sizes",
		},
	}
}

func executableName(base string) string {
	if runtime.GOOS == "windows" {
		return base + ".exe"
	}
	return base
}

func isExecutable(info os.FileInfo) bool {
	if info == nil || info.IsDir() {
		return false
	}
	if runtime.GOOS == "windows" {
		return true
	}
	return info.Mode().Perm()&0o111 != 0
}
