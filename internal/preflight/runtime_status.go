package preflight

import (
	"bufio"
	"context"
	"os/exec"
	"strings"
	"time"
)

// ToolVersion runs `command -version` and returns a short version string
// such as "ffmpeg 7.1". Failures yield "version unknown".
func ToolVersion(ctx context.Context, command string) string {
	command = strings.TrimSpace(command)
	if command == "" {
		return "version unknown"
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	output, err := exec.CommandContext(ctx, command, "-version").Output()
	if err != nil {
		return "version unknown"
	}
	return parseVersion(string(output))
}

// parseVersion extracts "<tool> <version>" from the first line of
// `-version` output, e.g. "ffprobe version 6.1.1-3ubuntu5 Copyright ...".
func parseVersion(output string) string {
	scanner := bufio.NewScanner(strings.NewReader(output))
	if !scanner.Scan() {
		return "version unknown"
	}
	fields := strings.Fields(scanner.Text())
	if len(fields) < 3 || fields[1] != "version" {
		return "version unknown"
	}
	return fields[0] + " " + fields[2]
}
